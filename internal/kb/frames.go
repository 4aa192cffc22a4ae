package kb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Frame returns the frame for id with all of its slots loaded.
// Returns ErrNotFound if the id is unknown in the session's organism.
func (d *DB) Frame(ctx context.Context, s Session, id string) (*Frame, error) {
	f := Frame{ID: id, Slots: map[string][]string{}}
	var name sql.NullString
	err := d.conn.QueryRowContext(ctx, d.q(`
		SELECT kind, common_name, spontaneous
		FROM frames WHERE org_id = ? AND id = ?
	`), s.Organism, id).Scan(&f.Kind, &name, &f.Spontaneous)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading frame %s: %w", id, err)
	}
	if name.Valid {
		f.CommonName = &name.String
	}

	rows, err := d.conn.QueryContext(ctx, d.q(`
		SELECT slot, value FROM slot_values
		WHERE org_id = ? AND frame_id = ?
		ORDER BY slot, pos
	`), s.Organism, id)
	if err != nil {
		return nil, fmt.Errorf("reading slots of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, value string
		if err := rows.Scan(&slot, &value); err != nil {
			return nil, err
		}
		f.Slots[slot] = append(f.Slots[slot], value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &f, nil
}

// AllPathways returns the ids of every pathway frame, ordered by id.
func (d *DB) AllPathways(ctx context.Context, s Session) ([]string, error) {
	return d.queryStrings(ctx, `
		SELECT id FROM frames
		WHERE org_id = ? AND kind = ?
		ORDER BY id
	`, s.Organism, KindPathway)
}

// CountFrames returns the number of frames per kind.
func (d *DB) CountFrames(ctx context.Context, s Session) (map[string]int, error) {
	rows, err := d.conn.QueryContext(ctx, d.q(`
		SELECT kind, COUNT(*) FROM frames WHERE org_id = ? GROUP BY kind
	`), s.Organism)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// queryStrings runs a query returning a single text column.
func (d *DB) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, d.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
