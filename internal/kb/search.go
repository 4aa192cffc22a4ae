package kb

import (
	"context"
	"strings"
)

// PathwayMatch is a pathway found by SearchPathways.
type PathwayMatch struct {
	ID         string `json:"id"`
	CommonName string `json:"common_name"`
}

// SearchPathways finds pathways whose id or common name contains text,
// case-insensitively. Returns an empty slice for blank input.
func (d *DB) SearchPathways(ctx context.Context, s Session, text string, limit int) ([]PathwayMatch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []PathwayMatch{}, nil
	}
	pattern := "%" + strings.ToLower(text) + "%"

	rows, err := d.conn.QueryContext(ctx, d.q(`
		SELECT id, COALESCE(common_name, '')
		FROM frames
		WHERE org_id = ? AND kind = ?
		  AND (LOWER(id) LIKE ? OR LOWER(COALESCE(common_name, '')) LIKE ?)
		ORDER BY id
		LIMIT ?
	`), s.Organism, KindPathway, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []PathwayMatch
	for rows.Next() {
		var m PathwayMatch
		if err := rows.Scan(&m.ID, &m.CommonName); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SlotValuesByKind returns, for every frame of the given kind, the values of
// the requested slots keyed by frame id then slot name.
func (d *DB) SlotValuesByKind(ctx context.Context, s Session, kind string, slots ...string) (map[string]map[string][]string, error) {
	out := map[string]map[string][]string{}
	for _, slot := range slots {
		rows, err := d.conn.QueryContext(ctx, d.q(`
			SELECT sv.frame_id, sv.value
			FROM slot_values sv
			JOIN frames f ON f.org_id = sv.org_id AND f.id = sv.frame_id
			WHERE sv.org_id = ? AND f.kind = ? AND sv.slot = ?
			ORDER BY sv.frame_id, sv.pos
		`), s.Organism, kind, slot)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id, value string
			if err := rows.Scan(&id, &value); err != nil {
				rows.Close()
				return nil, err
			}
			if out[id] == nil {
				out[id] = map[string][]string{}
			}
			out[id][slot] = append(out[id][slot], value)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
