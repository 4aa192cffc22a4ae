package kb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnzymesOfReaction returns the distinct enzymes that catalyse a reaction.
func (d *DB) EnzymesOfReaction(ctx context.Context, s Session, reactionID string) ([]string, error) {
	return d.queryStrings(ctx, `
		SELECT DISTINCT enzyme_id FROM catalysis
		WHERE org_id = ? AND reaction_id = ?
		ORDER BY enzyme_id
	`, s.Organism, reactionID)
}

// EnzymesOfPathway returns the distinct enzymes catalysing any reaction of
// the pathway, including reactions reached through sub-pathways and through
// pathways listed in a reaction-list. UNION drops revisited members, so a
// cyclic containment graph still terminates.
func (d *DB) EnzymesOfPathway(ctx context.Context, s Session, pathwayID string) ([]string, error) {
	return d.queryStrings(ctx, `
		WITH RECURSIVE members(id) AS (
			SELECT CAST(? AS TEXT)
			UNION
			SELECT sv.value
			FROM slot_values sv
			JOIN members m ON sv.frame_id = m.id
			WHERE sv.org_id = ? AND sv.slot IN (?, ?)
		)
		SELECT DISTINCT c.enzyme_id
		FROM catalysis c
		JOIN members m ON m.id = c.reaction_id
		WHERE c.org_id = ?
		ORDER BY c.enzyme_id
	`, pathwayID, s.Organism, SlotReactionList, SlotSubPathways, s.Organism)
}

// EnzymeActivityName names what an enzyme does within a pathway. The
// pathway-specific activity name wins, then the enzyme's common name, then
// the enzyme id itself.
func (d *DB) EnzymeActivityName(ctx context.Context, s Session, enzymeID, pathwayID string) (string, error) {
	var name string
	err := d.conn.QueryRowContext(ctx, d.q(`
		SELECT name FROM activity_names
		WHERE org_id = ? AND enzyme_id = ? AND pathway_id = ?
	`), s.Organism, enzymeID, pathwayID).Scan(&name)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reading activity name of %s in %s: %w", enzymeID, pathwayID, err)
	}

	var common sql.NullString
	err = d.conn.QueryRowContext(ctx, d.q(`
		SELECT common_name FROM frames WHERE org_id = ? AND id = ?
	`), s.Organism, enzymeID).Scan(&common)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reading enzyme %s: %w", enzymeID, err)
	}
	if common.Valid && common.String != "" {
		return common.String, nil
	}
	return enzymeID, nil
}
