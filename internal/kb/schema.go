package kb

import (
	"context"
	"fmt"
)

// schema is portable between SQLite and Postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS frames (
		org_id      TEXT NOT NULL,
		id          TEXT NOT NULL,
		kind        TEXT NOT NULL,
		common_name TEXT,
		spontaneous BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (org_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS slot_values (
		org_id   TEXT NOT NULL,
		frame_id TEXT NOT NULL,
		slot     TEXT NOT NULL,
		pos      INTEGER NOT NULL,
		value    TEXT NOT NULL,
		PRIMARY KEY (org_id, frame_id, slot, pos)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slot_values_value ON slot_values (org_id, slot, value)`,
	`CREATE TABLE IF NOT EXISTS catalysis (
		org_id      TEXT NOT NULL,
		enzyme_id   TEXT NOT NULL,
		reaction_id TEXT NOT NULL,
		PRIMARY KEY (org_id, enzyme_id, reaction_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalysis_reaction ON catalysis (org_id, reaction_id)`,
	`CREATE TABLE IF NOT EXISTS activity_names (
		org_id     TEXT NOT NULL,
		enzyme_id  TEXT NOT NULL,
		pathway_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		PRIMARY KEY (org_id, enzyme_id, pathway_id)
	)`,
}

// EnsureSchema creates the knowledge-base tables if they do not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
