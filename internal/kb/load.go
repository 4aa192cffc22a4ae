package kb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Dump is the YAML interchange format for a knowledge-base export.
type Dump struct {
	Organism   string         `yaml:"organism"`
	Frames     []DumpFrame    `yaml:"frames"`
	Catalysis  []DumpCatalyst `yaml:"catalysis"`
	Activities []DumpActivity `yaml:"activities"`
}

// DumpFrame is one frame in a Dump.
type DumpFrame struct {
	ID          string              `yaml:"id"`
	Kind        string              `yaml:"kind"`
	CommonName  *string             `yaml:"common-name"`
	Spontaneous bool                `yaml:"spontaneous"`
	Slots       map[string][]string `yaml:"slots"`
}

// DumpCatalyst links an enzyme to a reaction it catalyses.
type DumpCatalyst struct {
	Enzyme   string `yaml:"enzyme"`
	Reaction string `yaml:"reaction"`
}

// DumpActivity names an enzyme's activity within a pathway.
type DumpActivity struct {
	Enzyme  string `yaml:"enzyme"`
	Pathway string `yaml:"pathway"`
	Name    string `yaml:"name"`
}

// LoadStats reports what LoadYAML wrote.
type LoadStats struct {
	Organism   string `json:"organism"`
	Frames     int    `json:"frames"`
	SlotValues int    `json:"slot_values"`
	Catalysis  int    `json:"catalysis"`
	Activities int    `json:"activities"`
}

// ParseDump decodes a YAML dump and checks that every frame has an id and a
// known kind.
func ParseDump(r io.Reader) (*Dump, error) {
	var dump Dump
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dump); err != nil {
		return nil, fmt.Errorf("parsing dump: %w", err)
	}
	if dump.Organism == "" {
		return nil, fmt.Errorf("parsing dump: organism is required")
	}
	for i, f := range dump.Frames {
		if f.ID == "" {
			return nil, fmt.Errorf("parsing dump: frame %d has no id", i)
		}
		switch f.Kind {
		case KindPathway, KindReaction, KindEnzyme, KindClass:
		default:
			return nil, fmt.Errorf("parsing dump: frame %s has unknown kind %q", f.ID, f.Kind)
		}
	}
	return &dump, nil
}

// LoadYAML imports a YAML dump in a single transaction. Frames already
// present are replaced along with their slots.
func (d *DB) LoadYAML(ctx context.Context, r io.Reader) (*LoadStats, error) {
	dump, err := ParseDump(r)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	stats, err := d.importDump(ctx, tx, dump)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return stats, nil
}

func (d *DB) importDump(ctx context.Context, tx *sql.Tx, dump *Dump) (*LoadStats, error) {
	org := dump.Organism
	stats := &LoadStats{Organism: org}

	for _, f := range dump.Frames {
		if _, err := tx.ExecContext(ctx, d.q(`
			INSERT INTO frames (org_id, id, kind, common_name, spontaneous)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (org_id, id) DO UPDATE SET
				kind = excluded.kind,
				common_name = excluded.common_name,
				spontaneous = excluded.spontaneous
		`), org, f.ID, f.Kind, f.CommonName, f.Spontaneous); err != nil {
			return nil, fmt.Errorf("writing frame %s: %w", f.ID, err)
		}
		if _, err := tx.ExecContext(ctx, d.q(`
			DELETE FROM slot_values WHERE org_id = ? AND frame_id = ?
		`), org, f.ID); err != nil {
			return nil, fmt.Errorf("clearing slots of %s: %w", f.ID, err)
		}

		// stable slot order keeps imports reproducible
		slots := make([]string, 0, len(f.Slots))
		for slot := range f.Slots {
			slots = append(slots, slot)
		}
		sort.Strings(slots)
		for _, slot := range slots {
			for pos, value := range f.Slots[slot] {
				if _, err := tx.ExecContext(ctx, d.q(`
					INSERT INTO slot_values (org_id, frame_id, slot, pos, value)
					VALUES (?, ?, ?, ?, ?)
				`), org, f.ID, slot, pos, value); err != nil {
					return nil, fmt.Errorf("writing slot %s of %s: %w", slot, f.ID, err)
				}
				stats.SlotValues++
			}
		}
		stats.Frames++
	}

	for _, c := range dump.Catalysis {
		if _, err := tx.ExecContext(ctx, d.q(`
			INSERT INTO catalysis (org_id, enzyme_id, reaction_id)
			VALUES (?, ?, ?)
			ON CONFLICT (org_id, enzyme_id, reaction_id) DO NOTHING
		`), org, c.Enzyme, c.Reaction); err != nil {
			return nil, fmt.Errorf("writing catalysis %s/%s: %w", c.Enzyme, c.Reaction, err)
		}
		stats.Catalysis++
	}

	for _, a := range dump.Activities {
		if _, err := tx.ExecContext(ctx, d.q(`
			INSERT INTO activity_names (org_id, enzyme_id, pathway_id, name)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (org_id, enzyme_id, pathway_id) DO UPDATE SET name = excluded.name
		`), org, a.Enzyme, a.Pathway, a.Name); err != nil {
			return nil, fmt.Errorf("writing activity %s/%s: %w", a.Enzyme, a.Pathway, err)
		}
		stats.Activities++
	}
	return stats, nil
}
