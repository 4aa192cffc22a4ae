package kb

import "context"

// maxTypeDepth bounds the class walk so a cyclic class graph still terminates.
const maxTypeDepth = 64

// InstanceAllTypes answers the structural "all types of instance" query: the
// direct types of id plus every ancestor class reachable through the types
// slot, nearest first. Each type appears once.
func (d *DB) InstanceAllTypes(ctx context.Context, s Session, id string) ([]string, error) {
	return d.queryStrings(ctx, `
		WITH RECURSIVE ancestors(type_id, depth) AS (
			SELECT value, 1 FROM slot_values
			WHERE org_id = ? AND frame_id = ? AND slot = ?
			UNION
			SELECT sv.value, a.depth + 1
			FROM slot_values sv
			JOIN ancestors a ON sv.frame_id = a.type_id
			WHERE sv.org_id = ? AND sv.slot = ? AND a.depth < ?
		)
		SELECT type_id FROM ancestors
		GROUP BY type_id
		ORDER BY MIN(depth), type_id
	`, s.Organism, id, SlotTypes, s.Organism, SlotTypes, maxTypeDepth)
}
