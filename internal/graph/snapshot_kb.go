package graph

import (
	"context"
	"fmt"

	"metacyc/pwyexport/internal/kb"
	"metacyc/pwyexport/internal/pathway"
)

// Store is the knowledge base surface a snapshot is loaded from.
type Store interface {
	AllPathways(ctx context.Context, s kb.Session) ([]string, error)
	SlotValuesByKind(ctx context.Context, s kb.Session, kind string, slots ...string) (map[string]map[string][]string, error)
}

var _ Store = (*kb.DB)(nil)

// SnapshotFromKB loads the containment graph of every pathway of s.
// Members that are not pathway frames become reaction nodes, except ids that
// follow the pathway naming convention or are listed as sub-pathways, which
// become missing nodes.
func SnapshotFromKB(ctx context.Context, st Store, s kb.Session) (*Snapshot, error) {
	ids, err := st.AllPathways(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("listing pathways: %w", err)
	}
	slots, err := st.SlotValuesByKind(ctx, s, kb.KindPathway, kb.SlotReactionList, kb.SlotSubPathways)
	if err != nil {
		return nil, fmt.Errorf("loading pathway members: %w", err)
	}

	nodes := make(map[string]*NodeInfo, len(ids))
	for _, id := range ids {
		nodes[id] = &NodeInfo{ID: id, Kind: kb.KindPathway}
	}

	var edges []EdgeInfo
	member := func(src, id, via string) {
		if _, ok := nodes[id]; !ok {
			kind := kb.KindReaction
			if via == kb.SlotSubPathways || pathway.IsPathwayID(id) {
				kind = KindMissing
			}
			nodes[id] = &NodeInfo{ID: id, Kind: kind}
		}
		edges = append(edges, EdgeInfo{Source: src, Target: id, Via: via})
	}
	for _, id := range ids {
		for _, m := range slots[id][kb.SlotReactionList] {
			member(id, m, kb.SlotReactionList)
		}
		for _, m := range slots[id][kb.SlotSubPathways] {
			member(id, m, kb.SlotSubPathways)
		}
	}

	list := make([]*NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, n)
	}
	return NewSnapshot(list, edges), nil
}
