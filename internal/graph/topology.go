package graph

import (
	"sort"

	"metacyc/pwyexport/internal/kb"
)

// SharedReaction is a reaction listed by several pathways
type SharedReaction struct {
	ID       string `json:"id"`
	Pathways int    `json:"pathways"`
}

// Report contains containment analysis results
type Report struct {
	Pathways          int              `json:"pathways"`
	Reactions         int              `json:"reactions"`
	Edges             int              `json:"edges"`
	SuperpathwayCount int              `json:"superpathway_count"`
	Superpathways     []string         `json:"superpathways"`
	NumComponents     int              `json:"num_components"`
	LargestComponent  int              `json:"largest_component"`
	OrphanCount       int              `json:"orphan_count"`
	OrphanIDs         []string         `json:"orphan_ids"`
	MissingPathways   []string         `json:"missing_pathways"`
	MaxDepth          int              `json:"max_depth"`
	DeepestPathway    string           `json:"deepest_pathway,omitempty"`
	Cycles            [][]string       `json:"cycles"`
	SelfReferences    []string         `json:"self_references"`
	SharedReactions   []SharedReaction `json:"shared_reactions"`
}

// Analyze computes counts, components, orphans, nesting depth, cycles and
// the reactions shared by the most pathways. Lists are capped at topN.
func Analyze(snap *Snapshot, topN int) *Report {
	pathways := snap.IDsOfKind(kb.KindPathway)
	reactions := snap.IDsOfKind(kb.KindReaction)

	r := &Report{
		Pathways:        len(pathways),
		Reactions:       len(reactions),
		Edges:           len(snap.Edges),
		MissingPathways: snap.IDsOfKind(KindMissing),
		Cycles:          Cycles(snap),
		SelfReferences:  SelfReferences(snap),
	}
	if len(snap.Nodes) == 0 {
		return r
	}

	uf := NewUnionFind(snap.NodeIDs())
	for _, e := range snap.Edges {
		uf.Union(e.Source, e.Target)
	}
	components := uf.Components()
	r.NumComponents = len(components)
	r.LargestComponent = len(components[0])

	var supers, orphans []string
	for _, id := range pathways {
		if len(snap.OutAdj[id]) == 0 {
			orphans = append(orphans, id)
		}
		for _, m := range snap.OutAdj[id] {
			if k := snap.Nodes[m].Kind; (k == kb.KindPathway && m != id) || k == KindMissing {
				supers = append(supers, id)
				break
			}
		}
	}
	r.SuperpathwayCount = len(supers)
	r.Superpathways = capped(supers, topN)
	r.OrphanCount = len(orphans)
	r.OrphanIDs = capped(orphans, topN)

	depths := nestingDepths(snap, pathways)
	for _, id := range pathways {
		if depths[id] > r.MaxDepth {
			r.MaxDepth = depths[id]
			r.DeepestPathway = id
		}
	}

	var shared []SharedReaction
	for _, id := range reactions {
		if n := len(snap.InAdj[id]); n > 1 {
			shared = append(shared, SharedReaction{ID: id, Pathways: n})
		}
	}
	sort.SliceStable(shared, func(i, j int) bool { return shared[i].Pathways > shared[j].Pathways })
	if len(shared) > topN {
		shared = shared[:topN]
	}
	r.SharedReactions = shared
	return r
}

// nestingDepths returns, per pathway, the length of its longest chain of
// pathway members, counting itself. Edges closing a cycle are ignored.
func nestingDepths(snap *Snapshot, pathways []string) map[string]int {
	depth := make(map[string]int, len(pathways))
	active := make(map[string]bool)

	var visit func(id string) int
	visit = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		active[id] = true
		best := 0
		for _, m := range snap.pathwayMembers(id) {
			if active[m] {
				continue
			}
			if d := visit(m); d > best {
				best = d
			}
		}
		active[id] = false
		depth[id] = best + 1
		return depth[id]
	}
	for _, id := range pathways {
		visit(id)
	}
	return depth
}

func capped(ids []string, n int) []string {
	if n >= 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}
