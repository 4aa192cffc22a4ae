// Package graph analyzes the pathway containment graph: which pathways list
// which reactions and sub-pathways.
package graph

import (
	"sort"

	"metacyc/pwyexport/internal/kb"
)

// KindMissing marks a pathway-like member that no pathway frame backs.
const KindMissing = "missing"

// NodeInfo is a pathway or member reaction, decoupled from KB types
type NodeInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // kb.KindPathway, kb.KindReaction or KindMissing
}

// EdgeInfo says that Source lists Target in slot Via
type EdgeInfo struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Via    string `json:"via"`
}

// Snapshot holds the containment graph with precomputed adjacency lists
type Snapshot struct {
	Nodes  map[string]*NodeInfo
	Edges  []EdgeInfo
	Adj    map[string][]string // undirected
	OutAdj map[string][]string // pathway -> members
	InAdj  map[string][]string // member -> pathways listing it
}

// NewSnapshot builds a Snapshot. Edges whose endpoints are not among nodes
// are dropped, and a member listed twice by the same pathway yields one edge.
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *Snapshot {
	nodeMap := make(map[string]*NodeInfo, len(nodes))
	adj := make(map[string][]string)
	outAdj := make(map[string][]string)
	inAdj := make(map[string][]string)

	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = nil
		outAdj[n.ID] = nil
		inAdj[n.ID] = nil
	}

	type pair struct{ s, t string }
	seen := make(map[pair]bool, len(edges))
	var kept []EdgeInfo
	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		if seen[pair{e.Source, e.Target}] {
			continue
		}
		seen[pair{e.Source, e.Target}] = true
		kept = append(kept, e)
		outAdj[e.Source] = append(outAdj[e.Source], e.Target)
		inAdj[e.Target] = append(inAdj[e.Target], e.Source)
		if e.Source != e.Target {
			adj[e.Source] = append(adj[e.Source], e.Target)
			adj[e.Target] = append(adj[e.Target], e.Source)
		}
	}

	return &Snapshot{
		Nodes:  nodeMap,
		Edges:  kept,
		Adj:    adj,
		OutAdj: outAdj,
		InAdj:  inAdj,
	}
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *Snapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDsOfKind returns the sorted ids of nodes of one kind.
func (s *Snapshot) IDsOfKind(kind string) []string {
	var ids []string
	for id, n := range s.Nodes {
		if n.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// pathwayMembers returns the members of id that are themselves pathways.
func (s *Snapshot) pathwayMembers(id string) []string {
	var out []string
	for _, m := range s.OutAdj[id] {
		if n := s.Nodes[m]; n != nil && n.Kind == kb.KindPathway {
			out = append(out, m)
		}
	}
	return out
}
