package graph

import (
	"sort"

	"metacyc/pwyexport/internal/kb"
)

// Cycles returns the strongly connected groups of pathways that contain
// each other, directly or through other pathways. Each group is sorted and
// groups are ordered by their first id. Self-references are not reported.
func Cycles(snap *Snapshot) [][]string {
	ids := snap.IDsOfKind(kb.KindPathway)
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	n := len(ids)
	succ := make([][]int, n)
	for i, id := range ids {
		for _, m := range snap.pathwayMembers(id) {
			if j := idx[m]; j != i {
				succ[i] = append(succ[i], j)
			}
		}
	}

	// iterative Tarjan
	const unvisited = 0
	disc := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	var stack []int
	counter := 1
	var groups [][]string

	type frame struct{ node, ni int }

	for start := 0; start < n; start++ {
		if disc[start] != unvisited {
			continue
		}
		disc[start], low[start] = counter, counter
		counter++
		stack = append(stack, start)
		onStack[start] = true
		call := []frame{{start, 0}}

		for len(call) > 0 {
			top := &call[len(call)-1]
			v := top.node
			if top.ni < len(succ[v]) {
				w := succ[v][top.ni]
				top.ni++
				if disc[w] == unvisited {
					disc[w], low[w] = counter, counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					call = append(call, frame{w, 0})
				} else if onStack[w] && disc[w] < low[v] {
					low[v] = disc[w]
				}
				continue
			}

			call = call[:len(call)-1]
			if len(call) > 0 {
				p := call[len(call)-1].node
				if low[v] < low[p] {
					low[p] = low[v]
				}
			}
			if low[v] != disc[v] {
				continue
			}
			var group []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				group = append(group, ids[w])
				if w == v {
					break
				}
			}
			if len(group) > 1 {
				sort.Strings(group)
				groups = append(groups, group)
			}
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// SelfReferences returns the sorted pathways that list themselves as a member.
func SelfReferences(snap *Snapshot) []string {
	var out []string
	for _, id := range snap.IDsOfKind(kb.KindPathway) {
		for _, m := range snap.OutAdj[id] {
			if m == id {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
