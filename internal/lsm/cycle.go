package lsm

import "sort"

// cyclePath is a candidate simple cycle: an ordered sequence of edges
// A->B->...->A, discovered by DFS from the graph's lowest-indexed node.
type cyclePath struct {
	edges []edge
}

// concatenatedAgentIDs is the tie-break key from spec §4.6: "ties broken by
// lowest concatenated agent_id sequence".
func (c cyclePath) concatenatedAgentIDs(g *graph) string {
	var s string
	for _, e := range c.edges {
		s += string(g.agents[e.from]) + "|"
	}
	return s
}

// findCycles enumerates every simple cycle starting and ending at node
// start, up to maxLen edges, by DFS following each node's adjacency list in
// its stored (priority desc, submission_tick asc, tx_id asc) order (spec
// §4.6: "edges considered in order"). Returned in no particular order —
// the caller sorts by the spec's shortest-first / tie-break rule.
func findCycles(g *graph, start int, maxLen int) []cyclePath {
	var found []cyclePath
	onPath := make([]bool, len(g.agents))
	var path []edge

	var visit func(node int)
	visit = func(node int) {
		if len(path) >= maxLen {
			return
		}
		for _, e := range g.adj[node] {
			if e.to == start && len(path) >= 1 {
				cycle := make([]edge, len(path)+1)
				copy(cycle, path)
				cycle[len(path)] = e
				found = append(found, cyclePath{edges: cycle})
				continue
			}
			if onPath[e.to] || e.to == start {
				continue // already visited on this path, or would close a sub-cycle shorter than intended
			}
			onPath[e.to] = true
			path = append(path, e)
			visit(e.to)
			path = path[:len(path)-1]
			onPath[e.to] = false
		}
	}

	onPath[start] = true
	visit(start)
	return found
}

// sortCycles orders candidates shortest-first, ties broken by lowest
// concatenated agent_id sequence (spec §4.6).
func sortCycles(g *graph, cycles []cyclePath) {
	sort.SliceStable(cycles, func(i, j int) bool {
		if len(cycles[i].edges) != len(cycles[j].edges) {
			return len(cycles[i].edges) < len(cycles[j].edges)
		}
		return cycles[i].concatenatedAgentIDs(g) < cycles[j].concatenatedAgentIDs(g)
	})
}
