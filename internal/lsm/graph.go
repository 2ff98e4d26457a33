// Package lsm implements the LSM Resolver: bilateral offset and
// multilateral cycle netting over Queue 2 (spec §4.6). The resolver is the
// adapted descendant of the teacher's mutex-guarded, map-iterating
// GridlockResolver — this version builds a transient arena of nodes indexed
// by small integers with ordered adjacency lists (spec §9: "do not use
// ambient hash iteration"), runs single-threaded within one simulation
// instance, and performs genuine cycle enumeration rather than greedy
// removal, because settling a cycle requires checking every participant's
// *net* position atomically (spec §4.6), not approximating it leg by leg.
package lsm

import (
	"sort"

	"rtgssim/internal/domain"
	"rtgssim/internal/money"
)

// edge is one queued transaction, viewed as a directed A->B edge in the
// transient settlement graph.
type edge struct {
	from int
	to   int
	tx   *domain.Transaction
}

// graph is rebuilt fresh on every resolver pass from Queue 2's current
// contents. Nodes are indexed by position in a sorted agent-ID list, so the
// same queue contents always produce the same arena layout.
type graph struct {
	agents []money.AgentID
	index  map[money.AgentID]int
	adj    [][]edge // adj[i] holds node i's outgoing edges, in queue order
}

// buildGraph indexes every agent referenced by txs (sorted ascending by
// AgentID, never by first-seen or map order) and appends one edge per
// transaction. txs must already be in
// (priority desc, submission_tick asc, tx_id asc) order — queue2.Queue2
// maintains that invariant, so each node's adjacency list inherits it
// without an extra sort here (spec §4.6's "edges considered in order").
func buildGraph(txs []*domain.Transaction) *graph {
	seen := make(map[money.AgentID]bool)
	for _, tx := range txs {
		seen[tx.SenderID] = true
		seen[tx.ReceiverID] = true
	}
	agents := make([]money.AgentID, 0, len(seen))
	for id := range seen {
		agents = append(agents, id)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })

	index := make(map[money.AgentID]int, len(agents))
	for i, id := range agents {
		index[id] = i
	}

	g := &graph{agents: agents, index: index, adj: make([][]edge, len(agents))}
	for _, tx := range txs {
		from, to := index[tx.SenderID], index[tx.ReceiverID]
		g.adj[from] = append(g.adj[from], edge{from: from, to: to, tx: tx})
	}
	return g
}
