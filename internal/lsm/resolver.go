package lsm

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/queue2"
	"rtgssim/internal/settlement"
)

// Resolver runs the LSM pass once per tick (spec §4.6). It holds no mutable
// state between calls — every field is read-only configuration — so a
// single Resolver may be shared read-only across concurrent simulation
// instances in internal/batch; all mutation happens on the Queue2/Agent
// values passed into Run.
type Resolver struct {
	Enabled        bool
	MaxCycleLength int
}

// Run executes the bilateral pass followed by the multilateral pass against
// the current contents of q and agents, returning every settlement event
// produced, in the order they occurred. Disabled resolvers are a no-op
// (spec §8: "LSM disabled ⇒ no LsmBilateralOffset or LsmCycleSettlement
// events").
func (r Resolver) Run(log *eventlog.Log, tick int, q *queue2.Queue2, agents map[money.AgentID]*agent.Agent) []eventlog.Event {
	if !r.Enabled {
		return nil
	}
	var events []eventlog.Event
	events = append(events, runBilateral(log, tick, q, agents)...)
	events = append(events, r.runMultilateral(log, tick, q, agents)...)
	return events
}

// runMultilateral rebuilds the transient graph after every successful
// settlement (agent balances and queue contents both just changed) and
// restarts the search from the lowest-indexed node that has not yet proven
// cycle-free this pass. A node only leaves the "exhausted" set when some
// other settlement changes the graph, since only then could its candidate
// cycles possibly become feasible again.
func (r Resolver) runMultilateral(log *eventlog.Log, tick int, q *queue2.Queue2, agents map[money.AgentID]*agent.Agent) []eventlog.Event {
	var events []eventlog.Event
	exhausted := make(map[money.AgentID]bool)

	for {
		g := buildGraph(q.Items())
		start, ok := lowestUnexhaustedSource(g, exhausted)
		if !ok {
			return events
		}

		cycles := findCycles(g, start, r.MaxCycleLength)
		sortCycles(g, cycles)

		settled := false
		for _, c := range cycles {
			legs := make([]settlement.Leg, len(c.edges))
			for i, e := range c.edges {
				legs[i] = settlement.Leg{
					Tx:       e.tx,
					Sender:   agents[g.agents[e.from]],
					Receiver: agents[g.agents[e.to]],
				}
			}
			ev, err := settlement.SettleGroup(log, tick, legs, eventlog.KindLsmCycleSettlement)
			if err != nil {
				continue // this cycle's net positions fail the overdraft check; try the next candidate
			}
			for _, e := range c.edges {
				q.Remove(e.tx.TxID)
			}
			events = append(events, ev)
			settled = true
			break
		}

		if !settled {
			exhausted[g.agents[start]] = true
			continue
		}
		exhausted = make(map[money.AgentID]bool) // graph changed: previously exhausted nodes may be live again
	}
}

// lowestUnexhaustedSource returns the index of the lowest-ID node that still
// has an outgoing edge and is not in exhausted.
func lowestUnexhaustedSource(g *graph, exhausted map[money.AgentID]bool) (int, bool) {
	for i, id := range g.agents {
		if len(g.adj[i]) == 0 || exhausted[id] {
			continue
		}
		return i, true
	}
	return 0, false
}
