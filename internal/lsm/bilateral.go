package lsm

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/queue2"
	"rtgssim/internal/settlement"
)

// bilateralPairs returns every unordered agent pair (a, b), a < b
// lexically, that currently has queued transactions in both directions —
// sorted so the pass order never depends on queue2's internal slice order.
func bilateralPairs(q *queue2.Queue2) [][2]money.AgentID {
	g := buildGraph(q.Items())
	var pairs [][2]money.AgentID
	for i := 0; i < len(g.agents); i++ {
		for j := i + 1; j < len(g.agents); j++ {
			a, b := g.agents[i], g.agents[j]
			if len(q.ByAgentPair(a, b)) > 0 && len(q.ByAgentPair(b, a)) > 0 {
				pairs = append(pairs, [2]money.AgentID{a, b})
			}
		}
	}
	return pairs
}

// minAmountLeg picks the lowest-amount transaction, ties broken by the
// lowest tx_id, per spec §4.6 "consider the minimum-amount pair first".
func minAmountLeg(legs []*domain.Transaction) *domain.Transaction {
	best := legs[0]
	for _, tx := range legs[1:] {
		if tx.Amount < best.Amount || (tx.Amount == best.Amount && tx.TxID < best.TxID) {
			best = tx
		}
	}
	return best
}

// runBilateral repeatedly settles the minimum-amount leg pair for each
// agent pair with mutual queued payments, until no pair in the current
// queue snapshot has both directions, or the overdraft check fails. Each
// settled pair is removed from q immediately so subsequent pairs see the
// updated queue (spec §4.6, §9 "pure function of queue contents and agent
// states at the start of the phase" — re-evaluated once per phase
// invocation, not across ticks).
func runBilateral(log *eventlog.Log, tick int, q *queue2.Queue2, agents map[money.AgentID]*agent.Agent) []eventlog.Event {
	var events []eventlog.Event
	for _, pair := range bilateralPairs(q) {
		a, b := pair[0], pair[1]
		for {
			legsAB := q.ByAgentPair(a, b)
			legsBA := q.ByAgentPair(b, a)
			if len(legsAB) == 0 || len(legsBA) == 0 {
				break
			}
			ab := minAmountLeg(legsAB)
			ba := minAmountLeg(legsBA)

			legs := []settlement.Leg{
				{Tx: ab, Sender: agents[a], Receiver: agents[b]},
				{Tx: ba, Sender: agents[b], Receiver: agents[a]},
			}
			ev, err := settlement.SettleGroup(log, tick, legs, eventlog.KindLsmBilateralOffset)
			if err != nil {
				break // this pair's minimum combination fails the overdraft check; move on
			}
			q.Remove(ab.TxID)
			q.Remove(ba.TxID)
			events = append(events, ev)
		}
	}
	return events
}
