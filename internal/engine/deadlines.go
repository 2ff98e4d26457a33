package engine

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/cost"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
)

// outstandingTransactions returns every transaction still live in Queue 1 or
// Queue 2, in deterministic (agentIDs, queue) order — the universe phase 8
// and phase 9 both scan for overdue transactions.
func (e *Engine) outstandingTransactions() []*domain.Transaction {
	var out []*domain.Transaction
	for _, id := range e.agentIDs {
		out = append(out, e.agents[id].Queue1.Front()...)
	}
	out = append(out, e.queue2.Items()...)
	return out
}

// checkDeadlines is phase 8: any outstanding transaction past its deadline
// that hasn't already been flagged gets marked DeadlineViolated and emits
// DeadlineViolation exactly once; every tick after that it's simply Overdue
// (spec §4.1 "8", §8 scenario 4).
func (e *Engine) checkDeadlines(tick int) int {
	violations := 0
	for _, tx := range e.outstandingTransactions() {
		if !tx.IsOverdue(tick) {
			continue
		}
		if tx.DeadlineViolated {
			e.log.Append(tick, eventlog.KindOverdue, tx.TxID, []money.AgentID{tx.SenderID}, tx.Amount, nil)
			continue
		}
		tx.DeadlineViolated = true
		violations++
		e.log.Append(tick, eventlog.KindDeadlineViolation, tx.TxID, []money.AgentID{tx.SenderID}, tx.Amount, map[string]interface{}{
			"deadline_tick": tx.DeadlineTick,
		})
	}
	return violations
}

// accrueCosts is phase 9: every agent accrues its liquidity/collateral/delay
// costs for the tick, and every still-overdue transaction accrues its fixed
// deadline penalty against the sender (spec §4.1 "9", §4.8).
func (e *Engine) accrueCosts(tick int) {
	for _, id := range e.agentIDs {
		a := e.agents[id]
		cost.AccrueTick(e.log, tick, a, e.cfg.CostRates)
		a.RecordPressureSample()
	}
	for _, tx := range e.outstandingTransactions() {
		if !tx.IsOverdue(tick) {
			continue
		}
		sender, err := e.mustAgent(tx.SenderID)
		if err != nil {
			continue
		}
		cost.AccrueDeadlinePenalty(e.log, tick, sender, e.cfg.CostRates, tx.TxID)
	}
}

// scenarioPostTickAndEOD is phase 10: the dispatcher runs again so events
// scheduled against this tick but not yet fired still fire before the tick
// closes (Execute is idempotent per event, so anything phase 1 already fired
// is skipped), then end-of-day bookkeeping logs once every TicksPerDay
// ticks (spec §4.1 "10").
func (e *Engine) scenarioPostTickAndEOD(tick int) {
	e.dispatcher.Execute(e.log, tick, e.scenarioDeps())
	for _, tx := range e.dispatcher.Created() {
		e.registerTx(tx)
	}

	ticksPerDay := e.cfg.Simulation.TicksPerDay
	if ticksPerDay > 0 && (tick+1)%ticksPerDay == 0 {
		e.log.Append(tick, eventlog.KindEndOfDay, "", nil, 0, map[string]interface{}{
			"day": tick / ticksPerDay,
		})
	}
}

// tickCostDelta sums every agent's total accrued cost delta recorded this
// tick by diffing the running total against the snapshot taken at the end of
// the previous tick.
func (e *Engine) tickCostDelta() money.Money {
	var total money.Money
	for _, id := range e.agentIDs {
		total += e.agents[id].AccruedCosts.Total()
	}
	delta := total - e.lastCostTotal
	e.lastCostTotal = total
	return delta
}

// queue1Total sums every agent's Queue 1 length (spec §6 "queue1_total_size").
func (e *Engine) queue1Total() int {
	total := 0
	for _, id := range e.agentIDs {
		total += e.agents[id].Queue1.Len()
	}
	return total
}

// policyTrend computes the liquidity_pressure_trend derived metric input for
// a, sharing the exact talib.Sma smoothing policy.Trend uses so the value an
// agent's snapshot carries into this tick's policy pass matches what the
// Policy ABI's own derived-metric evaluation would produce from the same
// history (spec §4.3 liquidity_pressure_trend).
func (e *Engine) policyTrend(a *agent.Agent) float64 {
	return policy.Trend(a.PressureHistory(), a.LiquidityPressure())
}
