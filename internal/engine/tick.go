package engine

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/internal/scenario"
	"rtgssim/internal/settlement"
)

// TickSummary is what Tick() returns: the counts and totals an external
// caller needs without re-querying the engine (spec §6 "tick() →
// TickSummary").
type TickSummary struct {
	Tick                 int
	Arrivals             int
	PolicyReleases       int
	PolicyHolds          int
	PolicyDrops          int
	Splits               int
	ImmediateSettlements int
	LSMBilateralOffsets  int
	LSMCycleSettlements  int
	Queue2Settlements    int
	DeadlineViolations   int
	TotalCostDelta       money.Money
	Queue1Total          int
	Queue2Size           int
}

// Tick runs the ten phases of spec §4.1 in order and returns their summary.
// Agent iteration within every phase walks e.agentIDs — a slice sorted once
// at construction — never a map range (spec §4.1, §9).
func (e *Engine) Tick() TickSummary {
	tick := e.tick
	e.log.BeginTick()

	e.scenarioPreTick(tick)
	summary := TickSummary{Tick: tick}
	summary.Arrivals = e.generateArrivals(tick)
	summary.PolicyReleases, summary.PolicyHolds, summary.PolicyDrops, summary.Splits = e.runPolicyPass(tick)
	summary.ImmediateSettlements = e.submitToRTGS(tick)

	lsmEvents := e.runLSMPass(tick)
	for _, ev := range lsmEvents {
		switch ev.Kind {
		case eventlog.KindLsmBilateralOffset:
			summary.LSMBilateralOffsets++
		case eventlog.KindLsmCycleSettlement:
			summary.LSMCycleSettlements++
		}
	}

	summary.Queue2Settlements = e.sweepQueue2(tick)
	e.processCollateralTimers(tick)
	summary.DeadlineViolations = e.checkDeadlines(tick)
	e.accrueCosts(tick)
	e.scenarioPostTickAndEOD(tick)

	summary.TotalCostDelta = e.tickCostDelta()
	summary.Queue1Total = e.queue1Total()
	summary.Queue2Size = e.queue2.Len()

	e.updateMetrics(tick, summary)

	e.tick++
	return summary
}

// scenarioPreTick is phase 1: scenario events scheduled at this tick fire
// before arrivals (spec §4.1 "1").
func (e *Engine) scenarioPreTick(tick int) {
	e.dispatcher.Execute(e.log, tick, e.scenarioDeps())
	for _, tx := range e.dispatcher.Created() {
		e.registerTx(tx)
	}
}

func (e *Engine) scenarioDeps() scenario.Deps {
	return scenario.Deps{
		Agents:          e.agents,
		Generators:      e.generators,
		MinHoldingTicks: e.cfg.Collateral.MinHoldingTicks,
		SafetyBuffer:    e.cfg.Collateral.SafetyBuffer,
	}
}

// generateArrivals is phase 2: each agent's generator samples this tick's
// arrivals into Queue 1 (spec §4.1 "2").
func (e *Engine) generateArrivals(tick int) int {
	total := 0
	for _, id := range e.agentIDs {
		a := e.agents[id]
		gen := e.generators[id]
		for _, tx := range gen.Next(e.log, tick) {
			a.Queue1.Push(tx)
			e.registerTx(tx)
			total++
		}
	}
	return total
}

// runPolicyPass is phase 3: evaluate each agent's policy against its
// Queue 1, front to back, applying Release/Hold/Drop/Split/Reprioritize
// (spec §4.1 "3", §4.3, §4.5).
func (e *Engine) runPolicyPass(tick int) (releases, holds, drops, splits int) {
	e.released = e.released[:0]
	for _, id := range e.agentIDs {
		a := e.agents[id]
		ev := e.policies[id]
		r, h, d, s := e.runAgentPolicy(tick, a, ev)
		releases += r
		holds += h
		drops += d
		splits += s
	}
	return
}

func (e *Engine) runAgentPolicy(tick int, a *agent.Agent, ev policy.Evaluator) (releases, holds, drops, splits int) {
	snapshot := a.Snapshot(e.policyTrend(a))
	sys := e.systemSnapshot()
	clock := domain.Clock{Tick: tick, Day: e.CurrentDay(), TicksPerDay: e.cfg.Simulation.TicksPerDay}

	i := 0
	for i < a.Queue1.Len() {
		front := a.Queue1.Front()
		tx := front[i]

		ctx := policy.Context{
			Tx: tx, Agent: snapshot, System: sys, Clock: clock,
			PressureHistory: a.PressureHistory(),
		}
		decision := ev.Evaluate(ctx)

		switch decision.Kind {
		case domain.DecisionHold:
			holds++
			i++
		case domain.DecisionRelease:
			tx.Status = domain.StatusQueued1
			a.Queue1.Remove(i)
			e.released = append(e.released, tx)
			releases++
		case domain.DecisionDrop:
			tx.Status = domain.StatusDropped
			a.Queue1.Remove(i)
			e.log.Append(tick, eventlog.KindQueue1Release, tx.TxID, []money.AgentID{a.ID}, tx.Amount, map[string]interface{}{
				"outcome": "dropped",
			})
			drops++
		case domain.DecisionSplit:
			e.splitTransaction(tick, a, tx, decision, i)
			if tx.Status != domain.StatusSuperseded {
				i++ // split was a no-op: tx stays in Queue 1 for the next tick
				continue
			}
			splits++
		case domain.DecisionReprioritize:
			tx.Priority = decision.NewPriority
			i++
		}
	}
	return
}
