package engine

import (
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

// settlementKinds lists every eventlog.Kind that represents one transaction
// (or, for the group kinds, a set of transactions named in "tx_ids")
// reaching StatusSettled — the set updateMetrics scans each tick to compute
// delay statistics.
var settlementKinds = map[eventlog.Kind]bool{
	eventlog.KindRtgsImmediateSettlement: true,
	eventlog.KindQueue2Release:           true,
	eventlog.KindLsmBilateralOffset:      true,
	eventlog.KindLsmCycleSettlement:      true,
}

// accumulatedMetrics holds the running totals GetSystemMetrics reports
// (spec §6 "get_system_metrics"). Everything here is derived incrementally
// from each tick's TickSummary plus a scan of live agent state — nothing is
// recomputed from the full event log, so query cost stays O(num_agents)
// regardless of how long the simulation has run.
type accumulatedMetrics struct {
	totalArrivals     int
	totalSettlements  int
	arrivalsToday     int
	settlementsToday  int
	delayTicksSum     int64
	delayCount        int
	maxDelayTicks     int
	peakOverdraft     money.Money
	agentsInOverdraft map[money.AgentID]bool
}

// SystemMetrics is the read-only rollup an external observer polls
// (spec §6 "get_system_metrics" response fields).
type SystemMetrics struct {
	TotalArrivals     int
	TotalSettlements  int
	SettlementRate    float64 // total_settlements / total_arrivals, 0 if no arrivals yet
	AvgDelayTicks     float64
	MaxDelayTicks     int
	Queue1TotalSize   int
	Queue2TotalSize   int
	PeakOverdraft     money.Money
	AgentsInOverdraft int // count of distinct agents that have ever carried credit_used > 0
}

// systemSnapshot builds the read-only SystemSnapshot a policy evaluation may
// consult (spec §4.3). TotalArrivalsToday resets at each end-of-day
// boundary; TotalSettlements is the cumulative count over the whole run.
func (e *Engine) systemSnapshot() domain.SystemSnapshot {
	return domain.SystemSnapshot{
		Queue2Size:         e.queue2.Len(),
		TotalArrivalsToday: e.metrics.arrivalsToday,
		TotalSettlements:   e.metrics.totalSettlements,
	}
}

// updateMetrics folds one tick's summary and a fresh scan of live agent
// state into the running accumulators (spec §4.1 "after phase 10").
func (e *Engine) updateMetrics(tick int, summary TickSummary) {
	m := &e.metrics
	if m.agentsInOverdraft == nil {
		m.agentsInOverdraft = make(map[money.AgentID]bool)
	}

	m.totalArrivals += summary.Arrivals
	m.arrivalsToday += summary.Arrivals

	settledThisTick := summary.ImmediateSettlements + summary.LSMBilateralOffsets + summary.LSMCycleSettlements + summary.Queue2Settlements
	m.totalSettlements += settledThisTick
	m.settlementsToday += settledThisTick

	for _, id := range e.agentIDs {
		a := e.agents[id]
		used := a.CreditUsed()
		if used > 0 {
			m.agentsInOverdraft[id] = true
			if used > m.peakOverdraft {
				m.peakOverdraft = used
			}
		}
	}

	for _, ev := range e.log.Events(tick) {
		if !settlementKinds[ev.Kind] {
			continue
		}
		for _, txID := range settledTxIDs(ev) {
			tx, ok := e.txIndex[txID]
			if !ok {
				continue
			}
			delay := tick - tx.ArrivalTick
			m.delayTicksSum += int64(delay)
			m.delayCount++
			if delay > m.maxDelayTicks {
				m.maxDelayTicks = delay
			}
		}
	}

	ticksPerDay := e.cfg.Simulation.TicksPerDay
	if ticksPerDay > 0 && (tick+1)%ticksPerDay == 0 {
		m.arrivalsToday = 0
		m.settlementsToday = 0
	}
}

// settledTxIDs extracts the transaction ID(s) a settlement event names: a
// single-leg Settle event carries its TxID directly, a multi-leg
// SettleGroup event carries every leg's ID in Details["tx_ids"].
func settledTxIDs(ev eventlog.Event) []money.TxID {
	if ids, ok := ev.Details["tx_ids"]; ok {
		if raw, ok := ids.([]string); ok {
			out := make([]money.TxID, len(raw))
			for i, s := range raw {
				out[i] = money.TxID(s)
			}
			return out
		}
	}
	if ev.TxID != "" {
		return []money.TxID{ev.TxID}
	}
	return nil
}

// GetSystemMetrics returns the current rollup (spec §6 "get_system_metrics").
func (e *Engine) GetSystemMetrics() SystemMetrics {
	m := e.metrics
	rate := 0.0
	if m.totalArrivals > 0 {
		rate = float64(m.totalSettlements) / float64(m.totalArrivals)
	}
	avgDelay := 0.0
	if m.delayCount > 0 {
		avgDelay = float64(m.delayTicksSum) / float64(m.delayCount)
	}
	return SystemMetrics{
		TotalArrivals:     m.totalArrivals,
		TotalSettlements:  m.totalSettlements,
		SettlementRate:    rate,
		AvgDelayTicks:      avgDelay,
		MaxDelayTicks:      m.maxDelayTicks,
		Queue1TotalSize:   e.queue1Total(),
		Queue2TotalSize:   e.queue2.Len(),
		PeakOverdraft:     m.peakOverdraft,
		AgentsInOverdraft: len(m.agentsInOverdraft),
	}
}
