// Package cost implements the Cost Accountant: per-tick accrual of
// liquidity, delay, collateral, split-friction, and deadline-penalty costs
// (spec §4.8). All costs are integer cents, monotonically non-decreasing.
package cost

import (
	"github.com/shopspring/decimal"

	"rtgssim/internal/agent"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

// Rates holds the per-tick fractional rates applied to balances/queues
// (spec §6 cost_rates). Liquidity, Collateral, and Delay are fractions
// applied to a Money amount; DeadlinePenalty is itself a flat Money amount
// per overdue transaction per tick.
type Rates struct {
	Liquidity            decimal.Decimal
	Delay                decimal.Decimal
	CollateralOpportunity decimal.Decimal
	SplitFriction         decimal.Decimal
	DeadlinePenalty       money.Money
}

// applyRate multiplies an exact Money amount by a decimal fraction and
// floors to the nearest cent — the same exact-decimal-then-floor pattern
// AllowedOverdraftLimit uses, so no float64 ever enters cost accrual.
func applyRate(amount money.Money, rate decimal.Decimal) money.Money {
	result := decimal.NewFromInt(int64(amount)).Mul(rate).Floor()
	return money.Money(result.IntPart())
}

// AccrueTick computes and applies one tick's liquidity, collateral, and
// delay costs for a single agent, returning the CostAccrual event. Called
// once per agent per tick by the orchestrator's cost-accrual phase
// (spec §4.1 phase 9).
func AccrueTick(log *eventlog.Log, tick int, a *agent.Agent, rates Rates) eventlog.Event {
	liquidityDelta := applyRate(a.CreditUsed(), rates.Liquidity)

	var collateralBase money.Money
	for _, lot := range a.Collateral {
		collateralBase += lot.FaceValue
	}
	collateralDelta := applyRate(collateralBase, rates.CollateralOpportunity)

	var delayBase money.Money
	for _, tx := range a.Queue1.Front() {
		delayBase += tx.Amount
	}
	delayDelta := applyRate(delayBase, rates.Delay)

	a.AccruedCosts.Liquidity += liquidityDelta
	a.AccruedCosts.Collateral += collateralDelta
	a.AccruedCosts.Delay += delayDelta

	return log.Append(tick, eventlog.KindCostAccrual, "", nil, 0, map[string]interface{}{
		"agent_id":          a.ID,
		"liquidity_delta":   liquidityDelta,
		"collateral_delta":  collateralDelta,
		"delay_delta":       delayDelta,
	})
}

// AccrueSplitFriction records the one-time split-friction cost for a parent
// transaction split into n parts (spec §4.5: "proportional to N-1").
func AccrueSplitFriction(log *eventlog.Log, tick int, a *agent.Agent, rates Rates, n int) eventlog.Event {
	delta := applyRate(money.Money(n-1), rates.SplitFriction)
	a.AccruedCosts.SplitFriction += delta
	return log.Append(tick, eventlog.KindCostAccrual, "", []money.AgentID{a.ID}, delta, map[string]interface{}{
		"agent_id":            a.ID,
		"split_friction_delta": delta,
	})
}

// AccrueDeadlinePenalty records one tick's fixed penalty for a still-overdue
// transaction (spec §4.8: "a fixed amount per overdue transaction per tick
// past deadline").
func AccrueDeadlinePenalty(log *eventlog.Log, tick int, a *agent.Agent, rates Rates, txID money.TxID) eventlog.Event {
	a.AccruedCosts.DeadlinePenalty += rates.DeadlinePenalty
	return log.Append(tick, eventlog.KindCostAccrual, txID, []money.AgentID{a.ID}, rates.DeadlinePenalty, map[string]interface{}{
		"agent_id":              a.ID,
		"deadline_penalty_delta": rates.DeadlinePenalty,
	})
}
