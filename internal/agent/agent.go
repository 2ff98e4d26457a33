// Package agent holds per-agent simulation state: balance, credit line,
// collateral book, Queue 1, and accrued costs (spec §3 Agent State).
package agent

import (
	"rtgssim/internal/domain"
	"rtgssim/internal/money"
)

// Agent is one participant in the payment network.
type Agent struct {
	ID           money.AgentID
	Balance      money.Money
	CreditLimit  money.Money
	Collateral   []domain.CollateralLot
	Queue1       *Queue1
	AccruedCosts domain.AccruedCosts

	// lotSeq is a per-agent counter feeding money.NewLotID.
	lotSeq int

	// pressureHistory is a ring buffer of recent per-tick
	// credit-used/allowed-overdraft-limit ratios, feeding the Policy ABI's
	// liquidity_pressure_trend derived metric (SPEC_FULL §4.3+).
	pressureHistory []float64
}

const pressureHistoryLen = 14

func New(id money.AgentID, openingBalance, creditLimit money.Money) *Agent {
	return &Agent{
		ID:          id,
		Balance:     openingBalance,
		CreditLimit: creditLimit,
		Queue1:      NewQueue1(),
	}
}

// CreditUsed is max(-balance, 0), per spec §3/GLOSSARY.
func (a *Agent) CreditUsed() money.Money {
	return money.Max0(a.Balance.Neg())
}

// AllowedOverdraftLimit is credit_limit + floor(Σ face_value_i*(1-haircut_i)),
// per spec §3/GLOSSARY. Recomputed from the live collateral book every call
// so it can never drift from the lots actually posted.
func (a *Agent) AllowedOverdraftLimit() money.Money {
	total := a.CreditLimit
	for _, lot := range a.Collateral {
		total += lot.RetainedValue()
	}
	return total
}

// PostedCollateralFaceValue sums the face value of every posted lot
// (spec §6 get_agent_state "posted_collateral").
func (a *Agent) PostedCollateralFaceValue() money.Money {
	var total money.Money
	for _, lot := range a.Collateral {
		total += lot.FaceValue
	}
	return total
}

// LiquidityPressure is credit_used / allowed_overdraft_limit, clamped to 0
// when the limit itself is 0 (an agent with no credit/collateral can never
// be "under pressure" by this ratio — it simply cannot go negative).
func (a *Agent) LiquidityPressure() float64 {
	limit := a.AllowedOverdraftLimit()
	if limit <= 0 {
		return 0
	}
	return float64(a.CreditUsed()) / float64(limit)
}

// RecordPressureSample appends the current liquidity pressure to the
// agent's trend history, truncating to the trailing window the derived
// metric is smoothed over.
func (a *Agent) RecordPressureSample() {
	a.pressureHistory = append(a.pressureHistory, a.LiquidityPressure())
	if len(a.pressureHistory) > pressureHistoryLen {
		a.pressureHistory = a.pressureHistory[len(a.pressureHistory)-pressureHistoryLen:]
	}
}

// PressureHistory exposes the raw sample window so the policy package can
// run talib.Sma over it without this package importing talib itself.
func (a *Agent) PressureHistory() []float64 {
	return a.pressureHistory
}

// NextLotSeq returns the next per-agent collateral-lot sequence number and
// advances the counter, used by the collateral package to derive LotIDs.
func (a *Agent) NextLotSeq() int {
	seq := a.lotSeq
	a.lotSeq++
	return seq
}

// Snapshot returns the read-only view the Policy ABI and external observers
// consult (spec §4.3, §6 get_agent_state). trend is computed by the policy
// package (which owns the talib dependency) and passed in.
func (a *Agent) Snapshot(trend float64) domain.AgentSnapshot {
	return domain.AgentSnapshot{
		AgentID:                a.ID,
		Balance:                a.Balance,
		CreditLimit:            a.CreditLimit,
		CreditUsed:             a.CreditUsed(),
		AllowedOverdraftLimit:  a.AllowedOverdraftLimit(),
		PostedCollateral:       a.PostedCollateralFaceValue(),
		Queue1Size:             a.Queue1.Len(),
		LiquidityPressure:      a.LiquidityPressure(),
		LiquidityPressureTrend: trend,
		AccruedCosts:           a.AccruedCosts,
	}
}
