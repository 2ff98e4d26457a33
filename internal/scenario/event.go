// Package scenario implements the Scenario Dispatcher: a schedule of
// one-shot events that fire exactly once at their configured tick, in
// insertion order (spec §4.9).
package scenario

import "rtgssim/internal/money"

type Kind string

const (
	KindDirectTransfer           Kind = "DirectTransfer"
	KindAgentArrivalRateChange   Kind = "AgentArrivalRateChange"
	KindGlobalArrivalRateChange  Kind = "GlobalArrivalRateChange"
	KindDeadlineWindowChange     Kind = "DeadlineWindowChange"
	KindCounterpartyWeightChange Kind = "CounterpartyWeightChange"
	KindCollateralAdjustment     Kind = "CollateralAdjustment"
	KindCustomTransactionArrival Kind = "CustomTransactionArrival"
)

// Event is one scheduled, one-shot scenario instruction. Payload holds one
// of the *Params types below, matching Kind; the dispatcher does not
// interpret it beyond routing it to the matching apply function
// (spec §6 "scenario_events[]").
type Event struct {
	Tick    int
	Kind    Kind
	Payload interface{}

	fired bool
}

// DirectTransferParams forces a settlement between two agents outside the
// normal arrival/queue pipeline, but still through the Settlement Engine
// (spec §4.9: "DirectTransfer routes through the Settlement Engine").
type DirectTransferParams struct {
	Sender, Receiver money.AgentID
	Amount           money.Money
}

// AgentArrivalRateChangeParams multiplies one agent's rate_per_tick.
type AgentArrivalRateChangeParams struct {
	AgentID money.AgentID
	Factor  float64
}

// GlobalArrivalRateChangeParams multiplies every agent's rate_per_tick.
type GlobalArrivalRateChangeParams struct {
	Factor float64
}

// DeadlineWindowChangeParams replaces an agent's deadline sampling bounds.
type DeadlineWindowChangeParams struct {
	AgentID            money.AgentID
	DeadlineMin, DeadlineMax int
}

// CounterpartyWeightChangeParams sets one counterparty's weight for an
// agent; if Rebalance is set, the remaining counterparties' weights are
// scaled proportionally so the total stays 1 (spec §4.9 "optionally
// re-balancing others proportionally").
type CounterpartyWeightChangeParams struct {
	AgentID      money.AgentID
	Counterparty money.AgentID
	NewWeight    float64
	Rebalance    bool
}

// CollateralAdjustmentParams posts or withdraws collateral outside the
// manual/timer paths, still through collateral.Post/Withdraw so the guard
// invariants are never bypassed.
type CollateralAdjustmentParams struct {
	AgentID money.AgentID
	Amount  money.Money // positive: post; negative: withdraw
	Haircut money.Haircut
	LotID   money.LotID // required for a withdrawal
}

// CustomTransactionArrivalParams injects a transaction outside the
// generator's sampled stream, e.g. to reproduce a hand-authored scenario.
type CustomTransactionArrivalParams struct {
	Sender, Receiver money.AgentID
	Amount           money.Money
	Priority         int
	DeadlineTick     int
	Divisible        bool
}
