package domain

import "rtgssim/internal/money"

// Clock is the read-only time context passed to a policy evaluation
// (spec §4.3).
type Clock struct {
	Tick        int
	Day         int
	TicksPerDay int
}

// AgentSnapshot is the read-only view of an agent a policy evaluates
// against. It never exposes mutable engine internals (spec §9, "Dynamic
// dispatch": implementations "cannot see engine internals beyond the
// snapshot passed in").
type AgentSnapshot struct {
	AgentID                money.AgentID
	Balance                money.Money
	CreditLimit             money.Money
	CreditUsed              money.Money
	AllowedOverdraftLimit   money.Money
	PostedCollateral        money.Money
	Queue1Size              int
	LiquidityPressure       float64 // credit_used / allowed_overdraft_limit, 0 if limit is 0
	LiquidityPressureTrend  float64 // talib.Sma-smoothed LiquidityPressure over recent ticks
	AccruedCosts            AccruedCosts
}

// SystemSnapshot is the read-only view of system-wide state a policy may
// consult.
type SystemSnapshot struct {
	Queue2Size          int
	TotalArrivalsToday  int
	TotalSettlements    int
}

// DecisionKind enumerates the actions a policy evaluation may return
// (spec §4.1, §4.3).
type DecisionKind int

const (
	DecisionRelease DecisionKind = iota
	DecisionHold
	DecisionDrop
	DecisionSplit
	DecisionReprioritize
)

// SplitPart describes one child of a Split decision: the exact amount that
// child carries, taken from the parent's amount.
type SplitPart struct {
	Amount money.Money
}

// Decision is the sole output of a policy evaluation (spec §4.3). The
// evaluator is pure: it never mutates ctx and always returns the same
// Decision for the same inputs.
type Decision struct {
	Kind        DecisionKind
	SplitParts  []SplitPart // populated only when Kind == DecisionSplit
	NewPriority int         // populated only when Kind == DecisionReprioritize
}
