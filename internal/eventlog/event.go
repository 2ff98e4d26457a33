// Package eventlog implements the append-only, totally ordered record of
// every observable event the engine produces (spec §3, §4.10). Events are
// created once, never mutated, never deleted; the log is the sole
// cross-component coordination signal for observers and the basis of the
// engine's replay-identity guarantee.
package eventlog

import "rtgssim/internal/money"

type Kind string

const (
	KindArrival                 Kind = "Arrival"
	KindPolicyDecision          Kind = "PolicyDecision"
	KindQueue1Release           Kind = "Queue1Release"
	KindRtgsImmediateSettlement Kind = "RtgsImmediateSettlement"
	KindQueue2Hold              Kind = "Queue2Hold"
	KindQueue2Release           Kind = "Queue2Release"
	KindLsmBilateralOffset      Kind = "LsmBilateralOffset"
	KindLsmCycleSettlement      Kind = "LsmCycleSettlement"
	KindSplit                   Kind = "Split"
	KindCollateralPosted        Kind = "CollateralPosted"
	KindCollateralWithdrawn     Kind = "CollateralWithdrawn"
	KindCostAccrual             Kind = "CostAccrual"
	KindDeadlineViolation       Kind = "DeadlineViolation"
	KindOverdue                 Kind = "Overdue"
	KindScenarioEventExecuted   Kind = "ScenarioEventExecuted"
	KindEndOfDay                Kind = "EndOfDay"
)

// Event is an immutable, totally ordered record. Seq is a per-tick monotonic
// counter; (Tick, Seq) totally orders every event the engine ever emits.
type Event struct {
	Tick    int
	Seq     int
	Kind    Kind
	TxID    money.TxID      // zero value if not transaction-scoped
	AgentIDs []money.AgentID // zero or more agents this event concerns
	Amount  money.Money
	Details map[string]interface{}
}
