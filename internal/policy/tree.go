// Package policy implements the Policy ABI: a tree of nodes evaluated
// against a read-only (transaction, agent, system, clock) context, returning
// a Decision (spec §4.3). Leaves are actions, internal nodes are
// comparisons, logical/arithmetic operators, and value sources.
package policy

// NodeKind tags the variant a Node holds. Forbid recursive self-reference at
// load time (spec §4.3, §9) — enforced by Tree.Validate.
type NodeKind int

const (
	// Value sources
	KindConstant NodeKind = iota
	KindTxField
	KindAgentField
	KindSystemField
	KindDerivedMetric

	// Comparisons
	KindEquals
	KindLessThan
	KindGreaterThan
	KindLessOrEqual
	KindGreaterOrEqual

	// Logical
	KindAnd
	KindOr
	KindNot

	// Arithmetic
	KindAdd
	KindSub
	KindMul
	KindDiv

	// Actions (leaves)
	KindActionRelease
	KindActionHold
	KindActionDrop
	KindActionSplit
	KindActionReprioritize

	// Control
	KindIf
)

// TxField/AgentField/SystemField name which field a value-source node reads.
type TxField string

const (
	TxFieldAmount       TxField = "amount"
	TxFieldPriority     TxField = "priority"
	TxFieldDeadlineTick TxField = "deadline_tick"
	TxFieldArrivalTick  TxField = "arrival_tick"
)

type AgentField string

const (
	AgentFieldBalance               AgentField = "balance"
	AgentFieldCreditUsed            AgentField = "credit_used"
	AgentFieldAllowedOverdraftLimit AgentField = "allowed_overdraft_limit"
	AgentFieldQueue1Size            AgentField = "queue1_size"
)

type SystemField string

const (
	SystemFieldQueue2Size SystemField = "queue2_size"
)

// DerivedMetric names a computed value source beyond the raw fields above
// (spec §4.3: "derived metric such as urgency_score, liquidity_pressure").
type DerivedMetric string

const (
	MetricUrgencyScore            DerivedMetric = "urgency_score"
	MetricLiquidityPressure       DerivedMetric = "liquidity_pressure"
	MetricLiquidityPressureTrend  DerivedMetric = "liquidity_pressure_trend"
)

// Node is a tagged-union tree node. Children are referenced by index into
// the owning Tree's Nodes slice, not by pointer, so load-time cycle
// detection (spec §9: "arena-backed tagged-variant node representation") is
// a linear scan for back-edges rather than pointer-chasing.
type Node struct {
	Kind NodeKind

	// Value-source payload
	Constant      float64
	TxField       TxField
	AgentField    AgentField
	SystemField   SystemField
	DerivedMetric DerivedMetric

	// Operator payload: indices of operand nodes within the tree.
	Operands []int

	// If-node payload: Operands[0] is the condition, Then/Else are branch
	// node indices.
	Then int
	Else int

	// Action payload
	NewPriority int
	SplitN      int // number of equal parts for KindActionSplit
}

// Tree is an arena of Nodes; Root indexes the evaluation entry point.
type Tree struct {
	Nodes []Node
	Root  int
}

func (t *Tree) childIndices(n Node) []int {
	switch n.Kind {
	case KindIf:
		return []int{n.Operands[0], n.Then, n.Else}
	default:
		return n.Operands
	}
}
