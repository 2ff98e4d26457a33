package policy

import (
	"github.com/markcheno/go-talib"

	"rtgssim/internal/domain"
	"rtgssim/internal/money"
)

// Context is the read-only (transaction, agent, system, clock) view a
// policy evaluates against (spec §4.3).
type Context struct {
	Tx     *domain.Transaction
	Agent  domain.AgentSnapshot
	System domain.SystemSnapshot
	Clock  domain.Clock

	// PressureHistory backs the liquidity_pressure_trend derived metric;
	// supplied by the caller (agent.Agent.PressureHistory) rather than
	// recomputed here, since only the agent package owns the ring buffer.
	PressureHistory []float64
}

// Evaluator is the narrow interface built-in and declarative policies share
// (spec §9 "Dynamic dispatch"): the only way a policy influences the engine
// is by returning a Decision from Evaluate.
type Evaluator interface {
	Evaluate(ctx Context) domain.Decision
}

// TreePolicy evaluates a validated Tree against a Context. The evaluator is
// pure, side-effect free, and bounded in depth by the tree's own (acyclic,
// validated) structure (spec §4.3).
type TreePolicy struct {
	Tree Tree
}

func (p TreePolicy) Evaluate(ctx Context) domain.Decision {
	return evalNode(p.Tree, p.Tree.Root, ctx)
}

// decisionSignal carries an action leaf's Decision: evaluation short-circuits
// by panicking with one, and evalNode recovers it at the top-level call and
// returns the Decision. This keeps the evaluator
// a single recursive function without threading a "did we decide yet" flag
// through every call site.
type decisionSignal struct {
	decision domain.Decision
}

func evalNode(t Tree, idx int, ctx Context) (result domain.Decision) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(decisionSignal); ok {
				result = sig.decision
				return
			}
			panic(r)
		}
	}()
	evalValue(t, idx, ctx)
	// A well-formed tree's root always reaches an action leaf, which exits
	// via the panic/recover above. Reaching here means it didn't — default
	// to Hold, the conservative no-op decision.
	return domain.Decision{Kind: domain.DecisionHold}
}

func evalValue(t Tree, idx int, ctx Context) float64 {
	n := t.Nodes[idx]
	switch n.Kind {
	case KindConstant:
		return n.Constant

	case KindTxField:
		switch n.TxField {
		case TxFieldAmount:
			return float64(ctx.Tx.Amount)
		case TxFieldPriority:
			return float64(ctx.Tx.Priority)
		case TxFieldDeadlineTick:
			return float64(ctx.Tx.DeadlineTick)
		case TxFieldArrivalTick:
			return float64(ctx.Tx.ArrivalTick)
		}
		return 0

	case KindAgentField:
		switch n.AgentField {
		case AgentFieldBalance:
			return float64(ctx.Agent.Balance)
		case AgentFieldCreditUsed:
			return float64(ctx.Agent.CreditUsed)
		case AgentFieldAllowedOverdraftLimit:
			return float64(ctx.Agent.AllowedOverdraftLimit)
		case AgentFieldQueue1Size:
			return float64(ctx.Agent.Queue1Size)
		}
		return 0

	case KindSystemField:
		switch n.SystemField {
		case SystemFieldQueue2Size:
			return float64(ctx.System.Queue2Size)
		}
		return 0

	case KindDerivedMetric:
		return evalDerivedMetric(n.DerivedMetric, ctx)

	case KindEquals:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) == evalValue(t, n.Operands[1], ctx))
	case KindLessThan:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) < evalValue(t, n.Operands[1], ctx))
	case KindGreaterThan:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) > evalValue(t, n.Operands[1], ctx))
	case KindLessOrEqual:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) <= evalValue(t, n.Operands[1], ctx))
	case KindGreaterOrEqual:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) >= evalValue(t, n.Operands[1], ctx))

	case KindAnd:
		for _, op := range n.Operands {
			if evalValue(t, op, ctx) == 0 {
				return 0
			}
		}
		return 1
	case KindOr:
		for _, op := range n.Operands {
			if evalValue(t, op, ctx) != 0 {
				return 1
			}
		}
		return 0
	case KindNot:
		return boolToFloat(evalValue(t, n.Operands[0], ctx) == 0)

	case KindAdd:
		var sum float64
		for _, op := range n.Operands {
			sum += evalValue(t, op, ctx)
		}
		return sum
	case KindSub:
		return evalValue(t, n.Operands[0], ctx) - evalValue(t, n.Operands[1], ctx)
	case KindMul:
		product := 1.0
		for _, op := range n.Operands {
			product *= evalValue(t, op, ctx)
		}
		return product
	case KindDiv:
		denom := evalValue(t, n.Operands[1], ctx)
		if denom == 0 {
			return 0
		}
		return evalValue(t, n.Operands[0], ctx) / denom

	case KindIf:
		if evalValue(t, n.Operands[0], ctx) != 0 {
			return evalValue(t, n.Then, ctx)
		}
		return evalValue(t, n.Else, ctx)

	case KindActionRelease:
		panic(decisionSignal{domain.Decision{Kind: domain.DecisionRelease}})
	case KindActionHold:
		panic(decisionSignal{domain.Decision{Kind: domain.DecisionHold}})
	case KindActionDrop:
		panic(decisionSignal{domain.Decision{Kind: domain.DecisionDrop}})
	case KindActionSplit:
		parts := make([]domain.SplitPart, n.SplitN)
		share := ctx.Tx.Amount / money.Money(n.SplitN)
		remainder := ctx.Tx.Amount - share*money.Money(n.SplitN)
		for i := range parts {
			amt := share
			if i == 0 {
				amt += remainder // any rounding remainder goes to the first child
			}
			parts[i] = domain.SplitPart{Amount: amt}
		}
		panic(decisionSignal{domain.Decision{Kind: domain.DecisionSplit, SplitParts: parts}})
	case KindActionReprioritize:
		panic(decisionSignal{domain.Decision{Kind: domain.DecisionReprioritize, NewPriority: n.NewPriority}})
	}
	return 0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// evalDerivedMetric computes the named metric from ctx. urgency_score rises
// as the deadline approaches (and exceeds 1 once overdue; a zero-length
// arrival-to-deadline window always scores exactly 1); liquidity_pressure
// mirrors agent.Agent.LiquidityPressure(); liquidity_pressure_trend smooths
// the agent's recent pressure samples with talib's SMA, giving policies a
// trend signal distinct from the instantaneous ratio.
func evalDerivedMetric(m DerivedMetric, ctx Context) float64 {
	switch m {
	case MetricUrgencyScore:
		remaining := ctx.Tx.DeadlineTick - ctx.Clock.Tick
		window := ctx.Tx.DeadlineTick - ctx.Tx.ArrivalTick
		if window <= 0 {
			return 1
		}
		return 1 - float64(remaining)/float64(window)

	case MetricLiquidityPressure:
		return ctx.Agent.LiquidityPressure

	case MetricLiquidityPressureTrend:
		return Trend(ctx.PressureHistory, ctx.Agent.LiquidityPressure)
	}
	return 0
}

// Trend smooths a pressure-sample history with talib's SMA, falling back to
// current when there is no history yet. Exported so agent.Agent.Snapshot
// callers (the engine, between ticks) compute the same
// liquidity_pressure_trend value the evaluator itself would derive, without
// duplicating the talib call.
func Trend(history []float64, current float64) float64 {
	if len(history) == 0 {
		return current
	}
	smoothed := talib.Sma(history, len(history))
	return smoothed[len(smoothed)-1]
}
