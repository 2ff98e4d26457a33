package engine

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/cost"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

// splitTransaction applies a Split decision (spec §4.5). Indivisible
// transactions cannot be split — the decision is downgraded to a no-op
// (the transaction is left in place, re-evaluated next tick) rather than
// raising a ConstraintViolation, since a policy's own field read of
// tx.Divisible should have prevented this in the first place and the
// engine must not halt over a local policy mistake (spec §7 "local
// recoverables... returned to the caller").
func (e *Engine) splitTransaction(tick int, a *agent.Agent, parent *domain.Transaction, decision domain.Decision, queueIndex int) {
	if !parent.Divisible || len(decision.SplitParts) < 2 {
		return
	}

	children := make([]*domain.Transaction, len(decision.SplitParts))
	childIDs := make([]string, len(decision.SplitParts))
	for i, part := range decision.SplitParts {
		child := &domain.Transaction{
			TxID:         money.NewChildTxID(parent.TxID, i),
			SenderID:     parent.SenderID,
			ReceiverID:   parent.ReceiverID,
			Amount:       part.Amount,
			Priority:     parent.Priority,
			ArrivalTick:  parent.ArrivalTick,
			DeadlineTick: parent.DeadlineTick,
			Divisible:    false, // a split child never splits again
			ParentTxID:   parent.TxID,
			Status:       domain.StatusQueued1,
		}
		children[i] = child
		childIDs[i] = string(child.TxID)
		e.registerTx(child)
	}

	parent.Status = domain.StatusSuperseded
	a.Queue1.Remove(queueIndex)
	for _, child := range children {
		a.Queue1.Push(child)
	}
	// Children just pushed land at the back of Queue 1, so the index the
	// loop resumes from is unaffected by the removal above.

	e.log.Append(tick, eventlog.KindSplit, parent.TxID, []money.AgentID{a.ID}, parent.Amount, map[string]interface{}{
		"children": childIDs,
	})
	cost.AccrueSplitFriction(e.log, tick, a, e.cfg.CostRates, len(children))
}
