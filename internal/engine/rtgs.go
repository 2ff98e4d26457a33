package engine

import (
	"rtgssim/internal/collateral"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/settlement"
	pkgerrors "rtgssim/pkg/errors"
)

// submitToRTGS is phase 4: every transaction the policy pass released this
// tick attempts immediate settlement, in released-order; anything that fails
// on liquidity grounds falls through to Queue 2 instead of blocking the rest
// of the batch (spec §4.1 "4", §4.4).
func (e *Engine) submitToRTGS(tick int) int {
	settled := 0
	for _, tx := range e.released {
		sender, err := e.mustAgent(tx.SenderID)
		if err != nil {
			continue
		}
		receiver, err := e.mustAgent(tx.ReceiverID)
		if err != nil {
			continue
		}

		_, err = settlement.Settle(e.log, tick, sender, receiver, tx, eventlog.KindRtgsImmediateSettlement)
		if err == nil {
			settled++
			continue
		}
		if err != pkgerrors.ErrInsufficientLiquidity {
			continue
		}

		tx.Status = domain.StatusQueued2
		tx.SubmissionTick = tick
		e.queue2.Push(tx)
		e.log.Append(tick, eventlog.KindQueue2Hold, tx.TxID, []money.AgentID{sender.ID, receiver.ID}, tx.Amount, map[string]interface{}{
			"reason": "insufficient_liquidity",
		})
	}
	return settled
}

// runLSMPass is phase 5: a thin call into the LSM Resolver, which owns the
// bilateral and multilateral algorithms entirely (spec §4.1 "5", §4.6).
func (e *Engine) runLSMPass(tick int) []eventlog.Event {
	return e.lsmResolver.Run(e.log, tick, e.queue2, e.agents)
}

// sweepQueue2 is phase 6: walk Queue 2 in its standing order, attempting
// settlement for whatever liquidity now allows after the LSM pass, removing
// whatever settles. A snapshot of the queue's current order is taken first
// since settlement mutates the queue out from under a live iteration
// (spec §4.1 "6").
func (e *Engine) sweepQueue2(tick int) int {
	settled := 0
	items := append([]*domain.Transaction(nil), e.queue2.Items()...)
	for _, tx := range items {
		if tx.Status == domain.StatusSettled {
			continue
		}
		sender, err := e.mustAgent(tx.SenderID)
		if err != nil {
			continue
		}
		receiver, err := e.mustAgent(tx.ReceiverID)
		if err != nil {
			continue
		}
		_, err = settlement.Settle(e.log, tick, sender, receiver, tx, eventlog.KindQueue2Release)
		if err != nil {
			continue
		}
		e.queue2.Remove(tx.TxID)
		settled++
	}
	return settled
}

// processCollateralTimers is phase 7: every agent's timer-driven collateral
// auto-withdrawal runs once per tick (spec §4.1 "7", §4.7).
func (e *Engine) processCollateralTimers(tick int) {
	for _, id := range e.agentIDs {
		a := e.agents[id]
		collateral.ProcessTimers(e.log, tick, a, e.cfg.Collateral.MinHoldingTicks, e.cfg.Collateral.SafetyBuffer)
	}
}
