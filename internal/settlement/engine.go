// Package settlement implements the single primitive that moves money
// between agents (spec §4.4). It is the only component that mutates agent
// balances; every other component reaches it through Settle or
// SettleGroup.
package settlement

import (
	"fmt"

	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	pkgerrors "rtgssim/pkg/errors"
)

// Settle atomically checks that sender.Balance - tx.Amount >=
// -sender.AllowedOverdraftLimit(), then debits sender, credits receiver,
// marks tx Settled, and appends a settlement event. If the check fails it
// returns ErrInsufficientLiquidity and mutates nothing (spec §4.4 I1).
//
// kind selects which event Kind to record (RtgsImmediateSettlement for the
// phase-4 path, Queue2Release for the sweep, or an LSM kind for netted
// legs), so every settlement path shares this one code path while still
// producing the event the spec calls for.
func Settle(log *eventlog.Log, tick int, sender, receiver *agent.Agent, tx *domain.Transaction, kind eventlog.Kind) (eventlog.Event, error) {
	if tx.Status == domain.StatusSettled {
		return eventlog.Event{}, fmt.Errorf("%w: %s", pkgerrors.ErrAlreadySettled, tx.TxID)
	}

	projected := sender.Balance - tx.Amount
	if projected < -sender.AllowedOverdraftLimit() {
		return eventlog.Event{}, pkgerrors.ErrInsufficientLiquidity
	}

	sender.Balance = projected
	receiver.Balance += tx.Amount
	tx.Status = domain.StatusSettled

	ev := log.Append(tick, kind, tx.TxID, []money.AgentID{sender.ID, receiver.ID}, tx.Amount, map[string]interface{}{
		"sender":   sender.ID,
		"receiver": receiver.ID,
		"amount":   tx.Amount,
	})
	return ev, nil
}
