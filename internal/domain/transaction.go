// Package domain holds the types shared across the engine's components:
// Transaction, collateral lots, accrued-cost breakdowns, and the read-only
// context/decision types the Policy ABI evaluates against (spec §3, §4.3).
package domain

import "rtgssim/internal/money"

type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusQueued1 TransactionStatus = "queued1"
	StatusQueued2 TransactionStatus = "queued2"
	StatusSettled TransactionStatus = "settled"
	StatusDropped    TransactionStatus = "dropped"
	StatusExpired    TransactionStatus = "expired"
	StatusSuperseded TransactionStatus = "superseded" // split into children; see ParentTxID on the children
)

// Transaction is a single payment instruction. A transaction settles in
// full or is split into children that each settle in full; partial
// settlement of the same TxID is forbidden (spec §3).
type Transaction struct {
	TxID         money.TxID
	SenderID     money.AgentID
	ReceiverID   money.AgentID
	Amount       money.Money
	Priority     int // 0..9
	ArrivalTick  int
	DeadlineTick int
	Divisible    bool
	ParentTxID   money.TxID // zero value if not a split child
	Status       TransactionStatus

	// SubmissionTick is the tick the transaction was released into Queue 2
	// (spec §3's Queue 2 ordering key). Zero until released.
	SubmissionTick int

	// DeadlineViolated is set once at the tick DeadlineViolation fires, so
	// the cost accountant can tell "first violation" from "still overdue".
	DeadlineViolated bool
}

// IsOverdue reports whether tx has passed its deadline without settling.
func (t *Transaction) IsOverdue(tick int) bool {
	return t.Status != StatusSettled && t.Status != StatusDropped && tick > t.DeadlineTick
}
