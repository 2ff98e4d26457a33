// Package queue2 implements the central RTGS queue: submitted payments
// awaiting liquidity or LSM netting, ordered by
// (priority desc, submission_tick asc, tx_id asc) (spec §3).
package queue2

import (
	"sort"

	"rtgssim/internal/domain"
	"rtgssim/internal/money"
)

type Queue2 struct {
	items []*domain.Transaction
}

func New() *Queue2 {
	return &Queue2{}
}

func (q *Queue2) Len() int { return len(q.items) }

// Push enqueues tx and restores the queue's total order. The queue is small
// enough per tick that a stable re-sort on every push is simpler — and just
// as deterministic — as maintaining a heap.
func (q *Queue2) Push(tx *domain.Transaction) {
	q.items = append(q.items, tx)
	q.resort()
}

func (q *Queue2) resort() {
	sort.SliceStable(q.items, func(i, j int) bool {
		a, b := q.items[i], q.items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.SubmissionTick != b.SubmissionTick {
			return a.SubmissionTick < b.SubmissionTick
		}
		return a.TxID < b.TxID
	})
}

// Items returns the queue's contents in order, without mutating it.
func (q *Queue2) Items() []*domain.Transaction {
	return q.items
}

// Remove drops tx (by TxID) from the queue, used when it settles or expires.
func (q *Queue2) Remove(txID money.TxID) {
	for i, tx := range q.items {
		if tx.TxID == txID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// ByAgentPair returns, for the given sender, the queued transactions destined
// for receiver, in queue order — the building block for the LSM bilateral
// pass (spec §4.6).
func (q *Queue2) ByAgentPair(sender, receiver money.AgentID) []*domain.Transaction {
	var out []*domain.Transaction
	for _, tx := range q.items {
		if tx.SenderID == sender && tx.ReceiverID == receiver {
			out = append(out, tx)
		}
	}
	return out
}
