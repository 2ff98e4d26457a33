package agent

import "rtgssim/internal/domain"

// Queue1 is an agent's private outgoing hold queue, kept in insertion order;
// membership is exclusive to one agent (spec §3, §4.1 phase 3). It is not
// sorted by (arrival_tick, tx_id): arrivals of one tick keep generation
// order, and split children are appended behind later arrivals.
type Queue1 struct {
	items []*domain.Transaction
}

func NewQueue1() *Queue1 {
	return &Queue1{}
}

func (q *Queue1) Len() int { return len(q.items) }

// Push appends tx to the back of the queue; it does not reorder existing
// entries.
func (q *Queue1) Push(tx *domain.Transaction) {
	q.items = append(q.items, tx)
}

// Front returns the queue's contents front-to-back without mutating it, for
// the policy pass to evaluate in order (spec §4.1 phase 3).
func (q *Queue1) Front() []*domain.Transaction {
	return q.items
}

// Remove drops the transaction at position i (already evaluated by the
// policy pass) — used for Release, Drop, and Split outcomes, each of which
// takes the transaction out of Queue 1 in the same tick phase it was
// evaluated (spec §3 "moves are atomic dequeue-then-enqueue within the same
// tick phase").
func (q *Queue1) Remove(i int) {
	q.items = append(q.items[:i], q.items[i+1:]...)
}
