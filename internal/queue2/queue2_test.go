package queue2

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rtgssim/internal/domain"
	"rtgssim/internal/money"
)

func TestPushOrdersByPriorityDescThenTickAscThenTxIDAsc(t *testing.T) {
	q := New()
	q.Push(&domain.Transaction{TxID: "b", Priority: 5, SubmissionTick: 2})
	q.Push(&domain.Transaction{TxID: "a", Priority: 8, SubmissionTick: 3})
	q.Push(&domain.Transaction{TxID: "c", Priority: 5, SubmissionTick: 1})
	q.Push(&domain.Transaction{TxID: "d", Priority: 5, SubmissionTick: 1})

	items := q.Items()
	assert.Equal(t, 4, q.Len())
	assert.Equal(t, money.TxID("a"), items[0].TxID, "highest priority first")
	assert.Equal(t, money.TxID("c"), items[1].TxID, "same priority, earlier tick first")
	assert.Equal(t, money.TxID("d"), items[2].TxID, "same priority and tick, lower tx_id first")
	assert.Equal(t, money.TxID("b"), items[3].TxID)
}

func TestRemoveDropsOnlyMatchingTxID(t *testing.T) {
	q := New()
	q.Push(&domain.Transaction{TxID: "tx1", Priority: 5, SubmissionTick: 1})
	q.Push(&domain.Transaction{TxID: "tx2", Priority: 5, SubmissionTick: 1})
	q.Push(&domain.Transaction{TxID: "tx3", Priority: 5, SubmissionTick: 1})

	q.Remove("tx2")

	assert.Equal(t, 2, q.Len())
	ids := []money.TxID{q.Items()[0].TxID, q.Items()[1].TxID}
	assert.ElementsMatch(t, []money.TxID{"tx1", "tx3"}, ids)
}

func TestRemoveOfUnknownTxIDIsNoOp(t *testing.T) {
	q := New()
	q.Push(&domain.Transaction{TxID: "tx1", Priority: 5, SubmissionTick: 1})

	q.Remove("does-not-exist")

	assert.Equal(t, 1, q.Len())
}

func TestByAgentPairFiltersOnSenderAndReceiverOnly(t *testing.T) {
	q := New()
	q.Push(&domain.Transaction{TxID: "ab1", SenderID: "A", ReceiverID: "B", Priority: 5, SubmissionTick: 1})
	q.Push(&domain.Transaction{TxID: "ab2", SenderID: "A", ReceiverID: "B", Priority: 5, SubmissionTick: 2})
	q.Push(&domain.Transaction{TxID: "ba1", SenderID: "B", ReceiverID: "A", Priority: 5, SubmissionTick: 1})
	q.Push(&domain.Transaction{TxID: "ac1", SenderID: "A", ReceiverID: "C", Priority: 5, SubmissionTick: 1})

	legs := q.ByAgentPair("A", "B")

	assert.Len(t, legs, 2)
	assert.Equal(t, money.TxID("ab1"), legs[0].TxID)
	assert.Equal(t, money.TxID("ab2"), legs[1].TxID)
}

func TestByAgentPairReturnsNilWhenNoMatch(t *testing.T) {
	q := New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Priority: 5, SubmissionTick: 1})

	assert.Empty(t, q.ByAgentPair("B", "A"))
}
