package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rtgssim/internal/agent"
	"rtgssim/internal/cost"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

func TestSplitTransactionDistributesAmountsAndMarksParentSuperseded(t *testing.T) {
	e := &Engine{
		log:     eventlog.New(),
		txIndex: make(map[money.TxID]*domain.Transaction),
	}
	e.cfg.CostRates = cost.Rates{SplitFriction: decimal.NewFromFloat(0.6)} // floor((3-1)*0.6) = 1

	a := agent.New("A", 0, 0)
	parent := &domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Divisible: true, Status: domain.StatusQueued1}
	a.Queue1.Push(parent)

	decision := domain.Decision{Kind: domain.DecisionSplit, SplitParts: []domain.SplitPart{{Amount: 34}, {Amount: 33}, {Amount: 33}}}
	e.splitTransaction(1, a, parent, decision, 0)

	assert.Equal(t, domain.StatusSuperseded, parent.Status)
	assert.Equal(t, 3, a.Queue1.Len())
	for _, child := range a.Queue1.Front() {
		assert.Equal(t, parent.TxID, child.ParentTxID)
		assert.False(t, child.Divisible, "a split child never splits again")
	}
	assert.Equal(t, money.Money(1), a.AccruedCosts.SplitFriction)
}

func TestSplitTransactionIsNoOpWhenIndivisible(t *testing.T) {
	e := &Engine{log: eventlog.New(), txIndex: make(map[money.TxID]*domain.Transaction)}
	a := agent.New("A", 0, 0)
	parent := &domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Divisible: false, Status: domain.StatusQueued1}
	a.Queue1.Push(parent)

	decision := domain.Decision{Kind: domain.DecisionSplit, SplitParts: []domain.SplitPart{{Amount: 50}, {Amount: 50}}}
	e.splitTransaction(1, a, parent, decision, 0)

	assert.Equal(t, domain.StatusQueued1, parent.Status, "an indivisible transaction's split is a no-op")
	assert.Equal(t, 1, a.Queue1.Len())
}
