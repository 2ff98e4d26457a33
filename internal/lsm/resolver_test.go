package lsm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/queue2"
)

func agentMap(ids ...money.AgentID) map[money.AgentID]*agent.Agent {
	m := make(map[money.AgentID]*agent.Agent, len(ids))
	for _, id := range ids {
		m[id] = agent.New(id, 0, 0)
	}
	return m
}

func TestDisabledResolverIsNoOp(t *testing.T) {
	log := eventlog.New()
	q := queue2.New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx2", SenderID: "B", ReceiverID: "A", Amount: 100, Status: domain.StatusQueued2})

	r := Resolver{Enabled: false}
	events := r.Run(log, 1, q, agentMap("A", "B"))

	assert.Empty(t, events)
	assert.Equal(t, 2, q.Len())
}

func TestBilateralOffsetSettlesMutualPair(t *testing.T) {
	log := eventlog.New()
	q := queue2.New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx2", SenderID: "B", ReceiverID: "A", Amount: 150, Status: domain.StatusQueued2})
	agents := agentMap("A", "B")
	agents["B"] = agent.New("B", 0, 50) // B's net outflow of 50 needs 50 of credit

	r := Resolver{Enabled: true, MaxCycleLength: 4}
	events := r.Run(log, 1, q, agents)

	assert.Len(t, events, 1)
	assert.Equal(t, eventlog.KindLsmBilateralOffset, events[0].Kind)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, money.Money(50), agents["A"].Balance, "A sent 100, received 150: net +50")
	assert.Equal(t, money.Money(-50), agents["B"].Balance)
}

func TestBilateralPassPicksMinimumAmountLegsFirst(t *testing.T) {
	q := queue2.New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 500, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx2", SenderID: "A", ReceiverID: "B", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx3", SenderID: "B", ReceiverID: "A", Amount: 100, Status: domain.StatusQueued2})

	pairs := bilateralPairs(q)
	assert.Len(t, pairs, 1)
	legsAB := q.ByAgentPair(pairs[0][0], pairs[0][1])
	chosen := minAmountLeg(legsAB)
	assert.Equal(t, money.TxID("tx2"), chosen.TxID, "the lower-amount leg must be chosen over the higher one")
}

func TestMultilateralCycleSettlesThreeWayLoop(t *testing.T) {
	log := eventlog.New()
	q := queue2.New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx2", SenderID: "B", ReceiverID: "C", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx3", SenderID: "C", ReceiverID: "A", Amount: 100, Status: domain.StatusQueued2})
	agents := agentMap("A", "B", "C")

	r := Resolver{Enabled: true, MaxCycleLength: 4}
	events := r.Run(log, 1, q, agents)

	assert.Len(t, events, 1)
	assert.Equal(t, eventlog.KindLsmCycleSettlement, events[0].Kind)
	assert.Equal(t, 0, q.Len())
	for _, id := range []money.AgentID{"A", "B", "C"} {
		assert.Equal(t, money.Money(0), agents[id].Balance)
	}
}

func TestMultilateralCycleSkipsWhenBeyondMaxLength(t *testing.T) {
	log := eventlog.New()
	q := queue2.New()
	q.Push(&domain.Transaction{TxID: "tx1", SenderID: "A", ReceiverID: "B", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx2", SenderID: "B", ReceiverID: "C", Amount: 100, Status: domain.StatusQueued2})
	q.Push(&domain.Transaction{TxID: "tx3", SenderID: "C", ReceiverID: "A", Amount: 100, Status: domain.StatusQueued2})
	agents := agentMap("A", "B", "C")

	r := Resolver{Enabled: true, MaxCycleLength: 2} // the 3-way cycle can't be enumerated
	events := r.Run(log, 1, q, agents)

	assert.Empty(t, events)
	assert.Equal(t, 3, q.Len())
}
