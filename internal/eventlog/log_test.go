package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rtgssim/internal/money"
)

func TestAppendAssignsPerTickSequence(t *testing.T) {
	log := New()
	log.BeginTick()
	e1 := log.Append(0, KindArrival, "tx1", nil, 100, nil)
	e2 := log.Append(0, KindArrival, "tx2", nil, 200, nil)

	assert.Equal(t, 0, e1.Seq)
	assert.Equal(t, 1, e2.Seq)
}

func TestBeginTickResetsSequenceCounter(t *testing.T) {
	log := New()
	log.BeginTick()
	log.Append(0, KindArrival, "tx1", nil, 100, nil)
	log.BeginTick()
	e := log.Append(1, KindArrival, "tx2", nil, 100, nil)

	assert.Equal(t, 0, e.Seq)
}

func TestEventsReturnsOnlyThatTicksEventsInOrder(t *testing.T) {
	log := New()
	log.BeginTick()
	log.Append(0, KindArrival, "tx1", nil, 100, nil)
	log.BeginTick()
	log.Append(1, KindArrival, "tx2", nil, 100, nil)
	log.Append(1, KindArrival, "tx3", nil, 100, nil)

	evs := log.Events(1)
	assert.Len(t, evs, 2)
	assert.Equal(t, money.TxID("tx2"), evs[0].TxID)
	assert.Equal(t, money.TxID("tx3"), evs[1].TxID)
}

func TestEventsForTxFindsOnlyMatchingTxID(t *testing.T) {
	log := New()
	log.BeginTick()
	log.Append(0, KindArrival, "tx1", nil, 100, nil)
	log.Append(0, KindRtgsImmediateSettlement, "tx1", nil, 100, nil)
	log.Append(0, KindArrival, "tx2", nil, 50, nil)

	evs := log.EventsForTx("tx1")
	assert.Len(t, evs, 2)
}

func TestDigestDependsOnEmissionOrder(t *testing.T) {
	log1 := New()
	log1.BeginTick()
	log1.Append(0, KindArrival, "tx1", nil, 100, nil)
	log1.Append(0, KindArrival, "tx2", nil, 200, nil)

	log2 := New()
	log2.BeginTick()
	log2.Append(0, KindArrival, "tx2", nil, 200, nil)
	log2.Append(0, KindArrival, "tx1", nil, 100, nil)

	assert.NotEqual(t, log1.Digest(), log2.Digest())
}

func TestDigestIsDeterministicForIdenticalSequences(t *testing.T) {
	build := func() *Log {
		log := New()
		log.BeginTick()
		log.Append(0, KindArrival, "tx1", []money.AgentID{"A", "B"}, 100, map[string]interface{}{"priority": 5})
		return log
	}
	assert.Equal(t, build().Digest(), build().Digest())
}

func TestTicksReturnsSortedTicksWithEvents(t *testing.T) {
	log := New()
	log.BeginTick()
	log.Append(5, KindArrival, "tx1", nil, 100, nil)
	log.BeginTick()
	log.Append(1, KindArrival, "tx2", nil, 100, nil)

	assert.Equal(t, []int{1, 5}, log.Ticks())
}
