package scenario

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rtgssim/internal/agent"
	"rtgssim/internal/arrival"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

func depsFor(agents map[money.AgentID]*agent.Agent, generators map[money.AgentID]*arrival.Generator) Deps {
	return Deps{Agents: agents, Generators: generators, MinHoldingTicks: 10, SafetyBuffer: 0}
}

func TestDirectTransferSettlesThroughSettlementEngine(t *testing.T) {
	log := eventlog.New()
	sender := agent.New("A", 1000, 0)
	receiver := agent.New("B", 0, 0)
	agents := map[money.AgentID]*agent.Agent{"A": sender, "B": receiver}

	d := NewDispatcher([]Event{
		{Tick: 3, Kind: KindDirectTransfer, Payload: DirectTransferParams{Sender: "A", Receiver: "B", Amount: 400}},
	})
	events := d.Execute(log, 3, depsFor(agents, nil))

	assert.Len(t, events, 1)
	assert.Equal(t, money.Money(600), sender.Balance)
	assert.Equal(t, money.Money(400), receiver.Balance)
	assert.Len(t, d.Created(), 1)
}

func TestEventFiresExactlyOnce(t *testing.T) {
	log := eventlog.New()
	sender := agent.New("A", 1000, 0)
	receiver := agent.New("B", 0, 0)
	agents := map[money.AgentID]*agent.Agent{"A": sender, "B": receiver}

	d := NewDispatcher([]Event{
		{Tick: 3, Kind: KindDirectTransfer, Payload: DirectTransferParams{Sender: "A", Receiver: "B", Amount: 400}},
	})
	d.Execute(log, 3, depsFor(agents, nil))
	again := d.Execute(log, 3, depsFor(agents, nil)) // same tick, called a second time

	assert.Empty(t, again, "an already-fired event must never fire again")
	assert.Equal(t, money.Money(600), sender.Balance, "balance must not move a second time")
}

func TestEventsExecuteInInsertionOrderWithinATick(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", 1_000_000, 0)
	b := agent.New("B", 0, 0)
	agents := map[money.AgentID]*agent.Agent{"A": a, "B": b}

	d := NewDispatcher([]Event{
		{Tick: 5, Kind: KindDirectTransfer, Payload: DirectTransferParams{Sender: "A", Receiver: "B", Amount: 100}},
		{Tick: 5, Kind: KindDirectTransfer, Payload: DirectTransferParams{Sender: "A", Receiver: "B", Amount: 200}},
	})
	events := d.Execute(log, 5, depsFor(agents, nil))

	assert.Len(t, events, 2)
	assert.Equal(t, money.Money(300), b.Balance)
	assert.Len(t, d.Created(), 2)
	assert.Equal(t, money.Money(100), d.Created()[0].Amount, "the first-inserted event runs first")
	assert.Equal(t, money.Money(200), d.Created()[1].Amount)
}

func TestAgentArrivalRateChangeMultipliesRate(t *testing.T) {
	log := eventlog.New()
	gen := arrival.New("A", arrival.Config{RatePerTick: 2}, 1)
	generators := map[money.AgentID]*arrival.Generator{"A": gen}

	d := NewDispatcher([]Event{
		{Tick: 1, Kind: KindAgentArrivalRateChange, Payload: AgentArrivalRateChangeParams{AgentID: "A", Factor: 3}},
	})
	events := d.Execute(log, 1, depsFor(nil, generators))

	assert.Len(t, events, 1)
	assert.Equal(t, 6.0, gen.RatePerTick())
}

func TestGlobalArrivalRateChangeAppliesToEveryAgent(t *testing.T) {
	log := eventlog.New()
	genA := arrival.New("A", arrival.Config{RatePerTick: 1}, 1)
	genB := arrival.New("B", arrival.Config{RatePerTick: 2}, 2)
	generators := map[money.AgentID]*arrival.Generator{"A": genA, "B": genB}

	d := NewDispatcher([]Event{
		{Tick: 0, Kind: KindGlobalArrivalRateChange, Payload: GlobalArrivalRateChangeParams{Factor: 2}},
	})
	d.Execute(log, 0, depsFor(nil, generators))

	assert.Equal(t, 2.0, genA.RatePerTick())
	assert.Equal(t, 4.0, genB.RatePerTick())
}

func TestCollateralAdjustmentPostsWhenPositive(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", 0, 0)
	agents := map[money.AgentID]*agent.Agent{"A": a}

	d := NewDispatcher([]Event{
		{Tick: 0, Kind: KindCollateralAdjustment, Payload: CollateralAdjustmentParams{AgentID: "A", Amount: 10000, Haircut: decimal.Zero}},
	})
	events := d.Execute(log, 0, depsFor(agents, nil))

	assert.Len(t, events, 1)
	assert.Equal(t, money.Money(10000), a.AllowedOverdraftLimit())
}

func TestCustomTransactionArrivalEnqueuesToQueue1(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", 0, 0)
	agents := map[money.AgentID]*agent.Agent{"A": a}

	d := NewDispatcher([]Event{
		{Tick: 2, Kind: KindCustomTransactionArrival, Payload: CustomTransactionArrivalParams{
			Sender: "A", Receiver: "B", Amount: 500, Priority: 3, DeadlineTick: 10,
		}},
	})
	d.Execute(log, 2, depsFor(agents, nil))

	assert.Equal(t, 1, a.Queue1.Len())
	assert.Len(t, d.Created(), 1)
}

func TestTicksReturnsOnlyScheduledTicksAscending(t *testing.T) {
	d := NewDispatcher([]Event{
		{Tick: 5, Kind: KindDirectTransfer},
		{Tick: 1, Kind: KindDirectTransfer},
		{Tick: 5, Kind: KindDirectTransfer},
	})
	assert.Equal(t, []int{1, 5}, d.Ticks())
}
