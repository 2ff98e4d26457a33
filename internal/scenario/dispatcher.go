package scenario

import (
	"sort"

	"rtgssim/internal/agent"
	"rtgssim/internal/arrival"
	"rtgssim/internal/collateral"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	"rtgssim/internal/settlement"
)

// Dispatcher holds the full scenario schedule, sorted once at construction
// by (tick, insertion index), and fires each event exactly once when its
// tick arrives (spec §4.9).
type Dispatcher struct {
	events []*Event
	byTick map[int][]*Event
	ticks  []int // every tick with at least one scheduled event, ascending

	customSeq int
	created   []*domain.Transaction // transactions minted by the last Execute call
}

// NewDispatcher indexes events by tick, preserving each tick's original
// slice order as its insertion order (spec §4.9: "execution order within a
// tick is by insertion index").
func NewDispatcher(events []Event) *Dispatcher {
	d := &Dispatcher{
		events: make([]*Event, len(events)),
		byTick: make(map[int][]*Event),
	}
	for i := range events {
		ev := events[i]
		d.events[i] = &ev
	}

	seen := make(map[int]bool)
	for _, ev := range d.events {
		d.byTick[ev.Tick] = append(d.byTick[ev.Tick], ev)
		if !seen[ev.Tick] {
			seen[ev.Tick] = true
			d.ticks = append(d.ticks, ev.Tick)
		}
	}
	sort.Ints(d.ticks)
	return d
}

// Ticks returns every tick with at least one scheduled event, ascending —
// lets the orchestrator skip calling Execute on ticks with nothing to do.
func (d *Dispatcher) Ticks() []int { return d.ticks }

// Deps bundles the live engine state Execute needs to apply events — kept
// narrow and explicit rather than passing the whole engine, so this package
// never imports internal/engine (spec §9 "cannot see engine internals
// beyond the snapshot passed in").
type Deps struct {
	Agents          map[money.AgentID]*agent.Agent
	Generators      map[money.AgentID]*arrival.Generator
	MinHoldingTicks int
	SafetyBuffer    money.Money
}

// Execute fires every event scheduled at tick, in insertion order, and
// returns the ScenarioEventExecuted events produced. Any transaction minted
// in the process (DirectTransfer, CustomTransactionArrival) is available
// afterward via Created, so the caller can index it alongside
// generator-produced arrivals.
func (d *Dispatcher) Execute(log *eventlog.Log, tick int, deps Deps) []eventlog.Event {
	d.created = nil
	var out []eventlog.Event
	for _, ev := range d.byTick[tick] {
		if ev.fired {
			continue
		}
		ev.fired = true
		if result, ok := d.apply(log, tick, ev, deps); ok {
			out = append(out, result)
		}
	}
	return out
}

// Created returns every transaction minted by the most recent Execute call.
func (d *Dispatcher) Created() []*domain.Transaction { return d.created }

func (d *Dispatcher) apply(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	switch ev.Kind {
	case KindDirectTransfer:
		return d.applyDirectTransfer(log, tick, ev, deps)
	case KindAgentArrivalRateChange:
		return d.applyAgentArrivalRateChange(log, tick, ev, deps)
	case KindGlobalArrivalRateChange:
		return d.applyGlobalArrivalRateChange(log, tick, ev, deps)
	case KindDeadlineWindowChange:
		return d.applyDeadlineWindowChange(log, tick, ev, deps)
	case KindCounterpartyWeightChange:
		return d.applyCounterpartyWeightChange(log, tick, ev, deps)
	case KindCollateralAdjustment:
		return d.applyCollateralAdjustment(log, tick, ev, deps)
	case KindCustomTransactionArrival:
		return d.applyCustomTransactionArrival(log, tick, ev, deps)
	}
	return eventlog.Event{}, false
}

func scenarioExecutedEvent(log *eventlog.Log, tick int, ev *Event, agentIDs []money.AgentID, before, after interface{}) eventlog.Event {
	return log.Append(tick, eventlog.KindScenarioEventExecuted, "", agentIDs, 0, map[string]interface{}{
		"kind":   string(ev.Kind),
		"before": before,
		"after":  after,
	})
}

func (d *Dispatcher) applyDirectTransfer(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(DirectTransferParams)
	if !ok {
		return eventlog.Event{}, false
	}
	sender, receiver := deps.Agents[p.Sender], deps.Agents[p.Receiver]
	if sender == nil || receiver == nil {
		return eventlog.Event{}, false
	}
	tx := &domain.Transaction{
		TxID:         money.NewScenarioTxID(tick, d.customSeq),
		SenderID:     p.Sender,
		ReceiverID:   p.Receiver,
		Amount:       p.Amount,
		ArrivalTick:  tick,
		DeadlineTick: tick,
		Status:       domain.StatusPending,
	}
	d.customSeq++
	d.created = append(d.created, tx)

	before := sender.Balance
	if _, err := settlement.Settle(log, tick, sender, receiver, tx, eventlog.KindRtgsImmediateSettlement); err != nil {
		return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.Sender, p.Receiver}, before, before), true
	}
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.Sender, p.Receiver}, before, sender.Balance), true
}

func (d *Dispatcher) applyAgentArrivalRateChange(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(AgentArrivalRateChangeParams)
	if !ok {
		return eventlog.Event{}, false
	}
	gen := deps.Generators[p.AgentID]
	if gen == nil {
		return eventlog.Event{}, false
	}
	before := gen.RatePerTick()
	gen.SetRatePerTick(before * p.Factor)
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.AgentID}, before, gen.RatePerTick()), true
}

func (d *Dispatcher) applyGlobalArrivalRateChange(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(GlobalArrivalRateChangeParams)
	if !ok {
		return eventlog.Event{}, false
	}
	ids := sortedAgentIDs(deps.Generators)
	before := make(map[string]float64, len(ids))
	after := make(map[string]float64, len(ids))
	for _, id := range ids {
		gen := deps.Generators[id]
		before[string(id)] = gen.RatePerTick()
		gen.SetRatePerTick(gen.RatePerTick() * p.Factor)
		after[string(id)] = gen.RatePerTick()
	}
	return scenarioExecutedEvent(log, tick, ev, ids, before, after), true
}

func (d *Dispatcher) applyDeadlineWindowChange(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(DeadlineWindowChangeParams)
	if !ok {
		return eventlog.Event{}, false
	}
	gen := deps.Generators[p.AgentID]
	if gen == nil {
		return eventlog.Event{}, false
	}
	gen.SetDeadlineWindow(p.DeadlineMin, p.DeadlineMax)
	after := map[string]int{"deadline_min": p.DeadlineMin, "deadline_max": p.DeadlineMax}
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.AgentID}, nil, after), true
}

func (d *Dispatcher) applyCounterpartyWeightChange(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(CounterpartyWeightChangeParams)
	if !ok {
		return eventlog.Event{}, false
	}
	gen := deps.Generators[p.AgentID]
	if gen == nil {
		return eventlog.Event{}, false
	}
	gen.SetCounterpartyWeight(p.Counterparty, p.NewWeight, p.Rebalance)
	after := map[string]interface{}{"counterparty": p.Counterparty, "weight": p.NewWeight, "rebalanced": p.Rebalance}
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.AgentID}, nil, after), true
}

func (d *Dispatcher) applyCollateralAdjustment(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(CollateralAdjustmentParams)
	if !ok {
		return eventlog.Event{}, false
	}
	a := deps.Agents[p.AgentID]
	if a == nil {
		return eventlog.Event{}, false
	}
	before := a.AllowedOverdraftLimit()
	if p.Amount.IsPos() {
		lotID := collateral.Post(log, tick, a, p.Amount, p.Haircut)
		after := map[string]interface{}{"lot_id": lotID, "allowed_overdraft_limit": a.AllowedOverdraftLimit()}
		return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.AgentID}, before, after), true
	}
	withdrawn, err := collateral.Withdraw(log, tick, a, p.LotID, p.Amount.Neg(), deps.MinHoldingTicks, deps.SafetyBuffer)
	after := map[string]interface{}{"withdrawn": withdrawn, "error": errString(err), "allowed_overdraft_limit": a.AllowedOverdraftLimit()}
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.AgentID}, before, after), true
}

func (d *Dispatcher) applyCustomTransactionArrival(log *eventlog.Log, tick int, ev *Event, deps Deps) (eventlog.Event, bool) {
	p, ok := ev.Payload.(CustomTransactionArrivalParams)
	if !ok {
		return eventlog.Event{}, false
	}
	sender := deps.Agents[p.Sender]
	if sender == nil {
		return eventlog.Event{}, false
	}
	tx := &domain.Transaction{
		TxID:         money.NewScenarioTxID(tick, d.customSeq),
		SenderID:     p.Sender,
		ReceiverID:   p.Receiver,
		Amount:       p.Amount,
		Priority:     p.Priority,
		ArrivalTick:  tick,
		DeadlineTick: p.DeadlineTick,
		Divisible:    p.Divisible,
		Status:       domain.StatusPending,
	}
	d.customSeq++
	d.created = append(d.created, tx)
	sender.Queue1.Push(tx)

	log.Append(tick, eventlog.KindArrival, tx.TxID, []money.AgentID{tx.SenderID, tx.ReceiverID}, tx.Amount, map[string]interface{}{
		"priority":      tx.Priority,
		"deadline_tick": tx.DeadlineTick,
		"scenario":      true,
	})
	return scenarioExecutedEvent(log, tick, ev, []money.AgentID{p.Sender, p.Receiver}, nil, tx.TxID), true
}

func sortedAgentIDs(generators map[money.AgentID]*arrival.Generator) []money.AgentID {
	ids := make([]money.AgentID, 0, len(generators))
	for id := range generators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
