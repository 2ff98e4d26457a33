package eventlog

import (
	"bytes"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"rtgssim/internal/money"
)

// encodable is the msgpack-friendly projection of Event used for hashing and
// binary export. Struct field order is fixed by declaration order and map
// keys are written in sorted order (see encodeSorted), which is what makes
// the msgpack encoding — and therefore the digest derived from it —
// reproducible across runs (spec §4.10, §8 "Replay identity").
type encodable struct {
	Tick    int
	Seq     int
	Kind    Kind
	TxID    money.TxID
	AgentIDs []money.AgentID
	Amount  money.Money
	Details map[string]interface{}
}

func toEncodable(e Event) encodable {
	return encodable{
		Tick: e.Tick, Seq: e.Seq, Kind: e.Kind, TxID: e.TxID,
		AgentIDs: e.AgentIDs, Amount: e.Amount, Details: e.Details,
	}
}

// encodeSorted msgpack-encodes v with map keys sorted, so that the Details
// map encodes to the same bytes regardless of Go's map iteration order.
func encodeSorted(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Log is the append-only ordered event store for one simulation instance.
// It is mutated only by the Tick Orchestrator's current phase (spec §5); all
// other access is read-only.
type Log struct {
	events    []Event
	byTick    map[int][]int // tick -> indices into events, in seq order
	byTxID    map[money.TxID][]int
	tickSeq   int
	chainHash uint64
}

func New() *Log {
	return &Log{
		byTick: make(map[int][]int),
		byTxID: make(map[money.TxID][]int),
	}
}

// BeginTick resets the per-tick sequence counter. The orchestrator calls
// this exactly once at the start of each tick.
func (l *Log) BeginTick() {
	l.tickSeq = 0
}

// Append records ev with the next per-tick sequence number and folds its
// digest into the log's running chain hash. It returns the recorded event
// (with Seq populated) for callers that want to reference it immediately.
func (l *Log) Append(tick int, kind Kind, txID money.TxID, agentIDs []money.AgentID, amount money.Money, details map[string]interface{}) Event {
	ev := Event{
		Tick: tick, Seq: l.tickSeq, Kind: kind, TxID: txID,
		AgentIDs: agentIDs, Amount: amount, Details: details,
	}
	l.tickSeq++

	idx := len(l.events)
	l.events = append(l.events, ev)
	l.byTick[tick] = append(l.byTick[tick], idx)
	if txID != "" {
		l.byTxID[txID] = append(l.byTxID[txID], idx)
	}

	encoded, err := encodeSorted(toEncodable(ev))
	if err == nil {
		l.chainHash = money.ChainHash(l.chainHash, money.DeterministicHash(encoded))
	}

	return ev
}

// Events returns the ordered sequence of events recorded at tick, per
// spec §6 get_tick_events.
func (l *Log) Events(tick int) []Event {
	idxs := l.byTick[tick]
	out := make([]Event, len(idxs))
	for i, idx := range idxs {
		out[i] = l.events[idx]
	}
	return out
}

// EventsForTx returns every event recorded against txID, in emission order.
func (l *Log) EventsForTx(txID money.TxID) []Event {
	idxs := l.byTxID[txID]
	out := make([]Event, len(idxs))
	for i, idx := range idxs {
		out[i] = l.events[idx]
	}
	return out
}

// All returns the full ordered event stream.
func (l *Log) All() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Digest returns the running chain hash of every event appended so far. Two
// runs with identical configuration, seed, and scenario schedule produce an
// identical digest at every tick boundary — this is the engine's
// replay-identity check (spec §8).
func (l *Log) Digest() uint64 {
	return l.chainHash
}

// MarshalTick returns the msgpack-encoded form of a tick's events, in the
// same deterministic encoding used for the digest. An observer may use this
// as a compact binary snapshot without recomputing anything from the live
// engine (spec §4.10: "the engine provides query methods the observer may
// also use during replay").
func (l *Log) MarshalTick(tick int) ([]byte, error) {
	evs := l.Events(tick)
	enc := make([]encodable, len(evs))
	for i, e := range evs {
		enc[i] = toEncodable(e)
	}
	return encodeSorted(enc)
}

// Ticks returns every tick that has at least one recorded event, in
// ascending order — never derived from map iteration order.
func (l *Log) Ticks() []int {
	ticks := make([]int, 0, len(l.byTick))
	for t := range l.byTick {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	return ticks
}
