package money

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// AgentID, TxID, and LotID are stable string identifiers. TxID and LotID are
// derived deterministically (never uuid.New()'s random v4) so that two runs
// with identical configuration and seed produce byte-identical identifiers —
// required for the replay-identity invariant in spec §8.
type AgentID string
type TxID string
type LotID string

// idNamespace anchors the SHA1-based UUIDv5 derivation used for TxID/LotID.
// A fixed namespace plus a content-derived name makes the generator pure:
// same inputs, same ID, every run.
var idNamespace = uuid.MustParse("6f1a7b1e-6e9f-4d2a-8c2e-2f7a0b6d9c11")

// NewTxID derives a stable transaction ID from the tick, the originating
// agent, and the agent generator's running sequence counter (not reset per
// tick).
func NewTxID(agent AgentID, tick int, seq int) TxID {
	name := fmt.Sprintf("tx|%s|%d|%d", agent, tick, seq)
	return TxID(uuid.NewSHA1(idNamespace, []byte(name)).String())
}

// NewChildTxID derives a stable ID for the Nth child of a split transaction.
func NewChildTxID(parent TxID, index int) TxID {
	name := fmt.Sprintf("split|%s|%d", parent, index)
	return TxID(uuid.NewSHA1(idNamespace, []byte(name)).String())
}

// NewScenarioTxID derives a stable transaction ID for a CustomTransactionArrival
// scenario event, in its own naming namespace so it can never collide with an
// agent-generated NewTxID even at the same (tick, seq).
func NewScenarioTxID(tick int, seq int) TxID {
	name := fmt.Sprintf("scenario-tx|%d|%d", tick, seq)
	return TxID(uuid.NewSHA1(idNamespace, []byte(name)).String())
}

// NewLotID derives a stable collateral lot ID from the posting agent, tick,
// and a per-agent sequence counter.
func NewLotID(agent AgentID, tick int, seq int) LotID {
	name := fmt.Sprintf("lot|%s|%d|%d", agent, tick, seq)
	return LotID(uuid.NewSHA1(idNamespace, []byte(name)).String())
}

// SeedFor derives a per-agent PRNG seed from the global simulation seed and
// the agent's ID, per spec §4.2: "a per-agent stream seeded by
// (global_seed, agent_id)". xxhash gives a fast, deterministic, well-mixed
// 64-bit value independent of map/iteration order.
func SeedFor(globalSeed uint64, agent AgentID) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(globalSeed >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(agent))
	return h.Sum64()
}

// DeterministicHash hashes arbitrary encoded bytes (an msgpack-encoded event
// payload, typically) into a 64-bit digest used to chain the event log's
// running hash for replay-identity verification (spec §3 Money & IDs,
// "deterministic hashing").
func DeterministicHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ChainHash folds a new digest onto a running chain hash, so the final value
// depends on the full ordered sequence of inputs, not just the last one.
func ChainHash(prev uint64, next uint64) uint64 {
	h := xxhash.New()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(prev >> (8 * i))
		buf[8+i] = byte(next >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
