package engine

import (
	"fmt"

	"rtgssim/internal/collateral"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	pkgerrors "rtgssim/pkg/errors"
)

// GetAgentState returns the read-only snapshot of one agent (spec §6
// "get_agent_state").
func (e *Engine) GetAgentState(id money.AgentID) (domain.AgentSnapshot, error) {
	a, err := e.mustAgent(id)
	if err != nil {
		return domain.AgentSnapshot{}, err
	}
	return a.Snapshot(e.policyTrend(a)), nil
}

// GetQueue1Size returns one agent's Queue 1 length (spec §6 "get_queue1_size").
func (e *Engine) GetQueue1Size(id money.AgentID) (int, error) {
	a, err := e.mustAgent(id)
	if err != nil {
		return 0, err
	}
	return a.Queue1.Len(), nil
}

// GetQueue2Size returns the central queue's length (spec §6 "get_queue2_size").
func (e *Engine) GetQueue2Size() int {
	return e.queue2.Len()
}

// GetTickEvents returns every event recorded at tick, in emission order
// (spec §6 "get_tick_events").
func (e *Engine) GetTickEvents(tick int) []eventlog.Event {
	return e.log.Events(tick)
}

// EventLogDigest returns the event log's running chain hash, the basis of
// the replay-identity check (spec §8 "Replay identity"): two engines built
// from identical configuration and seed, ticked the same number of times,
// must report an identical digest at every tick boundary.
func (e *Engine) EventLogDigest() uint64 {
	return e.log.Digest()
}

// GetTransaction looks up a transaction by ID regardless of which queue (or
// none) currently holds it (spec §6 "get_transaction").
func (e *Engine) GetTransaction(txID money.TxID) (*domain.Transaction, error) {
	tx, ok := e.txIndex[txID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrTransactionNotFound, txID)
	}
	return tx, nil
}

// PostCollateral posts a new collateral lot for agent id (spec §6
// "post_collateral").
func (e *Engine) PostCollateral(id money.AgentID, amount money.Money, haircut money.Haircut) (money.LotID, error) {
	a, err := e.mustAgent(id)
	if err != nil {
		return "", err
	}
	return collateral.Post(e.log, e.tick, a, amount, haircut), nil
}

// WithdrawCollateral withdraws amount of face value from lotID, subject to
// the minimum-holding timer and safety-buffer guard (spec §6
// "withdraw_collateral", §4.7).
func (e *Engine) WithdrawCollateral(id money.AgentID, lotID money.LotID, amount money.Money) (money.Money, error) {
	a, err := e.mustAgent(id)
	if err != nil {
		return 0, err
	}
	return collateral.Withdraw(e.log, e.tick, a, lotID, amount, e.cfg.Collateral.MinHoldingTicks, e.cfg.Collateral.SafetyBuffer)
}
