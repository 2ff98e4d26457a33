package settlement

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	pkgerrors "rtgssim/pkg/errors"
)

// Leg is one transaction participating in a multi-leg atomic settlement
// (an LSM bilateral offset or multilateral cycle).
type Leg struct {
	Tx     *domain.Transaction
	Sender *agent.Agent
	Receiver *agent.Agent
}

// SettleGroup checks every participant's *net* position over legs
// atomically before mutating anything, then settles every leg — all legs
// settle or none do (spec §4.6, §7 "no error ever leaves the simulation in
// a partially mutated state"). Net position per agent is (incoming sum -
// outgoing sum) among the legs in this group only, added to its balance.
func SettleGroup(log *eventlog.Log, tick int, legs []Leg, kind eventlog.Kind) (eventlog.Event, error) {
	net := make(map[money.AgentID]money.Money)
	for _, leg := range legs {
		if leg.Tx.Status == domain.StatusSettled {
			return eventlog.Event{}, pkgerrors.ErrAlreadySettled
		}
		net[leg.Sender.ID] -= leg.Tx.Amount
		net[leg.Receiver.ID] += leg.Tx.Amount
	}

	// agentByID collects each distinct participant's *agent.Agent exactly
	// once, keyed off the legs (never a map range for iteration order —
	// only for lookup).
	agentByID := make(map[money.AgentID]*agent.Agent)
	for _, leg := range legs {
		agentByID[leg.Sender.ID] = leg.Sender
		agentByID[leg.Receiver.ID] = leg.Receiver
	}

	participants := participantOrder(legs)
	for _, id := range participants {
		a := agentByID[id]
		projected := a.Balance + net[id]
		if projected < -a.AllowedOverdraftLimit() {
			return eventlog.Event{}, pkgerrors.ErrInsufficientLiquidity
		}
	}

	txIDs := make([]string, 0, len(legs))
	for _, leg := range legs {
		agentByID[leg.Sender.ID].Balance -= leg.Tx.Amount
		agentByID[leg.Receiver.ID].Balance += leg.Tx.Amount
		leg.Tx.Status = domain.StatusSettled
		txIDs = append(txIDs, string(leg.Tx.TxID))
	}

	agentIDs := make([]money.AgentID, 0, len(participants))
	agentIDs = append(agentIDs, participants...)

	var totalAmount money.Money
	for _, leg := range legs {
		totalAmount += leg.Tx.Amount
	}

	ev := log.Append(tick, kind, legs[0].Tx.TxID, agentIDs, totalAmount, map[string]interface{}{
		"tx_ids": txIDs,
	})
	return ev, nil
}

// participantOrder returns each distinct agent referenced by legs exactly
// once, in first-seen order across the legs slice (which is itself built in
// a deterministic order by the LSM resolver) — never derived from ranging a
// map.
func participantOrder(legs []Leg) []money.AgentID {
	seen := make(map[money.AgentID]bool)
	var order []money.AgentID
	for _, leg := range legs {
		if !seen[leg.Sender.ID] {
			seen[leg.Sender.ID] = true
			order = append(order, leg.Sender.ID)
		}
		if !seen[leg.Receiver.ID] {
			seen[leg.Receiver.ID] = true
			order = append(order, leg.Receiver.ID)
		}
	}
	return order
}
