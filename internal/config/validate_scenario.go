package config

import (
	"fmt"

	"rtgssim/internal/scenario"
	pkgerrors "rtgssim/pkg/errors"
)

// validateScenarioEvent checks that every agent referenced by a scheduled
// scenario event's payload is a known agent ID (spec §4.11 "unknown agent
// reference" is a fatal load-time error).
func (c Config) validateScenarioEvent(se scenario.Event, known map[string]bool) error {
	switch p := se.Payload.(type) {
	case scenario.DirectTransferParams:
		if !known[string(p.Sender)] || !known[string(p.Receiver)] {
			return fmt.Errorf("%w: DirectTransfer at tick %d references unknown agent", pkgerrors.ErrConfigInvalid, se.Tick)
		}
	case scenario.AgentArrivalRateChangeParams:
		if !known[string(p.AgentID)] {
			return fmt.Errorf("%w: AgentArrivalRateChange at tick %d references unknown agent %q", pkgerrors.ErrConfigInvalid, se.Tick, p.AgentID)
		}
	case scenario.DeadlineWindowChangeParams:
		if !known[string(p.AgentID)] {
			return fmt.Errorf("%w: DeadlineWindowChange at tick %d references unknown agent %q", pkgerrors.ErrConfigInvalid, se.Tick, p.AgentID)
		}
	case scenario.CounterpartyWeightChangeParams:
		if !known[string(p.AgentID)] || !known[string(p.Counterparty)] {
			return fmt.Errorf("%w: CounterpartyWeightChange at tick %d references unknown agent", pkgerrors.ErrConfigInvalid, se.Tick)
		}
	case scenario.CollateralAdjustmentParams:
		if !known[string(p.AgentID)] {
			return fmt.Errorf("%w: CollateralAdjustment at tick %d references unknown agent %q", pkgerrors.ErrConfigInvalid, se.Tick, p.AgentID)
		}
	case scenario.CustomTransactionArrivalParams:
		if !known[string(p.Sender)] || !known[string(p.Receiver)] {
			return fmt.Errorf("%w: CustomTransactionArrival at tick %d references unknown agent", pkgerrors.ErrConfigInvalid, se.Tick)
		}
	}
	return nil
}
