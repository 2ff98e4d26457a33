package config

import (
	"fmt"

	pkgerrors "rtgssim/pkg/errors"
)

// Validate performs every load-time fatal check spec §4.11 names: unknown
// agent references (scenario events, counterparty weights), cyclic policy
// trees, forbidden node categories under feature toggles, and invalid
// counterparty weights. Mirrors the teacher's pkg/config/validate.go
// Validate* pattern: checks run in order and the first failure is returned
// immediately.
func (c Config) Validate() error {
	if c.Simulation.TicksPerDay <= 0 {
		return fmt.Errorf("%w: simulation.ticks_per_day must be positive", pkgerrors.ErrConfigInvalid)
	}
	if c.Simulation.NumDays <= 0 {
		return fmt.Errorf("%w: simulation.num_days must be positive", pkgerrors.ErrConfigInvalid)
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("%w: at least one agent is required", pkgerrors.ErrConfigInvalid)
	}

	known := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if known[string(a.ID)] {
			return fmt.Errorf("%w: duplicate agent id %q", pkgerrors.ErrConfigInvalid, a.ID)
		}
		known[string(a.ID)] = true
	}

	for _, a := range c.Agents {
		for counterparty, weight := range a.ArrivalConfig.CounterpartyWeights {
			if !known[string(counterparty)] {
				return fmt.Errorf("%w: agent %q arrival_config references unknown counterparty %q", pkgerrors.ErrConfigInvalid, a.ID, counterparty)
			}
			if weight.IsNegative() {
				return fmt.Errorf("%w: agent %q counterparty weight for %q is negative", pkgerrors.ErrConfigInvalid, a.ID, counterparty)
			}
		}
		if a.Policy.Kind == PolicyTree {
			if err := a.Policy.Tree.Validate(c.PolicyFeatureToggles); err != nil {
				return fmt.Errorf("agent %q policy: %w", a.ID, err)
			}
		} else if len(c.PolicyFeatureToggles.Include) > 0 {
			return fmt.Errorf("%w: agent %q uses built-in policy %q but policy_feature_toggles.include is non-empty (built-ins bypass category filtering)", pkgerrors.ErrConfigInvalid, a.ID, a.Policy.Kind)
		}
	}

	for _, se := range c.ScenarioEvents {
		if err := c.validateScenarioEvent(se, known); err != nil {
			return err
		}
	}

	return nil
}
