// Package config defines the engine's configuration surface — the Go
// value an external loader (out of scope per spec §1) populates and hands
// to engine.New — plus the load-time validation spec §4.11 requires
// before a simulation may start. This mirrors the teacher's
// struct-of-structs config shape and separate Validate* pass
// (pkg/config/config.go, pkg/config/validate.go in
// _examples/vaultstring-web-kyd-payment-system-backend), adapted to the
// simulation's own surface.
package config

import (
	"rtgssim/internal/arrival"
	"rtgssim/internal/cost"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/internal/scenario"
)

// SimulationConfig is the top-level clock configuration (spec §6).
type SimulationConfig struct {
	TicksPerDay int
	NumDays     int
	RNGSeed     uint64
}

// CollateralLotConfig seeds an agent's opening collateral book.
type CollateralLotConfig struct {
	Amount  money.Money
	Haircut money.Haircut
}

// PolicyKind selects which Evaluator implementation an agent's Policy
// field builds (spec §4.3 built-ins plus the declarative tree form).
type PolicyKind string

const (
	PolicyFIFO            PolicyKind = "fifo"
	PolicyDeadline         PolicyKind = "deadline"
	PolicyLiquidityAware   PolicyKind = "liquidity_aware"
	PolicyTree             PolicyKind = "tree"
)

// PolicyConfig declares one agent's policy. Exactly one of the built-in
// parameter groups or Tree is meaningful, selected by Kind.
type PolicyConfig struct {
	Kind PolicyKind

	DeadlineReleaseThreshold float64

	LiquidityPressureReleaseCeiling float64
	LiquidityUrgencyOverride         float64

	Tree policy.Tree
}

// Build constructs the Evaluator this config describes, validating a tree
// policy against toggles if present.
func (pc PolicyConfig) Build(toggles policy.FeatureToggles) (policy.Evaluator, error) {
	switch pc.Kind {
	case PolicyDeadline:
		return policy.Deadline{ReleaseThreshold: pc.DeadlineReleaseThreshold}, nil
	case PolicyLiquidityAware:
		return policy.LiquidityAware{
			PressureReleaseCeiling: pc.LiquidityPressureReleaseCeiling,
			UrgencyOverride:        pc.LiquidityUrgencyOverride,
		}, nil
	case PolicyTree:
		tree := pc.Tree
		if err := tree.Validate(toggles); err != nil {
			return nil, err
		}
		return policy.TreePolicy{Tree: tree}, nil
	case PolicyFIFO:
		fallthrough
	default:
		return policy.FIFO{}, nil
	}
}

// AgentConfig is one simulated participant (spec §6 "agents[]").
type AgentConfig struct {
	ID                    money.AgentID
	OpeningBalance        money.Money
	CreditLimit           money.Money
	ArrivalConfig         arrival.Config
	InitialCollateralLots []CollateralLotConfig
	Policy                PolicyConfig
}

// LSMConfig toggles the LSM Resolver (spec §6 "lsm{enabled, max_cycle_length}").
type LSMConfig struct {
	Enabled        bool
	MaxCycleLength int
}

// CollateralConfig holds the withdrawal-guard parameters shared by every
// agent's collateral book (spec §6 "collateral{min_holding_ticks, safety_buffer}").
type CollateralConfig struct {
	MinHoldingTicks int
	SafetyBuffer    money.Money
}

// Config is the full engine configuration surface (spec §6).
type Config struct {
	Simulation           SimulationConfig
	Agents               []AgentConfig
	ScenarioEvents       []scenario.Event
	PolicyFeatureToggles policy.FeatureToggles
	CostRates            cost.Rates
	LSM                  LSMConfig
	Collateral           CollateralConfig
}
