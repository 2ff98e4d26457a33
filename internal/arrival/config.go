// Package arrival implements the Arrival Generator: deterministic per-agent
// Poisson/weighted arrivals, deadlines, and amounts (spec §4.2).
package arrival

import (
	"github.com/shopspring/decimal"

	"rtgssim/internal/money"
)

// DistributionKind selects the shape sampled for a transaction's amount.
type DistributionKind string

const (
	DistNormal      DistributionKind = "normal"
	DistLogNormal    DistributionKind = "lognormal"
	DistUniform      DistributionKind = "uniform"
	DistExponential  DistributionKind = "exponential"
)

// AmountDistribution parametrizes the amount sampler. Amounts are always
// truncated to positive (spec §8 boundary behavior).
type AmountDistribution struct {
	Kind   DistributionKind
	Mean   float64 // normal, lognormal, exponential (as rate=1/Mean)
	StdDev float64 // normal, lognormal
	Min    float64 // uniform
	Max    float64 // uniform
}

// PriorityWeight is one entry of a discrete priority distribution; Priority
// is in [0..9] per spec §3.
type PriorityWeight struct {
	Priority int
	Weight   float64
}

// Config is one agent's arrival configuration (spec §6 arrival_config).
type Config struct {
	RatePerTick          float64
	AmountDistribution   AmountDistribution
	PriorityDistribution []PriorityWeight
	DeadlineMin          int
	DeadlineMax          int
	Divisible            bool
	// CounterpartyWeights must sum to 1 after normalization; a weight of 0
	// means the counterparty is never selected (spec §4.2, §8).
	CounterpartyWeights map[money.AgentID]decimal.Decimal
}
