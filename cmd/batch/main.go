// Command batch drives internal/batch over a handful of seeds, the Monte
// Carlo sibling to cmd/simulate's single run (SPEC_FULL §6+).
package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"rtgssim/internal/arrival"
	"rtgssim/internal/batch"
	"rtgssim/internal/config"
	"rtgssim/internal/cost"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/pkg/logger"
)

const replications = 8

func main() {
	log := logger.New("batch")

	fmt.Println("=========================================================")
	fmt.Println("RTGS/LSM PAYMENT NETWORK - MONTE CARLO BATCH")
	fmt.Println("=========================================================")
	fmt.Printf("%d independent replications, seeds 1000..%d\n", replications, 1000+replications-1)
	fmt.Println("---------------------------------------------------------")

	configs := make([]config.Config, replications)
	for i := range configs {
		configs[i] = baseConfig(uint64(1000 + i))
	}

	log.Info("batch starting", map[string]interface{}{"replications": replications})
	results, err := batch.Run(context.Background(), configs)
	if err != nil {
		log.Error("batch run failed", map[string]interface{}{"error": err})
		fmt.Printf("batch run error: %v\n", err)
		return
	}

	var settlementRateSum, avgDelaySum float64
	var peakOverdraft money.Money
	for _, r := range results {
		m := r.Metrics
		fmt.Printf("replication %d  seed offset=%d  settlement_rate=%.3f avg_delay=%.2f peak_overdraft=%s\n",
			r.Replication, r.Replication, m.SettlementRate, m.AvgDelayTicks, m.PeakOverdraft)
		settlementRateSum += m.SettlementRate
		avgDelaySum += m.AvgDelayTicks
		if m.PeakOverdraft > peakOverdraft {
			peakOverdraft = m.PeakOverdraft
		}
	}

	fmt.Println("---------------------------------------------------------")
	n := float64(len(results))
	fmt.Printf("mean_settlement_rate=%.3f mean_avg_delay=%.2f worst_peak_overdraft=%s\n",
		settlementRateSum/n, avgDelaySum/n, peakOverdraft)
	log.Info("batch complete", map[string]interface{}{
		"mean_settlement_rate": settlementRateSum / n, "worst_peak_overdraft": peakOverdraft,
	})
}

func baseConfig(seed uint64) config.Config {
	agentA, agentB := money.AgentID("Bank_A"), money.AgentID("Bank_B")

	mkAgent := func(id, counterparty money.AgentID) config.AgentConfig {
		return config.AgentConfig{
			ID:             id,
			OpeningBalance: 150_000_00,
			CreditLimit:    0,
			InitialCollateralLots: []config.CollateralLotConfig{
				{Amount: 300_000_00, Haircut: decimal.NewFromFloat(0.15)},
			},
			ArrivalConfig: arrival.Config{
				RatePerTick: 1.5,
				AmountDistribution: arrival.AmountDistribution{
					Kind: arrival.DistExponential, Mean: 9000_00,
				},
				PriorityDistribution: []arrival.PriorityWeight{{Priority: 5, Weight: 1}},
				DeadlineMin:          3, DeadlineMax: 10,
				Divisible: false,
				CounterpartyWeights: map[money.AgentID]decimal.Decimal{
					counterparty: decimal.NewFromInt(1),
				},
			},
			Policy: config.PolicyConfig{Kind: config.PolicyDeadline, DeadlineReleaseThreshold: 0.7},
		}
	}

	return config.Config{
		Simulation: config.SimulationConfig{TicksPerDay: 24, NumDays: 1, RNGSeed: seed},
		Agents: []config.AgentConfig{
			mkAgent(agentA, agentB),
			mkAgent(agentB, agentA),
		},
		LSM:        config.LSMConfig{Enabled: true, MaxCycleLength: 4},
		Collateral: config.CollateralConfig{MinHoldingTicks: 12, SafetyBuffer: 20_000_00},
		CostRates: cost.Rates{
			Liquidity:             decimal.NewFromFloat(0.0005),
			Delay:                 decimal.NewFromFloat(0.0002),
			CollateralOpportunity: decimal.NewFromFloat(0.0001),
			SplitFriction:         decimal.NewFromFloat(0.001),
			DeadlinePenalty:       250,
		},
		PolicyFeatureToggles: policy.FeatureToggles{},
	}
}
