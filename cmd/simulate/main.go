// Command simulate runs one end-to-end simulation with a small fixed
// network of agents under built-in policies, printing a per-tick summary
// the way kyd's cmd/simulate_lsm and cmd/simulate_settlement demonstrated
// their own settlement/netting logic in isolation (SPEC_FULL §6+).
package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rtgssim/internal/arrival"
	"rtgssim/internal/config"
	"rtgssim/internal/cost"
	"rtgssim/internal/engine"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/pkg/logger"
)

func main() {
	log := logger.New("simulate")

	fmt.Println("=========================================================")
	fmt.Println("RTGS/LSM PAYMENT NETWORK SIMULATION")
	fmt.Println("=========================================================")
	fmt.Println("3 agents, circular payment pressure, LSM multilateral netting enabled")
	fmt.Println("---------------------------------------------------------")

	cfg := demoConfig()

	e, err := engine.New(cfg)
	if err != nil {
		log.Error("config validation failed", map[string]interface{}{"error": err})
		fmt.Printf("config error: %v\n", err)
		return
	}
	log.Info("simulation starting", map[string]interface{}{
		"agents": len(cfg.Agents), "ticks_per_day": cfg.Simulation.TicksPerDay, "num_days": cfg.Simulation.NumDays,
	})

	ticks := cfg.Simulation.TicksPerDay * cfg.Simulation.NumDays
	for t := 0; t < ticks; t++ {
		summary := e.Tick()
		fmt.Printf("tick %3d  arrivals=%-3d immediate=%-3d lsm_bilateral=%-2d lsm_cycle=%-2d queue2=%-3d q1_total=%-3d violations=%d\n",
			summary.Tick, summary.Arrivals, summary.ImmediateSettlements,
			summary.LSMBilateralOffsets, summary.LSMCycleSettlements,
			summary.Queue2Settlements, summary.Queue1Total, summary.DeadlineViolations)
		if summary.DeadlineViolations > 0 {
			log.Warn("deadline violations this tick", map[string]interface{}{"tick": summary.Tick, "count": summary.DeadlineViolations})
		}
	}

	fmt.Println("---------------------------------------------------------")
	metrics := e.GetSystemMetrics()
	fmt.Printf("total_arrivals=%d total_settlements=%d settlement_rate=%.3f avg_delay_ticks=%.2f max_delay_ticks=%d\n",
		metrics.TotalArrivals, metrics.TotalSettlements, metrics.SettlementRate, metrics.AvgDelayTicks, metrics.MaxDelayTicks)
	fmt.Printf("peak_overdraft=%s agents_in_overdraft=%d\n", metrics.PeakOverdraft, metrics.AgentsInOverdraft)
	log.Info("simulation complete", map[string]interface{}{
		"total_settlements": metrics.TotalSettlements, "settlement_rate": metrics.SettlementRate,
	})
}

// demoConfig builds a small three-agent network with circular counterparty
// weighting (A->B->C->A), deliberately thin opening balances so bilateral
// and multilateral netting both have a chance to fire during the run —
// the same gridlock shape kyd's cmd/simulate_lsm demonstrated with
// banking.GridlockResolver.
func demoConfig() config.Config {
	agentA, agentB, agentC := money.AgentID("Bank_A"), money.AgentID("Bank_B"), money.AgentID("Bank_C")

	mkAgent := func(id, counterparty money.AgentID) config.AgentConfig {
		return config.AgentConfig{
			ID:             id,
			OpeningBalance: 200_000_00,
			CreditLimit:    0,
			InitialCollateralLots: []config.CollateralLotConfig{
				{Amount: 500_000_00, Haircut: decimal.NewFromFloat(0.1)},
			},
			ArrivalConfig: arrival.Config{
				RatePerTick: 1.2,
				AmountDistribution: arrival.AmountDistribution{
					Kind: arrival.DistLogNormal, Mean: 11.5, StdDev: 0.6,
				},
				PriorityDistribution: []arrival.PriorityWeight{
					{Priority: 3, Weight: 0.2}, {Priority: 5, Weight: 0.6}, {Priority: 8, Weight: 0.2},
				},
				DeadlineMin: 4, DeadlineMax: 12,
				Divisible: true,
				CounterpartyWeights: map[money.AgentID]decimal.Decimal{
					counterparty: decimal.NewFromInt(1),
				},
			},
			Policy: config.PolicyConfig{
				Kind:                            config.PolicyLiquidityAware,
				LiquidityPressureReleaseCeiling: 0.85,
				LiquidityUrgencyOverride:        0.9,
			},
		}
	}

	return config.Config{
		Simulation: config.SimulationConfig{TicksPerDay: 48, NumDays: 2, RNGSeed: 42},
		Agents: []config.AgentConfig{
			mkAgent(agentA, agentB),
			mkAgent(agentB, agentC),
			mkAgent(agentC, agentA),
		},
		LSM:        config.LSMConfig{Enabled: true, MaxCycleLength: 6},
		Collateral: config.CollateralConfig{MinHoldingTicks: 24, SafetyBuffer: 50_000_00},
		CostRates: cost.Rates{
			Liquidity:             decimal.NewFromFloat(0.0005),
			Delay:                 decimal.NewFromFloat(0.0002),
			CollateralOpportunity: decimal.NewFromFloat(0.0001),
			SplitFriction:         decimal.NewFromFloat(0.001),
			DeadlinePenalty:       500,
		},
		PolicyFeatureToggles: policy.FeatureToggles{},
	}
}
