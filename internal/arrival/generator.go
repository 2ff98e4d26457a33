package arrival

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

// Generator produces one agent's arrivals tick by tick. Each agent owns an
// independent stream seeded by (global_seed, agent_id) (spec §4.2), so the
// order in which the orchestrator visits agents never affects any agent's
// individual sample sequence — only the engine's deterministic agent
// ordering decides where those arrivals land in the event log.
type Generator struct {
	agentID money.AgentID
	cfg     Config
	rng     *rand.Rand

	poisson  distuv.Poisson
	amount   amountSampler
	priority weightedTable
	counterparties weightedTable

	txSeq int
}

// amountSampler draws a single amount from the configured shape; draws below
// one minor unit are raised to one at the call site, so every generated
// amount is positive (spec §8 boundary behavior).
type amountSampler interface {
	Rand() float64
}

// New builds a Generator for one agent. globalSeed combines with agentID via
// money.SeedFor so that re-running with the same seed reproduces the exact
// same arrivals regardless of agent iteration order.
func New(agentID money.AgentID, cfg Config, globalSeed uint64) *Generator {
	seed := money.SeedFor(globalSeed, agentID)
	rng := rand.New(rand.NewSource(seed))

	g := &Generator{
		agentID: agentID,
		cfg:     cfg,
		rng:     rng,
		poisson: distuv.Poisson{Lambda: cfg.RatePerTick, Src: rng},
	}
	g.amount = newAmountSampler(cfg.AmountDistribution, rng)
	g.priority = newPriorityTable(cfg.PriorityDistribution)
	g.counterparties = newCounterpartyTable(cfg.CounterpartyWeights)
	return g
}

func newAmountSampler(d AmountDistribution, src *rand.Rand) amountSampler {
	switch d.Kind {
	case DistLogNormal:
		return distuv.LogNormal{Mu: d.Mean, Sigma: d.StdDev, Src: src}
	case DistUniform:
		return distuv.Uniform{Min: d.Min, Max: d.Max, Src: src}
	case DistExponential:
		rate := 1.0
		if d.Mean > 0 {
			rate = 1.0 / d.Mean
		}
		return distuv.Exponential{Rate: rate, Src: src}
	case DistNormal:
		fallthrough
	default:
		return distuv.Normal{Mu: d.Mean, Sigma: d.StdDev, Src: src}
	}
}

// weightedTable supports weighted discrete sampling over a fixed, sorted key
// set. Keys are sorted once at construction so sampling never depends on Go's
// randomized map iteration order — the same uniform draw always lands on the
// same key (spec §4.2, §8 replay identity).
type weightedTable struct {
	priorities []int
	agents     []money.AgentID
	cumulative []float64 // running totals; last entry is the total weight
}

func newPriorityTable(weights []PriorityWeight) weightedTable {
	sorted := make([]PriorityWeight, len(weights))
	copy(sorted, weights)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	t := weightedTable{priorities: make([]int, 0, len(sorted)), cumulative: make([]float64, 0, len(sorted))}
	var running float64
	for _, w := range sorted {
		if w.Weight <= 0 {
			continue
		}
		running += w.Weight
		t.priorities = append(t.priorities, w.Priority)
		t.cumulative = append(t.cumulative, running)
	}
	return t
}

func newCounterpartyTable(weights map[money.AgentID]decimal.Decimal) weightedTable {
	ids := make([]money.AgentID, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	t := weightedTable{agents: make([]money.AgentID, 0, len(ids)), cumulative: make([]float64, 0, len(ids))}
	var running float64
	for _, id := range ids {
		w, _ := weights[id].Float64()
		if w <= 0 {
			continue
		}
		running += w
		t.agents = append(t.agents, id)
		t.cumulative = append(t.cumulative, running)
	}
	return t
}

// samplePriority draws a priority via inverse-CDF lookup over the sorted
// cumulative table. Returns 0 if no weight was configured.
func (t weightedTable) samplePriority(u float64) int {
	if len(t.cumulative) == 0 {
		return 0
	}
	target := u * t.cumulative[len(t.cumulative)-1]
	for i, c := range t.cumulative {
		if target <= c {
			return t.priorities[i]
		}
	}
	return t.priorities[len(t.priorities)-1]
}

func (t weightedTable) sampleAgent(u float64) (money.AgentID, bool) {
	if len(t.cumulative) == 0 {
		return "", false
	}
	target := u * t.cumulative[len(t.cumulative)-1]
	for i, c := range t.cumulative {
		if target <= c {
			return t.agents[i], true
		}
	}
	return t.agents[len(t.agents)-1], true
}

// SetRatePerTick overwrites the Poisson rate, used by the Scenario
// Dispatcher's AgentArrivalRateChange/GlobalArrivalRateChange events
// (spec §4.9). The underlying source is untouched, so the stream stays
// deterministic — only the distribution parameter changes.
func (g *Generator) SetRatePerTick(rate float64) {
	g.cfg.RatePerTick = rate
	g.poisson.Lambda = rate
}

// RatePerTick returns the generator's current arrival rate.
func (g *Generator) RatePerTick() float64 { return g.cfg.RatePerTick }

// SetDeadlineWindow overwrites the deadline sampling bounds in place
// (spec §4.9 DeadlineWindowChange).
func (g *Generator) SetDeadlineWindow(min, max int) {
	g.cfg.DeadlineMin = min
	g.cfg.DeadlineMax = max
}

// SetCounterpartyWeight sets a single counterparty's weight and rebuilds
// the cumulative-weight table. If rebalance is set, every other configured
// counterparty's weight is scaled so the total excluding the changed entry
// keeps its prior proportions, per spec §4.9 "optionally re-balancing
// others proportionally".
func (g *Generator) SetCounterpartyWeight(counterparty money.AgentID, weight float64, rebalance bool) {
	if g.cfg.CounterpartyWeights == nil {
		g.cfg.CounterpartyWeights = make(map[money.AgentID]decimal.Decimal)
	}
	if rebalance {
		var othersTotal decimal.Decimal
		for id, w := range g.cfg.CounterpartyWeights {
			if id != counterparty {
				othersTotal = othersTotal.Add(w)
			}
		}
		remaining := decimal.NewFromFloat(1 - weight)
		if othersTotal.IsPositive() {
			scale := remaining.Div(othersTotal)
			for id, w := range g.cfg.CounterpartyWeights {
				if id != counterparty {
					g.cfg.CounterpartyWeights[id] = w.Mul(scale)
				}
			}
		}
	}
	g.cfg.CounterpartyWeights[counterparty] = decimal.NewFromFloat(weight)
	g.counterparties = newCounterpartyTable(g.cfg.CounterpartyWeights)
}

// Next draws this tick's arrivals for the agent and appends one
// eventlog.KindArrival event per transaction. Returns nil if the Poisson
// draw is zero, which is the common case at realistic arrival rates.
func (g *Generator) Next(log *eventlog.Log, tick int) []*domain.Transaction {
	n := int(g.poisson.Rand())
	if n <= 0 {
		return nil
	}

	out := make([]*domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		receiver, ok := g.counterparties.sampleAgent(g.rng.Float64())
		if !ok {
			continue // no counterparty configured with positive weight: nothing to send
		}

		amount := g.amount.Rand()
		if amount < 1 {
			amount = 1
		}
		priority := g.priority.samplePriority(g.rng.Float64())

		window := g.cfg.DeadlineMax - g.cfg.DeadlineMin
		deadlineOffset := g.cfg.DeadlineMin
		if window > 0 {
			deadlineOffset += g.rng.Intn(window + 1)
		}

		tx := &domain.Transaction{
			TxID:         money.NewTxID(g.agentID, tick, g.txSeq),
			SenderID:     g.agentID,
			ReceiverID:   receiver,
			Amount:       money.Money(amount),
			Priority:     priority,
			ArrivalTick:  tick,
			DeadlineTick: tick + deadlineOffset,
			Divisible:    g.cfg.Divisible,
			Status:       domain.StatusPending,
		}
		g.txSeq++

		log.Append(tick, eventlog.KindArrival, tx.TxID, []money.AgentID{tx.SenderID, tx.ReceiverID}, tx.Amount, map[string]interface{}{
			"priority":      tx.Priority,
			"deadline_tick": tx.DeadlineTick,
		})
		out = append(out, tx)
	}
	return out
}
