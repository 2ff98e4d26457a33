// Package engine implements the Tick Orchestrator: the single owning root
// object that drives the ten-phase tick loop and is the only thing that
// mutates agent state, both queues, and the collateral book (spec §4.1,
// §5, §9 "Global mutable state"). Everything else in this module is a
// pure function or a narrow, engine-owned collaborator; there is no
// ambient process state and no concurrency within one instance.
package engine

import (
	"fmt"
	"sort"

	"rtgssim/internal/agent"
	"rtgssim/internal/arrival"
	"rtgssim/internal/collateral"
	"rtgssim/internal/config"
	"rtgssim/internal/cost"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/lsm"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/internal/queue2"
	"rtgssim/internal/scenario"
	pkgerrors "rtgssim/pkg/errors"
)

// Engine is one simulation instance. It owns every agent, the central
// queue, the event log, and the collaborators derived from Config; nothing
// outside this struct is mutated by a tick (spec §5 "each simulation
// instance owns its state exclusively").
type Engine struct {
	cfg config.Config

	agentIDs   []money.AgentID // sorted once at construction; never re-sorted
	agents     map[money.AgentID]*agent.Agent
	generators map[money.AgentID]*arrival.Generator
	policies   map[money.AgentID]policy.Evaluator

	queue2      *queue2.Queue2
	log         *eventlog.Log
	lsmResolver lsm.Resolver
	dispatcher  *scenario.Dispatcher

	txIndex map[money.TxID]*domain.Transaction

	// released accumulates transactions the policy pass released this tick,
	// in released-order, for phase 4 (RTGS submission) to consume
	// (spec §4.1 "4... in released-order").
	released []*domain.Transaction

	tick          int
	lastCostTotal money.Money
	metrics       accumulatedMetrics
}

// New validates cfg and builds the engine, per spec §4.11 ("configuration
// errors... are fatal at load and prevent simulation start").
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		agents:     make(map[money.AgentID]*agent.Agent, len(cfg.Agents)),
		generators: make(map[money.AgentID]*arrival.Generator, len(cfg.Agents)),
		policies:   make(map[money.AgentID]policy.Evaluator, len(cfg.Agents)),
		queue2:     queue2.New(),
		log:        eventlog.New(),
		lsmResolver: lsm.Resolver{
			Enabled:        cfg.LSM.Enabled,
			MaxCycleLength: cfg.LSM.MaxCycleLength,
		},
		dispatcher: scenario.NewDispatcher(cfg.ScenarioEvents),
		txIndex:    make(map[money.TxID]*domain.Transaction),
	}

	for _, ac := range cfg.Agents {
		a := agent.New(ac.ID, ac.OpeningBalance, ac.CreditLimit)
		for _, lotCfg := range ac.InitialCollateralLots {
			collateral.Post(e.log, 0, a, lotCfg.Amount, lotCfg.Haircut)
		}
		e.agents[ac.ID] = a
		e.agentIDs = append(e.agentIDs, ac.ID)
		e.generators[ac.ID] = arrival.New(ac.ID, ac.ArrivalConfig, cfg.Simulation.RNGSeed)

		ev, err := ac.Policy.Build(cfg.PolicyFeatureToggles)
		if err != nil {
			return nil, err
		}
		e.policies[ac.ID] = ev
	}
	sort.Slice(e.agentIDs, func(i, j int) bool { return e.agentIDs[i] < e.agentIDs[j] })

	return e, nil
}

// totalTicks is the configured simulation length: ticks_per_day * num_days.
func (e *Engine) totalTicks() int {
	return e.cfg.Simulation.TicksPerDay * e.cfg.Simulation.NumDays
}

// CurrentTick returns the tick index that will run on the next Tick() call.
func (e *Engine) CurrentTick() int { return e.tick }

// CurrentDay returns the day index the current tick falls within.
func (e *Engine) CurrentDay() int {
	if e.cfg.Simulation.TicksPerDay <= 0 {
		return 0
	}
	return e.tick / e.cfg.Simulation.TicksPerDay
}

// registerTx indexes tx so GetTransaction can find it for the rest of the
// simulation's lifetime, regardless of which queue (or none) currently
// holds it.
func (e *Engine) registerTx(tx *domain.Transaction) {
	e.txIndex[tx.TxID] = tx
}

func (e *Engine) mustAgent(id money.AgentID) (*agent.Agent, error) {
	a, ok := e.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrAgentNotFound, id)
	}
	return a, nil
}
