package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rtgssim/internal/arrival"
	"rtgssim/internal/money"
	"rtgssim/internal/policy"
	"rtgssim/internal/scenario"
)

func minimalValidConfig() Config {
	return Config{
		Simulation: SimulationConfig{TicksPerDay: 24, NumDays: 1, RNGSeed: 1},
		Agents: []AgentConfig{
			{ID: "A", Policy: PolicyConfig{Kind: PolicyFIFO}},
			{ID: "B", Policy: PolicyConfig{Kind: PolicyFIFO}},
		},
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	assert.NoError(t, minimalValidConfig().Validate())
}

func TestValidateRejectsNonPositiveTicksPerDay(t *testing.T) {
	c := minimalValidConfig()
	c.Simulation.TicksPerDay = 0
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNoAgents(t *testing.T) {
	c := minimalValidConfig()
	c.Agents = nil
	assert.Error(t, c.Validate())
}

func TestValidateRejectsDuplicateAgentID(t *testing.T) {
	c := minimalValidConfig()
	c.Agents = append(c.Agents, AgentConfig{ID: "A", Policy: PolicyConfig{Kind: PolicyFIFO}})
	assert.Error(t, c.Validate())
}

func TestValidateRejectsUnknownCounterpartyWeight(t *testing.T) {
	c := minimalValidConfig()
	c.Agents[0].ArrivalConfig = arrival.Config{
		CounterpartyWeights: map[money.AgentID]decimal.Decimal{"Z": decimal.NewFromInt(1)},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNegativeCounterpartyWeight(t *testing.T) {
	c := minimalValidConfig()
	c.Agents[0].ArrivalConfig = arrival.Config{
		CounterpartyWeights: map[money.AgentID]decimal.Decimal{"B": decimal.NewFromInt(-1)},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsCyclicPolicyTree(t *testing.T) {
	c := minimalValidConfig()
	c.Agents[0].Policy = PolicyConfig{
		Kind: PolicyTree,
		Tree: policy.Tree{
			Root: 0,
			Nodes: []policy.Node{
				{Kind: policy.KindNot, Operands: []int{1}},
				{Kind: policy.KindNot, Operands: []int{0}},
			},
		},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsIncludeToggleWithBuiltinPolicy(t *testing.T) {
	c := minimalValidConfig()
	c.PolicyFeatureToggles = policy.FeatureToggles{Include: []policy.NodeKind{policy.KindActionRelease}}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsScenarioEventReferencingUnknownAgent(t *testing.T) {
	c := minimalValidConfig()
	c.ScenarioEvents = []scenario.Event{
		{Tick: 1, Kind: scenario.KindDirectTransfer, Payload: scenario.DirectTransferParams{Sender: "A", Receiver: "Z", Amount: 100}},
	}
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsScenarioEventReferencingKnownAgents(t *testing.T) {
	c := minimalValidConfig()
	c.ScenarioEvents = []scenario.Event{
		{Tick: 1, Kind: scenario.KindDirectTransfer, Payload: scenario.DirectTransferParams{Sender: "A", Receiver: "B", Amount: 100}},
	}
	assert.NoError(t, c.Validate())
}
