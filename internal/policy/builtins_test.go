package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rtgssim/internal/domain"
)

func TestFIFOAlwaysReleases(t *testing.T) {
	d := FIFO{}.Evaluate(ctxWithTx(&domain.Transaction{}))
	assert.Equal(t, domain.DecisionRelease, d.Kind)
}

func TestDeadlineReleasesOnceUrgencyCrossesThreshold(t *testing.T) {
	p := Deadline{ReleaseThreshold: 0.8}
	tx := &domain.Transaction{ArrivalTick: 0, DeadlineTick: 10}

	held := p.Evaluate(Context{Tx: tx, Clock: domain.Clock{Tick: 1}}) // urgency 0.1
	assert.Equal(t, domain.DecisionHold, held.Kind)

	released := p.Evaluate(Context{Tx: tx, Clock: domain.Clock{Tick: 9}}) // urgency 0.9
	assert.Equal(t, domain.DecisionRelease, released.Kind)
}

func TestLiquidityAwareReleasesBelowCeilingRegardlessOfUrgency(t *testing.T) {
	p := LiquidityAware{PressureReleaseCeiling: 0.5, UrgencyOverride: 0.9}
	tx := &domain.Transaction{ArrivalTick: 0, DeadlineTick: 100}
	ctx := Context{Tx: tx, Agent: domain.AgentSnapshot{LiquidityPressure: 0.1}, Clock: domain.Clock{Tick: 0}}
	d := p.Evaluate(ctx)
	assert.Equal(t, domain.DecisionRelease, d.Kind)
}

func TestLiquidityAwareHoldsUnderPressureWithLowUrgency(t *testing.T) {
	p := LiquidityAware{PressureReleaseCeiling: 0.5, UrgencyOverride: 0.9}
	tx := &domain.Transaction{ArrivalTick: 0, DeadlineTick: 100}
	ctx := Context{Tx: tx, Agent: domain.AgentSnapshot{LiquidityPressure: 0.8}, Clock: domain.Clock{Tick: 0}}
	d := p.Evaluate(ctx)
	assert.Equal(t, domain.DecisionHold, d.Kind)
}

func TestLiquidityAwareUrgencyOverridesPressure(t *testing.T) {
	p := LiquidityAware{PressureReleaseCeiling: 0.5, UrgencyOverride: 0.5}
	tx := &domain.Transaction{ArrivalTick: 0, DeadlineTick: 10}
	ctx := Context{Tx: tx, Agent: domain.AgentSnapshot{LiquidityPressure: 0.9}, Clock: domain.Clock{Tick: 9}} // urgency 0.9
	d := p.Evaluate(ctx)
	assert.Equal(t, domain.DecisionRelease, d.Kind)
}
