package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
)

func testRates() Rates {
	return Rates{
		Liquidity:             decimal.NewFromFloat(0.01),
		Delay:                 decimal.NewFromFloat(0.02),
		CollateralOpportunity: decimal.NewFromFloat(0.001),
		SplitFriction:         decimal.NewFromFloat(0.5),
		DeadlinePenalty:       250,
	}
}

func TestAccrueTickAppliesAllThreeRatesAndFloors(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", -9999, 0) // credit_used = 9999, floor(9999*0.01) = 99
	a.Collateral = []domain.CollateralLot{{FaceValue: 50_000, Haircut: decimal.Zero}}

	ev := AccrueTick(log, 3, a, testRates())

	assert.Equal(t, money.Money(99), a.AccruedCosts.Liquidity)
	assert.Equal(t, money.Money(50), a.AccruedCosts.Collateral) // floor(50000*0.001) = 50
	assert.Equal(t, money.Money(0), a.AccruedCosts.Delay)       // empty queue1
	assert.Equal(t, eventlog.KindCostAccrual, ev.Kind)
}

func TestAccrueTickIsMonotonicallyNonDecreasing(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", -1000, 0)
	rates := testRates()

	AccrueTick(log, 1, a, rates)
	first := a.AccruedCosts.Total()
	AccrueTick(log, 2, a, rates)
	second := a.AccruedCosts.Total()

	assert.GreaterOrEqual(t, int64(second), int64(first))
}

func TestAccrueSplitFrictionScalesWithPartsMinusOne(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", 0, 0)
	rates := testRates()

	AccrueSplitFriction(log, 5, a, rates, 3) // floor((3-1)*0.5) = 1
	assert.Equal(t, money.Money(1), a.AccruedCosts.SplitFriction)
}

func TestAccrueDeadlinePenaltyIsFlatPerTick(t *testing.T) {
	log := eventlog.New()
	a := agent.New("A", 0, 0)
	rates := testRates()

	AccrueDeadlinePenalty(log, 10, a, rates, "tx1")
	AccrueDeadlinePenalty(log, 11, a, rates, "tx1")

	assert.Equal(t, money.Money(500), a.AccruedCosts.DeadlinePenalty)
}
