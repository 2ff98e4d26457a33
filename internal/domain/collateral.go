package domain

import "rtgssim/internal/money"

// CollateralLot is a single posted block of collateral backing an agent's
// unsecured credit line. Haircut is an exact fraction in [0,1).
type CollateralLot struct {
	LotID      money.LotID
	FaceValue  money.Money
	Haircut    money.Haircut
	PostedTick int
}

// RetainedValue is the lot's contribution to AllowedOverdraftLimit:
// floor(face_value * (1 - haircut)).
func (l CollateralLot) RetainedValue() money.Money {
	return money.AfterHaircut(l.FaceValue, l.Haircut)
}

// AccruedCosts is the exact, monotonically non-decreasing per-agent cost
// breakdown accumulated by the Cost Accountant (spec §4.8).
type AccruedCosts struct {
	Liquidity      money.Money
	Delay          money.Money
	Collateral     money.Money
	SplitFriction  money.Money
	DeadlinePenalty money.Money
}

func (c AccruedCosts) Total() money.Money {
	return c.Liquidity + c.Delay + c.Collateral + c.SplitFriction + c.DeadlinePenalty
}
