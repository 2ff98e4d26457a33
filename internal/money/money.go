// Package money defines the engine's fixed-point cash type and the stable,
// deterministic identifiers used throughout the simulation. No float64 ever
// participates in a balance or a settlement decision (spec §3).
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a signed amount in minor units (cents). All arithmetic is exact
// 64-bit integer arithmetic.
type Money int64

const Zero Money = 0

func (m Money) Add(other Money) Money { return m + other }
func (m Money) Sub(other Money) Money { return m - other }
func (m Money) Neg() Money            { return -m }
func (m Money) IsNeg() bool           { return m < 0 }
func (m Money) IsPos() bool           { return m > 0 }

// Max0 returns m if positive, else zero. Used for credit_used = max(-balance, 0).
func Max0(m Money) Money {
	if m > 0 {
		return m
	}
	return 0
}

func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, abs64(int64(m))%100)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Haircut is an exact fraction in [0,1) applied to a collateral lot's face
// value. Represented with decimal.Decimal so posting/withdrawal math never
// rounds through float64; the only rounding permitted is the explicit floor
// specified in spec §3.
type Haircut = decimal.Decimal

// AfterHaircut computes floor(face * (1 - haircut)) as an exact integer
// amount of minor units, per the allowed_overdraft_limit definition in
// spec §3 and the GLOSSARY.
func AfterHaircut(face Money, haircut Haircut) Money {
	faceDec := decimal.NewFromInt(int64(face))
	retained := decimal.NewFromInt(1).Sub(haircut)
	result := faceDec.Mul(retained).Floor()
	return Money(result.IntPart())
}

// InvertAfterHaircut returns the face-value amount whose retained value
// (after the given haircut) is at most retained, rounding down so that
// AfterHaircut(result, haircut) never exceeds retained — used by the
// collateral withdrawal guard to translate a safe *retained* amount back
// into a safe *face-value* amount to withdraw without ever overshooting the
// safety margin.
func InvertAfterHaircut(retained Money, haircut Haircut) Money {
	keep := decimal.NewFromInt(1).Sub(haircut)
	if keep.IsZero() {
		return retained // fully discounted lot: retained value is always 0, no useful inverse
	}
	result := decimal.NewFromInt(int64(retained)).Div(keep).Floor()
	return Money(result.IntPart())
}
