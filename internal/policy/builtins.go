package policy

import "rtgssim/internal/domain"

// FIFO always releases: the simplest policy, used as a baseline and as the
// default when a configured policy is absent.
type FIFO struct{}

func (FIFO) Evaluate(ctx Context) domain.Decision {
	return domain.Decision{Kind: domain.DecisionRelease}
}

// Deadline releases once urgency crosses a threshold, otherwise holds —
// pure deadline-pressure release, no liquidity awareness.
type Deadline struct {
	ReleaseThreshold float64
}

func (p Deadline) Evaluate(ctx Context) domain.Decision {
	urgency := evalDerivedMetric(MetricUrgencyScore, ctx)
	if urgency >= p.ReleaseThreshold {
		return domain.Decision{Kind: domain.DecisionRelease}
	}
	return domain.Decision{Kind: domain.DecisionHold}
}

// LiquidityAware releases immediately when liquidity pressure is below
// PressureReleaseCeiling, releases anyway once urgency reaches
// UrgencyOverride, and otherwise holds. It never drops a payment and does
// not look at priority.
type LiquidityAware struct {
	PressureReleaseCeiling float64 // release freely below this pressure
	UrgencyOverride        float64 // release anyway once urgency crosses this, regardless of pressure
}

func (p LiquidityAware) Evaluate(ctx Context) domain.Decision {
	if ctx.Agent.LiquidityPressure < p.PressureReleaseCeiling {
		return domain.Decision{Kind: domain.DecisionRelease}
	}
	urgency := evalDerivedMetric(MetricUrgencyScore, ctx)
	if urgency >= p.UrgencyOverride {
		return domain.Decision{Kind: domain.DecisionRelease}
	}
	return domain.Decision{Kind: domain.DecisionHold}
}
