// Package collateral implements the collateral lifecycle: posting,
// withdrawal subject to a minimum-holding timer and a safety-buffer guard,
// and timer-driven auto-withdrawal (spec §4.7).
package collateral

import (
	"rtgssim/internal/agent"
	"rtgssim/internal/domain"
	"rtgssim/internal/eventlog"
	"rtgssim/internal/money"
	pkgerrors "rtgssim/pkg/errors"
)

// Post creates a new lot with PostedTick = tick and returns its ID.
func Post(log *eventlog.Log, tick int, a *agent.Agent, amount money.Money, haircut money.Haircut) money.LotID {
	lotID := money.NewLotID(a.ID, tick, a.NextLotSeq())
	lot := domain.CollateralLot{LotID: lotID, FaceValue: amount, Haircut: haircut, PostedTick: tick}
	a.Collateral = append(a.Collateral, lot)

	log.Append(tick, eventlog.KindCollateralPosted, "", []money.AgentID{a.ID}, amount, map[string]interface{}{
		"lot_id":  lotID,
		"haircut": haircut.String(),
	})
	return lotID
}

// maxSafeWithdrawal is the single guard both the manual and timer paths
// call (spec §4.7 "Manual and timer paths share the same guard"). It
// returns the largest amount that may be withdrawn from lot without
// breaching: after withdrawal, AllowedOverdraftLimit (recomputed) must
// still cover CreditUsed + safetyBuffer.
func maxSafeWithdrawal(a *agent.Agent, lot domain.CollateralLot, safetyBuffer money.Money) money.Money {
	currentLimit := a.AllowedOverdraftLimit()
	required := a.CreditUsed() + safetyBuffer
	slack := currentLimit - required
	if slack <= 0 {
		return 0
	}
	// Withdrawing `amount` of face value reduces the limit by the difference
	// of two floored retained values, which is at most ceil(amount*(1-h)):
	// up to one minor unit more than AfterHaircut(amount, haircut). Since
	// the amount below is floor(retained/(1-h)), amount*(1-h) never exceeds
	// that retained budget, so the reduction stays within it.
	retainedPerUnit := lot.RetainedValue()
	if retainedPerUnit <= 0 {
		// Fully haircut-discounted lot: contributes nothing to the limit,
		// so its whole face value may be withdrawn freely.
		return lot.FaceValue
	}
	maxRetainedWithdrawable := money.Min(slack, retainedPerUnit)
	// Invert AfterHaircut linearly: retained = floor(face*(1-h)), so the
	// face amount matching a given retained reduction is retained/(1-h),
	// computed with the same decimal precision AfterHaircut uses, then
	// clamped to the lot's face value.
	faceForRetained := money.InvertAfterHaircut(maxRetainedWithdrawable, lot.Haircut)
	return money.Min(faceForRetained, lot.FaceValue)
}

// Withdraw removes amount of face value from lot, allowed only when
// current_tick - posted_tick >= minHoldingTicks AND the withdrawal passes
// maxSafeWithdrawal (spec §4.7). It returns the actually-withdrawn amount,
// which may be less than requested only via the timer auto-withdrawal path
// (Withdraw itself either honors the full request or fails).
func Withdraw(log *eventlog.Log, tick int, a *agent.Agent, lotID money.LotID, amount money.Money, minHoldingTicks int, safetyBuffer money.Money) (money.Money, error) {
	idx, lot, err := findLot(a, lotID)
	if err != nil {
		return 0, err
	}
	if tick-lot.PostedTick < minHoldingTicks {
		return 0, pkgerrors.NewConstraintViolation("min_holding_ticks", map[string]interface{}{
			"lot_id": lotID, "posted_tick": lot.PostedTick, "tick": tick, "min_holding_ticks": minHoldingTicks,
		})
	}
	if amount > lot.FaceValue {
		return 0, pkgerrors.NewConstraintViolation("withdraw_exceeds_face_value", map[string]interface{}{
			"lot_id": lotID, "requested": amount, "face_value": lot.FaceValue,
		})
	}

	safe := maxSafeWithdrawal(a, lot, safetyBuffer)
	if amount > safe {
		return 0, pkgerrors.NewConstraintViolation("withdrawal_guard", map[string]interface{}{
			"lot_id": lotID, "requested": amount, "max_safe": safe,
		})
	}

	applyWithdrawal(a, idx, amount)

	log.Append(tick, eventlog.KindCollateralWithdrawn, "", []money.AgentID{a.ID}, amount, map[string]interface{}{
		"lot_id": lotID,
	})
	return amount, nil
}

// ProcessTimers auto-withdraws from any lot whose minimum holding period has
// elapsed, clamped to the maximum safe amount; withdrawals here may be
// partial (spec §4.7 "Timer-driven auto-withdrawals are clamped... and may
// be partial"). The orchestrator's collateral-timer phase calls it every
// tick; it only acts on lots whose minimum holding period elapses at this
// exact tick (tick - PostedTick == minHoldingTicks).
func ProcessTimers(log *eventlog.Log, tick int, a *agent.Agent, minHoldingTicks int, safetyBuffer money.Money) {
	for i := 0; i < len(a.Collateral); i++ {
		lot := a.Collateral[i]
		if tick-lot.PostedTick != minHoldingTicks {
			continue
		}
		safe := maxSafeWithdrawal(a, lot, safetyBuffer)
		if safe <= 0 {
			continue
		}
		withdrawn := money.Min(safe, lot.FaceValue)
		applyWithdrawal(a, i, withdrawn)
		log.Append(tick, eventlog.KindCollateralWithdrawn, "", []money.AgentID{a.ID}, withdrawn, map[string]interface{}{
			"lot_id": lot.LotID,
			"timer":  true,
		})
		i-- // the lot may have been removed; re-examine this index
	}
}

func findLot(a *agent.Agent, lotID money.LotID) (int, domain.CollateralLot, error) {
	for i, lot := range a.Collateral {
		if lot.LotID == lotID {
			return i, lot, nil
		}
	}
	return 0, domain.CollateralLot{}, pkgerrors.ErrLotNotFound
}

func applyWithdrawal(a *agent.Agent, idx int, amount money.Money) {
	lot := a.Collateral[idx]
	if amount >= lot.FaceValue {
		a.Collateral = append(a.Collateral[:idx], a.Collateral[idx+1:]...)
		return
	}
	lot.FaceValue -= amount
	a.Collateral[idx] = lot
}
