package oref

import "math"

// shouldEnableSMB evaluates the full SMB enable predicate: a short-circuit
// chain of safety gates followed by the profile's opt-in flags.
func shouldEnableSMB(p Profile, microBolusAllowed bool, meal MealData, bg, targetBG float64, tempTargetSet bool) bool {
	if !microBolusAllowed {
		return false
	}
	if !p.AllowSMBWithHighTempTarget && tempTargetSet && targetBG > 100 {
		return false
	}
	if meal.BWFound && !p.A52RiskEnable {
		return false
	}

	switch {
	case p.EnableSMBAlways:
		return true
	case p.EnableSMBWithCOB && meal.MealCOB > 0:
		return true
	case p.EnableSMBAfterCarbs && meal.Carbs > 0:
		return true
	case p.EnableSMBWithTempTarget && tempTargetSet && targetBG < 100:
		return true
	case p.EnableSMBHighBG && bg >= p.EnableSMBHighBGTarget:
		return true
	default:
		return false
	}
}

// calculateMaxSMB returns the SMB cap in units, expressed as a fraction of
// an hour of basal: the COB cap when carbs remain on board, the (usually
// tighter) UAM cap otherwise.
func calculateMaxSMB(p Profile, cob, basal float64) float64 {
	maxMinutes := p.MaxUAMSMBBasalMinutes
	if cob > 0 {
		maxMinutes = p.MaxSMBBasalMinutes
	}
	return (maxMinutes / 60.0) * basal
}

// calculateSMB sizes the SMB itself: a fraction of the outstanding insulin
// requirement, capped, and floored to a whole number of bolus increments.
// Returns nil if no requirement exists or the sized dose is too small to
// deliver.
func calculateSMB(p Profile, insulinReq, cob, basal float64) *float64 {
	if insulinReq <= 0 {
		return nil
	}
	maxSMB := calculateMaxSMB(p, cob, basal)
	deliveryRatio := math.Min(p.SMBDeliveryRatio, 1.0)
	smb := math.Min(insulinReq*deliveryRatio, maxSMB)

	increment := p.BolusIncrement
	if increment <= 0 {
		increment = 0.1
	}
	floored := roundTo(math.Floor(smb/increment)*increment, 3)
	if floored < increment {
		return nil
	}
	return &floored
}
