package oref

import "math"

// calculateIOBContrib computes one dose's contribution to IOB and
// activity at a point `minsAgo` minutes after delivery, under the given
// curve. insulin is the dose's absolute magnitude; callers apply sign
// themselves. A non-positive dose, or a dose in the future, contributes
// nothing.
func calculateIOBContrib(insulin, minsAgo float64, curve Curve, dia, peak float64) IOBContrib {
	if insulin <= 0.0 || minsAgo < 0.0 {
		return IOBContrib{}
	}
	switch curve {
	case Bilinear:
		return bilinearContrib(insulin, minsAgo, dia)
	default:
		return exponentialContrib(insulin, minsAgo, dia, peak)
	}
}

const (
	bilinearDefaultDIA = 3.0
	bilinearPeak       = 75.0
	bilinearEnd        = 180.0
)

// bilinearContrib implements the legacy triangular insulin-action model,
// scaled so that a user's DIA is expressed relative to the 3-hour
// reference the model was fit against.
func bilinearContrib(insulin, minsAgo, dia float64) IOBContrib {
	dia = math.Max(dia, bilinearDefaultDIA)

	timeScalar := bilinearDefaultDIA / dia
	scaledMinsAgo := timeScalar * minsAgo

	activityPeak := 2.0 / (dia * 60.0)
	slopeUp := activityPeak / bilinearPeak
	slopeDown := -activityPeak / (bilinearEnd - bilinearPeak)

	var activityContrib, iobContrib float64
	switch {
	case scaledMinsAgo < bilinearPeak:
		activityContrib = insulin * (slopeUp * scaledMinsAgo)
		x := scaledMinsAgo/5.0 + 1.0
		iobContrib = insulin * (-0.001852*x*x + 0.001852*x + 1.0)
	case scaledMinsAgo < bilinearEnd:
		minsPastPeak := scaledMinsAgo - bilinearPeak
		activityContrib = insulin * (activityPeak + slopeDown*minsPastPeak)
		y := (scaledMinsAgo - bilinearPeak) / 5.0
		iobContrib = insulin * (0.001323*y*y - 0.054233*y + 0.555560)
	}
	return IOBContrib{IOBContrib: iobContrib, ActivityContrib: activityContrib}
}

const exponentialDefaultMinDIA = 5.0

// exponentialContrib implements the physiologically-based exponential
// model shared by the rapid and ultra-rapid curves, distinguished only by
// their peak time.
func exponentialContrib(insulin, minsAgo, dia, peak float64) IOBContrib {
	dia = math.Max(dia, exponentialDefaultMinDIA)
	end := dia * 60.0

	if minsAgo >= end {
		return IOBContrib{}
	}

	tau := peak * (1.0 - peak/end) / (1.0 - 2.0*peak/end)
	a := 2.0 * tau / end
	s := 1.0 / (1.0 - a + (1.0+a)*math.Exp(-end/tau))

	activityContrib := insulin * (s / (tau * tau)) * minsAgo * (1.0 - minsAgo/end) * math.Exp(-minsAgo/tau)

	inner := (minsAgo*minsAgo/(tau*end*(1.0-a)) - minsAgo/tau - 1.0) * math.Exp(-minsAgo/tau) + 1.0
	iobContrib := insulin * (1.0 - s*(1.0-a)*inner)

	return IOBContrib{IOBContrib: iobContrib, ActivityContrib: activityContrib}
}

// curvePeak resolves the effective peak time for a profile: an explicit
// Profile.Peak override, or the curve's own conventional default.
func curvePeak(p Profile) float64 {
	if p.Peak > 0 {
		return p.Peak
	}
	return p.Curve.DefaultPeak()
}
