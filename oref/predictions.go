package oref

import "math"

const (
	predictionSteps       = 48
	predictionStepMinutes = 5.0
	predictionFloorBG     = 39.0
)

func predictionMinutesAt(i int) float64 { return float64(i) * predictionStepMinutes }

// insulinDecayEffect is the BG drop attributable to IOB at `m` minutes
// into the prediction, shared by every curve below: insulin keeps acting
// regardless of which glucose-trend assumption a curve makes.
func insulinDecayEffect(iob, sens, m float64) float64 {
	return iob * math.Exp(-m/60.0) * sens
}

func floorBG(v float64) float64 {
	if v < predictionFloorBG {
		return predictionFloorBG
	}
	return v
}

// PredictIOBOnly projects glucose assuming no further carbs and no temp
// change: BG minus the decaying IOB's expected effect.
func PredictIOBOnly(bg, iob, sens float64) []float64 {
	out := make([]float64, predictionSteps)
	for i := range out {
		m := predictionMinutesAt(i)
		out[i] = floorBG(bg - insulinDecayEffect(iob, sens, m))
	}
	return out
}

// PredictZeroTemp projects glucose as if delivery were suspended now: the
// missing scheduled basal drifts glucose upward, capped at four hours of
// missed basal, plus a capped continuation of any current positive delta.
func PredictZeroTemp(bg, iob, sens, delta, scheduledBasal float64) []float64 {
	cap := scheduledBasal * sens * 4.0
	out := make([]float64, predictionSteps)
	for i := range out {
		m := predictionMinutesAt(i)
		drift := math.Min(cap, scheduledBasal*sens*(m/60.0))
		posDeltaDrift := math.Max(0, delta) * 30.0 * (1 - math.Exp(-m/60.0))
		out[i] = floorBG(bg - insulinDecayEffect(iob, sens, m) + drift + posDeltaDrift)
	}
	return out
}

// PredictUAM projects glucose assuming an unannounced meal is underway:
// the current delta decays more slowly than the default curve, extending
// a meal-like rise further into the prediction window.
func PredictUAM(bg, iob, sens, delta float64) []float64 {
	out := make([]float64, predictionSteps)
	for i := range out {
		m := predictionMinutesAt(i)
		driftContinuation := delta * 60.0 * (1 - math.Exp(-m/60.0))
		out[i] = floorBG(bg - insulinDecayEffect(iob, sens, m) + driftContinuation)
	}
	return out
}

// PredictCOB projects glucose assuming the estimated remaining meal carbs
// absorb following a bell-shaped curve peaking around 45 minutes.
func PredictCOB(bg, iob, sens, carbRatio, mealCOB float64) []float64 {
	out := make([]float64, predictionSteps)
	if carbRatio <= 0 {
		return PredictIOBOnly(bg, iob, sens)
	}
	totalImpact := mealCOB * sens / carbRatio

	weights := make([]float64, predictionSteps)
	totalWeight := 0.0
	for i := range weights {
		m := predictionMinutesAt(i)
		w := math.Exp(-math.Pow((m-45.0)/30.0, 2))
		weights[i] = w
		totalWeight += w
	}

	absorbedFraction := 0.0
	for i := range out {
		if totalWeight > 0 {
			absorbedFraction += weights[i] / totalWeight
		}
		m := predictionMinutesAt(i)
		out[i] = floorBG(bg - insulinDecayEffect(iob, sens, m) + totalImpact*absorbedFraction)
	}
	return out
}

// PredictDefault is the fallback trend projection used when neither a
// meal nor an unannounced-meal rise is in progress: the current delta
// decays over a half-hour time constant.
func PredictDefault(bg, delta float64) []float64 {
	out := make([]float64, predictionSteps)
	for i := range out {
		m := predictionMinutesAt(i)
		out[i] = floorBG(bg + delta*30.0*(1-math.Exp(-m/30.0)))
	}
	return out
}

// BuildPredictedCurves computes the four prediction series the
// determine-basal controller reports alongside its recommendation.
func BuildPredictedCurves(status GlucoseStatus, iobData IOBData, p Profile, meal MealData, scheduledBasal float64) PredictedCurves {
	sens := isfLookup(p, status.Time)
	return PredictedCurves{
		IOB: PredictIOBOnly(status.Glucose, iobData.IOB, sens),
		ZT:  PredictZeroTemp(status.Glucose, iobData.IOB, sens, status.Delta, scheduledBasal),
		UAM: PredictUAM(status.Glucose, iobData.IOB, sens, status.Delta),
		COB: PredictCOB(status.Glucose, iobData.IOB, sens, carbRatioLookup(p), meal.MealCOB),
	}
}
