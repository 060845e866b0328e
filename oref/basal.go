package oref

import (
	"fmt"
	"math"
	"time"
)

// DetermineBasalInputs bundles everything the dosing controller needs for
// one invocation.
type DetermineBasalInputs struct {
	Status            GlucoseStatus
	CurrentTemp       CurrentTemp
	IOB               IOBData
	Profile           Profile
	Autosens          AutosensData // optional; zero value treated as ratio 1.0
	Meal              MealData     // optional; zero value is "no meal information"
	TempTarget        *TempTarget  // optional
	MicroBolusAllowed bool
	Now               time.Time
}

// resolvedAutosensRatio returns the effective ratio, defaulting to 1.0
// when the caller didn't supply one.
func resolvedAutosensRatio(a AutosensData) float64 {
	if a.Ratio <= 0 {
		return 1.0
	}
	return a.Ratio
}

// DetermineBasal fuses IOB, COB, autosens and the current glucose trend
// into a temp-basal/SMB recommendation. A failed precondition (e.g. a
// non-positive current basal rate) is returned as a success-shaped
// Recommendation carrying only a diagnostic Reason, never as a Go error.
func DetermineBasal(in DetermineBasalInputs) Recommendation {
	p := in.Profile
	if p.CurrentBasal <= 0 {
		return Recommendation{Reason: "Could not get current basal rate"}
	}

	ratio := resolvedAutosensRatio(in.Autosens)
	sens := isfLookup(p, in.Now) / ratio
	basal := roundBasal(p.CurrentBasal*ratio, p)

	targets := bgTargetsLookup(p, in.TempTarget, in.Now)
	targetBG := targets.MinBG

	bg := in.Status.Glucose

	if bg < 80 {
		zeroRate := 0.0
		duration := 30.0
		return Recommendation{
			Rate:             &zeroRate,
			Duration:         &duration,
			Reason:           fmt.Sprintf("BG %.0f < 80, temp zero", bg),
			IOB:              in.IOB.IOB,
			COB:              in.Meal.MealCOB,
			TargetBG:         targetBG,
			SensitivityRatio: ratio,
			PredBGs:          BuildPredictedCurves(in.Status, in.IOB, p, in.Meal, basal),
		}
	}

	eventualBG := math.Max(0, bg+in.Status.Delta*12.0-in.IOB.IOB*sens)
	insulinReq := (eventualBG - targetBG) / sens

	rec := Recommendation{
		EventualBG:       eventualBG,
		IOB:              in.IOB.IOB,
		COB:              in.Meal.MealCOB,
		TargetBG:         targetBG,
		SensitivityRatio: ratio,
		InsulinReq:       insulinReq,
		PredBGs:          BuildPredictedCurves(in.Status, in.IOB, p, in.Meal, basal),
	}

	switch {
	case eventualBG >= targets.MinBG && eventualBG <= targets.MaxBG:
		if in.CurrentTemp.IsActive() && in.CurrentTemp.Rate > basal {
			rate, duration := basal, 30.0
			rec.Rate, rec.Duration = &rate, &duration
			rec.Reason = fmt.Sprintf("Eventual BG %.0f in range (%.0f-%.0f), canceling high temp",
				eventualBG, targets.MinBG, targets.MaxBG)
		} else {
			rec.Reason = fmt.Sprintf("Eventual BG %.0f in range (%.0f-%.0f), no action needed",
				eventualBG, targets.MinBG, targets.MaxBG)
		}

	case eventualBG > targets.MaxBG:
		needed := basal + insulinReq/0.5
		needed = math.Max(0, math.Min(needed, p.MaxBasal))
		needed = roundBasal(needed, p)
		duration := 30.0
		rec.Rate, rec.Duration = &needed, &duration
		rec.Reason = fmt.Sprintf("Eventual BG %.0f > %.0f, insulin required %.2fU, setting temp %.3fU/hr",
			eventualBG, targets.MaxBG, insulinReq, needed)

		if shouldEnableSMB(p, in.MicroBolusAllowed, in.Meal, bg, targetBG, targets.TempTargetSet) {
			rec.Units = calculateSMB(p, insulinReq, in.Meal.MealCOB, basal)
		}

	default: // eventualBG < targets.MinBG
		needed := math.Max(0, basal+insulinReq/0.5)
		needed = roundBasal(needed, p)
		duration := 30.0
		rec.Rate, rec.Duration = &needed, &duration
		rec.Reason = fmt.Sprintf("Eventual BG %.0f < %.0f, reducing to %.3fU/hr",
			eventualBG, targets.MinBG, needed)
	}

	return rec
}
