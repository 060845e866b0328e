package oref

import (
	"math"
	"time"
)

// bucketClass is the autosens deviation classifier's tagged state.
type bucketClass int

const (
	classNonMeal bucketClass = iota
	classCarbAbsorbing
	classUAM
)

// mostRecentRewind returns the timestamp of the latest rewind marker at
// or before `now`, if any.
func mostRecentRewind(history []Treatment, now time.Time) (time.Time, bool) {
	var best time.Time
	found := false
	for _, t := range history {
		if !t.Rewind || t.Time.After(now) {
			continue
		}
		if !found || t.Time.After(best) {
			best = t.Time
			found = true
		}
	}
	return best, found
}

func oldestGlucoseTime(glucose []GlucoseReading) (time.Time, bool) {
	var best time.Time
	found := false
	for _, g := range glucose {
		if !g.IsValid() {
			continue
		}
		if !found || g.Time.Before(best) {
			best = g.Time
			found = true
		}
	}
	return best, found
}

// autosensWindowStart resolves the start of the window autosens scans for
// deviations, per SPEC_FULL.md section 4.5.
func autosensWindowStart(p Profile, glucose []GlucoseReading, history []Treatment, now time.Time, cfg AutosensConfig) time.Time {
	start := now.Add(-24 * time.Hour)

	if cfg.Retrospective {
		if oldest, ok := oldestGlucoseTime(glucose); ok {
			return oldest.Add(-24 * time.Hour)
		}
		return start
	}

	if p.RewindResetsAutosens {
		if rewind, ok := mostRecentRewind(history, now); ok && rewind.After(start) {
			return rewind
		}
	}
	return start
}

// CalculateAutosens estimates a multiplicative sensitivity-ratio
// correction from the glucose deviations observed over the lookback
// window, excluding buckets attributed to meal absorption or unannounced
// meals. tempTarget may be nil.
func CalculateAutosens(p Profile, glucose []GlucoseReading, history []Treatment, tempTarget *TempTarget, now time.Time, cfg AutosensConfig) AutosensData {
	if cfg.Lookback <= 0 {
		cfg = DefaultAutosensConfig()
	}

	windowStart := autosensWindowStart(p, glucose, history, now, cfg)

	var windowed []GlucoseReading
	for _, g := range glucose {
		if g.IsValid() && !g.Time.Before(windowStart) && !g.Time.After(now) {
			windowed = append(windowed, g)
		}
	}
	series := bucketGlucose(windowed, nil)
	if len(series) < 4 {
		return DefaultAutosensData()
	}

	var meals []Treatment
	for _, t := range history {
		if t.HasCarbs() && !t.Time.Before(windowStart) && !t.Time.After(now) {
			meals = append(meals, t)
		}
	}
	for i := 1; i < len(meals); i++ {
		for j := i; j > 0 && meals[j-1].Time.After(meals[j].Time); j-- {
			meals[j-1], meals[j] = meals[j], meals[j-1]
		}
	}

	carbRatio := carbRatioLookup(p)

	var deviations []float64
	var mealCOB, mealCarbs float64
	var absorbing, uam bool
	mealStartCounter := 999
	lastState := classNonMeal

	for i := 3; i < len(series); i++ {
		bucket := series[i]

		avgDelta := (bucket.Glucose - series[i-3].Glucose) / 3.0
		delta := bucket.Glucose - series[i-1].Glucose
		sens := isfLookup(p, bucket.Time)
		iobHere := iobAtTime(p, history, bucket.Time)
		bgi := roundTo(-iobHere.Activity*sens*5.0, 2)

		rawDeviation := delta - bgi
		if rawDeviation > 0 && bucket.Glucose < 80 {
			rawDeviation = 0
		}
		deviation := roundTo(rawDeviation, 2)
		_ = avgDelta

		for len(meals) > 0 && !meals[0].Time.After(bucket.Time) {
			mealCOB += meals[0].Carbs
			mealCarbs += meals[0].Carbs
			meals = meals[1:]
		}

		if mealCOB > 0 {
			ci := math.Max(deviation, p.Min5mCarbImpact)
			mealCOB = math.Max(0, mealCOB-ci*carbRatio/sens)
		}

		var state bucketClass
		if mealCOB > 0 || absorbing || mealCarbs > 0 {
			absorbing = deviation > 0

			// Stop excluding after 5h if COB is depleted.
			if mealStartCounter > 60 && mealCOB < 0.5 {
				absorbing = false
			}
			if !absorbing && mealCOB < 0.5 {
				mealCarbs = 0
			}

			if lastState != classCarbAbsorbing {
				mealStartCounter = 0
			}
			mealStartCounter++
			state = classCarbAbsorbing
		} else {
			basalHere := basalLookup(p, bucket.Time)
			if (!cfg.Retrospective && iobHere.IOB > 2*basalHere) || uam || mealStartCounter < 9 {
				mealStartCounter++
				uam = deviation > 0
				state = classUAM
			} else {
				state = classNonMeal
			}
		}
		lastState = state

		if state == classNonMeal {
			deviations = append(deviations, deviation)

			if (p.ExerciseMode || p.HighTempTargetRaisesSensitivity) && tempTarget != nil &&
				tempTarget.IsActive(bucket.Time) && tempTarget.IsHigh() {
				deviations = append(deviations, -(tempTarget.Midpoint()-100)/20.0)
			}
		}

		if bucket.Time.Hour()%2 == 0 && bucket.Time.Minute() < 5 {
			deviations = append(deviations, 0.0)
		}

		if len(deviations) > cfg.Lookback {
			deviations = deviations[len(deviations)-cfg.Lookback:]
		}
	}

	if n := len(deviations); n < cfg.Lookback {
		padCount := int(math.Round((1.0 - float64(n)/96.0) * 18.0))
		for i := 0; i < padCount; i++ {
			deviations = append(deviations, 0.0)
		}
	}

	if len(deviations) == 0 {
		return DefaultAutosensData()
	}

	p50 := median(sortedCopy(deviations))
	basalOffset := p50 * (60.0 / 5.0) / p.Sens
	rawRatio := 1.0 + basalOffset/p.MaxBasal

	ratio := math.Max(cfg.AutosensMin, math.Min(cfg.AutosensMax, rawRatio))
	return AutosensData{Ratio: roundTo(ratio, 2)}
}
