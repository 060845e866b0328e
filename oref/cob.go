package oref

import (
	"math"
	"time"
)

// findMealTime locates the most recent carb entry within the profile's
// meal-absorption window of `now`. Returns ok=false if none exists.
func findMealTime(history []Treatment, now time.Time, maxAbsorptionHours float64) (time.Time, bool) {
	cutoff := now.Add(-time.Duration(maxAbsorptionHours*60) * time.Minute)
	var best time.Time
	found := false
	for _, t := range history {
		if !t.HasCarbs() || t.Time.After(now) || t.Time.Before(cutoff) {
			continue
		}
		if !found || t.Time.After(best) {
			best = t.Time
			found = true
		}
	}
	return best, found
}

// totalCarbsSince sums carb entries recorded at or after mealTime, up to
// `now`.
func totalCarbsSince(history []Treatment, mealTime, now time.Time) float64 {
	total := 0.0
	for _, t := range history {
		if t.HasCarbs() && !t.Time.Before(mealTime) && !t.Time.After(now) {
			total += t.Carbs
		}
	}
	return total
}

type deviationPoint struct {
	deviation float64
	time      time.Time
}

// CalculateCOB estimates remaining carbs-on-board and absorption deviation
// statistics from the bucketed glucose since the most recent meal.
func CalculateCOB(p Profile, glucose []GlucoseReading, history []Treatment, now time.Time) COBResult {
	mealTime, found := findMealTime(history, now, p.MaxMealAbsorptionTime)
	if !found {
		return COBResult{}
	}

	// Only bucket readings from meal_time forward: pre-meal history has no
	// business contributing to the absorption-window deviation statistics.
	var postMeal []GlucoseReading
	for _, g := range glucose {
		if !g.Time.Before(mealTime) {
			postMeal = append(postMeal, g)
		}
	}

	ascending := bucketGlucose(postMeal, nil)
	if len(ascending) < 4 {
		return COBResult{}
	}

	// Deviation math walks newest-first, matching the rest of the
	// pipeline's "most recent reading first" convention.
	series := make([]GlucoseBucket, len(ascending))
	for i, b := range ascending {
		series[len(ascending)-1-i] = b
	}

	carbRatio := carbRatioLookup(p)
	totalCarbs := totalCarbsSince(history, mealTime, now)

	var currentDeviation, carbsAbsorbed float64
	var historical []deviationPoint

	for i := 0; i+3 < len(series); i++ {
		avgDelta := (series[i].Glucose - series[i+3].Glucose) / 3.0
		delta := series[i].Glucose - series[i+1].Glucose
		sens := isfLookup(p, series[i].Time)
		iobAtI := iobAtTime(p, history, series[i].Time)
		bgi := roundTo(-iobAtI.Activity*sens*5.0, 2)
		deviation := roundTo(delta-bgi, 2)

		switch {
		case i == 0:
			currentDeviation = roundTo(avgDelta-bgi, 3)
		case series[i].Time.Before(now):
			historical = append(historical, deviationPoint{deviation: deviation, time: series[i].Time})
		}

		if series[i].Time.After(mealTime) {
			carbImpact := math.Max(deviation, math.Max(currentDeviation/2.0, p.Min5mCarbImpact))
			carbsAbsorbed += carbImpact * carbRatio / sens
		}
	}

	mealCOB := math.Max(0, totalCarbs-carbsAbsorbed)

	var maxDeviation, minDeviation, slopeFromMax, slopeFromMin float64
	if len(historical) > 0 {
		maxPoint, minPoint := historical[0], historical[0]
		for _, d := range historical {
			if d.deviation > maxPoint.deviation {
				maxPoint = d
			}
			if d.deviation < minPoint.deviation {
				minPoint = d
			}
		}
		maxDeviation, minDeviation = maxPoint.deviation, minPoint.deviation
		if mins := now.Sub(maxPoint.time).Minutes(); mins > 0 {
			slopeFromMax = (currentDeviation - maxDeviation) / mins
		}
		if mins := now.Sub(minPoint.time).Minutes(); mins > 0 {
			slopeFromMin = (currentDeviation - minDeviation) / mins
		}
	}

	return COBResult{
		MealCOB:               math.Round(mealCOB),
		CarbsAbsorbed:         roundTo(carbsAbsorbed, 2),
		CurrentDeviation:      currentDeviation,
		MaxDeviation:          maxDeviation,
		MinDeviation:          minDeviation,
		SlopeFromMaxDeviation: roundTo(slopeFromMax, 3),
		SlopeFromMinDeviation: roundTo(slopeFromMin, 3),
	}
}
