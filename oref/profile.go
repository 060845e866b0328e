package oref

import "time"

// minuteOfDay returns minutes since local midnight for t, in the range
// [0, 1440).
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// scheduleLookup finds the value in effect at `minute` given a schedule
// sorted by OffsetMinutes. An entry applies from its offset until the
// next entry's offset, or to end-of-day for the last entry. Returns
// ok=false if the schedule is empty or its first entry's offset is not
// 0 — callers fall back to a scalar value in that case.
func scheduleLookup(schedule []ScheduleEntry, minute int) (float64, bool) {
	if len(schedule) == 0 || schedule[0].OffsetMinutes != 0 {
		return 0, false
	}
	value := schedule[0].Value
	for _, entry := range schedule[1:] {
		if minute < entry.OffsetMinutes {
			break
		}
		value = entry.Value
	}
	return value, true
}

// isfLookup returns the insulin sensitivity factor in effect at `t`,
// falling back to the scalar Profile.Sens when no schedule applies.
func isfLookup(p Profile, t time.Time) float64 {
	if v, ok := scheduleLookup(p.ISFSchedule, minuteOfDay(t)); ok {
		return v
	}
	return p.Sens
}

// basalLookup returns the scheduled basal rate in effect at `t`, falling
// back to the scalar Profile.CurrentBasal when no schedule applies.
func basalLookup(p Profile, t time.Time) float64 {
	if v, ok := scheduleLookup(p.BasalSchedule, minuteOfDay(t)); ok {
		return v
	}
	return p.CurrentBasal
}

// carbRatioLookup returns the carb ratio in effect. The engine does not
// support a carb-ratio time schedule, only the scalar profile value.
func carbRatioLookup(p Profile) float64 { return p.CarbRatio }

// BGTargets is the resolved (min, max) target range for a point in time.
type BGTargets struct {
	MinBG         float64
	MaxBG         float64
	TempTargetSet bool
}

// boundTarget converts a raw target bound to mg/dL (values below 20 are
// assumed to be mmol/L) and clips it to the safety range [80, 200].
func boundTarget(v float64) float64 {
	if v < 20 {
		v *= 18.0
	}
	if v < 80 {
		v = 80
	}
	if v > 200 {
		v = 200
	}
	return v
}

// bgTargetsLookup resolves the effective target range for `now`, applying
// an active temp target if one is given.
func bgTargetsLookup(p Profile, tt *TempTarget, now time.Time) BGTargets {
	minBG, maxBG := p.MinBG, p.MaxBG
	tempTargetSet := false
	if tt != nil && tt.IsActive(now) {
		minBG, maxBG = tt.TargetBottom, tt.TargetTop
		tempTargetSet = true
	}
	return BGTargets{
		MinBG:         boundTarget(minBG),
		MaxBG:         boundTarget(maxBG),
		TempTargetSet: tempTargetSet,
	}
}
