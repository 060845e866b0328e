package oref

import (
	"math"
	"sort"
	"time"
)

// insulinImpulse is a single virtual insulin impulse used internally by
// IOB aggregation: either a bolus record taken directly from history, or
// one 5-minute chunk of a decomposed temp basal.
type insulinImpulse struct {
	Time    time.Time
	Insulin float64
}

const zeroTempProjectionMinutes = 240.0

// findInsulinTreatments walks the treatment history and produces the
// flat list of virtual insulin impulses IOB aggregation sums over.
// Events older than the profile's DIA, or in the future relative to
// clock, are discarded. Temp basals are decomposed into ceil(duration/5)
// chunks of net insulin relative to the scheduled basal at each chunk's
// start time. When zeroTempMinutes > 0, a synthetic projection of that
// many minutes of a zero-rate temp basal, starting at clock, is added to
// the history's impulses — used to compute the hypothetical IOB if
// insulin delivery were suspended now.
func findInsulinTreatments(p Profile, history []Treatment, clock time.Time, zeroTempMinutes float64) []insulinImpulse {
	var impulses []insulinImpulse
	diaMinutes := p.DIA * 60.0

	if zeroTempMinutes > 0 {
		numChunks := int(math.Ceil(zeroTempMinutes / 5.0))
		for k := 0; k < numChunks; k++ {
			chunkStart := clock.Add(time.Duration(5*k) * time.Minute)
			chunkDuration := math.Min(5.0, zeroTempMinutes-float64(5*k))
			scheduled := basalLookup(p, chunkStart)
			netRate := 0.0 - scheduled
			chunkInsulin := netRate * chunkDuration / 60.0
			if math.Abs(chunkInsulin) > 0.0001 {
				impulses = append(impulses, insulinImpulse{Time: chunkStart, Insulin: chunkInsulin})
			}
		}
	}

	for _, t := range history {
		switch {
		case t.IsBolus():
			minsAgo := clock.Sub(t.Time).Minutes()
			if minsAgo < 0 || minsAgo > diaMinutes {
				continue
			}
			impulses = append(impulses, insulinImpulse{Time: t.Time, Insulin: t.Insulin})

		case t.IsTempBasal():
			rate := *t.Rate
			numChunks := int(math.Ceil(t.Duration / 5.0))
			for k := 0; k < numChunks; k++ {
				chunkStart := t.Time.Add(time.Duration(5*k) * time.Minute)
				if chunkStart.After(clock) {
					continue
				}
				minsAgo := clock.Sub(chunkStart).Minutes()
				if minsAgo > diaMinutes {
					continue
				}
				chunkDuration := math.Min(5.0, t.Duration-float64(5*k))
				scheduled := basalLookup(p, chunkStart)
				netRate := rate - scheduled
				chunkInsulin := netRate * chunkDuration / 60.0
				if math.Abs(chunkInsulin) > 0.0001 {
					impulses = append(impulses, insulinImpulse{Time: chunkStart, Insulin: chunkInsulin})
				}
			}
		}
	}

	sort.Slice(impulses, func(i, j int) bool { return impulses[i].Time.Before(impulses[j].Time) })
	return impulses
}

// calculateTotalIOB sums every still-active impulse's contribution at
// `at`, splitting basal-adjustment IOB from bolus IOB by the conventional
// |U| < 0.1 threshold.
func calculateTotalIOB(p Profile, impulses []insulinImpulse, at time.Time) IOBData {
	var d IOBData
	d.Time = at
	diaMinutes := p.DIA * 60.0
	peak := curvePeak(p)

	for _, imp := range impulses {
		if imp.Insulin == 0 {
			continue
		}
		minsAgo := at.Sub(imp.Time).Minutes()
		if minsAgo < 0 || minsAgo > diaMinutes {
			continue
		}
		sign := 1.0
		if imp.Insulin < 0 {
			sign = -1.0
		}
		contrib := calculateIOBContrib(math.Abs(imp.Insulin), minsAgo, p.Curve, p.DIA, peak)
		iobC := contrib.IOBContrib * sign
		activityC := contrib.ActivityContrib * sign

		d.IOB += iobC
		d.Activity += activityC

		if math.Abs(imp.Insulin) < 0.1 {
			d.BasalIOB += iobC
			d.NetBasalInsulin += imp.Insulin
		} else {
			d.BolusIOB += iobC
			d.BolusInsulin += imp.Insulin
		}
	}
	return d
}

// lastBolusAndTemp scans history for the most recent bolus time and the
// most recent temp-basal record at or before clock, for attachment to
// IOB sample 0.
func lastBolusAndTemp(history []Treatment, clock time.Time) (*time.Time, *TempBasalState) {
	var lastBolus *time.Time
	var lastTemp *TempBasalState
	for _, t := range history {
		if t.Time.After(clock) {
			continue
		}
		if t.IsBolus() {
			if lastBolus == nil || t.Time.After(*lastBolus) {
				tm := t.Time
				lastBolus = &tm
			}
		}
		if t.IsTempBasal() {
			if lastTemp == nil || t.Time.After(lastTemp.Time) {
				state := NewTempBasalState(t.Time, t.Duration, t.Rate)
				lastTemp = &state
			}
		}
	}
	return lastBolus, lastTemp
}

// CalculateIOB produces a 48-sample, 5-minute-step IOB/activity series
// starting at clock. When currentIOBOnly is true, only the present
// sample is computed (the fast path used when IOB is needed nested
// inside another computation, e.g. COB).
func CalculateIOB(p Profile, history []Treatment, clock time.Time, currentIOBOnly bool) []IOBData {
	impulses := findInsulinTreatments(p, history, clock, 0)

	var ztImpulses []insulinImpulse
	haveZT := false
	if !currentIOBOnly {
		ztImpulses = findInsulinTreatments(p, history, clock, zeroTempProjectionMinutes)
		haveZT = true
	}

	n := 1
	if !currentIOBOnly {
		n = 48
	}
	samples := make([]IOBData, n)
	for i := 0; i < n; i++ {
		at := clock.Add(time.Duration(5*i) * time.Minute)
		d := calculateTotalIOB(p, impulses, at)
		if haveZT {
			zt := calculateTotalIOB(p, ztImpulses, at).Rounded()
			d.IOBWithZeroTemp = &zt
		}
		samples[i] = d.Rounded()
	}

	lastBolus, lastTemp := lastBolusAndTemp(history, clock)
	samples[0].LastBolusTime = lastBolus
	samples[0].LastTemp = lastTemp

	return samples
}

// CalculateCurrentIOB is a convenience wrapper returning only the IOB
// sample at clock.
func CalculateCurrentIOB(p Profile, history []Treatment, clock time.Time) IOBData {
	return CalculateIOB(p, history, clock, true)[0]
}

// iobAtTime computes IOB from raw history directly at a single instant,
// without the 48-sample series or zero-temp projection — used internally
// by COB and autosens, which need only the present-moment IOB/activity
// at many different bucket times.
func iobAtTime(p Profile, history []Treatment, at time.Time) IOBData {
	impulses := findInsulinTreatments(p, history, at, 0)
	return calculateTotalIOB(p, impulses, at)
}
