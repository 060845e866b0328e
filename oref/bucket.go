package oref

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

const (
	bucketMergeThresholdMinutes = 2.0
	bucketEmitThresholdMinutes  = 8.0
	bucketInterpolationStep     = 5 * time.Minute
	bucketMaxFillMinutes        = 240.0 // 4 hours
)

// bucketGlucose regularizes an irregular series of CGM readings into a
// 5-minute series. Invalid readings (glucose < 39) are discarded. This is
// the sole place irregular timestamps are regularized; every downstream
// consumer indexes into its output only.
//
// stopAt, if non-nil, halts backward interpolation once a filled bucket
// would land at or before *stopAt. Callers that must exclude real (not
// just interpolated) readings before a boundary — e.g. COB excluding
// pre-meal history — need to pre-filter their input instead, since
// stopAt only bounds synthesized fill.
func bucketGlucose(readings []GlucoseReading, stopAt *time.Time) []GlucoseBucket {
	valid := make([]GlucoseReading, 0, len(readings))
	for _, r := range readings {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Time.Before(valid[j].Time) })

	buckets := []GlucoseBucket{{Glucose: valid[0].Glucose, Time: valid[0].Time}}

	for i := 1; i < len(valid); i++ {
		prev := valid[i-1]
		cur := valid[i]
		dt := cur.Time.Sub(prev.Time).Minutes()

		switch {
		case dt < bucketMergeThresholdMinutes:
			last := &buckets[len(buckets)-1]
			last.Glucose = (last.Glucose + cur.Glucose) / 2.0
		case dt <= bucketEmitThresholdMinutes:
			buckets = append(buckets, GlucoseBucket{Glucose: cur.Glucose, Time: cur.Time})
		default:
			fillMinutes := dt
			if fillMinutes > bucketMaxFillMinutes {
				fillMinutes = bucketMaxFillMinutes
			}
			earliestFill := cur.Time.Add(-time.Duration(fillMinutes) * time.Minute)

			var fills []GlucoseBucket
			for t := cur.Time.Add(-bucketInterpolationStep); t.After(earliestFill) || t.Equal(earliestFill); t = t.Add(-bucketInterpolationStep) {
				if !t.After(prev.Time) {
					break
				}
				if stopAt != nil && !t.After(*stopAt) {
					break
				}
				frac := floats.Round(t.Sub(prev.Time).Minutes()/dt, 6)
				glucose := prev.Glucose + frac*(cur.Glucose-prev.Glucose)
				fills = append(fills, GlucoseBucket{Glucose: glucose, Time: t})
			}
			for j := len(fills) - 1; j >= 0; j-- {
				buckets = append(buckets, fills[j])
			}
			buckets = append(buckets, GlucoseBucket{Glucose: cur.Glucose, Time: cur.Time})
		}
	}
	return buckets
}
