package oref

// validPrefix returns the valid readings among the first n entries of
// readings (readings ordered most-recent-first).
func validPrefix(readings []GlucoseReading, n int) []GlucoseReading {
	if n > len(readings) {
		n = len(readings)
	}
	out := make([]GlucoseReading, 0, n)
	for _, r := range readings[:n] {
		if r.IsValid() {
			out = append(out, r)
		}
	}
	return out
}

// avgDeltaOver computes the per-5-minute slope across a valid-reading
// window (most-recent-first), or false if the window is too small to
// form a slope.
func avgDeltaOver(window []GlucoseReading) (float64, bool) {
	if len(window) < 2 {
		return 0, false
	}
	first, last := window[0], window[len(window)-1]
	return (first.Glucose - last.Glucose) / float64(len(window)-1), true
}

// CalculateGlucoseStatus summarizes recent glucose trend from the most
// recent readings (index 0 is newest). short_avgdelta is computed over
// roughly the most recent 15 minutes (the first 4 readings at a nominal
// 5-minute cadence), long_avgdelta over roughly 45 minutes (the first 10
// readings); when too few readings are present each falls back to the
// next shorter window's value (short_avgdelta to delta, long_avgdelta to
// short_avgdelta).
func CalculateGlucoseStatus(readings []GlucoseReading) GlucoseStatus {
	if len(readings) == 0 {
		return GlucoseStatus{}
	}
	current := readings[0]
	status := GlucoseStatus{Glucose: current.Glucose, Time: current.Time, Noise: current.Noise}

	delta := 0.0
	if len(readings) > 1 && readings[1].IsValid() {
		delta = readings[0].Glucose - readings[1].Glucose
	}
	status.Delta = delta

	status.ShortAvgDelta = delta
	if len(readings) >= 4 {
		if d, ok := avgDeltaOver(validPrefix(readings, 4)); ok {
			status.ShortAvgDelta = d
		}
	}

	status.LongAvgDelta = status.ShortAvgDelta
	if len(readings) >= 10 {
		if d, ok := avgDeltaOver(validPrefix(readings, 10)); ok {
			status.LongAvgDelta = d
		}
	}

	return status
}
