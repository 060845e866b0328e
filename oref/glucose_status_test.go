package oref

import (
	"testing"
	"time"
)

func reading(glucose float64, minutesAgo int) GlucoseReading {
	return GlucoseReading{Glucose: glucose, Time: mustTime(12, 0).Add(-time.Duration(minutesAgo) * time.Minute)}
}

// TestCalculateGlucoseStatus_Empty verifies:
// GIVEN no glucose readings
// WHEN CalculateGlucoseStatus is called
// THEN it MUST return a zero-valued status rather than panicking.
func TestCalculateGlucoseStatus_Empty(t *testing.T) {
	got := CalculateGlucoseStatus(nil)
	if got.Glucose != 0 {
		t.Errorf("Glucose = %v, want 0", got.Glucose)
	}
}

// TestCalculateGlucoseStatus_SingleReading verifies:
// GIVEN a single reading
// WHEN CalculateGlucoseStatus is called
// THEN delta and the avgdeltas MUST all be zero.
func TestCalculateGlucoseStatus_SingleReading(t *testing.T) {
	got := CalculateGlucoseStatus([]GlucoseReading{reading(120, 0)})
	if got.Delta != 0 || got.ShortAvgDelta != 0 || got.LongAvgDelta != 0 {
		t.Errorf("got %+v, want all zero deltas", got)
	}
}

// TestCalculateGlucoseStatus_DeltaFromMostRecentPair verifies:
// GIVEN at least two readings
// WHEN CalculateGlucoseStatus is called
// THEN Delta MUST equal the difference between the two newest readings.
func TestCalculateGlucoseStatus_DeltaFromMostRecentPair(t *testing.T) {
	readings := []GlucoseReading{reading(130, 0), reading(120, 5)}
	got := CalculateGlucoseStatus(readings)
	if got.Delta != 10 {
		t.Errorf("Delta = %v, want 10", got.Delta)
	}
}

// TestCalculateGlucoseStatus_ShortAvgDeltaUsesFourReadingWindow verifies:
// GIVEN four readings declining steadily by 5 mg/dL per step
// WHEN CalculateGlucoseStatus is called
// THEN ShortAvgDelta MUST equal the per-step slope across the window.
func TestCalculateGlucoseStatus_ShortAvgDeltaUsesFourReadingWindow(t *testing.T) {
	readings := []GlucoseReading{
		reading(100, 0), reading(105, 5), reading(110, 10), reading(115, 15),
	}
	got := CalculateGlucoseStatus(readings)
	if got.ShortAvgDelta != -5 {
		t.Errorf("ShortAvgDelta = %v, want -5", got.ShortAvgDelta)
	}
}

// TestCalculateGlucoseStatus_LongAvgDeltaFallsBackWhenTooFewReadings verifies:
// GIVEN fewer than 10 readings
// WHEN CalculateGlucoseStatus is called
// THEN LongAvgDelta MUST fall back to ShortAvgDelta.
func TestCalculateGlucoseStatus_LongAvgDeltaFallsBackWhenTooFewReadings(t *testing.T) {
	readings := []GlucoseReading{
		reading(100, 0), reading(105, 5), reading(110, 10), reading(115, 15),
	}
	got := CalculateGlucoseStatus(readings)
	if got.LongAvgDelta != got.ShortAvgDelta {
		t.Errorf("LongAvgDelta = %v, want %v (ShortAvgDelta)", got.LongAvgDelta, got.ShortAvgDelta)
	}
}

// TestCalculateGlucoseStatus_SkipsInvalidSecondReading verifies:
// GIVEN a second reading below the validity floor
// WHEN CalculateGlucoseStatus is called
// THEN Delta MUST default to 0 instead of using the invalid reading.
func TestCalculateGlucoseStatus_SkipsInvalidSecondReading(t *testing.T) {
	readings := []GlucoseReading{reading(130, 0), reading(10, 5)}
	got := CalculateGlucoseStatus(readings)
	if got.Delta != 0 {
		t.Errorf("Delta = %v, want 0", got.Delta)
	}
}

// TestGlucoseTrend_Arrow verifies:
// GIVEN a status with a steeply rising delta
// WHEN Trend is classified
// THEN it MUST report TrendDoubleUp with its conventional glyph.
func TestGlucoseTrend_Arrow(t *testing.T) {
	status := GlucoseStatus{Delta: 4}
	trend := status.Trend()
	if trend != TrendDoubleUp {
		t.Errorf("Trend() = %v, want TrendDoubleUp", trend)
	}
	if trend.Arrow() != "⇈" {
		t.Errorf("Arrow() = %q, want ⇈", trend.Arrow())
	}
}

// TestGlucoseTrend_Flat verifies:
// GIVEN a status with a near-zero delta
// WHEN Trend is classified
// THEN it MUST report TrendFlat.
func TestGlucoseTrend_Flat(t *testing.T) {
	status := GlucoseStatus{Delta: 0.5}
	if got := status.Trend(); got != TrendFlat {
		t.Errorf("Trend() = %v, want TrendFlat", got)
	}
}
