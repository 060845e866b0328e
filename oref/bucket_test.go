package oref

import (
	"testing"
	"time"
)

func gReading(glucose float64, t time.Time) GlucoseReading {
	return GlucoseReading{Glucose: glucose, Time: t}
}

// TestBucketGlucose_DropsInvalidReadings verifies:
// GIVEN a reading below the validity floor mixed with valid ones
// WHEN bucketGlucose is called
// THEN the invalid reading MUST be excluded from the output.
func TestBucketGlucose_DropsInvalidReadings(t *testing.T) {
	base := mustTime(10, 0)
	readings := []GlucoseReading{
		gReading(120, base),
		gReading(10, base.Add(5*time.Minute)),
		gReading(125, base.Add(10*time.Minute)),
	}
	buckets := bucketGlucose(readings, nil)
	for _, b := range buckets {
		if b.Glucose == 10 {
			t.Errorf("invalid reading leaked into buckets: %+v", buckets)
		}
	}
}

// TestBucketGlucose_MergesCloseReadings verifies:
// GIVEN two readings less than 2 minutes apart
// WHEN bucketGlucose is called
// THEN they MUST be merged into a single averaged bucket.
func TestBucketGlucose_MergesCloseReadings(t *testing.T) {
	base := mustTime(10, 0)
	readings := []GlucoseReading{
		gReading(100, base),
		gReading(110, base.Add(90*time.Second)),
	}
	buckets := bucketGlucose(readings, nil)
	if len(buckets) != 1 {
		t.Fatalf("len(buckets) = %d, want 1", len(buckets))
	}
	if buckets[0].Glucose != 105 {
		t.Errorf("merged glucose = %v, want 105", buckets[0].Glucose)
	}
}

// TestBucketGlucose_EmitsNormalCadenceDirectly verifies:
// GIVEN readings spaced five minutes apart
// WHEN bucketGlucose is called
// THEN each reading MUST produce its own bucket without interpolation.
func TestBucketGlucose_EmitsNormalCadenceDirectly(t *testing.T) {
	base := mustTime(10, 0)
	readings := []GlucoseReading{
		gReading(100, base),
		gReading(105, base.Add(5*time.Minute)),
		gReading(110, base.Add(10*time.Minute)),
	}
	buckets := bucketGlucose(readings, nil)
	if len(buckets) != 3 {
		t.Fatalf("len(buckets) = %d, want 3", len(buckets))
	}
}

// TestBucketGlucose_InterpolatesLargeGaps verifies:
// GIVEN a 20-minute gap between two readings
// WHEN bucketGlucose is called
// THEN intermediate 5-minute buckets MUST be synthesized by linear
// interpolation between the two real readings.
func TestBucketGlucose_InterpolatesLargeGaps(t *testing.T) {
	base := mustTime(10, 0)
	readings := []GlucoseReading{
		gReading(100, base),
		gReading(180, base.Add(20*time.Minute)),
	}
	buckets := bucketGlucose(readings, nil)
	if len(buckets) != 5 {
		t.Fatalf("len(buckets) = %d, want 5 (1 start + 3 interpolated + 1 end)", len(buckets))
	}
	mid := buckets[2]
	if mid.Glucose <= 100 || mid.Glucose >= 180 {
		t.Errorf("interpolated glucose = %v, want strictly between 100 and 180", mid.Glucose)
	}
}

// TestBucketGlucose_CapsFillAtFourHours verifies:
// GIVEN a gap far longer than four hours
// WHEN bucketGlucose is called
// THEN interpolation MUST stop after filling only four hours backward
// from the later reading.
func TestBucketGlucose_CapsFillAtFourHours(t *testing.T) {
	base := mustTime(6, 0)
	readings := []GlucoseReading{
		gReading(100, base),
		gReading(150, base.Add(10*time.Hour)),
	}
	buckets := bucketGlucose(readings, nil)
	// buckets[0] is the earlier real reading; the fill starts at buckets[1].
	first, last := buckets[1].Time, buckets[len(buckets)-1].Time
	if last.Sub(first) > 4*time.Hour+time.Minute {
		t.Errorf("fill span = %v, want capped near 4h", last.Sub(first))
	}
}

// TestBucketGlucose_StopAtHaltsInterpolation verifies:
// GIVEN a stopAt boundary inside a would-be interpolation range
// WHEN bucketGlucose is called
// THEN no synthesized bucket MUST land at or before stopAt.
func TestBucketGlucose_StopAtHaltsInterpolation(t *testing.T) {
	base := mustTime(10, 0)
	stopAt := base.Add(10 * time.Minute)
	readings := []GlucoseReading{
		gReading(100, base),
		gReading(180, base.Add(30*time.Minute)),
	}
	buckets := bucketGlucose(readings, &stopAt)
	for _, b := range buckets {
		if !b.Time.After(stopAt) && b.Time != base {
			t.Errorf("bucket at %v should not exist at or before stopAt %v", b.Time, stopAt)
		}
	}
}

// TestBucketGlucose_EmptyInput verifies:
// GIVEN no readings
// WHEN bucketGlucose is called
// THEN it MUST return nil rather than panicking.
func TestBucketGlucose_EmptyInput(t *testing.T) {
	if got := bucketGlucose(nil, nil); got != nil {
		t.Errorf("bucketGlucose(nil) = %v, want nil", got)
	}
}
