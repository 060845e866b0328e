package oref

import "testing"

// TestRoundTo_ThreeDecimals verifies:
// GIVEN a value with more precision than 3 decimal places
// WHEN rounded to 3 digits
// THEN the result MUST match the expected rounded value.
func TestRoundTo_ThreeDecimals(t *testing.T) {
	got := roundTo(1.23456, 3)
	want := 1.235
	if got != want {
		t.Errorf("roundTo(1.23456, 3) = %v, want %v", got, want)
	}
}

// TestPumpIncrement_NewerModelsUseFinerStep verifies:
// GIVEN a pump model string containing one of the newer-model substrings
// WHEN pumpIncrement is called
// THEN it MUST return 0.025 instead of the 0.05 default.
func TestPumpIncrement_NewerModelsUseFinerStep(t *testing.T) {
	cases := []string{"MM723", "Medtronic 554", "780G"}
	for _, model := range cases {
		if got := pumpIncrement(model); got != 0.025 {
			t.Errorf("pumpIncrement(%q) = %v, want 0.025", model, got)
		}
	}
}

// TestPumpIncrement_UnknownModelDefaults verifies:
// GIVEN a pump model string matching none of the newer-model substrings
// WHEN pumpIncrement is called
// THEN it MUST return the default 0.05.
func TestPumpIncrement_UnknownModelDefaults(t *testing.T) {
	if got := pumpIncrement("515"); got != 0.05 {
		t.Errorf("pumpIncrement(515) = %v, want 0.05", got)
	}
}

// TestRoundToIncrement_AboveTenAlwaysTenth verifies:
// GIVEN a rate above 10 U/hr and a pump with a 0.025 increment
// WHEN rounded
// THEN the result MUST be rounded to the nearest 0.1 regardless of the
// pump's usual increment.
func TestRoundToIncrement_AboveTenAlwaysTenth(t *testing.T) {
	got := roundToIncrement(12.34, 0.025)
	want := 12.3
	if got != want {
		t.Errorf("roundToIncrement(12.34, 0.025) = %v, want %v", got, want)
	}
}

// TestRoundToIncrement_BelowTenUsesIncrement verifies:
// GIVEN a rate below 10 U/hr and a 0.05 increment
// WHEN rounded
// THEN the result MUST snap to the nearest multiple of that increment.
func TestRoundToIncrement_BelowTenUsesIncrement(t *testing.T) {
	got := roundToIncrement(1.07, 0.05)
	want := 1.05
	if got != want {
		t.Errorf("roundToIncrement(1.07, 0.05) = %v, want %v", got, want)
	}
}

// TestRoundBasal_UsesExplicitIncrementOverModel verifies:
// GIVEN a Profile with an explicit PumpIncrement set
// WHEN roundBasal is called
// THEN the explicit increment MUST win over the model-derived one.
func TestRoundBasal_UsesExplicitIncrementOverModel(t *testing.T) {
	p := Profile{PumpIncrement: 0.1, Model: "780G"}
	got := roundBasal(0.37, p)
	want := 0.4
	if got != want {
		t.Errorf("roundBasal = %v, want %v", got, want)
	}
}

// TestMedian_OddCount verifies:
// GIVEN a sorted odd-length slice
// WHEN median is computed
// THEN it MUST return the middle element.
func TestMedian_OddCount(t *testing.T) {
	got := median(sortedCopy([]float64{5, 1, 3}))
	want := 3.0
	if got != want {
		t.Errorf("median = %v, want %v", got, want)
	}
}

// TestMedian_Empty verifies:
// GIVEN an empty slice
// WHEN median is computed
// THEN it MUST return 0 rather than panicking.
func TestMedian_Empty(t *testing.T) {
	if got := median(nil); got != 0 {
		t.Errorf("median(nil) = %v, want 0", got)
	}
}

// TestSortedCopy_DoesNotMutateInput verifies:
// GIVEN an unsorted slice
// WHEN sortedCopy is called
// THEN the original slice MUST remain unsorted and the copy MUST be sorted.
func TestSortedCopy_DoesNotMutateInput(t *testing.T) {
	original := []float64{3, 1, 2}
	sorted := sortedCopy(original)

	if original[0] != 3 {
		t.Errorf("original was mutated: %v", original)
	}
	if sorted[0] != 1 || sorted[1] != 2 || sorted[2] != 3 {
		t.Errorf("sorted = %v, want [1 2 3]", sorted)
	}
}
