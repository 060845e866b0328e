package oref

import "testing"

// TestShouldEnableSMB_DisallowedWhenMicroBolusNotAllowed verifies:
// GIVEN microBolusAllowed=false regardless of profile flags
// WHEN shouldEnableSMB is called
// THEN it MUST return false.
func TestShouldEnableSMB_DisallowedWhenMicroBolusNotAllowed(t *testing.T) {
	p := Profile{EnableSMBAlways: true}
	got := shouldEnableSMB(p, false, MealData{}, 150, 100, false)
	if got {
		t.Errorf("shouldEnableSMB = true, want false when microBolusAllowed is false")
	}
}

// TestShouldEnableSMB_HighTempTargetBlocksWithoutOptIn verifies:
// GIVEN an active high temp target and AllowSMBWithHighTempTarget=false
// WHEN shouldEnableSMB is called
// THEN it MUST return false even though EnableSMBAlways is set.
func TestShouldEnableSMB_HighTempTargetBlocksWithoutOptIn(t *testing.T) {
	p := Profile{EnableSMBAlways: true, AllowSMBWithHighTempTarget: false}
	got := shouldEnableSMB(p, true, MealData{}, 150, 150, true)
	if got {
		t.Errorf("shouldEnableSMB = true, want false (high temp target blocks without opt-in)")
	}
}

// TestShouldEnableSMB_BWFoundBlocksWithoutA52RiskEnable verifies:
// GIVEN a BW-carb entry found and A52RiskEnable=false
// WHEN shouldEnableSMB is called
// THEN it MUST return false.
func TestShouldEnableSMB_BWFoundBlocksWithoutA52RiskEnable(t *testing.T) {
	p := Profile{EnableSMBAlways: true, A52RiskEnable: false}
	meal := MealData{BWFound: true}
	got := shouldEnableSMB(p, true, meal, 150, 100, false)
	if got {
		t.Errorf("shouldEnableSMB = true, want false (BW carbs without A52 risk opt-in)")
	}
}

// TestShouldEnableSMB_AlwaysFlagEnables verifies:
// GIVEN EnableSMBAlways and no safety gates tripped
// WHEN shouldEnableSMB is called
// THEN it MUST return true.
func TestShouldEnableSMB_AlwaysFlagEnables(t *testing.T) {
	p := Profile{EnableSMBAlways: true}
	got := shouldEnableSMB(p, true, MealData{}, 150, 100, false)
	if !got {
		t.Errorf("shouldEnableSMB = false, want true")
	}
}

// TestShouldEnableSMB_WithCOBRequiresPositiveCOB verifies:
// GIVEN EnableSMBWithCOB set but zero MealCOB
// WHEN shouldEnableSMB is called
// THEN it MUST return false.
func TestShouldEnableSMB_WithCOBRequiresPositiveCOB(t *testing.T) {
	p := Profile{EnableSMBWithCOB: true}
	got := shouldEnableSMB(p, true, MealData{MealCOB: 0}, 150, 100, false)
	if got {
		t.Errorf("shouldEnableSMB = true, want false (no COB)")
	}
}

// TestShouldEnableSMB_HighBGRequiresThreshold verifies:
// GIVEN EnableSMBHighBG set with a threshold
// WHEN bg is below the threshold
// THEN it MUST return false; at or above, it MUST return true.
func TestShouldEnableSMB_HighBGRequiresThreshold(t *testing.T) {
	p := Profile{EnableSMBHighBG: true, EnableSMBHighBGTarget: 200}
	if shouldEnableSMB(p, true, MealData{}, 190, 100, false) {
		t.Errorf("shouldEnableSMB = true, want false below threshold")
	}
	if !shouldEnableSMB(p, true, MealData{}, 200, 100, false) {
		t.Errorf("shouldEnableSMB = false, want true at threshold")
	}
}

// TestCalculateMaxSMB_COBUsesWiderCap verifies:
// GIVEN positive COB
// WHEN calculateMaxSMB is called
// THEN it MUST use MaxSMBBasalMinutes rather than MaxUAMSMBBasalMinutes.
func TestCalculateMaxSMB_COBUsesWiderCap(t *testing.T) {
	p := Profile{MaxSMBBasalMinutes: 60, MaxUAMSMBBasalMinutes: 30}
	got := calculateMaxSMB(p, 20, 1.0)
	want := 1.0
	if got != want {
		t.Errorf("calculateMaxSMB = %v, want %v", got, want)
	}
}

// TestCalculateMaxSMB_NoCOBUsesUAMCap verifies:
// GIVEN zero COB
// WHEN calculateMaxSMB is called
// THEN it MUST use MaxUAMSMBBasalMinutes.
func TestCalculateMaxSMB_NoCOBUsesUAMCap(t *testing.T) {
	p := Profile{MaxSMBBasalMinutes: 60, MaxUAMSMBBasalMinutes: 30}
	got := calculateMaxSMB(p, 0, 1.0)
	want := 0.5
	if got != want {
		t.Errorf("calculateMaxSMB = %v, want %v", got, want)
	}
}

// TestCalculateSMB_NilWhenNoInsulinRequired verifies:
// GIVEN a non-positive insulinReq
// WHEN calculateSMB is called
// THEN it MUST return nil.
func TestCalculateSMB_NilWhenNoInsulinRequired(t *testing.T) {
	p := Profile{SMBDeliveryRatio: 0.5, MaxUAMSMBBasalMinutes: 30, BolusIncrement: 0.1}
	got := calculateSMB(p, 0, 0, 1.0)
	if got != nil {
		t.Errorf("calculateSMB = %v, want nil", *got)
	}
}

// TestCalculateSMB_FlooredToIncrement verifies:
// GIVEN an insulinReq that would size a dose not aligned to the bolus
// increment
// WHEN calculateSMB is called
// THEN the result MUST be floored to a whole multiple of BolusIncrement.
func TestCalculateSMB_FlooredToIncrement(t *testing.T) {
	p := Profile{SMBDeliveryRatio: 1.0, MaxUAMSMBBasalMinutes: 600, BolusIncrement: 0.1}
	got := calculateSMB(p, 0.37, 0, 1.0)
	if got == nil {
		t.Fatalf("calculateSMB = nil, want a value")
	}
	if *got != 0.3 {
		t.Errorf("calculateSMB = %v, want 0.3", *got)
	}
}

// TestCalculateSMB_NilWhenBelowOneIncrement verifies:
// GIVEN a sized dose smaller than one bolus increment
// WHEN calculateSMB is called
// THEN it MUST return nil rather than a too-small dose.
func TestCalculateSMB_NilWhenBelowOneIncrement(t *testing.T) {
	p := Profile{SMBDeliveryRatio: 1.0, MaxUAMSMBBasalMinutes: 600, BolusIncrement: 0.5}
	got := calculateSMB(p, 0.1, 0, 1.0)
	if got != nil {
		t.Errorf("calculateSMB = %v, want nil", *got)
	}
}
