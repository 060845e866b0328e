package boundary

import (
	"fmt"

	"github.com/oref-go/engine/oref"
)

// version is stamped at build time in a real release pipeline; the
// literal here is the development-build placeholder.
const version = "0.1.0-dev"

// validateNow rejects a "now" anchor that cannot map to a meaningful
// instant (spec section 7's InvalidTimestamp case) — a zero or negative
// millisecond value, which every request carries as the clock the rest
// of the computation is pinned to.
func validateNow(ms int64) error {
	if ms <= 0 {
		return fmt.Errorf("now: %w", oref.NewError(oref.KindInvalidTimestamp, "timestamp %d ms does not map to a valid instant", ms))
	}
	return nil
}

// CalculateIOB computes the 48-sample IOB/activity series (or just the
// current sample, if req.CurrentIOBOnly) for the given profile and
// treatment history.
func CalculateIOB(req IOBRequest) (IOBResponse, error) {
	if err := validateNow(req.Now); err != nil {
		return IOBResponse{}, err
	}
	samples := oref.CalculateIOB(
		req.Profile.toProfile(),
		treatmentsFromJSON(req.History),
		msToTime(req.Now),
		req.CurrentIOBOnly,
	)
	out := make([]IOBDataJSON, len(samples))
	for i, s := range samples {
		out[i] = iobDataToJSON(s)
	}
	return IOBResponse{IOB: out}, nil
}

// CalculateCOB estimates remaining carbs-on-board from bucketed glucose
// and treatment history.
func CalculateCOB(req COBRequest) (COBResponse, error) {
	if err := validateNow(req.Now); err != nil {
		return COBResponse{}, err
	}
	result := oref.CalculateCOB(
		req.Profile.toProfile(),
		glucoseFromJSON(req.Glucose),
		treatmentsFromJSON(req.History),
		msToTime(req.Now),
	)
	return COBResponse{COB: cobResultToJSON(result)}, nil
}

// CalculateAutosens estimates the sensitivity-ratio correction from
// recent glucose deviations.
func CalculateAutosens(req AutosensRequest) (AutosensResponse, error) {
	if err := validateNow(req.Now); err != nil {
		return AutosensResponse{}, err
	}
	cfg := oref.DefaultAutosensConfig()
	if req.Lookback > 0 {
		cfg.Lookback = req.Lookback
	}
	result := oref.CalculateAutosens(
		req.Profile.toProfile(),
		glucoseFromJSON(req.Glucose),
		treatmentsFromJSON(req.History),
		req.TempTarget.toTempTarget(),
		msToTime(req.Now),
		cfg,
	)
	return AutosensResponse{Autosens: autosensToJSON(result)}, nil
}

// DetermineBasal fuses IOB, COB, autosens and the current glucose trend
// into a temp-basal/SMB recommendation.
func DetermineBasal(req DetermineBasalRequest) (RecommendationResponse, error) {
	if err := validateNow(req.Now); err != nil {
		return RecommendationResponse{}, err
	}
	rec := oref.DetermineBasal(oref.DetermineBasalInputs{
		Status:            req.Status.toGlucoseStatus(),
		CurrentTemp:       req.CurrentTemp.toCurrentTemp(),
		IOB:                req.IOB.toIOBData(),
		Profile:            req.Profile.toProfile(),
		Autosens:           req.Autosens.toAutosensData(),
		Meal:               req.Meal.toMealData(),
		TempTarget:         req.TempTarget.toTempTarget(),
		MicroBolusAllowed:  req.MicroBolusAllowed,
		Now:                msToTime(req.Now),
	})
	return RecommendationResponse{Recommendation: recommendationToJSON(rec)}, nil
}

// CalculateGlucoseStatus summarizes recent glucose trend.
func CalculateGlucoseStatus(req GlucoseStatusRequest) (GlucoseStatusResponse, error) {
	status := oref.CalculateGlucoseStatus(glucoseFromJSON(req.Readings))
	return GlucoseStatusResponse{Status: glucoseStatusToJSON(status)}, nil
}

// HealthCheck reports that the engine is reachable and able to compute.
func HealthCheck() HealthResponse {
	return HealthResponse{Status: "ok"}
}

// Version reports the engine's build version.
func Version() VersionResponse {
	return VersionResponse{Version: version}
}
