package oref

import "time"

// Curve identifies the pharmacokinetic model used to translate an insulin
// dose into an activity/IOB time series. The set is closed: clinical
// safety rules out open-ended extension via plugin registration.
type Curve int

const (
	// Bilinear is the legacy triangular model, scaled against a 3-hour
	// reference DIA.
	Bilinear Curve = iota
	// Rapid is the exponential model for rapid-acting analogues,
	// defaulting to a 75-minute peak.
	Rapid
	// UltraRapid is the exponential model for ultra-rapid analogues,
	// defaulting to a 55-minute peak.
	UltraRapid
)

func (c Curve) String() string {
	switch c {
	case Bilinear:
		return "bilinear"
	case Rapid:
		return "rapid"
	case UltraRapid:
		return "ultra-rapid"
	default:
		return "unknown"
	}
}

// DefaultPeak returns the conventional peak-activity time (minutes) for
// curves that don't carry an explicit Profile.Peak override.
func (c Curve) DefaultPeak() float64 {
	switch c {
	case UltraRapid:
		return 55.0
	default:
		return 75.0
	}
}

// ScheduleEntry is one row of a time-of-day schedule (ISF or basal).
// Offset is minutes since local midnight; entries apply from their offset
// until the next entry's offset, or to end-of-day for the last entry.
type ScheduleEntry struct {
	OffsetMinutes int
	Value         float64
}

// NewScheduleEntry builds a ScheduleEntry from its two fields.
func NewScheduleEntry(offsetMinutes int, value float64) ScheduleEntry {
	return ScheduleEntry{OffsetMinutes: offsetMinutes, Value: value}
}

// Profile is the per-invocation patient/pump configuration. Field names
// and units mirror the specification this engine implements; see
// SPEC_FULL.md section 3.
type Profile struct {
	DIA  float64 // duration of insulin action, hours
	Curve Curve
	Peak float64 // minutes, exponential curves only; 0 means "use Curve.DefaultPeak()"

	Sens        float64 // mg/dL per U, scalar fallback
	ISFSchedule []ScheduleEntry

	CarbRatio float64 // g/U

	CurrentBasal  float64 // U/hr, scalar fallback
	BasalSchedule []ScheduleEntry

	MinBG float64 // mg/dL
	MaxBG float64 // mg/dL

	MaxBasal float64 // U/hr
	MaxIOB   float64 // U

	MaxMealAbsorptionTime float64 // hours
	Min5mCarbImpact       float64 // mg/dL

	PumpIncrement  float64 // U/hr
	BolusIncrement float64 // U
	Model          string  // pump model string, used for increment selection

	SMBDeliveryRatio      float64 // 0..1
	MaxSMBBasalMinutes    float64
	MaxUAMSMBBasalMinutes float64

	EnableSMBAlways         bool
	EnableSMBWithCOB        bool
	EnableSMBAfterCarbs     bool
	EnableSMBWithTempTarget bool
	EnableSMBHighBG         bool
	EnableSMBHighBGTarget   float64

	ExerciseMode                    bool
	HighTempTargetRaisesSensitivity bool
	RewindResetsAutosens            bool
	AllowSMBWithHighTempTarget      bool
	A52RiskEnable                   bool
}

// Treatment is a single pump-history record. Insulin, (Rate, Duration),
// and Carbs are mutually independent: any combination may be present on
// one record.
type Treatment struct {
	Time time.Time

	Insulin float64 // U, bolus amount (0 if not a bolus)

	Rate     *float64 // U/hr, nil unless this is a temp-basal record
	Duration float64  // minutes, meaningful only when Rate != nil

	Carbs float64 // g (0 if not a carb entry)

	Rewind bool // true for an infusion-site-change marker
}

// NewBolusTreatment builds a bolus Treatment.
func NewBolusTreatment(t time.Time, insulin float64) Treatment {
	return Treatment{Time: t, Insulin: insulin}
}

// NewTempBasalTreatment builds a temp-basal Treatment.
func NewTempBasalTreatment(t time.Time, rate, duration float64) Treatment {
	r := rate
	return Treatment{Time: t, Rate: &r, Duration: duration}
}

// NewCarbTreatment builds a carb-entry Treatment.
func NewCarbTreatment(t time.Time, carbs float64) Treatment {
	return Treatment{Time: t, Carbs: carbs}
}

// NewRewindTreatment builds an infusion-site-change marker.
func NewRewindTreatment(t time.Time) Treatment {
	return Treatment{Time: t, Rewind: true}
}

// IsBolus reports whether this record carries a bolus dose.
func (t Treatment) IsBolus() bool { return t.Insulin != 0 && t.Rate == nil }

// IsTempBasal reports whether this record carries a temp-basal rate.
func (t Treatment) IsTempBasal() bool { return t.Rate != nil }

// HasCarbs reports whether this record is a meaningful carb entry.
func (t Treatment) HasCarbs() bool { return t.Carbs >= 1.0 }

// GlucoseReading is one CGM sample.
type GlucoseReading struct {
	Glucose float64 // mg/dL
	Time    time.Time
	Noise   float64
}

// IsValid reports whether the reading is physiologically plausible.
func (g GlucoseReading) IsValid() bool { return g.Glucose >= 39.0 }

// GlucoseStatus summarizes recent glucose trend from the most recent
// readings (index 0 is newest).
type GlucoseStatus struct {
	Glucose       float64
	Delta         float64 // mg/dL per 5 min
	ShortAvgDelta float64 // mg/dL per 5 min, ~15 min window
	LongAvgDelta  float64 // mg/dL per 5 min, ~45 min window
	Time          time.Time
	Noise         float64
}

// GlucoseTrend is a descriptive compass-arrow classification of recent
// glucose movement. It never feeds a dosing decision; it exists only to
// give a host UI something familiar to render.
type GlucoseTrend int

const (
	TrendNone GlucoseTrend = iota
	TrendDoubleUp
	TrendSingleUp
	TrendFortyFiveUp
	TrendFlat
	TrendFortyFiveDown
	TrendSingleDown
	TrendDoubleDown
)

// Arrow returns the conventional CGM compass-arrow glyph for the trend.
func (t GlucoseTrend) Arrow() string {
	switch t {
	case TrendDoubleUp:
		return "⇈"
	case TrendSingleUp:
		return "↑"
	case TrendFortyFiveUp:
		return "↗"
	case TrendFlat:
		return "→"
	case TrendFortyFiveDown:
		return "↘"
	case TrendSingleDown:
		return "↓"
	case TrendDoubleDown:
		return "⇊"
	default:
		return "?"
	}
}

// Trend classifies a GlucoseStatus's delta into a compass-arrow trend.
func (s GlucoseStatus) Trend() GlucoseTrend {
	switch {
	case s.Delta <= -3.0:
		return TrendDoubleDown
	case s.Delta <= -2.0:
		return TrendSingleDown
	case s.Delta <= -1.0:
		return TrendFortyFiveDown
	case s.Delta < 1.0:
		return TrendFlat
	case s.Delta < 2.0:
		return TrendFortyFiveUp
	case s.Delta < 3.0:
		return TrendSingleUp
	default:
		return TrendDoubleUp
	}
}

// GlucoseBucket is one regularized 5-minute sample produced by bucketing.
type GlucoseBucket struct {
	Glucose float64
	Time    time.Time
}

// IOBContrib is one treatment's contribution to IOB and activity at a
// given point in time.
type IOBContrib struct {
	IOBContrib      float64
	ActivityContrib float64
}

// TempBasalState captures the most recently observed temp-basal record,
// attached to IOBData sample 0.
type TempBasalState struct {
	Time     time.Time
	Duration float64
	Rate     *float64
}

// NewTempBasalState builds a TempBasalState.
func NewTempBasalState(t time.Time, duration float64, rate *float64) TempBasalState {
	return TempBasalState{Time: t, Duration: duration, Rate: rate}
}

// IOBData is the complete IOB/activity state at one point in time.
type IOBData struct {
	IOB             float64 // U
	Activity        float64 // U/min
	BasalIOB        float64 // U
	BolusIOB        float64 // U
	NetBasalInsulin float64 // U
	BolusInsulin    float64 // U
	Time            time.Time

	IOBWithZeroTemp *IOBData
	LastBolusTime   *time.Time
	LastTemp        *TempBasalState
}

// ZeroIOBData returns a zero IOB state at the given time.
func ZeroIOBData(t time.Time) IOBData {
	return IOBData{Time: t}
}

// Rounded returns a copy with iob/basal_iob/bolus_iob/net_basal_insulin/
// bolus_insulin rounded to 3 decimal places and activity to 4, matching
// the precision contract at this pipeline exit point.
func (d IOBData) Rounded() IOBData {
	d.IOB = roundTo(d.IOB, 3)
	d.BasalIOB = roundTo(d.BasalIOB, 3)
	d.BolusIOB = roundTo(d.BolusIOB, 3)
	d.NetBasalInsulin = roundTo(d.NetBasalInsulin, 3)
	d.BolusInsulin = roundTo(d.BolusInsulin, 3)
	d.Activity = roundTo(d.Activity, 4)
	return d
}

// COBResult is the output of carb-absorption detection.
type COBResult struct {
	MealCOB       float64
	CarbsAbsorbed float64

	CurrentDeviation float64
	MaxDeviation     float64
	MinDeviation     float64

	SlopeFromMaxDeviation float64
	SlopeFromMinDeviation float64
}

// MealData carries COBResult plus the carb-entry bookkeeping the
// determine-basal controller's SMB predicate needs (supplemented beyond
// the bare COBResult fields; see SPEC_FULL.md section 3).
type MealData struct {
	Carbs        float64
	NSCarbs      float64
	BWCarbs      float64
	JournalCarbs float64

	MealCOB          float64
	CurrentDeviation float64
	MaxDeviation     float64
	MinDeviation     float64

	SlopeFromMaxDeviation float64
	SlopeFromMinDeviation float64

	AllDeviations []float64

	LastCarbTime time.Time
	BWFound      bool
}

// EmptyMealData returns a zero-valued MealData, the default when no meal
// information is available.
func EmptyMealData() MealData { return MealData{} }

// WithCOB builds a MealData from a COBResult plus the extra carb-entry
// bookkeeping fields.
func WithCOB(cob COBResult, carbs float64, lastCarbTime time.Time, bwFound bool) MealData {
	return MealData{
		Carbs:                 carbs,
		MealCOB:               cob.MealCOB,
		CurrentDeviation:      cob.CurrentDeviation,
		MaxDeviation:          cob.MaxDeviation,
		MinDeviation:          cob.MinDeviation,
		SlopeFromMaxDeviation: cob.SlopeFromMaxDeviation,
		SlopeFromMinDeviation: cob.SlopeFromMinDeviation,
		LastCarbTime:          lastCarbTime,
		BWFound:               bwFound,
	}
}

// Rounded returns a copy with precision applied the same way
// original_source/types/cob.rs rounds MealData before it crosses a
// pipeline boundary.
func (m MealData) Rounded() MealData {
	m.Carbs = roundTo(m.Carbs, 3)
	m.NSCarbs = roundTo(m.NSCarbs, 3)
	m.BWCarbs = roundTo(m.BWCarbs, 3)
	m.JournalCarbs = roundTo(m.JournalCarbs, 3)
	m.MealCOB = float64(int(m.MealCOB + 0.5))
	m.CurrentDeviation = roundTo(m.CurrentDeviation, 2)
	m.MaxDeviation = roundTo(m.MaxDeviation, 2)
	m.MinDeviation = roundTo(m.MinDeviation, 2)
	m.SlopeFromMaxDeviation = roundTo(m.SlopeFromMaxDeviation, 3)
	m.SlopeFromMinDeviation = roundTo(m.SlopeFromMinDeviation, 3)
	return m
}

// AutosensData is the autosens estimator's output: a multiplicative
// sensitivity-ratio correction.
type AutosensData struct {
	Ratio float64
}

// DefaultAutosensData returns the neutral ratio of 1.0, used whenever
// autosens has nothing to estimate from.
func DefaultAutosensData() AutosensData { return AutosensData{Ratio: 1.0} }

// AutosensConfig tunes the autosens estimator itself, as distinct from
// patient configuration carried on Profile.
type AutosensConfig struct {
	Lookback      int     // max deviations retained, default 96 (8 hours)
	Retrospective bool    // true: start the window 24h before the oldest glucose reading instead of 24h before now
	AutosensMin   float64 // default 0.7
	AutosensMax   float64 // default 1.2
}

// DefaultAutosensConfig returns the conventional tuning values.
func DefaultAutosensConfig() AutosensConfig {
	return AutosensConfig{Lookback: 96, AutosensMin: 0.7, AutosensMax: 1.2}
}

// CurrentTemp describes a temp basal that is (or was) in effect.
type CurrentTemp struct {
	Time     time.Time
	Duration float64 // minutes
	Rate     float64 // U/hr
	Active   bool
}

// AbsoluteTemp builds an active CurrentTemp at the given absolute rate.
func AbsoluteTemp(t time.Time, rate, duration float64) CurrentTemp {
	return CurrentTemp{Time: t, Rate: rate, Duration: duration, Active: true}
}

// NoTemp builds a CurrentTemp representing "no temp basal active".
func NoTemp(t time.Time) CurrentTemp { return CurrentTemp{Time: t} }

// IsActive reports whether this temp basal is currently in effect.
func (c CurrentTemp) IsActive() bool { return c.Active }

// TempTarget describes a time-bounded override of the patient's target
// range, e.g. a temporary high target during exercise.
type TempTarget struct {
	CreatedAt    time.Time
	Duration     float64 // minutes; 0 means cancelled
	TargetBottom float64
	TargetTop    float64
	Reason       string
}

// Midpoint returns the average of the top and bottom target bounds.
func (t TempTarget) Midpoint() float64 { return (t.TargetBottom + t.TargetTop) / 2.0 }

// IsCancelled reports whether this temp target has been cancelled.
func (t TempTarget) IsCancelled() bool { return t.Duration == 0 }

// IsActive reports whether the temp target is still in effect at `now`.
func (t TempTarget) IsActive(now time.Time) bool {
	if t.IsCancelled() {
		return false
	}
	return !now.After(t.CreatedAt.Add(time.Duration(t.Duration) * time.Minute))
}

// IsHigh reports whether the temp target raises the target range above
// the conventional 100 mg/dL midpoint.
func (t TempTarget) IsHigh() bool { return t.Midpoint() > 100 }

// IsLow reports whether the temp target lowers the target range below
// the conventional 100 mg/dL midpoint.
func (t TempTarget) IsLow() bool { return t.Midpoint() < 100 }

// PredictedCurves bundles the four 48-point, 5-minute-step prediction
// series the determine-basal controller emits alongside its decision.
type PredictedCurves struct {
	IOB  []float64
	ZT   []float64
	UAM  []float64
	COB  []float64
}

// Recommendation is the sole output of the determine-basal pipeline.
type Recommendation struct {
	Rate     *float64 // U/hr, nil if no temp change is recommended
	Duration *float64 // minutes
	Units    *float64 // SMB units, nil if no SMB

	Reason string

	EventualBG       float64
	IOB              float64
	COB              float64
	TargetBG         float64
	SensitivityRatio float64
	InsulinReq       float64

	PredBGs PredictedCurves
}

// PumpHistoryEvent is a raw pump-history record (Medtronic-shaped) as
// ingested at the system boundary, before translation into a Treatment.
// Never consumed by the core subsystems directly: only ToTreatment's
// output is.
type PumpHistoryEvent struct {
	Time        time.Time
	EventType   string // "Bolus", "TempBasalDuration", "TempBasalRate", "BGReceived", ...
	Amount      float64
	Rate        float64
	Duration    float64
	CarbInput   float64
}

// ToTreatment maps a raw pump-history event onto the engine's internal
// Treatment shape. Unknown event types map to a zero-value Treatment at
// the event's timestamp.
func (e PumpHistoryEvent) ToTreatment() Treatment {
	switch e.EventType {
	case "Bolus":
		return NewBolusTreatment(e.Time, e.Amount)
	case "TempBasalRate", "TempBasalDuration":
		return NewTempBasalTreatment(e.Time, e.Rate, e.Duration)
	case "BGReceived":
		return Treatment{Time: e.Time}
	case "CarbInput":
		return NewCarbTreatment(e.Time, e.CarbInput)
	case "Rewind":
		return NewRewindTreatment(e.Time)
	default:
		return Treatment{Time: e.Time}
	}
}
