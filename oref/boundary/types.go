package boundary

import (
	"time"

	"github.com/oref-go/engine/oref"
)

func msToTime(ms int64) time.Time { return time.UnixMilli(ms) }
func timeToMs(t time.Time) int64  { return t.UnixMilli() }

// ScheduleEntryJSON is one row of a time-of-day ISF or basal schedule.
type ScheduleEntryJSON struct {
	OffsetMinutes int     `json:"offsetMinutes"`
	Value         float64 `json:"value"`
}

func scheduleFromJSON(entries []ScheduleEntryJSON) []oref.ScheduleEntry {
	out := make([]oref.ScheduleEntry, len(entries))
	for i, e := range entries {
		out[i] = oref.NewScheduleEntry(e.OffsetMinutes, e.Value)
	}
	return out
}

// ProfileJSON is the wire shape of oref.Profile. It carries both json and
// yaml tags: the same struct backs boundary JSON requests and the CLI's
// standalone YAML profile files.
type ProfileJSON struct {
	DIA   float64 `json:"dia" yaml:"dia"`
	Curve string  `json:"curve" yaml:"curve"` // "bilinear", "rapid", "ultra-rapid"
	Peak  float64 `json:"peak" yaml:"peak"`

	Sens        float64             `json:"sens" yaml:"sens"`
	ISFSchedule []ScheduleEntryJSON `json:"isfSchedule" yaml:"isfSchedule"`

	CarbRatio float64 `json:"carbRatio" yaml:"carbRatio"`

	CurrentBasal  float64             `json:"currentBasal" yaml:"currentBasal"`
	BasalSchedule []ScheduleEntryJSON `json:"basalSchedule" yaml:"basalSchedule"`

	MinBG float64 `json:"minBg" yaml:"minBg"`
	MaxBG float64 `json:"maxBg" yaml:"maxBg"`

	MaxBasal float64 `json:"maxBasal" yaml:"maxBasal"`
	MaxIOB   float64 `json:"maxIob" yaml:"maxIob"`

	MaxMealAbsorptionTime float64 `json:"maxMealAbsorptionTime" yaml:"maxMealAbsorptionTime"`
	Min5mCarbImpact       float64 `json:"min5mCarbImpact" yaml:"min5mCarbImpact"`

	PumpIncrement  float64 `json:"pumpIncrement" yaml:"pumpIncrement"`
	BolusIncrement float64 `json:"bolusIncrement" yaml:"bolusIncrement"`
	Model          string  `json:"model" yaml:"model"`

	SMBDeliveryRatio      float64 `json:"smbDeliveryRatio" yaml:"smbDeliveryRatio"`
	MaxSMBBasalMinutes    float64 `json:"maxSmbBasalMinutes" yaml:"maxSmbBasalMinutes"`
	MaxUAMSMBBasalMinutes float64 `json:"maxUamSmbBasalMinutes" yaml:"maxUamSmbBasalMinutes"`

	EnableSMBAlways         bool    `json:"enableSmbAlways" yaml:"enableSmbAlways"`
	EnableSMBWithCOB        bool    `json:"enableSmbWithCob" yaml:"enableSmbWithCob"`
	EnableSMBAfterCarbs     bool    `json:"enableSmbAfterCarbs" yaml:"enableSmbAfterCarbs"`
	EnableSMBWithTempTarget bool    `json:"enableSmbWithTempTarget" yaml:"enableSmbWithTempTarget"`
	EnableSMBHighBG         bool    `json:"enableSmbHighBg" yaml:"enableSmbHighBg"`
	EnableSMBHighBGTarget   float64 `json:"enableSmbHighBgTarget" yaml:"enableSmbHighBgTarget"`

	ExerciseMode                    bool `json:"exerciseMode" yaml:"exerciseMode"`
	HighTempTargetRaisesSensitivity bool `json:"highTempTargetRaisesSensitivity" yaml:"highTempTargetRaisesSensitivity"`
	RewindResetsAutosens            bool `json:"rewindResetsAutosens" yaml:"rewindResetsAutosens"`
	AllowSMBWithHighTempTarget      bool `json:"allowSmbWithHighTempTarget" yaml:"allowSmbWithHighTempTarget"`
	A52RiskEnable                   bool `json:"a52RiskEnable" yaml:"a52RiskEnable"`
}

func curveFromString(s string) oref.Curve {
	switch s {
	case "rapid":
		return oref.Rapid
	case "ultra-rapid":
		return oref.UltraRapid
	default:
		return oref.Bilinear
	}
}

func (p ProfileJSON) toProfile() oref.Profile {
	return oref.Profile{
		DIA:                             p.DIA,
		Curve:                           curveFromString(p.Curve),
		Peak:                            p.Peak,
		Sens:                            p.Sens,
		ISFSchedule:                     scheduleFromJSON(p.ISFSchedule),
		CarbRatio:                       p.CarbRatio,
		CurrentBasal:                    p.CurrentBasal,
		BasalSchedule:                   scheduleFromJSON(p.BasalSchedule),
		MinBG:                           p.MinBG,
		MaxBG:                           p.MaxBG,
		MaxBasal:                        p.MaxBasal,
		MaxIOB:                          p.MaxIOB,
		MaxMealAbsorptionTime:           p.MaxMealAbsorptionTime,
		Min5mCarbImpact:                 p.Min5mCarbImpact,
		PumpIncrement:                   p.PumpIncrement,
		BolusIncrement:                  p.BolusIncrement,
		Model:                           p.Model,
		SMBDeliveryRatio:                p.SMBDeliveryRatio,
		MaxSMBBasalMinutes:              p.MaxSMBBasalMinutes,
		MaxUAMSMBBasalMinutes:           p.MaxUAMSMBBasalMinutes,
		EnableSMBAlways:                 p.EnableSMBAlways,
		EnableSMBWithCOB:                p.EnableSMBWithCOB,
		EnableSMBAfterCarbs:             p.EnableSMBAfterCarbs,
		EnableSMBWithTempTarget:         p.EnableSMBWithTempTarget,
		EnableSMBHighBG:                 p.EnableSMBHighBG,
		EnableSMBHighBGTarget:           p.EnableSMBHighBGTarget,
		ExerciseMode:                    p.ExerciseMode,
		HighTempTargetRaisesSensitivity: p.HighTempTargetRaisesSensitivity,
		RewindResetsAutosens:            p.RewindResetsAutosens,
		AllowSMBWithHighTempTarget:      p.AllowSMBWithHighTempTarget,
		A52RiskEnable:                   p.A52RiskEnable,
	}
}

// TreatmentJSON is the wire shape of oref.Treatment.
type TreatmentJSON struct {
	Time     int64    `json:"time"`
	Insulin  float64  `json:"insulin,omitempty"`
	Rate     *float64 `json:"rate,omitempty"`
	Duration float64  `json:"duration,omitempty"`
	Carbs    float64  `json:"carbs,omitempty"`
	Rewind   bool     `json:"rewind,omitempty"`
}

func treatmentsFromJSON(in []TreatmentJSON) []oref.Treatment {
	out := make([]oref.Treatment, len(in))
	for i, t := range in {
		out[i] = oref.Treatment{
			Time:     msToTime(t.Time),
			Insulin:  t.Insulin,
			Rate:     t.Rate,
			Duration: t.Duration,
			Carbs:    t.Carbs,
			Rewind:   t.Rewind,
		}
	}
	return out
}

// GlucoseReadingJSON is the wire shape of oref.GlucoseReading.
type GlucoseReadingJSON struct {
	Glucose float64 `json:"glucose"`
	Time    int64   `json:"time"`
	Noise   float64 `json:"noise,omitempty"`
}

func glucoseFromJSON(in []GlucoseReadingJSON) []oref.GlucoseReading {
	out := make([]oref.GlucoseReading, len(in))
	for i, g := range in {
		out[i] = oref.GlucoseReading{Glucose: g.Glucose, Time: msToTime(g.Time), Noise: g.Noise}
	}
	return out
}

// TempTargetJSON is the wire shape of oref.TempTarget.
type TempTargetJSON struct {
	CreatedAt    int64   `json:"createdAt"`
	Duration     float64 `json:"duration"`
	TargetBottom float64 `json:"targetBottom"`
	TargetTop    float64 `json:"targetTop"`
	Reason       string  `json:"reason,omitempty"`
}

func (t *TempTargetJSON) toTempTarget() *oref.TempTarget {
	if t == nil {
		return nil
	}
	return &oref.TempTarget{
		CreatedAt:    msToTime(t.CreatedAt),
		Duration:     t.Duration,
		TargetBottom: t.TargetBottom,
		TargetTop:    t.TargetTop,
		Reason:       t.Reason,
	}
}

// CurrentTempJSON is the wire shape of oref.CurrentTemp.
type CurrentTempJSON struct {
	Time     int64   `json:"time"`
	Duration float64 `json:"duration"`
	Rate     float64 `json:"rate"`
	Active   bool    `json:"active"`
}

func (c CurrentTempJSON) toCurrentTemp() oref.CurrentTemp {
	return oref.CurrentTemp{Time: msToTime(c.Time), Duration: c.Duration, Rate: c.Rate, Active: c.Active}
}

// IOBDataJSON is the wire shape of oref.IOBData.
type IOBDataJSON struct {
	IOB             float64          `json:"iob"`
	Activity        float64          `json:"activity"`
	BasalIOB        float64          `json:"basalIob"`
	BolusIOB        float64          `json:"bolusIob"`
	NetBasalInsulin float64          `json:"netBasalInsulin"`
	BolusInsulin    float64          `json:"bolusInsulin"`
	Time            int64            `json:"time"`
	IOBWithZeroTemp *IOBDataJSON     `json:"iobWithZeroTemp,omitempty"`
	LastBolusTime   *int64           `json:"lastBolusTime,omitempty"`
	LastTemp        *CurrentTempJSON `json:"lastTemp,omitempty"`
}

func iobDataToJSON(d oref.IOBData) IOBDataJSON {
	out := IOBDataJSON{
		IOB:             d.IOB,
		Activity:        d.Activity,
		BasalIOB:        d.BasalIOB,
		BolusIOB:        d.BolusIOB,
		NetBasalInsulin: d.NetBasalInsulin,
		BolusInsulin:    d.BolusInsulin,
		Time:            timeToMs(d.Time),
	}
	if d.IOBWithZeroTemp != nil {
		zt := iobDataToJSON(*d.IOBWithZeroTemp)
		out.IOBWithZeroTemp = &zt
	}
	if d.LastBolusTime != nil {
		ms := timeToMs(*d.LastBolusTime)
		out.LastBolusTime = &ms
	}
	if d.LastTemp != nil {
		out.LastTemp = &CurrentTempJSON{
			Time:     timeToMs(d.LastTemp.Time),
			Duration: d.LastTemp.Duration,
			Rate:     derefOrZero(d.LastTemp.Rate),
			Active:   d.LastTemp.Rate != nil,
		}
	}
	return out
}

func derefOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// toIOBData converts the wire shape back to oref.IOBData. Only the
// scalar fields are needed by DetermineBasal's inputs; the nested
// zero-temp/last-bolus/last-temp fields are round-tripped for
// completeness but are not required for a typical request.
func (d IOBDataJSON) toIOBData() oref.IOBData {
	out := oref.IOBData{
		IOB:             d.IOB,
		Activity:        d.Activity,
		BasalIOB:        d.BasalIOB,
		BolusIOB:        d.BolusIOB,
		NetBasalInsulin: d.NetBasalInsulin,
		BolusInsulin:    d.BolusInsulin,
		Time:            msToTime(d.Time),
	}
	if d.IOBWithZeroTemp != nil {
		zt := d.IOBWithZeroTemp.toIOBData()
		out.IOBWithZeroTemp = &zt
	}
	if d.LastBolusTime != nil {
		t := msToTime(*d.LastBolusTime)
		out.LastBolusTime = &t
	}
	if d.LastTemp != nil {
		var rate *float64
		if d.LastTemp.Active {
			r := d.LastTemp.Rate
			rate = &r
		}
		state := oref.NewTempBasalState(msToTime(d.LastTemp.Time), d.LastTemp.Duration, rate)
		out.LastTemp = &state
	}
	return out
}

// COBResultJSON is the wire shape of oref.COBResult.
type COBResultJSON struct {
	MealCOB               float64 `json:"mealCob"`
	CarbsAbsorbed         float64 `json:"carbsAbsorbed"`
	CurrentDeviation       float64 `json:"currentDeviation"`
	MaxDeviation           float64 `json:"maxDeviation"`
	MinDeviation           float64 `json:"minDeviation"`
	SlopeFromMaxDeviation  float64 `json:"slopeFromMaxDeviation"`
	SlopeFromMinDeviation  float64 `json:"slopeFromMinDeviation"`
}

func cobResultToJSON(c oref.COBResult) COBResultJSON {
	return COBResultJSON{
		MealCOB:               c.MealCOB,
		CarbsAbsorbed:         c.CarbsAbsorbed,
		CurrentDeviation:      c.CurrentDeviation,
		MaxDeviation:          c.MaxDeviation,
		MinDeviation:          c.MinDeviation,
		SlopeFromMaxDeviation: c.SlopeFromMaxDeviation,
		SlopeFromMinDeviation: c.SlopeFromMinDeviation,
	}
}

// AutosensDataJSON is the wire shape of oref.AutosensData.
type AutosensDataJSON struct {
	Ratio float64 `json:"ratio"`
}

func autosensToJSON(a oref.AutosensData) AutosensDataJSON { return AutosensDataJSON{Ratio: a.Ratio} }

func (a AutosensDataJSON) toAutosensData() oref.AutosensData {
	return oref.AutosensData{Ratio: a.Ratio}
}

// GlucoseStatusJSON is the wire shape of oref.GlucoseStatus.
type GlucoseStatusJSON struct {
	Glucose       float64 `json:"glucose"`
	Delta         float64 `json:"delta"`
	ShortAvgDelta float64 `json:"shortAvgDelta"`
	LongAvgDelta  float64 `json:"longAvgDelta"`
	Time          int64   `json:"time"`
	Noise         float64 `json:"noise,omitempty"`
}

func glucoseStatusToJSON(s oref.GlucoseStatus) GlucoseStatusJSON {
	return GlucoseStatusJSON{
		Glucose:       s.Glucose,
		Delta:         s.Delta,
		ShortAvgDelta: s.ShortAvgDelta,
		LongAvgDelta:  s.LongAvgDelta,
		Time:          timeToMs(s.Time),
		Noise:         s.Noise,
	}
}

func (s GlucoseStatusJSON) toGlucoseStatus() oref.GlucoseStatus {
	return oref.GlucoseStatus{
		Glucose:       s.Glucose,
		Delta:         s.Delta,
		ShortAvgDelta: s.ShortAvgDelta,
		LongAvgDelta:  s.LongAvgDelta,
		Time:          msToTime(s.Time),
		Noise:         s.Noise,
	}
}

// MealDataJSON is the wire shape of oref.MealData.
type MealDataJSON struct {
	Carbs        float64 `json:"carbs"`
	NSCarbs      float64 `json:"nsCarbs,omitempty"`
	BWCarbs      float64 `json:"bwCarbs,omitempty"`
	JournalCarbs float64 `json:"journalCarbs,omitempty"`

	MealCOB          float64 `json:"mealCob"`
	CurrentDeviation float64 `json:"currentDeviation,omitempty"`
	MaxDeviation     float64 `json:"maxDeviation,omitempty"`
	MinDeviation     float64 `json:"minDeviation,omitempty"`

	SlopeFromMaxDeviation float64 `json:"slopeFromMaxDeviation,omitempty"`
	SlopeFromMinDeviation float64 `json:"slopeFromMinDeviation,omitempty"`

	LastCarbTime int64 `json:"lastCarbTime,omitempty"`
	BWFound      bool  `json:"bwFound,omitempty"`
}

func (m MealDataJSON) toMealData() oref.MealData {
	return oref.MealData{
		Carbs:                 m.Carbs,
		NSCarbs:                m.NSCarbs,
		BWCarbs:                m.BWCarbs,
		JournalCarbs:           m.JournalCarbs,
		MealCOB:                m.MealCOB,
		CurrentDeviation:       m.CurrentDeviation,
		MaxDeviation:           m.MaxDeviation,
		MinDeviation:           m.MinDeviation,
		SlopeFromMaxDeviation:  m.SlopeFromMaxDeviation,
		SlopeFromMinDeviation:  m.SlopeFromMinDeviation,
		LastCarbTime:           msToTime(m.LastCarbTime),
		BWFound:                m.BWFound,
	}
}

// PredictedCurvesJSON is the wire shape of oref.PredictedCurves.
type PredictedCurvesJSON struct {
	IOB []float64 `json:"iob"`
	ZT  []float64 `json:"zt"`
	UAM []float64 `json:"uam"`
	COB []float64 `json:"cob"`
}

func predictedCurvesToJSON(p oref.PredictedCurves) PredictedCurvesJSON {
	return PredictedCurvesJSON{IOB: p.IOB, ZT: p.ZT, UAM: p.UAM, COB: p.COB}
}

// RecommendationJSON is the wire shape of oref.Recommendation.
type RecommendationJSON struct {
	Rate     *float64 `json:"rate,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Units    *float64 `json:"units,omitempty"`

	Reason string `json:"reason"`

	EventualBG       float64 `json:"eventualBg"`
	IOB              float64 `json:"iob"`
	COB              float64 `json:"cob"`
	TargetBG         float64 `json:"targetBg"`
	SensitivityRatio float64 `json:"sensitivityRatio"`
	InsulinReq       float64 `json:"insulinReq"`

	PredBGs PredictedCurvesJSON `json:"predBgs"`
}

func recommendationToJSON(r oref.Recommendation) RecommendationJSON {
	return RecommendationJSON{
		Rate:             r.Rate,
		Duration:         r.Duration,
		Units:            r.Units,
		Reason:           r.Reason,
		EventualBG:       r.EventualBG,
		IOB:              r.IOB,
		COB:              r.COB,
		TargetBG:         r.TargetBG,
		SensitivityRatio: r.SensitivityRatio,
		InsulinReq:       r.InsulinReq,
		PredBGs:          predictedCurvesToJSON(r.PredBGs),
	}
}

// IOBRequest is the request body for CalculateIOB.
type IOBRequest struct {
	Profile         ProfileJSON     `json:"profile"`
	History         []TreatmentJSON `json:"history"`
	Now             int64           `json:"now"`
	CurrentIOBOnly  bool            `json:"currentIobOnly"`
}

// IOBResponse is the response body for CalculateIOB.
type IOBResponse struct {
	IOB []IOBDataJSON `json:"iob"`
}

// COBRequest is the request body for CalculateCOB.
type COBRequest struct {
	Profile ProfileJSON          `json:"profile"`
	Glucose []GlucoseReadingJSON `json:"glucose"`
	History []TreatmentJSON      `json:"history"`
	Now     int64                `json:"now"`
}

// COBResponse is the response body for CalculateCOB.
type COBResponse struct {
	COB COBResultJSON `json:"cob"`
}

// AutosensRequest is the request body for CalculateAutosens.
type AutosensRequest struct {
	Profile    ProfileJSON          `json:"profile"`
	Glucose    []GlucoseReadingJSON `json:"glucose"`
	History    []TreatmentJSON      `json:"history"`
	TempTarget *TempTargetJSON      `json:"tempTarget,omitempty"`
	Now        int64                `json:"now"`
	Lookback   int                  `json:"lookback,omitempty"`
}

// AutosensResponse is the response body for CalculateAutosens.
type AutosensResponse struct {
	Autosens AutosensDataJSON `json:"autosens"`
}

// DetermineBasalRequest is the request body for DetermineBasal.
type DetermineBasalRequest struct {
	Status            GlucoseStatusJSON `json:"status"`
	CurrentTemp       CurrentTempJSON   `json:"currentTemp"`
	IOB               IOBDataJSON       `json:"iob"`
	Profile           ProfileJSON       `json:"profile"`
	Autosens          AutosensDataJSON  `json:"autosens"`
	Meal              MealDataJSON      `json:"meal"`
	TempTarget        *TempTargetJSON   `json:"tempTarget,omitempty"`
	MicroBolusAllowed bool              `json:"microBolusAllowed"`
	Now               int64             `json:"now"`
}

// RecommendationResponse is the response body for DetermineBasal.
type RecommendationResponse struct {
	Recommendation RecommendationJSON `json:"recommendation"`
}

// GlucoseStatusRequest is the request body for CalculateGlucoseStatus.
type GlucoseStatusRequest struct {
	Readings []GlucoseReadingJSON `json:"readings"`
}

// GlucoseStatusResponse is the response body for CalculateGlucoseStatus.
type GlucoseStatusResponse struct {
	Status GlucoseStatusJSON `json:"status"`
}

// HealthResponse is the response body for HealthCheck.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response body for Version.
type VersionResponse struct {
	Version string `json:"version"`
}
