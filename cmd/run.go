package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oref-go/engine/oref/boundary"
)

var (
	scenarioFile string
	profileFile  string
	logLevel     string
)

// scenario is the on-disk JSON shape cmd/run.go replays: a profile plus
// enough recent history to drive the full pipeline (glucose status, IOB,
// COB, autosens) feeding determine-basal, the way a host loop would
// assemble one invocation's inputs.
type scenario struct {
	Profile           boundary.ProfileJSON          `json:"profile" yaml:"profile"`
	Glucose           []boundary.GlucoseReadingJSON `json:"glucose" yaml:"glucose"`
	History           []boundary.TreatmentJSON      `json:"history" yaml:"history"`
	CurrentTemp       boundary.CurrentTempJSON      `json:"currentTemp" yaml:"currentTemp"`
	TempTarget        *boundary.TempTargetJSON      `json:"tempTarget,omitempty" yaml:"tempTarget,omitempty"`
	MicroBolusAllowed bool                          `json:"microBolusAllowed" yaml:"microBolusAllowed"`
	Now               int64                         `json:"now" yaml:"now"`
}

func loadScenario(path string) (scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}
	var s scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return scenario{}, fmt.Errorf("parsing scenario JSON: %w", err)
	}
	return s, nil
}

// loadProfileOverride reads a standalone YAML profile file and replaces
// the scenario's embedded profile with it, the way a host would keep a
// patient's profile in its own config file separate from a replayed
// glucose/treatment scenario.
func loadProfileOverride(path string) (boundary.ProfileJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return boundary.ProfileJSON{}, fmt.Errorf("reading profile file: %w", err)
	}
	var p boundary.ProfileJSON
	if err := yaml.Unmarshal(data, &p); err != nil {
		return boundary.ProfileJSON{}, fmt.Errorf("parsing profile YAML: %w", err)
	}
	return p, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a scenario file through the dosing pipeline and print the recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		s, err := loadScenario(scenarioFile)
		if err != nil {
			return err
		}
		if profileFile != "" {
			p, err := loadProfileOverride(profileFile)
			if err != nil {
				return err
			}
			s.Profile = p
		}

		logrus.Infof("replaying scenario: %d glucose readings, %d history records", len(s.Glucose), len(s.History))

		status, err := boundary.CalculateGlucoseStatus(boundary.GlucoseStatusRequest{Readings: s.Glucose})
		if err != nil {
			return fmt.Errorf("computing glucose status: %w", err)
		}

		iobResp, err := boundary.CalculateIOB(boundary.IOBRequest{
			Profile:        s.Profile,
			History:        s.History,
			Now:            s.Now,
			CurrentIOBOnly: true,
		})
		if err != nil {
			return fmt.Errorf("computing IOB: %w", err)
		}

		cobResp, err := boundary.CalculateCOB(boundary.COBRequest{
			Profile: s.Profile,
			Glucose: s.Glucose,
			History: s.History,
			Now:     s.Now,
		})
		if err != nil {
			return fmt.Errorf("computing COB: %w", err)
		}

		autosensResp, err := boundary.CalculateAutosens(boundary.AutosensRequest{
			Profile:    s.Profile,
			Glucose:    s.Glucose,
			History:    s.History,
			TempTarget: s.TempTarget,
			Now:        s.Now,
		})
		if err != nil {
			return fmt.Errorf("computing autosens: %w", err)
		}

		meal := boundary.MealDataJSON{
			MealCOB:               cobResp.COB.MealCOB,
			CurrentDeviation:      cobResp.COB.CurrentDeviation,
			MaxDeviation:          cobResp.COB.MaxDeviation,
			MinDeviation:          cobResp.COB.MinDeviation,
			SlopeFromMaxDeviation: cobResp.COB.SlopeFromMaxDeviation,
			SlopeFromMinDeviation: cobResp.COB.SlopeFromMinDeviation,
		}

		recResp, err := boundary.DetermineBasal(boundary.DetermineBasalRequest{
			Status:            status.Status,
			CurrentTemp:       s.CurrentTemp,
			IOB:               iobResp.IOB[0],
			Profile:           s.Profile,
			Autosens:          autosensResp.Autosens,
			Meal:              meal,
			TempTarget:        s.TempTarget,
			MicroBolusAllowed: s.MicroBolusAllowed,
			Now:               s.Now,
		})
		if err != nil {
			return fmt.Errorf("determining basal: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"reason":    recResp.Recommendation.Reason,
			"iob":       recResp.Recommendation.IOB,
			"cob":       recResp.Recommendation.COB,
			"eventual":  recResp.Recommendation.EventualBG,
			"sens_ratio": recResp.Recommendation.SensitivityRatio,
		}).Info("recommendation computed")

		out, err := json.MarshalIndent(recResp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling recommendation: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "path to a JSON scenario file (profile, glucose, history, now)")
	runCmd.Flags().StringVar(&profileFile, "profile", "", "optional path to a YAML profile file overriding the scenario's embedded profile")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "log level (debug, info, warn, error)")
	_ = runCmd.MarkFlagRequired("scenario")
}
