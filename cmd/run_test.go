package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oref-go/engine/oref/boundary"
)

func writeScenarioFile(t *testing.T, s scenario) string {
	t.Helper()
	data, err := json.Marshal(s)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.json")
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunCmd_ScenarioFlag_RegisteredWithEmptyDefault(t *testing.T) {
	// GIVEN the run command with its registered flags
	flag := runCmd.Flags().Lookup("scenario")

	// WHEN we inspect the scenario flag
	// THEN it MUST be registered and default to an empty path
	assert.NotNil(t, flag, "scenario flag must be registered")
	assert.Equal(t, "", flag.DefValue)
}

func TestRunCmd_DefaultLogLevel_IsWarn(t *testing.T) {
	// GIVEN the run command with its registered flags
	flag := runCmd.Flags().Lookup("log")

	// WHEN we check the default value
	// THEN it MUST default to "warn", matching the engine's quiet-by-default CLI
	assert.NotNil(t, flag, "log flag must be registered")
	assert.Equal(t, "warn", flag.DefValue)
}

func TestLoadScenario_ParsesWellFormedFile(t *testing.T) {
	// GIVEN a scenario file with a minimal profile and a single glucose reading
	s := scenario{
		Profile: boundary.ProfileJSON{DIA: 3.0, Sens: 50, CurrentBasal: 1.0, MaxBasal: 3.0, MinBG: 90, MaxBG: 150},
		Glucose: []boundary.GlucoseReadingJSON{{Glucose: 120, Time: 1000}},
		Now:     1000,
	}
	path := writeScenarioFile(t, s)

	// WHEN loadScenario reads it
	got, err := loadScenario(path)

	// THEN it MUST round-trip the profile and glucose fields exactly
	assert.NoError(t, err)
	assert.Equal(t, 50.0, got.Profile.Sens)
	assert.Len(t, got.Glucose, 1)
	assert.Equal(t, 120.0, got.Glucose[0].Glucose)
}

func TestLoadScenario_MissingFileReturnsWrappedError(t *testing.T) {
	// GIVEN a path that does not exist
	// WHEN loadScenario is called
	_, err := loadScenario(filepath.Join(t.TempDir(), "missing.json"))

	// THEN it MUST return a non-nil error mentioning the read failure
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario file")
}

func TestLoadScenario_MalformedJSONReturnsWrappedError(t *testing.T) {
	// GIVEN a file containing invalid JSON
	path := filepath.Join(t.TempDir(), "bad.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	// WHEN loadScenario is called
	_, err := loadScenario(path)

	// THEN it MUST return a non-nil error mentioning the parse failure
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario JSON")
}

func TestLoadProfileOverride_ParsesYAML(t *testing.T) {
	// GIVEN a standalone YAML profile file
	path := filepath.Join(t.TempDir(), "profile.yaml")
	yamlBody := "dia: 4\nsens: 45\ncurrentBasal: 0.9\n"
	assert.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	// WHEN loadProfileOverride reads it
	got, err := loadProfileOverride(path)

	// THEN the fields MUST be parsed from YAML correctly
	assert.NoError(t, err)
	assert.Equal(t, 4.0, got.DIA)
	assert.Equal(t, 45.0, got.Sens)
	assert.Equal(t, 0.9, got.CurrentBasal)
}

func TestRootCmd_HasRunSubcommand(t *testing.T) {
	// GIVEN the root command after init()
	// WHEN we look for its subcommands
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "run" {
			found = true
		}
	}
	// THEN the run subcommand MUST be registered
	assert.True(t, found, "run subcommand must be registered on rootCmd")
}
