// Package oref implements the numeric core of a closed-loop insulin
// dosing engine: insulin-on-board, carb-on-board/absorption detection,
// a sensitivity-ratio estimator ("autosens"), and the determine-basal
// dosing controller that fuses all three into a recommendation.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - types.go: the value types every other file operates on
//   - curve.go: pharmacokinetic activity/IOB curves (the pipeline's leaf)
//   - iob.go: treatment history -> IOB/activity time series
//   - bucket.go: irregular CGM timestamps -> a regular 5-minute series
//   - cob.go, autosens.go: carb absorption and sensitivity estimation
//   - basal.go, smb.go: the dosing decision itself
//
// # Architecture
//
// Every exported function here is pure: given identical arguments
// (including the explicit "now" parameter) it returns identical results,
// with no wall-clock reads, no RNG, and no package-level mutable state.
// Callers pass time as an explicit time.Time; nothing in this package
// calls time.Now(). This package never logs and never does I/O — both
// concerns live in cmd; oref/boundary only converts JSON shapes.
//
// # Key Types
//
//   - Curve: the closed set of pharmacokinetic models {Bilinear, Rapid,
//     UltraRapid}, dispatched by a switch on the tag value, never by open-ended
//     plugin registration — the set is fixed for clinical-safety reasons.
//   - Profile: per-invocation configuration (schedules, safety ceilings,
//     SMB-enable flags).
//   - Recommendation: the sole output of the pipeline.
package oref
