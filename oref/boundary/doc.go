// Package boundary is the JSON-facing edge of the dosing engine: request
// and response shapes, plus the function surface a host process (CLI,
// CGo shell, WASM shell) drives the pure oref package through.
//
// # Reading Guide
//
//   - types.go    — JSON request/response structs and their conversion to
//     and from oref's internal types.
//   - functions.go — the seven functions named in SPEC_FULL.md section 6:
//     CalculateIOB, CalculateCOB, CalculateAutosens, DetermineBasal,
//     CalculateGlucoseStatus, HealthCheck, Version.
//   - json.go     — the *JSON([]byte) ([]byte, error) sibling of each
//     function, shaping errors as {"error": "<message>"}.
//
// # Architecture
//
// Every timestamp crossing this boundary is a Unix millisecond count, not
// a time.Time: the wire format has no notion of Go's time package. Every
// conversion between the two happens in this package only; oref itself
// never parses a timestamp.
//
// # Memory ownership
//
// These functions return plain Go values, not engine-owned pointers a
// caller must explicitly free. A future CGo or WASM shell wrapping this
// package would need its own ownership contract — e.g. an engine-owned
// C string the host must pass back to a release function rather than
// freeing directly — but no such shell exists in this module; spec
// section 1 places FFI/WASM export shells out of scope. This doc comment
// exists so that shell, when it is built, has a contract to implement
// against.
package boundary
