package boundary

import "encoding/json"

// errorEnvelope is the shape every *JSON function reports a failure in:
// {"error": "<message>"}, per spec section 6.
type errorEnvelope struct {
	Error string `json:"error"`
}

func marshalError(err error) ([]byte, error) {
	return json.Marshal(errorEnvelope{Error: err.Error()})
}

// CalculateIOBJSON unmarshals req, calls CalculateIOB, and marshals the
// result. A malformed req or a computation error is reported as
// {"error": "..."} rather than a Go error, matching the other *JSON
// siblings below.
func CalculateIOBJSON(req []byte) ([]byte, error) {
	var r IOBRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return marshalError(err)
	}
	resp, err := CalculateIOB(r)
	if err != nil {
		return marshalError(err)
	}
	return json.Marshal(resp)
}

// CalculateCOBJSON unmarshals req, calls CalculateCOB, and marshals the
// result.
func CalculateCOBJSON(req []byte) ([]byte, error) {
	var r COBRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return marshalError(err)
	}
	resp, err := CalculateCOB(r)
	if err != nil {
		return marshalError(err)
	}
	return json.Marshal(resp)
}

// CalculateAutosensJSON unmarshals req, calls CalculateAutosens, and
// marshals the result.
func CalculateAutosensJSON(req []byte) ([]byte, error) {
	var r AutosensRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return marshalError(err)
	}
	resp, err := CalculateAutosens(r)
	if err != nil {
		return marshalError(err)
	}
	return json.Marshal(resp)
}

// DetermineBasalJSON unmarshals req, calls DetermineBasal, and marshals
// the result.
func DetermineBasalJSON(req []byte) ([]byte, error) {
	var r DetermineBasalRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return marshalError(err)
	}
	resp, err := DetermineBasal(r)
	if err != nil {
		return marshalError(err)
	}
	return json.Marshal(resp)
}

// CalculateGlucoseStatusJSON unmarshals req, calls
// CalculateGlucoseStatus, and marshals the result.
func CalculateGlucoseStatusJSON(req []byte) ([]byte, error) {
	var r GlucoseStatusRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return marshalError(err)
	}
	resp, err := CalculateGlucoseStatus(r)
	if err != nil {
		return marshalError(err)
	}
	return json.Marshal(resp)
}

// HealthCheckJSON marshals the result of HealthCheck. It takes no
// request body; the parameter exists only so every boundary function
// has a uniform *JSON signature for a host dispatcher to call through.
func HealthCheckJSON([]byte) ([]byte, error) {
	return json.Marshal(HealthCheck())
}

// VersionJSON marshals the result of Version.
func VersionJSON([]byte) ([]byte, error) {
	return json.Marshal(Version())
}
