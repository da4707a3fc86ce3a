// Package web holds the shared response envelope and the service error type.
// Every response body carries a statusCode field that always equals the HTTP
// status of the response.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// WriteSuccess writes the success envelope. Extra keys (data, userId, ...)
// are merged alongside successMsg and statusCode.
func WriteSuccess(w http.ResponseWriter, status int, msg string, extra map[string]any) {
	body := map[string]any{
		"successMsg": msg,
		"statusCode": status,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// WriteError maps a service error onto the error envelope. A *Error carries
// its own kind; anything else is an internal fault, which is recorded to the
// log before being reported with the underlying message.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Kind)
		body := map[string]any{
			"errorMsg":   appErr.Msg,
			"statusCode": status,
		}
		for k, v := range appErr.Extra {
			body[k] = v
		}
		writeJSON(w, status, body)
		return
	}
	logger.Errorw("internal fault", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"errorMsg":   err.Error(),
		"statusCode": http.StatusInternalServerError,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadBody decodes a JSON request body into a raw field map so handlers can
// report exactly which required keys the caller forgot.
func ReadBody(r *http.Request) (map[string]json.RawMessage, *Error) {
	raw := map[string]json.RawMessage{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, BadRequest("Bad Request - Invalid JSON")
	}
	return raw, nil
}

// MissingKeys returns the required keys absent from the raw body, in the
// order required lists them.
func MissingKeys(raw map[string]json.RawMessage, required []string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Rebind unmarshals the raw field map into a typed request struct.
func Rebind(raw map[string]json.RawMessage, dst any) *Error {
	b, err := json.Marshal(raw)
	if err != nil {
		return BadRequest("Bad Request - Invalid JSON")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return BadRequest("Bad Request - Invalid JSON")
	}
	return nil
}
