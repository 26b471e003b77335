package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"clementus360/focusflow/config"
	"clementus360/focusflow/dates"
	"clementus360/focusflow/planner"
	"clementus360/focusflow/types"

	"cloud.google.com/go/civil"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		config.Logger.Error("Failed to encode response: ", err)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	resp := types.ErrorResponse{
		Success:      false,
		ErrorMessage: message,
	}
	writeJSON(w, status, resp)
}

// statusFor maps planner errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrInvalidState), errors.Is(err, planner.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writePlannerError logs err and writes it with the matching status. Internal
// errors are not echoed to the client.
func writePlannerError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		config.Logger.Errorf("Failed to %s: %v", op, err)
		writeError(w, "Failed to "+op, status)
		return
	}
	config.Logger.Debugf("Rejected %s: %v", op, err)
	writeError(w, err.Error(), status)
}

// decodeJSON decodes the request body into v. Enum fields validate while
// decoding, so unknown values fail here.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *API) parseDate(s string) (civil.Date, error) {
	return dates.Parse(s, a.now())
}

// dateParam parses an optional query parameter. The bool reports presence.
func (a *API) dateParam(r *http.Request, name string) (civil.Date, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return civil.Date{}, false, nil
	}
	d, err := a.parseDate(raw)
	if err != nil {
		return civil.Date{}, false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, true, nil
}

// requiredDateParam is dateParam for parameters that must be present.
func (a *API) requiredDateParam(r *http.Request, name string) (civil.Date, error) {
	d, ok, err := a.dateParam(r, name)
	if err != nil {
		return civil.Date{}, err
	}
	if !ok {
		return civil.Date{}, fmt.Errorf("missing %s", name)
	}
	return d, nil
}
