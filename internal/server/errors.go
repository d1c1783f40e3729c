// internal/server/errors.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/device"
	"github.com/tamzrod/ntc-dashboard/internal/mask"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, configsync.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, channel.ErrUnknownChannel):
		return http.StatusNotFound
	case errors.Is(err, mask.ErrMaskOverflow),
		errors.Is(err, configsync.ErrInvalidRecord),
		errors.Is(err, telemetry.ErrInvalidTickShape),
		errors.Is(err, telemetry.ErrInvalidSample):
		return http.StatusUnprocessableEntity
	case errors.Is(err, device.ErrConfigLoad):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Message: message, Status: statusCode}); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
