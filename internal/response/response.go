// Package response writes the JSON envelope every endpoint returns.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
)

type Envelope struct {
	Success bool                   `json:"success"`
	Data    any                    `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, code int, data any) {
	write(w, code, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, code int, message string, details ...apperrors.FieldError) {
	write(w, code, Envelope{Success: false, Error: message, Details: details})
}

// FromError classifies err and writes the matching status. Server-side
// failures are logged; their message is hidden in production, and conflicts
// always surface as a generic failure.
func FromError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, production bool) {
	message := "Internal server error"
	var details []apperrors.FieldError

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message, details = appErr.Message, appErr.Details
	}

	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		log.WithContext(r.Context()).Error("Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		if production || kind == apperrors.KindConflict || appErr == nil {
			message = "Internal server error"
		}
	}

	Error(w, status, message, details...)
}

func write(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
