package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
)

type errorBody struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	CurrentStatus   string `json:"current_status,omitempty"`
	AttemptedStatus string `json:"attempted_status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a domain error kind to an HTTP status. Anything that
// is not a domain error is a 500 and gets logged.
func writeError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Unhandled internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "INTERNAL",
			Message: "internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindInvalidState, domain.KindInvalidTransition, domain.KindConflict, domain.KindUnavailable:
		status = http.StatusConflict
	case domain.KindSelfBooking, domain.KindMissingEvidence:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorBody{
		Error:           string(de.Kind),
		Message:         de.Message,
		CurrentStatus:   de.CurrentStatus,
		AttemptedStatus: de.AttemptedStatus,
	})
}
