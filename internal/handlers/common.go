package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"consoul-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondDomainError maps domain errors to HTTP status codes
func respondDomainError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, models.ErrNotAuthorized):
		statusCode = http.StatusForbidden
	case errors.Is(err, models.ErrAlreadyPaired),
		errors.Is(err, models.ErrSelfPair),
		errors.Is(err, models.ErrInvalidTransition):
		statusCode = http.StatusConflict
	case errors.Is(err, models.ErrNotPaired),
		errors.Is(err, models.ErrInvalidParticipant),
		errors.Is(err, models.ErrInvalidEmotion),
		errors.Is(err, models.ErrValidationFailed):
		statusCode = http.StatusUnprocessableEntity
	}
	respondError(w, err.Error(), statusCode)
}
