package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("encode json response failed", zap.Error(err))
	}
}

// WriteMessage writes {"error": message}.
func WriteMessage(logger *zap.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, map[string]string{"error": message})
}

// WriteError maps domain errors onto HTTP statuses. Unknown errors are logged and hidden.
func WriteError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		WriteMessage(logger, w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteMessage(logger, w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, domain.ErrNotFound):
		WriteMessage(logger, w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrForbidden):
		WriteMessage(logger, w, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteMessage(logger, w, http.StatusConflict, "A business with this email is already registered")
	default:
		if logger != nil {
			logger.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		WriteMessage(logger, w, http.StatusInternalServerError, "Internal server error")
	}
}
