package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stocktrail/backend/internal/models"
	"github.com/stocktrail/backend/internal/validation"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes. Unrecognized
// errors are logged and reported as a generic 500 so internals never leak.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		h.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrUserExists):
		h.respondError(w, http.StatusBadRequest, "user already exists")
	case errors.Is(err, models.ErrUserNotFound):
		h.respondError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, models.ErrItemNotFound):
		h.respondError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, models.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, models.ErrDuplicateSKU):
		h.respondError(w, http.StatusConflict, "sku already in use")
	case errors.Is(err, models.ErrStorageUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
