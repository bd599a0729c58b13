package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/backend/internal/middleware"
	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for administrative reporting.
type AdminService interface {
	// Method GetStats returns system-wide totals for administrators.
	//
	// models.ErrForbidden is returned when the stored role of the acting user is not admin.
	GetStats(ctx context.Context, actorID int) (*models.SystemStats, error)
}

// AdminHandler handles HTTP requests for administrative reporting
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all admin handler routes. The role middleware is a
// pre-filter on token claims; the service re-checks the stored role.
func (h *AdminHandler) RegisterRoutes(r chi.Router, adminMW func(http.Handler) http.Handler) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(adminMW)
		r.Get("/stats", h.GetStats)
	})
}

// GetStats handles GET /api/v1/admin/stats
// @Summary System statistics
// @Description Return user and inventory totals; admin only
// @Tags admin
// @Produce json
// @Success 200 {object} models.SystemStats
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.service.GetStats(r.Context(), actorID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}
