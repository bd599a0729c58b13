package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/backend/internal/middleware"
	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// InventoryService is the interface that wraps methods for inventory business logic.
type InventoryService interface {
	// Method List returns the items visible to the acting user.
	//
	// Admins receive every item, other users only their own, newest first.
	List(ctx context.Context, actorID int) ([]models.InventoryItem, error)
	// Method Get returns a single item if the acting user may read it.
	//
	// models.ErrForbidden is returned when the item belongs to another user.
	Get(ctx context.Context, actorID, itemID int) (*models.InventoryItem, error)
	// Method Create validates the input and stores a new item owned by the acting user.
	//
	// Validation failures are returned as validation.Errors; a SKU collision as models.ErrDuplicateSKU.
	Create(ctx context.Context, actorID int, req *models.CreateItemRequest) (*models.InventoryItem, error)
	// Method Update applies a partial update to an item the acting user may modify.
	//
	// Absent fields keep their stored values.
	Update(ctx context.Context, actorID, itemID int, patch *models.UpdateItemRequest) (*models.InventoryItem, error)
	// Method Delete removes an item the acting user may modify.
	Delete(ctx context.Context, actorID, itemID int) error
}

// InventoryHandler handles HTTP requests for inventory items
type InventoryHandler struct {
	BaseHandler
	service InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all inventory handler routes behind the auth middleware
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/v1/inventory
// @Summary List inventory items
// @Description List the items visible to the signed-in user; admins see all items
// @Tags inventory
// @Produce json
// @Success 200 {array} models.InventoryItem
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.service.List(r.Context(), actorID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/v1/inventory/{id}
// @Summary Get an inventory item
// @Description Get a single item by ID if the signed-in user may read it
// @Tags inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.InventoryItem
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/inventory/{id} [get]
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := h.itemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.service.Get(r.Context(), actorID, itemID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// Create handles POST /api/v1/inventory
// @Summary Create an inventory item
// @Description Create a new item owned by the signed-in user
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body models.CreateItemRequest true "Item data"
// @Success 201 {object} models.InventoryItem
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /api/v1/inventory/{id}
// @Summary Update an inventory item
// @Description Apply a partial update; absent fields keep their stored values
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body models.UpdateItemRequest true "Fields to change"
// @Success 200 {object} models.InventoryItem
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/inventory/{id} [patch]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := h.itemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var patch models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), actorID, itemID, &patch)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/inventory/{id}
// @Summary Delete an inventory item
// @Description Remove an item the signed-in user may modify
// @Tags inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/inventory/{id} [delete]
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := h.itemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.service.Delete(r.Context(), actorID, itemID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// itemID parses the {id} route parameter
func (h *InventoryHandler) itemID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
