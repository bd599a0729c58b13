package services

import (
	"context"
	"fmt"

	"github.com/stocktrail/backend/internal/authz"
	"github.com/stocktrail/backend/internal/models"
	"github.com/stocktrail/backend/internal/validation"
	"go.uber.org/zap"
)

// ItemRepository is the interface that wraps methods for inventory item data access
type ItemRepository interface {
	// Method Create inserts a new inventory item.
	//
	// On a SKU collision models.ErrDuplicateSKU is returned.
	Create(ctx context.Context, item *models.InventoryItem) error
	// Method GetByID retrieves an item with its owner summary.
	//
	// If no item with such ID exists, models.ErrItemNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, itemID int) (*models.InventoryItem, error)
	// Method ListAll retrieves every item, newest first.
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	// Method ListByOwner retrieves the items of one owner, newest first.
	ListByOwner(ctx context.Context, ownerID int) ([]models.InventoryItem, error)
	// Method Update applies the present fields of "patch" to an item.
	//
	// When "ownerScope" is non-nil the write only matches rows owned by that
	// user; a non-matching row reports models.ErrItemNotFound.
	Update(ctx context.Context, itemID int, patch *models.UpdateItemRequest, ownerScope *int) error
	// Method Delete removes an item, optionally scoped to an owner like Update.
	Delete(ctx context.Context, itemID int, ownerScope *int) error
}

// inventoryService enforces ownership policy and validation around item storage
type inventoryService struct {
	itemRepo ItemRepository
	userRepo UserRepository
	logger   *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(itemRepo ItemRepository, userRepo UserRepository, logger *zap.Logger) *inventoryService {
	return &inventoryService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns the items visible to the actor: admins see every item, other
// users only their own
func (s *inventoryService) List(ctx context.Context, actorID int) ([]models.InventoryItem, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleAdmin {
		return s.itemRepo.ListAll(ctx)
	}
	return s.itemRepo.ListByOwner(ctx, actor.ID)
}

// Get returns a single item if the actor may read it
func (s *inventoryService) Get(ctx context.Context, actorID, itemID int) (*models.InventoryItem, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !authz.CanAccess(actor.Role, actor.ID, item.OwnerID, authz.ActionRead) {
		return nil, models.ErrForbidden
	}

	return item, nil
}

// Create validates the input and stores a new item owned by the actor
func (s *inventoryService) Create(ctx context.Context, actorID int, req *models.CreateItemRequest) (*models.InventoryItem, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if verrs := validation.ValidateCreate(req); len(verrs) > 0 {
		return nil, verrs
	}

	item := &models.InventoryItem{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Category:    req.Category,
		SKU:         req.SKU,
		OwnerID:     actor.ID,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	// Reload for database-assigned timestamps and the owner summary
	created, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created item: %w", err)
	}
	return created, nil
}

// Update applies a partial update to an item the actor may modify. Absent
// fields keep their stored values; an empty patch returns the item unchanged.
func (s *inventoryService) Update(ctx context.Context, actorID, itemID int, patch *models.UpdateItemRequest) (*models.InventoryItem, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !authz.CanAccess(actor.Role, actor.ID, item.OwnerID, authz.ActionUpdate) {
		return nil, models.ErrForbidden
	}

	if verrs := validation.ValidateUpdate(patch); len(verrs) > 0 {
		return nil, verrs
	}

	if patch.Empty() {
		return item, nil
	}

	// Non-admin writes stay owner-scoped so the check and the write cannot
	// disagree about ownership
	if err := s.itemRepo.Update(ctx, itemID, patch, s.ownerScope(actor)); err != nil {
		return nil, err
	}

	updated, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated item: %w", err)
	}
	return updated, nil
}

// Delete removes an item the actor may modify
func (s *inventoryService) Delete(ctx context.Context, actorID, itemID int) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	if !authz.CanAccess(actor.Role, actor.ID, item.OwnerID, authz.ActionDelete) {
		return models.ErrForbidden
	}

	return s.itemRepo.Delete(ctx, itemID, s.ownerScope(actor))
}

// actor loads the acting user so role decisions use stored state rather than
// token claims
func (s *inventoryService) actor(ctx context.Context, actorID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, actorID)
}

// ownerScope restricts writes to the actor's own rows unless the actor is an admin
func (s *inventoryService) ownerScope(actor *models.User) *int {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	return &actor.ID
}
