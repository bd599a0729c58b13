package services

import (
	"context"
	"fmt"

	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// UserCounter is the interface that wraps the user aggregate needed for stats
type UserCounter interface {
	// Method Count returns the total number of registered users.
	Count(ctx context.Context) (int, error)
	// Method GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// ItemAggregator is the interface that wraps the item aggregates needed for stats
type ItemAggregator interface {
	// Method Count returns the total number of inventory items.
	Count(ctx context.Context) (int, error)
	// Method TotalValue returns the sum of quantity times price over all items.
	TotalValue(ctx context.Context) (float64, error)
}

// adminService computes system-wide aggregates for administrators
type adminService struct {
	userRepo UserCounter
	itemRepo ItemAggregator
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo UserCounter, itemRepo ItemAggregator, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// GetStats returns system-wide totals. The actor's role is re-read from
// storage, so a stale admin claim in a token does not grant access.
func (s *adminService) GetStats(ctx context.Context, actorID int) (*models.SystemStats, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalItems, err := s.itemRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	totalValue, err := s.itemRepo.TotalValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total value: %w", err)
	}

	return &models.SystemStats{
		TotalUsers:   totalUsers,
		TotalItems:   totalItems,
		TotalValue:   totalValue,
		SystemHealth: "Healthy",
	}, nil
}
