package authz

import (
	"testing"

	"github.com/stocktrail/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name      string
		actorRole models.Role
		actorID   int
		ownerID   int
		action    Action
		expected  bool
	}{
		{
			name:      "user reads own item",
			actorRole: models.RoleUser,
			actorID:   1,
			ownerID:   1,
			action:    ActionRead,
			expected:  true,
		},
		{
			name:      "user reads foreign item",
			actorRole: models.RoleUser,
			actorID:   1,
			ownerID:   2,
			action:    ActionRead,
			expected:  false,
		},
		{
			name:      "user updates own item",
			actorRole: models.RoleUser,
			actorID:   7,
			ownerID:   7,
			action:    ActionUpdate,
			expected:  true,
		},
		{
			name:      "user updates foreign item",
			actorRole: models.RoleUser,
			actorID:   7,
			ownerID:   8,
			action:    ActionUpdate,
			expected:  false,
		},
		{
			name:      "user deletes foreign item",
			actorRole: models.RoleUser,
			actorID:   7,
			ownerID:   8,
			action:    ActionDelete,
			expected:  false,
		},
		{
			name:      "admin reads foreign item",
			actorRole: models.RoleAdmin,
			actorID:   1,
			ownerID:   99,
			action:    ActionRead,
			expected:  true,
		},
		{
			name:      "admin updates foreign item",
			actorRole: models.RoleAdmin,
			actorID:   1,
			ownerID:   99,
			action:    ActionUpdate,
			expected:  true,
		},
		{
			name:      "admin deletes foreign item",
			actorRole: models.RoleAdmin,
			actorID:   1,
			ownerID:   99,
			action:    ActionDelete,
			expected:  true,
		},
		{
			name:      "unknown role denied even on matching owner",
			actorRole: models.Role(0),
			actorID:   5,
			ownerID:   5,
			action:    ActionRead,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccess(tt.actorRole, tt.actorID, tt.ownerID, tt.action)
			assert.Equal(t, tt.expected, got)
		})
	}
}
