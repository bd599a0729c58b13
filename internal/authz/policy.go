// Package authz holds the pure allow/deny policy for item access.
package authz

import "github.com/stocktrail/backend/internal/models"

// Action is an operation on an existing inventory item. Creation has no
// target owner to compare against and therefore no policy action: any
// authenticated actor may create, and the new item's owner is forced to the
// actor's ID.
type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
)

// CanAccess decides whether an actor may perform an action on an item owned
// by ownerID. Admins may act on any item, regular users only on their own,
// any other role on nothing. List scoping follows the same rule: admins see
// every item, users only items whose owner equals their ID.
func CanAccess(actorRole models.Role, actorID, ownerID int, _ Action) bool {
	switch actorRole {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return actorID == ownerID
	default:
		return false
	}
}
