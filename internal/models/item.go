package models

import "time"

// InventoryItem represents an inventory record owned by a single user.
// OwnerID is assigned on creation and never changes.
type InventoryItem struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Quantity    int         `json:"quantity"`
	Price       float64     `json:"price"`
	Category    string      `json:"category"`
	SKU         string      `json:"sku"`
	OwnerID     int         `json:"ownerId"`
	Owner       UserSummary `json:"owner"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CreateItemRequest carries the user-supplied fields for item creation.
// The owner is always taken from the authenticated actor, never from the payload.
type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	SKU         string  `json:"sku"`
}

// UpdateItemRequest is a merge patch for an item. Pointer fields distinguish
// "not supplied" from "explicitly set", so only supplied fields are written.
type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	SKU         *string  `json:"sku"`
}

// Empty reports whether the patch carries no fields at all
func (r *UpdateItemRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Quantity == nil &&
		r.Price == nil && r.Category == nil && r.SKU == nil
}
