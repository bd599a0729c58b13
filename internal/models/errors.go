package models

import "errors"

// Stable error kinds surfaced by repositories and services. Handlers map each
// kind to a status code with errors.Is, so messages can change without
// breaking the boundary layer.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrItemNotFound       = errors.New("inventory item not found")
	ErrForbidden          = errors.New("permission denied")
	ErrDuplicateSKU       = errors.New("sku already exists")

	// ErrStorageUnavailable marks connection-level database failures, kept
	// distinct from generic internal errors so operators get an actionable
	// message instead of a blanket 500.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
