package models

import (
	"encoding/json"
	"time"
)

type Role int

// User role constants
const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

// ParseRole maps the wire representation of a role to its internal value.
// Anything other than "ADMIN" falls back to the regular user role.
func ParseRole(s string) Role {
	if s == "ADMIN" {
		return RoleAdmin
	}
	return RoleUser
}

// String returns the wire representation of the role
func (r Role) String() string {
	if r == RoleAdmin {
		return "ADMIN"
	}
	return "USER"
}

// MarshalJSON serializes roles as "USER"/"ADMIN" strings
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts "USER"/"ADMIN" strings
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// User represents a registered account.
// PasswordHash is empty for accounts created without credentials (demo login
// or an external identity provider).
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the owner information embedded in item responses
type UserSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "USER" (default) or "ADMIN"
}

// LoginRequest represents a sign-in request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
