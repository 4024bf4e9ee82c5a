package model

import "time"

// Role identifies what a participant is allowed to do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
	// RoleAdmin is never created through the API; admin accounts are
	// provisioned directly in the store.
	RoleAdmin Role = "admin"
)

// ParseRole validates a role supplied at registration time.
// Admin is deliberately not registrable.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleCourier:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated identity attached to every request.
type Actor struct {
	ID   int64
	Role Role
}

// User represents a registered participant of the delivery platform.
type User struct {
	ID           int64
	Name         string
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
