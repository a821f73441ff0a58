package model

import (
	"slices"
	"time"
)

// Role names a permission group assigned to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleRoot  Role = "root"
)

// Address is a postal shipping address.
type Address struct {
	Country    string
	City       string
	Street     string
	PostalCode string
}

// IsZero reports whether no address field is filled.
func (a Address) IsZero() bool {
	return a == Address{}
}

// User represents a registered customer or operator.
type User struct {
	ID              int64
	Login           string
	PasswordHash    string
	Roles           []Role
	ShippingAddress *Address
	CreatedAt       time.Time
}

// HasRole reports whether the user carries the role.
func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// Requester is the authenticated caller of a workflow operation.
type Requester struct {
	UserID int64
	Login  string
	Roles  []Role
}

// NewRequester builds a requester from a loaded user.
func NewRequester(u *User) Requester {
	return Requester{UserID: u.ID, Login: u.Login, Roles: slices.Clone(u.Roles)}
}

// Elevated reports whether the requester may act on behalf of other users.
func (r Requester) Elevated() bool {
	return slices.Contains(r.Roles, RoleAdmin) || slices.Contains(r.Roles, RoleRoot)
}
