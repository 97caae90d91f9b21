// Package models defines the persistent record types used by the server.
package models

import "time"

// User roles. MEMBER users only see their own files, ADMIN users see all.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// User is an identity record. Password holds the salted digest in
// "salt$hash" form and is never serialized to clients.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
