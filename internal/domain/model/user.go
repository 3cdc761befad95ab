package model

import (
	"time"
)

const (
	RoleOwner  = "owner"
	RoleSeeker = "seeker"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the registrable roles.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleSeeker
}

// OwnerSummary is the subset of a User populated into listed books.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
