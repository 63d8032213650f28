package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents the account type chosen at signup
type Role string

const (
	RoleClient       Role = "client"
	RolePhotographer Role = "photographer"
)

// User represents a user account (matches users table)
type User struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Role         Role           `db:"role"`
	Specialty    sql.NullString `db:"specialty"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsClient returns true if user books photographers
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsPhotographer returns true if user offers photography services
func (u *User) IsPhotographer() bool {
	return u.Role == RolePhotographer
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	return role == string(RoleClient) || role == string(RolePhotographer)
}
