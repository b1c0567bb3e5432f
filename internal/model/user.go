package model

import (
	"strings"
	"time"
)

// UserID uniquely identifies an authenticated user
type UserID string

// Role decides which entries a user can see and whether the admin views are open
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserProfile is the public identity of a scout
type UserProfile struct {
	UID       UserID
	Email     string
	Name      string
	Surname   string
	Role      Role
	CreatedAt time.Time
}

// DisplayName is the name attributed to the user's scouting entries
func (u *UserProfile) DisplayName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// IsAdmin reports whether the user holds the admin role
func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials holds login data for a user.
// Stored apart from the profile so password hashes never travel with it.
type Credentials struct {
	UID          UserID
	Email        string // lowercased, unique
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
