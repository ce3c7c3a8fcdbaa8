package user

import "time"

// Role is the permission level of a panel user.
type Role string

// Panel user roles, ordered from most to least privileged.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Status is the account state of a panel user.
type Status string

// Panel user account states.
const (
	StatusActive    Status = "active"
	StatusInvited   Status = "invited"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is a known user status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInvited, StatusSuspended:
		return true
	}
	return false
}

// User represents a panel user account.
type User struct {
	ID           int64     // ID is the unique identifier for the user
	Name         string    // Name is the full name of the user
	Email        string    // Email is the unique email address of the user
	Role         Role      // Role is the permission level
	Status       Status    // Status is the account state
	PasswordHash string    // PasswordHash is the bcrypt hash; empty for users who never sign in
	CreatedAt    time.Time // CreatedAt is when the account was created
	UpdatedAt    time.Time // UpdatedAt is when the account was last modified
}

// CanLogin reports whether the account may authenticate to the panel.
func (u *User) CanLogin() bool {
	return u.Status == StatusActive && u.PasswordHash != ""
}

// Filter narrows a user listing.
type Filter struct {
	Query  string // Query matches name or email, case-insensitive
	Role   Role   // Role filters by permission level; empty means any
	Status Status // Status filters by account state; empty means any
	Page   int64  // Page is the 1-based page number
	Limit  int64  // Limit is the page size
}
