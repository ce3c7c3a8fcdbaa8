package user

import (
	"time"

	"admin-panel-api/internal/domain/listing"
)

// CreateUserRequest carries the fields accepted when creating a user. Role
// and status fall back to viewer/invited when empty; a password is only
// needed for accounts that will sign in.
type CreateUserRequest struct {
	Name     string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,email"`
	Role     string `validate:"omitempty,oneof=admin editor viewer"`
	Status   string `validate:"omitempty,oneof=active invited suspended"`
	Password string `validate:"omitempty,min=8,max=72"`
}

// CreateUserResponse returns the assigned ID.
type CreateUserResponse struct {
	ID int64
}

// UpdateUserRequest updates an existing user. Zero-valued fields are left
// unchanged.
type UpdateUserRequest struct {
	ID       int64  `validate:"required"`
	Name     string `validate:"omitempty,min=3,max=100"`
	Email    string `validate:"omitempty,email"`
	Role     string `validate:"omitempty,oneof=admin editor viewer"`
	Status   string `validate:"omitempty,oneof=active invited suspended"`
	Password string `validate:"omitempty,min=8,max=72"`
}

// UpdateUserResponse returns the updated ID.
type UpdateUserResponse struct {
	ID int64
}

// DeleteUserRequest names the user to remove.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse returns the removed ID.
type DeleteUserResponse struct {
	ID int64
}

// GetUserRequest names the user to fetch.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse wraps a single user.
type GetUserResponse struct {
	User User
}

// ListUsersRequest selects a page of users with optional search and
// role/status filters.
type ListUsersRequest struct {
	Query  string
	Role   string `validate:"omitempty,oneof=admin editor viewer"`
	Status string `validate:"omitempty,oneof=active invited suspended"`
	Page   int64
	Limit  int64
}

// ListUsersResponse is one page of users plus the paging block.
type ListUsersResponse struct {
	Users      []User
	Pagination *listing.Pagination
}

// User is the outbound user shape. The password hash never leaves the
// usecase layer.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
