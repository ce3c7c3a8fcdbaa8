package auth

import "time"

// LoginRequest represents the credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResponse carries the minted token and the authenticated user.
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// User is the slim identity payload returned by login.
type User struct {
	ID     int64
	Name   string
	Email  string
	Role   string
	Status string
}
