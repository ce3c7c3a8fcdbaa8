package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "admin-panel-api/internal/domain/user"
	"admin-panel-api/pkg/auth"
	"admin-panel-api/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// UserRepository is the slice of the user repository needed for sign-in.
// GetByEmail returns (nil, nil) when no account carries the email.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Usecase implements the sign-in flow: credential check and token issuance.
type Usecase struct {
	repo     UserRepository
	tokens   *auth.Manager
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new auth usecase.
func New(repo UserRepository, tokens *auth.Manager, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, tokens: tokens, log: log, validate: validator.New()}
}

// Login verifies the credentials and mints an access token. Every failure
// mode returns the same unauthorized error so callers cannot probe which
// emails exist.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("login validate failed", zap.Error(err))
		return nil, errors.NewValidationError("", "email and password are required")
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to look up user for login", zap.String("email", in.Email), zap.Error(err))
		return nil, errors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		uc.log.Warn("login with unknown email", zap.String("email", in.Email))
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if !u.CanLogin() {
		uc.log.Warn("login rejected for inactive account", zap.Int64("id", u.ID), zap.String("status", string(u.Status)))
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		uc.log.Warn("login with wrong password", zap.Int64("id", u.ID))
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	token, expiresAt, err := uc.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		uc.log.Error("failed to issue token", zap.Int64("id", u.ID), zap.Error(err))
		return nil, errors.NewInternalError("failed to issue token", err)
	}

	uc.log.Info("user logged in", zap.Int64("id", u.ID), zap.String("role", string(u.Role)))

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: User{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   string(u.Role),
			Status: string(u.Status),
		},
	}, nil
}
