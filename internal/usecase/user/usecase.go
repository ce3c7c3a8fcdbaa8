package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"admin-panel-api/internal/domain/listing"
	domain "admin-panel-api/internal/domain/user"
	"admin-panel-api/pkg/auth"
	"admin-panel-api/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// GetByEmail returns (nil, nil) when no account carries the email; List
// returns the page plus the total number of matching records.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error)
}

// Usecase implements the business logic for user management operations.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a typed validation error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		field := ""
		if len(validationErrors) == 1 {
			field = validationErrors[0].Field()
		}
		return errors.NewValidationError(field, strings.Join(messages, ", "))
	}
	return err
}

// CreateUser creates a new user after validating the request and checking email uniqueness.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = string(domain.RoleViewer)
	}
	if in.Status == "" {
		in.Status = string(domain.StatusInvited)
	}

	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email), zap.String("role", in.Role))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existingUser, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, errors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existingUser != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, errors.NewAlreadyExistsError("user", "email already exists")
	}

	var passwordHash string
	if in.Password != "" {
		passwordHash, err = auth.HashPassword(in.Password)
		if err != nil {
			uc.log.Error("failed to hash password", zap.Error(err))
			return nil, errors.NewInternalError("failed to hash password", err)
		}
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         domain.Role(in.Role),
		Status:       domain.Status(in.Status),
		PasswordHash: passwordHash,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &CreateUserResponse{ID: id}, nil
}

// UpdateUser applies a partial update to an existing user. Zero-valued request
// fields leave the stored value unchanged.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	if in.Email != "" {
		in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}

	uc.log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	if in.Email != "" && in.Email != current.Email {
		existingUser, err := uc.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return nil, errors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existingUser != nil && existingUser.ID != in.ID {
			uc.log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existingUser.ID))
			return nil, errors.NewAlreadyExistsError("user", "email already exists")
		}
		current.Email = in.Email
	}

	if in.Name != "" {
		current.Name = in.Name
	}
	if in.Role != "" {
		current.Role = domain.Role(in.Role)
	}
	if in.Status != "" {
		current.Status = domain.Status(in.Status)
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			uc.log.Error("failed to hash password", zap.Error(err))
			return nil, errors.NewInternalError("failed to hash password", err)
		}
		current.PasswordHash = hash
	}

	id, err := uc.repo.Update(ctx, current)
	if err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateUserResponse{ID: id}, nil
}

// DeleteUser deletes a user after validating the user ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		uc.log.Warn("delete user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, errors.NewValidationError("id", "invalid user id")
	}

	id, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{ID: id}, nil
}

// GetUser retrieves a user by ID after validating the request.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	if in.ID <= 0 {
		uc.log.Warn("get user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, errors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &GetUserResponse{User: toUserDTO(u)}, nil
}

// ListUsers retrieves a paginated list of users with optional search and
// role/status filtering.
func (uc *Usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	in.Page, in.Limit = listing.Clamp(in.Page, in.Limit)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	uc.log.Info("listing users",
		zap.String("query", in.Query),
		zap.String("role", in.Role),
		zap.String("status", in.Status),
		zap.Int64("page", in.Page),
		zap.Int64("limit", in.Limit),
	)

	items, total, err := uc.repo.List(ctx, domain.Filter{
		Query:  in.Query,
		Role:   domain.Role(in.Role),
		Status: domain.Status(in.Status),
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		uc.log.Error("failed to list users",
			zap.String("query", in.Query),
			zap.Int64("page", in.Page),
			zap.Int64("limit", in.Limit),
			zap.Error(err),
		)
		return nil, err
	}

	users := make([]User, len(items))
	for i := range items {
		users[i] = toUserDTO(&items[i])
	}

	return &ListUsersResponse{
		Users:      users,
		Pagination: listing.NewPagination(total, in.Page, in.Limit),
	}, nil
}

// toUserDTO maps a domain user onto the transfer shape, dropping the password hash.
func toUserDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
