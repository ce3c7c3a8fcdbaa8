package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"admin-panel-api/internal/domain/user"
	pkgerrors "admin-panel-api/pkg/errors"
	"admin-panel-api/pkg/security"
)

// UserRepo implements the user repository on top of GORM.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"not null;size:100"`
	Email        string `gorm:"not null;uniqueIndex;size:255"`
	Role         string `gorm:"not null;size:16;index"`
	Status       string `gorm:"not null;size:16;index"`
	PasswordHash string `gorm:"size:72"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toUserModel(u *user.User) UserSchema {
	return UserSchema{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Status:       string(u.Status),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUserDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         user.Role(m.Role),
		Status:       user.Status(m.Status),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toUserModel(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update updates an existing user in the database.
func (r *UserRepo) Update(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toUserModel(u)

	res := r.db.WithContext(ctx).Save(&model)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return 0, fmt.Errorf("failed to update user: %w", res.Error)
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Delete removes a user from the database by ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, pkgerrors.NewValidationError("id", "invalid user id")
	}

	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return 0, fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("user not found for delete", zap.Int64("id", id))
		return 0, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return id, nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserDomain(&model), nil
}

// GetByEmail retrieves a user by email, returning (nil, nil) when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUserDomain(&model), nil
}

// List retrieves users with pagination, search and role/status filtering,
// returning the page plus the total number of matching records.
func (r *UserRepo) List(ctx context.Context, f user.Filter) ([]user.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&UserSchema{})

	if f.Query != "" {
		vetted, err := security.ValidateSearchQuery(f.Query)
		if err != nil {
			r.log.Warn("rejected user search query", zap.String("query", f.Query), zap.Error(err))
			return nil, 0, pkgerrors.NewValidationError("query", err.Error())
		}
		pattern := "%" + strings.ToLower(security.SanitizeSearchString(vetted)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if f.Role != "" {
		tx = tx.Where("role = ?", string(f.Role))
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.log.Error("failed to count users in db", zap.Error(err), zap.String("query", f.Query))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	if err := tx.Order("id").Offset(int((f.Page - 1) * f.Limit)).Limit(int(f.Limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("query", f.Query), zap.Int64("page", f.Page), zap.Int64("limit", f.Limit))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]user.User, len(models))
	for i := range models {
		items[i] = *toUserDomain(&models[i])
	}

	return items, total, nil
}
