package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-panel-api/internal/adapter/gin/response"
	"admin-panel-api/internal/usecase/user"
	pkgerrors "admin-panel-api/pkg/errors"
)

// UserUsecase is the user operation surface the handler calls.
type UserUsecase interface {
	CreateUser(ctx context.Context, in user.CreateUserRequest) (*user.CreateUserResponse, error)
	GetUser(ctx context.Context, in user.GetUserRequest) (*user.GetUserResponse, error)
	UpdateUser(ctx context.Context, in user.UpdateUserRequest) (*user.UpdateUserResponse, error)
	DeleteUser(ctx context.Context, in user.DeleteUserRequest) (*user.DeleteUserResponse, error)
	ListUsers(ctx context.Context, in user.ListUsersRequest) (*user.ListUsersResponse, error)
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Items      []UserResponse       `json:"items"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		response.Error(c, pkgerrors.NewValidationError("body", err.Error()))
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("create user failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Created(c, "user created", gin.H{"id": resp.ID})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.log.Warn("get user failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "user retrieved", toUserResponse(resp.User))
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Error(err))
		response.Error(c, pkgerrors.NewValidationError("body", err.Error()))
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("update user failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "user updated", gin.H{"id": resp.ID})
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, h.log)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.log.Warn("delete user failed", zap.Int64("id", id), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "user deleted", gin.H{"id": resp.ID})
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePageParams(c)

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Query:  c.DefaultQuery("query", ""),
		Role:   c.DefaultQuery("role", ""),
		Status: c.DefaultQuery("status", ""),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.log.Warn("list users failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		items[i] = toUserResponse(u)
	}

	var pagination *response.Pagination
	if resp.Pagination != nil {
		pagination = &response.Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	response.OK(c, "users retrieved", ListUsersResponse{
		Items:      items,
		Pagination: pagination,
	})
}
