package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-panel-api/internal/adapter/gin/response"
	authuc "admin-panel-api/internal/usecase/auth"
	"admin-panel-api/pkg/auth"
	pkgerrors "admin-panel-api/pkg/errors"
)

// AuthUsecase is the authentication surface the handler calls.
type AuthUsecase interface {
	Login(ctx context.Context, in authuc.LoginRequest) (*authuc.LoginResponse, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	uc  AuthUsecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc AuthUsecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// LoginRequest represents the HTTP request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the identity payload attached to a login response
type LoginUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// LoginResponse represents the HTTP response for a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      LoginUser `json:"user"`
}

// MeResponse echoes the identity carried by the access token
type MeResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid login request", zap.Error(err))
		response.Error(c, pkgerrors.NewValidationError("body", err.Error()))
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), authuc.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, "login successful", LoginResponse{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User: LoginUser{
			ID:     resp.User.ID,
			Name:   resp.User.Name,
			Email:  resp.User.Email,
			Role:   resp.User.Role,
			Status: resp.User.Status,
		},
	})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c.Request.Context())
	if !ok {
		response.AbortWith(c, http.StatusUnauthorized, pkgerrors.CodeUnauthorized, "authentication required")
		return
	}

	response.OK(c, "authenticated", MeResponse{
		ID:    principal.UserID,
		Email: principal.Email,
		Role:  principal.Role,
	})
}
