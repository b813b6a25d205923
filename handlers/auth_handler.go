package handlers

import (
	"errors"
	"net/http"

	"imobiliaria-backend/middleware"
	"imobiliaria-backend/models"
	"imobiliaria-backend/repository"
	"imobiliaria-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication and the user
// profile
type AuthHandler struct {
	authService *service.AuthService
	userRepo    *repository.UserRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			respondError(c, http.StatusBadRequest, "CONFLICT", "Username or email already registered")
			return
		}
		respondError(c, http.StatusInternalServerError, "REGISTER_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the request body for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token handles POST /api/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	pair, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect username or password")
			return
		}
		// Database failures must not leak internals on the login path
		respondError(c, http.StatusInternalServerError, "AUTH_FAILED", "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RefreshRequest represents the request body for token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RefreshToken handles POST /api/auth/token/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid refresh token")
			return
		}
		respondError(c, http.StatusInternalServerError, "AUTH_FAILED", "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// GetUser handles GET /api/auth/user
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "MISSING_USER_CONTEXT", "User context not found")
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondRepoError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserRequest represents the request body for a profile update
type UpdateUserRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateUser handles PUT /api/auth/user
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "MISSING_USER_CONTEXT", "User context not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := &models.User{
		ID:        userID,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.userRepo.UpdateProfile(c.Request.Context(), user); err != nil {
		respondRepoError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "MISSING_USER_CONTEXT", "User context not found")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			respondError(c, http.StatusBadRequest, "WRONG_PASSWORD", "Old password does not match")
			return
		}
		respondRepoError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
