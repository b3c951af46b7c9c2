package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/logger"
	"carteira/internal/middleware"
	"carteira/internal/models"
	"carteira/internal/services"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Login           string `json:"login" binding:"required,login"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateLoginRequest represents the login change payload
type UpdateLoginRequest struct {
	Login string `json:"login" binding:"required,login"`
}

// UpdatePasswordRequest represents the password change payload
type UpdatePasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// AuthResponse represents the authentication response with tokens
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Login: user.Login}
}

// issueTokens generates an access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issueTokens(user *models.User) (*AuthResponse, error) {
	access, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refresh, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refresh)); err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: access, RefreshToken: refresh, User: toUserResponse(user)}, nil
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with login and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and tokens generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Login already taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Login, req.Password, req.ConfirmPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditRegister, "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, resp)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get tokens
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and tokens generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     423 {object} ErrorResponse "Account locked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Login, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a refresh token for a new token pair. The previous
// refresh token stops working.
// @Summary     Refresh tokens
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} AuthResponse "New tokens"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid refresh token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	stored, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || stored == "" || stored != middleware.HashToken(req.RefreshToken) {
		logger.Get().Infow("refresh token rejected", "user_id", claims.UserID)
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(uc.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// UpdateLogin changes the caller's login. Tokens carry the login, so a fresh
// pair is issued and the previous refresh token stops working.
// @Summary     Change login
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateLoginRequest true "New login"
// @Success     200 {object} AuthResponse "Updated profile and new tokens"
// @Failure     400 {object} ErrorResponse "Invalid input or same login"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Login already taken"
// @Router      /profile/login [put]
func (h *AuthHandler) UpdateLogin(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.RenameUser(uc.UserID, req.Login)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditRename, "user", uc.UserID, c.ClientIP(),
		map[string]interface{}{"from": uc.Login, "to": user.Login})

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdatePassword changes the caller's password and revokes refresh tokens
// @Summary     Change password
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePasswordRequest true "New password"
// @Success     204 "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input or mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/password [put]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(uc.UserID, req.Password, req.ConfirmPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditChangePassword, "user", uc.UserID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// Logout revokes the caller's refresh token
// @Summary     Log out
// @Tags        auth
// @Security    BearerAuth
// @Success     204 "Refresh token revoked"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.StoreRefreshTokenHash(uc.UserID, ""); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditLogout, "user", uc.UserID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
