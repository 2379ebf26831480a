package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/accounts-server/internal/api/http/middleware"
	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
)

// AuthService defines registration and credential-check operations.
type AuthService interface {
	Create(ctx context.Context, params model.CreateUserParams) (model.UserPublic, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

// Auth handles registration, login and token refresh endpoints.
type Auth struct {
	authService  AuthService
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

type registerRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=40"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
}

// Register creates a customer account from a public signup.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	user, err := h.authService.Create(c.Request.Context(), model.CreateUserParams{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
		Role:        model.RoleCustomer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User registered successfully", user)
}

// Login checks form credentials and issues an access token.
func (h *Auth) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "username and password are required"})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		respondError(c, err)
		return
	}

	access, err := h.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue token", "user_id", user.ID, "error", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Token{AccessToken: access, TokenType: "bearer"})
}

// Refresh issues a new access token for the authenticated caller.
func (h *Auth) Refresh(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	access, err := h.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue token", "user_id", user.ID, "error", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Token{AccessToken: access, TokenType: "bearer"})
}

// TestToken confirms the presented access token resolves to a live, active
// user and echoes that user back.
func (h *Auth) TestToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	respondOK(c, "Token is valid", user.Public())
}

// Logout exists for symmetry; tokens are stateless and simply expire.
func (h *Auth) Logout(c *gin.Context) {
	respondOK(c, "Successfully logged out", nil)
}
