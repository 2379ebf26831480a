package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopcore/accounts-server/internal/api/http/middleware"
	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
)

// UserService defines user management operations the handlers depend on.
type UserService interface {
	Create(ctx context.Context, params model.CreateUserParams) (model.UserPublic, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.UserPublic, error)
	GetWithAddresses(ctx context.Context, id uuid.UUID) (model.UserWithAddresses, error)
	List(ctx context.Context, filters model.UserFilters, page, pageSize int) (model.PaginatedUsers, error)
	Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.UserPublic, error)
	ChangePassword(ctx context.Context, user model.User, oldPassword, newPassword string) error
	DeleteSelf(ctx context.Context, user model.User) error
	Delete(ctx context.Context, targetID, actingAdminID uuid.UUID) error
}

// User handles user management endpoints.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		logger:      logger,
	}
}

type createUserRequest struct {
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=8,max=40"`
	FullName    *string    `json:"full_name"`
	PhoneNumber *string    `json:"phone_number"`
	IsActive    *bool      `json:"is_active"`
	IsVerified  *bool      `json:"is_verified"`
	Role        model.Role `json:"role"`
}

// Create is the admin path for creating a user with an explicit role.
func (h *User) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	params := model.CreateUserParams{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
		Role:        model.RoleCustomer,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		params.IsVerified = *req.IsVerified
	}
	if req.Role != "" {
		params.Role = req.Role
	}

	user, err := h.userService.Create(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User created successfully", user)
}

// GetMe returns the authenticated caller's profile with their addresses.
func (h *User) GetMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	user, err := h.userService.GetWithAddresses(c.Request.Context(), current.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Operation successful", user)
}

type updateMeRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
}

// UpdateMe applies a partial update to the caller's own profile.
func (h *User) UpdateMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), current.ID, model.UserUpdate{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Operation successful", user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=8,max=40"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=40"`
}

// ChangePassword replaces the caller's own credential.
func (h *User) ChangePassword(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), current, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Password updated successfully", nil)
}

// DeleteMe soft-deletes the caller's own account.
func (h *User) DeleteMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	if err := h.userService.DeleteSelf(c.Request.Context(), current); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User deleted successfully", nil)
}

// List returns a page of users with optional equality filters.
func (h *User) List(c *gin.Context) {
	page := positiveQueryInt(c, "page", 1)
	pageSize := positiveQueryInt(c, "page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}

	filters := model.UserFilters{}
	if v, ok := queryBool(c, "is_active"); ok {
		filters.IsActive = &v
	}
	if v, ok := queryBool(c, "is_verified"); ok {
		filters.IsVerified = &v
	}
	if v := c.Query("role"); v != "" {
		role := model.Role(v)
		filters.Role = &role
	}

	result, err := h.userService.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Users retrieved successfully", result)
}

// GetByID returns a user. Callers may read themselves; admins may read anyone.
func (h *User) GetByID(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid user id"})
		return
	}

	if current.ID != userID && current.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, Response{Success: false, Message: "The user doesn't have enough privileges"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Operation successful", user)
}

type updateUserRequest struct {
	Email       *string     `json:"email" binding:"omitempty,email"`
	FullName    *string     `json:"full_name"`
	PhoneNumber *string     `json:"phone_number"`
	IsActive    *bool       `json:"is_active"`
	IsVerified  *bool       `json:"is_verified"`
	Role        *model.Role `json:"role"`
}

// Update is the admin path for partially updating any user.
func (h *User) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, model.UserUpdate{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
		IsVerified:  req.IsVerified,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Operation successful", user)
}

// Delete is the admin path for soft-deleting any user except themselves.
func (h *User) Delete(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid user id"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID, current.ID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User deleted successfully", nil)
}

func positiveQueryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func queryBool(c *gin.Context, key string) (bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
