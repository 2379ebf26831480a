package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
)

// currentUserKey is the gin context key the resolved caller is stored under.
const currentUserKey = "currentUser"

// UserResolver resolves a user id to a live user entity.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Authenticate validates bearer tokens and resolves the caller into the
// request context.
type Authenticate struct {
	tokenManager model.TokenManager
	users        UserResolver
	logger       *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, users UserResolver, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, users: users, logger: logger}
}

// Handler extracts the bearer token, validates it, and resolves the subject
// to a live, active user. The resolved user is stored in the gin context.
func (m *Authenticate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
			return
		}

		userID, err := m.tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Could not validate credentials"})
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
				return
			}
			m.logger.Error("Authenticate middleware: failed to resolve user", "user_id", userID, "error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Inactive user"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the resolved caller's role is in the
// allowed set. Must run after Handler.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller resolved by the Authenticate middleware.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// The auth scheme name is case-insensitive per RFC 9110.
func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}
