package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/accounts-server/internal/mocks"
	"github.com/shopcore/accounts-server/internal/model"
	"github.com/shopcore/accounts-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate_Handler(t *testing.T) {
	t.Parallel()

	activeUser := model.User{ID: uuid.New(), Email: "a@b.c", IsActive: true, Role: model.RoleCustomer}
	inactiveUser := model.User{ID: uuid.New(), IsActive: false}

	tests := []struct {
		name        string
		authHeader  string
		parseUserID uuid.UUID
		parseErr    error
		storeUser   model.User
		storeErr    error
		wantStatus  int
		wantNext    bool
	}{
		{
			name:       "missing authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer invalid",
			parseErr:   model.ErrUnauthorized,
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "subject no longer exists",
			authHeader:  "Bearer token",
			parseUserID: uuid.New(),
			storeErr:    model.ErrNotFound,
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "inactive user",
			authHeader:  "Bearer token",
			parseUserID: inactiveUser.ID,
			storeUser:   inactiveUser,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "valid token",
			authHeader:  "Bearer token",
			parseUserID: activeUser.ID,
			storeUser:   activeUser,
			wantStatus:  http.StatusOK,
			wantNext:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenManager := &mocks.TokenManager{}
			userStore := &mocks.UserStore{}

			if tt.authHeader != "" && tt.authHeader != "Basic abc" {
				tokenManager.On("ParseAccessToken", "token").Return(tt.parseUserID, tt.parseErr).Maybe()
				tokenManager.On("ParseAccessToken", "invalid").Return(uuid.Nil, tt.parseErr).Maybe()
			}
			if tt.parseErr == nil && tt.parseUserID != uuid.Nil {
				userStore.On("GetByID", mock.Anything, tt.parseUserID).Return(tt.storeUser, tt.storeErr)
			}

			m := NewAuthenticate(tokenManager, userStore, testutil.MakeNoopLogger())

			nextCalled := false
			engine := gin.New()
			engine.GET("/ping", m.Handler(), func(c *gin.Context) {
				nextCalled = true
				current, ok := CurrentUser(c)
				require.True(t, ok)
				assert.Equal(t, tt.storeUser.ID, current.ID)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userRole   model.Role
		allowed    []model.Role
		wantStatus int
	}{
		{
			name:       "admin allowed",
			userRole:   model.RoleAdmin,
			allowed:    []model.Role{model.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "manager allowed alongside admin",
			userRole:   model.RoleManager,
			allowed:    []model.Role{model.RoleAdmin, model.RoleManager},
			wantStatus: http.StatusOK,
		},
		{
			name:       "customer rejected",
			userRole:   model.RoleCustomer,
			allowed:    []model.Role{model.RoleAdmin},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "staff rejected from admin-only route",
			userRole:   model.RoleStaff,
			allowed:    []model.Role{model.RoleAdmin},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := gin.New()
			engine.GET("/ping",
				func(c *gin.Context) {
					c.Set(currentUserKey, model.User{ID: uuid.New(), Role: tt.userRole, IsActive: true})
				},
				RequireRoles(tt.allowed...),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRoles_NoResolvedUser(t *testing.T) {
	t.Parallel()

	engine := gin.New()
	engine.GET("/ping", RequireRoles(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
}
