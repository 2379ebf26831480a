package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/accounts-server/internal/model"
	"github.com/shopcore/accounts-server/internal/testutil"
)

type userServiceMock struct {
	mock.Mock
}

func (m *userServiceMock) Create(ctx context.Context, params model.CreateUserParams) (model.UserPublic, error) {
	ret := m.Called(ctx, params)
	return ret.Get(0).(model.UserPublic), ret.Error(1)
}

func (m *userServiceMock) GetByID(ctx context.Context, id uuid.UUID) (model.UserPublic, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.UserPublic), ret.Error(1)
}

func (m *userServiceMock) GetWithAddresses(ctx context.Context, id uuid.UUID) (model.UserWithAddresses, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.UserWithAddresses), ret.Error(1)
}

func (m *userServiceMock) List(ctx context.Context, filters model.UserFilters, page, pageSize int) (model.PaginatedUsers, error) {
	ret := m.Called(ctx, filters, page, pageSize)
	return ret.Get(0).(model.PaginatedUsers), ret.Error(1)
}

func (m *userServiceMock) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.UserPublic, error) {
	ret := m.Called(ctx, id, update)
	return ret.Get(0).(model.UserPublic), ret.Error(1)
}

func (m *userServiceMock) ChangePassword(ctx context.Context, user model.User, oldPassword, newPassword string) error {
	ret := m.Called(ctx, user, oldPassword, newPassword)
	return ret.Error(0)
}

func (m *userServiceMock) DeleteSelf(ctx context.Context, user model.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *userServiceMock) Delete(ctx context.Context, targetID, actingAdminID uuid.UUID) error {
	ret := m.Called(ctx, targetID, actingAdminID)
	return ret.Error(0)
}

// injectUser seeds the resolved caller the way the authenticate middleware
// does, so handlers can be exercised without real tokens.
func injectUser(user model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
	}
}

func newUserEngine(svc UserService, current model.User) *gin.Engine {
	h := NewUser(svc, testutil.MakeNoopLogger())
	engine := gin.New()
	authed := engine.Group("", injectUser(current))
	authed.GET("/users/me", h.GetMe)
	authed.PATCH("/users/me", h.UpdateMe)
	authed.PATCH("/users/me/password", h.ChangePassword)
	authed.DELETE("/users/me", h.DeleteMe)
	authed.POST("/users", h.Create)
	authed.GET("/users", h.List)
	authed.GET("/users/:id", h.GetByID)
	authed.PATCH("/users/:id", h.Update)
	authed.DELETE("/users/:id", h.Delete)
	return engine
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler_GetMe(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), Email: "a@b.c", IsActive: true}

	svc.On("GetWithAddresses", mock.Anything, current.ID).Return(model.UserWithAddresses{
		UserPublic: model.UserPublic{ID: current.ID, Email: current.Email},
		Addresses:  []model.AddressPublic{{ID: uuid.New(), IsDefault: true}},
	}, nil)

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodGet, "/users/me", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateMe_OnlyProfileFields(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), Role: model.RoleCustomer, IsActive: true}

	svc.On("Update", mock.Anything, current.ID, mock.MatchedBy(func(u model.UserUpdate) bool {
		return u.FullName != nil && *u.FullName == "New Name" && u.Role == nil && u.IsActive == nil
	})).Return(model.UserPublic{ID: current.ID}, nil)

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodPatch, "/users/me", `{"full_name":"New Name","role":"admin","is_active":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), IsActive: true}

	svc.On("ChangePassword", mock.Anything, current, "old-password", "new-password").Return(nil)

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodPatch, "/users/me/password", `{"old_password":"old-password","new_password":"new-password"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Password updated successfully", resp.Message)
}

func TestUserHandler_ChangePassword_ShortNewPassword(t *testing.T) {
	svc := &userServiceMock{}
	engine := newUserEngine(svc, model.User{ID: uuid.New(), IsActive: true})

	rec := doJSON(engine, http.MethodPatch, "/users/me/password", `{"old_password":"old-password","new_password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_DeleteMe_AdminForbidden(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	svc.On("DeleteSelf", mock.Anything, current).
		Return(model.NewDomainError(model.ErrForbidden, "Admin users are not allowed to delete themselves"))

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodDelete, "/users/me", "")

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Admin users are not allowed to delete themselves", resp.Message)
}

func TestUserHandler_Create_DefaultsToActiveCustomer(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateUserParams) bool {
		return p.Role == model.RoleCustomer && p.IsActive
	})).Return(model.UserPublic{ID: uuid.New()}, nil)

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodPost, "/users", `{"email":"new@b.c","password":"password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_List_QueryParsing(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	role := model.RoleStaff
	active := true
	svc.On("List", mock.Anything, model.UserFilters{IsActive: &active, Role: &role}, 2, 50).
		Return(model.PaginatedUsers{Users: []model.UserPublic{}, Pagination: model.PageMeta{Page: 2, PageSize: 50}}, nil)

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodGet, "/users?page=2&page_size=50&is_active=true&role=staff", "")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_List_PageSizeCapped(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	svc.On("List", mock.Anything, model.UserFilters{}, 1, 100).
		Return(model.PaginatedUsers{}, nil)

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodGet, "/users?page_size=500", "")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_GetByID_Self(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), Role: model.RoleCustomer, IsActive: true}

	svc.On("GetByID", mock.Anything, current.ID).Return(model.UserPublic{ID: current.ID}, nil)

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodGet, "/users/"+current.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_GetByID_OtherUserForbidden(t *testing.T) {
	svc := &userServiceMock{}
	current := model.User{ID: uuid.New(), Role: model.RoleCustomer, IsActive: true}

	engine := newUserEngine(svc, current)
	rec := doJSON(engine, http.MethodGet, "/users/"+uuid.NewString(), "")

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The user doesn't have enough privileges", resp.Message)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserHandler_GetByID_AdminReadsAnyone(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}
	targetID := uuid.New()

	svc.On("GetByID", mock.Anything, targetID).Return(model.UserPublic{ID: targetID}, nil)

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodGet, "/users/"+targetID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_GetByID_InvalidID(t *testing.T) {
	svc := &userServiceMock{}
	engine := newUserEngine(svc, model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true})

	rec := doJSON(engine, http.MethodGet, "/users/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_Update_TargetNotFound(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	svc.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(model.UserPublic{}, model.NewDomainError(model.ErrNotFound, "User not found"))

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodPatch, "/users/"+uuid.NewString(), `{"is_active":false}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_Delete_Success(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}
	targetID := uuid.New()

	svc.On("Delete", mock.Anything, targetID, admin.ID).Return(nil)

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodDelete, "/users/"+targetID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Delete_Self(t *testing.T) {
	svc := &userServiceMock{}
	admin := model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	svc.On("Delete", mock.Anything, admin.ID, admin.ID).
		Return(model.NewDomainError(model.ErrForbidden, "Admin users are not allowed to delete themselves"))

	engine := newUserEngine(svc, admin)
	rec := doJSON(engine, http.MethodDelete, "/users/"+admin.ID.String(), "")

	require.Equal(t, http.StatusForbidden, rec.Code)
}
