package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
	"github.com/shopcore/accounts-server/internal/security"
)

type User struct {
	userStore model.UserStore
	hasher    security.Hasher
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, hasher security.Hasher, logger *logger.Logger) *User {
	return &User{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger,
	}
}

// Create registers a new user. A live user with the same email is a conflict.
func (s *User) Create(ctx context.Context, params model.CreateUserParams) (model.UserPublic, error) {
	params.Email = normalizeEmail(params.Email)

	existing, err := s.userStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.UserPublic{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		s.logger.Info("User service: email already taken", "email", params.Email)
		return model.UserPublic{}, model.NewDomainError(model.ErrConflict, "A user with this email already exists")
	}

	user, err := s.userStore.CreateUser(ctx, params)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.UserPublic{}, model.NewDomainError(model.ErrConflict, "A user with this email already exists")
		}
		return model.UserPublic{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User service: user created", "user_id", user.ID, "role", user.Role)

	return user.Public(), nil
}

func (s *User) GetByEmail(ctx context.Context, email string) (model.UserPublic, error) {
	user, err := s.userStore.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserPublic{}, model.NewDomainError(model.ErrNotFound, "User not found")
		}
		return model.UserPublic{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user.Public(), nil
}

func (s *User) GetByID(ctx context.Context, id uuid.UUID) (model.UserPublic, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserPublic{}, model.NewDomainError(model.ErrNotFound, "User not found")
		}
		return model.UserPublic{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user.Public(), nil
}

func (s *User) GetWithAddresses(ctx context.Context, id uuid.UUID) (model.UserWithAddresses, error) {
	user, addresses, err := s.userStore.GetWithAddresses(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserWithAddresses{}, model.NewDomainError(model.ErrNotFound, "User not found")
		}
		return model.UserWithAddresses{}, fmt.Errorf("failed to get user with addresses: %w", err)
	}

	out := model.UserWithAddresses{
		UserPublic: user.Public(),
		Addresses:  make([]model.AddressPublic, 0, len(addresses)),
	}
	for _, a := range addresses {
		out.Addresses = append(out.Addresses, a.Public())
	}

	return out, nil
}

// List returns a page of users and pagination metadata. Page numbering is
// 1-based.
func (s *User) List(ctx context.Context, filters model.UserFilters, page, pageSize int) (model.PaginatedUsers, error) {
	skip := (page - 1) * pageSize

	users, total, err := s.userStore.List(ctx, skip, pageSize, filters)
	if err != nil {
		return model.PaginatedUsers{}, fmt.Errorf("failed to list users: %w", err)
	}

	out := model.PaginatedUsers{
		Users: make([]model.UserPublic, 0, len(users)),
		Pagination: model.PageMeta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}
	for _, u := range users {
		out.Users = append(out.Users, u.Public())
	}

	return out, nil
}

func (s *User) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.UserPublic, error) {
	if update.Email != nil {
		lowered := normalizeEmail(*update.Email)
		update.Email = &lowered
	}

	user, err := s.userStore.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return model.UserPublic{}, model.NewDomainError(model.ErrNotFound, "User not found")
		case errors.Is(err, model.ErrConflict):
			return model.UserPublic{}, model.NewDomainError(model.ErrConflict, "A user with this email already exists")
		}
		return model.UserPublic{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user.Public(), nil
}

// ChangePassword verifies the old credential, rejects a no-op change, and
// replaces the stored hash.
func (s *User) ChangePassword(ctx context.Context, user model.User, oldPassword, newPassword string) error {
	if !s.hasher.Verify(oldPassword, user.HashedPassword) {
		return model.NewDomainError(model.ErrInvalidInput, "Incorrect password")
	}
	if s.hasher.Verify(newPassword, user.HashedPassword) {
		return model.NewDomainError(model.ErrInvalidInput, "New password cannot be same as current")
	}

	if _, err := s.userStore.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("User service: password changed", "user_id", user.ID)

	return nil
}

// Authenticate checks form credentials for login and stamps last_login.
func (s *User) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.userStore.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.NewDomainError(model.ErrUnauthorized, "Invalid credentials")
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return model.User{}, model.NewDomainError(model.ErrUnauthorized, "Invalid credentials")
	}
	if !user.IsActive {
		return model.User{}, model.NewDomainError(model.ErrInvalidInput, "Inactive user")
	}

	if err := s.userStore.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Login still succeeds; the stamp is informational.
		s.logger.Error("User service: failed to update last login", "user_id", user.ID, "error", err.Error())
	}

	return user, nil
}

// DeleteSelf soft-deletes the caller's own account. Admins cannot
// self-delete.
func (s *User) DeleteSelf(ctx context.Context, user model.User) error {
	if user.Role == model.RoleAdmin {
		return model.NewDomainError(model.ErrForbidden, "Admin users are not allowed to delete themselves")
	}

	if _, err := s.userStore.SoftDelete(ctx, user.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewDomainError(model.ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: user deleted own account", "user_id", user.ID)

	return nil
}

// Delete soft-deletes the target user on behalf of an admin. The admin
// cannot target themselves through this path either.
func (s *User) Delete(ctx context.Context, targetID, actingAdminID uuid.UUID) error {
	if targetID == actingAdminID {
		return model.NewDomainError(model.ErrForbidden, "Admin users are not allowed to delete themselves")
	}

	if _, err := s.userStore.SoftDelete(ctx, targetID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewDomainError(model.ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: user deleted by admin", "user_id", targetID, "admin_id", actingAdminID)

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
