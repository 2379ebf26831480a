package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopcore/accounts-server/internal/model"
	"github.com/shopcore/accounts-server/internal/security"
)

var userDescriptor = Descriptor{
	Table: "users",
	Columns: []string{
		"id", "email", "full_name", "phone_number", "hashed_password",
		"is_active", "is_verified", "role", "created_at", "updated_at",
		"last_login", "deleted_at",
	},
	SoftDelete:  true,
	Timestamped: true,
}

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db      *Connection
	gateway *Gateway[model.User]
	hasher  security.Hasher
}

func NewUserRepository(db *Connection, hasher security.Hasher) *UserRepository {
	return &UserRepository{
		db:      db,
		gateway: NewGateway[model.User](db, userDescriptor),
		hasher:  hasher,
	}
}

// CreateUser hashes the plaintext credential and persists the user. The
// plaintext never reaches the store.
func (r *UserRepository) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	if !params.Role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q: %w", params.Role, model.ErrInvalidInput)
	}

	hashed, err := r.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return r.gateway.Create(ctx, map[string]any{
		"email":           params.Email,
		"full_name":       params.FullName,
		"phone_number":    params.PhoneNumber,
		"hashed_password": hashed,
		"is_active":       params.IsActive,
		"is_verified":     params.IsVerified,
		"role":            string(params.Role),
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.gateway.Get(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT id, email, full_name, phone_number, hashed_password,
			  is_active, is_verified, role, created_at, updated_at, last_login, deleted_at
			  FROM users WHERE email = $1 AND deleted_at IS NULL`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetWithAddresses returns the user and the owned live address set.
func (r *UserRepository) GetWithAddresses(ctx context.Context, id uuid.UUID) (model.User, []model.Address, error) {
	user, err := r.gateway.Get(ctx, id)
	if err != nil {
		return model.User{}, nil, err
	}

	query := `SELECT id, owner_id, street_address, apartment, city, county, postal_code,
			  is_default, delivery_instructions, created_at, updated_at, deleted_at
			  FROM addresses WHERE owner_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return model.User{}, nil, fmt.Errorf("failed to get addresses for user: %w", err)
	}
	addresses, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Address])
	if err != nil {
		return model.User{}, nil, fmt.Errorf("failed to get addresses for user: %w", err)
	}

	return user, addresses, nil
}

// List returns a page of users matching the filters plus the total count.
func (r *UserRepository) List(ctx context.Context, skip, limit int, filters model.UserFilters) ([]model.User, int, error) {
	filterMap := map[string]any{}
	if filters.IsActive != nil {
		filterMap["is_active"] = *filters.IsActive
	}
	if filters.IsVerified != nil {
		filterMap["is_verified"] = *filters.IsVerified
	}
	if filters.Role != nil {
		filterMap["role"] = string(*filters.Role)
	}

	users, err := r.gateway.List(ctx, skip, limit, filterMap)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.gateway.Count(ctx, filterMap)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.User, error) {
	values := map[string]any{}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.FullName != nil {
		values["full_name"] = *update.FullName
	}
	if update.PhoneNumber != nil {
		values["phone_number"] = *update.PhoneNumber
	}
	if update.IsActive != nil {
		values["is_active"] = *update.IsActive
	}
	if update.IsVerified != nil {
		values["is_verified"] = *update.IsVerified
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return model.User{}, fmt.Errorf("unknown role %q: %w", *update.Role, model.ErrInvalidInput)
		}
		values["role"] = string(*update.Role)
	}

	return r.gateway.Update(ctx, id, values)
}

// UpdatePassword hashes the new credential and replaces the stored hash
// directly; the partial-update path does not apply because the column holds
// a derived value.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (model.User, error) {
	hashed, err := r.hasher.Hash(newPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `UPDATE users SET hashed_password = $1, updated_at = NOW()
			  WHERE id = $2 AND deleted_at IS NULL
			  RETURNING id, email, full_name, phone_number, hashed_password,
			  is_active, is_verified, role, created_at, updated_at, last_login, deleted_at`

	rows, err := r.db.Query(ctx, query, hashed, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.gateway.SoftDelete(ctx, id)
}
