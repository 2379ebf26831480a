package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Stored as its string form.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// UserStore defines persistence operations for users.
type UserStore interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetWithAddresses(ctx context.Context, id uuid.UUID) (User, []Address, error)
	List(ctx context.Context, skip, limit int, filters UserFilters) ([]User, int, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) (User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) (User, error)
}

// User represents a stored user with credential material.
type User struct {
	ID             uuid.UUID  `db:"id"`
	Email          string     `db:"email"`
	FullName       *string    `db:"full_name"`
	PhoneNumber    *string    `db:"phone_number"`
	HashedPassword string     `db:"hashed_password"`
	IsActive       bool       `db:"is_active"`
	IsVerified     bool       `db:"is_verified"`
	Role           Role       `db:"role"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	LastLogin      *time.Time `db:"last_login"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

// CreateUserParams contains parameters to create a user. Password is
// plaintext here and must never reach the store unhashed.
type CreateUserParams struct {
	Email       string
	Password    string
	FullName    *string
	PhoneNumber *string
	IsActive    bool
	IsVerified  bool
	Role        Role
}

// UserUpdate describes a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Email       *string
	FullName    *string
	PhoneNumber *string
	IsActive    *bool
	IsVerified  *bool
	Role        *Role
}

// UserFilters are equality filters for user listing. Nil fields are ignored.
type UserFilters struct {
	IsActive   *bool
	IsVerified *bool
	Role       *Role
}

// UserPublic is the representation safe for external consumption.
type UserPublic struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Public projects the user onto its external representation.
func (u User) Public() UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLogin:   u.LastLogin,
	}
}

// PageMeta carries pagination metadata for list responses.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// PaginatedUsers is a page of users plus pagination metadata.
type PaginatedUsers struct {
	Users      []UserPublic `json:"users"`
	Pagination PageMeta     `json:"pagination"`
}

// UserWithAddresses is a user together with the owned address set.
type UserWithAddresses struct {
	UserPublic
	Addresses []AddressPublic `json:"addresses"`
}
