package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AddressStore defines persistence operations for addresses.
type AddressStore interface {
	CreateForOwner(ctx context.Context, ownerID uuid.UUID, params CreateAddressParams) (Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (Address, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Address, error)
	GetDefault(ctx context.Context, ownerID uuid.UUID) (Address, error)
	ClearDefault(ctx context.Context, ownerID uuid.UUID) error
	SetDefault(ctx context.Context, addressID, ownerID uuid.UUID) (Address, error)
	Update(ctx context.Context, id uuid.UUID, update AddressUpdate) (Address, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (Address, error)
}

// Address represents a stored delivery address.
type Address struct {
	ID                   uuid.UUID  `db:"id"`
	OwnerID              uuid.UUID  `db:"owner_id"`
	StreetAddress        *string    `db:"street_address"`
	Apartment            *string    `db:"apartment"`
	City                 *string    `db:"city"`
	County               *string    `db:"county"`
	PostalCode           *string    `db:"postal_code"`
	IsDefault            bool       `db:"is_default"`
	DeliveryInstructions *string    `db:"delivery_instructions"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
	DeletedAt            *time.Time `db:"deleted_at"`
}

// CreateAddressParams contains parameters to create an address.
type CreateAddressParams struct {
	StreetAddress        *string
	Apartment            *string
	City                 *string
	County               *string
	PostalCode           *string
	IsDefault            bool
	DeliveryInstructions *string
}

// AddressUpdate describes a partial update. Nil fields are left untouched.
type AddressUpdate struct {
	StreetAddress        *string
	Apartment            *string
	City                 *string
	County               *string
	PostalCode           *string
	IsDefault            *bool
	DeliveryInstructions *string
}

// AddressPublic is the representation safe for external consumption.
type AddressPublic struct {
	ID                   uuid.UUID `json:"id"`
	OwnerID              uuid.UUID `json:"owner_id"`
	StreetAddress        *string   `json:"street_address,omitempty"`
	Apartment            *string   `json:"apartment,omitempty"`
	City                 *string   `json:"city,omitempty"`
	County               *string   `json:"county,omitempty"`
	PostalCode           *string   `json:"postal_code,omitempty"`
	IsDefault            bool      `json:"is_default"`
	DeliveryInstructions *string   `json:"delivery_instructions,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Public projects the address onto its external representation.
func (a Address) Public() AddressPublic {
	return AddressPublic{
		ID:                   a.ID,
		OwnerID:              a.OwnerID,
		StreetAddress:        a.StreetAddress,
		Apartment:            a.Apartment,
		City:                 a.City,
		County:               a.County,
		PostalCode:           a.PostalCode,
		IsDefault:            a.IsDefault,
		DeliveryInstructions: a.DeliveryInstructions,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// AddressList is an owner's address set plus its count.
type AddressList struct {
	Addresses []AddressPublic `json:"addresses"`
	Count     int             `json:"count"`
}
