package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopcore/accounts-server/internal/model"
)

var addressDescriptor = Descriptor{
	Table: "addresses",
	Columns: []string{
		"id", "owner_id", "street_address", "apartment", "city", "county",
		"postal_code", "is_default", "delivery_instructions", "created_at",
		"updated_at", "deleted_at",
	},
	SoftDelete:  true,
	Timestamped: true,
}

var _ model.AddressStore = (*AddressRepository)(nil)

type AddressRepository struct {
	db      *Connection
	gateway *Gateway[model.Address]
}

func NewAddressRepository(db *Connection) *AddressRepository {
	return &AddressRepository{
		db:      db,
		gateway: NewGateway[model.Address](db, addressDescriptor),
	}
}

func (r *AddressRepository) CreateForOwner(ctx context.Context, ownerID uuid.UUID, params model.CreateAddressParams) (model.Address, error) {
	return r.gateway.Create(ctx, map[string]any{
		"owner_id":              ownerID,
		"street_address":        params.StreetAddress,
		"apartment":             params.Apartment,
		"city":                  params.City,
		"county":                params.County,
		"postal_code":           params.PostalCode,
		"is_default":            params.IsDefault,
		"delivery_instructions": params.DeliveryInstructions,
	})
}

func (r *AddressRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Address, error) {
	return r.gateway.Get(ctx, id)
}

func (r *AddressRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Address, error) {
	return r.gateway.List(ctx, 0, maxOwnerAddresses, map[string]any{"owner_id": ownerID})
}

// GetDefault returns the owner's live default address, if any.
func (r *AddressRepository) GetDefault(ctx context.Context, ownerID uuid.UUID) (model.Address, error) {
	query := `SELECT id, owner_id, street_address, apartment, city, county, postal_code,
			  is_default, delivery_instructions, created_at, updated_at, deleted_at
			  FROM addresses WHERE owner_id = $1 AND is_default AND deleted_at IS NULL`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return model.Address{}, fmt.Errorf("failed to get default address: %w", err)
	}
	address, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Address])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Address{}, model.ErrNotFound
		}
		return model.Address{}, fmt.Errorf("failed to get default address: %w", err)
	}

	return address, nil
}

// ClearDefault unsets the default flag on any of the owner's live addresses.
// A no-op when none is default.
func (r *AddressRepository) ClearDefault(ctx context.Context, ownerID uuid.UUID) error {
	query := `UPDATE addresses SET is_default = FALSE, updated_at = NOW()
			  WHERE owner_id = $1 AND is_default AND deleted_at IS NULL`
	if _, err := r.db.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

// SetDefault makes the target address the owner's single default. The clear
// and set steps run in one transaction with the owner's live rows locked, so
// concurrent callers for the same owner serialize and the invariant holds.
func (r *AddressRepository) SetDefault(ctx context.Context, addressID, ownerID uuid.UUID) (model.Address, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Address{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lock := `SELECT id FROM addresses WHERE owner_id = $1 AND deleted_at IS NULL FOR UPDATE`
	if _, err := tx.Exec(ctx, lock, ownerID); err != nil {
		return model.Address{}, fmt.Errorf("failed to lock owner addresses: %w", err)
	}

	clear := `UPDATE addresses SET is_default = FALSE, updated_at = NOW()
			  WHERE owner_id = $1 AND is_default AND deleted_at IS NULL`
	if _, err := tx.Exec(ctx, clear, ownerID); err != nil {
		return model.Address{}, fmt.Errorf("failed to clear default address: %w", err)
	}

	set := `UPDATE addresses SET is_default = TRUE, updated_at = NOW()
			WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
			RETURNING id, owner_id, street_address, apartment, city, county, postal_code,
			is_default, delivery_instructions, created_at, updated_at, deleted_at`

	rows, err := tx.Query(ctx, set, addressID, ownerID)
	if err != nil {
		return model.Address{}, fmt.Errorf("failed to set default address: %w", err)
	}
	address, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Address])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Address{}, model.ErrNotFound
		}
		return model.Address{}, fmt.Errorf("failed to set default address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Address{}, fmt.Errorf("failed to commit default address change: %w", err)
	}

	return address, nil
}

func (r *AddressRepository) Update(ctx context.Context, id uuid.UUID, update model.AddressUpdate) (model.Address, error) {
	values := map[string]any{}
	if update.StreetAddress != nil {
		values["street_address"] = *update.StreetAddress
	}
	if update.Apartment != nil {
		values["apartment"] = *update.Apartment
	}
	if update.City != nil {
		values["city"] = *update.City
	}
	if update.County != nil {
		values["county"] = *update.County
	}
	if update.PostalCode != nil {
		values["postal_code"] = *update.PostalCode
	}
	if update.IsDefault != nil {
		values["is_default"] = *update.IsDefault
	}
	if update.DeliveryInstructions != nil {
		values["delivery_instructions"] = *update.DeliveryInstructions
	}

	return r.gateway.Update(ctx, id, values)
}

func (r *AddressRepository) SoftDelete(ctx context.Context, id uuid.UUID) (model.Address, error) {
	return r.gateway.SoftDelete(ctx, id)
}

// maxOwnerAddresses bounds the per-owner address listing; the address book
// is a small set and the API exposes no pagination for it.
const maxOwnerAddresses = 1000
