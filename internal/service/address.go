package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
)

type Address struct {
	addressStore model.AddressStore
	logger       *logger.Logger
}

func NewAddress(addressStore model.AddressStore, logger *logger.Logger) *Address {
	return &Address{
		addressStore: addressStore,
		logger:       logger,
	}
}

// Create persists a new address for the owner. When the new address is
// flagged default, any existing default is cleared first so the owner never
// ends up with two.
func (s *Address) Create(ctx context.Context, ownerID uuid.UUID, params model.CreateAddressParams) (model.AddressPublic, error) {
	if params.IsDefault {
		if err := s.addressStore.ClearDefault(ctx, ownerID); err != nil {
			return model.AddressPublic{}, fmt.Errorf("failed to clear default address: %w", err)
		}
	}

	address, err := s.addressStore.CreateForOwner(ctx, ownerID, params)
	if err != nil {
		return model.AddressPublic{}, fmt.Errorf("failed to create address: %w", err)
	}

	s.logger.Info("Address service: address created", "address_id", address.ID, "owner_id", ownerID)

	return address.Public(), nil
}

// Get returns an address the caller owns. A missing address and a
// foreign-owned address are indistinguishable to the caller.
func (s *Address) Get(ctx context.Context, addressID, ownerID uuid.UUID) (model.AddressPublic, error) {
	address, err := s.getOwned(ctx, addressID, ownerID)
	if err != nil {
		return model.AddressPublic{}, err
	}
	return address.Public(), nil
}

func (s *Address) List(ctx context.Context, ownerID uuid.UUID) (model.AddressList, error) {
	addresses, err := s.addressStore.GetByOwner(ctx, ownerID)
	if err != nil {
		return model.AddressList{}, fmt.Errorf("failed to list addresses: %w", err)
	}

	out := model.AddressList{
		Addresses: make([]model.AddressPublic, 0, len(addresses)),
		Count:     len(addresses),
	}
	for _, a := range addresses {
		out.Addresses = append(out.Addresses, a.Public())
	}

	return out, nil
}

// Update applies a partial update to an owned address. Setting the default
// flag through this path clears any existing default first.
func (s *Address) Update(ctx context.Context, addressID, ownerID uuid.UUID, update model.AddressUpdate) (model.AddressPublic, error) {
	if _, err := s.getOwned(ctx, addressID, ownerID); err != nil {
		return model.AddressPublic{}, err
	}

	if update.IsDefault != nil && *update.IsDefault {
		if err := s.addressStore.ClearDefault(ctx, ownerID); err != nil {
			return model.AddressPublic{}, fmt.Errorf("failed to clear default address: %w", err)
		}
	}

	address, err := s.addressStore.Update(ctx, addressID, update)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AddressPublic{}, model.NewDomainError(model.ErrNotFound, "Address not found")
		}
		return model.AddressPublic{}, fmt.Errorf("failed to update address: %w", err)
	}

	return address.Public(), nil
}

// SetDefault makes the address the owner's single default.
func (s *Address) SetDefault(ctx context.Context, addressID, ownerID uuid.UUID) (model.AddressPublic, error) {
	address, err := s.addressStore.SetDefault(ctx, addressID, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AddressPublic{}, model.NewDomainError(model.ErrNotFound, "Address not found")
		}
		return model.AddressPublic{}, fmt.Errorf("failed to set default address: %w", err)
	}

	s.logger.Info("Address service: default address changed", "address_id", addressID, "owner_id", ownerID)

	return address.Public(), nil
}

// Delete soft-deletes an owned address.
func (s *Address) Delete(ctx context.Context, addressID, ownerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, addressID, ownerID); err != nil {
		return err
	}

	if _, err := s.addressStore.SoftDelete(ctx, addressID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewDomainError(model.ErrNotFound, "Address not found")
		}
		return fmt.Errorf("failed to delete address: %w", err)
	}

	return nil
}

func (s *Address) getOwned(ctx context.Context, addressID, ownerID uuid.UUID) (model.Address, error) {
	address, err := s.addressStore.GetByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Address{}, model.NewDomainError(model.ErrNotFound, "Address not found")
		}
		return model.Address{}, fmt.Errorf("failed to get address by id: %w", err)
	}
	if address.OwnerID != ownerID {
		return model.Address{}, model.NewDomainError(model.ErrNotFound, "Address not found")
	}

	return address, nil
}
