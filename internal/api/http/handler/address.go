package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopcore/accounts-server/internal/api/http/middleware"
	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
)

// AddressService defines address book operations the handlers depend on.
type AddressService interface {
	Create(ctx context.Context, ownerID uuid.UUID, params model.CreateAddressParams) (model.AddressPublic, error)
	Get(ctx context.Context, addressID, ownerID uuid.UUID) (model.AddressPublic, error)
	List(ctx context.Context, ownerID uuid.UUID) (model.AddressList, error)
	Update(ctx context.Context, addressID, ownerID uuid.UUID, update model.AddressUpdate) (model.AddressPublic, error)
	SetDefault(ctx context.Context, addressID, ownerID uuid.UUID) (model.AddressPublic, error)
	Delete(ctx context.Context, addressID, ownerID uuid.UUID) error
}

// Address handles address book endpoints. Every operation is scoped to the
// authenticated caller's own addresses.
type Address struct {
	addressService AddressService
	logger         *logger.Logger
}

// NewAddress creates a new Address handler.
func NewAddress(addressService AddressService, logger *logger.Logger) *Address {
	return &Address{
		addressService: addressService,
		logger:         logger,
	}
}

type addressRequest struct {
	StreetAddress        *string `json:"street_address"`
	Apartment            *string `json:"apartment"`
	City                 *string `json:"city"`
	County               *string `json:"county"`
	PostalCode           *string `json:"postal_code"`
	IsDefault            bool    `json:"is_default"`
	DeliveryInstructions *string `json:"delivery_instructions"`
}

// Create adds a new address to the caller's address book.
func (h *Address) Create(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), current.ID, model.CreateAddressParams{
		StreetAddress:        req.StreetAddress,
		Apartment:            req.Apartment,
		City:                 req.City,
		County:               req.County,
		PostalCode:           req.PostalCode,
		IsDefault:            req.IsDefault,
		DeliveryInstructions: req.DeliveryInstructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Address created successfully", address)
}

// ListMine returns all of the caller's addresses.
func (h *Address) ListMine(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), current.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Addresses retrieved successfully", addresses)
}

// Get returns one of the caller's addresses by id.
func (h *Address) Get(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid address id"})
		return
	}

	address, err := h.addressService.Get(c.Request.Context(), addressID, current.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Operation successful", address)
}

type updateAddressRequest struct {
	StreetAddress        *string `json:"street_address"`
	Apartment            *string `json:"apartment"`
	City                 *string `json:"city"`
	County               *string `json:"county"`
	PostalCode           *string `json:"postal_code"`
	IsDefault            *bool   `json:"is_default"`
	DeliveryInstructions *string `json:"delivery_instructions"`
}

// Update applies a partial update to one of the caller's addresses.
func (h *Address) Update(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid address id"})
		return
	}

	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), addressID, current.ID, model.AddressUpdate{
		StreetAddress:        req.StreetAddress,
		Apartment:            req.Apartment,
		City:                 req.City,
		County:               req.County,
		PostalCode:           req.PostalCode,
		IsDefault:            req.IsDefault,
		DeliveryInstructions: req.DeliveryInstructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Address updated", address)
}

// SetDefault makes the address the caller's default delivery address.
func (h *Address) SetDefault(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid address id"})
		return
	}

	address, err := h.addressService.SetDefault(c.Request.Context(), addressID, current.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Default address updated", address)
}

// Delete soft-deletes one of the caller's addresses.
func (h *Address) Delete(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid address id"})
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), addressID, current.ID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Address deleted", nil)
}
