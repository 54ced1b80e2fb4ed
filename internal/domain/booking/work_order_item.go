package booking

import (
	"time"

	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddonType is a non-slot extra sold with a booking
type AddonType string

const (
	AddonTypeEmail    AddonType = "email"
	AddonTypeWhatsApp AddonType = "whatsapp"
)

// IsValid checks if the addon type is known
func (a AddonType) IsValid() bool {
	return a == AddonTypeEmail || a == AddonTypeWhatsApp
}

// MediaType returns the media channel an addon is delivered over
func (a AddonType) MediaType() catalog.MediaType {
	if a == AddonTypeWhatsApp {
		return catalog.MediaTypeWhatsApp
	}
	return catalog.MediaTypeEmail
}

// WorkOrderItem is one line of a work order: either a slot or an addon.
type WorkOrderItem struct {
	ID               uuid.UUID
	WorkOrderID      uuid.UUID
	SlotID           *uuid.UUID
	AddonType        *AddonType
	MediaType        catalog.MediaType
	StartDate        time.Time
	EndDate          time.Time
	PricingUnit      catalog.PricingUnit
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
	BannerURL        *string
	BannerUploadedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func validatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewValidationError("start and end dates are required")
	}
	if !end.After(start) {
		return shared.NewValidationError("end date must be after start date")
	}
	return nil
}

// NewSlotItem creates an item for a catalog slot.
// A nil unitPrice falls back to the slot's catalog price.
func NewSlotItem(slot *catalog.Slot, start, end time.Time, unitPrice *decimal.Decimal) (WorkOrderItem, error) {
	if slot == nil {
		return WorkOrderItem{}, shared.NewValidationError("slot is required")
	}
	if err := validatePeriod(start, end); err != nil {
		return WorkOrderItem{}, err
	}
	price := slot.Price
	if unitPrice != nil {
		price = *unitPrice
	}
	if price.IsNegative() {
		return WorkOrderItem{}, shared.NewValidationError("unit price cannot be negative")
	}
	slotID := slot.ID
	return newItem(&slotID, nil, slot.MediaType, start, end, slot.PricingUnit, price), nil
}

// NewAddonItem creates an addon item. Addons have no catalog price and are
// charged once per booking.
func NewAddonItem(addon AddonType, start, end time.Time, unitPrice decimal.Decimal) (WorkOrderItem, error) {
	if !addon.IsValid() {
		return WorkOrderItem{}, shared.NewValidationError("unknown addon type %q", addon)
	}
	if err := validatePeriod(start, end); err != nil {
		return WorkOrderItem{}, err
	}
	if !unitPrice.IsPositive() {
		return WorkOrderItem{}, shared.NewValidationError("addon unit price must be greater than zero")
	}
	return newItem(nil, &addon, addon.MediaType(), start, end, catalog.PricingFlat, unitPrice), nil
}

func newItem(slotID *uuid.UUID, addon *AddonType, media catalog.MediaType, start, end time.Time, unit catalog.PricingUnit, price decimal.Decimal) WorkOrderItem {
	now := time.Now()
	qty := unit.Quantity(start, end)
	return WorkOrderItem{
		ID:          uuid.New(),
		SlotID:      slotID,
		AddonType:   addon,
		MediaType:   media,
		StartDate:   start,
		EndDate:     end,
		PricingUnit: unit,
		Quantity:    qty,
		UnitPrice:   price,
		Subtotal:    price.Mul(qty),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAddon reports whether the item is an addon rather than a slot booking
func (i *WorkOrderItem) IsAddon() bool {
	return i.AddonType != nil
}

// HasBanner reports whether a creative has been uploaded
func (i *WorkOrderItem) HasBanner() bool {
	return i.BannerURL != nil && *i.BannerURL != ""
}

func (i *WorkOrderItem) setUnitPrice(price decimal.Decimal) {
	i.UnitPrice = price
	i.Subtotal = price.Mul(i.Quantity)
	i.UpdatedAt = time.Now()
}

func (i *WorkOrderItem) setBanner(url string) {
	now := time.Now()
	i.BannerURL = &url
	i.BannerUploadedAt = &now
	i.UpdatedAt = now
}
