package catalog

import (
	"strings"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MediaType is the channel a slot (or addon) is published on
type MediaType string

const (
	MediaTypeWebsite  MediaType = "website"
	MediaTypeMobile   MediaType = "mobile"
	MediaTypeEmail    MediaType = "email"
	MediaTypeMagazine MediaType = "magazine"
	MediaTypeWhatsApp MediaType = "whatsapp"
)

// IsValid checks if the media type is known
func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeWebsite, MediaTypeMobile, MediaTypeEmail, MediaTypeMagazine, MediaTypeWhatsApp:
		return true
	}
	return false
}

// IsPrint reports whether the placement is handled by the material team
func (m MediaType) IsPrint() bool {
	return m == MediaTypeMagazine
}

// SlotStatus represents the availability of a slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusPending   SlotStatus = "pending"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusExpired   SlotStatus = "expired"
)

// IsValid checks if the status is a valid slot status
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusPending, SlotStatusBooked, SlotStatusExpired:
		return true
	}
	return false
}

// String returns the string representation
func (s SlotStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the slot can move to the target status.
// Expired is a catalog retirement and is terminal.
func (s SlotStatus) CanTransitionTo(target SlotStatus) bool {
	switch s {
	case SlotStatusAvailable:
		return target == SlotStatusPending || target == SlotStatusExpired
	case SlotStatusPending:
		return target == SlotStatusBooked || target == SlotStatusAvailable || target == SlotStatusExpired
	case SlotStatusBooked:
		return target == SlotStatusAvailable || target == SlotStatusExpired
	default:
		return false
	}
}

// Slot is a bookable ad placement.
// Its status is only ever changed by the booking engines.
type Slot struct {
	shared.BaseAggregateRoot
	Code               string
	Name               string
	PageType           string
	MediaType          MediaType
	Position           string
	Dimensions         string
	Price              decimal.Decimal
	PricingUnit        PricingUnit
	Status             SlotStatus
	MagazinePageNumber *int
	// HeldBy is the work order currently holding (pending) or booking the slot
	HeldBy *uuid.UUID
}

// NewSlot creates a new available slot
func NewSlot(code, name string, mediaType MediaType, price decimal.Decimal, unit PricingUnit) (*Slot, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewValidationError("slot code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("slot name cannot be empty")
	}
	if !mediaType.IsValid() {
		return nil, shared.NewValidationError("unknown media type %q", mediaType)
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("slot price cannot be negative")
	}
	if !unit.IsValid() {
		return nil, shared.NewValidationError("unknown pricing unit %q", unit)
	}
	return &Slot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		MediaType:         mediaType,
		Price:             price,
		PricingUnit:       unit,
		Status:            SlotStatusAvailable,
	}, nil
}

// IsAvailable reports whether the slot can be put into a new draft
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

// Reserve holds the slot for a draft work order (available -> pending)
func (s *Slot) Reserve(workOrderID uuid.UUID) error {
	if !s.IsAvailable() {
		return shared.NewValidationError("slot %s is not available (status %s)", s.Code, s.Status)
	}
	s.transition(SlotStatusPending)
	s.HeldBy = &workOrderID
	s.AddDomainEvent(NewSlotStatusChangedEvent(s, SlotStatusAvailable))
	return nil
}

// Book confirms the hold once the work order is paid (pending -> booked)
func (s *Slot) Book(workOrderID uuid.UUID) error {
	if err := s.requireHolder(workOrderID); err != nil {
		return err
	}
	if s.Status != SlotStatusPending {
		return shared.NewInvalidTransitionError("slot", string(s.Status), "book")
	}
	s.transition(SlotStatusBooked)
	s.AddDomainEvent(NewSlotStatusChangedEvent(s, SlotStatusPending))
	return nil
}

// Release frees a pending or booked slot held by workOrderID.
// Releasing a slot the order no longer holds is a no-op so that cleanup
// after rejection or completion stays idempotent.
func (s *Slot) Release(workOrderID uuid.UUID) error {
	if s.HeldBy == nil || *s.HeldBy != workOrderID {
		return nil
	}
	if s.Status != SlotStatusPending && s.Status != SlotStatusBooked {
		return nil
	}
	from := s.Status
	s.transition(SlotStatusAvailable)
	s.HeldBy = nil
	s.AddDomainEvent(NewSlotStatusChangedEvent(s, from))
	return nil
}

// Retire takes the slot out of the catalog
func (s *Slot) Retire() error {
	if !s.Status.CanTransitionTo(SlotStatusExpired) {
		return shared.NewInvalidTransitionError("slot", string(s.Status), "retire")
	}
	from := s.Status
	s.transition(SlotStatusExpired)
	s.HeldBy = nil
	s.AddDomainEvent(NewSlotStatusChangedEvent(s, from))
	return nil
}

func (s *Slot) requireHolder(workOrderID uuid.UUID) error {
	if s.HeldBy == nil || *s.HeldBy != workOrderID {
		return shared.NewValidationError("slot %s is not held by work order %s", s.Code, workOrderID)
	}
	return nil
}

func (s *Slot) transition(to SlotStatus) {
	s.Status = to
	s.Touch()
}
