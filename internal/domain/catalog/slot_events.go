package catalog

import (
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeSlot is the aggregate type name for slots
const AggregateTypeSlot = "Slot"

// EventTypeSlotStatusChanged is published whenever a slot is reserved, booked or released
const EventTypeSlotStatusChanged = "SlotStatusChanged"

// SlotStatusChangedEvent records a slot availability change
type SlotStatusChangedEvent struct {
	shared.BaseDomainEvent
	SlotID      uuid.UUID  `json:"slot_id"`
	SlotCode    string     `json:"slot_code"`
	FromStatus  SlotStatus `json:"from_status"`
	ToStatus    SlotStatus `json:"to_status"`
	WorkOrderID *uuid.UUID `json:"work_order_id,omitempty"`
}

// NewSlotStatusChangedEvent creates the event from the slot's current state
func NewSlotStatusChangedEvent(s *Slot, from SlotStatus) *SlotStatusChangedEvent {
	return &SlotStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSlotStatusChanged, AggregateTypeSlot, s.ID, uuid.Nil),
		SlotID:          s.ID,
		SlotCode:        s.Code,
		FromStatus:      from,
		ToStatus:        s.Status,
		WorkOrderID:     s.HeldBy,
	}
}

// EventType returns the event type name
func (e *SlotStatusChangedEvent) EventType() string {
	return EventTypeSlotStatusChanged
}
