package release

import (
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeReleaseOrder = "ReleaseOrder"

// Event type constants
const (
	EventTypeReleaseOrderCreated       = "ReleaseOrderCreated"
	EventTypeReleaseOrderStatusChanged = "ReleaseOrderStatusChanged"
	EventTypeReleaseOrderRejected      = "ReleaseOrderRejected"
	EventTypeReleaseOrderAccepted      = "ReleaseOrderAccepted"
	EventTypePaymentStatusChanged      = "ReleaseOrderPaymentStatusChanged"
	EventTypeItemProcessed             = "ReleaseOrderItemProcessed"
	EventTypeItemDeployed              = "ReleaseOrderItemDeployed"
)

// ReleaseOrderRef identifies the order in every release order event
type ReleaseOrderRef struct {
	ReleaseOrderID uuid.UUID `json:"release_order_id"`
	Number         string    `json:"number"`
	WorkOrderID    uuid.UUID `json:"work_order_id"`
	ClientID       uuid.UUID `json:"client_id"`
}

func refOf(r *ReleaseOrder) ReleaseOrderRef {
	return ReleaseOrderRef{
		ReleaseOrderID: r.ID,
		Number:         r.Number,
		WorkOrderID:    r.WorkOrderID,
		ClientID:       r.ClientID,
	}
}

// ReleaseOrderCreatedEvent is raised when a paid work order spawns its release order
type ReleaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	ItemCount int `json:"item_count"`
}

// NewReleaseOrderCreatedEvent creates a new ReleaseOrderCreatedEvent
func NewReleaseOrderCreatedEvent(r *ReleaseOrder) *ReleaseOrderCreatedEvent {
	return &ReleaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReleaseOrderCreated, AggregateTypeReleaseOrder, r.ID, uuid.Nil),
		ReleaseOrderRef: refOf(r),
		ItemCount:       len(r.Items),
	}
}

// EventType returns the event type name
func (e *ReleaseOrderCreatedEvent) EventType() string {
	return EventTypeReleaseOrderCreated
}

// StatusChangedEvent is raised on every forward move: routing, banner
// completion, approvals and deployment.
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	FromStatus Status `json:"from_status"`
	ToStatus   Status `json:"to_status"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(r *ReleaseOrder, from Status, actorID uuid.UUID) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReleaseOrderStatusChanged, AggregateTypeReleaseOrder, r.ID, actorID),
		ReleaseOrderRef: refOf(r),
		FromStatus:      from,
		ToStatus:        r.Status,
	}
}

// EventType returns the event type name
func (e *StatusChangedEvent) EventType() string {
	return EventTypeReleaseOrderStatusChanged
}

// ReleaseOrderRejectedEvent is raised when a reviewer sends the order one stage back
type ReleaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	FromStatus   Status        `json:"from_status"`
	ToStatus     Status        `json:"to_status"`
	Reason       string        `json:"reason"`
	RejectedRole identity.Role `json:"rejected_role"`
}

// NewReleaseOrderRejectedEvent creates a new ReleaseOrderRejectedEvent
func NewReleaseOrderRejectedEvent(r *ReleaseOrder, actor identity.Actor, from Status) *ReleaseOrderRejectedEvent {
	return &ReleaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReleaseOrderRejected, AggregateTypeReleaseOrder, r.ID, actor.ID),
		ReleaseOrderRef: refOf(r),
		FromStatus:      from,
		ToStatus:        r.Status,
		Reason:          r.RejectionReason,
		RejectedRole:    actor.Role,
	}
}

// EventType returns the event type name
func (e *ReleaseOrderRejectedEvent) EventType() string {
	return EventTypeReleaseOrderRejected
}

// ReleaseOrderAcceptedEvent is raised when PV Sir approves; it carries the lanes to notify
type ReleaseOrderAcceptedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	Lanes []Lane `json:"lanes"`
}

// NewReleaseOrderAcceptedEvent creates a new ReleaseOrderAcceptedEvent
func NewReleaseOrderAcceptedEvent(r *ReleaseOrder, actorID uuid.UUID) *ReleaseOrderAcceptedEvent {
	return &ReleaseOrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReleaseOrderAccepted, AggregateTypeReleaseOrder, r.ID, actorID),
		ReleaseOrderRef: refOf(r),
		Lanes:           r.Lanes(),
	}
}

// EventType returns the event type name
func (e *ReleaseOrderAcceptedEvent) EventType() string {
	return EventTypeReleaseOrderAccepted
}

// PaymentStatusChangedEvent is raised when collection progresses
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	PaymentStatus PaymentStatus `json:"payment_status"`
	Lanes         []Lane        `json:"lanes"`
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(r *ReleaseOrder, actorID uuid.UUID) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, AggregateTypeReleaseOrder, r.ID, actorID),
		ReleaseOrderRef: refOf(r),
		PaymentStatus:   r.PaymentStatus,
		Lanes:           r.Lanes(),
	}
}

// EventType returns the event type name
func (e *PaymentStatusChangedEvent) EventType() string {
	return EventTypePaymentStatusChanged
}

// ItemProcessedEvent is raised when a lane team finishes an item without deploying
type ItemProcessedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	ItemID uuid.UUID `json:"item_id"`
	Lane   Lane      `json:"lane"`
}

// NewItemProcessedEvent creates a new ItemProcessedEvent
func NewItemProcessedEvent(r *ReleaseOrder, item *Item, actorID uuid.UUID) *ItemProcessedEvent {
	return &ItemProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemProcessed, AggregateTypeReleaseOrder, r.ID, actorID),
		ReleaseOrderRef: refOf(r),
		ItemID:          item.ID,
		Lane:            item.Lane,
	}
}

// EventType returns the event type name
func (e *ItemProcessedEvent) EventType() string {
	return EventTypeItemProcessed
}

// ItemDeployedEvent is raised when an item gets a live deployment
type ItemDeployedEvent struct {
	shared.BaseDomainEvent
	ReleaseOrderRef
	ItemID       uuid.UUID `json:"item_id"`
	DeploymentID uuid.UUID `json:"deployment_id"`
	Lane         Lane      `json:"lane"`
}

// NewItemDeployedEvent creates a new ItemDeployedEvent
func NewItemDeployedEvent(r *ReleaseOrder, item *Item, actorID uuid.UUID) *ItemDeployedEvent {
	return &ItemDeployedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeployed, AggregateTypeReleaseOrder, r.ID, actorID),
		ReleaseOrderRef: refOf(r),
		ItemID:          item.ID,
		DeploymentID:    *item.LiveDeploymentID,
		Lane:            item.Lane,
	}
}

// EventType returns the event type name
func (e *ItemDeployedEvent) EventType() string {
	return EventTypeItemDeployed
}
