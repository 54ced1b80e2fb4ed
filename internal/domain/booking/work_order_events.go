package booking

import (
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeWorkOrder = "WorkOrder"

// Event type constants
const (
	EventTypeWorkOrderCreated      = "WorkOrderCreated"
	EventTypeWorkOrderQuoted       = "WorkOrderQuoted"
	EventTypeWorkOrderAccepted     = "WorkOrderAccepted"
	EventTypeNegotiationRequested  = "WorkOrderNegotiationRequested"
	EventTypeWorkOrderRejected     = "WorkOrderRejected"
	EventTypeWorkOrderPaid         = "WorkOrderPaid"
	EventTypeWorkOrderActivated    = "WorkOrderActivated"
	EventTypeWorkOrderCompleted    = "WorkOrderCompleted"
	EventTypePurchaseOrderUploaded = "PurchaseOrderUploaded"
	EventTypePurchaseOrderApproved = "PurchaseOrderApproved"
	EventTypeBannerUploaded        = "BannerUploaded"
)

// WorkOrderRef identifies the order in every work order event
type WorkOrderRef struct {
	WorkOrderID uuid.UUID `json:"work_order_id"`
	Number      string    `json:"number"`
	ClientID    uuid.UUID `json:"client_id"`
}

func refOf(o *WorkOrder) WorkOrderRef {
	return WorkOrderRef{WorkOrderID: o.ID, Number: o.Number, ClientID: o.ClientID}
}

// WorkOrderCreatedEvent is raised when a client submits a draft
type WorkOrderCreatedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewWorkOrderCreatedEvent creates a new WorkOrderCreatedEvent
func NewWorkOrderCreatedEvent(o *WorkOrder) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCreated, AggregateTypeWorkOrder, o.ID, o.ClientID),
		WorkOrderRef:    refOf(o),
		TotalAmount:     o.TotalAmount,
		ItemCount:       len(o.Items),
	}
}

// EventType returns the event type name
func (e *WorkOrderCreatedEvent) EventType() string {
	return EventTypeWorkOrderCreated
}

// WorkOrderQuotedEvent is raised when prices are set, including re-quotes
type WorkOrderQuotedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	TotalAmount decimal.Decimal `json:"total_amount"`
	Requote     bool            `json:"requote"`
}

// NewWorkOrderQuotedEvent creates a new WorkOrderQuotedEvent
func NewWorkOrderQuotedEvent(o *WorkOrder, actorID uuid.UUID, requote bool) *WorkOrderQuotedEvent {
	return &WorkOrderQuotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderQuoted, AggregateTypeWorkOrder, o.ID, actorID),
		WorkOrderRef:    refOf(o),
		TotalAmount:     o.TotalAmount,
		Requote:         requote,
	}
}

// EventType returns the event type name
func (e *WorkOrderQuotedEvent) EventType() string {
	return EventTypeWorkOrderQuoted
}

// WorkOrderAcceptedEvent is raised when the client accepts the quote
type WorkOrderAcceptedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewWorkOrderAcceptedEvent creates a new WorkOrderAcceptedEvent
func NewWorkOrderAcceptedEvent(o *WorkOrder) *WorkOrderAcceptedEvent {
	return &WorkOrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderAccepted, AggregateTypeWorkOrder, o.ID, o.ClientID),
		WorkOrderRef:    refOf(o),
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *WorkOrderAcceptedEvent) EventType() string {
	return EventTypeWorkOrderAccepted
}

// NegotiationRequestedEvent is raised when the client asks for a revised quote
type NegotiationRequestedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	Reason string `json:"reason"`
}

// NewNegotiationRequestedEvent creates a new NegotiationRequestedEvent
func NewNegotiationRequestedEvent(o *WorkOrder) *NegotiationRequestedEvent {
	return &NegotiationRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNegotiationRequested, AggregateTypeWorkOrder, o.ID, o.ClientID),
		WorkOrderRef:    refOf(o),
		Reason:          o.NegotiationReason,
	}
}

// EventType returns the event type name
func (e *NegotiationRequestedEvent) EventType() string {
	return EventTypeNegotiationRequested
}

// WorkOrderRejectedEvent is raised when the order is terminated before payment
type WorkOrderRejectedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	Reason     string        `json:"reason,omitempty"`
	RejectedBy identity.Role `json:"rejected_by"`
}

// NewWorkOrderRejectedEvent creates a new WorkOrderRejectedEvent
func NewWorkOrderRejectedEvent(o *WorkOrder, actor identity.Actor) *WorkOrderRejectedEvent {
	return &WorkOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderRejected, AggregateTypeWorkOrder, o.ID, actor.ID),
		WorkOrderRef:    refOf(o),
		Reason:          o.RejectionReason,
		RejectedBy:      actor.Role,
	}
}

// EventType returns the event type name
func (e *WorkOrderRejectedEvent) EventType() string {
	return EventTypeWorkOrderRejected
}

// WorkOrderPaidEvent is raised once completed proformas cover the total
type WorkOrderPaidEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewWorkOrderPaidEvent creates a new WorkOrderPaidEvent
func NewWorkOrderPaidEvent(o *WorkOrder) *WorkOrderPaidEvent {
	return &WorkOrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderPaid, AggregateTypeWorkOrder, o.ID, uuid.Nil),
		WorkOrderRef:    refOf(o),
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *WorkOrderPaidEvent) EventType() string {
	return EventTypeWorkOrderPaid
}

// WorkOrderActivatedEvent is raised when every banner of the order is live
type WorkOrderActivatedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
}

// NewWorkOrderActivatedEvent creates a new WorkOrderActivatedEvent
func NewWorkOrderActivatedEvent(o *WorkOrder) *WorkOrderActivatedEvent {
	return &WorkOrderActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderActivated, AggregateTypeWorkOrder, o.ID, uuid.Nil),
		WorkOrderRef:    refOf(o),
	}
}

// EventType returns the event type name
func (e *WorkOrderActivatedEvent) EventType() string {
	return EventTypeWorkOrderActivated
}

// WorkOrderCompletedEvent is raised when the campaign is closed
type WorkOrderCompletedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
}

// NewWorkOrderCompletedEvent creates a new WorkOrderCompletedEvent
func NewWorkOrderCompletedEvent(o *WorkOrder, actorID uuid.UUID) *WorkOrderCompletedEvent {
	return &WorkOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCompleted, AggregateTypeWorkOrder, o.ID, actorID),
		WorkOrderRef:    refOf(o),
	}
}

// EventType returns the event type name
func (e *WorkOrderCompletedEvent) EventType() string {
	return EventTypeWorkOrderCompleted
}

// PurchaseOrderUploadedEvent is raised when the client attaches a PO
type PurchaseOrderUploadedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	POURL string `json:"po_url"`
}

// NewPurchaseOrderUploadedEvent creates a new PurchaseOrderUploadedEvent
func NewPurchaseOrderUploadedEvent(o *WorkOrder) *PurchaseOrderUploadedEvent {
	url := ""
	if o.POURL != nil {
		url = *o.POURL
	}
	return &PurchaseOrderUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderUploaded, AggregateTypeWorkOrder, o.ID, o.ClientID),
		WorkOrderRef:    refOf(o),
		POURL:           url,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderUploadedEvent) EventType() string {
	return EventTypePurchaseOrderUploaded
}

// PurchaseOrderApprovedEvent is raised when staff accept the PO
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(o *WorkOrder, actorID uuid.UUID) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypeWorkOrder, o.ID, actorID),
		WorkOrderRef:    refOf(o),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// BannerUploadedEvent is raised when a creative is set on an item
type BannerUploadedEvent struct {
	shared.BaseDomainEvent
	WorkOrderRef
	ItemID    uuid.UUID `json:"item_id"`
	BannerURL string    `json:"banner_url"`
}

// NewBannerUploadedEvent creates a new BannerUploadedEvent
func NewBannerUploadedEvent(o *WorkOrder, item *WorkOrderItem) *BannerUploadedEvent {
	return &BannerUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBannerUploaded, AggregateTypeWorkOrder, o.ID, o.ClientID),
		WorkOrderRef:    refOf(o),
		ItemID:          item.ID,
		BannerURL:       *item.BannerURL,
	}
}

// EventType returns the event type name
func (e *BannerUploadedEvent) EventType() string {
	return EventTypeBannerUploaded
}
