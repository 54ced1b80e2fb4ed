package finance

import (
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceIssued   = "InvoiceIssued"
	EventTypePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeInvoiceFailed   = "InvoiceFailed"
)

// InvoiceRef identifies the invoice in every invoice event
type InvoiceRef struct {
	InvoiceID      uuid.UUID   `json:"invoice_id"`
	Number         string      `json:"number"`
	InvoiceType    InvoiceType `json:"invoice_type"`
	WorkOrderID    uuid.UUID   `json:"work_order_id"`
	ReleaseOrderID *uuid.UUID  `json:"release_order_id,omitempty"`
	ClientID       uuid.UUID   `json:"client_id"`
}

func refOf(i *Invoice) InvoiceRef {
	return InvoiceRef{
		InvoiceID:      i.ID,
		Number:         i.Number,
		InvoiceType:    i.Type,
		WorkOrderID:    i.WorkOrderID,
		ReleaseOrderID: i.ReleaseOrderID,
		ClientID:       i.ClientID,
	}
}

// InvoiceIssuedEvent is raised for every new proforma or tax invoice
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceRef
	Amount decimal.Decimal `json:"amount"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(i *Invoice, actorID uuid.UUID) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeInvoice, i.ID, actorID),
		InvoiceRef:      refOf(i),
		Amount:          i.Amount,
	}
}

// EventType returns the event type name
func (e *InvoiceIssuedEvent) EventType() string {
	return EventTypeInvoiceIssued
}

// PaymentRecordedEvent is raised when money is applied to an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceRef
	PaidNow    decimal.Decimal `json:"paid_now"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Completed  bool            `json:"completed"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(i *Invoice, paidNow decimal.Decimal, actorID uuid.UUID) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeInvoice, i.ID, actorID),
		InvoiceRef:      refOf(i),
		PaidNow:         paidNow,
		PaidAmount:      i.PaidAmount,
		Completed:       i.Status == InvoiceStatusCompleted,
	}
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// InvoiceFailedEvent is raised when an invoice is voided
type InvoiceFailedEvent struct {
	shared.BaseDomainEvent
	InvoiceRef
	Reason string `json:"reason"`
}

// NewInvoiceFailedEvent creates a new InvoiceFailedEvent
func NewInvoiceFailedEvent(i *Invoice) *InvoiceFailedEvent {
	return &InvoiceFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceFailed, AggregateTypeInvoice, i.ID, uuid.Nil),
		InvoiceRef:      refOf(i),
		Reason:          i.FailureReason,
	}
}

// EventType returns the event type name
func (e *InvoiceFailedEvent) EventType() string {
	return EventTypeInvoiceFailed
}
