package booking

import (
	"strings"
	"time"

	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderStatus represents the status of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusDraft          WorkOrderStatus = "draft"
	WorkOrderStatusQuoted         WorkOrderStatus = "quoted"
	WorkOrderStatusClientAccepted WorkOrderStatus = "client_accepted"
	WorkOrderStatusPaid           WorkOrderStatus = "paid"
	WorkOrderStatusActive         WorkOrderStatus = "active"
	WorkOrderStatusCompleted      WorkOrderStatus = "completed"
	WorkOrderStatusRejected       WorkOrderStatus = "rejected"
)

// IsValid checks if the status is a valid work order status
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusDraft, WorkOrderStatusQuoted, WorkOrderStatusClientAccepted,
		WorkOrderStatusPaid, WorkOrderStatusActive, WorkOrderStatusCompleted, WorkOrderStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s WorkOrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusCompleted || s == WorkOrderStatusRejected
}

// IsPaidOrLater reports whether payment has been collected
func (s WorkOrderStatus) IsPaidOrLater() bool {
	return s == WorkOrderStatusPaid || s == WorkOrderStatusActive || s == WorkOrderStatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status.
// client_accepted -> quoted is the re-quote after a negotiation request.
func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	switch s {
	case WorkOrderStatusDraft:
		return target == WorkOrderStatusQuoted || target == WorkOrderStatusRejected
	case WorkOrderStatusQuoted:
		return target == WorkOrderStatusClientAccepted || target == WorkOrderStatusRejected
	case WorkOrderStatusClientAccepted:
		return target == WorkOrderStatusPaid || target == WorkOrderStatusRejected || target == WorkOrderStatusQuoted
	case WorkOrderStatusPaid:
		return target == WorkOrderStatusActive
	case WorkOrderStatusActive:
		return target == WorkOrderStatusCompleted
	default:
		return false
	}
}

// PaymentMode is how the client intends to settle the order
type PaymentMode string

const (
	PaymentModeFull        PaymentMode = "full"
	PaymentModeInstallment PaymentMode = "installment"
	PaymentModePayLater    PaymentMode = "pay_later"
)

// IsValid checks if the payment mode is known
func (m PaymentMode) IsValid() bool {
	return m == PaymentModeFull || m == PaymentModeInstallment || m == PaymentModePayLater
}

// PriceAdjustment sets a new unit price on one item during quoting
type PriceAdjustment struct {
	ItemID    uuid.UUID
	UnitPrice decimal.Decimal
}

// WorkOrder is a client's itemized booking request.
// It is the aggregate root for work order items; it is never deleted, only
// status-terminated.
type WorkOrder struct {
	shared.BaseAggregateRoot
	Number               string
	ClientID             uuid.UUID
	Status               WorkOrderStatus
	PaymentMode          PaymentMode
	TotalAmount          decimal.Decimal
	Items                []WorkOrderItem
	POURL                *string
	POApproved           bool
	POApprovedBy         *uuid.UUID
	NegotiationRequested bool
	NegotiationReason    string
	RejectionReason      string
	RejectedBy           *uuid.UUID
	QuotedAt             *time.Time
	AcceptedAt           *time.Time
	PaidAt               *time.Time
	ActivatedAt          *time.Time
	CompletedAt          *time.Time
	RejectedAt           *time.Time
}

// NewWorkOrder creates a draft work order from already validated items.
// Slot reservation is the caller's job; it must happen in the same transaction.
func NewWorkOrder(number string, clientID uuid.UUID, mode PaymentMode, items []WorkOrderItem) (*WorkOrder, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client id is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("work order number cannot be empty")
	}
	if mode == "" {
		mode = PaymentModeFull
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("unknown payment mode %q", mode)
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("work order must contain at least one item")
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.SlotID == nil {
			continue
		}
		if _, dup := seen[*item.SlotID]; dup {
			return nil, shared.NewValidationError("slot %s appears more than once", *item.SlotID)
		}
		seen[*item.SlotID] = struct{}{}
	}

	order := &WorkOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		Status:            WorkOrderStatusDraft,
		PaymentMode:       mode,
		Items:             make([]WorkOrderItem, len(items)),
	}
	copy(order.Items, items)
	for i := range order.Items {
		order.Items[i].WorkOrderID = order.ID
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewWorkOrderCreatedEvent(order))
	return order, nil
}

// OwnedBy reports whether clientID placed this order
func (o *WorkOrder) OwnedBy(clientID uuid.UUID) bool {
	return o.ClientID == clientID
}

func (o *WorkOrder) requireOwner(clientID uuid.UUID) error {
	if !o.OwnedBy(clientID) {
		return shared.NewForbiddenError("work order %s does not belong to this client", o.Number)
	}
	return nil
}

// Quote sets the negotiated prices and moves the order to quoted.
// From client_accepted it is a re-quote and is only legal while a
// negotiation request is open; it clears that request.
func (o *WorkOrder) Quote(actorID uuid.UUID, adjustments []PriceAdjustment) error {
	requote := false
	switch {
	case o.Status == WorkOrderStatusDraft:
	case o.Status == WorkOrderStatusClientAccepted && o.NegotiationRequested:
		requote = true
	default:
		return shared.NewInvalidTransitionError("work order", string(o.Status), "quote")
	}

	for _, adj := range adjustments {
		if adj.UnitPrice.IsNegative() {
			return shared.NewValidationError("unit price cannot be negative")
		}
		if o.ItemByID(adj.ItemID) == nil {
			return shared.NewValidationError("item %s is not part of work order %s", adj.ItemID, o.Number)
		}
	}
	for _, adj := range adjustments {
		item := o.ItemByID(adj.ItemID)
		item.setUnitPrice(adj.UnitPrice)
	}
	o.recalculateTotal()

	now := time.Now()
	o.Status = WorkOrderStatusQuoted
	o.QuotedAt = &now
	o.NegotiationRequested = false
	o.NegotiationReason = ""
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderQuotedEvent(o, actorID, requote))
	return nil
}

// Accept records the client's acceptance of the quote
func (o *WorkOrder) Accept(clientID uuid.UUID) error {
	if err := o.requireOwner(clientID); err != nil {
		return err
	}
	if o.Status != WorkOrderStatusQuoted {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "accept")
	}
	now := time.Now()
	o.Status = WorkOrderStatusClientAccepted
	o.AcceptedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderAcceptedEvent(o))
	return nil
}

// RequestNegotiation flags the accepted quote for revision without rejecting it
func (o *WorkOrder) RequestNegotiation(clientID uuid.UUID, reason string) error {
	if err := o.requireOwner(clientID); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("negotiation reason is required")
	}
	if o.Status != WorkOrderStatusClientAccepted {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "request negotiation on")
	}
	o.NegotiationRequested = true
	o.NegotiationReason = reason
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewNegotiationRequestedEvent(o))
	return nil
}

// Reject terminates the order before payment. Clients may only reject their own orders.
// Releasing the held slots is done by the caller with SlotIDs.
func (o *WorkOrder) Reject(actor identity.Actor, reason string) error {
	if actor.Role == identity.RoleClient {
		if err := o.requireOwner(actor.ID); err != nil {
			return err
		}
	}
	if !o.Status.CanTransitionTo(WorkOrderStatusRejected) {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "reject")
	}
	now := time.Now()
	o.Status = WorkOrderStatusRejected
	o.RejectionReason = strings.TrimSpace(reason)
	o.RejectedBy = &actor.ID
	o.RejectedAt = &now
	o.NegotiationRequested = false
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderRejectedEvent(o, actor))
	return nil
}

// MarkPaid moves an accepted order to paid. Items are frozen from here on.
func (o *WorkOrder) MarkPaid() error {
	if o.Status != WorkOrderStatusClientAccepted {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "mark paid")
	}
	now := time.Now()
	o.Status = WorkOrderStatusPaid
	o.PaidAt = &now
	o.NegotiationRequested = false
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderPaidEvent(o))
	return nil
}

// Activate marks the campaign live once its release order is fully deployed
func (o *WorkOrder) Activate() error {
	if o.Status != WorkOrderStatusPaid {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "activate")
	}
	now := time.Now()
	o.Status = WorkOrderStatusActive
	o.ActivatedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderActivatedEvent(o))
	return nil
}

// Complete closes an active order
func (o *WorkOrder) Complete(actorID uuid.UUID) error {
	if o.Status != WorkOrderStatusActive {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "complete")
	}
	now := time.Now()
	o.Status = WorkOrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderCompletedEvent(o, actorID))
	return nil
}

// UploadPurchaseOrder attaches the client's PO document; a new upload needs approval again
func (o *WorkOrder) UploadPurchaseOrder(clientID uuid.UUID, url string) error {
	if err := o.requireOwner(clientID); err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return shared.NewValidationError("purchase order url is required")
	}
	if o.Status != WorkOrderStatusQuoted && o.Status != WorkOrderStatusClientAccepted {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "upload purchase order for")
	}
	o.POURL = &url
	o.POApproved = false
	o.POApprovedBy = nil
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewPurchaseOrderUploadedEvent(o))
	return nil
}

// ApprovePurchaseOrder accepts the uploaded PO
func (o *WorkOrder) ApprovePurchaseOrder(actorID uuid.UUID) error {
	if o.POURL == nil {
		return shared.NewValidationError("work order %s has no purchase order to approve", o.Number)
	}
	if o.Status.IsTerminal() {
		return shared.NewInvalidTransitionError("work order", string(o.Status), "approve purchase order for")
	}
	o.POApproved = true
	o.POApprovedBy = &actorID
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o, actorID))
	return nil
}

// UploadBanner sets the creative for one slot item.
// Allowed in client_accepted or paid, only once a proforma invoice exists,
// and before payment only with an approved purchase order.
func (o *WorkOrder) UploadBanner(clientID, itemID uuid.UUID, bannerURL string, hasProforma bool) (*WorkOrderItem, error) {
	if err := o.requireOwner(clientID); err != nil {
		return nil, err
	}
	bannerURL = strings.TrimSpace(bannerURL)
	if bannerURL == "" {
		return nil, shared.NewValidationError("banner url is required")
	}
	if o.Status != WorkOrderStatusClientAccepted && o.Status != WorkOrderStatusPaid {
		return nil, shared.NewInvalidTransitionError("work order", string(o.Status), "upload banner for")
	}
	if !hasProforma {
		return nil, shared.NewInvalidTransitionError("work order", "without proforma invoice", "upload banner for")
	}
	if o.Status == WorkOrderStatusClientAccepted && !o.POApproved {
		return nil, shared.NewInvalidTransitionError("work order", "without approved purchase order", "upload banner for")
	}
	item := o.ItemByID(itemID)
	if item == nil {
		return nil, shared.NewValidationError("item %s is not part of work order %s", itemID, o.Number)
	}
	if item.IsAddon() {
		return nil, shared.NewValidationError("addon items do not take banners")
	}
	item.setBanner(bannerURL)
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewBannerUploadedEvent(o, item))
	return item, nil
}

// ItemByID returns a pointer into Items, or nil
func (o *WorkOrder) ItemByID(id uuid.UUID) *WorkOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// SlotIDs returns the slots referenced by the order's items
func (o *WorkOrder) SlotIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if item.SlotID != nil {
			ids = append(ids, *item.SlotID)
		}
	}
	return ids
}

// SlotItems returns the non-addon items
func (o *WorkOrder) SlotItems() []WorkOrderItem {
	items := make([]WorkOrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if !item.IsAddon() {
			items = append(items, item)
		}
	}
	return items
}

// CheckInvariants verifies that the total matches the items.
// Repositories call it before every write.
func (o *WorkOrder) CheckInvariants() error {
	sum := decimal.Zero
	for _, item := range o.Items {
		if (item.SlotID == nil) == (item.AddonType == nil) {
			return shared.NewValidationError("item %s must reference exactly one of slot or addon", item.ID)
		}
		if !item.Subtotal.Equal(item.UnitPrice.Mul(item.Quantity)) {
			return shared.NewValidationError("item %s subtotal does not match unit price", item.ID)
		}
		sum = sum.Add(item.Subtotal)
	}
	if !sum.Equal(o.TotalAmount) {
		return shared.NewValidationError("work order %s total %s does not equal item sum %s",
			o.Number, o.TotalAmount.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

func (o *WorkOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total
}

// MediaTypes returns the distinct media types of slot items
func (o *WorkOrder) MediaTypes() []catalog.MediaType {
	seen := make(map[catalog.MediaType]struct{})
	types := make([]catalog.MediaType, 0)
	for _, item := range o.Items {
		if _, ok := seen[item.MediaType]; ok {
			continue
		}
		seen[item.MediaType] = struct{}{}
		types = append(types, item.MediaType)
	}
	return types
}
