package release

import (
	"strings"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the approval stage of a release order
type Status string

const (
	StatusIssued               Status = "issued"
	StatusPendingBannerUpload  Status = "pending_banner_upload"
	StatusPendingManagerReview Status = "pending_manager_review"
	StatusPendingVPReview      Status = "pending_vp_review"
	StatusPendingPVReview      Status = "pending_pv_review"
	StatusAccepted             Status = "accepted"
	StatusDeployed             Status = "deployed"
)

// IsValid checks if the status is a valid release order status
func (s Status) IsValid() bool {
	switch s {
	case StatusIssued, StatusPendingBannerUpload, StatusPendingManagerReview,
		StatusPendingVPReview, StatusPendingPVReview, StatusAccepted, StatusDeployed:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsReview reports whether the status waits on a reviewer
func (s Status) IsReview() bool {
	return s == StatusPendingManagerReview || s == StatusPendingVPReview || s == StatusPendingPVReview
}

// IsAcceptedOrLater reports whether the approval chain is complete
func (s Status) IsAcceptedOrLater() bool {
	return s == StatusAccepted || s == StatusDeployed
}

// ReviewerRole returns the only role allowed to approve or reject in this stage
func (s Status) ReviewerRole() (identity.Role, bool) {
	switch s {
	case StatusPendingManagerReview:
		return identity.RoleManager, true
	case StatusPendingVPReview:
		return identity.RoleVP, true
	case StatusPendingPVReview:
		return identity.RolePVSir, true
	}
	return "", false
}

// Next returns the stage an approval moves to
func (s Status) Next() Status {
	switch s {
	case StatusPendingManagerReview:
		return StatusPendingVPReview
	case StatusPendingVPReview:
		return StatusPendingPVReview
	case StatusPendingPVReview:
		return StatusAccepted
	}
	return s
}

// Previous returns the stage a rejection sends the order back to, exactly one step
func (s Status) Previous() Status {
	switch s {
	case StatusPendingManagerReview:
		return StatusPendingBannerUpload
	case StatusPendingVPReview:
		return StatusPendingManagerReview
	case StatusPendingPVReview:
		return StatusPendingVPReview
	}
	return s
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusIssued:
		return target == StatusPendingBannerUpload || target == StatusPendingManagerReview
	case StatusPendingBannerUpload:
		return target == StatusPendingManagerReview
	case StatusPendingManagerReview, StatusPendingVPReview, StatusPendingPVReview:
		return target == s.Next() || target == s.Previous()
	case StatusAccepted:
		return target == StatusDeployed
	}
	return false
}

// PaymentStatus tracks collection against the release order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPartial || p == PaymentStatusCompleted
}

// ReleaseOrder carries a paid work order through the approval chain and into deployment.
type ReleaseOrder struct {
	shared.BaseAggregateRoot
	Number             string
	WorkOrderID        uuid.UUID
	ClientID           uuid.UUID
	Status             Status
	PaymentStatus      PaymentStatus
	RejectionReason    string
	RejectedBy         *uuid.UUID
	RejectedAt         *time.Time
	RejectedFromStatus *Status
	AccountsInvoiceURL *string
	AcceptedAt         *time.Time
	DeployedAt         *time.Time
	Items              []Item
}

// NewReleaseOrder issues the release order for a paid work order and routes it
// to banner upload or manager review.
func NewReleaseOrder(number string, wo *booking.WorkOrder) (*ReleaseOrder, error) {
	if wo == nil {
		return nil, shared.NewValidationError("work order is required")
	}
	if !wo.Status.IsPaidOrLater() {
		return nil, shared.NewInvalidTransitionError("release order for work order", string(wo.Status), "issue")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("release order number cannot be empty")
	}

	ro := &ReleaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		WorkOrderID:       wo.ID,
		ClientID:          wo.ClientID,
		Status:            StatusIssued,
		PaymentStatus:     PaymentStatusPending,
	}
	for _, woItem := range wo.SlotItems() {
		ro.Items = append(ro.Items, newItem(ro.ID, woItem))
	}
	ro.AddDomainEvent(NewReleaseOrderCreatedEvent(ro))

	if ro.allBannersPresent() {
		ro.moveTo(StatusPendingManagerReview, uuid.Nil)
	} else {
		ro.moveTo(StatusPendingBannerUpload, uuid.Nil)
	}
	return ro, nil
}

// AttachBanner mirrors a work order banner onto the release item and moves the
// order to manager review once every item has one. It reports whether the
// status changed.
func (r *ReleaseOrder) AttachBanner(workOrderItemID uuid.UUID, bannerURL string, actorID uuid.UUID) (bool, error) {
	if r.Status != StatusPendingBannerUpload && r.Status != StatusPendingManagerReview {
		return false, shared.NewInvalidTransitionError("release order", string(r.Status), "change banners on")
	}
	item := r.itemByWorkOrderItem(workOrderItemID)
	if item == nil {
		return false, shared.NewValidationError("work order item %s is not part of release order %s", workOrderItemID, r.Number)
	}
	item.BannerURL = &bannerURL
	r.Touch()

	if r.Status == StatusPendingBannerUpload && r.allBannersPresent() {
		r.moveTo(StatusPendingManagerReview, actorID)
		return true, nil
	}
	return false, nil
}

// Approve advances the order one stage. Only the stage's reviewer role may approve.
func (r *ReleaseOrder) Approve(actor identity.Actor) error {
	if err := r.requireReviewer(actor, "approve"); err != nil {
		return err
	}
	r.moveTo(r.Status.Next(), actor.ID)

	if r.Status == StatusAccepted {
		now := time.Now()
		r.AcceptedAt = &now
		r.AddDomainEvent(NewReleaseOrderAcceptedEvent(r, actor.ID))
		if len(r.Items) == 0 {
			// nothing to deploy
			r.markDeployed()
		}
	}
	return nil
}

// Reject sends the order exactly one stage back. Rejecting from manager review
// clears the banners of the listed items (all items if none are listed).
func (r *ReleaseOrder) Reject(actor identity.Actor, reason string, itemIDs []uuid.UUID) error {
	if err := r.requireReviewer(actor, "reject"); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("rejection reason is required")
	}

	from := r.Status
	if from == StatusPendingManagerReview {
		targets := r.Items
		if len(itemIDs) > 0 {
			targets = nil
			for _, id := range itemIDs {
				item := r.ItemByID(id)
				if item == nil {
					return shared.NewValidationError("item %s is not part of release order %s", id, r.Number)
				}
				targets = append(targets, *item)
			}
		}
		for _, t := range targets {
			r.ItemByID(t.ID).BannerURL = nil
		}
	}

	now := time.Now()
	r.RejectionReason = reason
	r.RejectedBy = &actor.ID
	r.RejectedAt = &now
	r.RejectedFromStatus = &from
	r.Status = from.Previous()
	r.Touch()
	r.AddDomainEvent(NewReleaseOrderRejectedEvent(r, actor, from))
	return nil
}

func (r *ReleaseOrder) requireReviewer(actor identity.Actor, op string) error {
	role, ok := r.Status.ReviewerRole()
	if !ok {
		return shared.NewInvalidTransitionError("release order", string(r.Status), op)
	}
	if actor.Role != role {
		return shared.NewForbiddenError("release order %s in %s can only be reviewed by %s", r.Number, r.Status, role)
	}
	return nil
}

// SetPaymentStatus records collection progress. Completed is never downgraded.
func (r *ReleaseOrder) SetPaymentStatus(status PaymentStatus, actorID uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewValidationError("unknown payment status %q", status)
	}
	if !r.Status.IsAcceptedOrLater() {
		return shared.NewInvalidTransitionError("release order", string(r.Status), "record payment on")
	}
	if r.PaymentStatus == PaymentStatusCompleted || r.PaymentStatus == status {
		return nil
	}
	r.PaymentStatus = status
	r.Touch()
	r.AddDomainEvent(NewPaymentStatusChangedEvent(r, actorID))
	return nil
}

// MarkPaymentCompleted is the accounts team confirming full collection
func (r *ReleaseOrder) MarkPaymentCompleted(actorID uuid.UUID) error {
	return r.SetPaymentStatus(PaymentStatusCompleted, actorID)
}

// IsPaymentCompleted reports whether deployment is unblocked by payment
func (r *ReleaseOrder) IsPaymentCompleted() bool {
	return r.PaymentStatus == PaymentStatusCompleted
}

// SetAccountsInvoiceURL records the tax invoice document
func (r *ReleaseOrder) SetAccountsInvoiceURL(url string) {
	r.AccountsInvoiceURL = &url
	r.Touch()
}

// CheckDeployable validates that actor may deploy the item now
func (r *ReleaseOrder) CheckDeployable(actor identity.Actor, itemID uuid.UUID, requirePayment bool) (*Item, error) {
	if !r.Status.IsAcceptedOrLater() {
		return nil, shared.NewInvalidTransitionError("release order", string(r.Status), "deploy banners for")
	}
	item := r.ItemByID(itemID)
	if item == nil {
		return nil, shared.NewValidationError("item %s is not part of release order %s", itemID, r.Number)
	}
	if err := actor.Require(item.Lane.DeployAction()); err != nil {
		return nil, err
	}
	if requirePayment && !r.IsPaymentCompleted() {
		return nil, shared.NewPaymentRequiredError("release order %s payment is %s", r.Number, r.PaymentStatus)
	}
	return item, nil
}

// RecordDeployment marks the item live under deploymentID. It reports whether
// the whole order became deployed.
func (r *ReleaseOrder) RecordDeployment(itemID, deploymentID, actorID uuid.UUID) (bool, error) {
	if !r.Status.IsAcceptedOrLater() {
		return false, shared.NewInvalidTransitionError("release order", string(r.Status), "deploy banners for")
	}
	item := r.ItemByID(itemID)
	if item == nil {
		return false, shared.NewValidationError("item %s is not part of release order %s", itemID, r.Number)
	}
	item.LiveDeploymentID = &deploymentID
	r.Touch()
	r.AddDomainEvent(NewItemDeployedEvent(r, item, actorID))

	if r.Status == StatusAccepted && r.allItemsLive() {
		r.markDeployed()
		return true, nil
	}
	return false, nil
}

// ClearDeployment drops the live marker when a deployment is removed or expires
func (r *ReleaseOrder) ClearDeployment(itemID, deploymentID uuid.UUID) {
	item := r.ItemByID(itemID)
	if item == nil || item.LiveDeploymentID == nil || *item.LiveDeploymentID != deploymentID {
		return
	}
	item.LiveDeploymentID = nil
	r.Touch()
}

// MarkItemProcessed records that the lane team has finished its workflow for the item
func (r *ReleaseOrder) MarkItemProcessed(actor identity.Actor, itemID uuid.UUID) (*Item, error) {
	if !r.Status.IsAcceptedOrLater() {
		return nil, shared.NewInvalidTransitionError("release order", string(r.Status), "process items of")
	}
	item := r.ItemByID(itemID)
	if item == nil {
		return nil, shared.NewValidationError("item %s is not part of release order %s", itemID, r.Number)
	}
	if err := actor.Require(item.Lane.ProcessAction()); err != nil {
		return nil, err
	}
	if item.ProcessedAt != nil {
		return item, nil
	}
	now := time.Now()
	item.ProcessedAt = &now
	item.ProcessedBy = &actor.ID
	r.Touch()
	r.AddDomainEvent(NewItemProcessedEvent(r, item, actor.ID))
	return item, nil
}

// Lanes returns the distinct lanes of the order's items
func (r *ReleaseOrder) Lanes() []Lane {
	var lanes []Lane
	seen := make(map[Lane]bool)
	for _, item := range r.Items {
		if !seen[item.Lane] {
			seen[item.Lane] = true
			lanes = append(lanes, item.Lane)
		}
	}
	return lanes
}

// PendingIn reports whether the lane team still has work on this order
func (r *ReleaseOrder) PendingIn(lane Lane) bool {
	if r.Status != StatusAccepted {
		return false
	}
	for _, item := range r.Items {
		if item.Lane == lane && item.IsPending() {
			return true
		}
	}
	return false
}

// ItemByID returns a pointer into Items, or nil
func (r *ReleaseOrder) ItemByID(id uuid.UUID) *Item {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

func (r *ReleaseOrder) itemByWorkOrderItem(id uuid.UUID) *Item {
	for i := range r.Items {
		if r.Items[i].WorkOrderItemID == id {
			return &r.Items[i]
		}
	}
	return nil
}

func (r *ReleaseOrder) allBannersPresent() bool {
	for _, item := range r.Items {
		if !item.HasBanner() {
			return false
		}
	}
	return true
}

func (r *ReleaseOrder) allItemsLive() bool {
	for _, item := range r.Items {
		if !item.IsLive() {
			return false
		}
	}
	return true
}

func (r *ReleaseOrder) markDeployed() {
	now := time.Now()
	r.DeployedAt = &now
	r.moveTo(StatusDeployed, uuid.Nil)
}

func (r *ReleaseOrder) moveTo(to Status, actorID uuid.UUID) {
	from := r.Status
	r.Status = to
	r.Touch()
	r.AddDomainEvent(NewStatusChangedEvent(r, from, actorID))
}
