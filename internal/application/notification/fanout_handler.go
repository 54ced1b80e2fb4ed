package notification

import (
	"context"
	"fmt"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/notification"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FanOutHandler turns committed workflow events into inbox notifications for
// whoever acts next. It runs from the outbox, after the transition committed.
type FanOutHandler struct {
	directory identity.UserDirectory
	notifier  notification.Notifier
	logger    *zap.Logger
}

// NewFanOutHandler creates a new fan-out handler
func NewFanOutHandler(directory identity.UserDirectory, notifier notification.Notifier, logger *zap.Logger) *FanOutHandler {
	return &FanOutHandler{
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *FanOutHandler) EventTypes() []string {
	return []string{
		booking.EventTypeWorkOrderCreated,
		booking.EventTypeWorkOrderQuoted,
		booking.EventTypeWorkOrderAccepted,
		booking.EventTypeNegotiationRequested,
		booking.EventTypeWorkOrderRejected,
		booking.EventTypeWorkOrderPaid,
		booking.EventTypeWorkOrderCompleted,
		booking.EventTypePurchaseOrderUploaded,
		booking.EventTypePurchaseOrderApproved,
		release.EventTypeReleaseOrderStatusChanged,
		release.EventTypeReleaseOrderRejected,
		release.EventTypeReleaseOrderAccepted,
		release.EventTypePaymentStatusChanged,
		finance.EventTypeInvoiceIssued,
		finance.EventTypePaymentRecorded,
		deployment.EventTypeBannerDeployed,
		deployment.EventTypeBannerRemoved,
		deployment.EventTypeBannerExpired,
	}
}

// delivery is one message and who should receive it
type delivery struct {
	typ     notification.Type
	message string
	roles   []identity.Role
	users   []uuid.UUID
}

// Handle resolves the recipients of event and notifies each of them.
// A failing directory lookup is returned so the outbox retries; a failing
// delivery to one recipient is logged and skipped.
func (h *FanOutHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	d, ok := route(event)
	if !ok {
		return nil
	}

	recipients, err := h.resolve(ctx, d, event.ActorID())
	if err != nil {
		return fmt.Errorf("resolve recipients of %s: %w", event.EventType(), err)
	}

	for _, userID := range recipients {
		n, err := notification.New(userID, d.typ, d.message, event.AggregateType(), event.AggregateID())
		if err != nil {
			return err
		}
		if err := h.notifier.Notify(ctx, n); err != nil {
			h.logger.Warn("notification delivery failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}
	h.logger.Debug("notifications fanned out",
		zap.String("event_type", event.EventType()),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// resolve expands roles through the directory, dedupes and leaves out the
// user who caused the event.
func (h *FanOutHandler) resolve(ctx context.Context, d delivery, actorID uuid.UUID) ([]uuid.UUID, error) {
	ids := append([]uuid.UUID(nil), d.users...)
	if len(d.roles) > 0 {
		staff, err := h.directory.FindActiveIDsByRole(ctx, d.roles...)
		if err != nil {
			return nil, err
		}
		ids = append(ids, staff...)
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == uuid.Nil || id == actorID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func route(event shared.DomainEvent) (delivery, bool) {
	switch e := event.(type) {
	case *booking.WorkOrderCreatedEvent:
		return delivery{
			typ:     notification.TypeWorkOrder,
			message: fmt.Sprintf("New work order %s awaits a quote", e.Number),
			roles:   []identity.Role{identity.RoleManager, identity.RoleAccounts},
		}, true
	case *booking.WorkOrderQuotedEvent:
		msg := fmt.Sprintf("Work order %s was quoted at %s", e.Number, e.TotalAmount.StringFixed(2))
		if e.Requote {
			msg = fmt.Sprintf("Work order %s was re-quoted at %s", e.Number, e.TotalAmount.StringFixed(2))
		}
		return delivery{typ: notification.TypeWorkOrder, message: msg, users: []uuid.UUID{e.ClientID}}, true
	case *booking.WorkOrderAcceptedEvent:
		return delivery{
			typ:     notification.TypeWorkOrder,
			message: fmt.Sprintf("Client accepted work order %s; a proforma invoice is due", e.Number),
			roles:   []identity.Role{identity.RoleAccounts, identity.RoleManager},
		}, true
	case *booking.NegotiationRequestedEvent:
		return delivery{
			typ:     notification.TypeNegotiation,
			message: fmt.Sprintf("Client asked to renegotiate work order %s: %s", e.Number, e.Reason),
			roles:   []identity.Role{identity.RoleManager, identity.RoleAccounts},
		}, true
	case *booking.WorkOrderRejectedEvent:
		msg := fmt.Sprintf("Work order %s was rejected", e.Number)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return delivery{
			typ:     notification.TypeRejection,
			message: msg,
			roles:   []identity.Role{identity.RoleManager},
			users:   []uuid.UUID{e.ClientID},
		}, true
	case *booking.WorkOrderPaidEvent:
		return delivery{
			typ:     notification.TypePayment,
			message: fmt.Sprintf("Work order %s is fully paid", e.Number),
			roles:   []identity.Role{identity.RoleAccounts},
			users:   []uuid.UUID{e.ClientID},
		}, true
	case *booking.WorkOrderCompletedEvent:
		return delivery{
			typ:     notification.TypeWorkOrder,
			message: fmt.Sprintf("Work order %s has completed", e.Number),
			users:   []uuid.UUID{e.ClientID},
		}, true
	case *booking.PurchaseOrderUploadedEvent:
		return delivery{
			typ:     notification.TypeWorkOrder,
			message: fmt.Sprintf("Purchase order uploaded for work order %s", e.Number),
			roles:   []identity.Role{identity.RoleAccounts},
		}, true
	case *booking.PurchaseOrderApprovedEvent:
		return delivery{
			typ:     notification.TypeWorkOrder,
			message: fmt.Sprintf("Purchase order for work order %s was approved", e.Number),
			users:   []uuid.UUID{e.ClientID},
		}, true

	case *release.StatusChangedEvent:
		return routeReleaseStatus(e)
	case *release.ReleaseOrderRejectedEvent:
		d := delivery{
			typ:     notification.TypeRejection,
			message: fmt.Sprintf("Release order %s was sent back: %s", e.Number, e.Reason),
		}
		if role, ok := e.ToStatus.ReviewerRole(); ok {
			d.roles = []identity.Role{role}
		} else {
			d.users = []uuid.UUID{e.ClientID}
		}
		return d, true
	case *release.ReleaseOrderAcceptedEvent:
		roles := []identity.Role{identity.RoleAccounts}
		for _, lane := range e.Lanes {
			roles = append(roles, lane.Role())
		}
		return delivery{
			typ:     notification.TypeReleaseOrder,
			message: fmt.Sprintf("Release order %s was accepted and is ready for processing", e.Number),
			roles:   roles,
		}, true
	case *release.PaymentStatusChangedEvent:
		if e.PaymentStatus != release.PaymentStatusCompleted {
			return delivery{}, false
		}
		roles := make([]identity.Role, 0, len(e.Lanes))
		for _, lane := range e.Lanes {
			roles = append(roles, lane.Role())
		}
		return delivery{
			typ:     notification.TypePayment,
			message: fmt.Sprintf("Payment completed for release order %s; banners can go live", e.Number),
			roles:   roles,
		}, true

	case *finance.InvoiceIssuedEvent:
		label := "Proforma invoice"
		if e.InvoiceType == finance.InvoiceTypeTaxInvoice {
			label = "Tax invoice"
		}
		return delivery{
			typ:     notification.TypeInvoice,
			message: fmt.Sprintf("%s %s issued for %s", label, e.Number, e.Amount.StringFixed(2)),
			users:   []uuid.UUID{e.ClientID},
		}, true
	case *finance.PaymentRecordedEvent:
		msg := fmt.Sprintf("Payment of %s recorded on invoice %s", e.PaidNow.StringFixed(2), e.Number)
		if e.Completed {
			msg += "; invoice fully paid"
		}
		return delivery{
			typ:     notification.TypePayment,
			message: msg,
			roles:   []identity.Role{identity.RoleAccounts},
			users:   []uuid.UUID{e.ClientID},
		}, true

	case *deployment.BannerDeployedEvent:
		return deploymentDelivery(e.DeploymentRef, "Your banner is live"), true
	case *deployment.BannerRemovedEvent:
		if e.Superseded {
			return delivery{}, false
		}
		return deploymentDelivery(e.DeploymentRef, "Your banner was taken down"), true
	case *deployment.BannerExpiredEvent:
		return deploymentDelivery(e.DeploymentRef, "Your banner's booking period ended"), true
	}
	return delivery{}, false
}

func routeReleaseStatus(e *release.StatusChangedEvent) (delivery, bool) {
	switch e.ToStatus {
	case release.StatusPendingBannerUpload:
		return delivery{
			typ:     notification.TypeReleaseOrder,
			message: fmt.Sprintf("Release order %s is waiting for your banners", e.Number),
			users:   []uuid.UUID{e.ClientID},
		}, true
	case release.StatusPendingManagerReview, release.StatusPendingVPReview, release.StatusPendingPVReview:
		role, _ := e.ToStatus.ReviewerRole()
		return delivery{
			typ:     notification.TypeReleaseOrder,
			message: fmt.Sprintf("Release order %s awaits your review", e.Number),
			roles:   []identity.Role{role},
		}, true
	case release.StatusDeployed:
		return delivery{
			typ:     notification.TypeReleaseOrder,
			message: fmt.Sprintf("Every banner of release order %s is live", e.Number),
			roles:   []identity.Role{identity.RoleManager},
			users:   []uuid.UUID{e.ClientID},
		}, true
	}
	return delivery{}, false
}

func deploymentDelivery(ref deployment.DeploymentRef, message string) delivery {
	return delivery{
		typ:     notification.TypeDeployment,
		message: message + ": " + ref.BannerURL,
		users:   []uuid.UUID{ref.ClientID},
	}
}

var _ shared.EventHandler = (*FanOutHandler)(nil)
