package event

import (
	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/release"
)

// RegisterAllEvents registers all domain event types with the serializer.
// The outbox processor cannot deliver an entry whose type is missing here.
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog
	RegisterEvent[catalog.SlotStatusChangedEvent](serializer, catalog.EventTypeSlotStatusChanged)

	// Work orders
	RegisterEvent[booking.WorkOrderCreatedEvent](serializer, booking.EventTypeWorkOrderCreated)
	RegisterEvent[booking.WorkOrderQuotedEvent](serializer, booking.EventTypeWorkOrderQuoted)
	RegisterEvent[booking.WorkOrderAcceptedEvent](serializer, booking.EventTypeWorkOrderAccepted)
	RegisterEvent[booking.NegotiationRequestedEvent](serializer, booking.EventTypeNegotiationRequested)
	RegisterEvent[booking.WorkOrderRejectedEvent](serializer, booking.EventTypeWorkOrderRejected)
	RegisterEvent[booking.WorkOrderPaidEvent](serializer, booking.EventTypeWorkOrderPaid)
	RegisterEvent[booking.WorkOrderActivatedEvent](serializer, booking.EventTypeWorkOrderActivated)
	RegisterEvent[booking.WorkOrderCompletedEvent](serializer, booking.EventTypeWorkOrderCompleted)
	RegisterEvent[booking.PurchaseOrderUploadedEvent](serializer, booking.EventTypePurchaseOrderUploaded)
	RegisterEvent[booking.PurchaseOrderApprovedEvent](serializer, booking.EventTypePurchaseOrderApproved)
	RegisterEvent[booking.BannerUploadedEvent](serializer, booking.EventTypeBannerUploaded)

	// Invoices
	RegisterEvent[finance.InvoiceIssuedEvent](serializer, finance.EventTypeInvoiceIssued)
	RegisterEvent[finance.PaymentRecordedEvent](serializer, finance.EventTypePaymentRecorded)
	RegisterEvent[finance.InvoiceFailedEvent](serializer, finance.EventTypeInvoiceFailed)

	// Release orders
	RegisterEvent[release.ReleaseOrderCreatedEvent](serializer, release.EventTypeReleaseOrderCreated)
	RegisterEvent[release.StatusChangedEvent](serializer, release.EventTypeReleaseOrderStatusChanged)
	RegisterEvent[release.ReleaseOrderRejectedEvent](serializer, release.EventTypeReleaseOrderRejected)
	RegisterEvent[release.ReleaseOrderAcceptedEvent](serializer, release.EventTypeReleaseOrderAccepted)
	RegisterEvent[release.PaymentStatusChangedEvent](serializer, release.EventTypePaymentStatusChanged)
	RegisterEvent[release.ItemProcessedEvent](serializer, release.EventTypeItemProcessed)
	RegisterEvent[release.ItemDeployedEvent](serializer, release.EventTypeItemDeployed)

	// Deployments
	RegisterEvent[deployment.BannerDeployedEvent](serializer, deployment.EventTypeBannerDeployed)
	RegisterEvent[deployment.BannerRemovedEvent](serializer, deployment.EventTypeBannerRemoved)
	RegisterEvent[deployment.BannerExpiredEvent](serializer, deployment.EventTypeBannerExpired)
}
