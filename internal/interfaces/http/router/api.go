package router

import (
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/interfaces/http/handler"
	"github.com/adbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PaymentCallbackPath is mounted without JWT authentication
const PaymentCallbackPath = "/payments/callback"

// Handlers bundles everything mounted under the versioned API group
type Handlers struct {
	System          *handler.SystemHandler
	Slots           *handler.SlotHandler
	WorkOrders      *handler.WorkOrderHandler
	Invoices        *handler.InvoiceHandler
	PaymentCallback *handler.PaymentCallbackHandler
	ReleaseOrders   *handler.ReleaseOrderHandler
	Deployments     *handler.DeploymentHandler
	Notifications   *handler.NotificationHandler
	Outbox          *handler.OutboxHandler
}

// BookingRoutes returns the route groups of the booking API.
// timeout wraps every route except the notification stream, which stays
// open for the life of the connection.
func BookingRoutes(h Handlers, timeout gin.HandlerFunc) []RouteRegistrar {
	system := NewResourceGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	outbox := system.Group("outbox", "/outbox").
		Use(timeout, middleware.RequireRole(identity.ActionSystemAdmin))
	outbox.GET("/stats", h.Outbox.GetStats)
	outbox.GET("/dead", h.Outbox.GetDeadLetterEntries)
	outbox.POST("/dead/retry-all", h.Outbox.RetryAllDeadEntries)
	outbox.GET("/:id", h.Outbox.GetEntry)
	outbox.POST("/:id/retry", h.Outbox.RetryDeadEntry)

	slots := NewResourceGroup("slots", "/slots").Use(timeout)
	slots.GET("", h.Slots.List)
	slots.GET("/:id", h.Slots.Get)

	workOrders := NewResourceGroup("work-orders", "/work-orders").Use(timeout)
	workOrders.POST("", h.WorkOrders.Create)
	workOrders.GET("", h.WorkOrders.List)
	workOrders.GET("/:id", h.WorkOrders.Get)
	workOrders.POST("/:id/quote", h.WorkOrders.Quote)
	workOrders.POST("/:id/accept", h.WorkOrders.Accept)
	workOrders.POST("/:id/negotiate", h.WorkOrders.Negotiate)
	workOrders.POST("/:id/reject", h.WorkOrders.Reject)
	workOrders.POST("/:id/complete", h.WorkOrders.Complete)
	workOrders.POST("/:id/purchase-order", h.WorkOrders.UploadPurchaseOrder)
	workOrders.POST("/:id/purchase-order/approve", h.WorkOrders.ApprovePurchaseOrder)
	workOrders.POST("/:id/items/:itemId/banner", h.WorkOrders.UploadBanner)
	workOrders.POST("/:id/invoices/proforma", h.Invoices.IssueProforma)
	workOrders.GET("/:id/invoices", h.Invoices.ListByWorkOrder)
	workOrders.GET("/:id/release-order", h.ReleaseOrders.GetByWorkOrder)

	invoices := NewResourceGroup("invoices", "/invoices").Use(timeout)
	invoices.GET("/:id", h.Invoices.Get)
	invoices.POST("/:id/payments", h.Invoices.RecordPayment)

	payments := NewResourceGroup("payments", "").Use(timeout)
	payments.POST(PaymentCallbackPath, h.PaymentCallback.Handle)

	releaseOrders := NewResourceGroup("release-orders", "/release-orders").Use(timeout)
	releaseOrders.GET("", h.ReleaseOrders.List)
	releaseOrders.GET("/queues/it", h.ReleaseOrders.ITQueue)
	releaseOrders.GET("/queues/material", h.ReleaseOrders.MaterialQueue)
	releaseOrders.GET("/:id", h.ReleaseOrders.Get)
	releaseOrders.POST("/:id/approve", h.ReleaseOrders.Approve)
	releaseOrders.POST("/:id/reject", h.ReleaseOrders.Reject)
	releaseOrders.POST("/:id/payment-completed", h.ReleaseOrders.MarkPaymentCompleted)
	releaseOrders.POST("/:id/tax-invoice", h.Invoices.IssueTaxInvoice)
	releaseOrders.POST("/:id/items/:itemId/deploy", h.Deployments.Deploy)
	releaseOrders.POST("/:id/items/:itemId/processed", h.ReleaseOrders.MarkItemProcessed)
	releaseOrders.GET("/:id/deployments", h.Deployments.ListByReleaseOrder)

	deployments := NewResourceGroup("deployments", "/deployments").Use(timeout)
	deployments.POST("/:id/remove", h.Deployments.Remove)

	notifications := NewResourceGroup("notifications", "/notifications")
	notifications.GET("", timeout, h.Notifications.List)
	notifications.GET("/stream", h.Notifications.Stream)
	notifications.POST("/read-all", timeout, h.Notifications.MarkAllRead)
	notifications.POST("/:id/read", timeout, h.Notifications.MarkRead)

	return []RouteRegistrar{
		system,
		slots,
		workOrders,
		invoices,
		payments,
		releaseOrders,
		deployments,
		notifications,
	}
}
