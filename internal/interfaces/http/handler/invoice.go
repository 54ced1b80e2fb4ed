package handler

import (
	"context"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService issues invoices and records payments
type InvoiceService interface {
	IssueProforma(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID, req bookingapp.IssueProformaRequest) (*bookingapp.InvoiceResponse, error)
	IssueTaxInvoice(ctx context.Context, actor identity.Actor, releaseOrderID uuid.UUID, req bookingapp.IssueTaxInvoiceRequest) (*bookingapp.InvoiceResponse, error)
	RecordPayment(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req bookingapp.RecordPaymentRequest) (*bookingapp.InvoiceResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.InvoiceResponse, error)
	ListByWorkOrder(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID) ([]bookingapp.InvoiceResponse, error)
}

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// IssueProforma godoc
// @ID           issueProformaInvoice
// @Summary      Issue a proforma invoice
// @Description  Accounts bills part or all of an accepted work order
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body bookingapp.IssueProformaRequest true "Amount and due date"
// @Success      201 {object} APIResponse[bookingapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/invoices/proforma [post]
func (h *InvoiceHandler) IssueProforma(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	workOrderID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.IssueProformaRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.IssueProforma(c.Request.Context(), actor, workOrderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListByWorkOrder godoc
// @ID           listWorkOrderInvoices
// @Summary      List the invoices of a work order
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[[]bookingapp.InvoiceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/invoices [get]
func (h *InvoiceHandler) ListByWorkOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	workOrderID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoices, err := h.invoices.ListByWorkOrder(c.Request.Context(), actor, workOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.InvoiceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment against an invoice
// @Description  Amount defaults to the outstanding balance. Paying a completed invoice is a no-op.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body bookingapp.RecordPaymentRequest false "Payment"
// @Success      200 {object} APIResponse[bookingapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.RecordPaymentRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// IssueTaxInvoice godoc
// @ID           issueTaxInvoice
// @Summary      Issue the GST invoice of a release order
// @Description  Either references an uploaded file or renders one from the template
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Param        request body bookingapp.IssueTaxInvoiceRequest false "File URL and due date"
// @Success      201 {object} APIResponse[bookingapp.InvoiceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/tax-invoice [post]
func (h *InvoiceHandler) IssueTaxInvoice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	releaseOrderID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.IssueTaxInvoiceRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.IssueTaxInvoice(c.Request.Context(), actor, releaseOrderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}
