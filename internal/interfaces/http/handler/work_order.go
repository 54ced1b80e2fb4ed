package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkOrderService drives the work order lifecycle
type WorkOrderService interface {
	CreateDraft(ctx context.Context, actor identity.Actor, req bookingapp.CreateWorkOrderRequest) (*bookingapp.WorkOrderResponse, error)
	Quote(ctx context.Context, actor identity.Actor, id uuid.UUID, req bookingapp.QuoteRequest) (*bookingapp.WorkOrderResponse, error)
	Accept(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error)
	RequestNegotiation(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*bookingapp.WorkOrderResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*bookingapp.WorkOrderResponse, error)
	Complete(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error)
	UploadPurchaseOrder(ctx context.Context, actor identity.Actor, id uuid.UUID, url string) (*bookingapp.WorkOrderResponse, error)
	UploadPurchaseOrderFile(ctx context.Context, actor identity.Actor, id uuid.UUID, file bookingapp.Upload) (*bookingapp.WorkOrderResponse, error)
	ApprovePurchaseOrder(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error)
	UploadBanner(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID, url string) (*bookingapp.WorkOrderResponse, error)
	UploadBannerFile(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID, file bookingapp.Upload) (*bookingapp.WorkOrderResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error)
	List(ctx context.Context, actor identity.Actor, filter bookingapp.WorkOrderListFilter) ([]bookingapp.WorkOrderResponse, int64, error)
}

// WorkOrderHandler handles work order HTTP requests
type WorkOrderHandler struct {
	BaseHandler
	orders WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(orders WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{orders: orders}
}

// Create godoc
// @ID           createWorkOrder
// @Summary      Create a draft work order
// @Description  A client requests one or more slots (and addons) for a date range
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.CreateWorkOrderRequest true "Booking request"
// @Success      201 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders [post]
func (h *WorkOrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req bookingapp.CreateWorkOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateDraft(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listWorkOrders
// @Summary      List work orders
// @Description  Clients see their own orders, staff see all
// @Tags         work-orders
// @Produce      json
// @Param        status query string false "Status filter"
// @Param        client_id query string false "Client filter (staff only)" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter bookingapp.WorkOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}.Normalized()
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getWorkOrder
// @Summary      Get a work order
// @Tags         work-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.GetByID(ctx, actor, id)
	})
}

// Quote godoc
// @ID           quoteWorkOrder
// @Summary      Quote a work order
// @Description  Manager sets negotiated unit prices and sends the quote to the client
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body bookingapp.QuoteRequest false "Price adjustments"
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/quote [post]
func (h *WorkOrderHandler) Quote(c *gin.Context) {
	var req bookingapp.QuoteRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.Quote(ctx, actor, id, req)
	})
}

// Accept godoc
// @ID           acceptWorkOrder
// @Summary      Accept a quote
// @Tags         work-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/accept [post]
func (h *WorkOrderHandler) Accept(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.Accept(ctx, actor, id)
	})
}

// Negotiate godoc
// @ID           negotiateWorkOrder
// @Summary      Request renegotiation of a quote
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body bookingapp.ReasonRequest true "Reason"
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/negotiate [post]
func (h *WorkOrderHandler) Negotiate(c *gin.Context) {
	var req bookingapp.ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.RequestNegotiation(ctx, actor, id, req.Reason)
	})
}

// Reject godoc
// @ID           rejectWorkOrder
// @Summary      Reject a work order
// @Description  Manager terminates an unpaid work order and releases its slots
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body bookingapp.ReasonRequest true "Reason"
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/reject [post]
func (h *WorkOrderHandler) Reject(c *gin.Context) {
	var req bookingapp.ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.Reject(ctx, actor, id, req.Reason)
	})
}

// Complete godoc
// @ID           completeWorkOrder
// @Summary      Complete an active work order
// @Tags         work-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.Complete(ctx, actor, id)
	})
}

// UploadPurchaseOrder godoc
// @ID           uploadWorkOrderPurchaseOrder
// @Summary      Attach the client's purchase order
// @Description  Accepts either a JSON body with a hosted URL or a multipart "file" upload
// @Tags         work-orders
// @Accept       json,mpfd
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body bookingapp.URLRequest false "Hosted document"
// @Param        file formData file false "Purchase order document"
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/purchase-order [post]
func (h *WorkOrderHandler) UploadPurchaseOrder(c *gin.Context) {
	if isMultipart(c) {
		h.withUpload(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID, file bookingapp.Upload) (*bookingapp.WorkOrderResponse, error) {
			return h.orders.UploadPurchaseOrderFile(ctx, actor, id, file)
		})
		return
	}

	var req bookingapp.URLRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.UploadPurchaseOrder(ctx, actor, id, req.URL)
	})
}

// ApprovePurchaseOrder godoc
// @ID           approveWorkOrderPurchaseOrder
// @Summary      Approve the purchase order of a pay-later booking
// @Tags         work-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/purchase-order/approve [post]
func (h *WorkOrderHandler) ApprovePurchaseOrder(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.ApprovePurchaseOrder(ctx, actor, id)
	})
}

// UploadBanner godoc
// @ID           uploadWorkOrderBanner
// @Summary      Attach banner artwork to a work order item
// @Description  Accepts either a JSON body with a hosted URL or a multipart "file" upload
// @Tags         work-orders
// @Accept       json,mpfd
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Param        itemId path string true "Work order item ID" format(uuid)
// @Param        request body bookingapp.URLRequest false "Hosted banner"
// @Param        file formData file false "Banner image"
// @Success      200 {object} APIResponse[bookingapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/items/{itemId}/banner [post]
func (h *WorkOrderHandler) UploadBanner(c *gin.Context) {
	itemID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}

	if isMultipart(c) {
		h.withUpload(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID, file bookingapp.Upload) (*bookingapp.WorkOrderResponse, error) {
			return h.orders.UploadBannerFile(ctx, actor, id, itemID, file)
		})
		return
	}

	var req bookingapp.URLRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return h.orders.UploadBanner(ctx, actor, id, itemID, req.URL)
	})
}

type workOrderCall func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error)

// withOrder resolves the actor and the :id parameter, then runs call
func (h *WorkOrderHandler) withOrder(c *gin.Context, call workOrderCall) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := call(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *WorkOrderHandler) withUpload(c *gin.Context, call func(context.Context, identity.Actor, uuid.UUID, bookingapp.Upload) (*bookingapp.WorkOrderResponse, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Upload exceeds maximum allowed size")
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Multipart field \"file\" is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	upload := bookingapp.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	}
	h.withOrder(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.WorkOrderResponse, error) {
		return call(ctx, actor, id, upload)
	})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
