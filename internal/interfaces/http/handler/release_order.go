package handler

import (
	"context"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReleaseOrderService runs the release order approval chain and team lanes
type ReleaseOrderService interface {
	Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req bookingapp.RejectReleaseOrderRequest) (*bookingapp.ReleaseOrderResponse, error)
	MarkPaymentCompleted(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)
	MarkItemProcessed(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)
	GetByWorkOrder(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)
	List(ctx context.Context, actor identity.Actor, filter bookingapp.ReleaseOrderListFilter) ([]bookingapp.ReleaseOrderResponse, int64, error)
	ReadyForIT(ctx context.Context, actor identity.Actor, page, pageSize int) ([]bookingapp.ReleaseOrderResponse, int64, error)
	ReadyForMaterial(ctx context.Context, actor identity.Actor, page, pageSize int) ([]bookingapp.ReleaseOrderResponse, int64, error)
}

// ReleaseOrderHandler handles release order HTTP requests
type ReleaseOrderHandler struct {
	BaseHandler
	releases ReleaseOrderService
}

// NewReleaseOrderHandler creates a new ReleaseOrderHandler
func NewReleaseOrderHandler(releases ReleaseOrderService) *ReleaseOrderHandler {
	return &ReleaseOrderHandler{releases: releases}
}

// List godoc
// @ID           listReleaseOrders
// @Summary      List release orders
// @Tags         release-orders
// @Produce      json
// @Param        status query string false "Status filter"
// @Param        work_order_id query string false "Work order filter" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]bookingapp.ReleaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders [get]
func (h *ReleaseOrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter bookingapp.ReleaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.releases.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}.Normalized()
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// ITQueue godoc
// @ID           listReleaseOrdersReadyForIT
// @Summary      IT team queue
// @Description  Accepted release orders with digital items still to deploy
// @Tags         release-orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/queues/it [get]
func (h *ReleaseOrderHandler) ITQueue(c *gin.Context) {
	h.queue(c, h.releases.ReadyForIT)
}

// MaterialQueue godoc
// @ID           listReleaseOrdersReadyForMaterial
// @Summary      Material team queue
// @Description  Accepted release orders with magazine items still to process
// @Tags         release-orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/queues/material [get]
func (h *ReleaseOrderHandler) MaterialQueue(c *gin.Context) {
	h.queue(c, h.releases.ReadyForMaterial)
}

func (h *ReleaseOrderHandler) queue(c *gin.Context, fetch func(context.Context, identity.Actor, int, int) ([]bookingapp.ReleaseOrderResponse, int64, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var page dto.PageRequest
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalized()

	orders, total, err := fetch(c.Request.Context(), actor, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getReleaseOrder
// @Summary      Get a release order
// @Tags         release-orders
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id} [get]
func (h *ReleaseOrderHandler) Get(c *gin.Context) {
	h.withRelease(c, h.releases.GetByID)
}

// GetByWorkOrder godoc
// @ID           getWorkOrderReleaseOrder
// @Summary      Get the release order generated for a work order
// @Tags         release-orders
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id}/release-order [get]
func (h *ReleaseOrderHandler) GetByWorkOrder(c *gin.Context) {
	h.withRelease(c, h.releases.GetByWorkOrder)
}

// Approve godoc
// @ID           approveReleaseOrder
// @Summary      Approve the current review stage
// @Description  Manager, VP and PV Sir each approve their own stage
// @Tags         release-orders
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/approve [post]
func (h *ReleaseOrderHandler) Approve(c *gin.Context) {
	h.withRelease(c, h.releases.Approve)
}

// Reject godoc
// @ID           rejectReleaseOrder
// @Summary      Reject the current review stage
// @Description  Sends the release order exactly one stage back
// @Tags         release-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Param        request body bookingapp.RejectReleaseOrderRequest true "Reason and affected items"
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/reject [post]
func (h *ReleaseOrderHandler) Reject(c *gin.Context) {
	var req bookingapp.RejectReleaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.withRelease(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.ReleaseOrderResponse, error) {
		return h.releases.Reject(ctx, actor, id, req)
	})
}

// MarkPaymentCompleted godoc
// @ID           markReleaseOrderPaymentCompleted
// @Summary      Mark the release order payment completed
// @Tags         release-orders
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/payment-completed [post]
func (h *ReleaseOrderHandler) MarkPaymentCompleted(c *gin.Context) {
	h.withRelease(c, h.releases.MarkPaymentCompleted)
}

// MarkItemProcessed godoc
// @ID           markReleaseOrderItemProcessed
// @Summary      Mark a lane item processed
// @Tags         release-orders
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Param        itemId path string true "Release order item ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.ReleaseOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/items/{itemId}/processed [post]
func (h *ReleaseOrderHandler) MarkItemProcessed(c *gin.Context) {
	itemID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}
	h.withRelease(c, func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*bookingapp.ReleaseOrderResponse, error) {
		return h.releases.MarkItemProcessed(ctx, actor, id, itemID)
	})
}

func (h *ReleaseOrderHandler) withRelease(c *gin.Context, call func(context.Context, identity.Actor, uuid.UUID) (*bookingapp.ReleaseOrderResponse, error)) {
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
