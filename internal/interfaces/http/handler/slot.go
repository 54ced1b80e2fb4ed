package handler

import (
	"context"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SlotService is the slot catalog read model
type SlotService interface {
	List(ctx context.Context, filter bookingapp.SlotListFilter) ([]bookingapp.SlotResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*bookingapp.SlotResponse, error)
}

// SlotHandler handles slot catalog HTTP requests
type SlotHandler struct {
	BaseHandler
	slots SlotService
}

// NewSlotHandler creates a new SlotHandler
func NewSlotHandler(slots SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// List godoc
// @ID           listSlots
// @Summary      List ad slots
// @Description  Browse the inventory, optionally filtered by media type and status
// @Tags         slots
// @Produce      json
// @Param        media_type query string false "Media type" Enums(website, mobile, email, magazine, whatsapp)
// @Param        status query string false "Slot status" Enums(available, pending, booked, expired)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]bookingapp.SlotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var filter bookingapp.SlotListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	slots, total, err := h.slots.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.PageRequest{Page: filter.Page, PageSize: filter.PageSize}.Normalized()
	h.SuccessWithMeta(c, slots, total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getSlot
// @Summary      Get an ad slot
// @Tags         slots
// @Produce      json
// @Param        id path string true "Slot ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.SlotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	slot, err := h.slots.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slot)
}
