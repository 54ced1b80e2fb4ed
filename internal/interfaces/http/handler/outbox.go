package handler

import (
	"context"
	"net/http"

	"github.com/adbook/backend/internal/application/event"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutboxService exposes undeliverable notification events to administrators
type OutboxService interface {
	GetDeadLetterEntries(ctx context.Context, actor identity.Actor, filter event.OutboxFilter) (*shared.Paginated[event.OutboxEntryDTO], error)
	GetEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*event.OutboxEntryDTO, error)
	RetryDeadEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*event.OutboxEntryDTO, error)
	RetryAllDeadEntries(ctx context.Context, actor identity.Actor) (int64, error)
	GetStats(ctx context.Context, actor identity.Actor) (*event.OutboxStatsDTO, error)
}

// OutboxHandler serves /system/outbox. The service enforces the admin role.
type OutboxHandler struct {
	BaseHandler
	outbox OutboxService
}

func NewOutboxHandler(outbox OutboxService) *OutboxHandler {
	return &OutboxHandler{outbox: outbox}
}

// GetDeadLetterEntries godoc
// @ID           listOutboxDeadLetters
// @Summary      List dead letters
// @Description  Fan-out events that exhausted their retries, oldest first
// @Tags         outbox
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]event.OutboxEntryDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead [get]
func (h *OutboxHandler) GetDeadLetterEntries(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter event.OutboxFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.outbox.GetDeadLetterEntries(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// GetEntry godoc
// @ID           getOutboxEntry
// @Summary      Show one outbox entry
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	h.withEntry(c, h.outbox.GetEntry)
}

// RetryDeadEntry godoc
// @ID           retryOutboxEntry
// @Summary      Requeue a dead letter
// @Description  Puts the entry back to PENDING with a fresh retry budget
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "entry is not dead"
// @Security     BearerAuth
// @Router       /system/outbox/{id}/retry [post]
func (h *OutboxHandler) RetryDeadEntry(c *gin.Context) {
	h.withEntry(c, h.outbox.RetryDeadEntry)
}

// RetryAllDeadEntries godoc
// @ID           retryAllOutboxDeadLetters
// @Summary      Requeue every dead letter
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead/retry-all [post]
func (h *OutboxHandler) RetryAllDeadEntries(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	n, err := h.outbox.RetryAllDeadEntries(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: n})
}

// GetStats godoc
// @ID           getOutboxStats
// @Summary      Count outbox entries by status
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[event.OutboxStatsDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/stats [get]
func (h *OutboxHandler) GetStats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	stats, err := h.outbox.GetStats(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

func (h *OutboxHandler) withEntry(c *gin.Context, call func(context.Context, identity.Actor, uuid.UUID) (*event.OutboxEntryDTO, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := call(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
