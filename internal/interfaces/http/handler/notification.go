package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	notificationapp "github.com/adbook/backend/internal/application/notification"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/logger"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InboxService is the per-user notification inbox
type InboxService interface {
	List(ctx context.Context, actor identity.Actor, filter notificationapp.ListFilter) (*shared.Paginated[notificationapp.NotificationResponse], error)
	MarkRead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*notificationapp.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor identity.Actor) (int64, error)
	Stream(ctx context.Context, actor identity.Actor) (<-chan notificationapp.NotificationResponse, error)
}

// SSEMessage is one server-sent event
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// NotificationHandler serves the inbox and its live stream
type NotificationHandler struct {
	BaseHandler
	inbox      InboxService
	heartbeat  time.Duration
	maxClients int64
	clients    atomic.Int64
}

// NotificationHandlerOption configures a NotificationHandler
type NotificationHandlerOption func(*NotificationHandler)

// WithSSEHeartbeat sets the heartbeat interval of the live stream
func WithSSEHeartbeat(interval time.Duration) NotificationHandlerOption {
	return func(h *NotificationHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients caps concurrent live streams; 0 means unlimited
func WithSSEMaxClients(limit int) NotificationHandlerOption {
	return func(h *NotificationHandler) {
		h.maxClients = int64(limit)
	}
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox InboxService, opts ...NotificationHandlerOption) *NotificationHandler {
	h := &NotificationHandler{
		inbox:      inbox,
		heartbeat:  30 * time.Second,
		maxClients: 10000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List godoc
// @ID           listNotifications
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter notificationapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.inbox.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	n, err := h.inbox.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	count, err := h.inbox.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// ActiveStreams returns the number of connected live streams
func (h *NotificationHandler) ActiveStreams() int64 {
	return h.clients.Load()
}

// Stream godoc
//
//	@Summary		Subscribe to my notifications via SSE
//	@Description	Server-Sent Events stream emitting "notification" events as they are created
//	@Tags			notifications
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"SSE stream"
//	@Failure		401	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if n := h.clients.Add(1); h.maxClients > 0 && n > h.maxClients {
		h.clients.Add(-1)
		h.ServiceUnavailable(c, "Maximum number of live connections reached")
		return
	}
	defer h.clients.Add(-1)

	ctx := c.Request.Context()
	events, err := h.inbox.Stream(ctx, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	log := logger.GetGinLogger(c)
	log.Info("Notification stream connected")

	// The server write timeout would cut the stream; clear it for this connection
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Debug("Could not clear write deadline", zap.Error(err))
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	writeSSE(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"user_id":%q,"timestamp":%d}`, actor.ID.String(), time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Notification stream disconnected")
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				log.Error("Failed to marshal notification", zap.Error(err))
				continue
			}
			writeSSE(c.Writer, SSEMessage{Event: "notification", ID: n.ID.String(), Data: string(data)})
			c.Writer.Flush()
		case <-ticker.C:
			writeSSE(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		}
	}
}

// writeSSE writes one event in text/event-stream framing
func writeSSE(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	for _, line := range strings.Split(msg.Data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
