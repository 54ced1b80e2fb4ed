package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	notificationapp "github.com/adbook/backend/internal/application/notification"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInboxService implements InboxService for testing
type MockInboxService struct {
	mock.Mock
}

func (m *MockInboxService) List(ctx context.Context, actor identity.Actor, filter notificationapp.ListFilter) (*shared.Paginated[notificationapp.NotificationResponse], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[notificationapp.NotificationResponse]), args.Error(1)
}

func (m *MockInboxService) MarkRead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*notificationapp.NotificationResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationapp.NotificationResponse), args.Error(1)
}

func (m *MockInboxService) MarkAllRead(ctx context.Context, actor identity.Actor) (int64, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInboxService) Stream(ctx context.Context, actor identity.Actor) (<-chan notificationapp.NotificationResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan notificationapp.NotificationResponse), args.Error(1)
}

func setupNotificationTestRouter(actor identity.Actor, opts ...NotificationHandlerOption) (*gin.Engine, *MockInboxService, *NotificationHandler) {
	svc := new(MockInboxService)
	h := NewNotificationHandler(svc, opts...)

	router := actorRouter(actor)
	router.GET("/notifications", h.List)
	router.GET("/notifications/stream", h.Stream)
	router.POST("/notifications/read-all", h.MarkAllRead)
	router.POST("/notifications/:id/read", h.MarkRead)
	return router, svc, h
}

func sampleNotification(message string) notificationapp.NotificationResponse {
	return notificationapp.NotificationResponse{
		ID:            uuid.New(),
		Type:          "release_order_approved",
		Message:       message,
		AggregateType: "ReleaseOrder",
		AggregateID:   uuid.New(),
		CreatedAt:     time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
	}
}

func TestNotificationHandler_List(t *testing.T) {
	router, svc, _ := setupNotificationTestRouter(testClient)
	items := []notificationapp.NotificationResponse{sampleNotification("RO-2026-00001 approved")}
	page := shared.NewPaginated(items, 1, 1, 20)
	svc.On("List", mock.Anything, testClient, notificationapp.ListFilter{Unread: true}).Return(&page, nil)

	rec := doJSON(router, http.MethodGet, "/notifications?unread=true", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	id := uuid.New()

	t.Run("own notification", func(t *testing.T) {
		router, svc, _ := setupNotificationTestRouter(testClient)
		n := sampleNotification("paid")
		n.Read = true
		svc.On("MarkRead", mock.Anything, testClient, id).Return(&n, nil)

		rec := doJSON(router, http.MethodPost, "/notifications/"+id.String()+"/read", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeData(t, rec)["read"])
	})

	t.Run("someone else's", func(t *testing.T) {
		router, svc, _ := setupNotificationTestRouter(testClient)
		svc.On("MarkRead", mock.Anything, testClient, id).Return(nil, shared.ErrNotFound)

		rec := doJSON(router, http.MethodPost, "/notifications/"+id.String()+"/read", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	router, svc, _ := setupNotificationTestRouter(testClient)
	svc.On("MarkAllRead", mock.Anything, testClient).Return(int64(4), nil)

	rec := doJSON(router, http.MethodPost, "/notifications/read-all", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), decodeData(t, rec)["count"])
}

func TestNotificationHandler_Stream(t *testing.T) {
	router, svc, h := setupNotificationTestRouter(testClient)
	n := sampleNotification("WO-2026-00001 quoted")
	events := make(chan notificationapp.NotificationResponse, 1)
	events <- n
	close(events)
	svc.On("Stream", mock.Anything, testClient).Return((<-chan notificationapp.NotificationResponse)(events), nil)

	rec := doJSON(router, http.MethodGet, "/notifications/stream", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: connected\n"), body)
	assert.Contains(t, body, testClient.ID.String())
	assert.Contains(t, body, "event: notification\nid: "+n.ID.String()+"\ndata: {")
	assert.Contains(t, body, `"message":"WO-2026-00001 quoted"`)
	assert.Equal(t, int64(0), h.ActiveStreams())
}

func TestNotificationHandler_Stream_Heartbeat(t *testing.T) {
	router, svc, _ := setupNotificationTestRouter(testClient, WithSSEHeartbeat(10*time.Millisecond))
	events := make(chan notificationapp.NotificationResponse)
	svc.On("Stream", mock.Anything, testClient).Return((<-chan notificationapp.NotificationResponse)(events), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "event: heartbeat\n")
}

func TestNotificationHandler_Stream_Disabled(t *testing.T) {
	router, svc, _ := setupNotificationTestRouter(testClient)
	svc.On("Stream", mock.Anything, testClient).Return(nil, shared.NewValidationError("live notifications are not enabled"))

	rec := doJSON(router, http.MethodGet, "/notifications/stream", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestNotificationHandler_Stream_MaxClients(t *testing.T) {
	router, svc, h := setupNotificationTestRouter(testClient, WithSSEMaxClients(1))
	events := make(chan notificationapp.NotificationResponse)
	svc.On("Stream", mock.Anything, testClient).Return((<-chan notificationapp.NotificationResponse)(events), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil).WithContext(ctx)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}()
	require.Eventually(t, func() bool { return h.ActiveStreams() == 1 }, time.Second, 5*time.Millisecond)

	rec := doJSON(router, http.MethodGet, "/notifications/stream", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, dto.ErrCodeUnavailable, decodeErrorCode(t, rec))

	cancel()
	<-done
	assert.Equal(t, int64(0), h.ActiveStreams())
	svc.AssertNumberOfCalls(t, "Stream", 1)
}

func TestNotificationHandler_Stream_RequiresAuth(t *testing.T) {
	router, svc, _ := setupNotificationTestRouter(identity.Actor{})

	rec := doJSON(router, http.MethodGet, "/notifications/stream", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Stream")
}
