package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/adbook/backend/internal/application/event"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOutboxService implements OutboxService for testing
type MockOutboxService struct {
	mock.Mock
}

func (m *MockOutboxService) GetDeadLetterEntries(ctx context.Context, actor identity.Actor, filter event.OutboxFilter) (*shared.Paginated[event.OutboxEntryDTO], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[event.OutboxEntryDTO]), args.Error(1)
}

func (m *MockOutboxService) GetEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxEntryDTO), args.Error(1)
}

func (m *MockOutboxService) RetryDeadEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxEntryDTO), args.Error(1)
}

func (m *MockOutboxService) RetryAllDeadEntries(ctx context.Context, actor identity.Actor) (int64, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxService) GetStats(ctx context.Context, actor identity.Actor) (*event.OutboxStatsDTO, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxStatsDTO), args.Error(1)
}

func setupOutboxTestRouter(actor identity.Actor) (*gin.Engine, *MockOutboxService) {
	svc := new(MockOutboxService)
	h := NewOutboxHandler(svc)

	router := actorRouter(actor)
	router.GET("/system/outbox/stats", h.GetStats)
	router.GET("/system/outbox/dead", h.GetDeadLetterEntries)
	router.POST("/system/outbox/dead/retry-all", h.RetryAllDeadEntries)
	router.GET("/system/outbox/:id", h.GetEntry)
	router.POST("/system/outbox/:id/retry", h.RetryDeadEntry)
	return router, svc
}

func sampleOutboxEntry(status string) *event.OutboxEntryDTO {
	now := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	return &event.OutboxEntryDTO{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "ReleaseOrderApproved",
		AggregateID:   uuid.New(),
		AggregateType: "ReleaseOrder",
		Status:        status,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "notify: inbox unavailable",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestOutboxHandler_GetDeadLetterEntries(t *testing.T) {
	router, svc := setupOutboxTestRouter(testAdmin)
	page := shared.NewPaginated([]event.OutboxEntryDTO{*sampleOutboxEntry("dead")}, 1, 1, 20)
	svc.On("GetDeadLetterEntries", mock.Anything, testAdmin, event.OutboxFilter{Page: 1}).Return(&page, nil)

	rec := doJSON(router, http.MethodGet, "/system/outbox/dead?page=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	svc.AssertExpectations(t)
}

func TestOutboxHandler_RequiresAdmin(t *testing.T) {
	router, svc := setupOutboxTestRouter(testManager)
	svc.On("GetStats", mock.Anything, testManager).Return(nil, shared.NewForbiddenError("role manager may not administer the system"))

	rec := doJSON(router, http.MethodGet, "/system/outbox/stats", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOutboxHandler_GetEntry(t *testing.T) {
	router, svc := setupOutboxTestRouter(testAdmin)
	entry := sampleOutboxEntry("dead")
	svc.On("GetEntry", mock.Anything, testAdmin, entry.ID).Return(entry, nil)

	rec := doJSON(router, http.MethodGet, "/system/outbox/"+entry.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ReleaseOrderApproved", decodeData(t, rec)["event_type"])
}

func TestOutboxHandler_RetryDeadEntry(t *testing.T) {
	id := uuid.New()

	t.Run("dead entry", func(t *testing.T) {
		router, svc := setupOutboxTestRouter(testAdmin)
		retried := sampleOutboxEntry("pending")
		retried.RetryCount = 0
		svc.On("RetryDeadEntry", mock.Anything, testAdmin, id).Return(retried, nil)

		rec := doJSON(router, http.MethodPost, "/system/outbox/"+id.String()+"/retry", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeData(t, rec)
		assert.Equal(t, "pending", data["status"])
		assert.Equal(t, float64(0), data["retry_count"])
	})

	t.Run("not dead", func(t *testing.T) {
		router, svc := setupOutboxTestRouter(testAdmin)
		svc.On("RetryDeadEntry", mock.Anything, testAdmin, id).
			Return(nil, shared.NewInvalidTransitionError("outbox entry", "sent", "retry"))

		rec := doJSON(router, http.MethodPost, "/system/outbox/"+id.String()+"/retry", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		router, svc := setupOutboxTestRouter(testAdmin)

		rec := doJSON(router, http.MethodPost, "/system/outbox/abc/retry", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "RetryDeadEntry")
	})
}

func TestOutboxHandler_RetryAllDeadEntries(t *testing.T) {
	router, svc := setupOutboxTestRouter(testAdmin)
	svc.On("RetryAllDeadEntries", mock.Anything, testAdmin).Return(int64(3), nil)

	rec := doJSON(router, http.MethodPost, "/system/outbox/dead/retry-all", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decodeData(t, rec)["count"])
}

func TestOutboxHandler_GetStats(t *testing.T) {
	router, svc := setupOutboxTestRouter(testAdmin)
	svc.On("GetStats", mock.Anything, testAdmin).Return(&event.OutboxStatsDTO{Pending: 2, Sent: 40, Dead: 1, Total: 43}, nil)

	rec := doJSON(router, http.MethodGet, "/system/outbox/stats", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(43), data["total"])
	assert.Equal(t, float64(1), data["dead"])
}
