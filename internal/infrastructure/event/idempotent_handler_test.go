package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerMock struct {
	mock.Mock
}

func (m *handlerMock) Handle(ctx context.Context, event shared.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *handlerMock) EventTypes() []string {
	return m.Called().Get(0).([]string)
}

type storeMock struct {
	mock.Mock
}

func (m *storeMock) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *storeMock) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *storeMock) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *storeMock) Close() error {
	return m.Called().Error(0)
}

type paidEvent struct {
	shared.BaseDomainEvent
	WorkOrderNumber string `json:"work_order_number"`
}

func newPaidEvent() *paidEvent {
	return &paidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(booking.EventTypeWorkOrderPaid, booking.AggregateTypeWorkOrder, uuid.New(), uuid.Nil),
		WorkOrderNumber: "WO-000042",
	}
}

func newStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandler_RedeliveredEventRunsOnce(t *testing.T) {
	fanOut := new(handlerMock)
	event := newPaidEvent()
	fanOut.On("Handle", mock.Anything, event).Return(nil).Once()

	h := NewIdempotentHandler(fanOut, newStore(t), zap.NewNop())
	for range 3 {
		require.NoError(t, h.Handle(context.Background(), event))
	}

	fanOut.AssertExpectations(t)
	stats := h.GetMetrics().Stats()
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 2}, stats)
}

func TestIdempotentHandler_FailureReleasesClaim(t *testing.T) {
	fanOut := new(handlerMock)
	event := newPaidEvent()
	fanOut.On("Handle", mock.Anything, event).Return(errors.New("inbox insert failed")).Once()
	fanOut.On("Handle", mock.Anything, event).Return(nil).Once()

	store := newStore(t)
	h := NewIdempotentHandler(fanOut, store, zap.NewNop())

	err := h.Handle(context.Background(), event)
	require.EqualError(t, err, "inbox insert failed")
	assert.Zero(t, store.Size(), "claim must not outlive the failed attempt")

	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	fanOut.AssertExpectations(t)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 1, EventsFailed: 1}, h.GetMetrics().Stats())
}

func TestIdempotentHandler_ClaimsArePerHandler(t *testing.T) {
	store := newStore(t)
	event := newPaidEvent()
	inbox := new(handlerMock)
	mailer := new(handlerMock)
	inbox.On("Handle", mock.Anything, event).Return(nil).Once()
	mailer.On("Handle", mock.Anything, event).Return(nil).Once()

	metrics := &IdempotencyMetrics{}
	a := NewIdempotentHandler(inbox, store, zap.NewNop(), WithHandlerName("inbox"), WithIdempotencyMetrics(metrics))
	b := NewIdempotentHandler(mailer, store, zap.NewNop(), WithHandlerName("mailer"), WithIdempotencyMetrics(metrics))

	require.NoError(t, a.Handle(context.Background(), event))
	require.NoError(t, b.Handle(context.Background(), event))

	inbox.AssertExpectations(t)
	mailer.AssertExpectations(t)
	assert.Equal(t, 2, store.Size())
	assert.Equal(t, int64(2), metrics.EventsProcessed.Load())
}

func TestIdempotentHandler_StoreDownStillDelivers(t *testing.T) {
	store := new(storeMock)
	fanOut := new(handlerMock)
	event := newPaidEvent()
	key := "event:fanout:" + event.EventID().String()
	store.On("MarkProcessed", mock.Anything, key, 24*time.Hour).Return(false, errors.New("redis: connection refused"))
	fanOut.On("Handle", mock.Anything, event).Return(errors.New("still failing"))

	h := NewIdempotentHandler(fanOut, store, zap.NewNop(), WithHandlerName("fanout"))
	require.Error(t, h.Handle(context.Background(), event))

	// nothing was claimed, so nothing is released
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	fanOut := new(handlerMock)
	event := newPaidEvent()
	fanOut.On("Handle", mock.Anything, event).Return(nil).Times(3)

	h := NewIdempotentHandler(fanOut, newStore(t), zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{TTL: time.Hour, Enabled: false}),
	)
	for range 3 {
		require.NoError(t, h.Handle(context.Background(), event))
	}

	fanOut.AssertExpectations(t)
	assert.Zero(t, h.GetMetrics().Stats())
}

func TestIdempotentHandler_Delegates(t *testing.T) {
	fanOut := new(handlerMock)
	fanOut.On("EventTypes").Return([]string{booking.EventTypeWorkOrderCreated, booking.EventTypeWorkOrderPaid})

	h := NewIdempotentHandler(fanOut, newStore(t), zap.NewNop())

	assert.Equal(t, []string{booking.EventTypeWorkOrderCreated, booking.EventTypeWorkOrderPaid}, h.EventTypes())
	assert.Same(t, fanOut, h.GetWrappedHandler())
}

func TestWrapHandlersWithIdempotency(t *testing.T) {
	wrapped := WrapHandlersWithIdempotency(
		[]shared.EventHandler{new(handlerMock), new(handlerMock)},
		newStore(t),
		zap.NewNop(),
	)

	require.Len(t, wrapped, 2)
	for _, h := range wrapped {
		assert.IsType(t, &IdempotentHandler{}, h)
	}
}

func TestIdempotentHandler_ConcurrentRedelivery(t *testing.T) {
	fanOut := new(handlerMock)
	event := newPaidEvent()
	fanOut.On("Handle", mock.Anything, event).Return(nil).Once()

	h := NewIdempotentHandler(fanOut, newStore(t), zap.NewNop())

	const workers = 32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Handle(context.Background(), event))
		}()
	}
	wg.Wait()

	fanOut.AssertExpectations(t)
	assert.Equal(t, int64(1), h.GetMetrics().EventsProcessed.Load())
	assert.Equal(t, int64(workers-1), h.GetMetrics().EventsDuplicate.Load())
}
