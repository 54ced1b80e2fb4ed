package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockOutboxRepository is a mock implementation for testing
type mockOutboxRepository struct {
	mu               sync.Mutex
	entries          map[uuid.UUID]*shared.OutboxEntry
	findPendingFn    func(ctx context.Context, limit int) ([]*shared.OutboxEntry, error)
	findRetryableFn  func(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error)
	markProcessingFn func(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error)
	updateFn         func(ctx context.Context, entry *shared.OutboxEntry) error
	deleteFn         func(ctx context.Context, before time.Time) (int64, error)
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{
		entries: make(map[uuid.UUID]*shared.OutboxEntry),
	}
}

func (r *mockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	if r.findPendingFn != nil {
		return r.findPendingFn(ctx, limit)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	if r.findRetryableFn != nil {
		return r.findRetryableFn(ctx, before, limit)
	}
	return nil, nil
}

func (r *mockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if r.markProcessingFn != nil {
		return r.markProcessingFn(ctx, ids)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, entry)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if r.deleteFn != nil {
		return r.deleteFn(ctx, before)
	}
	return 0, nil
}

func (r *mockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *mockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *mockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *mockOutboxRepository) status(id uuid.UUID) shared.OutboxStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id].Status
}

type countingObserver struct {
	mu        sync.Mutex
	delivered int
	failed    int
	dead      int
}

func (o *countingObserver) Delivered(context.Context, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered++
}

func (o *countingObserver) Failed(_ context.Context, _ string, dead bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
	if dead {
		o.dead++
	}
}

func seedEntry(t *testing.T, repo *mockOutboxRepository, serializer *EventSerializer, eventType string) *shared.OutboxEntry {
	t.Helper()
	event := newTestEvent(eventType)
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func newProcessorFixture(t *testing.T) (*OutboxProcessor, *mockOutboxRepository, *InMemoryEventBus, *EventSerializer) {
	t.Helper()
	logger := zap.NewNop()
	serializer := NewEventSerializer()
	RegisterEvent[testEvent](serializer, "WorkOrderQuoted")
	repo := newMockOutboxRepository()
	bus := NewInMemoryEventBus(logger)
	processor := NewOutboxProcessor(repo, bus, serializer, OutboxProcessorConfig{BatchSize: 10, PollInterval: 20 * time.Millisecond}, logger)
	return processor, repo, bus, serializer
}

func TestOutboxProcessor_ProcessOnce_Delivers(t *testing.T) {
	processor, repo, bus, serializer := newProcessorFixture(t)
	observer := &countingObserver{}
	processor.SetObserver(observer)

	handler := newTestHandler("WorkOrderQuoted")
	bus.Subscribe(handler)
	entry := seedEntry(t, repo, serializer, "WorkOrderQuoted")

	delivered := processor.ProcessOnce(context.Background())

	assert.Equal(t, 1, delivered)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, shared.OutboxStatusSent, repo.status(entry.ID))
	assert.Equal(t, 1, observer.delivered)
}

func TestOutboxProcessor_ProcessOnce_HandlerFailureSchedulesRetry(t *testing.T) {
	processor, repo, bus, serializer := newProcessorFixture(t)
	observer := &countingObserver{}
	processor.SetObserver(observer)

	handler := newTestHandler("WorkOrderQuoted")
	handler.setError(errors.New("mail relay refused"))
	bus.Subscribe(handler)
	entry := seedEntry(t, repo, serializer, "WorkOrderQuoted")

	assert.Equal(t, 0, processor.ProcessOnce(context.Background()))

	stored, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "mail relay refused")
	require.NotNil(t, stored.NextRetryAt)
	assert.Equal(t, 1, observer.failed)
	assert.Zero(t, observer.dead)
}

func TestOutboxProcessor_ProcessOnce_UnknownTypeDeadLetters(t *testing.T) {
	processor, repo, _, serializer := newProcessorFixture(t)
	observer := &countingObserver{}
	processor.SetObserver(observer)

	entry := seedEntry(t, repo, serializer, "Unregistered")
	entry.MaxRetries = 1

	processor.ProcessOnce(context.Background())

	assert.Equal(t, shared.OutboxStatusDead, repo.status(entry.ID))
	assert.Contains(t, entry.LastError, "unknown event type")
	assert.Equal(t, 1, observer.dead)
}

func TestOutboxProcessor_ProcessOnce_SkipsUnclaimed(t *testing.T) {
	processor, repo, bus, serializer := newProcessorFixture(t)
	handler := newTestHandler("WorkOrderQuoted")
	bus.Subscribe(handler)
	seedEntry(t, repo, serializer, "WorkOrderQuoted")

	// Another processor claimed everything first.
	repo.markProcessingFn = func(context.Context, []uuid.UUID) ([]*shared.OutboxEntry, error) {
		return nil, nil
	}

	assert.Equal(t, 0, processor.ProcessOnce(context.Background()))
	assert.Empty(t, handler.getHandled())
}

func TestOutboxProcessor_ProcessOnce_RepositoryError(t *testing.T) {
	processor, repo, _, _ := newProcessorFixture(t)
	repo.findPendingFn = func(context.Context, int) ([]*shared.OutboxEntry, error) {
		return nil, errors.New("connection reset")
	}

	assert.Equal(t, 0, processor.ProcessOnce(context.Background()))
}

func TestOutboxProcessor_Cleanup(t *testing.T) {
	processor, repo, _, _ := newProcessorFixture(t)
	var cutoff time.Time
	repo.deleteFn = func(_ context.Context, before time.Time) (int64, error) {
		cutoff = before
		return 3, nil
	}

	assert.Equal(t, int64(3), processor.Cleanup(context.Background()))
	assert.WithinDuration(t, time.Now().Add(-DefaultOutboxProcessorConfig().CleanupRetention), cutoff, time.Minute)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	processor, repo, bus, serializer := newProcessorFixture(t)
	handler := newTestHandler("WorkOrderQuoted")
	bus.Subscribe(handler)
	entry := seedEntry(t, repo, serializer, "WorkOrderQuoted")

	require.NoError(t, processor.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return repo.status(entry.ID) == shared.OutboxStatusSent
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}

func TestDefaultOutboxProcessorConfig(t *testing.T) {
	config := DefaultOutboxProcessorConfig()

	assert.Equal(t, 100, config.BatchSize)
	assert.Equal(t, 2*time.Second, config.PollInterval)
	assert.True(t, config.CleanupEnabled)
	assert.Equal(t, 7*24*time.Hour, config.CleanupRetention)
	assert.Equal(t, time.Hour, config.CleanupInterval)
}

func TestNewOutboxProcessor_FillsZeroConfig(t *testing.T) {
	processor := NewOutboxProcessor(newMockOutboxRepository(), NewInMemoryEventBus(zap.NewNop()), NewEventSerializer(), OutboxProcessorConfig{}, zap.NewNop())

	assert.Equal(t, 100, processor.config.BatchSize)
	assert.Equal(t, 2*time.Second, processor.config.PollInterval)
}
