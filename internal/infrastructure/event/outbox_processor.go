package event

import (
	"context"
	"sync"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxProcessorConfig tunes the relay loop and the retention sweep
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     2 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// DeliveryObserver hears about every delivery attempt. The workflow metrics
// count delivered and dead-lettered notifications through it.
type DeliveryObserver interface {
	Delivered(ctx context.Context, eventType string)
	Failed(ctx context.Context, eventType string, dead bool)
}

type noopObserver struct{}

func (noopObserver) Delivered(context.Context, string)    {}
func (noopObserver) Failed(context.Context, string, bool) {}

// OutboxProcessor moves committed outbox rows onto the event bus. Entries are
// claimed with MarkProcessing first so that two replicas never deliver the
// same row concurrently.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	bus        shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger
	observer   DeliveryObserver

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	bus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	defaults := DefaultOutboxProcessorConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	return &OutboxProcessor{
		repo:       repo,
		bus:        bus,
		serializer: serializer,
		config:     config,
		logger:     logger,
		observer:   noopObserver{},
	}
}

// SetObserver installs o; nil restores the no-op observer.
func (p *OutboxProcessor) SetObserver(o DeliveryObserver) {
	if o == nil {
		o = noopObserver{}
	}
	p.observer = o
}

// Start launches the relay loop and, if enabled, the retention sweep
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.every(ctx, p.config.PollInterval, func(ctx context.Context) { p.ProcessOnce(ctx) })
	if p.config.CleanupEnabled && p.config.CleanupInterval > 0 {
		p.every(ctx, p.config.CleanupInterval, func(ctx context.Context) { p.Cleanup(ctx) })
	}

	p.logger.Info("Outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the current batch, or for ctx
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) every(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				tick(ctx)
			}
		}
	}()
}

// ProcessOnce relays one batch of new entries, then one batch of failed
// entries whose backoff has elapsed, and returns how many were delivered.
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("Outbox poll failed", zap.String("stage", "pending"), zap.Error(err))
		return 0
	}
	delivered := p.relay(ctx, pending)

	retryable, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("Outbox poll failed", zap.String("stage", "retryable"), zap.Error(err))
		return delivered
	}
	return delivered + p.relay(ctx, retryable)
}

func (p *OutboxProcessor) relay(ctx context.Context, entries []*shared.OutboxEntry) int {
	if len(entries) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("Could not claim outbox entries", zap.Int("count", len(ids)), zap.Error(err))
		return 0
	}

	delivered := 0
	for _, entry := range claimed {
		if p.deliver(ctx, entry) {
			delivered++
		}
	}
	return delivered
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	event, err := p.serializer.DeserializeEntry(entry)
	if err == nil {
		err = p.bus.Publish(ctx, event)
	}
	if err != nil {
		p.fail(ctx, entry, err)
		return false
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		// Left PROCESSING. Handlers dedupe on event id, so an admin retry is safe.
		p.logger.Error("Delivered entry not marked sent", append(entryFields(entry), zap.Error(err))...)
		return true
	}
	p.observer.Delivered(ctx, entry.EventType)
	p.logger.Debug("Outbox entry delivered", entryFields(entry)...)
	return true
}

func (p *OutboxProcessor) fail(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())
	dead := entry.IsDead()

	fields := append(entryFields(entry), zap.Int("retry_count", entry.RetryCount), zap.Error(cause))
	if dead {
		p.logger.Warn("Outbox entry dead-lettered", fields...)
	} else {
		p.logger.Error("Outbox delivery failed", append(fields, zap.Timep("next_retry_at", entry.NextRetryAt))...)
	}
	p.observer.Failed(ctx, entry.EventType, dead)

	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("Could not record outbox failure", append(entryFields(entry), zap.Error(err))...)
	}
}

func entryFields(e *shared.OutboxEntry) []zap.Field {
	return []zap.Field{
		zap.Stringer("event_id", e.EventID),
		zap.String("event_type", e.EventType),
		zap.String("aggregate_type", e.AggregateType),
		zap.Stringer("aggregate_id", e.AggregateID),
	}
}

// Cleanup deletes sent entries older than the retention window
func (p *OutboxProcessor) Cleanup(ctx context.Context) int64 {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("Outbox cleanup failed", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		p.logger.Info("Outbox cleaned up", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted
}
