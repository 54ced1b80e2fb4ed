package event

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/adbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers events synchronously inside the publishing
// goroutine. A failing or panicking handler does not stop delivery to the
// others; all failures come back joined so the outbox can retry the entry.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	inflight atomic.Int64
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{registry: NewHandlerRegistry(), logger: logger}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	var errs []error
	for _, e := range events {
		for _, h := range b.registry.GetHandlers(e.EventType()) {
			if err := b.deliver(ctx, h, e); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", e.EventType(), e.EventID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) deliver(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			b.logger.Error("Event handler failed",
				zap.String("event_type", e.EventType()),
				zap.Stringer("event_id", e.EventID()),
				zap.Stringer("aggregate_id", e.AggregateID()),
				zap.Error(err),
			)
		}
	}()
	return h.Handle(ctx, e)
}

// Subscribe registers handler for eventTypes, defaulting to the types the
// handler declares.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started")
	return nil
}

// Running reports whether the bus is between Start and Stop
func (b *InMemoryEventBus) Running() bool {
	return b.running.Load()
}

// Stop marks the bus stopped; publishes in flight run to completion.
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("Event bus stopped", zap.Int64("inflight", b.inflight.Load()))
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
