package telemetry

import (
	"context"

	"github.com/adbook/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// WorkflowMetrics counts state transitions and outbox deliveries.
//
// It subscribes to the event bus for every event type, so each published
// transition increments adbook_workflow_transitions_total once per delivery.
type WorkflowMetrics struct {
	transitions *Counter
	deliveries  *Counter
}

// NewWorkflowMetrics creates the workflow instruments on meter
func NewWorkflowMetrics(meter metric.Meter) (*WorkflowMetrics, error) {
	transitions, err := NewCounter(meter, "adbook_workflow_transitions_total",
		"Workflow state transitions by event type", "{transition}")
	if err != nil {
		return nil, err
	}
	deliveries, err := NewCounter(meter, "adbook_outbox_deliveries_total",
		"Outbox delivery attempts by outcome", "{delivery}")
	if err != nil {
		return nil, err
	}
	return &WorkflowMetrics{transitions: transitions, deliveries: deliveries}, nil
}

// Handle counts one transition
func (m *WorkflowMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.transitions.Inc(ctx,
		AttrEventType.String(event.EventType()),
		AttrAggregateType.String(event.AggregateType()),
	)
	return nil
}

// EventTypes subscribes to every event
func (m *WorkflowMetrics) EventTypes() []string {
	return nil
}

// Delivered counts a successful outbox delivery
func (m *WorkflowMetrics) Delivered(ctx context.Context, eventType string) {
	m.deliveries.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String("delivered"))
}

// Failed counts a failed outbox delivery; dead marks a dead-lettered entry
func (m *WorkflowMetrics) Failed(ctx context.Context, eventType string, dead bool) {
	outcome := "retry"
	if dead {
		outcome = "dead"
	}
	m.deliveries.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
}

var _ shared.EventHandler = (*WorkflowMetrics)(nil)
