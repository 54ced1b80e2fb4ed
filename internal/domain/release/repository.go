package release

import (
	"context"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReleaseOrderRepository defines the interface for release order persistence
type ReleaseOrderRepository interface {
	// FindByID loads the order with its items; shared.ErrNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*ReleaseOrder, error)

	// FindByWorkOrder returns the release order of a work order; shared.ErrNotFound if none yet
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*ReleaseOrder, error)

	// FindAll supports filters "status", "client_id" and "work_order_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]*ReleaseOrder, int64, error)

	// FindReadyForLane returns accepted orders with at least one item in lane
	// that is neither processed nor live
	FindReadyForLane(ctx context.Context, lane Lane, filter shared.Filter) ([]*ReleaseOrder, int64, error)

	// Save creates the order and its items and writes pending events to the outbox
	Save(ctx context.Context, order *ReleaseOrder) error

	// SaveWithLock updates with an optimistic version check and writes pending events
	SaveWithLock(ctx context.Context, order *ReleaseOrder) error

	// NextNumber allocates the next human readable order number
	NextNumber(ctx context.Context) (string, error)
}
