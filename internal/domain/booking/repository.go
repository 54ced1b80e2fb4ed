package booking

import (
	"context"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	// FindByID loads the order with its items; shared.ErrNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)

	// FindAll supports filters "client_id" and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]*WorkOrder, int64, error)

	// FindByStatus returns every order in the given status, oldest first
	FindByStatus(ctx context.Context, status WorkOrderStatus) ([]*WorkOrder, error)

	// Save creates the order and its items and writes pending events to the outbox
	Save(ctx context.Context, order *WorkOrder) error

	// SaveWithLock updates with an optimistic version check and writes pending events
	SaveWithLock(ctx context.Context, order *WorkOrder) error

	// NextNumber allocates the next human readable order number
	NextNumber(ctx context.Context) (string, error)
}
