package deployment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeploymentRepository defines the interface for deployment persistence
type DeploymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deployment, error)

	// FindLiveByItem returns the deployed record of a release order item; shared.ErrNotFound if none
	FindLiveByItem(ctx context.Context, releaseOrderItemID uuid.UUID) (*Deployment, error)

	// FindByReleaseOrder returns all records of a release order, newest first
	FindByReleaseOrder(ctx context.Context, releaseOrderID uuid.UUID) ([]*Deployment, error)

	// FindByWorkOrder returns all records of a work order
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*Deployment, error)

	// FindExpiring returns live records whose end date is at or before now
	FindExpiring(ctx context.Context, now time.Time, limit int) ([]*Deployment, error)

	Save(ctx context.Context, d *Deployment) error
	SaveWithLock(ctx context.Context, d *Deployment) error
}
