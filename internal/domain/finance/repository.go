package finance

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice; shared.ErrNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByWorkOrder returns every invoice of a work order, oldest first
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*Invoice, error)

	// FindByReleaseOrder returns the tax invoices of a release order
	FindByReleaseOrder(ctx context.Context, releaseOrderID uuid.UUID) ([]*Invoice, error)

	// Save creates an invoice and writes pending events to the outbox
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock updates with an optimistic version check and writes pending events
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// NextNumber allocates the next number for the invoice type
	NextNumber(ctx context.Context, invoiceType InvoiceType) (string, error)
}
