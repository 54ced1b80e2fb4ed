package booking

import (
	"context"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/release"
)

// TransactionScope provides transactional access to the booking repositories.
// A transition and every record it spawns (release order, invoices, deployments,
// slot changes, outbox entries) commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to every aggregate repository the engines use.
// Inside Execute all of them share the same underlying transaction.
type Repositories interface {
	Slots() catalog.SlotRepository
	WorkOrders() booking.WorkOrderRepository
	ReleaseOrders() release.ReleaseOrderRepository
	Invoices() finance.InvoiceRepository
	Deployments() deployment.DeploymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	slots         catalog.SlotRepository
	workOrders    booking.WorkOrderRepository
	releaseOrders release.ReleaseOrderRepository
	invoices      finance.InvoiceRepository
	deployments   deployment.DeploymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	slots catalog.SlotRepository,
	workOrders booking.WorkOrderRepository,
	releaseOrders release.ReleaseOrderRepository,
	invoices finance.InvoiceRepository,
	deployments deployment.DeploymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		slots:         slots,
		workOrders:    workOrders,
		releaseOrders: releaseOrders,
		invoices:      invoices,
		deployments:   deployments,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Slots returns the slot repository.
func (s *NoOpTransactionScope) Slots() catalog.SlotRepository { return s.slots }

// WorkOrders returns the work order repository.
func (s *NoOpTransactionScope) WorkOrders() booking.WorkOrderRepository { return s.workOrders }

// ReleaseOrders returns the release order repository.
func (s *NoOpTransactionScope) ReleaseOrders() release.ReleaseOrderRepository { return s.releaseOrders }

// Invoices returns the invoice repository.
func (s *NoOpTransactionScope) Invoices() finance.InvoiceRepository { return s.invoices }

// Deployments returns the deployment repository.
func (s *NoOpTransactionScope) Deployments() deployment.DeploymentRepository { return s.deployments }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ Repositories = (*NoOpTransactionScope)(nil)
