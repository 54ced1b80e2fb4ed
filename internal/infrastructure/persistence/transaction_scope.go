package persistence

import (
	"context"

	appbooking "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionScope implements booking.TransactionScope using GORM transactions.
// Every repository handed to fn shares the transaction, including the outbox writes.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope.
// outboxSaver may be nil, in which case domain events are discarded.
func NewGormTransactionScope(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, outboxSaver: outboxSaver}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbooking.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx, s.outboxSaver))
	})
}

// GormRepositories bundles the aggregate repositories over one *gorm.DB.
type GormRepositories struct {
	slots         *GormSlotRepository
	workOrders    *GormWorkOrderRepository
	releaseOrders *GormReleaseOrderRepository
	invoices      *GormInvoiceRepository
	deployments   *GormDeploymentRepository
}

// NewGormRepositories creates the repositories over db, all writing events with outboxSaver.
func NewGormRepositories(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormRepositories {
	r := &GormRepositories{
		slots:         NewGormSlotRepository(db),
		workOrders:    NewGormWorkOrderRepository(db),
		releaseOrders: NewGormReleaseOrderRepository(db),
		invoices:      NewGormInvoiceRepository(db),
		deployments:   NewGormDeploymentRepository(db),
	}
	r.slots.SetOutboxEventSaver(outboxSaver)
	r.workOrders.SetOutboxEventSaver(outboxSaver)
	r.releaseOrders.SetOutboxEventSaver(outboxSaver)
	r.invoices.SetOutboxEventSaver(outboxSaver)
	r.deployments.SetOutboxEventSaver(outboxSaver)
	return r
}

// Slots returns the slot repository.
func (r *GormRepositories) Slots() catalog.SlotRepository { return r.slots }

// WorkOrders returns the work order repository.
func (r *GormRepositories) WorkOrders() booking.WorkOrderRepository { return r.workOrders }

// ReleaseOrders returns the release order repository.
func (r *GormRepositories) ReleaseOrders() release.ReleaseOrderRepository { return r.releaseOrders }

// Invoices returns the invoice repository.
func (r *GormRepositories) Invoices() finance.InvoiceRepository { return r.invoices }

// Deployments returns the deployment repository.
func (r *GormRepositories) Deployments() deployment.DeploymentRepository { return r.deployments }

// Ensure GormTransactionScope implements TransactionScope
var _ appbooking.TransactionScope = (*GormTransactionScope)(nil)

// Ensure GormRepositories implements Repositories
var _ appbooking.Repositories = (*GormRepositories)(nil)
