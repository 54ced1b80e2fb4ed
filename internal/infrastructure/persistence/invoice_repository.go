package persistence

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
	outboxWriter
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByWorkOrder finds every invoice of a work order, oldest first
func (r *GormInvoiceRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*finance.Invoice, error) {
	return r.findWhere(ctx, "work_order_id = ?", workOrderID)
}

// FindByReleaseOrder finds the invoices attached to a release order
func (r *GormInvoiceRepository) FindByReleaseOrder(ctx context.Context, releaseOrderID uuid.UUID) ([]*finance.Invoice, error) {
	return r.findWhere(ctx, "release_order_id = ?", releaseOrderID)
}

func (r *GormInvoiceRepository) findWhere(ctx context.Context, cond string, arg any) ([]*finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at ASC, number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]*finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or overwrites an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.InvoiceModelFromDomain(invoice)).Error; err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, invoice)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVersion(tx, &models.InvoiceModel{}, invoice.ID, invoice.Version); err != nil {
			return err
		}

		expected := invoice.Version
		invoice.IncrementVersion()
		invoice.UpdatedAt = time.Now()

		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND version = ?", invoice.ID, expected).
			Updates(map[string]any{
				"release_order_id":  invoice.ReleaseOrderID,
				"status":            invoice.Status,
				"paid_amount":       invoice.PaidAmount,
				"file_url":          invoice.FileURL,
				"paid_at":           invoice.PaidAt,
				"payment_reference": invoice.PaymentReference,
				"failure_reason":    invoice.FailureReason,
				"version":           invoice.Version,
				"updated_at":        invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.writeEvents(ctx, tx, invoice)
	})
}

// NextNumber allocates the next number for the invoice type
// Format: PI-YYYY-NNNNN for proforma invoices, TI-YYYY-NNNNN for tax invoices
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, invoiceType finance.InvoiceType) (string, error) {
	kind := "TI"
	if invoiceType == finance.InvoiceTypeProforma {
		kind = "PI"
	}
	return nextDocumentNumber(ctx, r.db, kind, time.Now())
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
