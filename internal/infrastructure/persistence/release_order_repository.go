package persistence

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReleaseOrderRepository implements release.ReleaseOrderRepository using GORM
type GormReleaseOrderRepository struct {
	db *gorm.DB
	outboxWriter
}

// NewGormReleaseOrderRepository creates a new GormReleaseOrderRepository
func NewGormReleaseOrderRepository(db *gorm.DB) *GormReleaseOrderRepository {
	return &GormReleaseOrderRepository{db: db}
}

// FindByID finds a release order by its ID with its items
func (r *GormReleaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*release.ReleaseOrder, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByWorkOrder finds the release order generated for a work order
func (r *GormReleaseOrderRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*release.ReleaseOrder, error) {
	return r.findOne(ctx, "work_order_id = ?", workOrderID)
}

func (r *GormReleaseOrderRepository) findOne(ctx context.Context, cond string, arg any) (*release.ReleaseOrder, error) {
	var model models.ReleaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where(cond, arg).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists release orders with filtering and pagination
func (r *GormReleaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*release.ReleaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReleaseOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "work_order_id":
			query = query.Where("work_order_id = ?", value)
		}
	}
	return r.list(query, filter, "created_at")
}

// FindReadyForLane lists accepted release orders that still have work in lane.
// An item needs work while it is neither processed nor live.
func (r *GormReleaseOrderRepository) FindReadyForLane(ctx context.Context, lane release.Lane, filter shared.Filter) ([]*release.ReleaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReleaseOrderModel{}).
		Where("status = ?", release.StatusAccepted).
		Where(`EXISTS (
			SELECT 1 FROM release_order_items i
			WHERE i.release_order_id = release_orders.id
			  AND i.lane = ?
			  AND i.processed_at IS NULL
			  AND i.live_deployment_id IS NULL)`, lane)
	if filter.OrderBy == "" {
		filter.OrderBy = "accepted_at"
		filter.OrderDir = "asc"
	}
	return r.list(query, filter, "accepted_at")
}

func (r *GormReleaseOrderRepository) list(query *gorm.DB, filter shared.Filter, defaultSort string) ([]*release.ReleaseOrder, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReleaseOrderModel
	if err := paginate(query, filter, ReleaseOrderSortFields, defaultSort).
		Preload("Items").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*release.ReleaseOrder, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates or overwrites a release order and its items
func (r *GormReleaseOrderRepository) Save(ctx context.Context, order *release.ReleaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ReleaseOrderModelFromDomain(order)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := r.saveItems(tx, model); err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, order)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReleaseOrderRepository) SaveWithLock(ctx context.Context, order *release.ReleaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVersion(tx, &models.ReleaseOrderModel{}, order.ID, order.Version); err != nil {
			return err
		}

		expected := order.Version
		order.IncrementVersion()
		order.UpdatedAt = time.Now()

		result := tx.Model(&models.ReleaseOrderModel{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(map[string]any{
				"status":               order.Status,
				"payment_status":       order.PaymentStatus,
				"rejection_reason":     order.RejectionReason,
				"rejected_by":          order.RejectedBy,
				"rejected_at":          order.RejectedAt,
				"rejected_from_status": order.RejectedFromStatus,
				"accounts_invoice_url": order.AccountsInvoiceURL,
				"accepted_at":          order.AcceptedAt,
				"deployed_at":          order.DeployedAt,
				"version":              order.Version,
				"updated_at":           order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := r.saveItems(tx, models.ReleaseOrderModelFromDomain(order)); err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, order)
	})
}

// NextNumber allocates the next release order number
// Format: RO-YYYY-NNNNN
func (r *GormReleaseOrderRepository) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, "RO", time.Now())
}

func (r *GormReleaseOrderRepository) saveItems(tx *gorm.DB, model *models.ReleaseOrderModel) error {
	ids := make([]any, len(model.Items))
	for i, item := range model.Items {
		ids[i] = item.ID
	}
	return syncItems(tx, "release_order_id", model.ID, ids, model.Items)
}

var _ release.ReleaseOrderRepository = (*GormReleaseOrderRepository)(nil)
