package persistence

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkOrderRepository implements booking.WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
	outboxWriter
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByID finds a work order by its ID with its items
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.WorkOrder, error) {
	var model models.WorkOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists work orders with filtering and pagination
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*booking.WorkOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WorkOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WorkOrderModel
	if err := paginate(query, filter, WorkOrderSortFields, "created_at").
		Preload("Items").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return workOrdersToDomain(rows), total, nil
}

// FindByStatus finds every work order in the given status, oldest first
func (r *GormWorkOrderRepository) FindByStatus(ctx context.Context, status booking.WorkOrderStatus) ([]*booking.WorkOrder, error) {
	var rows []models.WorkOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return workOrdersToDomain(rows), nil
}

// Save creates or overwrites a work order and its items
func (r *GormWorkOrderRepository) Save(ctx context.Context, order *booking.WorkOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.WorkOrderModelFromDomain(order)
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
func (r *GormWorkOrderRepository) SaveWithLock(ctx context.Context, order *booking.WorkOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVersion(tx, &models.WorkOrderModel{}, order.ID, order.Version); err != nil {
			return err
		}

		expected := order.Version
		order.IncrementVersion()
		order.UpdatedAt = time.Now()

		result := tx.Model(&models.WorkOrderModel{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(map[string]any{
				"status":                order.Status,
				"payment_mode":          order.PaymentMode,
				"total_amount":          order.TotalAmount,
				"po_url":                order.POURL,
				"po_approved":           order.POApproved,
				"po_approved_by":        order.POApprovedBy,
				"negotiation_requested": order.NegotiationRequested,
				"negotiation_reason":    order.NegotiationReason,
				"rejection_reason":      order.RejectionReason,
				"rejected_by":           order.RejectedBy,
				"quoted_at":             order.QuotedAt,
				"accepted_at":           order.AcceptedAt,
				"paid_at":               order.PaidAt,
				"activated_at":          order.ActivatedAt,
				"completed_at":          order.CompletedAt,
				"rejected_at":           order.RejectedAt,
				"version":               order.Version,
				"updated_at":            order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := r.saveItems(tx, models.WorkOrderModelFromDomain(order)); err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, order)
	})
}

// NextNumber allocates the next work order number
// Format: WO-YYYY-NNNNN (e.g., WO-2026-00001)
func (r *GormWorkOrderRepository) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, "WO", time.Now())
}

func (r *GormWorkOrderRepository) saveItems(tx *gorm.DB, model *models.WorkOrderModel) error {
	ids := make([]any, len(model.Items))
	for i, item := range model.Items {
		ids[i] = item.ID
	}
	return syncItems(tx, "work_order_id", model.ID, ids, model.Items)
}

func workOrdersToDomain(rows []models.WorkOrderModel) []*booking.WorkOrder {
	orders := make([]*booking.WorkOrder, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain()
	}
	return orders
}

var _ booking.WorkOrderRepository = (*GormWorkOrderRepository)(nil)
