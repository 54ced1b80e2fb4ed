package persistence

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeploymentRepository implements deployment.DeploymentRepository using GORM
type GormDeploymentRepository struct {
	db *gorm.DB
	outboxWriter
}

// NewGormDeploymentRepository creates a new GormDeploymentRepository
func NewGormDeploymentRepository(db *gorm.DB) *GormDeploymentRepository {
	return &GormDeploymentRepository{db: db}
}

// FindByID finds a deployment by its ID
func (r *GormDeploymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	var model models.DeploymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindLiveByItem finds the live deployment of a release order item
func (r *GormDeploymentRepository) FindLiveByItem(ctx context.Context, releaseOrderItemID uuid.UUID) (*deployment.Deployment, error) {
	var model models.DeploymentModel
	if err := r.db.WithContext(ctx).
		Where("release_order_item_id = ? AND status = ?", releaseOrderItemID, deployment.StatusDeployed).
		Order("deployed_at DESC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByReleaseOrder finds every deployment of a release order, newest first
func (r *GormDeploymentRepository) FindByReleaseOrder(ctx context.Context, releaseOrderID uuid.UUID) ([]*deployment.Deployment, error) {
	return r.find(r.db.WithContext(ctx).
		Where("release_order_id = ?", releaseOrderID).
		Order("deployed_at DESC"))
}

// FindByWorkOrder finds every deployment of a work order, newest first
func (r *GormDeploymentRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*deployment.Deployment, error) {
	return r.find(r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("deployed_at DESC"))
}

// FindExpiring finds live deployments whose end date has passed
func (r *GormDeploymentRepository) FindExpiring(ctx context.Context, now time.Time, limit int) ([]*deployment.Deployment, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", deployment.StatusDeployed, now).
		Order("end_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

func (r *GormDeploymentRepository) find(query *gorm.DB) ([]*deployment.Deployment, error) {
	var rows []models.DeploymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	deployments := make([]*deployment.Deployment, len(rows))
	for i := range rows {
		deployments[i] = rows[i].ToDomain()
	}
	return deployments, nil
}

// Save creates or overwrites a deployment
func (r *GormDeploymentRepository) Save(ctx context.Context, d *deployment.Deployment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.DeploymentModelFromDomain(d)).Error; err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, d)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDeploymentRepository) SaveWithLock(ctx context.Context, d *deployment.Deployment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVersion(tx, &models.DeploymentModel{}, d.ID, d.Version); err != nil {
			return err
		}

		expected := d.Version
		d.IncrementVersion()
		d.UpdatedAt = time.Now()

		result := tx.Model(&models.DeploymentModel{}).
			Where("id = ? AND version = ?", d.ID, expected).
			Updates(map[string]any{
				"status":     d.Status,
				"removed_by": d.RemovedBy,
				"removed_at": d.RemovedAt,
				"expired_at": d.ExpiredAt,
				"version":    d.Version,
				"updated_at": d.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.writeEvents(ctx, tx, d)
	})
}

var _ deployment.DeploymentRepository = (*GormDeploymentRepository)(nil)
