package persistence

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSlotRepository implements catalog.SlotRepository using GORM
type GormSlotRepository struct {
	db *gorm.DB
	outboxWriter
}

// NewGormSlotRepository creates a new GormSlotRepository
func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// FindByID finds a slot by its ID
func (r *GormSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Slot, error) {
	var model models.SlotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the slots with the given IDs
func (r *GormSlotRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Slot, error) {
	if len(ids) == 0 {
		return []*catalog.Slot{}, nil
	}
	var rows []models.SlotModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	slots := make([]*catalog.Slot, len(rows))
	for i := range rows {
		slots[i] = rows[i].ToDomain()
	}
	return slots, nil
}

// FindAll lists slots with filtering and pagination
func (r *GormSlotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Slot, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SlotModel{})
	for key, value := range filter.Filters {
		switch key {
		case "media_type":
			query = query.Where("media_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SlotModel
	if err := paginate(query, filter, SlotSortFields, "code").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	slots := make([]*catalog.Slot, len(rows))
	for i := range rows {
		slots[i] = rows[i].ToDomain()
	}
	return slots, total, nil
}

// Save creates or fully overwrites a slot
func (r *GormSlotRepository) Save(ctx context.Context, slot *catalog.Slot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.SlotModelFromDomain(slot)).Error; err != nil {
			return err
		}
		return r.writeEvents(ctx, tx, slot)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSlotRepository) SaveWithLock(ctx context.Context, slot *catalog.Slot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVersion(tx, &models.SlotModel{}, slot.ID, slot.Version); err != nil {
			return err
		}

		expected := slot.Version
		slot.IncrementVersion()
		slot.UpdatedAt = time.Now()

		result := tx.Model(&models.SlotModel{}).
			Where("id = ? AND version = ?", slot.ID, expected).
			Updates(map[string]any{
				"name":                 slot.Name,
				"page_type":            slot.PageType,
				"media_type":           slot.MediaType,
				"position":             slot.Position,
				"dimensions":           slot.Dimensions,
				"price":                slot.Price,
				"pricing_unit":         slot.PricingUnit,
				"status":               slot.Status,
				"magazine_page_number": slot.MagazinePageNumber,
				"held_by":              slot.HeldBy,
				"version":              slot.Version,
				"updated_at":           slot.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.writeEvents(ctx, tx, slot)
	})
}

var _ catalog.SlotRepository = (*GormSlotRepository)(nil)
