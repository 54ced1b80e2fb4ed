package catalog

import (
	"context"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SlotRepository defines the interface for slot persistence
type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	// FindByIDs returns the slots found; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Slot, error)
	// FindAll supports filters "media_type" and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]*Slot, int64, error)
	Save(ctx context.Context, slot *Slot) error
	// SaveWithLock saves with optimistic locking and writes the slot's events to the outbox
	SaveWithLock(ctx context.Context, slot *Slot) error
}
