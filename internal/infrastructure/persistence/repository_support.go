package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// eventSource is implemented by every aggregate that raises domain events.
type eventSource interface {
	PullDomainEvents() []shared.DomainEvent
}

// outboxWriter carries the optional outbox saver shared by the aggregate repositories.
type outboxWriter struct {
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (w *outboxWriter) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	w.outboxSaver = saver
}

// writeEvents drains the aggregate's pending events into the outbox using tx.
// Without a saver the events are dropped.
func (w *outboxWriter) writeEvents(ctx context.Context, tx *gorm.DB, agg eventSource) error {
	events := agg.PullDomainEvents()
	if w.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	if err := w.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// translateNotFound maps gorm.ErrRecordNotFound to shared.ErrNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// paginate applies ordering and paging to query.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// checkVersion reads the stored version of the row and compares it with expected.
func checkVersion(tx *gorm.DB, model any, id any, expected int) error {
	var current []int
	if err := tx.Model(model).Where("id = ?", id).Pluck("version", &current).Error; err != nil {
		return err
	}
	if len(current) == 0 {
		return shared.ErrNotFound
	}
	if current[0] != expected {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// nextSequence increments and returns the counter for prefix. The upsert is a
// single statement so concurrent callers never receive the same value.
func nextSequence(ctx context.Context, db *gorm.DB, prefix string) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (prefix, value) VALUES (?, 1)
		 ON CONFLICT (prefix) DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`, prefix,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s number: %w", prefix, err)
	}
	return value, nil
}

// nextDocumentNumber allocates a number of the form PREFIX-YYYY-NNNNN.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, kind string, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d", kind, now.Year())
	value, err := nextSequence(ctx, db, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", prefix, value), nil
}

// syncItems deletes the child rows of parentID that are no longer present and
// upserts the remaining ones.
func syncItems[T any](tx *gorm.DB, foreignKey string, parentID any, ids []any, items []T) error {
	var zero T
	query := tx.Where(foreignKey+" = ?", parentID)
	if len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}
	if err := query.Delete(&zero).Error; err != nil {
		return err
	}
	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
