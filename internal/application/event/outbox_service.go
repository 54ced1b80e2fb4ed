package event

import (
	"context"
	"fmt"
	"time"

	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxService lets admins watch notification delivery and requeue what
// died. Every fan-out runs through the outbox, so a dead entry is a
// notification nobody received.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	return &OutboxService{repo: repo, logger: logger}
}

type OutboxEntryDTO struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type OutboxFilter struct {
	Page     int `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// OutboxStatsDTO counts entries per status
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// retryBatch is how many dead entries one RetryAllDeadEntries pass loads
const retryBatch = 100

func (s *OutboxService) GetDeadLetterEntries(ctx context.Context, actor identity.Actor, filter OutboxFilter) (*shared.Paginated[OutboxEntryDTO], error) {
	if err := actor.Require(identity.ActionSystemAdmin); err != nil {
		return nil, err
	}
	page, pageSize := shared.PageBounds(filter.Page, filter.PageSize)

	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("find dead letter entries: %w", err)
	}
	items := make([]OutboxEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toOutboxEntryDTO(entry))
	}
	result := shared.NewPaginated(items, total, page, pageSize)
	return &result, nil
}

func (s *OutboxService) GetEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OutboxEntryDTO, error) {
	if err := actor.Require(identity.ActionSystemAdmin); err != nil {
		return nil, err
	}
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryDeadEntry puts one dead entry back in the pending queue with a fresh
// retry budget. Entries in any other status are an invalid transition.
func (s *OutboxService) RetryDeadEntry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OutboxEntryDTO, error) {
	if err := actor.Require(identity.ActionSystemAdmin); err != nil {
		return nil, err
	}
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewInvalidTransitionError("outbox entry", string(entry.Status), "retry")
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update outbox entry: %w", err)
	}

	s.logger.Info("Dead notification requeued",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
		zap.String("actor_id", actor.ID.String()),
	)
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAllDeadEntries requeues dead entries batch by batch. Requeued
// entries leave the dead set, so each pass reads the first page again. An
// entry whose update fails is skipped and stays dead.
func (s *OutboxService) RetryAllDeadEntries(ctx context.Context, actor identity.Actor) (int64, error) {
	if err := actor.Require(identity.ActionSystemAdmin); err != nil {
		return 0, err
	}

	var requeued int64
	for {
		entries, _, err := s.repo.FindDead(ctx, 1, retryBatch)
		if err != nil {
			return requeued, fmt.Errorf("find dead letter entries: %w", err)
		}
		n := s.requeue(ctx, entries)
		requeued += n
		if len(entries) < retryBatch || n == 0 {
			break
		}
	}

	s.logger.Info("Dead notifications requeued",
		zap.Int64("count", requeued),
		zap.String("actor_id", actor.ID.String()),
	)
	return requeued, nil
}

func (s *OutboxService) requeue(ctx context.Context, entries []*shared.OutboxEntry) int64 {
	var n int64
	for _, entry := range entries {
		if entry.ResetForRetry() != nil {
			continue
		}
		if err := s.repo.Update(ctx, entry); err != nil {
			s.logger.Error("Failed to requeue outbox entry", zap.String("id", entry.ID.String()), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

func (s *OutboxService) GetStats(ctx context.Context, actor identity.Actor) (*OutboxStatsDTO, error) {
	if err := actor.Require(identity.ActionSystemAdmin); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count outbox entries: %w", err)
	}

	stats := &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *OutboxService) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	switch {
	case err != nil:
		return nil, err
	case entry == nil:
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func toOutboxEntryDTO(e *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
