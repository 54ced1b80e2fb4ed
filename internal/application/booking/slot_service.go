package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotService exposes the slot catalog
type SlotService struct {
	repos  Repositories
	logger *zap.Logger
}

// NewSlotService creates a new SlotService
func NewSlotService(repos Repositories, logger *zap.Logger) *SlotService {
	return &SlotService{repos: repos, logger: logger}
}

// List returns a page of slots matching the filter
func (s *SlotService) List(ctx context.Context, filter SlotListFilter) ([]SlotResponse, int64, error) {
	domainFilter := newFilter(filter.Page, filter.PageSize)
	if filter.MediaType != "" {
		domainFilter = domainFilter.With("media_type", filter.MediaType)
	}
	if filter.Status != "" {
		domainFilter = domainFilter.With("status", filter.Status)
	}

	slots, total, err := s.repos.Slots().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = ToSlotResponse(slot)
	}
	return out, total, nil
}

// GetByID returns one slot
func (s *SlotService) GetByID(ctx context.Context, id uuid.UUID) (*SlotResponse, error) {
	slot, err := s.repos.Slots().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSlotResponse(slot)
	return &resp, nil
}
