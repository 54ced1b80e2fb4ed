package notification

import (
	"context"
	"fmt"

	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/notification"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InboxService stores notifications and serves each user's inbox.
// It is the notification.Notifier used by the fan-out handler.
type InboxService struct {
	repo      notification.Repository
	publisher notification.Publisher
	logger    *zap.Logger
}

// NewInboxService creates a new InboxService. publisher may be nil, which
// disables the live stream.
func NewInboxService(repo notification.Repository, publisher notification.Publisher, logger *zap.Logger) *InboxService {
	return &InboxService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify stores n and pushes it to live subscribers. Publishing is best effort.
func (s *InboxService) Notify(ctx context.Context, n *notification.Notification) error {
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("publishing notification failed",
			zap.String("notification_id", n.ID.String()),
			zap.String("user_id", n.UserID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// List returns a page of the actor's inbox, newest first
func (s *InboxService) List(ctx context.Context, actor identity.Actor, filter ListFilter) (*shared.Paginated[NotificationResponse], error) {
	f := shared.DefaultFilter()
	f.Page, f.PageSize = shared.PageBounds(filter.Page, filter.PageSize)
	if filter.Unread {
		f = f.With("unread", true)
	}

	items, total, err := s.repo.FindByUser(ctx, actor.ID, f)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = ToNotificationResponse(n)
	}
	result := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &result, nil
}

// MarkRead marks one of the actor's notifications as read
func (s *InboxService) MarkRead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.ID {
		return nil, shared.NewForbiddenError("notification belongs to another user")
	}
	if !n.Read {
		n.MarkRead()
		if err := s.repo.MarkRead(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks the actor's whole inbox as read
func (s *InboxService) MarkAllRead(ctx context.Context, actor identity.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

// Stream delivers the actor's new notifications until ctx is done
func (s *InboxService) Stream(ctx context.Context, actor identity.Actor) (<-chan NotificationResponse, error) {
	if s.publisher == nil {
		return nil, shared.NewValidationError("live notifications are not enabled")
	}
	in, err := s.publisher.Subscribe(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("subscribe to notifications: %w", err)
	}

	out := make(chan NotificationResponse)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- ToNotificationResponse(n):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

var _ notification.Notifier = (*InboxService)(nil)
