package notification

import (
	"context"
	"strings"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies a notification for the inbox UI
type Type string

const (
	TypeWorkOrder    Type = "work_order"
	TypeNegotiation  Type = "negotiation"
	TypeInvoice      Type = "invoice"
	TypePayment      Type = "payment"
	TypeReleaseOrder Type = "release_order"
	TypeRejection    Type = "rejection"
	TypeDeployment   Type = "deployment"
)

// Notification is one inbox entry for one user
type Notification struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Type          Type
	Message       string
	Read          bool
	ReadAt        *time.Time
	AggregateType string
	AggregateID   uuid.UUID
	CreatedAt     time.Time
}

// New creates an unread notification
func New(userID uuid.UUID, typ Type, message, aggregateType string, aggregateID uuid.UUID) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("notification recipient is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewValidationError("notification message is required")
	}
	return &Notification{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          typ,
		Message:       message,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		CreatedAt:     time.Now(),
	}, nil
}

// MarkRead marks the notification as read; reading twice keeps the first timestamp
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
}

// Repository defines the interface for inbox persistence
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindByUser supports the filter "unread"
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, n *Notification) error
	// MarkAllRead returns how many notifications changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Notifier delivers a message to one user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// Publisher pushes stored notifications to live subscribers
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
	// Subscribe streams notifications for userID until ctx is done
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *Notification, error)
}
