package notification

import (
	"time"

	"github.com/adbook/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// ListFilter represents filter options for the inbox
type ListFilter struct {
	Unread   bool `form:"unread"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse represents an inbox entry in API responses
type NotificationResponse struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	AggregateType string     `json:"aggregate_type,omitempty"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification to a response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          string(n.Type),
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		AggregateType: n.AggregateType,
		AggregateID:   n.AggregateID,
		CreatedAt:     n.CreatedAt,
	}
}
