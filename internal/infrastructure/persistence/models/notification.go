package models

import (
	"time"

	"github.com/adbook/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is a persisted inbox entry.
type NotificationModel struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type          notification.Type `gorm:"type:varchar(50);not null"`
	Message       string            `gorm:"type:text;not null"`
	Read          bool              `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt        *time.Time
	AggregateType string    `gorm:"type:varchar(50)"`
	AggregateID   uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		ID:            m.ID,
		UserID:        m.UserID,
		Type:          m.Type,
		Message:       m.Message,
		Read:          m.Read,
		ReadAt:        m.ReadAt,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		CreatedAt:     m.CreatedAt,
	}
}

func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:            n.ID,
		UserID:        n.UserID,
		Type:          n.Type,
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		AggregateType: n.AggregateType,
		AggregateID:   n.AggregateID,
		CreatedAt:     n.CreatedAt,
	}
}
