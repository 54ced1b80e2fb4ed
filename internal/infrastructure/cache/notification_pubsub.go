package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/adbook/backend/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	notificationChannelPrefix = "notifications:"
	subscriberBufferSize      = 16
)

// NotificationChannel is the pub/sub channel carrying a user's notifications
func NotificationChannel(userID uuid.UUID) string {
	return notificationChannelPrefix + userID.String()
}

// notificationMessage is the JSON payload published on a user's channel
type notificationMessage struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Type          string     `json:"type"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	AggregateType string     `json:"aggregate_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

func encodeNotification(n *notification.Notification) ([]byte, error) {
	return json.Marshal(notificationMessage{
		ID:            n.ID,
		UserID:        n.UserID,
		Type:          string(n.Type),
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		AggregateType: n.AggregateType,
		AggregateID:   n.AggregateID,
		CreatedAt:     n.CreatedAt,
	})
}

func decodeNotification(payload string) (*notification.Notification, error) {
	var msg notificationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, err
	}
	return &notification.Notification{
		ID:            msg.ID,
		UserID:        msg.UserID,
		Type:          notification.Type(msg.Type),
		Message:       msg.Message,
		Read:          msg.Read,
		ReadAt:        msg.ReadAt,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		CreatedAt:     msg.CreatedAt,
	}, nil
}

// RedisNotificationPublisher fans notifications out across server instances
// through Redis pub/sub, one channel per user.
type RedisNotificationPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotificationPublisher creates a publisher on a shared client
func NewRedisNotificationPublisher(client *redis.Client, logger *zap.Logger) *RedisNotificationPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotificationPublisher{
		client: client,
		logger: logger,
	}
}

// Publish sends n to its recipient's channel
func (p *RedisNotificationPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	data, err := encodeNotification(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	channel := NotificationChannel(n.UserID)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.logger.Error("Failed to publish notification",
			zap.String("channel", channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Subscribe streams notifications for userID until ctx is done. The
// subscription is confirmed before Subscribe returns.
func (p *RedisNotificationPublisher) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *notification.Notification, error) {
	channel := NotificationChannel(userID)
	pubsub := p.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	out := make(chan *notification.Notification, subscriberBufferSize)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					p.logger.Warn("Notification channel closed", zap.String("channel", channel))
					return
				}
				n, err := decodeNotification(msg.Payload)
				if err != nil {
					p.logger.Error("Failed to unmarshal notification",
						zap.String("channel", channel),
						zap.Error(err))
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// InMemoryNotificationPublisher delivers notifications to subscribers of a
// single process. Slow subscribers miss messages instead of blocking Publish.
type InMemoryNotificationPublisher struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan *notification.Notification]struct{}
	logger      *zap.Logger
}

// NewInMemoryNotificationPublisher creates an in-process publisher
func NewInMemoryNotificationPublisher(logger *zap.Logger) *InMemoryNotificationPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryNotificationPublisher{
		subscribers: make(map[uuid.UUID]map[chan *notification.Notification]struct{}),
		logger:      logger,
	}
}

// Publish delivers n to every current subscriber of its recipient
func (p *InMemoryNotificationPublisher) Publish(_ context.Context, n *notification.Notification) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for ch := range p.subscribers[n.UserID] {
		select {
		case ch <- n:
		default:
			p.logger.Warn("Dropping notification for slow subscriber",
				zap.String("user_id", n.UserID.String()),
				zap.String("notification_id", n.ID.String()))
		}
	}
	return nil
}

// Subscribe registers a subscriber that is removed when ctx is done
func (p *InMemoryNotificationPublisher) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *notification.Notification, error) {
	ch := make(chan *notification.Notification, subscriberBufferSize)

	p.mu.Lock()
	if p.subscribers[userID] == nil {
		p.subscribers[userID] = make(map[chan *notification.Notification]struct{})
	}
	p.subscribers[userID][ch] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.subscribers[userID], ch)
		if len(p.subscribers[userID]) == 0 {
			delete(p.subscribers, userID)
		}
		p.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// SubscriberCount returns the number of live subscribers for userID
func (p *InMemoryNotificationPublisher) SubscriberCount(userID uuid.UUID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers[userID])
}

var (
	_ notification.Publisher = (*RedisNotificationPublisher)(nil)
	_ notification.Publisher = (*InMemoryNotificationPublisher)(nil)
)
