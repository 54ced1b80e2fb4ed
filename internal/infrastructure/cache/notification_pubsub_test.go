package cache

import (
	"context"
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(t *testing.T, userID uuid.UUID) *notification.Notification {
	t.Helper()
	n, err := notification.New(userID, notification.TypeInvoice, "Proforma PF-000001 issued", "Invoice", uuid.New())
	require.NoError(t, err)
	return n
}

func TestNotificationChannel(t *testing.T) {
	id := uuid.MustParse("7f0c3c1e-5a53-4a0e-9a9e-2a4f0d1c2b3a")
	assert.Equal(t, "notifications:7f0c3c1e-5a53-4a0e-9a9e-2a4f0d1c2b3a", NotificationChannel(id))
}

func TestNotificationPayload(t *testing.T) {
	n := newTestNotification(t, uuid.New())
	n.MarkRead()

	data, err := encodeNotification(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"invoice"`)

	decoded, err := decodeNotification(string(data))
	require.NoError(t, err)
	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, n.Type, decoded.Type)
	assert.True(t, decoded.Read)
	assert.True(t, n.CreatedAt.Equal(decoded.CreatedAt))

	_, err = decodeNotification("{bad")
	assert.Error(t, err)
}

func TestInMemoryNotificationPublisher_Delivers(t *testing.T) {
	p := NewInMemoryNotificationPublisher(nil)
	userID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Subscribe(ctx, userID)
	require.NoError(t, err)
	other, err := p.Subscribe(ctx, uuid.New())
	require.NoError(t, err)

	n := newTestNotification(t, userID)
	require.NoError(t, p.Publish(ctx, n))

	select {
	case got := <-ch:
		assert.Equal(t, n.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
	assert.Empty(t, other)
}

func TestInMemoryNotificationPublisher_Unsubscribes(t *testing.T) {
	p := NewInMemoryNotificationPublisher(nil)
	userID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := p.Subscribe(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.SubscriberCount(userID))

	cancel()
	assert.Eventually(t, func() bool {
		return p.SubscriberCount(userID) == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, p.Publish(context.Background(), newTestNotification(t, userID)))
}

func TestInMemoryNotificationPublisher_DropsForSlowSubscriber(t *testing.T) {
	p := NewInMemoryNotificationPublisher(nil)
	userID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Subscribe(ctx, userID)
	require.NoError(t, err)

	for i := 0; i < subscriberBufferSize+5; i++ {
		require.NoError(t, p.Publish(ctx, newTestNotification(t, userID)))
	}
	assert.Len(t, ch, subscriberBufferSize)
}

func TestRedisNotificationPublisher_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	p := NewRedisNotificationPublisher(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, p.Publish(ctx, newTestNotification(t, uuid.New())))

	_, err := p.Subscribe(ctx, uuid.New())
	assert.Error(t, err)
}
