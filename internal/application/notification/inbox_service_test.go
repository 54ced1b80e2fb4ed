package notification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/notification"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testNow() time.Time {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
}

type memoryInbox struct {
	mu    sync.Mutex
	items map[uuid.UUID]*notification.Notification
}

func newMemoryInbox() *memoryInbox {
	return &memoryInbox{items: make(map[uuid.UUID]*notification.Notification)}
}

func (r *memoryInbox) Save(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = n
	return nil
}

func (r *memoryInbox) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return n, nil
}

func (r *memoryInbox) FindByUser(_ context.Context, userID uuid.UUID, filter shared.Filter) ([]*notification.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, unreadOnly := filter.Filters["unread"]
	var out []*notification.Notification
	for _, n := range r.items {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memoryInbox) MarkRead(_ context.Context, n *notification.Notification) error {
	return nil
}

func (r *memoryInbox) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.MarkRead()
			changed++
		}
	}
	return changed, nil
}

type channelPublisher struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]chan *notification.Notification
	failing bool
}

func newChannelPublisher() *channelPublisher {
	return &channelPublisher{subs: make(map[uuid.UUID]chan *notification.Notification)}
}

func (p *channelPublisher) Publish(_ context.Context, n *notification.Notification) error {
	if p.failing {
		return errors.New("redis unavailable")
	}
	p.mu.Lock()
	ch, ok := p.subs[n.UserID]
	p.mu.Unlock()
	if ok {
		ch <- n
	}
	return nil
}

func (p *channelPublisher) Subscribe(_ context.Context, userID uuid.UUID) (<-chan *notification.Notification, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan *notification.Notification, 4)
	p.subs[userID] = ch
	return ch, nil
}

func newNote(t *testing.T, userID uuid.UUID, msg string) *notification.Notification {
	t.Helper()
	n, err := notification.New(userID, notification.TypeWorkOrder, msg, "WorkOrder", uuid.New())
	require.NoError(t, err)
	return n
}

func TestInboxService_ListAndRead(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryInbox()
	svc := NewInboxService(repo, nil, zap.NewNop())
	user := identity.Actor{ID: uuid.New(), Role: identity.RoleClient}
	other := identity.Actor{ID: uuid.New(), Role: identity.RoleClient}

	first := newNote(t, user.ID, "first")
	require.NoError(t, svc.Notify(ctx, first))
	require.NoError(t, svc.Notify(ctx, newNote(t, user.ID, "second")))
	require.NoError(t, svc.Notify(ctx, newNote(t, other.ID, "not yours")))

	page, err := svc.List(ctx, user, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = svc.MarkRead(ctx, other, first.ID)
	assert.True(t, shared.IsCode(err, shared.CodeForbidden))

	read, err := svc.MarkRead(ctx, user, first.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	unread, err := svc.List(ctx, user, ListFilter{Unread: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Total)
	assert.Equal(t, "second", unread.Items[0].Message)

	changed, err := svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
}

func TestInboxService_Stream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	publisher := newChannelPublisher()
	svc := NewInboxService(newMemoryInbox(), publisher, zap.NewNop())
	user := identity.Actor{ID: uuid.New(), Role: identity.RoleManager}

	stream, err := svc.Stream(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Notify(ctx, newNote(t, user.ID, "live")))
	select {
	case got := <-stream:
		assert.Equal(t, "live", got.Message)
	case <-time.After(time.Second):
		t.Fatal("notification was not streamed")
	}

	cancel()
	select {
	case _, open := <-stream:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed after cancel")
	}
}

func TestInboxService_PublishFailureIsBestEffort(t *testing.T) {
	publisher := newChannelPublisher()
	publisher.failing = true
	repo := newMemoryInbox()
	svc := NewInboxService(repo, publisher, zap.NewNop())
	n := newNote(t, uuid.New(), "stored anyway")

	require.NoError(t, svc.Notify(context.Background(), n))
	_, err := repo.FindByID(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestInboxService_StreamDisabled(t *testing.T) {
	svc := NewInboxService(newMemoryInbox(), nil, zap.NewNop())
	_, err := svc.Stream(context.Background(), identity.Actor{ID: uuid.New(), Role: identity.RoleClient})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}
