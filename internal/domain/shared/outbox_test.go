package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseDomainEvent
}

func TestNewOutboxEntry_CopiesEventMetadata(t *testing.T) {
	aggID := uuid.New()
	event := &stubEvent{BaseDomainEvent: NewBaseDomainEvent("WorkOrderQuoted", "WorkOrder", aggID, uuid.Nil)}

	entry := NewOutboxEntry(event, []byte(`{}`))

	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "WorkOrderQuoted", entry.EventType)
	assert.Equal(t, aggID, entry.AggregateID)
	assert.Equal(t, "WorkOrder", entry.AggregateType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusFailed} {
		entry := &OutboxEntry{Status: status}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	}

	for _, status := range []OutboxStatus{OutboxStatusProcessing, OutboxStatusSent, OutboxStatusDead} {
		entry := &OutboxEntry{Status: status}
		assert.ErrorIs(t, entry.MarkProcessing(), ErrOutboxNotClaimable, string(status))
	}
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter entry for retry", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			EventID:    uuid.New(),
			EventType:  "TestEvent",
			Status:     OutboxStatusDead,
			RetryCount: 5,
			MaxRetries: 5,
			LastError:  "some error",
			UpdatedAt:  time.Now().Add(-time.Minute),
		}

		err := entry.ResetForRetry()
		assert.NoError(t, err)
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("fails for non-dead entry", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusProcessing, OutboxStatusSent, OutboxStatusFailed} {
			entry := &OutboxEntry{Status: status}
			err := entry.ResetForRetry()
			assert.ErrorIs(t, err, ErrOutboxNotDead)
		}
	})
}

func TestOutboxEntry_MarkFailed_MovesToDeadAfterMaxRetries(t *testing.T) {
	entry := &OutboxEntry{
		Status:     OutboxStatusProcessing,
		RetryCount: 4,
		MaxRetries: 5,
	}

	entry.MarkFailed("final error")

	assert.Equal(t, OutboxStatusDead, entry.Status)
	assert.Equal(t, 5, entry.RetryCount)
	assert.Equal(t, "final error", entry.LastError)
	assert.Nil(t, entry.NextRetryAt)
	assert.False(t, entry.CanRetry())
}

func TestOutboxEntry_MarkFailed_ExponentialBackoff(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing, MaxRetries: 5}

	entry.MarkFailed("error 1")
	assert.Equal(t, OutboxStatusFailed, entry.Status)
	require.NotNil(t, entry.NextRetryAt)
	first := time.Until(*entry.NextRetryAt)
	assert.True(t, first > 0 && first <= 2*time.Second)
	assert.True(t, entry.CanRetry())

	entry.Status = OutboxStatusProcessing
	entry.MarkFailed("error 2")
	second := time.Until(*entry.NextRetryAt)
	assert.True(t, second > time.Second && second <= 3*time.Second)

	entry.Status = OutboxStatusProcessing
	entry.MarkFailed("error 3")
	third := time.Until(*entry.NextRetryAt)
	assert.True(t, third > 3*time.Second && third <= 5*time.Second)
}

func TestOutboxEntry_MarkFailed_CapsBackoff(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing, RetryCount: 30, MaxRetries: 100}

	entry.MarkFailed("boom")

	require.NotNil(t, entry.NextRetryAt)
	assert.True(t, time.Until(*entry.NextRetryAt) <= MaxBackoff)
}

func TestRetryBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{4, 8 * time.Second},
		{10, 512 * time.Second},
		{11, MaxBackoff},
		{64, MaxBackoff},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RetryBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}
