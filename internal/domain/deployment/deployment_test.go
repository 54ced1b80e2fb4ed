package deployment

import (
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeployment(t *testing.T, end time.Time) *Deployment {
	d, err := New(Target{
		ReleaseOrderID:     uuid.New(),
		ReleaseOrderItemID: uuid.New(),
		WorkOrderID:        uuid.New(),
		EndDate:            end,
	}, "https://cdn/banner.png", uuid.New())
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	d := newTestDeployment(t, time.Now().Add(time.Hour))
	assert.Equal(t, StatusDeployed, d.Status)
	assert.True(t, d.IsLive())
	assert.False(t, d.DeployedAt.IsZero())

	_, err := New(Target{ReleaseOrderItemID: uuid.New()}, " ", uuid.New())
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestDeployment_Remove(t *testing.T) {
	d := newTestDeployment(t, time.Now().Add(time.Hour))
	actor := uuid.New()

	require.NoError(t, d.Remove(actor))
	assert.Equal(t, StatusRemoved, d.Status)
	assert.Equal(t, actor, *d.RemovedBy)
	assert.NotNil(t, d.RemovedAt)

	assert.True(t, shared.IsCode(d.Remove(actor), shared.CodeInvalidTransition))
}

func TestDeployment_Supersede(t *testing.T) {
	d := newTestDeployment(t, time.Now().Add(time.Hour))
	require.NoError(t, d.Supersede(uuid.New()))

	events := d.GetDomainEvents()
	ev, ok := events[len(events)-1].(*BannerRemovedEvent)
	require.True(t, ok)
	assert.True(t, ev.Superseded)
}

func TestIsExpired(t *testing.T) {
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status Status
		now    time.Time
		want   bool
	}{
		{"before end", StatusDeployed, end.Add(-time.Second), false},
		{"at end", StatusDeployed, end, true},
		{"after end", StatusDeployed, end.Add(time.Hour), true},
		{"removed", StatusRemoved, end.Add(time.Hour), false},
		{"already expired", StatusExpired, end.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeployment(t, end)
			d.Status = tt.status
			assert.Equal(t, tt.want, IsExpired(d, tt.now))
		})
	}
}

func TestDeployment_Expire(t *testing.T) {
	end := time.Now().Add(-time.Minute)
	d := newTestDeployment(t, end)

	now := time.Now()
	require.NoError(t, d.Expire(now))
	assert.Equal(t, StatusExpired, d.Status)
	assert.Equal(t, now, *d.ExpiredAt)
	assert.True(t, shared.IsCode(d.Expire(now), shared.CodeInvalidTransition))

	live := newTestDeployment(t, time.Now().Add(time.Hour))
	assert.True(t, shared.IsCode(live.Expire(time.Now()), shared.CodeInvalidTransition))
}
