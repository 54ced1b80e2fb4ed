package catalog

import (
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlot(t *testing.T) *Slot {
	t.Helper()
	slot, err := NewSlot("home-top", "Homepage top banner", MediaTypeWebsite, decimal.NewFromInt(5000), PricingMonth)
	require.NoError(t, err)
	slot.ClearDomainEvents()
	return slot
}

func TestNewSlot(t *testing.T) {
	slot := newTestSlot(t)
	assert.Equal(t, "HOME-TOP", slot.Code)
	assert.Equal(t, SlotStatusAvailable, slot.Status)
	assert.Equal(t, 1, slot.Version)

	tests := []struct {
		name      string
		code      string
		media     MediaType
		price     decimal.Decimal
		wantError string
	}{
		{"empty code", " ", MediaTypeWebsite, decimal.NewFromInt(1), "code"},
		{"unknown media", "X", MediaType("billboard"), decimal.NewFromInt(1), "media type"},
		{"negative price", "X", MediaTypeEmail, decimal.NewFromInt(-1), "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlot(tt.code, "name", tt.media, tt.price, PricingFlat)
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestSlotStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from SlotStatus
		to   SlotStatus
		want bool
	}{
		{SlotStatusAvailable, SlotStatusPending, true},
		{SlotStatusAvailable, SlotStatusBooked, false},
		{SlotStatusPending, SlotStatusBooked, true},
		{SlotStatusPending, SlotStatusAvailable, true},
		{SlotStatusBooked, SlotStatusAvailable, true},
		{SlotStatusBooked, SlotStatusPending, false},
		{SlotStatusExpired, SlotStatusAvailable, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSlot_ReserveBookRelease(t *testing.T) {
	slot := newTestSlot(t)
	orderID := uuid.New()

	require.NoError(t, slot.Reserve(orderID))
	assert.Equal(t, SlotStatusPending, slot.Status)
	assert.Equal(t, orderID, *slot.HeldBy)

	err := slot.Reserve(uuid.New())
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	assert.Error(t, slot.Book(uuid.New()), "another order cannot book the hold")
	require.NoError(t, slot.Book(orderID))
	assert.Equal(t, SlotStatusBooked, slot.Status)

	require.NoError(t, slot.Release(orderID))
	assert.Equal(t, SlotStatusAvailable, slot.Status)
	assert.Nil(t, slot.HeldBy)

	events := slot.GetDomainEvents()
	require.Len(t, events, 3)
	last := events[2].(*SlotStatusChangedEvent)
	assert.Equal(t, SlotStatusBooked, last.FromStatus)
	assert.Equal(t, SlotStatusAvailable, last.ToStatus)
}

func TestSlot_ReleaseIsIdempotent(t *testing.T) {
	slot := newTestSlot(t)
	orderID := uuid.New()
	require.NoError(t, slot.Reserve(orderID))

	require.NoError(t, slot.Release(uuid.New()))
	assert.Equal(t, SlotStatusPending, slot.Status, "foreign release leaves the hold in place")

	require.NoError(t, slot.Release(orderID))
	require.NoError(t, slot.Release(orderID))
	assert.Equal(t, SlotStatusAvailable, slot.Status)
}

func TestSlot_Retire(t *testing.T) {
	slot := newTestSlot(t)
	require.NoError(t, slot.Retire())
	assert.Equal(t, SlotStatusExpired, slot.Status)
	assert.False(t, slot.IsAvailable())

	err := slot.Retire()
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
	assert.Error(t, slot.Reserve(uuid.New()))
}

func TestMediaType(t *testing.T) {
	assert.True(t, MediaTypeMagazine.IsPrint())
	assert.False(t, MediaTypeWebsite.IsPrint())
	assert.False(t, MediaType("tv").IsValid())
}

func TestPricingUnit_Quantity(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		unit PricingUnit
		end  time.Time
		want int64
	}{
		{PricingFlat, start.AddDate(0, 2, 0), 1},
		{PricingDay, start.AddDate(0, 0, 10), 10},
		{PricingDay, start.Add(3 * time.Hour), 1},
		{PricingWeek, start.AddDate(0, 0, 8), 2},
		{PricingMonth, start.AddDate(0, 0, 30), 1},
		{PricingMonth, start.AddDate(0, 0, 31), 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.True(t, decimal.NewFromInt(tt.want).Equal(tt.unit.Quantity(start, tt.end)))
		})
	}
}
