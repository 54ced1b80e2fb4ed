package persistence

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adbook/backend/internal/application/booking"
	domainbooking "github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/notification"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/adbook/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingSaver captures the events written through the outbox hook
type recordingSaver struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (s *recordingSaver) SaveEvents(_ context.Context, tx any, events ...shared.DomainEvent) error {
	if _, ok := tx.(*gorm.DB); !ok {
		return fmt.Errorf("unexpected transaction type %T", tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *recordingSaver) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.EventType()
	}
	return out
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := Open(sqlite.Open(dsn), &config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func newTestSlot(t *testing.T, code string, media catalog.MediaType) *catalog.Slot {
	t.Helper()
	slot, err := catalog.NewSlot(code, "Slot "+code, media, decimal.NewFromInt(1000), catalog.PricingFlat)
	require.NoError(t, err)
	slot.PullDomainEvents()
	return slot
}

func newTestWorkOrder(t *testing.T, number string, slots ...*catalog.Slot) *domainbooking.WorkOrder {
	t.Helper()
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	items := make([]domainbooking.WorkOrderItem, len(slots))
	for i, slot := range slots {
		item, err := domainbooking.NewSlotItem(slot, start, start.AddDate(0, 0, 7), nil)
		require.NoError(t, err)
		items[i] = item
	}
	order, err := domainbooking.NewWorkOrder(number, uuid.New(), domainbooking.PaymentModeFull, items)
	require.NoError(t, err)
	return order
}

func TestGormSlotRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	saver := &recordingSaver{}
	repo := NewGormSlotRepository(db)
	repo.SetOutboxEventSaver(saver)

	web := newTestSlot(t, "WEB-1", catalog.MediaTypeWebsite)
	mag := newTestSlot(t, "MAG-1", catalog.MediaTypeMagazine)
	require.NoError(t, repo.Save(ctx, web))
	require.NoError(t, repo.Save(ctx, mag))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, web.ID)
		require.NoError(t, err)
		assert.Equal(t, "WEB-1", found.Code)
		assert.True(t, found.Price.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, catalog.SlotStatusAvailable, found.Status)
	})

	t.Run("missing slot is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by ids skips unknown ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{web.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, web.ID, found[0].ID)
	})

	t.Run("filters by media type", func(t *testing.T) {
		found, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("media_type", "magazine"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, "MAG-1", found[0].Code)
	})

	t.Run("save with lock bumps version and writes events", func(t *testing.T) {
		slot, err := repo.FindByID(ctx, web.ID)
		require.NoError(t, err)
		holder := uuid.New()
		require.NoError(t, slot.Reserve(holder))
		require.NoError(t, repo.SaveWithLock(ctx, slot))

		reloaded, err := repo.FindByID(ctx, web.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.Version)
		assert.Equal(t, catalog.SlotStatusPending, reloaded.Status)
		require.NotNil(t, reloaded.HeldBy)
		assert.Equal(t, holder, *reloaded.HeldBy)
		assert.Contains(t, saver.types(), catalog.EventTypeSlotStatusChanged)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, mag.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(ctx, mag.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Reserve(uuid.New()))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Reserve(uuid.New()))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormWorkOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	saver := &recordingSaver{}
	repo := NewGormWorkOrderRepository(db)
	repo.SetOutboxEventSaver(saver)

	a := newTestSlot(t, "A", catalog.MediaTypeWebsite)
	b := newTestSlot(t, "B", catalog.MediaTypeMobile)
	order := newTestWorkOrder(t, "WO-2026-00001", a, b)
	require.NoError(t, repo.Save(ctx, order))
	assert.Contains(t, saver.types(), domainbooking.EventTypeWorkOrderCreated)

	t.Run("loads items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.True(t, found.TotalAmount.Equal(order.TotalAmount))
		assert.Equal(t, domainbooking.WorkOrderStatusDraft, found.Status)
	})

	t.Run("save with lock rewrites items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		url := "https://cdn.example.com/banner.png"
		found.Items[0].BannerURL = &url
		found.Items = found.Items[:1]
		found.Status = domainbooking.WorkOrderStatusQuoted
		require.NoError(t, repo.SaveWithLock(ctx, found))

		reloaded, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		require.NotNil(t, reloaded.Items[0].BannerURL)
		assert.Equal(t, url, *reloaded.Items[0].BannerURL)
		assert.Equal(t, domainbooking.WorkOrderStatusQuoted, reloaded.Status)
		assert.Equal(t, 2, reloaded.Version)
	})

	t.Run("filters by status and client", func(t *testing.T) {
		other := newTestWorkOrder(t, "WO-2026-00002", newTestSlot(t, "C", catalog.MediaTypeEmail))
		require.NoError(t, repo.Save(ctx, other))

		quoted, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("status", "quoted"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, order.ID, quoted[0].ID)

		mine, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("client_id", other.ClientID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, other.ID, mine[0].ID)

		drafts, err := repo.FindByStatus(ctx, domainbooking.WorkOrderStatusDraft)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, other.ID, drafts[0].ID)
	})

	t.Run("numbers are sequential per year", func(t *testing.T) {
		first, err := repo.NextNumber(ctx)
		require.NoError(t, err)
		second, err := repo.NextNumber(ctx)
		require.NoError(t, err)

		year := time.Now().Year()
		assert.Equal(t, fmt.Sprintf("WO-%d-00001", year), first)
		assert.Equal(t, fmt.Sprintf("WO-%d-00002", year), second)
	})
}

func newAcceptedReleaseOrder(workOrderID uuid.UUID, lanes ...release.Lane) *release.ReleaseOrder {
	now := time.Now()
	ro := &release.ReleaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            "RO-" + workOrderID.String()[:8],
		WorkOrderID:       workOrderID,
		ClientID:          uuid.New(),
		Status:            release.StatusAccepted,
		PaymentStatus:     release.PaymentStatusPending,
		AcceptedAt:        &now,
	}
	for _, lane := range lanes {
		media := catalog.MediaTypeWebsite
		if lane == release.LaneMaterial {
			media = catalog.MediaTypeMagazine
		}
		ro.Items = append(ro.Items, release.Item{
			ID:              uuid.New(),
			ReleaseOrderID:  ro.ID,
			WorkOrderItemID: uuid.New(),
			SlotID:          uuid.New(),
			MediaType:       media,
			Lane:            lane,
			EndDate:         now.AddDate(0, 0, 7),
		})
	}
	return ro
}

func TestGormReleaseOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormReleaseOrderRepository(db)

	mixed := newAcceptedReleaseOrder(uuid.New(), release.LaneIT, release.LaneMaterial)
	printOnly := newAcceptedReleaseOrder(uuid.New(), release.LaneMaterial)
	inReview := newAcceptedReleaseOrder(uuid.New(), release.LaneIT)
	inReview.Status = release.StatusPendingVPReview
	for _, ro := range []*release.ReleaseOrder{mixed, printOnly, inReview} {
		require.NoError(t, repo.Save(ctx, ro))
	}

	t.Run("finds by work order", func(t *testing.T) {
		found, err := repo.FindByWorkOrder(ctx, mixed.WorkOrderID)
		require.NoError(t, err)
		assert.Equal(t, mixed.ID, found.ID)
		assert.Len(t, found.Items, 2)

		_, err = repo.FindByWorkOrder(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lane queue only lists accepted orders with pending items", func(t *testing.T) {
		it, total, err := repo.FindReadyForLane(ctx, release.LaneIT, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, mixed.ID, it[0].ID)

		material, total, err := repo.FindReadyForLane(ctx, release.LaneMaterial, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, material, 2)
	})

	t.Run("processed items leave the queue", func(t *testing.T) {
		found, err := repo.FindByID(ctx, printOnly.ID)
		require.NoError(t, err)
		now := time.Now()
		found.Items[0].ProcessedAt = &now
		require.NoError(t, repo.SaveWithLock(ctx, found))

		material, total, err := repo.FindReadyForLane(ctx, release.LaneMaterial, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, mixed.ID, material[0].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		found, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("status", string(release.StatusPendingVPReview)))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, inReview.ID, found[0].ID)
	})
}

func TestGormDeploymentRepository_FindExpiring(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormDeploymentRepository(db)

	newDeployment := func(end time.Time) *deployment.Deployment {
		d, err := deployment.New(deployment.Target{
			ReleaseOrderID:     uuid.New(),
			ReleaseOrderItemID: uuid.New(),
			WorkOrderID:        uuid.New(),
			WorkOrderItemID:    uuid.New(),
			ClientID:           uuid.New(),
			EndDate:            end,
		}, "https://cdn.example.com/b.png", uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, d))
		return d
	}

	now := time.Now().UTC()
	past := newDeployment(now.Add(-time.Hour))
	newDeployment(now.Add(time.Hour))

	due, err := repo.FindExpiring(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, past.ID, due[0].ID)

	live, err := repo.FindLiveByItem(ctx, past.ReleaseOrderItemID)
	require.NoError(t, err)
	assert.Equal(t, past.ID, live.ID)
}

func TestGormUserRepository_FindActiveIDsByRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormUserRepository(db)

	save := func(name string, role identity.Role, active bool) *identity.User {
		u, err := identity.NewUser(name, name+"@adbook.test", role)
		require.NoError(t, err)
		u.Active = active
		require.NoError(t, repo.Save(ctx, u))
		return u
	}
	vp := save("vera", identity.RoleVP, true)
	save("ivan", identity.RoleVP, false)
	it := save("tara", identity.RoleIT, true)
	save("carl", identity.RoleClient, true)

	ids, err := repo.FindActiveIDsByRole(ctx, identity.RoleVP, identity.RoleIT)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{vp.ID, it.ID}, ids)

	inactive, err := repo.FindByID(ctx, vp.ID)
	require.NoError(t, err)
	assert.True(t, inactive.Active)
}

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormNotificationRepository(db)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		n, err := notification.New(userID, notification.TypeWorkOrder, fmt.Sprintf("message %d", i), "WorkOrder", uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, n))
	}

	items, total, err := repo.FindByUser(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	items[0].MarkRead()
	require.NoError(t, repo.MarkRead(ctx, items[0]))

	_, unread, err := repo.FindByUser(ctx, userID, shared.DefaultFilter().With("unread", true))
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	changed, err := repo.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(db, &recordingSaver{})
	slot := newTestSlot(t, "TX-1", catalog.MediaTypeWebsite)

	err := scope.Execute(ctx, func(repos booking.Repositories) error {
		if err := repos.Slots().Save(ctx, slot); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = NewGormSlotRepository(db).FindByID(ctx, slot.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = scope.Execute(ctx, func(repos booking.Repositories) error {
		return repos.Slots().Save(ctx, slot)
	})
	require.NoError(t, err)
	_, err = NewGormSlotRepository(db).FindByID(ctx, slot.ID)
	assert.NoError(t, err)
}
