//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	notificationapp "github.com/adbook/backend/internal/application/notification"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/infrastructure/cache"
	"github.com/adbook/backend/internal/infrastructure/event"
	"github.com/adbook/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testApp wires the booking services over a migrated database the way
// cmd/server does, with the outbox driven by hand through Drain.
type testApp struct {
	db          *TestDB
	slots       *bookingapp.SlotService
	workOrders  *bookingapp.WorkOrderService
	releases    *bookingapp.ReleaseOrderService
	invoices    *bookingapp.InvoiceService
	deployments *bookingapp.DeploymentService
	inbox       *notificationapp.InboxService
	processor   *event.OutboxProcessor

	client   identity.Actor
	manager  identity.Actor
	vp       identity.Actor
	pvSir    identity.Actor
	accounts identity.Actor
	it       identity.Actor
	material identity.Actor

	start time.Time
	end   time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outbox := event.NewOutboxPublisher(serializer)
	repos := persistence.NewGormRepositories(tdb.DB, outbox)
	txScope := persistence.NewGormTransactionScope(tdb.DB, outbox)
	policy := bookingapp.DefaultPolicy()

	inbox := notificationapp.NewInboxService(
		persistence.NewGormNotificationRepository(tdb.DB),
		cache.NewInMemoryNotificationPublisher(log),
		log,
	)
	bus := event.NewInMemoryEventBus(log)
	fanOut := notificationapp.NewFanOutHandler(persistence.NewGormUserRepository(tdb.DB), inbox, log)
	bus.Subscribe(event.NewIdempotentHandler(fanOut, cache.NewInMemoryIdempotencyStore(), log,
		event.WithHandlerName("notification-fanout")))
	require.NoError(t, bus.Start(context.Background()))

	processor := event.NewOutboxProcessor(event.NewGormOutboxRepository(tdb.DB), bus, serializer,
		event.OutboxProcessorConfig{BatchSize: 50, PollInterval: time.Second}, log)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &testApp{
		db:          tdb,
		slots:       bookingapp.NewSlotService(repos, log),
		workOrders:  bookingapp.NewWorkOrderService(txScope, repos, log),
		releases:    bookingapp.NewReleaseOrderService(txScope, repos, log),
		invoices:    bookingapp.NewInvoiceService(txScope, repos, policy, log),
		deployments: bookingapp.NewDeploymentService(txScope, repos, policy, log),
		inbox:       inbox,
		processor:   processor,
		client:      tdb.CreateUser(identity.RoleClient),
		manager:     tdb.CreateUser(identity.RoleManager),
		vp:          tdb.CreateUser(identity.RoleVP),
		pvSir:       tdb.CreateUser(identity.RolePVSir),
		accounts:    tdb.CreateUser(identity.RoleAccounts),
		it:          tdb.CreateUser(identity.RoleIT),
		material:    tdb.CreateUser(identity.RoleMaterial),
		start:       start,
		end:         start.Add(30 * 24 * time.Hour),
	}
}

// Drain delivers pending outbox entries until none are left
func (a *testApp) Drain(t *testing.T) int {
	t.Helper()

	total := 0
	for i := 0; i < 20; i++ {
		n := a.processor.ProcessOnce(context.Background())
		if n == 0 {
			return total
		}
		total += n
	}
	t.Fatal("outbox did not drain")
	return total
}

func (a *testApp) createDraft(t *testing.T, slots ...*catalog.Slot) *bookingapp.WorkOrderResponse {
	t.Helper()

	items := make([]bookingapp.WorkOrderItemInput, len(slots))
	for i, s := range slots {
		id := s.ID
		items[i] = bookingapp.WorkOrderItemInput{SlotID: &id, StartDate: a.start, EndDate: a.end}
	}
	wo, err := a.workOrders.CreateDraft(context.Background(), a.client, bookingapp.CreateWorkOrderRequest{Items: items})
	require.NoError(t, err)
	return wo
}

// pay takes a new work order for slots through quote, acceptance and a
// fully paid proforma, returning the paid order and its release order.
func (a *testApp) pay(t *testing.T, slots ...*catalog.Slot) (*bookingapp.WorkOrderResponse, *bookingapp.ReleaseOrderResponse) {
	t.Helper()

	ctx := context.Background()
	wo := a.createDraft(t, slots...)
	_, err := a.workOrders.Quote(ctx, a.manager, wo.ID, bookingapp.QuoteRequest{})
	require.NoError(t, err)
	_, err = a.workOrders.Accept(ctx, a.client, wo.ID)
	require.NoError(t, err)

	proforma, err := a.invoices.IssueProforma(ctx, a.accounts, wo.ID, bookingapp.IssueProformaRequest{Amount: wo.TotalAmount})
	require.NoError(t, err)
	_, err = a.invoices.RecordPayment(ctx, a.accounts, proforma.ID, bookingapp.RecordPaymentRequest{Reference: "NEFT-1"})
	require.NoError(t, err)

	paid, err := a.workOrders.GetByID(ctx, a.manager, wo.ID)
	require.NoError(t, err)
	ro, err := a.releases.GetByWorkOrder(ctx, a.manager, wo.ID)
	require.NoError(t, err)
	return paid, ro
}

func (a *testApp) uploadAllBanners(t *testing.T, wo *bookingapp.WorkOrderResponse) {
	t.Helper()

	for _, item := range wo.Items {
		_, err := a.workOrders.UploadBanner(context.Background(), a.client, wo.ID, item.ID,
			"https://cdn.example.com/"+item.ID.String()+".png")
		require.NoError(t, err)
	}
}

func (a *testApp) approveAll(t *testing.T, releaseOrderID uuid.UUID) *bookingapp.ReleaseOrderResponse {
	t.Helper()

	var ro *bookingapp.ReleaseOrderResponse
	for _, reviewer := range []identity.Actor{a.manager, a.vp, a.pvSir} {
		var err error
		ro, err = a.releases.Approve(context.Background(), reviewer, releaseOrderID)
		require.NoError(t, err)
	}
	return ro
}

// unread counts the actor's unread notifications
func (a *testApp) unread(t *testing.T, actor identity.Actor) int64 {
	t.Helper()

	page, err := a.inbox.List(context.Background(), actor, notificationapp.ListFilter{Unread: true, Page: 1, PageSize: 100})
	require.NoError(t, err)
	return page.Total
}
