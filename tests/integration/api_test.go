//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	notificationapp "github.com/adbook/backend/internal/application/notification"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/infrastructure/cache"
	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/adbook/backend/internal/interfaces/http/handler"
	"github.com/adbook/backend/internal/interfaces/http/middleware"
	"github.com/adbook/backend/internal/interfaces/http/router"
	"github.com/adbook/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiHarness struct {
	*testApp
	engine *gin.Engine
	tokens map[identity.Role]string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	app := newTestApp(t)
	jwtService := testutil.TestJWTService()
	log := zap.NewNop()

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))
	r.Register(router.BookingRoutes(router.Handlers{
		System:          handler.NewSystemHandler("adbook-backend", "test", map[string]handler.HealthCheck{"database": app.db.Ping}),
		Slots:           handler.NewSlotHandler(app.slots),
		WorkOrders:      handler.NewWorkOrderHandler(app.workOrders),
		Invoices:        handler.NewInvoiceHandler(app.invoices),
		PaymentCallback: handler.NewPaymentCallbackHandler(app.invoices, cache.NewInMemoryIdempotencyStore(), "callback-token", log),
		ReleaseOrders:   handler.NewReleaseOrderHandler(app.releases),
		Deployments:     handler.NewDeploymentHandler(app.deployments),
		Notifications:   handler.NewNotificationHandler(app.inbox),
		Outbox:          handler.NewOutboxHandler(nil),
	}, middleware.Timeout(5*time.Second))...).Setup()

	tokens := make(map[identity.Role]string)
	for _, actor := range []identity.Actor{app.client, app.manager, app.vp, app.pvSir, app.accounts, app.it, app.material} {
		tokens[actor.Role] = testutil.BearerToken(t, jwtService, actor)
	}
	return &apiHarness{testApp: app, engine: engine, tokens: tokens}
}

func (h *apiHarness) do(t *testing.T, role identity.Role, method, path string, body any) (int, []byte) {
	t.Helper()
	w := testutil.Serve(t, h.engine, method, path, body, h.tokens[role])
	return w.Code, w.Body.Bytes()
}

func TestAPI_RequiresToken(t *testing.T) {
	h := newAPIHarness(t)

	w := testutil.Serve(t, h.engine, http.MethodGet, "/api/v1/slots", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	testutil.AssertErrorBody(t, w.Body.Bytes(), dto.ErrCodeUnauthorized)

	w = testutil.Serve(t, h.engine, http.MethodGet, "/api/v1/system/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_WorkOrderLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	slot := h.db.CreateSlot("WEB-HOME", catalog.MediaTypeWebsite, 5000)

	code, body := h.do(t, identity.RoleClient, http.MethodGet, "/api/v1/slots?media_type=website", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	slots := testutil.DecodeData[[]bookingapp.SlotResponse](t, body)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.ID, slots[0].ID)

	code, body = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/work-orders", bookingapp.CreateWorkOrderRequest{
		Items: []bookingapp.WorkOrderItemInput{{SlotID: &slot.ID, StartDate: h.start, EndDate: h.end}},
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	wo := testutil.DecodeData[bookingapp.WorkOrderResponse](t, body)
	assert.Equal(t, "draft", wo.Status)

	code, _ = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/work-orders/"+wo.ID.String()+"/quote", nil)
	assert.Equal(t, http.StatusForbidden, code, "clients cannot quote")

	code, body = h.do(t, identity.RoleManager, http.MethodPost, "/api/v1/work-orders/"+wo.ID.String()+"/quote", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, "quoted", testutil.DecodeData[bookingapp.WorkOrderResponse](t, body).Status)

	code, _ = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/work-orders/"+wo.ID.String()+"/complete", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/work-orders/"+wo.ID.String()+"/accept", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	code, _ = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/work-orders/"+wo.ID.String()+"/accept", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code, "accepting twice is an invalid transition")

	h.Drain(t)
	code, body = h.do(t, identity.RoleClient, http.MethodGet, "/api/v1/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	inbox := testutil.DecodeData[[]notificationapp.NotificationResponse](t, body)
	require.NotEmpty(t, inbox)

	code, body = h.do(t, identity.RoleClient, http.MethodPost, "/api/v1/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, int64(len(inbox)), testutil.DecodeData[handler.CountData](t, body).Count)
	assert.Zero(t, h.unread(t, h.client))
}

func TestAPI_UnknownWorkOrder(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(t, identity.RoleManager, http.MethodGet, "/api/v1/work-orders/"+testutil.NewTestUUID("missing").String(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, identity.RoleManager, http.MethodGet, "/api/v1/work-orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
