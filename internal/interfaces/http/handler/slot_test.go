package handler

import (
	"context"
	"net/http"
	"testing"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSlotService implements SlotService for testing
type MockSlotService struct {
	mock.Mock
}

func (m *MockSlotService) List(ctx context.Context, filter bookingapp.SlotListFilter) ([]bookingapp.SlotResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]bookingapp.SlotResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockSlotService) GetByID(ctx context.Context, id uuid.UUID) (*bookingapp.SlotResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingapp.SlotResponse), args.Error(1)
}

func setupSlotTestRouter() (*gin.Engine, *MockSlotService) {
	svc := new(MockSlotService)
	h := NewSlotHandler(svc)

	router := actorRouter(testClient)
	router.GET("/slots", h.List)
	router.GET("/slots/:id", h.Get)
	return router, svc
}

func sampleSlot() bookingapp.SlotResponse {
	return bookingapp.SlotResponse{
		ID:          uuid.New(),
		Code:        "WEB-HOME-TOP",
		Name:        "Homepage leaderboard",
		PageType:    "home",
		MediaType:   "website",
		Position:    "top",
		Dimensions:  "728x90",
		Price:       decimal.NewFromInt(1500),
		PricingUnit: "per_day",
		Status:      "available",
	}
}

func TestSlotHandler_List(t *testing.T) {
	router, svc := setupSlotTestRouter()
	svc.On("List", mock.Anything, bookingapp.SlotListFilter{MediaType: "website", Status: "available"}).
		Return([]bookingapp.SlotResponse{sampleSlot()}, int64(1), nil)

	rec := doJSON(router, http.MethodGet, "/slots?media_type=website&status=available", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 20, resp.Meta.PageSize)
	svc.AssertExpectations(t)
}

func TestSlotHandler_List_UnknownMediaType(t *testing.T) {
	router, svc := setupSlotTestRouter()

	rec := doJSON(router, http.MethodGet, "/slots?media_type=billboard", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "List")
}

func TestSlotHandler_Get(t *testing.T) {
	router, svc := setupSlotTestRouter()
	slot := sampleSlot()
	svc.On("GetByID", mock.Anything, slot.ID).Return(&slot, nil)
	svc.On("GetByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	rec := doJSON(router, http.MethodGet, "/slots/"+slot.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "WEB-HOME-TOP", decodeData(t, rec)["code"])

	rec = doJSON(router, http.MethodGet, "/slots/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
