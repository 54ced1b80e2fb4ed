package handler

import (
	"context"
	"crypto/subtle"
	"time"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the gateway's delivery ID
	IdempotencyKeyHeader = "Idempotency-Key"
	// CallbackTokenHeader carries the shared secret configured for the gateway
	CallbackTokenHeader = "X-Callback-Token"

	callbackKeyTTL = 24 * time.Hour
)

// GatewayPayments records payments reported by the payment gateway
type GatewayPayments interface {
	RecordGatewayPayment(ctx context.Context, req bookingapp.PaymentCallbackRequest) (*bookingapp.InvoiceResponse, error)
}

// PaymentCallbackHandler receives payment gateway notifications. The route
// sits outside JWT authentication and is guarded by the callback token.
type PaymentCallbackHandler struct {
	BaseHandler
	payments    GatewayPayments
	idempotency shared.IdempotencyStore
	token       string
	logger      *zap.Logger
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler.
// An empty token rejects every callback.
func NewPaymentCallbackHandler(payments GatewayPayments, idempotency shared.IdempotencyStore, token string, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		payments:    payments,
		idempotency: idempotency,
		token:       token,
		logger:      logger,
	}
}

// PaymentCallbackResponse represents the response for payment callback status
//
//	@Description	Payment callback status response
type PaymentCallbackResponse struct {
	AlreadyProcessed bool                        `json:"already_processed"`
	Invoice          *bookingapp.InvoiceResponse `json:"invoice,omitempty"`
}

// Handle godoc
//
//	@ID				handlePaymentCallback
//	@Summary		Payment gateway callback
//	@Description	Records a gateway payment. Retries with the same Idempotency-Key are acknowledged without reprocessing.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key		header		string								true	"Gateway delivery ID"
//	@Param			X-Callback-Token	header		string								true	"Shared gateway secret"
//	@Param			request				body		bookingapp.PaymentCallbackRequest	true	"Payment"
//	@Success		200					{object}	APIResponse[PaymentCallbackResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Router			/payments/callback [post]
func (h *PaymentCallbackHandler) Handle(c *gin.Context) {
	if h.token == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader(CallbackTokenHeader)), []byte(h.token)) != 1 {
		h.Unauthorized(c, "Invalid callback token")
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		h.BadRequest(c, IdempotencyKeyHeader+" header is required")
		return
	}

	var req bookingapp.PaymentCallbackRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	storeKey := "payment:" + key
	if h.idempotency != nil {
		claimed, err := h.idempotency.MarkProcessed(ctx, storeKey, callbackKeyTTL)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if !claimed {
			h.logger.Info("Duplicate payment callback", zap.String("idempotency_key", key))
			h.Success(c, PaymentCallbackResponse{AlreadyProcessed: true})
			return
		}
	}

	invoice, err := h.payments.RecordGatewayPayment(ctx, req)
	if err != nil {
		if h.idempotency != nil {
			// let the gateway retry a delivery that failed
			if relErr := h.idempotency.Release(context.WithoutCancel(ctx), storeKey); relErr != nil {
				h.logger.Warn("Failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(relErr))
			}
		}
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Gateway payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", invoice.Status),
		zap.String("reference", req.Reference),
	)
	h.Success(c, PaymentCallbackResponse{Invoice: invoice})
}
