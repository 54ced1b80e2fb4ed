package handler

import "github.com/adbook/backend/internal/interfaces/http/dto"

// Envelope types below exist for swag only; handlers write dto.Response.

// APIResponse is the success envelope with a typed data payload
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is returned with every 4xx and 5xx status. error.code is
// one of the domain codes such as INVALID_TRANSITION or PAYMENT_REQUIRED.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// CountData reports how many rows a bulk action touched
type CountData struct {
	Count int64 `json:"count" example:"3"`
}
