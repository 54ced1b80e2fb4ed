package booking

import (
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Slot DTOs ====================

// SlotListFilter represents filter options for the slot catalog
type SlotListFilter struct {
	MediaType string `form:"media_type" binding:"omitempty,media_type"`
	Status    string `form:"status" binding:"omitempty,oneof=available pending booked expired"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SlotResponse represents a slot in API responses
type SlotResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	PageType           string          `json:"page_type"`
	MediaType          string          `json:"media_type"`
	Position           string          `json:"position"`
	Dimensions         string          `json:"dimensions"`
	Price              decimal.Decimal `json:"price"`
	PricingUnit        string          `json:"pricing_unit"`
	Status             string          `json:"status"`
	MagazinePageNumber *int            `json:"magazine_page_number,omitempty"`
}

// ToSlotResponse converts a domain slot to a response
func ToSlotResponse(s *catalog.Slot) SlotResponse {
	return SlotResponse{
		ID:                 s.ID,
		Code:               s.Code,
		Name:               s.Name,
		PageType:           s.PageType,
		MediaType:          string(s.MediaType),
		Position:           s.Position,
		Dimensions:         s.Dimensions,
		Price:              s.Price,
		PricingUnit:        string(s.PricingUnit),
		Status:             string(s.Status),
		MagazinePageNumber: s.MagazinePageNumber,
	}
}

// ==================== Work Order DTOs ====================

// CreateWorkOrderRequest represents a client's booking request
type CreateWorkOrderRequest struct {
	PaymentMode string               `json:"payment_mode" binding:"omitempty,oneof=full installment pay_later"`
	Items       []WorkOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// WorkOrderItemInput is one requested slot or addon
type WorkOrderItemInput struct {
	SlotID    *uuid.UUID       `json:"slot_id"`
	AddonType *string          `json:"addon_type" binding:"omitempty,oneof=email whatsapp"`
	StartDate time.Time        `json:"start_date" binding:"required"`
	EndDate   time.Time        `json:"end_date" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// QuoteRequest carries the negotiated unit prices
type QuoteRequest struct {
	Items []PriceAdjustmentInput `json:"items" binding:"dive"`
}

// PriceAdjustmentInput sets the unit price of one item
type PriceAdjustmentInput struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ReasonRequest is used by negotiation requests and rejections
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// URLRequest attaches an already hosted document
type URLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// WorkOrderListFilter represents filter options for the work order list
type WorkOrderListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft quoted client_accepted paid active completed rejected"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WorkOrderResponse represents a work order in API responses
type WorkOrderResponse struct {
	ID                   uuid.UUID               `json:"id"`
	Number               string                  `json:"number"`
	ClientID             uuid.UUID               `json:"client_id"`
	Status               string                  `json:"status"`
	PaymentMode          string                  `json:"payment_mode"`
	TotalAmount          decimal.Decimal         `json:"total_amount"`
	Items                []WorkOrderItemResponse `json:"items"`
	POURL                *string                 `json:"po_url,omitempty"`
	POApproved           bool                    `json:"po_approved"`
	NegotiationRequested bool                    `json:"negotiation_requested"`
	NegotiationReason    string                  `json:"negotiation_reason,omitempty"`
	RejectionReason      string                  `json:"rejection_reason,omitempty"`
	QuotedAt             *time.Time              `json:"quoted_at,omitempty"`
	AcceptedAt           *time.Time              `json:"accepted_at,omitempty"`
	PaidAt               *time.Time              `json:"paid_at,omitempty"`
	ActivatedAt          *time.Time              `json:"activated_at,omitempty"`
	CompletedAt          *time.Time              `json:"completed_at,omitempty"`
	RejectedAt           *time.Time              `json:"rejected_at,omitempty"`
	Version              int                     `json:"version"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// WorkOrderItemResponse represents a work order item in API responses
type WorkOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	SlotID      *uuid.UUID      `json:"slot_id,omitempty"`
	AddonType   *string         `json:"addon_type,omitempty"`
	MediaType   string          `json:"media_type"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	PricingUnit string          `json:"pricing_unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	BannerURL   *string         `json:"banner_url,omitempty"`
}

// ToWorkOrderResponse converts a domain work order to a response
func ToWorkOrderResponse(o *booking.WorkOrder) WorkOrderResponse {
	items := make([]WorkOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		var addon *string
		if item.AddonType != nil {
			a := string(*item.AddonType)
			addon = &a
		}
		items[i] = WorkOrderItemResponse{
			ID:          item.ID,
			SlotID:      item.SlotID,
			AddonType:   addon,
			MediaType:   string(item.MediaType),
			StartDate:   item.StartDate,
			EndDate:     item.EndDate,
			PricingUnit: string(item.PricingUnit),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			BannerURL:   item.BannerURL,
		}
	}
	return WorkOrderResponse{
		ID:                   o.ID,
		Number:               o.Number,
		ClientID:             o.ClientID,
		Status:               string(o.Status),
		PaymentMode:          string(o.PaymentMode),
		TotalAmount:          o.TotalAmount,
		Items:                items,
		POURL:                o.POURL,
		POApproved:           o.POApproved,
		NegotiationRequested: o.NegotiationRequested,
		NegotiationReason:    o.NegotiationReason,
		RejectionReason:      o.RejectionReason,
		QuotedAt:             o.QuotedAt,
		AcceptedAt:           o.AcceptedAt,
		PaidAt:               o.PaidAt,
		ActivatedAt:          o.ActivatedAt,
		CompletedAt:          o.CompletedAt,
		RejectedAt:           o.RejectedAt,
		Version:              o.Version,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ==================== Release Order DTOs ====================

// RejectReleaseOrderRequest sends a release order one stage back
type RejectReleaseOrderRequest struct {
	Reason  string      `json:"reason" binding:"required,min=1,max=1000"`
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// ReleaseOrderListFilter represents filter options for release order lists
type ReleaseOrderListFilter struct {
	Status      string     `form:"status" binding:"omitempty,oneof=issued pending_banner_upload pending_manager_review pending_vp_review pending_pv_review accepted deployed"`
	WorkOrderID *uuid.UUID `form:"work_order_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReleaseOrderResponse represents a release order in API responses
type ReleaseOrderResponse struct {
	ID                 uuid.UUID                  `json:"id"`
	Number             string                     `json:"number"`
	WorkOrderID        uuid.UUID                  `json:"work_order_id"`
	ClientID           uuid.UUID                  `json:"client_id"`
	Status             string                     `json:"status"`
	PaymentStatus      string                     `json:"payment_status"`
	RejectionReason    string                     `json:"rejection_reason,omitempty"`
	RejectedBy         *uuid.UUID                 `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time                 `json:"rejected_at,omitempty"`
	RejectedFromStatus *string                    `json:"rejected_from_status,omitempty"`
	AccountsInvoiceURL *string                    `json:"accounts_invoice_url,omitempty"`
	AcceptedAt         *time.Time                 `json:"accepted_at,omitempty"`
	DeployedAt         *time.Time                 `json:"deployed_at,omitempty"`
	Items              []ReleaseOrderItemResponse `json:"items"`
	Version            int                        `json:"version"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// ReleaseOrderItemResponse represents a release order item in API responses
type ReleaseOrderItemResponse struct {
	ID               uuid.UUID  `json:"id"`
	WorkOrderItemID  uuid.UUID  `json:"work_order_item_id"`
	SlotID           uuid.UUID  `json:"slot_id"`
	MediaType        string     `json:"media_type"`
	Lane             string     `json:"lane"`
	BannerURL        *string    `json:"banner_url,omitempty"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	LiveDeploymentID *uuid.UUID `json:"live_deployment_id,omitempty"`
	EndDate          time.Time  `json:"end_date"`
}

// ToReleaseOrderResponse converts a domain release order to a response
func ToReleaseOrderResponse(r *release.ReleaseOrder) ReleaseOrderResponse {
	items := make([]ReleaseOrderItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReleaseOrderItemResponse{
			ID:               item.ID,
			WorkOrderItemID:  item.WorkOrderItemID,
			SlotID:           item.SlotID,
			MediaType:        string(item.MediaType),
			Lane:             string(item.Lane),
			BannerURL:        item.BannerURL,
			ProcessedAt:      item.ProcessedAt,
			LiveDeploymentID: item.LiveDeploymentID,
			EndDate:          item.EndDate,
		}
	}
	var rejectedFrom *string
	if r.RejectedFromStatus != nil {
		s := string(*r.RejectedFromStatus)
		rejectedFrom = &s
	}
	return ReleaseOrderResponse{
		ID:                 r.ID,
		Number:             r.Number,
		WorkOrderID:        r.WorkOrderID,
		ClientID:           r.ClientID,
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		RejectionReason:    r.RejectionReason,
		RejectedBy:         r.RejectedBy,
		RejectedAt:         r.RejectedAt,
		RejectedFromStatus: rejectedFrom,
		AccountsInvoiceURL: r.AccountsInvoiceURL,
		AcceptedAt:         r.AcceptedAt,
		DeployedAt:         r.DeployedAt,
		Items:              items,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ==================== Invoice DTOs ====================

// IssueProformaRequest represents a request to issue a proforma invoice
type IssueProformaRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	DueDate *time.Time      `json:"due_date"`
}

// IssueTaxInvoiceRequest represents a request to issue the GST invoice of a release order
type IssueTaxInvoiceRequest struct {
	FileURL *string    `json:"file_url" binding:"omitempty,url"`
	DueDate *time.Time `json:"due_date"`
}

// RecordPaymentRequest records money received against an invoice
type RecordPaymentRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	Reference string           `json:"reference" binding:"max=200"`
}

// PaymentCallbackRequest is posted by the payment gateway
type PaymentCallbackRequest struct {
	InvoiceID uuid.UUID        `json:"invoice_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount"`
	Reference string           `json:"reference" binding:"required,max=200"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID       `json:"id"`
	Number           string          `json:"number"`
	WorkOrderID      uuid.UUID       `json:"work_order_id"`
	ReleaseOrderID   *uuid.UUID      `json:"release_order_id,omitempty"`
	InvoiceType      string          `json:"invoice_type"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	TaxableAmount    decimal.Decimal `json:"taxable_amount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	FileURL          *string         `json:"file_url,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(i *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:               i.ID,
		Number:           i.Number,
		WorkOrderID:      i.WorkOrderID,
		ReleaseOrderID:   i.ReleaseOrderID,
		InvoiceType:      string(i.Type),
		Status:           string(i.Status),
		Amount:           i.Amount,
		TaxableAmount:    i.TaxableAmount,
		TaxRate:          i.TaxRate,
		TaxAmount:        i.TaxAmount,
		PaidAmount:       i.PaidAmount,
		Outstanding:      i.Outstanding(),
		DueDate:          i.DueDate,
		FileURL:          i.FileURL,
		PaidAt:           i.PaidAt,
		PaymentReference: i.PaymentReference,
		CreatedAt:        i.CreatedAt,
	}
}

// ToInvoiceResponses converts a list of invoices
func ToInvoiceResponses(invoices []*finance.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = ToInvoiceResponse(inv)
	}
	return out
}

// ==================== Deployment DTOs ====================

// DeployRequest optionally overrides the approved banner
type DeployRequest struct {
	BannerURL string `json:"banner_url" binding:"omitempty,url"`
}

// DeploymentResponse represents a deployment in API responses
type DeploymentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ReleaseOrderID     uuid.UUID  `json:"release_order_id"`
	ReleaseOrderItemID uuid.UUID  `json:"release_order_item_id"`
	WorkOrderItemID    uuid.UUID  `json:"work_order_item_id"`
	BannerURL          string     `json:"banner_url"`
	Status             string     `json:"status"`
	DeployedBy         uuid.UUID  `json:"deployed_by"`
	DeployedAt         time.Time  `json:"deployed_at"`
	EndDate            time.Time  `json:"end_date"`
	RemovedBy          *uuid.UUID `json:"removed_by,omitempty"`
	RemovedAt          *time.Time `json:"removed_at,omitempty"`
	ExpiredAt          *time.Time `json:"expired_at,omitempty"`
}

// ToDeploymentResponse converts a domain deployment to a response
func ToDeploymentResponse(d *deployment.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:                 d.ID,
		ReleaseOrderID:     d.ReleaseOrderID,
		ReleaseOrderItemID: d.ReleaseOrderItemID,
		WorkOrderItemID:    d.WorkOrderItemID,
		BannerURL:          d.BannerURL,
		Status:             string(d.Status),
		DeployedBy:         d.DeployedBy,
		DeployedAt:         d.DeployedAt,
		EndDate:            d.EndDate,
		RemovedBy:          d.RemovedBy,
		RemovedAt:          d.RemovedAt,
		ExpiredAt:          d.ExpiredAt,
	}
}
