package models

import (
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderModel is the persistence model for work orders.
type WorkOrderModel struct {
	AggregateModel
	Number               string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID             uuid.UUID               `gorm:"type:uuid;not null;index"`
	Status               booking.WorkOrderStatus `gorm:"type:varchar(20);not null;index"`
	PaymentMode          booking.PaymentMode     `gorm:"type:varchar(20);not null"`
	TotalAmount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Items                []WorkOrderItemModel    `gorm:"foreignKey:WorkOrderID;references:ID"`
	POURL                *string                 `gorm:"column:po_url;type:varchar(1000)"`
	POApproved           bool                    `gorm:"column:po_approved;not null;default:false"`
	POApprovedBy         *uuid.UUID              `gorm:"column:po_approved_by;type:uuid"`
	NegotiationRequested bool                    `gorm:"not null;default:false"`
	NegotiationReason    string                  `gorm:"type:text"`
	RejectionReason      string                  `gorm:"type:text"`
	RejectedBy           *uuid.UUID              `gorm:"type:uuid"`
	QuotedAt             *time.Time
	AcceptedAt           *time.Time
	PaidAt               *time.Time
	ActivatedAt          *time.Time
	CompletedAt          *time.Time
	RejectedAt           *time.Time
}

func (WorkOrderModel) TableName() string {
	return "work_orders"
}

// WorkOrderItemModel is one line of a work order.
type WorkOrderItemModel struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	WorkOrderID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	SlotID           *uuid.UUID          `gorm:"type:uuid;index"`
	AddonType        *booking.AddonType  `gorm:"type:varchar(20)"`
	MediaType        catalog.MediaType   `gorm:"type:varchar(20);not null"`
	StartDate        time.Time           `gorm:"not null"`
	EndDate          time.Time           `gorm:"not null"`
	PricingUnit      catalog.PricingUnit `gorm:"type:varchar(10);not null"`
	Quantity         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Subtotal         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	BannerURL        *string             `gorm:"type:varchar(1000)"`
	BannerUploadedAt *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (WorkOrderItemModel) TableName() string {
	return "work_order_items"
}

func (m *WorkOrderModel) ToDomain() *booking.WorkOrder {
	order := &booking.WorkOrder{
		BaseAggregateRoot:    m.toAggregateRoot(),
		Number:               m.Number,
		ClientID:             m.ClientID,
		Status:               m.Status,
		PaymentMode:          m.PaymentMode,
		TotalAmount:          m.TotalAmount,
		POURL:                m.POURL,
		POApproved:           m.POApproved,
		POApprovedBy:         m.POApprovedBy,
		NegotiationRequested: m.NegotiationRequested,
		NegotiationReason:    m.NegotiationReason,
		RejectionReason:      m.RejectionReason,
		RejectedBy:           m.RejectedBy,
		QuotedAt:             m.QuotedAt,
		AcceptedAt:           m.AcceptedAt,
		PaidAt:               m.PaidAt,
		ActivatedAt:          m.ActivatedAt,
		CompletedAt:          m.CompletedAt,
		RejectedAt:           m.RejectedAt,
		Items:                make([]booking.WorkOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	return order
}

func WorkOrderModelFromDomain(o *booking.WorkOrder) *WorkOrderModel {
	m := &WorkOrderModel{
		Number:               o.Number,
		ClientID:             o.ClientID,
		Status:               o.Status,
		PaymentMode:          o.PaymentMode,
		TotalAmount:          o.TotalAmount,
		POURL:                o.POURL,
		POApproved:           o.POApproved,
		POApprovedBy:         o.POApprovedBy,
		NegotiationRequested: o.NegotiationRequested,
		NegotiationReason:    o.NegotiationReason,
		RejectionReason:      o.RejectionReason,
		RejectedBy:           o.RejectedBy,
		QuotedAt:             o.QuotedAt,
		AcceptedAt:           o.AcceptedAt,
		PaidAt:               o.PaidAt,
		ActivatedAt:          o.ActivatedAt,
		CompletedAt:          o.CompletedAt,
		RejectedAt:           o.RejectedAt,
		Items:                make([]WorkOrderItemModel, len(o.Items)),
	}
	m.fromAggregateRoot(o.BaseAggregateRoot)
	for i := range o.Items {
		o.Items[i].WorkOrderID = o.ID
		m.Items[i] = WorkOrderItemModelFromDomain(&o.Items[i])
	}
	return m
}

func (m *WorkOrderItemModel) ToDomain() booking.WorkOrderItem {
	return booking.WorkOrderItem{
		ID:               m.ID,
		WorkOrderID:      m.WorkOrderID,
		SlotID:           m.SlotID,
		AddonType:        m.AddonType,
		MediaType:        m.MediaType,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		PricingUnit:      m.PricingUnit,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Subtotal:         m.Subtotal,
		BannerURL:        m.BannerURL,
		BannerUploadedAt: m.BannerUploadedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func WorkOrderItemModelFromDomain(i *booking.WorkOrderItem) WorkOrderItemModel {
	return WorkOrderItemModel{
		ID:               i.ID,
		WorkOrderID:      i.WorkOrderID,
		SlotID:           i.SlotID,
		AddonType:        i.AddonType,
		MediaType:        i.MediaType,
		StartDate:        i.StartDate,
		EndDate:          i.EndDate,
		PricingUnit:      i.PricingUnit,
		Quantity:         i.Quantity,
		UnitPrice:        i.UnitPrice,
		Subtotal:         i.Subtotal,
		BannerURL:        i.BannerURL,
		BannerUploadedAt: i.BannerUploadedAt,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}
