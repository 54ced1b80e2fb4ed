package models

import (
	"time"

	"github.com/adbook/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for proforma and tax invoices.
type InvoiceModel struct {
	AggregateModel
	Number           string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	WorkOrderID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	ReleaseOrderID   *uuid.UUID            `gorm:"type:uuid;index"`
	ClientID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Type             finance.InvoiceType   `gorm:"type:varchar(20);not null"`
	Status           finance.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TaxableAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TaxRate          decimal.Decimal       `gorm:"type:decimal(6,4);not null"`
	TaxAmount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaidAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	DueDate          *time.Time
	FileURL          *string `gorm:"type:varchar(1000)"`
	PaidAt           *time.Time
	PaymentReference string `gorm:"type:varchar(200)"`
	FailureReason    string `gorm:"type:text"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.toAggregateRoot(),
		Number:            m.Number,
		WorkOrderID:       m.WorkOrderID,
		ReleaseOrderID:    m.ReleaseOrderID,
		ClientID:          m.ClientID,
		Type:              m.Type,
		Status:            m.Status,
		Amount:            m.Amount,
		TaxableAmount:     m.TaxableAmount,
		TaxRate:           m.TaxRate,
		TaxAmount:         m.TaxAmount,
		PaidAmount:        m.PaidAmount,
		DueDate:           m.DueDate,
		FileURL:           m.FileURL,
		PaidAt:            m.PaidAt,
		PaymentReference:  m.PaymentReference,
		FailureReason:     m.FailureReason,
	}
}

func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Number:           inv.Number,
		WorkOrderID:      inv.WorkOrderID,
		ReleaseOrderID:   inv.ReleaseOrderID,
		ClientID:         inv.ClientID,
		Type:             inv.Type,
		Status:           inv.Status,
		Amount:           inv.Amount,
		TaxableAmount:    inv.TaxableAmount,
		TaxRate:          inv.TaxRate,
		TaxAmount:        inv.TaxAmount,
		PaidAmount:       inv.PaidAmount,
		DueDate:          inv.DueDate,
		FileURL:          inv.FileURL,
		PaidAt:           inv.PaidAt,
		PaymentReference: inv.PaymentReference,
		FailureReason:    inv.FailureReason,
	}
	m.fromAggregateRoot(inv.BaseAggregateRoot)
	return m
}
