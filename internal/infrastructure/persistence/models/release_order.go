package models

import (
	"time"

	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/google/uuid"
)

// ReleaseOrderModel is the persistence model for release orders.
type ReleaseOrderModel struct {
	AggregateModel
	Number             string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	WorkOrderID        uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	ClientID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status             release.Status        `gorm:"type:varchar(30);not null;index"`
	PaymentStatus      release.PaymentStatus `gorm:"type:varchar(20);not null"`
	RejectionReason    string                `gorm:"type:text"`
	RejectedBy         *uuid.UUID            `gorm:"type:uuid"`
	RejectedAt         *time.Time
	RejectedFromStatus *release.Status `gorm:"type:varchar(30)"`
	AccountsInvoiceURL *string         `gorm:"type:varchar(1000)"`
	AcceptedAt         *time.Time      `gorm:"index"`
	DeployedAt         *time.Time
	Items              []ReleaseOrderItemModel `gorm:"foreignKey:ReleaseOrderID;references:ID"`
}

func (ReleaseOrderModel) TableName() string {
	return "release_orders"
}

// ReleaseOrderItemModel is one placement of a release order.
type ReleaseOrderItemModel struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ReleaseOrderID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	WorkOrderItemID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	SlotID           *uuid.UUID        `gorm:"type:uuid"`
	MediaType        catalog.MediaType `gorm:"type:varchar(20);not null"`
	Lane             release.Lane      `gorm:"type:varchar(20);not null;index"`
	BannerURL        *string           `gorm:"type:varchar(1000)"`
	ProcessedAt      *time.Time
	ProcessedBy      *uuid.UUID `gorm:"type:uuid"`
	LiveDeploymentID *uuid.UUID `gorm:"type:uuid"`
	EndDate          time.Time  `gorm:"not null"`
}

func (ReleaseOrderItemModel) TableName() string {
	return "release_order_items"
}

func (m *ReleaseOrderModel) ToDomain() *release.ReleaseOrder {
	order := &release.ReleaseOrder{
		BaseAggregateRoot:  m.toAggregateRoot(),
		Number:             m.Number,
		WorkOrderID:        m.WorkOrderID,
		ClientID:           m.ClientID,
		Status:             m.Status,
		PaymentStatus:      m.PaymentStatus,
		RejectionReason:    m.RejectionReason,
		RejectedBy:         m.RejectedBy,
		RejectedAt:         m.RejectedAt,
		RejectedFromStatus: m.RejectedFromStatus,
		AccountsInvoiceURL: m.AccountsInvoiceURL,
		AcceptedAt:         m.AcceptedAt,
		DeployedAt:         m.DeployedAt,
		Items:              make([]release.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = release.Item{
			ID:               item.ID,
			ReleaseOrderID:   item.ReleaseOrderID,
			WorkOrderItemID:  item.WorkOrderItemID,
			SlotID:           idOrNil(item.SlotID),
			MediaType:        item.MediaType,
			Lane:             item.Lane,
			BannerURL:        item.BannerURL,
			ProcessedAt:      item.ProcessedAt,
			ProcessedBy:      item.ProcessedBy,
			LiveDeploymentID: item.LiveDeploymentID,
			EndDate:          item.EndDate,
		}
	}
	return order
}

func ReleaseOrderModelFromDomain(o *release.ReleaseOrder) *ReleaseOrderModel {
	m := &ReleaseOrderModel{
		Number:             o.Number,
		WorkOrderID:        o.WorkOrderID,
		ClientID:           o.ClientID,
		Status:             o.Status,
		PaymentStatus:      o.PaymentStatus,
		RejectionReason:    o.RejectionReason,
		RejectedBy:         o.RejectedBy,
		RejectedAt:         o.RejectedAt,
		RejectedFromStatus: o.RejectedFromStatus,
		AccountsInvoiceURL: o.AccountsInvoiceURL,
		AcceptedAt:         o.AcceptedAt,
		DeployedAt:         o.DeployedAt,
		Items:              make([]ReleaseOrderItemModel, len(o.Items)),
	}
	m.fromAggregateRoot(o.BaseAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = ReleaseOrderItemModel{
			ID:               item.ID,
			ReleaseOrderID:   o.ID,
			WorkOrderItemID:  item.WorkOrderItemID,
			SlotID:           nullableID(item.SlotID),
			MediaType:        item.MediaType,
			Lane:             item.Lane,
			BannerURL:        item.BannerURL,
			ProcessedAt:      item.ProcessedAt,
			ProcessedBy:      item.ProcessedBy,
			LiveDeploymentID: item.LiveDeploymentID,
			EndDate:          item.EndDate,
		}
	}
	return m
}
