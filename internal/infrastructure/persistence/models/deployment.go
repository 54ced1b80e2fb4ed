package models

import (
	"time"

	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/google/uuid"
)

// DeploymentModel records one banner that went live for a release order item.
type DeploymentModel struct {
	AggregateModel
	ReleaseOrderID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ReleaseOrderItemID uuid.UUID         `gorm:"type:uuid;not null;index"`
	WorkOrderID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	WorkOrderItemID    uuid.UUID         `gorm:"type:uuid;not null"`
	ClientID           uuid.UUID         `gorm:"type:uuid;not null"`
	BannerURL          string            `gorm:"type:varchar(1000);not null"`
	Status             deployment.Status `gorm:"type:varchar(20);not null;index"`
	DeployedBy         uuid.UUID         `gorm:"type:uuid;not null"`
	DeployedAt         time.Time         `gorm:"not null"`
	EndDate            time.Time         `gorm:"not null;index"`
	RemovedBy          *uuid.UUID        `gorm:"type:uuid"`
	RemovedAt          *time.Time
	ExpiredAt          *time.Time
}

func (DeploymentModel) TableName() string {
	return "deployments"
}

func (m *DeploymentModel) ToDomain() *deployment.Deployment {
	return &deployment.Deployment{
		BaseAggregateRoot:  m.toAggregateRoot(),
		ReleaseOrderID:     m.ReleaseOrderID,
		ReleaseOrderItemID: m.ReleaseOrderItemID,
		WorkOrderID:        m.WorkOrderID,
		WorkOrderItemID:    m.WorkOrderItemID,
		ClientID:           m.ClientID,
		BannerURL:          m.BannerURL,
		Status:             m.Status,
		DeployedBy:         m.DeployedBy,
		DeployedAt:         m.DeployedAt,
		EndDate:            m.EndDate,
		RemovedBy:          m.RemovedBy,
		RemovedAt:          m.RemovedAt,
		ExpiredAt:          m.ExpiredAt,
	}
}

func DeploymentModelFromDomain(d *deployment.Deployment) *DeploymentModel {
	m := &DeploymentModel{
		ReleaseOrderID:     d.ReleaseOrderID,
		ReleaseOrderItemID: d.ReleaseOrderItemID,
		WorkOrderID:        d.WorkOrderID,
		WorkOrderItemID:    d.WorkOrderItemID,
		ClientID:           d.ClientID,
		BannerURL:          d.BannerURL,
		Status:             d.Status,
		DeployedBy:         d.DeployedBy,
		DeployedAt:         d.DeployedAt,
		EndDate:            d.EndDate,
		RemovedBy:          d.RemovedBy,
		RemovedAt:          d.RemovedAt,
		ExpiredAt:          d.ExpiredAt,
	}
	m.fromAggregateRoot(d.BaseAggregateRoot)
	return m
}
