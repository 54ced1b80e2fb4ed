package models

import (
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlotModel is the persistence model for inventory slots.
type SlotModel struct {
	AggregateModel
	Code               string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string              `gorm:"type:varchar(200);not null"`
	PageType           string              `gorm:"type:varchar(50)"`
	MediaType          catalog.MediaType   `gorm:"type:varchar(20);not null;index"`
	Position           string              `gorm:"type:varchar(100)"`
	Dimensions         string              `gorm:"type:varchar(50)"`
	Price              decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PricingUnit        catalog.PricingUnit `gorm:"type:varchar(10);not null"`
	Status             catalog.SlotStatus  `gorm:"type:varchar(20);not null;index"`
	MagazinePageNumber *int
	HeldBy             *uuid.UUID `gorm:"type:uuid;index"`
}

func (SlotModel) TableName() string {
	return "slots"
}

func (m *SlotModel) ToDomain() *catalog.Slot {
	return &catalog.Slot{
		BaseAggregateRoot:  m.toAggregateRoot(),
		Code:               m.Code,
		Name:               m.Name,
		PageType:           m.PageType,
		MediaType:          m.MediaType,
		Position:           m.Position,
		Dimensions:         m.Dimensions,
		Price:              m.Price,
		PricingUnit:        m.PricingUnit,
		Status:             m.Status,
		MagazinePageNumber: m.MagazinePageNumber,
		HeldBy:             m.HeldBy,
	}
}

func SlotModelFromDomain(s *catalog.Slot) *SlotModel {
	m := &SlotModel{
		Code:               s.Code,
		Name:               s.Name,
		PageType:           s.PageType,
		MediaType:          s.MediaType,
		Position:           s.Position,
		Dimensions:         s.Dimensions,
		Price:              s.Price,
		PricingUnit:        s.PricingUnit,
		Status:             s.Status,
		MagazinePageNumber: s.MagazinePageNumber,
		HeldBy:             s.HeldBy,
	}
	m.fromAggregateRoot(s.BaseAggregateRoot)
	return m
}
