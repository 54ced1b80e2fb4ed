package models

import (
	"github.com/adbook/backend/internal/domain/identity"
)

// UserModel is the persistence model for the user directory.
type UserModel struct {
	BaseModel
	Name   string        `gorm:"type:varchar(200);not null"`
	Email  string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Role   identity.Role `gorm:"type:varchar(20);not null;index"`
	Active bool          `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: m.toEntity(),
		Name:       m.Name,
		Email:      m.Email,
		Role:       m.Role,
		Active:     m.Active,
	}
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Active: u.Active,
	}
	m.fromEntity(u.BaseEntity)
	return m
}
