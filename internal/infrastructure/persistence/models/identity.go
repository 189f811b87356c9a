package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for a back-office user.
type UserModel struct {
	TenantModel
	Username         string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	PasswordHash     string              `gorm:"type:varchar(255);not null"`
	DisplayName      string              `gorm:"type:varchar(100)"`
	IsAdmin          bool                `gorm:"not null;default:false"`
	LinkedCustomerID *uuid.UUID          `gorm:"type:uuid;index"`
	Status           identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt      *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantEntity:     m.ToDomainTenantEntity(),
		Username:         m.Username,
		PasswordHash:     m.PasswordHash,
		DisplayName:      m.DisplayName,
		IsAdmin:          m.IsAdmin,
		LinkedCustomerID: m.LinkedCustomerID,
		Status:           m.Status,
		LastLoginAt:      m.LastLoginAt,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantEntity(u.TenantEntity)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.IsAdmin = u.IsAdmin
	m.LinkedCustomerID = u.LinkedCustomerID
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}
