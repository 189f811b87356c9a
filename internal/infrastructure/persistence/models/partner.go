package models

import (
	"github.com/backoffice/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for a customer.
type CustomerModel struct {
	TenantModel
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name     string `gorm:"type:varchar(200);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantEntity: m.ToDomainTenantEntity(),
		Code:         m.Code,
		Name:         m.Name,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.Code = c.Code
	m.Name = c.Name
	m.IsActive = c.IsActive
}
