package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for the sales order read model.
// The order workflow owns the table; this core only reads from it.
type SalesOrderModel struct {
	TenantModel
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	Status      trade.OrderStatus `gorm:"type:varchar(20);not null;index"`
	OrderedAt   time.Time         `gorm:"not null;index"`
	GrandTotal  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	return &trade.SalesOrder{
		TenantEntity: m.ToDomainTenantEntity(),
		CustomerID:   m.CustomerID,
		OrderNumber:  m.OrderNumber,
		Status:       m.Status,
		OrderedAt:    m.OrderedAt,
		GrandTotal:   m.GrandTotal,
	}
}

// FromDomain populates the model from a domain SalesOrder
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.CustomerID = o.CustomerID
	m.OrderNumber = o.OrderNumber
	m.Status = o.Status
	m.OrderedAt = o.OrderedAt
	m.GrandTotal = o.GrandTotal
}
