package trade

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusPreOrder  OrderStatus = "PRE_ORDER"
	OrderStatusPacked    OrderStatus = "PACKED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusApproved,
		OrderStatusPreOrder, OrderStatusPacked, OrderStatusShipped,
		OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// SalesOrder is the read model of a sales order as the receivables core sees
// it. The order workflow owns the full aggregate; this core only reads status,
// customer, number and total, and never writes back.
type SalesOrder struct {
	shared.TenantEntity
	CustomerID  uuid.UUID
	OrderNumber string // stable, assigned at creation, unique per tenant
	Status      OrderStatus
	OrderedAt   time.Time
	GrandTotal  decimal.Decimal // always >= 0
}

// NewSalesOrder creates a sales order read model
func NewSalesOrder(
	tenantID, customerID uuid.UUID,
	orderNumber string,
	status OrderStatus,
	orderedAt time.Time,
	grandTotal decimal.Decimal,
) (*SalesOrder, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid order status")
	}
	if grandTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Grand total cannot be negative")
	}

	return &SalesOrder{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		OrderNumber:  orderNumber,
		Status:       status,
		OrderedAt:    orderedAt,
		GrandTotal:   grandTotal,
	}, nil
}

// IsCancelled returns true for cancelled orders
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsReceivableCandidate reports whether the order can back an inferred
// receivable line: it has a positive total and a usable order number.
// Cancelled orders are excluded separately so the cancelled-invoice view
// can take the complement.
func (o *SalesOrder) IsReceivableCandidate() bool {
	return o.GrandTotal.IsPositive() && o.OrderNumber != ""
}
