package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderFilter contains filter options for listing sales orders
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *OrderStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}

// SalesOrderRepository defines the read-only interface this core uses to
// query sales orders. Order lifecycle writes live in the order workflow.
type SalesOrderRepository interface {
	// FindByID finds a sales order by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sales order by its order number within a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*SalesOrder, error)

	// FindAllForTenant returns all orders for a tenant matching the filter,
	// ordered by ordered-at date
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]SalesOrder, error)
}
