package partner

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer represents a business customer of the tenant.
// The receivables core only reads identity fields; customer lifecycle
// (levels, credit, contacts) is owned by the partner workflow.
type Customer struct {
	shared.TenantEntity
	Code     string // short display code, unique per tenant
	Name     string
	IsActive bool
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         code,
		Name:         name,
		IsActive:     true,
	}, nil
}
