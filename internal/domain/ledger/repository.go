package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionFilter contains filter options for listing customer transactions
type TransactionFilter struct {
	CustomerID      *uuid.UUID
	TransactionType *TransactionType
	DateFrom        *time.Time
	DateTo          *time.Time
}

// TransactionRepository defines the interface for customer transaction persistence.
// The ledger is append-only: there is no update or delete.
type TransactionRepository interface {
	// Create appends a new transaction to the ledger
	Create(ctx context.Context, transaction *CustomerTransaction) error

	// FindByID finds a transaction by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerTransaction, error)

	// FindAllForTenant returns all transactions for a tenant matching the filter,
	// ordered by transaction date
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]CustomerTransaction, error)

	// CountForTenant counts transactions for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) (int64, error)
}
