package numbering

import (
	"context"

	"github.com/google/uuid"
)

// Registry is the persisted mapping from order to assigned document number,
// plus the mint operation backed by the tenant's sequence.
type Registry interface {
	// GetAssigned returns the number assigned to an order.
	// Returns shared.ErrNotFound when no number has been assigned yet.
	GetAssigned(ctx context.Context, tenantID, orderID uuid.UUID) (string, error)

	// FindByNumber reverse-looks-up the assignment carrying a minted number.
	// Returns shared.ErrNotFound when the number was never minted.
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*DocumentNumberAssignment, error)

	// FindForOrders returns the assignments for the given orders, keyed by
	// order id. Orders without an assignment are absent from the result.
	FindForOrders(ctx context.Context, tenantID uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID]DocumentNumberAssignment, error)

	// Allocate mints the next number from the tenant's sequence and persists
	// the assignment, atomically: the sequence advance and the assignment
	// insert commit together or not at all. Returns shared.ErrAlreadyExists
	// when the order gained an assignment concurrently.
	Allocate(ctx context.Context, tenantID, orderID uuid.UUID) (string, error)
}
