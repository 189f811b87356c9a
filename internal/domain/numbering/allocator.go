package numbering

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Allocator is the domain service granting exactly one sequential document
// number per order. The first request for an order mints a number from the
// sequence; every later request returns the same value without touching the
// counter.
//
// The allocate path races with itself: two callers can both miss the lookup
// and try to mint for the same order. The registry's unique constraint makes
// one of them lose; the loser re-reads and returns the winner's number, so
// both callers converge on a single value.
type Allocator struct {
	registry Registry
}

// NewAllocator creates a new Allocator
func NewAllocator(registry Registry) *Allocator {
	return &Allocator{registry: registry}
}

// AllocateOrReuse returns the document number assigned to the order,
// minting one if the order has none yet.
func (a *Allocator) AllocateOrReuse(ctx context.Context, tenantID, orderID uuid.UUID) (string, error) {
	if orderID == uuid.Nil {
		return "", shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	number, err := a.registry.GetAssigned(ctx, tenantID, orderID)
	if err == nil {
		return number, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", fmt.Errorf("failed to look up assigned number: %w", err)
	}

	number, err = a.registry.Allocate(ctx, tenantID, orderID)
	if err == nil {
		return number, nil
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		// Lost the mint race for this order; the winner's value is final.
		number, err = a.registry.GetAssigned(ctx, tenantID, orderID)
		if err != nil {
			return "", shared.ErrConcurrencyConflict
		}
		return number, nil
	}
	return "", fmt.Errorf("failed to allocate document number: %w", err)
}
