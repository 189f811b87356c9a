package numbering

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentNumberService assigns sequential commercial document numbers to
// orders. Assignment happens when a proforma or invoice is generated; the
// returned number becomes the document's display reference and the key the
// reconciliation views use to join ledger postings back to the order.
type DocumentNumberService struct {
	allocator *numbering.Allocator
	registry  numbering.Registry
	orders    trade.SalesOrderRepository
	logger    *zap.Logger
}

// NewDocumentNumberService creates a document number service
func NewDocumentNumberService(
	allocator *numbering.Allocator,
	registry numbering.Registry,
	orders trade.SalesOrderRepository,
	logger *zap.Logger,
) *DocumentNumberService {
	return &DocumentNumberService{
		allocator: allocator,
		registry:  registry,
		orders:    orders,
		logger:    logger,
	}
}

// Assign returns the order's document number, minting the next one from the
// tenant's sequence if the order has none. Repeat calls for the same order
// always return the same string.
func (s *DocumentNumberService) Assign(ctx context.Context, scope shared.AccessScope, orderID uuid.UUID) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document_number", "assign",
		telemetry.WithAttribute("order_id", orderID.String()))
	defer span.End()

	if err := s.authorizeOrder(ctx, scope, orderID); err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	number, err := s.allocator.AllocateOrReuse(ctx, scope.TenantID, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Document number allocation failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return "", err
	}

	telemetry.SetAttribute(span, "document_number", number)
	s.logger.Info("Document number assigned",
		zap.String("order_id", orderID.String()),
		zap.String("number", number))
	return number, nil
}

// GetAssigned returns the order's existing document number without minting.
// Returns shared.ErrNotFound when the order has no number yet.
func (s *DocumentNumberService) GetAssigned(ctx context.Context, scope shared.AccessScope, orderID uuid.UUID) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document_number", "get_assigned",
		telemetry.WithAttribute("order_id", orderID.String()))
	defer span.End()

	if err := s.authorizeOrder(ctx, scope, orderID); err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}
	return s.registry.GetAssigned(ctx, scope.TenantID, orderID)
}

// authorizeOrder loads the order and checks it falls inside the caller's
// scope. Orders outside the scope read as not found so a scoped caller
// cannot probe for other customers' order ids.
func (s *DocumentNumberService) authorizeOrder(ctx context.Context, scope shared.AccessScope, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	order, err := s.orders.FindByID(ctx, scope.TenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	if scope.CustomerID != nil && order.CustomerID != *scope.CustomerID {
		return shared.ErrNotFound
	}
	return nil
}
