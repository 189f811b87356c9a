package numbering

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRegistry struct {
	next     int64
	assigned map[uuid.UUID]string
}

func newMemRegistry() *memRegistry {
	return &memRegistry{next: 5000, assigned: map[uuid.UUID]string{}}
}

func (m *memRegistry) GetAssigned(_ context.Context, _, orderID uuid.UUID) (string, error) {
	if n, ok := m.assigned[orderID]; ok {
		return n, nil
	}
	return "", shared.ErrNotFound
}

func (m *memRegistry) FindByNumber(_ context.Context, _ uuid.UUID, number string) (*numbering.DocumentNumberAssignment, error) {
	for orderID, n := range m.assigned {
		if n == number {
			return &numbering.DocumentNumberAssignment{OrderID: orderID, Number: n}, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRegistry) FindForOrders(_ context.Context, _ uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID]numbering.DocumentNumberAssignment, error) {
	out := map[uuid.UUID]numbering.DocumentNumberAssignment{}
	for _, id := range orderIDs {
		if n, ok := m.assigned[id]; ok {
			out[id] = numbering.DocumentNumberAssignment{OrderID: id, Number: n}
		}
	}
	return out, nil
}

func (m *memRegistry) Allocate(_ context.Context, _, orderID uuid.UUID) (string, error) {
	if _, ok := m.assigned[orderID]; ok {
		return "", shared.ErrAlreadyExists
	}
	number := fmt.Sprintf("INV-%d", m.next)
	m.assigned[orderID] = number
	m.next++
	return number, nil
}

type memOrders struct {
	orders map[uuid.UUID]trade.SalesOrder
}

func (m *memOrders) FindByID(_ context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	if o, ok := m.orders[id]; ok && o.TenantID == tenantID {
		return &o, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memOrders) FindByOrderNumber(_ context.Context, _ uuid.UUID, _ string) (*trade.SalesOrder, error) {
	return nil, shared.ErrNotFound
}

func (m *memOrders) FindAllForTenant(_ context.Context, _ uuid.UUID, _ trade.OrderFilter) ([]trade.SalesOrder, error) {
	return nil, nil
}

func newService(t *testing.T) (*DocumentNumberService, *memRegistry, *memOrders, uuid.UUID) {
	t.Helper()
	registry := newMemRegistry()
	orders := &memOrders{orders: map[uuid.UUID]trade.SalesOrder{}}
	service := NewDocumentNumberService(numbering.NewAllocator(registry), registry, orders, zap.NewNop())
	return service, registry, orders, uuid.New()
}

func addOrder(t *testing.T, orders *memOrders, tenantID, customerID uuid.UUID) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder(tenantID, customerID, "ORD-"+uuid.NewString()[:8], trade.OrderStatusApproved, time.Now(), decimal.NewFromInt(10))
	require.NoError(t, err)
	orders.orders[order.ID] = *order
	return order
}

func TestDocumentNumberAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns once and reuses on repeat calls", func(t *testing.T) {
		service, _, orders, tenantID := newService(t)
		order := addOrder(t, orders, tenantID, uuid.New())

		first, err := service.Assign(ctx, shared.AdminScope(tenantID), order.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-5000", first)

		second, err := service.Assign(ctx, shared.AdminScope(tenantID), order.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown order reads as not found", func(t *testing.T) {
		service, _, _, tenantID := newService(t)
		_, err := service.Assign(ctx, shared.AdminScope(tenantID), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("scoped caller cannot mint for another customer's order", func(t *testing.T) {
		service, registry, orders, tenantID := newService(t)
		order := addOrder(t, orders, tenantID, uuid.New())

		_, err := service.Assign(ctx, shared.CustomerScope(tenantID, uuid.New()), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, registry.assigned)
	})

	t.Run("scoped caller can mint for the linked customer", func(t *testing.T) {
		service, _, orders, tenantID := newService(t)
		customerID := uuid.New()
		order := addOrder(t, orders, tenantID, customerID)

		number, err := service.Assign(ctx, shared.CustomerScope(tenantID, customerID), order.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-5000", number)
	})
}

func TestDocumentNumberGetAssigned(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the existing number without minting", func(t *testing.T) {
		service, registry, orders, tenantID := newService(t)
		order := addOrder(t, orders, tenantID, uuid.New())
		registry.assigned[order.ID] = "INV-4999"

		number, err := service.GetAssigned(ctx, shared.AdminScope(tenantID), order.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-4999", number)
		assert.Equal(t, int64(5000), registry.next)
	})

	t.Run("unassigned order reads as not found", func(t *testing.T) {
		service, _, orders, tenantID := newService(t)
		order := addOrder(t, orders, tenantID, uuid.New())

		_, err := service.GetAssigned(ctx, shared.AdminScope(tenantID), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
