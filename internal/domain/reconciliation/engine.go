package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/ledger"
	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange bounds a reconciliation query. Nil ends are unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Result is one full reconciliation of a scope: the merged statement lines
// plus the indexes the report views need to relate lines back to orders.
type Result struct {
	// Lines holds the posted ledger lines followed by the inferred order
	// lines. Inferred lines never include cancelled orders.
	Lines []Line
	// CancelledOrders are the in-scope cancelled orders, kept out of Lines
	// and surfaced only by the cancelled-invoice view.
	CancelledOrders []trade.SalesOrder
	// Resolver resolves ledger references against the in-scope order set
	Resolver *ReferenceResolver
	// Customers indexes the customers appearing in the result
	Customers map[uuid.UUID]partner.Customer
}

// exclusionKey identifies a receivable already represented by a posted
// ledger debit.
type exclusionKey struct {
	customerID uuid.UUID
	reference  string
}

// Engine merges posted ledger entries with receivables inferred from orders
// that have not been posted yet, producing one consistent view of what each
// customer owes and has paid.
type Engine struct {
	transactions ledger.TransactionRepository
	orders       trade.SalesOrderRepository
	registry     numbering.Registry
	customers    partner.CustomerRepository
}

// NewEngine creates a reconciliation engine
func NewEngine(
	transactions ledger.TransactionRepository,
	orders trade.SalesOrderRepository,
	registry numbering.Registry,
	customers partner.CustomerRepository,
) *Engine {
	return &Engine{
		transactions: transactions,
		orders:       orders,
		registry:     registry,
		customers:    customers,
	}
}

// Reconcile merges the scope's ledger entries with inferred lines from
// unposted orders. The exclusion set is built from the complete ledger read
// before any order is evaluated, so an order whose receivable was posted
// can never appear twice.
func (e *Engine) Reconcile(ctx context.Context, scope shared.AccessScope, dateRange DateRange, customerFilter *uuid.UUID) (*Result, error) {
	customerID, err := scope.EffectiveCustomer(customerFilter)
	if err != nil {
		return nil, err
	}

	entries, err := e.transactions.FindAllForTenant(ctx, scope.TenantID, ledger.TransactionFilter{
		CustomerID: customerID,
		DateFrom:   dateRange.From,
		DateTo:     dateRange.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	excluded := make(map[exclusionKey]struct{})
	for i := range entries {
		if entries[i].IsPostedReceivable() {
			excluded[exclusionKey{entries[i].CustomerID, entries[i].ReferenceNumber}] = struct{}{}
		}
	}

	orders, err := e.orders.FindAllForTenant(ctx, scope.TenantID, trade.OrderFilter{
		CustomerID: customerID,
		DateFrom:   dateRange.From,
		DateTo:     dateRange.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	candidates := orders[:0:0]
	for i := range orders {
		if orders[i].IsReceivableCandidate() {
			candidates = append(candidates, orders[i])
		}
	}

	orderIDs := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		orderIDs[i] = candidates[i].ID
	}
	assignments, err := e.registry.FindForOrders(ctx, scope.TenantID, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query assigned numbers: %w", err)
	}

	resolver := NewReferenceResolver(candidates, assignments)

	customers, err := e.loadCustomers(ctx, scope.TenantID, entries, candidates)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(entries)+len(candidates))
	for i := range entries {
		entry := &entries[i]
		line := Line{
			CustomerID:           entry.CustomerID,
			Date:                 entry.TransactionDate,
			DisplayReference:     entry.ReferenceNumber,
			Debit:                entry.DebitAmount,
			Credit:               entry.CreditAmount,
			SourceKind:           SourceLedger,
			Reference:            resolver.Resolve(entry.ApplicationReference, entry.ReferenceNumber),
			ApplicationReference: entry.ApplicationReference,
		}
		if line.Reference.IsResolved() {
			orderID := line.Reference.OrderID
			line.RelatedOrderID = &orderID
		}
		if c, ok := customers[entry.CustomerID]; ok {
			line.CustomerCode = c.Code
			line.CustomerName = c.Name
		}
		lines = append(lines, line)
	}

	var cancelled []trade.SalesOrder
	for i := range candidates {
		order := candidates[i]
		if order.IsCancelled() {
			cancelled = append(cancelled, order)
			continue
		}
		displayRef := resolver.DisplayReference(order.ID)
		if _, ok := excluded[exclusionKey{order.CustomerID, displayRef}]; ok {
			continue
		}
		orderID := order.ID
		line := Line{
			CustomerID:       order.CustomerID,
			Date:             order.OrderedAt,
			DisplayReference: displayRef,
			Debit:            order.GrandTotal,
			Credit:           decimal.Zero,
			SourceKind:       SourceInferredFromOrder,
			RelatedOrderID:   &orderID,
			Reference:        ResolvedReference{Kind: ReferenceByOrderID, OrderID: orderID},
		}
		if c, ok := customers[order.CustomerID]; ok {
			line.CustomerCode = c.Code
			line.CustomerName = c.Name
		}
		lines = append(lines, line)
	}

	return &Result{
		Lines:           lines,
		CancelledOrders: cancelled,
		Resolver:        resolver,
		Customers:       customers,
	}, nil
}

// PaidAmount sums the ledger credits matched back to the given order. Used
// by the cancelled-invoice view to find cancelled orders the customer had
// already paid against.
func (r *Result) PaidAmount(orderID uuid.UUID) decimal.Decimal {
	paid := decimal.Zero
	for i := range r.Lines {
		line := &r.Lines[i]
		if line.SourceKind != SourceLedger || !line.Reference.IsResolved() {
			continue
		}
		if line.Reference.OrderID == orderID {
			paid = paid.Add(line.Credit)
		}
	}
	return paid
}

func (e *Engine) loadCustomers(ctx context.Context, tenantID uuid.UUID, entries []ledger.CustomerTransaction, orders []trade.SalesOrder) (map[uuid.UUID]partner.Customer, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range entries {
		if _, ok := seen[entries[i].CustomerID]; !ok {
			seen[entries[i].CustomerID] = struct{}{}
			ids = append(ids, entries[i].CustomerID)
		}
	}
	for i := range orders {
		if _, ok := seen[orders[i].CustomerID]; !ok {
			seen[orders[i].CustomerID] = struct{}{}
			ids = append(ids, orders[i].CustomerID)
		}
	}
	customers, err := e.customers.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	return customers, nil
}
