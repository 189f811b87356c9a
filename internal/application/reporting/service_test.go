package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/finance"
	"github.com/backoffice/backend/internal/domain/ledger"
	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/reconciliation"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTransactions struct {
	entries []ledger.CustomerTransaction
}

func (s *stubTransactions) Create(_ context.Context, tx *ledger.CustomerTransaction) error {
	s.entries = append(s.entries, *tx)
	return nil
}

func (s *stubTransactions) FindByID(_ context.Context, _, _ uuid.UUID) (*ledger.CustomerTransaction, error) {
	return nil, shared.ErrNotFound
}

func (s *stubTransactions) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter ledger.TransactionFilter) ([]ledger.CustomerTransaction, error) {
	var out []ledger.CustomerTransaction
	for _, e := range s.entries {
		if e.TenantID != tenantID {
			continue
		}
		if filter.CustomerID != nil && e.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubTransactions) CountForTenant(_ context.Context, _ uuid.UUID, _ ledger.TransactionFilter) (int64, error) {
	return int64(len(s.entries)), nil
}

type stubOrders struct {
	orders []trade.SalesOrder
}

func (s *stubOrders) FindByID(_ context.Context, _, id uuid.UUID) (*trade.SalesOrder, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubOrders) FindByOrderNumber(_ context.Context, _ uuid.UUID, _ string) (*trade.SalesOrder, error) {
	return nil, shared.ErrNotFound
}

func (s *stubOrders) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter trade.OrderFilter) ([]trade.SalesOrder, error) {
	var out []trade.SalesOrder
	for _, o := range s.orders {
		if o.TenantID != tenantID {
			continue
		}
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type stubRegistry struct {
	byOrder map[uuid.UUID]string
}

func (s *stubRegistry) GetAssigned(_ context.Context, _, orderID uuid.UUID) (string, error) {
	if n, ok := s.byOrder[orderID]; ok {
		return n, nil
	}
	return "", shared.ErrNotFound
}

func (s *stubRegistry) FindByNumber(_ context.Context, _ uuid.UUID, _ string) (*numbering.DocumentNumberAssignment, error) {
	return nil, shared.ErrNotFound
}

func (s *stubRegistry) FindForOrders(_ context.Context, _ uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID]numbering.DocumentNumberAssignment, error) {
	out := map[uuid.UUID]numbering.DocumentNumberAssignment{}
	for _, id := range orderIDs {
		if n, ok := s.byOrder[id]; ok {
			out[id] = numbering.DocumentNumberAssignment{OrderID: id, Number: n}
		}
	}
	return out, nil
}

func (s *stubRegistry) Allocate(_ context.Context, _, _ uuid.UUID) (string, error) {
	return "", shared.ErrInvalidState
}

type stubCustomers struct {
	customers map[uuid.UUID]partner.Customer
}

func (s *stubCustomers) FindByID(_ context.Context, _, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return &c, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubCustomers) FindByCode(_ context.Context, _ uuid.UUID, _ string) (*partner.Customer, error) {
	return nil, shared.ErrNotFound
}

func (s *stubCustomers) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]partner.Customer, error) {
	out := map[uuid.UUID]partner.Customer{}
	for _, id := range ids {
		if c, ok := s.customers[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type stubPayments struct {
	records map[uuid.UUID]finance.PaymentRecord
}

func (s *stubPayments) FindByID(_ context.Context, _, id uuid.UUID) (*finance.PaymentRecord, error) {
	if p, ok := s.records[id]; ok {
		return &p, nil
	}
	return nil, shared.ErrNotFound
}

type stubReceipts struct{}

func (stubReceipts) PresignReceiptURL(_ context.Context, key string) (string, error) {
	return "https://files.example.com/" + key, nil
}

type fixture struct {
	tenantID     uuid.UUID
	customerID   uuid.UUID
	transactions *stubTransactions
	orders       *stubOrders
	registry     *stubRegistry
	customers    *stubCustomers
	payments     *stubPayments
	service      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := uuid.New()
	customer, err := partner.NewCustomer(tenantID, "C1", "Acme Trading")
	require.NoError(t, err)

	f := &fixture{
		tenantID:     tenantID,
		customerID:   customer.ID,
		transactions: &stubTransactions{},
		orders:       &stubOrders{},
		registry:     &stubRegistry{byOrder: map[uuid.UUID]string{}},
		customers:    &stubCustomers{customers: map[uuid.UUID]partner.Customer{customer.ID: *customer}},
		payments:     &stubPayments{records: map[uuid.UUID]finance.PaymentRecord{}},
	}
	engine := reconciliation.NewEngine(f.transactions, f.orders, f.registry, f.customers)
	f.service = NewService(engine, f.payments, stubReceipts{}, zap.NewNop())
	return f
}

func (f *fixture) addOrder(t *testing.T, number string, status trade.OrderStatus, total string, at time.Time) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder(f.tenantID, f.customerID, number, status, at, decimal.RequireFromString(total))
	require.NoError(t, err)
	f.orders.orders = append(f.orders.orders, *order)
	return order
}

func (f *fixture) addEntry(t *testing.T, txType ledger.TransactionType, debit, credit, refNumber, appRef string, at time.Time) {
	t.Helper()
	entry, err := ledger.NewCustomerTransaction(
		f.tenantID, f.customerID, txType, at,
		decimal.RequireFromString(debit), decimal.RequireFromString(credit),
	)
	require.NoError(t, err)
	entry.WithReferenceNumber(refNumber).WithApplicationReference(appRef)
	f.transactions.entries = append(f.transactions.entries, *entry)
}

func (f *fixture) query() Query {
	return Query{Scope: shared.AdminScope(f.tenantID)}
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestBalanceStatement(t *testing.T) {
	t.Run("mixes ledger and inferred rows with statuses", func(t *testing.T) {
		f := newFixture(t)
		f.addOrder(t, "ORD-1", trade.OrderStatusApproved, "100", day(1))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "250", "0", "PFX-1", "", day(2))
		f.addEntry(t, ledger.TransactionTypePayment, "0", "250", "PFX-1", "", day(3))

		report, err := f.service.BalanceStatement(context.Background(), f.query())
		require.NoError(t, err)

		require.Len(t, report.Rows, 3)
		assert.True(t, report.Totals.TotalDebit.Equal(decimal.NewFromInt(350)))
		assert.True(t, report.Totals.TotalCredit.Equal(decimal.NewFromInt(250)))
		assert.True(t, report.Totals.TotalBalance.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(3), report.Totals.TotalCount)

		byRef := map[string]StatementRow{}
		for _, row := range report.Rows {
			byRef[row.Reference+"/"+row.Status] = row
		}
		assert.Contains(t, byRef, "ORD-1/Open")
		assert.Contains(t, byRef, "PFX-1/Open")
		assert.Contains(t, byRef, "PFX-1/Closed")
	})

	t.Run("sorts by date and paginates after the full sort", func(t *testing.T) {
		f := newFixture(t)
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "30", "0", "R3", "", day(3))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "10", "0", "R1", "", day(1))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "20", "0", "R2", "", day(2))

		query := f.query()
		query.OrderBy = "date"
		query.OrderDir = "desc"
		query.Page = 2
		query.PageSize = 2

		report, err := f.service.BalanceStatement(context.Background(), query)
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		assert.Equal(t, "R1", report.Rows[0].Reference)
		// Totals still cover the whole set, not the page.
		assert.Equal(t, int64(3), report.Totals.TotalCount)
		assert.True(t, report.Totals.TotalDebit.Equal(decimal.NewFromInt(60)))
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		f := newFixture(t)
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "10", "0", "R1", "", day(1))

		query := f.query()
		query.Page = 9
		report, err := f.service.BalanceStatement(context.Background(), query)
		require.NoError(t, err)
		assert.Empty(t, report.Rows)
		assert.Equal(t, int64(1), report.Totals.TotalCount)
	})
}

func TestPaymentDetail(t *testing.T) {
	t.Run("resolves receipt attachment through the payment record", func(t *testing.T) {
		f := newFixture(t)
		payment, err := finance.NewPaymentRecord(f.tenantID, f.customerID, decimal.NewFromInt(80), finance.PaymentMethodBankTransfer, day(4))
		require.NoError(t, err)
		payment.WithReceiptAttachment("receipts/2026/march.pdf")
		f.payments.records[payment.ID] = *payment
		f.addEntry(t, ledger.TransactionTypePayment, "0", "80", "", payment.ID.String(), day(4))

		report, err := f.service.PaymentDetail(context.Background(), f.query())
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		require.NotNil(t, report.Rows[0].ReceiptURL)
		assert.Equal(t, "https://files.example.com/receipts/2026/march.pdf", *report.Rows[0].ReceiptURL)
	})

	t.Run("unresolvable references yield nil, not an error", func(t *testing.T) {
		f := newFixture(t)
		f.addEntry(t, ledger.TransactionTypePayment, "0", "10", "", "legacy-text", day(1))
		f.addEntry(t, ledger.TransactionTypePayment, "0", "20", "", uuid.New().String(), day(2))
		f.addOrder(t, "ORD-9", trade.OrderStatusApproved, "30", day(3))

		report, err := f.service.PaymentDetail(context.Background(), f.query())
		require.NoError(t, err)

		require.Len(t, report.Rows, 3)
		for _, row := range report.Rows {
			assert.Nil(t, row.ReceiptURL)
		}
	})
}

func TestCustomerSummary(t *testing.T) {
	t.Run("ledger and inferred amounts land in one bucket per customer", func(t *testing.T) {
		f := newFixture(t)
		f.addOrder(t, "ORD-1", trade.OrderStatusApproved, "100", day(1))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "40", "0", "PFX-9", "", day(2))
		f.addEntry(t, ledger.TransactionTypePayment, "0", "25", "PFX-9", "", day(3))

		report, err := f.service.CustomerSummary(context.Background(), f.query())
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		row := report.Rows[0]
		assert.Equal(t, "C1", row.CustomerCode)
		assert.True(t, row.TotalDebit.Equal(decimal.NewFromInt(140)))
		assert.True(t, row.TotalCredit.Equal(decimal.NewFromInt(25)))
		assert.True(t, row.Balance.Equal(decimal.NewFromInt(115)))
	})

	t.Run("customers stay separate", func(t *testing.T) {
		f := newFixture(t)
		other, err := partner.NewCustomer(f.tenantID, "C2", "Other Co")
		require.NoError(t, err)
		f.customers.customers[other.ID] = *other

		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "40", "0", "A-1", "", day(1))
		entry, err := ledger.NewCustomerTransaction(f.tenantID, other.ID, ledger.TransactionTypeSalesInvoice, day(2), decimal.NewFromInt(60), decimal.Zero)
		require.NoError(t, err)
		entry.WithReferenceNumber("B-1")
		f.transactions.entries = append(f.transactions.entries, *entry)

		report, err := f.service.CustomerSummary(context.Background(), f.query())
		require.NoError(t, err)
		assert.Len(t, report.Rows, 2)
	})
}

func TestOpenReferences(t *testing.T) {
	t.Run("keeps only references with an outstanding balance", func(t *testing.T) {
		f := newFixture(t)
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "100", "0", "PFX-1", "", day(1))
		f.addEntry(t, ledger.TransactionTypePayment, "0", "100", "PFX-1", "", day(2))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "50", "0", "PFX-2", "", day(3))
		f.addOrder(t, "ORD-3", trade.OrderStatusApproved, "70", day(4))

		report, err := f.service.OpenReferences(context.Background(), f.query())
		require.NoError(t, err)

		refs := make([]string, 0, len(report.Rows))
		for _, row := range report.Rows {
			refs = append(refs, row.Reference)
		}
		assert.ElementsMatch(t, []string{"PFX-2", "ORD-3"}, refs)
	})

	t.Run("credit-only references never show up", func(t *testing.T) {
		f := newFixture(t)
		f.addEntry(t, ledger.TransactionTypePayment, "0", "30", "PFX-8", "", day(1))

		report, err := f.service.OpenReferences(context.Background(), f.query())
		require.NoError(t, err)
		assert.Empty(t, report.Rows)
	})

	t.Run("references tied to cancelled orders are dropped", func(t *testing.T) {
		f := newFixture(t)
		order := f.addOrder(t, "ORD-1", trade.OrderStatusCancelled, "100", day(1))
		f.addEntry(t, ledger.TransactionTypeSalesInvoice, "100", "0", "ORD-1", order.ID.String(), day(2))

		report, err := f.service.OpenReferences(context.Background(), f.query())
		require.NoError(t, err)
		assert.Empty(t, report.Rows)
	})
}

func TestCancelledInvoices(t *testing.T) {
	t.Run("paid cancelled order appears with its matched credits", func(t *testing.T) {
		f := newFixture(t)
		order := f.addOrder(t, "ORD-1", trade.OrderStatusCancelled, "100", day(1))
		f.registry.byOrder[order.ID] = "PFX-3001"
		f.addEntry(t, ledger.TransactionTypePayment, "0", "50", "PFX-3001", "", day(2))

		report, err := f.service.CancelledInvoices(context.Background(), f.query())
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		row := report.Rows[0]
		assert.Equal(t, order.ID, row.OrderID)
		assert.Equal(t, "PFX-3001", row.Reference)
		assert.True(t, row.PaidAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("never-paid cancelled order stays invisible", func(t *testing.T) {
		f := newFixture(t)
		f.addOrder(t, "ORD-1", trade.OrderStatusCancelled, "100", day(1))

		report, err := f.service.CancelledInvoices(context.Background(), f.query())
		require.NoError(t, err)
		assert.Empty(t, report.Rows)

		// The same order is absent from the other views too.
		statement, err := f.service.BalanceStatement(context.Background(), f.query())
		require.NoError(t, err)
		assert.Empty(t, statement.Rows)
	})
}
