package reporting

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/backoffice/backend/internal/domain/finance"
	"github.com/backoffice/backend/internal/domain/reconciliation"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptURLResolver turns a stored receipt attachment key into a
// time-limited download URL.
type ReceiptURLResolver interface {
	PresignReceiptURL(ctx context.Context, key string) (string, error)
}

// Service builds the five receivables report views on top of one shared
// reconciliation pass. Each view reshapes the merged lines in memory and
// applies sort and pagination after the full set is materialized, so a page
// is always cut from a complete, consistent merge.
type Service struct {
	engine   *reconciliation.Engine
	payments finance.PaymentRecordRepository
	receipts ReceiptURLResolver
	logger   *zap.Logger
}

// NewService creates a reporting service
func NewService(
	engine *reconciliation.Engine,
	payments finance.PaymentRecordRepository,
	receipts ReceiptURLResolver,
	logger *zap.Logger,
) *Service {
	return &Service{
		engine:   engine,
		payments: payments,
		receipts: receipts,
		logger:   logger,
	}
}

// BalanceStatement returns one row per reconciled line
func (s *Service) BalanceStatement(ctx context.Context, query Query) (*Report[StatementRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reporting", "balance_statement")
	defer span.End()

	query.normalize()
	result, err := s.engine.Reconcile(ctx, query.Scope, query.dateRange(), query.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rows := make([]StatementRow, 0, len(result.Lines))
	for i := range result.Lines {
		line := &result.Lines[i]
		status := StatusClosed
		if line.IsOpen() {
			status = StatusOpen
		}
		rows = append(rows, StatementRow{
			CustomerCode: line.CustomerCode,
			CustomerName: line.CustomerName,
			Date:         line.Date,
			Reference:    line.DisplayReference,
			Debit:        line.Debit,
			Credit:       line.Credit,
			Balance:      line.Balance(),
			Status:       status,
			Source:       string(line.SourceKind),
		})
	}

	totals := sumTotals(rows, func(r StatementRow) (decimal.Decimal, decimal.Decimal) { return r.Debit, r.Credit })
	sortRows(rows, query.OrderBy, query.OrderDir, statementRowLess)
	return &Report[StatementRow]{
		Rows:     paginate(rows, query.Page, query.PageSize),
		Totals:   totals,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// PaymentDetail returns one row per line, enriched with a presigned receipt
// download URL where the line traces back to a payment record with an
// attachment. Untraceable lines get a nil URL, never an error.
func (s *Service) PaymentDetail(ctx context.Context, query Query) (*Report[PaymentDetailRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reporting", "payment_detail")
	defer span.End()

	query.normalize()
	result, err := s.engine.Reconcile(ctx, query.Scope, query.dateRange(), query.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rows := make([]PaymentDetailRow, 0, len(result.Lines))
	for i := range result.Lines {
		line := &result.Lines[i]
		rows = append(rows, PaymentDetailRow{
			CustomerCode: line.CustomerCode,
			CustomerName: line.CustomerName,
			Date:         line.Date,
			Reference:    line.DisplayReference,
			Debit:        line.Debit,
			Credit:       line.Credit,
			Balance:      line.Balance(),
			Source:       string(line.SourceKind),
			ReceiptURL:   s.resolveReceiptURL(ctx, query.Scope.TenantID, line),
		})
	}

	totals := sumTotals(rows, func(r PaymentDetailRow) (decimal.Decimal, decimal.Decimal) { return r.Debit, r.Credit })
	sortRows(rows, query.OrderBy, query.OrderDir, paymentDetailRowLess)
	return &Report[PaymentDetailRow]{
		Rows:     paginate(rows, query.Page, query.PageSize),
		Totals:   totals,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// CustomerSummary groups all lines into one row per customer
func (s *Service) CustomerSummary(ctx context.Context, query Query) (*Report[CustomerSummaryRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reporting", "customer_summary")
	defer span.End()

	query.normalize()
	result, err := s.engine.Reconcile(ctx, query.Scope, query.dateRange(), query.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	// Group by customer id so inferred and ledger lines of one customer can
	// never split into two buckets, then label with code and name.
	buckets := make(map[uuid.UUID]*CustomerSummaryRow)
	order := make([]uuid.UUID, 0)
	for i := range result.Lines {
		line := &result.Lines[i]
		bucket, ok := buckets[line.CustomerID]
		if !ok {
			bucket = &CustomerSummaryRow{
				CustomerCode: line.CustomerCode,
				CustomerName: line.CustomerName,
				TotalDebit:   decimal.Zero,
				TotalCredit:  decimal.Zero,
			}
			buckets[line.CustomerID] = bucket
			order = append(order, line.CustomerID)
		}
		bucket.TotalDebit = bucket.TotalDebit.Add(line.Debit)
		bucket.TotalCredit = bucket.TotalCredit.Add(line.Credit)
	}

	rows := make([]CustomerSummaryRow, 0, len(buckets))
	for _, id := range order {
		bucket := buckets[id]
		bucket.Balance = bucket.TotalDebit.Sub(bucket.TotalCredit)
		rows = append(rows, *bucket)
	}

	totals := sumTotals(rows, func(r CustomerSummaryRow) (decimal.Decimal, decimal.Decimal) { return r.TotalDebit, r.TotalCredit })
	sortRows(rows, query.OrderBy, query.OrderDir, customerSummaryRowLess)
	return &Report[CustomerSummaryRow]{
		Rows:     paginate(rows, query.Page, query.PageSize),
		Totals:   totals,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// OpenReferences groups lines by display reference and keeps only references
// with a positive total and an outstanding balance. References tied to
// cancelled orders never show up here; payments can only be applied against
// what this view returns.
func (s *Service) OpenReferences(ctx context.Context, query Query) (*Report[OpenReferenceRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reporting", "open_references")
	defer span.End()

	query.normalize()
	result, err := s.engine.Reconcile(ctx, query.Scope, query.dateRange(), query.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	buckets := make(map[string]*OpenReferenceRow)
	order := make([]string, 0)
	for i := range result.Lines {
		line := &result.Lines[i]
		if line.DisplayReference == "" {
			continue
		}
		bucket, ok := buckets[line.DisplayReference]
		if !ok {
			bucket = &OpenReferenceRow{
				Reference:    line.DisplayReference,
				CustomerCode: line.CustomerCode,
				CustomerName: line.CustomerName,
				TotalDebit:   decimal.Zero,
				TotalCredit:  decimal.Zero,
			}
			buckets[line.DisplayReference] = bucket
			order = append(order, line.DisplayReference)
		}
		bucket.TotalDebit = bucket.TotalDebit.Add(line.Debit)
		bucket.TotalCredit = bucket.TotalCredit.Add(line.Credit)
		if bucket.OrderID == nil && line.RelatedOrderID != nil {
			bucket.OrderID = line.RelatedOrderID
		}
	}

	rows := make([]OpenReferenceRow, 0, len(buckets))
	for _, ref := range order {
		bucket := buckets[ref]
		bucket.Balance = bucket.TotalDebit.Sub(bucket.TotalCredit)
		if !bucket.TotalDebit.IsPositive() || !bucket.Balance.IsPositive() {
			continue
		}
		if bucket.OrderID != nil {
			if o, ok := result.Resolver.Order(*bucket.OrderID); ok && o.IsCancelled() {
				continue
			}
		}
		rows = append(rows, *bucket)
	}

	totals := sumTotals(rows, func(r OpenReferenceRow) (decimal.Decimal, decimal.Decimal) { return r.TotalDebit, r.TotalCredit })
	sortRows(rows, query.OrderBy, query.OrderDir, openReferenceRowLess)
	return &Report[OpenReferenceRow]{
		Rows:     paginate(rows, query.Page, query.PageSize),
		Totals:   totals,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// CancelledInvoices is the complement of the other four views: cancelled
// orders the customer had already paid against, with the matched credit sum.
// Cancelled orders that were never paid stay invisible here too.
func (s *Service) CancelledInvoices(ctx context.Context, query Query) (*Report[CancelledInvoiceRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reporting", "cancelled_invoices")
	defer span.End()

	query.normalize()
	result, err := s.engine.Reconcile(ctx, query.Scope, query.dateRange(), query.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rows := make([]CancelledInvoiceRow, 0, len(result.CancelledOrders))
	for i := range result.CancelledOrders {
		order := &result.CancelledOrders[i]
		paid := result.PaidAmount(order.ID)
		if !paid.IsPositive() {
			continue
		}
		row := CancelledInvoiceRow{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Reference:   result.Resolver.DisplayReference(order.ID),
			OrderedAt:   order.OrderedAt,
			OrderTotal:  order.GrandTotal,
			PaidAmount:  paid,
		}
		if c, ok := result.Customers[order.CustomerID]; ok {
			row.CustomerCode = c.Code
			row.CustomerName = c.Name
		}
		rows = append(rows, row)
	}

	totals := Totals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, TotalBalance: decimal.Zero}
	for i := range rows {
		totals.TotalDebit = totals.TotalDebit.Add(rows[i].OrderTotal)
		totals.TotalCredit = totals.TotalCredit.Add(rows[i].PaidAmount)
	}
	totals.TotalBalance = totals.TotalDebit.Sub(totals.TotalCredit)
	totals.TotalCount = int64(len(rows))

	sortRows(rows, query.OrderBy, query.OrderDir, cancelledInvoiceRowLess)
	return &Report[CancelledInvoiceRow]{
		Rows:     paginate(rows, query.Page, query.PageSize),
		Totals:   totals,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// resolveReceiptURL follows a line's application reference to a payment
// record and presigns its receipt attachment. Every miss along the way
// degrades to nil: legacy references are not required to be payment ids.
func (s *Service) resolveReceiptURL(ctx context.Context, tenantID uuid.UUID, line *reconciliation.Line) *string {
	if s.payments == nil || s.receipts == nil {
		return nil
	}
	if line.SourceKind != reconciliation.SourceLedger || line.ApplicationReference == "" {
		return nil
	}
	paymentID, err := uuid.Parse(line.ApplicationReference)
	if err != nil {
		return nil
	}
	payment, err := s.payments.FindByID(ctx, tenantID, paymentID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Receipt lookup failed",
				zap.String("payment_id", paymentID.String()),
				zap.Error(err))
		}
		return nil
	}
	if payment.ReceiptAttachmentKey == "" {
		return nil
	}
	url, err := s.receipts.PresignReceiptURL(ctx, payment.ReceiptAttachmentKey)
	if err != nil {
		s.logger.Warn("Receipt presign failed",
			zap.String("payment_id", paymentID.String()),
			zap.Error(err))
		return nil
	}
	return &url
}

func sumTotals[T any](rows []T, amounts func(T) (decimal.Decimal, decimal.Decimal)) Totals {
	totals := Totals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, row := range rows {
		debit, credit := amounts(row)
		totals.TotalDebit = totals.TotalDebit.Add(debit)
		totals.TotalCredit = totals.TotalCredit.Add(credit)
	}
	totals.TotalBalance = totals.TotalDebit.Sub(totals.TotalCredit)
	totals.TotalCount = int64(len(rows))
	return totals
}

// sortRows sorts in place with the view's field comparator, flipping for
// descending order. The comparators are strict-less functions; equal rows
// keep their merge order.
func sortRows[T any](rows []T, orderBy, orderDir string, less func(a, b T, field string) bool) {
	field := strings.ToLower(orderBy)
	sort.SliceStable(rows, func(i, j int) bool {
		if orderDir == "desc" {
			return less(rows[j], rows[i], field)
		}
		return less(rows[i], rows[j], field)
	})
}

func paginate[T any](rows []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func statementRowLess(a, b StatementRow, field string) bool {
	switch field {
	case "reference":
		return a.Reference < b.Reference
	case "customer":
		return a.CustomerCode < b.CustomerCode
	case "debit":
		return a.Debit.LessThan(b.Debit)
	case "credit":
		return a.Credit.LessThan(b.Credit)
	case "balance":
		return a.Balance.LessThan(b.Balance)
	default:
		return a.Date.Before(b.Date)
	}
}

func paymentDetailRowLess(a, b PaymentDetailRow, field string) bool {
	switch field {
	case "reference":
		return a.Reference < b.Reference
	case "customer":
		return a.CustomerCode < b.CustomerCode
	case "debit":
		return a.Debit.LessThan(b.Debit)
	case "credit":
		return a.Credit.LessThan(b.Credit)
	case "balance":
		return a.Balance.LessThan(b.Balance)
	default:
		return a.Date.Before(b.Date)
	}
}

func customerSummaryRowLess(a, b CustomerSummaryRow, field string) bool {
	switch field {
	case "debit":
		return a.TotalDebit.LessThan(b.TotalDebit)
	case "credit":
		return a.TotalCredit.LessThan(b.TotalCredit)
	case "balance":
		return a.Balance.LessThan(b.Balance)
	default:
		return a.CustomerCode < b.CustomerCode
	}
}

func openReferenceRowLess(a, b OpenReferenceRow, field string) bool {
	switch field {
	case "customer":
		return a.CustomerCode < b.CustomerCode
	case "debit":
		return a.TotalDebit.LessThan(b.TotalDebit)
	case "balance":
		return a.Balance.LessThan(b.Balance)
	default:
		return a.Reference < b.Reference
	}
}

func cancelledInvoiceRowLess(a, b CancelledInvoiceRow, field string) bool {
	switch field {
	case "reference":
		return a.Reference < b.Reference
	case "customer":
		return a.CustomerCode < b.CustomerCode
	case "paid":
		return a.PaidAmount.LessThan(b.PaidAmount)
	default:
		return a.OrderedAt.Before(b.OrderedAt)
	}
}
