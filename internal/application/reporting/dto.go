package reporting

import (
	"time"

	"github.com/backoffice/backend/internal/domain/reconciliation"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line status values shown on statement rows
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// Query scopes and shapes one report request. Sorting and pagination apply
// to the fully merged in-memory result; Page is 1-based.
type Query struct {
	Scope      shared.AccessScope
	From       *time.Time
	To         *time.Time
	CustomerID *uuid.UUID
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

func (q *Query) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 500 {
		q.PageSize = 500
	}
	if q.OrderDir != "asc" && q.OrderDir != "desc" {
		q.OrderDir = "asc"
	}
}

func (q *Query) dateRange() reconciliation.DateRange {
	return reconciliation.DateRange{From: q.From, To: q.To}
}

// Totals aggregates the whole filtered result set, not just the returned page
type Totals struct {
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalCount   int64           `json:"total_count"`
}

// Report is one page of projection rows plus whole-set totals
type Report[T any] struct {
	Rows     []T    `json:"rows"`
	Totals   Totals `json:"totals"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// StatementRow is one line of the balance statement
type StatementRow struct {
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	Date         time.Time       `json:"date"`
	Reference    string          `json:"reference"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
	Status       string          `json:"status"`
	Source       string          `json:"source"`
}

// PaymentDetailRow is one line of the payment detail report. ReceiptURL is a
// presigned download link for the payment's receipt attachment; nil when the
// line has no resolvable payment record or the record has no attachment.
type PaymentDetailRow struct {
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	Date         time.Time       `json:"date"`
	Reference    string          `json:"reference"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
	Source       string          `json:"source"`
	ReceiptURL   *string         `json:"receipt_url"`
}

// CustomerSummaryRow aggregates a customer's lines into one row
type CustomerSummaryRow struct {
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Balance      decimal.Decimal `json:"balance"`
}

// OpenReferenceRow is one payable reference with an outstanding balance
type OpenReferenceRow struct {
	Reference    string          `json:"reference"`
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Balance      decimal.Decimal `json:"balance"`
}

// CancelledInvoiceRow is a cancelled order the customer had paid against
type CancelledInvoiceRow struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Reference    string          `json:"reference"`
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	OrderedAt    time.Time       `json:"ordered_at"`
	OrderTotal   decimal.Decimal `json:"order_total"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
}
