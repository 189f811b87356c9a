package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceKind tells where a reconciled line came from
type SourceKind string

const (
	// SourceLedger marks a line backed by a posted ledger entry
	SourceLedger SourceKind = "LEDGER"
	// SourceInferredFromOrder marks a line synthesized from an order that
	// has no posted ledger entry yet
	SourceInferredFromOrder SourceKind = "INFERRED_FROM_ORDER"
)

// Line is the engine's unit of output: one receivable/payment row in the
// merged customer statement. Lines are derived fresh on every query and are
// never persisted or cached.
type Line struct {
	CustomerID       uuid.UUID
	CustomerCode     string
	CustomerName     string
	Date             time.Time
	DisplayReference string
	Debit            decimal.Decimal
	Credit           decimal.Decimal
	SourceKind       SourceKind
	RelatedOrderID   *uuid.UUID
	Reference        ResolvedReference

	// ApplicationReference is the raw free-text source pointer carried over
	// from the ledger entry, kept for lookups the resolver does not cover
	// (payment receipt resolution). Empty for inferred lines.
	ApplicationReference string
}

// Balance returns the line's net contribution, debit minus credit
func (l *Line) Balance() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// IsOpen reports whether the line still carries an outstanding amount
func (l *Line) IsOpen() bool {
	return !l.Balance().IsZero()
}
