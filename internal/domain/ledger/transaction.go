package ledger

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of posting a customer transaction records
type TransactionType string

const (
	// TransactionTypePayment represents money received from the customer
	TransactionTypePayment TransactionType = "PAYMENT"
	// TransactionTypeSalesInvoice represents an invoiced receivable
	TransactionTypeSalesInvoice TransactionType = "SALES_INVOICE"
	// TransactionTypeCreditNote represents a credit issued to the customer
	TransactionTypeCreditNote TransactionType = "CREDIT_NOTE"
	// TransactionTypeAdjustment represents a manual debit/credit correction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	// TransactionTypeOpeningBalance represents a migrated opening balance
	TransactionTypeOpeningBalance TransactionType = "OPENING_BALANCE"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePayment,
		TransactionTypeSalesInvoice,
		TransactionTypeCreditNote,
		TransactionTypeAdjustment,
		TransactionTypeOpeningBalance:
		return true
	}
	return false
}

// CustomerTransaction is one posted ledger entry for a customer.
// Entries are append-only: once created they are never mutated or deleted,
// corrections are posted as new entries.
//
// ReferenceNumber and ApplicationReference stay free text: legacy postings
// carry order ids, document numbers, raw order numbers, or nothing at all in
// them. Interpretation happens in the reconciliation package, not here.
type CustomerTransaction struct {
	shared.TenantEntity
	CustomerID           uuid.UUID
	TransactionDate      time.Time
	DebitAmount          decimal.Decimal // always >= 0
	CreditAmount         decimal.Decimal // always >= 0
	ReferenceNumber      string          // document/display reference, may be empty
	ApplicationReference string          // weak pointer to the originating document
	DocumentType         string
	TransactionType      TransactionType
}

// NewCustomerTransaction creates a new customer transaction posting
func NewCustomerTransaction(
	tenantID, customerID uuid.UUID,
	txType TransactionType,
	transactionDate time.Time,
	debit, credit decimal.Decimal,
) (*CustomerTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if debit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit amount cannot be negative")
	}
	if credit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount cannot be negative")
	}
	if debit.IsZero() && credit.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction must carry a debit or a credit")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	return &CustomerTransaction{
		TenantEntity:    shared.NewTenantEntity(tenantID),
		CustomerID:      customerID,
		TransactionType: txType,
		TransactionDate: transactionDate,
		DebitAmount:     debit,
		CreditAmount:    credit,
	}, nil
}

// WithReferenceNumber sets the document reference for the transaction
func (t *CustomerTransaction) WithReferenceNumber(reference string) *CustomerTransaction {
	t.ReferenceNumber = reference
	return t
}

// WithApplicationReference sets the weak source-document pointer
func (t *CustomerTransaction) WithApplicationReference(reference string) *CustomerTransaction {
	t.ApplicationReference = reference
	return t
}

// WithDocumentType sets the document type label
func (t *CustomerTransaction) WithDocumentType(documentType string) *CustomerTransaction {
	t.DocumentType = documentType
	return t
}

// Balance returns the entry's contribution to the customer balance,
// derived as debit minus credit. It is never stored.
func (t *CustomerTransaction) Balance() decimal.Decimal {
	return t.DebitAmount.Sub(t.CreditAmount)
}

// IsPostedReceivable reports whether this entry is a posted debit carrying a
// document reference. Such entries exclude their order from inferred lines
// during reconciliation.
func (t *CustomerTransaction) IsPostedReceivable() bool {
	return t.DebitAmount.IsPositive() && t.ReferenceNumber != ""
}
