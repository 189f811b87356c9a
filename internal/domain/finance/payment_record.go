package finance

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodCard:
		return true
	}
	return false
}

// PaymentRecord is a received customer payment. When a payment is recorded the
// operator may attach a scanned receipt; ReceiptAttachmentKey points at that
// object in storage. The ledger posting created alongside the payment carries
// this record's id in its application reference, which is how the payment
// detail report finds the attachment again.
type PaymentRecord struct {
	shared.TenantEntity
	CustomerID           uuid.UUID
	Amount               decimal.Decimal
	Method               PaymentMethod
	ReceivedAt           time.Time
	ReceiptAttachmentKey string // object storage key, empty when no receipt was uploaded
	Remark               string
}

// NewPaymentRecord creates a new payment record
func NewPaymentRecord(
	tenantID, customerID uuid.UUID,
	amount decimal.Decimal,
	method PaymentMethod,
	receivedAt time.Time,
) (*PaymentRecord, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &PaymentRecord{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		Amount:       amount,
		Method:       method,
		ReceivedAt:   receivedAt,
	}, nil
}

// WithReceiptAttachment sets the storage key of the uploaded receipt
func (p *PaymentRecord) WithReceiptAttachment(key string) *PaymentRecord {
	p.ReceiptAttachmentKey = key
	return p
}

// WithRemark sets the remark
func (p *PaymentRecord) WithRemark(remark string) *PaymentRecord {
	p.Remark = remark
	return p
}

// PaymentRecordRepository defines the interface for payment record persistence
type PaymentRecordRepository interface {
	// FindByID finds a payment record by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentRecord, error)
}
