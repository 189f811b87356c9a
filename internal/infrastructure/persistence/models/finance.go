package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRecordModel is the persistence model for a received payment.
type PaymentRecordModel struct {
	TenantModel
	CustomerID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount               decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Method               finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	ReceivedAt           time.Time             `gorm:"not null;index"`
	ReceiptAttachmentKey string                `gorm:"type:varchar(500)"`
	Remark               string                `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string {
	return "payment_records"
}

// ToDomain converts the persistence model to a domain PaymentRecord
func (m *PaymentRecordModel) ToDomain() *finance.PaymentRecord {
	return &finance.PaymentRecord{
		TenantEntity:         m.ToDomainTenantEntity(),
		CustomerID:           m.CustomerID,
		Amount:               m.Amount,
		Method:               m.Method,
		ReceivedAt:           m.ReceivedAt,
		ReceiptAttachmentKey: m.ReceiptAttachmentKey,
		Remark:               m.Remark,
	}
}

// FromDomain populates the model from a domain PaymentRecord
func (m *PaymentRecordModel) FromDomain(p *finance.PaymentRecord) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.CustomerID = p.CustomerID
	m.Amount = p.Amount
	m.Method = p.Method
	m.ReceivedAt = p.ReceivedAt
	m.ReceiptAttachmentKey = p.ReceiptAttachmentKey
	m.Remark = p.Remark
}
