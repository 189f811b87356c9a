package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerTransactionModel is the persistence model for a posted ledger entry.
type CustomerTransactionModel struct {
	TenantModel
	CustomerID           uuid.UUID              `gorm:"type:uuid;not null;index:idx_tx_tenant_customer,priority:2"`
	TransactionDate      time.Time              `gorm:"not null;index"`
	DebitAmount          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CreditAmount         decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	ReferenceNumber      string                 `gorm:"type:varchar(100);index"`
	ApplicationReference string                 `gorm:"type:varchar(100)"`
	DocumentType         string                 `gorm:"type:varchar(50)"`
	TransactionType      ledger.TransactionType `gorm:"type:varchar(30);not null;index"`
}

// TableName returns the table name for GORM
func (CustomerTransactionModel) TableName() string {
	return "customer_transactions"
}

// ToDomain converts the persistence model to a domain CustomerTransaction
func (m *CustomerTransactionModel) ToDomain() *ledger.CustomerTransaction {
	return &ledger.CustomerTransaction{
		TenantEntity:         m.ToDomainTenantEntity(),
		CustomerID:           m.CustomerID,
		TransactionDate:      m.TransactionDate,
		DebitAmount:          m.DebitAmount,
		CreditAmount:         m.CreditAmount,
		ReferenceNumber:      m.ReferenceNumber,
		ApplicationReference: m.ApplicationReference,
		DocumentType:         m.DocumentType,
		TransactionType:      m.TransactionType,
	}
}

// FromDomain populates the model from a domain CustomerTransaction
func (m *CustomerTransactionModel) FromDomain(t *ledger.CustomerTransaction) {
	m.FromDomainTenantEntity(t.TenantEntity)
	m.CustomerID = t.CustomerID
	m.TransactionDate = t.TransactionDate
	m.DebitAmount = t.DebitAmount
	m.CreditAmount = t.CreditAmount
	m.ReferenceNumber = t.ReferenceNumber
	m.ApplicationReference = t.ApplicationReference
	m.DocumentType = t.DocumentType
	m.TransactionType = t.TransactionType
}
