package models

import (
	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/google/uuid"
)

// DocumentSequenceModel is the persistence model for a tenant's document
// number counter. One row per tenant; allocations lock the row.
type DocumentSequenceModel struct {
	TenantModel
	Prefix string `gorm:"type:varchar(30);not null"`
	Next   int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// ToDomain converts the persistence model to a domain DocumentSequence
func (m *DocumentSequenceModel) ToDomain() *numbering.DocumentSequence {
	return &numbering.DocumentSequence{
		TenantEntity: m.ToDomainTenantEntity(),
		Prefix:       m.Prefix,
		Next:         m.Next,
	}
}

// FromDomain populates the model from a domain DocumentSequence
func (m *DocumentSequenceModel) FromDomain(s *numbering.DocumentSequence) {
	m.FromDomainTenantEntity(s.TenantEntity)
	m.Prefix = s.Prefix
	m.Next = s.Next
}

// DocumentNumberAssignmentModel is the persistence model for a minted
// document number. The unique indexes guarantee at most one number per order
// and at most one order per number within a tenant.
type DocumentNumberAssignmentModel struct {
	TenantModel
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_docnum_tenant_order,priority:2"`
	Number  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_docnum_tenant_number,priority:2"`
}

// TableName returns the table name for GORM
func (DocumentNumberAssignmentModel) TableName() string {
	return "document_number_assignments"
}

// ToDomain converts the persistence model to a domain DocumentNumberAssignment
func (m *DocumentNumberAssignmentModel) ToDomain() *numbering.DocumentNumberAssignment {
	return &numbering.DocumentNumberAssignment{
		TenantEntity: m.ToDomainTenantEntity(),
		OrderID:      m.OrderID,
		Number:       m.Number,
	}
}

// FromDomain populates the model from a domain DocumentNumberAssignment
func (m *DocumentNumberAssignmentModel) FromDomain(a *numbering.DocumentNumberAssignment) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.OrderID = a.OrderID
	m.Number = a.Number
}
