package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentNumberRegistry implements numbering.Registry using GORM.
// Allocate holds a row lock on the tenant's sequence for the duration of the
// transaction, so concurrent allocations for different orders serialize and
// never mint the same number. Concurrent allocations for the same order are
// caught by the unique index on (tenant_id, order_id): the loser gets
// shared.ErrAlreadyExists and re-reads the winner's number.
type GormDocumentNumberRegistry struct {
	db *gorm.DB
}

// NewGormDocumentNumberRegistry creates a new GormDocumentNumberRegistry
func NewGormDocumentNumberRegistry(db *gorm.DB) *GormDocumentNumberRegistry {
	return &GormDocumentNumberRegistry{db: db}
}

// GetAssigned returns the number assigned to an order
func (r *GormDocumentNumberRegistry) GetAssigned(ctx context.Context, tenantID, orderID uuid.UUID) (string, error) {
	var model models.DocumentNumberAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Number, nil
}

// FindByNumber reverse-looks-up the assignment carrying a minted number
func (r *GormDocumentNumberRegistry) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*numbering.DocumentNumberAssignment, error) {
	var model models.DocumentNumberAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForOrders returns the assignments for the given orders, keyed by order id
func (r *GormDocumentNumberRegistry) FindForOrders(ctx context.Context, tenantID uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID]numbering.DocumentNumberAssignment, error) {
	result := make(map[uuid.UUID]numbering.DocumentNumberAssignment, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	var assignmentModels []models.DocumentNumberAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id IN ?", tenantID, orderIDs).
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}

	for _, model := range assignmentModels {
		result[model.OrderID] = *model.ToDomain()
	}
	return result, nil
}

// Allocate mints the next number from the tenant's sequence and persists the
// assignment. The sequence advance and the assignment insert commit together
// or not at all.
func (r *GormDocumentNumberRegistry) Allocate(ctx context.Context, tenantID, orderID uuid.UUID) (string, error) {
	var number string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq models.DocumentSequenceModel
		if err := lockForUpdate(tx).
			Where("tenant_id = ?", tenantID).
			First(&seq).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewDomainError("SEQUENCE_NOT_CONFIGURED", "No document sequence configured for tenant")
			}
			return err
		}

		number = seq.ToDomain().Format(seq.Next)

		assignment, err := numbering.NewDocumentNumberAssignment(tenantID, orderID, number)
		if err != nil {
			return err
		}

		var model models.DocumentNumberAssignmentModel
		model.FromDomain(assignment)
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		return tx.Model(&models.DocumentSequenceModel{}).
			Where("tenant_id = ? AND next = ?", tenantID, seq.Next).
			Update("next", seq.Next+1).Error
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// lockForUpdate adds a SELECT ... FOR UPDATE clause. SQLite rejects the
// syntax and serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isUniqueViolation reports whether err is a unique constraint violation.
// GORM only translates these when the dialector opts in, so the raw driver
// messages from postgres and sqlite are matched as well.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
