package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DocumentSequenceModelSQLite is a SQLite-compatible version of DocumentSequenceModel for testing
type DocumentSequenceModelSQLite struct {
	ID        string `gorm:"primaryKey"`
	TenantID  string `gorm:"index;not null"`
	Prefix    string `gorm:"not null"`
	Next      int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentSequenceModelSQLite) TableName() string {
	return "document_sequences"
}

// DocumentNumberAssignmentModelSQLite is a SQLite-compatible version of
// DocumentNumberAssignmentModel for testing
type DocumentNumberAssignmentModelSQLite struct {
	ID        string `gorm:"primaryKey"`
	TenantID  string `gorm:"not null;uniqueIndex:idx_docnum_tenant_order,priority:1;uniqueIndex:idx_docnum_tenant_number,priority:1"`
	OrderID   string `gorm:"not null;uniqueIndex:idx_docnum_tenant_order,priority:2"`
	Number    string `gorm:"not null;uniqueIndex:idx_docnum_tenant_number,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentNumberAssignmentModelSQLite) TableName() string {
	return "document_number_assignments"
}

func setupRegistryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&DocumentSequenceModelSQLite{}, &DocumentNumberAssignmentModelSQLite{})
	require.NoError(t, err)

	return db
}

func seedSequence(t *testing.T, db *gorm.DB, tenantID uuid.UUID, prefix string, next int64) {
	err := db.Create(&DocumentSequenceModelSQLite{
		ID:       uuid.New().String(),
		TenantID: tenantID.String(),
		Prefix:   prefix,
		Next:     next,
	}).Error
	require.NoError(t, err)
}

func TestGormDocumentNumberRegistry_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("mints sequential numbers for different orders", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantID := uuid.New()
		seedSequence(t, db, tenantID, "BHPCIN26", 3000)

		first, err := registry.Allocate(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "BHPCIN26-3000", first)

		second, err := registry.Allocate(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "BHPCIN26-3001", second)

		var seq DocumentSequenceModelSQLite
		require.NoError(t, db.Where("tenant_id = ?", tenantID.String()).First(&seq).Error)
		assert.Equal(t, int64(3002), seq.Next)
	})

	t.Run("returns already exists for an order with an assignment", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantID := uuid.New()
		orderID := uuid.New()
		seedSequence(t, db, tenantID, "BHPCIN26", 3000)

		_, err := registry.Allocate(ctx, tenantID, orderID)
		require.NoError(t, err)

		_, err = registry.Allocate(ctx, tenantID, orderID)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		// the failed allocation must not burn a number
		var seq DocumentSequenceModelSQLite
		require.NoError(t, db.Where("tenant_id = ?", tenantID.String()).First(&seq).Error)
		assert.Equal(t, int64(3001), seq.Next)
	})

	t.Run("fails when no sequence is configured", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)

		_, err := registry.Allocate(ctx, uuid.New(), uuid.New())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SEQUENCE_NOT_CONFIGURED", domainErr.Code)
	})

	t.Run("sequences are isolated per tenant", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantA := uuid.New()
		tenantB := uuid.New()
		seedSequence(t, db, tenantA, "BHPCIN26", 3000)
		seedSequence(t, db, tenantB, "OTHER26", 100)

		numA, err := registry.Allocate(ctx, tenantA, uuid.New())
		require.NoError(t, err)
		numB, err := registry.Allocate(ctx, tenantB, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, "BHPCIN26-3000", numA)
		assert.Equal(t, "OTHER26-100", numB)
	})
}

func TestGormDocumentNumberRegistry_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("get assigned returns the minted number", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantID := uuid.New()
		orderID := uuid.New()
		seedSequence(t, db, tenantID, "BHPCIN26", 3000)

		minted, err := registry.Allocate(ctx, tenantID, orderID)
		require.NoError(t, err)

		got, err := registry.GetAssigned(ctx, tenantID, orderID)
		require.NoError(t, err)
		assert.Equal(t, minted, got)
	})

	t.Run("get assigned returns not found for an unassigned order", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)

		_, err := registry.GetAssigned(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by number returns the assignment", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantID := uuid.New()
		orderID := uuid.New()
		seedSequence(t, db, tenantID, "BHPCIN26", 3000)

		minted, err := registry.Allocate(ctx, tenantID, orderID)
		require.NoError(t, err)

		assignment, err := registry.FindByNumber(ctx, tenantID, minted)
		require.NoError(t, err)
		assert.Equal(t, orderID, assignment.OrderID)
		assert.Equal(t, minted, assignment.Number)
	})

	t.Run("find by number returns not found for a never minted number", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)

		_, err := registry.FindByNumber(ctx, uuid.New(), "BHPCIN26-9999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find for orders skips unassigned orders", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)
		tenantID := uuid.New()
		assigned := uuid.New()
		unassigned := uuid.New()
		seedSequence(t, db, tenantID, "BHPCIN26", 3000)

		minted, err := registry.Allocate(ctx, tenantID, assigned)
		require.NoError(t, err)

		found, err := registry.FindForOrders(ctx, tenantID, []uuid.UUID{assigned, unassigned})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, minted, found[assigned].Number)
	})

	t.Run("find for orders with no ids returns empty map", func(t *testing.T) {
		db := setupRegistryTestDB(t)
		registry := NewGormDocumentNumberRegistry(db)

		found, err := registry.FindForOrders(ctx, uuid.New(), nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
