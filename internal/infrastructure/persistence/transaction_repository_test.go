package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/backoffice/backend/internal/domain/ledger"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTransactionRepository creates a GormTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func TestGormTransactionRepository_FindByID(t *testing.T) {
	t.Run("finds existing transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		txID := uuid.New()
		tenantID := uuid.New()
		customerID := uuid.New()
		txDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "customer_id", "transaction_date", "debit_amount", "credit_amount", "reference_number", "transaction_type"}).
			AddRow(txID, tenantID, customerID, txDate, decimal.NewFromInt(150), decimal.Zero, "BHPCIN26-3000", "SALES_INVOICE")

		mock.ExpectQuery(`SELECT \* FROM "customer_transactions" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, txID, 1).
			WillReturnRows(rows)

		transaction, err := repo.FindByID(context.Background(), tenantID, txID)

		require.NoError(t, err)
		assert.Equal(t, txID, transaction.ID)
		assert.Equal(t, customerID, transaction.CustomerID)
		assert.Equal(t, "BHPCIN26-3000", transaction.ReferenceNumber)
		assert.Equal(t, ledger.TransactionTypeSalesInvoice, transaction.TransactionType)
		assert.True(t, transaction.DebitAmount.Equal(decimal.NewFromInt(150)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		txID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customer_transactions"`).
			WithArgs(tenantID, txID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), tenantID, txID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_FindAllForTenant(t *testing.T) {
	t.Run("filters by customer and date range", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		customerID := uuid.New()
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "customer_id", "transaction_date", "debit_amount", "credit_amount", "transaction_type"}).
			AddRow(uuid.New(), tenantID, customerID, from.AddDate(0, 0, 5), decimal.NewFromInt(100), decimal.Zero, "SALES_INVOICE").
			AddRow(uuid.New(), tenantID, customerID, from.AddDate(0, 0, 9), decimal.Zero, decimal.NewFromInt(40), "PAYMENT")

		mock.ExpectQuery(`SELECT \* FROM "customer_transactions" WHERE tenant_id = \$1 AND customer_id = \$2 AND transaction_date >= \$3 AND transaction_date <= \$4 ORDER BY transaction_date ASC, created_at ASC`).
			WithArgs(tenantID, customerID, from, to).
			WillReturnRows(rows)

		transactions, err := repo.FindAllForTenant(context.Background(), tenantID, ledger.TransactionFilter{
			CustomerID: &customerID,
			DateFrom:   &from,
			DateTo:     &to,
		})

		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, ledger.TransactionTypeSalesInvoice, transactions[0].TransactionType)
		assert.Equal(t, ledger.TransactionTypePayment, transactions[1].TransactionType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("queries all entries without filter", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customer_transactions" WHERE tenant_id = \$1 ORDER BY transaction_date ASC, created_at ASC`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		transactions, err := repo.FindAllForTenant(context.Background(), tenantID, ledger.TransactionFilter{})

		require.NoError(t, err)
		assert.Empty(t, transactions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_CountForTenant(t *testing.T) {
	t.Run("counts entries for tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customer_transactions" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountForTenant(context.Background(), tenantID, ledger.TransactionFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
