package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestLockByIDAndProductEmitsForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	skuID, productID := uuid.New(), uuid.New()

	// The expectation only matches a SELECT carrying the row-lock clause;
	// a plain read fails the test.
	mock.ExpectQuery(`SELECT \* FROM "product_skus" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "sku_code", "stock"}).
			AddRow(skuID.String(), productID.String(), "SHIRT-RED-S", "10"))

	repo := NewSKURepo(db)
	sku, err := repo.LockByIDAndProduct(db, skuID, productID)
	require.NoError(t, err)
	assert.Equal(t, "SHIRT-RED-S", sku.SKUCode)
	assert.True(t, sku.Stock.Equal(decimal.NewFromInt(10)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumBySKUSignedLedgerSum(t *testing.T) {
	db, mock := newMockDB(t)
	skuID := uuid.New()

	// IN adds, OUT subtracts: the aggregate must reproduce the running
	// stock from the ledger alone.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END\), 0\) FROM "stock_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("11"))

	repo := NewStockTransactionRepo(db)
	total, err := repo.SumBySKU(skuID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(11)))
	require.NoError(t, mock.ExpectationsWereMet())
}
