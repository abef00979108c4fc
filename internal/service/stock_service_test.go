package service

import (
	"testing"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSettleInAddsStock(t *testing.T) {
	newStock, err := settle(decimal.NewFromInt(10), decimal.NewFromInt(5), model.TxIn)
	require.NoError(t, err)
	assert.True(t, newStock.Equal(decimal.NewFromInt(15)))
}

func TestSettleOutSubtractsStock(t *testing.T) {
	newStock, err := settle(decimal.NewFromInt(10), decimal.NewFromInt(4), model.TxOut)
	require.NoError(t, err)
	assert.True(t, newStock.Equal(decimal.NewFromInt(6)))
}

func TestSettleOutInsufficientStock(t *testing.T) {
	_, err := settle(decimal.NewFromInt(3), decimal.NewFromInt(20), model.TxOut)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestSettleOutExactStockAllowed(t *testing.T) {
	// Draining to exactly zero is a legal removal
	newStock, err := settle(decimal.NewFromInt(7), decimal.NewFromInt(7), model.TxOut)
	require.NoError(t, err)
	assert.True(t, newStock.IsZero())
}

func TestSettleDecimalQuantities(t *testing.T) {
	newStock, err := settle(decimal.NewFromFloat(2.75), decimal.NewFromFloat(1.25), model.TxOut)
	require.NoError(t, err)
	assert.True(t, newStock.Equal(decimal.NewFromFloat(1.5)))
}

func TestSettleSequence(t *testing.T) {
	// 10 → OUT 4 → 6 → IN 5 → 11 → OUT 20 rejected, stock untouched
	stock := decimal.NewFromInt(10)

	stock, err := settle(stock, decimal.NewFromInt(4), model.TxOut)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(6)))

	stock, err = settle(stock, decimal.NewFromInt(5), model.TxIn)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(11)))

	_, err = settle(stock, decimal.NewFromInt(20), model.TxOut)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.True(t, stock.Equal(decimal.NewFromInt(11)))
}

// ── Mutate over a mocked connection ──────────────────────────────────────────

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

func newMockStockService(db *gorm.DB) StockService {
	return NewStockService(
		repository.NewSKURepo(db),
		repository.NewStockTransactionRepo(db),
		db,
		nil,
	)
}

func skuRows(skuID, productID uuid.UUID, stock string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "product_id", "sku_code", "stock"}).
		AddRow(skuID.String(), productID.String(), "SHIRT-RED-S", stock)
}

func TestMutateOutLocksRowAndAppendsLedger(t *testing.T) {
	db, mock := newMockDB(t)
	skuID, productID := uuid.New(), uuid.New()

	// Pre-check read outside the transaction
	mock.ExpectQuery(`SELECT \* FROM "product_skus"`).
		WillReturnRows(skuRows(skuID, productID, "10"))
	// Transactional unit: locked re-read, stock write, ledger append
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "product_skus" WHERE .* FOR UPDATE`).
		WillReturnRows(skuRows(skuID, productID, "10"))
	mock.ExpectExec(`UPDATE "product_skus" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "stock_transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := newMockStockService(db)
	newStock, err := svc.Mutate(productID, skuID, decimal.NewFromInt(4), model.TxOut, "tester")
	require.NoError(t, err)
	assert.True(t, newStock.Equal(decimal.NewFromInt(6)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutateInsufficientUnderLockRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	skuID, productID := uuid.New(), uuid.New()

	// The pre-check sees enough stock, but the locked re-read does not:
	// the unit must roll back with no stock write and no ledger row.
	mock.ExpectQuery(`SELECT \* FROM "product_skus"`).
		WillReturnRows(skuRows(skuID, productID, "10"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "product_skus" WHERE .* FOR UPDATE`).
		WillReturnRows(skuRows(skuID, productID, "3"))
	mock.ExpectRollback()

	svc := newMockStockService(db)
	_, err := svc.Mutate(productID, skuID, decimal.NewFromInt(4), model.TxOut, "tester")
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutateMissingSKUClassifiedNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "product_skus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := newMockStockService(db)
	_, err := svc.Mutate(uuid.New(), uuid.New(), decimal.NewFromInt(1), model.TxIn, "tester")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
