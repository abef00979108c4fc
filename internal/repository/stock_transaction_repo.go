package repository

import (
	"time"

	"go-variant-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTransactionFilter narrows the ledger report.
type StockTransactionFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID *uuid.UUID
	SKUID     *uuid.UUID
	Type      model.TransactionType
}

// StockMovementData aggregates ledger quantities per day for chart data.
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

// DashboardStats holds the overview counters.
type DashboardStats struct {
	TotalProducts int64           `json:"total_products"`
	TotalSKUs     int64           `json:"total_skus"`
	LowStockCount int64           `json:"low_stock_count"`
	TotalStock    decimal.Decimal `json:"total_stock"`
}

type StockTransactionRepository interface {
	CreateTx(tx *gorm.DB, t *model.StockTransaction) error
	List(filter StockTransactionFilter) ([]model.StockTransaction, error)
	SumBySKU(skuID uuid.UUID) (decimal.Decimal, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type stockTransactionRepo struct {
	db *gorm.DB
}

func NewStockTransactionRepo(db *gorm.DB) StockTransactionRepository {
	return &stockTransactionRepo{db}
}

// CreateTx appends a ledger row inside the mutation transaction. The ledger
// is append-only: no Update or Delete methods exist on this repository.
func (r *stockTransactionRepo) CreateTx(tx *gorm.DB, t *model.StockTransaction) error {
	return tx.Create(t).Error
}

func (r *stockTransactionRepo) List(filter StockTransactionFilter) ([]model.StockTransaction, error) {
	q := r.db.Model(&model.StockTransaction{}).
		Preload("Product").
		Preload("SKU.SubVariants.Variant")
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.SKUID != nil {
		q = q.Where("sku_id = ?", *filter.SKUID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var transactions []model.StockTransaction
	err := q.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// SumBySKU returns the running signed sum of the SKU's ledger. By the core
// invariant this must equal the SKU's current stock.
func (r *stockTransactionRepo) SumBySKU(skuID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.StockTransaction{}).
		Where("sku_id = ?", skuID).
		Select("COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockTransactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockTransaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *stockTransactionRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.ProductSKU{}).Count(&stats.TotalSKUs)

	// Low stock threshold: below 10 units
	r.db.Model(&model.ProductSKU{}).Where("stock < ?", 10).Count(&stats.LowStockCount)

	r.db.Model(&model.ProductSKU{}).Select("COALESCE(SUM(stock), 0)").Scan(&stats.TotalStock)

	return &stats, nil
}
