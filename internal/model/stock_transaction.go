package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger directions. The sign rule is
// attached to the type rather than compared at each call site.
type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Valid reports whether t is one of the two known directions.
func (t TransactionType) Valid() bool {
	return t == TxIn || t == TxOut
}

// Apply returns stock adjusted by qty in this direction: IN adds, OUT
// subtracts. Sufficiency of the balance is the caller's responsibility.
func (t TransactionType) Apply(stock, qty decimal.Decimal) decimal.Decimal {
	if t == TxOut {
		return stock.Sub(qty)
	}
	return stock.Add(qty)
}

// StockTransaction is one immutable ledger row. It is created only as a
// side effect of a stock mutation and is never updated or deleted through
// normal flow; CurrentStock records the SKU's balance immediately after
// this transaction was applied.
type StockTransaction struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	SKUID uuid.UUID   `gorm:"type:uuid;not null;index" json:"sku_id" validate:"uuid_required"`
	SKU   *ProductSKU `gorm:"foreignKey:SKUID" json:"sku,omitempty" validate:"-"`

	Type         TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"current_stock"`
}

// StockTransactionResponse is the report row shape: resolved product name,
// SKU code and option summary alongside the ledger fields.
type StockTransactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductName  string          `json:"product_name"`
	SKUCode      string          `json:"sku_code"`
	Options      string          `json:"options"`
	Type         TransactionType `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Date         time.Time       `json:"date"`
}

// ToResponse resolves the preloaded relations into the report shape.
func (t *StockTransaction) ToResponse() StockTransactionResponse {
	resp := StockTransactionResponse{
		ID:           t.ID,
		Type:         t.Type,
		Quantity:     t.Quantity,
		CurrentStock: t.CurrentStock,
		Date:         t.CreatedAt,
	}
	if t.Product != nil {
		resp.ProductName = t.Product.Name
	}
	if t.SKU != nil {
		resp.SKUCode = t.SKU.SKUCode
		resp.Options = t.SKU.OptionSummary()
	}
	return resp
}
