package model

import (
	"github.com/shopspring/decimal"
)

// Product is the catalog root. Variants describe its customization axes,
// SKUs the purchasable combinations. Total stock is derived from the SKUs,
// never stored on the product itself.
type Product struct {
	BaseModel
	ProductID   int64  `gorm:"uniqueIndex;not null" json:"product_id"`
	Code        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"code" validate:"required"`
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	HSNCode     string `gorm:"type:varchar(255)" json:"hsn_code,omitempty"`
	Image       string `gorm:"type:varchar(512)" json:"image,omitempty"`
	IsFavourite bool   `gorm:"default:false" json:"is_favourite"`
	Active      bool   `gorm:"default:true" json:"active"`

	// User tracking (nullable: non-interactive callers carry no user)
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`

	// Relations
	Variants []Variant    `json:"variants,omitempty"`
	SKUs     []ProductSKU `json:"skus,omitempty"`
}

// TotalStock sums the stock of the loaded SKUs. Callers must have the SKUs
// preloaded; the value is computed on read and never persisted.
func (p *Product) TotalStock() decimal.Decimal {
	total := decimal.Zero
	for _, sku := range p.SKUs {
		total = total.Add(sku.Stock)
	}
	return total
}

// ProductResponse is the API shape of a product, including the derived
// total stock and the nested variant/SKU tree.
type ProductResponse struct {
	Product
	TotalStock decimal.Decimal `json:"total_stock"`
}

// ToResponse attaches the computed total stock.
func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		Product:    *p,
		TotalStock: p.TotalStock(),
	}
}
