package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSKU is one purchasable combination of a product's sub-variants,
// carrying its own stock count. The code is generated once at creation time
// and never changes afterwards.
type ProductSKU struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	SKUCode string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"sku_code"`
	Stock   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"stock"`

	// At most one sub-variant per distinct variant of the owning product.
	// Not enforced by the schema; the code generator assumes it.
	SubVariants []SubVariant `gorm:"many2many:sku_sub_variants;" json:"sub_variants,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (ProductSKU) TableName() string { return "product_skus" }

// OptionSummary renders the SKU's options as "Red, S", ordered by
// (variant name, option). Requires SubVariants.Variant preloaded.
func (s *ProductSKU) OptionSummary() string {
	subs := make([]SubVariant, len(s.SubVariants))
	copy(subs, s.SubVariants)
	sort.Slice(subs, func(i, j int) bool {
		var ni, nj string
		if subs[i].Variant != nil {
			ni = subs[i].Variant.Name
		}
		if subs[j].Variant != nil {
			nj = subs[j].Variant.Name
		}
		if ni != nj {
			return ni < nj
		}
		return subs[i].Option < subs[j].Option
	})
	options := make([]string, len(subs))
	for i, sv := range subs {
		options[i] = sv.Option
	}
	return strings.Join(options, ", ")
}
