package model

import "github.com/google/uuid"

// Variant is a named customization axis of a product (e.g. "Color").
// The name is unique within the owning product.
type Variant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_variant_product_name" json:"product_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_product_name" json:"name" validate:"required"`

	SubVariants []SubVariant `json:"sub_variants,omitempty"`
}

// SubVariant is one concrete value along a variant's axis (e.g. "Red").
// The option is unique within the owning variant.
type SubVariant struct {
	BaseModel
	VariantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_subvariant_variant_option" json:"variant_id"`
	Option    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subvariant_variant_option" json:"option" validate:"required"`

	Variant *Variant `json:"variant,omitempty"`
}
