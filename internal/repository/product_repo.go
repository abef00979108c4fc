package repository

import (
	"go-variant-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows the product listing.
type ProductFilter struct {
	Name   string // case-insensitive substring
	Code   string // exact
	Active *bool
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	FindVariants(tx *gorm.DB, productID uuid.UUID) ([]model.Variant, error)
	NextProductID(tx *gorm.DB) (int64, error)
	DeleteCascade(tx *gorm.DB, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create accepts a tx so product creation participates in the composition
// transaction.
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	q := r.db.Model(&model.Product{}).
		Preload("Variants.SubVariants").
		Preload("SKUs.SubVariants.Variant").
		Preload("CreatedByUser")
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var products []model.Product
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Variants.SubVariants").
		Preload("SKUs.SubVariants.Variant").
		Preload("CreatedByUser").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariants loads the product's variants with sub-variants inside tx,
// for resolving option strings during composition.
func (r *productRepo) FindVariants(tx *gorm.DB, productID uuid.UUID) ([]model.Variant, error) {
	var variants []model.Variant
	err := tx.Preload("SubVariants").
		Where("product_id = ?", productID).
		Order("name ASC").
		Find(&variants).Error
	return variants, err
}

// NextProductID returns max(product_id)+1. Two concurrent creations can
// observe the same value; the unique index on product_id turns that race
// into a constraint conflict at commit instead of a silent double-assign.
func (r *productRepo) NextProductID(tx *gorm.DB) (int64, error) {
	var next int64
	err := tx.Model(&model.Product{}).
		Select("COALESCE(MAX(product_id), 0) + 1").
		Scan(&next).Error
	return next, err
}

// DeleteCascade removes a product and all dependents leaf-to-root inside
// the supplied transaction: ledger rows, SKU option links, SKUs,
// sub-variants, variants, then the product row itself.
func (r *productRepo) DeleteCascade(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.StockTransaction{}).Error; err != nil {
		return err
	}
	if err := tx.Exec(
		"DELETE FROM sku_sub_variants WHERE product_sku_id IN (SELECT id FROM product_skus WHERE product_id = ?)",
		id,
	).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.ProductSKU{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().
		Where("variant_id IN (?)", tx.Model(&model.Variant{}).Select("id").Where("product_id = ?", id)).
		Delete(&model.SubVariant{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.Variant{}).Error; err != nil {
		return err
	}
	result := tx.Unscoped().Delete(&model.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
