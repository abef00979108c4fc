package repository

import (
	"go-variant-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SKURepository interface {
	Create(tx *gorm.DB, sku *model.ProductSKU) error
	CodeExists(tx *gorm.DB, code string) (bool, error)
	FindByIDAndProduct(skuID, productID uuid.UUID) (*model.ProductSKU, error)
	LockByIDAndProduct(tx *gorm.DB, skuID, productID uuid.UUID) (*model.ProductSKU, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error
	ReplaceSubVariants(tx *gorm.DB, sku *model.ProductSKU, subVariants []model.SubVariant) error
}

type skuRepo struct {
	db *gorm.DB
}

func NewSKURepo(db *gorm.DB) SKURepository {
	return &skuRepo{db}
}

func (r *skuRepo) Create(tx *gorm.DB, sku *model.ProductSKU) error {
	// Omit the association here; ReplaceSubVariants attaches the resolved
	// sub-variants explicitly.
	return tx.Omit("SubVariants").Create(sku).Error
}

// CodeExists runs inside the creating transaction so the collision scan and
// the insert observe the same snapshot.
func (r *skuRepo) CodeExists(tx *gorm.DB, code string) (bool, error) {
	var count int64
	err := tx.Model(&model.ProductSKU{}).Where("sku_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *skuRepo) FindByIDAndProduct(skuID, productID uuid.UUID) (*model.ProductSKU, error) {
	var sku model.ProductSKU
	err := r.db.First(&sku, "id = ? AND product_id = ?", skuID, productID).Error
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// LockByIDAndProduct re-reads the SKU under SELECT ... FOR UPDATE, blocking
// concurrent mutators of the same row until the enclosing tx completes.
func (r *skuRepo) LockByIDAndProduct(tx *gorm.DB, skuID, productID uuid.UUID) (*model.ProductSKU, error) {
	var sku model.ProductSKU
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sku, "id = ? AND product_id = ?", skuID, productID).Error
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.ProductSKU{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *skuRepo) ReplaceSubVariants(tx *gorm.DB, sku *model.ProductSKU, subVariants []model.SubVariant) error {
	return tx.Model(sku).Association("SubVariants").Replace(subVariants)
}
