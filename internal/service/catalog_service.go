package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"
	"go-variant-inventory/internal/ws"
	"go-variant-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubVariantInput is one option value supplied for a variant.
type SubVariantInput struct {
	Option string `json:"option" validate:"required"`
}

// VariantInput is one customization axis with its option values.
type VariantInput struct {
	Name        string            `json:"name" validate:"required"`
	SubVariants []SubVariantInput `json:"sub_variants" validate:"dive"`
}

// SKUInput describes an initial SKU: a starting stock level and the option
// strings selecting one sub-variant per variant.
type SKUInput struct {
	Stock   decimal.Decimal `json:"stock"`
	Options []string        `json:"options"`
}

// CreateProductRequest is the nested product descriptor.
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required"`
	Code        string         `json:"code" validate:"required"`
	HSNCode     string         `json:"hsn_code"`
	Image       string         `json:"image"`
	IsFavourite bool           `json:"is_favourite"`
	Active      *bool          `json:"active"`
	Variants    []VariantInput `json:"variants" validate:"dive"`
	InitialSKUs []SKUInput     `json:"initial_skus" validate:"dive"`
}

type CatalogService interface {
	CreateProduct(req *CreateProductRequest, userID string) (*model.ProductResponse, error)
	GetProducts(filter repository.ProductFilter) ([]model.ProductResponse, error)
	GetProductByID(id uuid.UUID) (*model.ProductResponse, error)
	DeleteProduct(id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	skuRepo     repository.SKURepository
	ledgerRepo  repository.StockTransactionRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	skuRepo repository.SKURepository,
	ledgerRepo repository.StockTransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		skuRepo:     skuRepo,
		ledgerRepo:  ledgerRepo,
		db:          db,
		wsHub:       hub,
	}
}

// CreateProduct runs the whole composition inside one transaction: product
// row, variant tree, initial SKUs with generated codes, and one IN ledger
// row per SKU with positive starting stock. Any failure rolls the entire
// creation back.
func (s *catalogService) CreateProduct(req *CreateProductRequest, userID string) (*model.ProductResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on rule '%s'",
			apperr.ErrMalformedInput, firstErr.Field, firstErr.Rule)
	}

	// Fast duplicate check; the unique index on code still backstops
	// creations racing past this read.
	if existing, _ := s.productRepo.FindByCode(req.Code); existing != nil {
		return nil, fmt.Errorf("%w: product code %q already in use", apperr.ErrConstraintConflict, req.Code)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product := &model.Product{
		Code:        req.Code,
		Name:        req.Name,
		HSNCode:     req.HSNCode,
		Image:       req.Image,
		IsFavourite: req.IsFavourite,
		Active:      active,
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID
	if userID != "" && userID != "system" {
		product.CreatedByUserID = &userID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		nextID, err := s.productRepo.NextProductID(tx)
		if err != nil {
			return err
		}
		product.ProductID = nextID

		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}

		for _, variantInput := range req.Variants {
			variant := model.Variant{
				ProductID: product.ID,
				Name:      variantInput.Name,
			}
			variant.CreatedBy = userID
			variant.UpdatedBy = userID
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			for _, svInput := range variantInput.SubVariants {
				subVariant := model.SubVariant{
					VariantID: variant.ID,
					Option:    svInput.Option,
				}
				subVariant.CreatedBy = userID
				subVariant.UpdatedBy = userID
				if err := tx.Create(&subVariant).Error; err != nil {
					return err
				}
			}
		}

		// Reload the variant tree so option resolution sees what this
		// transaction just persisted.
		variants, err := s.productRepo.FindVariants(tx, product.ID)
		if err != nil {
			return err
		}

		for _, skuInput := range req.InitialSKUs {
			if skuInput.Stock.IsNegative() {
				return apperr.ErrInvalidQuantity
			}

			subVariants, options, err := resolveOptions(variants, skuInput.Options)
			if err != nil {
				return err
			}

			code, err := assignSKUCode(tx, s.skuRepo, product.Code, options)
			if err != nil {
				return err
			}

			sku := &model.ProductSKU{
				ProductID: product.ID,
				SKUCode:   code,
				Stock:     skuInput.Stock,
			}
			sku.CreatedBy = userID
			sku.UpdatedBy = userID
			if err := s.skuRepo.Create(tx, sku); err != nil {
				return err
			}
			if err := s.skuRepo.ReplaceSubVariants(tx, sku, subVariants); err != nil {
				return err
			}

			if skuInput.Stock.IsPositive() {
				entry := &model.StockTransaction{
					ProductID:    product.ID,
					SKUID:        sku.ID,
					Type:         model.TxIn,
					Quantity:     skuInput.Stock,
					CurrentStock: skuInput.Stock,
				}
				entry.CreatedBy = userID
				entry.UpdatedBy = userID
				if err := s.ledgerRepo.CreateTx(tx, entry); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	created, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	s.broadcast("product_created", map[string]interface{}{
		"id":          created.ID,
		"product_id":  created.ProductID,
		"code":        created.Code,
		"name":        created.Name,
		"total_stock": created.TotalStock(),
	})

	resp := created.ToResponse()
	return &resp, nil
}

// resolveOptions matches each supplied option string case-insensitively
// against the product's sub-variants. Variants are scanned in name order;
// the first match wins. An unresolved string fails the whole composition.
func resolveOptions(variants []model.Variant, options []string) ([]model.SubVariant, []VariantOption, error) {
	subVariants := make([]model.SubVariant, 0, len(options))
	variantOptions := make([]VariantOption, 0, len(options))

	for _, option := range options {
		found := false
		for _, variant := range variants {
			for _, sv := range variant.SubVariants {
				if strings.EqualFold(sv.Option, option) {
					subVariants = append(subVariants, sv)
					variantOptions = append(variantOptions, VariantOption{
						VariantName: variant.Name,
						Option:      sv.Option,
					})
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: %q", apperr.ErrOptionNotFound, option)
		}
	}

	return subVariants, variantOptions, nil
}

func (s *catalogService) GetProducts(filter repository.ProductFilter) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, nil
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.ProductResponse, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	resp := product.ToResponse()
	return &resp, nil
}

// DeleteProduct removes the product and all dependents leaf-to-root inside
// one transaction.
func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.DeleteCascade(tx, id)
	})
	return apperr.FromStore(err)
}

func (s *catalogService) broadcast(action string, payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"payload": payload,
		})
		s.wsHub.Broadcast <- msg
	}()
}
