package service

import (
	"testing"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testVariants() []model.Variant {
	return []model.Variant{
		{
			Name: "Color",
			SubVariants: []model.SubVariant{
				{Option: "Red"},
				{Option: "Blue"},
			},
		},
		{
			Name: "Size",
			SubVariants: []model.SubVariant{
				{Option: "S"},
				{Option: "M"},
			},
		},
	}
}

func TestResolveOptions(t *testing.T) {
	subVariants, options, err := resolveOptions(testVariants(), []string{"Red", "S"})
	require.NoError(t, err)
	require.Len(t, subVariants, 2)
	require.Len(t, options, 2)

	assert.Equal(t, "Red", subVariants[0].Option)
	assert.Equal(t, "S", subVariants[1].Option)
	assert.Equal(t, VariantOption{VariantName: "Color", Option: "Red"}, options[0])
	assert.Equal(t, VariantOption{VariantName: "Size", Option: "S"}, options[1])
}

func TestResolveOptionsCaseInsensitive(t *testing.T) {
	subVariants, options, err := resolveOptions(testVariants(), []string{"red", "s"})
	require.NoError(t, err)
	require.Len(t, subVariants, 2)

	// Stored casing wins over the request's casing
	assert.Equal(t, "Red", subVariants[0].Option)
	assert.Equal(t, "S", options[1].Option)
}

func TestResolveOptionsUnknownOption(t *testing.T) {
	_, _, err := resolveOptions(testVariants(), []string{"Red", "XXL"})
	assert.ErrorIs(t, err, apperr.ErrOptionNotFound)
	assert.Contains(t, err.Error(), "XXL")
}

func TestResolveOptionsEmpty(t *testing.T) {
	subVariants, options, err := resolveOptions(testVariants(), nil)
	require.NoError(t, err)
	assert.Empty(t, subVariants)
	assert.Empty(t, options)
}

type stubProductRepo struct {
	byCode map[string]*model.Product
}

func (r *stubProductRepo) Create(_ *gorm.DB, product *model.Product) error { return nil }

func (r *stubProductRepo) FindAll(_ repository.ProductFilter) ([]model.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) FindByID(_ uuid.UUID) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByCode(code string) (*model.Product, error) {
	if p, ok := r.byCode[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindVariants(_ *gorm.DB, _ uuid.UUID) ([]model.Variant, error) {
	return nil, nil
}

func (r *stubProductRepo) NextProductID(_ *gorm.DB) (int64, error) { return 1, nil }

func (r *stubProductRepo) DeleteCascade(_ *gorm.DB, _ uuid.UUID) error { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func TestCreateProductDuplicateCodeRejected(t *testing.T) {
	productRepo := &stubProductRepo{
		byCode: map[string]*model.Product{"SHIRT": {Code: "SHIRT", Name: "Shirt"}},
	}
	svc := NewCatalogService(productRepo, nil, nil, nil, nil)

	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Shirt", Code: "SHIRT"}, "tester")
	assert.ErrorIs(t, err, apperr.ErrConstraintConflict)
	assert.Contains(t, err.Error(), "SHIRT")
}

func TestCreateProductValidationRejectsMissingCode(t *testing.T) {
	svc := NewCatalogService(&stubProductRepo{}, nil, nil, nil, nil)

	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Shirt"}, "tester")
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)
	assert.Contains(t, err.Error(), "Code")
}

func TestResolveOptionsFirstMatchWins(t *testing.T) {
	// "S" appears under two variants; the first variant scanned claims it
	variants := []model.Variant{
		{Name: "Fit", SubVariants: []model.SubVariant{{Option: "S"}}},
		{Name: "Size", SubVariants: []model.SubVariant{{Option: "S"}}},
	}
	_, options, err := resolveOptions(variants, []string{"S"})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Fit", options[0].VariantName)
}
