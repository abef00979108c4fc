package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"
	"go-variant-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogService struct {
	created    *model.ProductResponse
	createErr  error
	products   []model.ProductResponse
	listErr    error
	product    *model.ProductResponse
	getErr     error
	deleteErr  error
	lastFilter repository.ProductFilter
}

func (s *stubCatalogService) CreateProduct(req *service.CreateProductRequest, userID string) (*model.ProductResponse, error) {
	return s.created, s.createErr
}

func (s *stubCatalogService) GetProducts(filter repository.ProductFilter) ([]model.ProductResponse, error) {
	s.lastFilter = filter
	return s.products, s.listErr
}

func (s *stubCatalogService) GetProductByID(id uuid.UUID) (*model.ProductResponse, error) {
	return s.product, s.getErr
}

func (s *stubCatalogService) DeleteProduct(id uuid.UUID) error {
	return s.deleteErr
}

func newProductTestApp(svc *stubCatalogService) *fiber.App {
	app := fiber.New()
	h := NewProductHandler(svc)
	app.Post("/products", h.CreateProduct)
	app.Get("/products", h.GetProducts)
	app.Get("/products/:id", h.GetProduct)
	app.Delete("/products/:id", h.DeleteProduct)
	return app
}

func sampleProductResponse() *model.ProductResponse {
	p := model.Product{
		ProductID: 1,
		Code:      "SHIRT",
		Name:      "Shirt",
		Active:    true,
		SKUs: []model.ProductSKU{
			{SKUCode: "SHIRT-RED-S", Stock: decimal.NewFromInt(10)},
		},
	}
	resp := p.ToResponse()
	return &resp
}

func TestCreateProduct(t *testing.T) {
	svc := &stubCatalogService{created: sampleProductResponse()}
	app := newProductTestApp(svc)

	body := `{"name":"Shirt","code":"SHIRT","variants":[{"name":"Color","sub_variants":[{"option":"Red"}]}],"initial_skus":[{"stock":10,"options":["Red"]}]}`
	_, status, parsed := postJSON(app, "/products", body)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Product created", parsed["message"])

	data, ok := parsed["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SHIRT", data["code"])
	assert.Equal(t, "10", data["total_stock"])
}

func TestCreateProductDuplicateCode(t *testing.T) {
	svc := &stubCatalogService{createErr: apperr.ErrConstraintConflict}
	app := newProductTestApp(svc)

	_, status, _ := postJSON(app, "/products", `{"name":"Shirt","code":"SHIRT"}`)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestCreateProductValidationFailure(t *testing.T) {
	svc := &stubCatalogService{
		createErr: fmt.Errorf("%w: field 'CreateProductRequest.Code' failed on tag 'required'", apperr.ErrMalformedInput),
	}
	app := newProductTestApp(svc)

	_, status, parsed := postJSON(app, "/products", `{"name":"Shirt"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, parsed["error"], "Code")
}

func TestCreateProductUnknownOption(t *testing.T) {
	svc := &stubCatalogService{
		createErr: fmt.Errorf("%w: %q", apperr.ErrOptionNotFound, "XXL"),
	}
	app := newProductTestApp(svc)

	_, status, _ := postJSON(app, "/products", `{"name":"Shirt","code":"SHIRT"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateProductMalformedJSON(t *testing.T) {
	app := newProductTestApp(&stubCatalogService{})

	_, status, _ := postJSON(app, "/products", `{broken`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetProducts(t *testing.T) {
	svc := &stubCatalogService{products: []model.ProductResponse{*sampleProductResponse()}}
	app := newProductTestApp(svc)

	req := httptest.NewRequest("GET", "/products?name=shi&active=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "shi", svc.lastFilter.Name)
	require.NotNil(t, svc.lastFilter.Active)
	assert.True(t, *svc.lastFilter.Active)

	var products []model.ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "SHIRT", products[0].Code)
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalogService{getErr: apperr.ErrNotFound}
	app := newProductTestApp(svc)

	req := httptest.NewRequest("GET", "/products/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetProductInvalidID(t *testing.T) {
	app := newProductTestApp(&stubCatalogService{})

	req := httptest.NewRequest("GET", "/products/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	app := newProductTestApp(&stubCatalogService{})

	req := httptest.NewRequest("DELETE", "/products/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := &stubCatalogService{deleteErr: apperr.ErrNotFound}
	app := newProductTestApp(svc)

	req := httptest.NewRequest("DELETE", "/products/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
