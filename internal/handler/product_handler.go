package handler

import (
	"fmt"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/repository"
	"go-variant-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

// CreateProduct handles the composition path: product + variant tree +
// initial SKUs in one atomic unit.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: %s", apperr.ErrMalformedInput, "invalid JSON"))
	}

	product, err := h.service.CreateProduct(&req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// GetProducts lists products with optional filters.
// GET /api/v1/products?name=&code=&active=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Name: c.Query("name"),
		Code: c.Query("code"),
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true" || activeStr == "1"
		filter.Active = &active
	}

	products, err := h.service.GetProducts(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GetProduct returns a single product with its variant/SKU tree.
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct removes a product and all its dependents.
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
