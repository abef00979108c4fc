package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"
	"go-variant-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// StockMutationRequest is the add/remove-stock payload. Quantity is kept as
// a raw JSON number so a missing or unparsable value maps to
// InvalidQuantity rather than a generic decode failure.
type StockMutationRequest struct {
	ProductID uuid.UUID   `json:"product_id"`
	SKUID     uuid.UUID   `json:"sku_id"`
	Quantity  json.Number `json:"quantity"`
}

func (h *StockHandler) mutate(c *fiber.Ctx, txType model.TransactionType) error {
	var req StockMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: %s", apperr.ErrMalformedInput, "invalid JSON"))
	}
	if req.ProductID == uuid.Nil || req.SKUID == uuid.Nil {
		return fail(c, fmt.Errorf("%w: %s", apperr.ErrMalformedInput, "product_id and sku_id are required"))
	}

	quantity, err := decimal.NewFromString(req.Quantity.String())
	if err != nil {
		return fail(c, apperr.ErrInvalidQuantity)
	}

	newStock, err := h.service.Mutate(req.ProductID, req.SKUID, quantity, txType, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Stock updated",
		"current_stock": newStock,
	})
}

// AddStock records an IN mutation (purchase).
// POST /api/v1/stock/add
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	return h.mutate(c, model.TxIn)
}

// RemoveStock records an OUT mutation (sale).
// POST /api/v1/stock/remove
func (h *StockHandler) RemoveStock(c *fiber.Ctx) error {
	return h.mutate(c, model.TxOut)
}

// GetReport lists ledger entries with optional filters.
// GET /api/v1/stock/report?from=&to=&product_id=&sku_id=&type=
func (h *StockHandler) GetReport(c *fiber.Ctx) error {
	var filter repository.StockTransactionFilter

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := parseReportTime(fromStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'from' date"})
		}
		filter.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := parseReportTime(toStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'to' date"})
		}
		filter.To = &to
	}
	if productStr := c.Query("product_id"); productStr != "" {
		productID, err := uuid.Parse(productStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product_id"})
		}
		filter.ProductID = &productID
	}
	if skuStr := c.Query("sku_id"); skuStr != "" {
		skuID, err := uuid.Parse(skuStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid sku_id"})
		}
		filter.SKUID = &skuID
	}
	if typeStr := c.Query("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		if !txType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction type, use IN or OUT"})
		}
		filter.Type = txType
	}

	report, err := h.service.GetReport(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// parseReportTime accepts RFC3339 or a bare date.
func parseReportTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
