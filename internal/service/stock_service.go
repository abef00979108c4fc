package service

import (
	"encoding/json"

	"go-variant-inventory/internal/apperr"
	"go-variant-inventory/internal/model"
	"go-variant-inventory/internal/repository"
	"go-variant-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockService interface {
	// Mutate adjusts a SKU's stock by quantity in the given direction and
	// appends a ledger row, returning the post-mutation stock level.
	Mutate(productID, skuID uuid.UUID, quantity decimal.Decimal, txType model.TransactionType, userID string) (decimal.Decimal, error)
	GetReport(filter repository.StockTransactionFilter) ([]model.StockTransactionResponse, error)
}

type stockService struct {
	skuRepo    repository.SKURepository
	ledgerRepo repository.StockTransactionRepository
	db         *gorm.DB
	wsHub      *ws.Hub
}

func NewStockService(
	skuRepo repository.SKURepository,
	ledgerRepo repository.StockTransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) StockService {
	return &stockService{
		skuRepo:    skuRepo,
		ledgerRepo: ledgerRepo,
		db:         db,
		wsHub:      hub,
	}
}

// settle re-validates sufficiency against the authoritative stock value and
// applies the signed delta. For OUT this is the second, decisive check; the
// optimistic pre-check outside the lock only fails fast.
func settle(stock, quantity decimal.Decimal, txType model.TransactionType) (decimal.Decimal, error) {
	if txType == model.TxOut && stock.LessThan(quantity) {
		return decimal.Zero, apperr.ErrInsufficientStock
	}
	return txType.Apply(stock, quantity), nil
}

func (s *stockService) Mutate(productID, skuID uuid.UUID, quantity decimal.Decimal, txType model.TransactionType, userID string) (decimal.Decimal, error) {
	if !txType.Valid() {
		return decimal.Zero, apperr.ErrMalformedInput
	}
	if !quantity.IsPositive() {
		return decimal.Zero, apperr.ErrInvalidQuantity
	}

	// Optimistic pre-check before any write: SKU must exist under this
	// product, and OUT must look satisfiable.
	sku, err := s.skuRepo.FindByIDAndProduct(skuID, productID)
	if err != nil {
		return decimal.Zero, apperr.FromStore(err)
	}
	if _, err := settle(sku.Stock, quantity, txType); err != nil {
		return decimal.Zero, err
	}

	var newStock decimal.Decimal
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Exclusive row lock: concurrent mutators of this SKU block here
		// until the unit commits or rolls back.
		locked, err := s.skuRepo.LockByIDAndProduct(tx, skuID, productID)
		if err != nil {
			return err
		}

		// Re-validate under the freshly locked value; the pre-check read
		// may be stale.
		newStock, err = settle(locked.Stock, quantity, txType)
		if err != nil {
			return err
		}

		if err := s.skuRepo.UpdateStock(tx, locked.ID, newStock); err != nil {
			return err
		}

		entry := &model.StockTransaction{
			ProductID:    productID,
			SKUID:        locked.ID,
			Type:         txType,
			Quantity:     quantity,
			CurrentStock: newStock,
		}
		entry.CreatedBy = userID
		entry.UpdatedBy = userID
		return s.ledgerRepo.CreateTx(tx, entry)
	})
	if err != nil {
		return decimal.Zero, apperr.FromStore(err)
	}

	s.broadcast(txType, sku.SKUCode, quantity, newStock)

	return newStock, nil
}

func (s *stockService) GetReport(filter repository.StockTransactionFilter) ([]model.StockTransactionResponse, error) {
	transactions, err := s.ledgerRepo.List(filter)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	responses := make([]model.StockTransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = transactions[i].ToResponse()
	}
	return responses, nil
}

func (s *stockService) broadcast(txType model.TransactionType, skuCode string, quantity, newStock decimal.Decimal) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(map[string]interface{}{
			"type":   "stock_update",
			"action": "transaction_created",
			"payload": map[string]interface{}{
				"sku_code":  skuCode,
				"direction": txType,
				"quantity":  quantity,
				"new_stock": newStock,
			},
		})
		s.wsHub.Broadcast <- msg
	}()
}
