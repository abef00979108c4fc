package service

import (
	"time"

	"go-variant-inventory/internal/repository"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	ledgerRepo repository.StockTransactionRepository
}

func NewDashboardService(ledgerRepo repository.StockTransactionRepository) DashboardService {
	return &dashboardService{ledgerRepo: ledgerRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.ledgerRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.ledgerRepo.GetDashboardStats()
}
