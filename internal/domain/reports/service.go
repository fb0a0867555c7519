package reports

import (
	"context"
	"fmt"
	"time"

	"stockpoint/internal/core/apperror"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetStockBalance generates the stock balance report.
func (s *Service) GetStockBalance(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetStockBalanceReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock balance report: %w", err)
	}
	report.AsOfDate = time.Now().UTC()

	return report, nil
}

// GetStockMovement generates the movement report from the stock ledger.
func (s *Service) GetStockMovement(ctx context.Context, filter StockMovementFilter) (*StockMovementReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetStockMovementReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock movement report: %w", err)
	}

	return report, nil
}

// GetSalesSummary generates the per-day sales summary.
func (s *Service) GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}

	report, err := s.repo.GetSalesSummaryReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales summary report: %w", err)
	}

	return report, nil
}
