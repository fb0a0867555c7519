package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// Stock reports
	GetStockBalanceReport(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error)
	GetStockMovementReport(ctx context.Context, filter StockMovementFilter) (*StockMovementReport, error)

	// Sales
	GetSalesSummaryReport(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryReport, error)
}
