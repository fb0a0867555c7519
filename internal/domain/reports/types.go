// Package reports provides read-only reporting over stock and orders.
package reports

import (
	"time"

	"stockpoint/internal/core/id"
	"stockpoint/internal/core/types"
)

// --- Stock Balance Report ---

// StockBalanceFilter defines filter for the stock balance report.
type StockBalanceFilter struct {
	ProductIDs []id.ID

	// BelowMinOnly keeps only rows at or under the reorder threshold
	BelowMinOnly bool

	// ExcludeZero drops rows with zero quantity
	ExcludeZero bool

	// Pagination
	Limit  int
	Offset int
}

// StockBalanceItem is a single row in the stock balance report.
type StockBalanceItem struct {
	ProductID   id.ID  `json:"productId"`
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	MinQuantity int64  `json:"minQuantity"`
	BelowMin    bool   `json:"belowMin"`

	// StockValue = quantity * purchase price, in minor units
	StockValue types.MinorUnits `json:"stockValue"`
}

// StockBalanceReport is the full stock balance report.
type StockBalanceReport struct {
	AsOfDate   time.Time          `json:"asOfDate"`
	Items      []StockBalanceItem `json:"items"`
	TotalItems int                `json:"totalItems"`

	TotalQuantity int64            `json:"totalQuantity"`
	TotalValue    types.MinorUnits `json:"totalValue"`
}

// --- Stock Movement Report ---

// StockMovementFilter defines filter for the movement (turnover) report,
// aggregated from the stock ledger.
type StockMovementFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	ProductIDs []id.ID

	// IncludeZero keeps products without movements in the period
	IncludeZero bool

	// Pagination
	Limit  int
	Offset int
}

// StockMovementItem is a single row in the movement report.
// Receipts and expenses are absolute quantities; closing = opening +
// receipt - expense always holds.
type StockMovementItem struct {
	ProductID   id.ID  `json:"productId"`
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`

	OpeningBalance int64 `json:"openingBalance"`
	Receipt        int64 `json:"receipt"`
	Expense        int64 `json:"expense"`
	ClosingBalance int64 `json:"closingBalance"`
}

// StockMovementReport is the full movement report.
type StockMovementReport struct {
	FromDate   time.Time           `json:"fromDate"`
	ToDate     time.Time           `json:"toDate"`
	Items      []StockMovementItem `json:"items"`
	TotalItems int                 `json:"totalItems"`

	TotalReceipt int64 `json:"totalReceipt"`
	TotalExpense int64 `json:"totalExpense"`
}

// --- Sales Summary ---

// SalesSummaryFilter defines filter for the sales summary report.
type SalesSummaryFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	// IncludeCancelled counts cancelled sales in a separate column
	IncludeCancelled bool
}

// SalesSummaryDay aggregates one day of sales.
type SalesSummaryDay struct {
	Date       time.Time        `json:"date"`
	OrderCount int              `json:"orderCount"`
	ItemsSold  int64            `json:"itemsSold"`
	GrossSales types.MinorUnits `json:"grossSales"`
	TaxTotal   types.MinorUnits `json:"taxTotal"`
	Discounts  types.MinorUnits `json:"discounts"`
	NetSales   types.MinorUnits `json:"netSales"`

	CancelledCount int `json:"cancelledCount,omitempty"`
}

// SalesSummaryReport is the full sales summary.
type SalesSummaryReport struct {
	FromDate time.Time         `json:"fromDate"`
	ToDate   time.Time         `json:"toDate"`
	Days     []SalesSummaryDay `json:"days"`

	TotalOrders int              `json:"totalOrders"`
	TotalNet    types.MinorUnits `json:"totalNet"`
}
