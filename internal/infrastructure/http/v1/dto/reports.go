package dto

// --- Request DTOs for reports ---
//
// Report responses are the domain report structures themselves: they are
// read-only aggregates with stable JSON tags, so no mapping layer is needed.

// StockBalanceReportRequest for GET /reports/stock-balance.
type StockBalanceReportRequest struct {
	ProductIDs   []string `form:"productIds"`
	BelowMinOnly bool     `form:"belowMinOnly"`
	ExcludeZero  *bool    `form:"excludeZero"`
	Limit        int      `form:"limit,default=100" binding:"min=0,max=1000"`
	Offset       int      `form:"offset" binding:"min=0"`
}

// StockMovementReportRequest for GET /reports/stock-movement.
// Dates are RFC3339; the period is required.
type StockMovementReportRequest struct {
	FromDate    string   `form:"fromDate" binding:"required"`
	ToDate      string   `form:"toDate" binding:"required"`
	ProductIDs  []string `form:"productIds"`
	IncludeZero bool     `form:"includeZero"`
	Limit       int      `form:"limit,default=100" binding:"min=0,max=1000"`
	Offset      int      `form:"offset" binding:"min=0"`
}

// SalesSummaryReportRequest for GET /reports/sales-summary.
type SalesSummaryReportRequest struct {
	FromDate         string `form:"fromDate" binding:"required"`
	ToDate           string `form:"toDate" binding:"required"`
	IncludeCancelled bool   `form:"includeCancelled"`
}
