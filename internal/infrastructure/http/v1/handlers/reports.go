package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain/reports"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetStockBalance handles GET /reports/stock-balance
func (h *ReportsHandler) GetStockBalance(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StockBalanceReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := reports.StockBalanceFilter{
		BelowMinOnly: req.BelowMinOnly,
		ExcludeZero:  req.ExcludeZero == nil || *req.ExcludeZero,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}

	for _, pStr := range req.ProductIDs {
		if pID, err := id.Parse(pStr); err == nil {
			filter.ProductIDs = append(filter.ProductIDs, pID)
		}
	}

	report, err := h.service.GetStockBalance(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStockMovement handles GET /reports/stock-movement
func (h *ReportsHandler) GetStockMovement(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StockMovementReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	fromDate, toDate, ok := h.parsePeriod(c, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	filter := reports.StockMovementFilter{
		FromDate:    fromDate,
		ToDate:      toDate,
		IncludeZero: req.IncludeZero,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}

	for _, pStr := range req.ProductIDs {
		if pID, err := id.Parse(pStr); err == nil {
			filter.ProductIDs = append(filter.ProductIDs, pID)
		}
	}

	report, err := h.service.GetStockMovement(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetSalesSummary handles GET /reports/sales-summary
func (h *ReportsHandler) GetSalesSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SalesSummaryReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	fromDate, toDate, ok := h.parsePeriod(c, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	report, err := h.service.GetSalesSummary(ctx, reports.SalesSummaryFilter{
		FromDate:         fromDate,
		ToDate:           toDate,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) parsePeriod(c *gin.Context, fromStr, toStr string) (time.Time, time.Time, bool) {
	fromDate, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromDate format, expected RFC3339"))
		return time.Time{}, time.Time{}, false
	}

	toDate, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toDate format, expected RFC3339"))
		return time.Time{}, time.Time{}, false
	}

	return fromDate, toDate, true
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock-balance", h.GetStockBalance)
	rg.GET("/stock-movement", h.GetStockMovement)
	rg.GET("/sales-summary", h.GetSalesSummary)
}
