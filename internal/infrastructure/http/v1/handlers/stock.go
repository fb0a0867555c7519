package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain/stock"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock balances and the ledger.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalances handles GET /stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.BalanceFilter{
		BelowMin:    c.Query("belowMin") == "true",
		ExcludeZero: c.Query("excludeZero") == "true",
	}

	for _, pStr := range c.QueryArray("productIds") {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productIds format"))
			return
		}
		filter.ProductIDs = append(filter.ProductIDs, parsed)
	}

	balances, err := h.service.GetBalances(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: items})
}

// GetHistory handles GET /stock/history/:productId
func (h *StockHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	filter := stock.HistoryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if cause := c.Query("cause"); cause != "" {
		parsed := entity.LedgerCause(cause)
		filter.Cause = &parsed
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}

	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	entries, err := h.service.GetHistory(ctx, productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.FromLedgerEntry(e)
	}

	c.JSON(http.StatusOK, dto.LedgerEntryListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// GetLedgerByReference handles GET /stock/ledger/:referenceId
// Returns the full ledger trail one document produced.
func (h *StockHandler) GetLedgerByReference(c *gin.Context) {
	ctx := c.Request.Context()

	referenceID, err := id.Parse(c.Param("referenceId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid referenceId format"))
		return
	}

	entries, err := h.service.GetEntriesByReference(ctx, referenceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.FromLedgerEntry(e)
	}

	c.JSON(http.StatusOK, dto.LedgerEntryListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances", h.GetBalances)
	rg.GET("/history/:productId", h.GetHistory)
	rg.GET("/ledger/:referenceId", h.GetLedgerByReference)
}
