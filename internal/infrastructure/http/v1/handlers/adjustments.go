package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/adjustments"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles HTTP requests for stock adjustments.
// Adjustments have no update or delete routes: mistakes are corrected by
// a counter-adjustment so the ledger trail stays complete.
type AdjustmentHandler struct {
	*BaseHandler
	service *adjustments.Service
}

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustments.Service) *AdjustmentHandler {
	return &AdjustmentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /adjustments
func (h *AdjustmentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	adj, err := h.service.Create(ctx, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromAdjustment(adj)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /adjustments/:id
func (h *AdjustmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	adj, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAdjustment(adj))
}

// List handles GET /adjustments
func (h *AdjustmentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := adjustments.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")

	if adjType := c.Query("type"); adjType != "" {
		t := adjustments.Type(adjType)
		filter.Type = &t
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.AdjustmentResponse, len(result.Items))
	for i, adj := range result.Items {
		items[i] = dto.FromAdjustment(adj)
	}

	c.JSON(http.StatusOK, dto.AdjustmentListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers adjustment routes.
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
}
