package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/orders"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles HTTP requests for sale and purchase orders.
//
// Creation and every status transition run atomically with their stock
// effect, so all mutating routes are idempotency-capable.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *orders.Service) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// CreateSale handles POST /orders/sales
func (h *OrderHandler) CreateSale(c *gin.Context) {
	h.create(c, orders.KindSale)
}

// CreatePurchase handles POST /orders/purchases
func (h *OrderHandler) CreatePurchase(c *gin.Context) {
	h.create(c, orders.KindPurchase)
}

func (h *OrderHandler) create(c *gin.Context, kind orders.Kind) {
	ctx := c.Request.Context()

	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	var order *orders.Order
	if kind == orders.KindSale {
		order, err = h.service.CreateSale(ctx, in)
	} else {
		order, err = h.service.CreatePurchase(ctx, in)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// CancelSale handles POST /orders/sales/:id/cancel
// Restores the sold quantities and writes reversal ledger entries.
func (h *OrderHandler) CancelSale(c *gin.Context) {
	h.transition(c, h.service.CancelSale)
}

// DeliverPurchase handles POST /orders/purchases/:id/deliver
// Receives the purchased quantities into stock.
func (h *OrderHandler) DeliverPurchase(c *gin.Context) {
	h.transition(c, h.service.DeliverPurchase)
}

// CancelPurchase handles POST /orders/purchases/:id/cancel
func (h *OrderHandler) CancelPurchase(c *gin.Context) {
	h.transition(c, h.service.CancelPurchase)
}

func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, orderID id.ID) (*orders.Order, error)) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := op(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromOrder(order)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := orders.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if kind := c.Query("kind"); kind != "" {
		k := orders.Kind(kind)
		filter.Kind = &k
	}

	if ps := c.Query("paymentStatus"); ps != "" {
		status := orders.PaymentStatus(ps)
		filter.PaymentStatus = &status
	}

	if fs := c.Query("status"); fs != "" {
		status := orders.FulfillmentStatus(fs)
		filter.Status = &status
	}

	if supplierID := c.Query("supplierId"); supplierID != "" {
		parsed, err := id.Parse(supplierID)
		if err == nil {
			filter.SupplierID = &parsed
		}
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

	items := make([]*dto.OrderResponse, len(result.Items))
	for i, order := range result.Items {
		items[i] = dto.FromOrder(order)
	}

	c.JSON(http.StatusOK, dto.OrderListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers order routes.
// Purchase transitions pass through purchaseGuard (manager tier and up).
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup, purchaseGuard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.POST("/sales", h.CreateSale)
	rg.POST("/sales/:id/cancel", h.CancelSale)

	rg.POST("/purchases", purchaseGuard, h.CreatePurchase)
	rg.POST("/purchases/:id/deliver", purchaseGuard, h.DeliverPurchase)
	rg.POST("/purchases/:id/cancel", purchaseGuard, h.CancelPurchase)
}
