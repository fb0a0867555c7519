package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	cfg := CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
		service:        service,
	}
}

// FindBySKU handles GET /products/by-sku/:sku
func (h *ProductHandler) FindBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	sku := c.Param("sku")
	if sku == "" {
		h.Error(c, apperror.NewValidation("sku is required"))
		return
	}

	p, err := h.service.FindBySKU(ctx, sku)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}

// FindByBarcode handles GET /products/by-barcode/:barcode
func (h *ProductHandler) FindByBarcode(c *gin.Context) {
	ctx := c.Request.Context()

	barcode := c.Param("barcode")
	if barcode == "" {
		h.Error(c, apperror.NewValidation("barcode is required"))
		return
	}

	p, err := h.service.FindByBarcode(ctx, barcode)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 100)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "sku")

	result, err := h.service.FindLowStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromProduct(p)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Restore handles POST /products/:id/restore
func (h *ProductHandler) Restore(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Restore(ctx, productID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "product restored")
}

// RegisterRoutes registers product routes. Writes pass through writeGuard.
// Static paths go before the :id wildcards to keep gin routing unambiguous.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, writeGuard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/by-sku/:sku", h.FindBySKU)
	rg.GET("/by-barcode/:barcode", h.FindByBarcode)
	rg.GET("/:id", h.Get)

	rg.POST("", writeGuard, h.Create)
	rg.PUT("/:id", writeGuard, h.Update)
	rg.DELETE("/:id", writeGuard, h.Delete)
	rg.POST("/:id/deletion-mark", writeGuard, h.SetDeletionMark)
	rg.POST("/:id/restore", writeGuard, h.Restore)
}
