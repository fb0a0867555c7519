package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpoint/internal/domain/catalogs/supplier"
	"stockpoint/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles HTTP requests for the supplier catalog.
type SupplierHandler struct {
	*CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	cfg := CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
		Service:    service.CatalogService,
		EntityName: "supplier",
		MapCreateDTO: func(req dto.CreateSupplierRequest) *supplier.Supplier {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *supplier.Supplier) any {
			return dto.FromSupplier(entity)
		},
	}

	return &SupplierHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}

// RegisterRoutes registers supplier routes. Writes pass through writeGuard.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup, writeGuard gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.POST("", writeGuard, h.Create)
	rg.PUT("/:id", writeGuard, h.Update)
	rg.DELETE("/:id", writeGuard, h.Delete)
	rg.POST("/:id/deletion-mark", writeGuard, h.SetDeletionMark)
}
