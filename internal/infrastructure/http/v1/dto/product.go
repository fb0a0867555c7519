package dto

import (
	"stockpoint/internal/core/types"
	"stockpoint/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest for creating products.
// Quantity is absent on purpose: stock arrives through adjustments and
// purchase deliveries, never through catalog writes.
type CreateProductRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	SKU           string  `json:"sku" binding:"required"`
	Barcode       *string `json:"barcode"`
	MinQuantity   int64   `json:"minQuantity" binding:"min=0"`
	PurchasePrice int64   `json:"purchasePrice" binding:"min=0"`
	SellingPrice  int64   `json:"sellingPrice" binding:"min=0"`
	Description   *string `json:"description"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.SKU)
	p.Barcode = r.Barcode
	p.MinQuantity = r.MinQuantity
	p.PurchasePrice = types.MinorUnits(r.PurchasePrice)
	p.SellingPrice = types.MinorUnits(r.SellingPrice)
	p.Description = r.Description
	return p
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Code          *string `json:"code"`
	Name          *string `json:"name"`
	SKU           *string `json:"sku"`
	Barcode       *string `json:"barcode"`
	MinQuantity   *int64  `json:"minQuantity"`
	PurchasePrice *int64  `json:"purchasePrice"`
	SellingPrice  *int64  `json:"sellingPrice"`
	Description   *string `json:"description"`
	Version       int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields onto an existing product.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.Barcode != nil {
		p.Barcode = r.Barcode
	}
	if r.MinQuantity != nil {
		p.MinQuantity = *r.MinQuantity
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = types.MinorUnits(*r.PurchasePrice)
	}
	if r.SellingPrice != nil {
		p.SellingPrice = types.MinorUnits(*r.SellingPrice)
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	CatalogResponse
	SKU           string  `json:"sku"`
	Barcode       *string `json:"barcode,omitempty"`
	Quantity      int64   `json:"quantity"`
	MinQuantity   int64   `json:"minQuantity"`
	BelowMin      bool    `json:"belowMin"`
	PurchasePrice int64   `json:"purchasePrice"`
	SellingPrice  int64   `json:"sellingPrice"`
	Description   *string `json:"description,omitempty"`
}

// FromProduct creates response from domain product.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		SKU:             p.SKU,
		Barcode:         p.Barcode,
		Quantity:        p.Quantity,
		MinQuantity:     p.MinQuantity,
		BelowMin:        p.BelowMin(),
		PurchasePrice:   int64(p.PurchasePrice),
		SellingPrice:    int64(p.SellingPrice),
		Description:     p.Description,
	}
}
