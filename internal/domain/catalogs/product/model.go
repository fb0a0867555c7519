// Package product provides the Product catalog.
// Products are the items sold, purchased and counted by the stock engine.
package product

import (
	"context"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/types"
)

// Product represents a sellable stock item.
//
// Quantity is the single contended field of the whole system. It is mutated
// only by the stock service inside a transaction, never by handlers or
// catalog CRUD. Catalog updates must not write the quantity column.
type Product struct {
	entity.Catalog

	// SKU is the stock keeping unit (globally unique)
	SKU string `db:"sku" json:"sku"`

	// Barcode is the item barcode (EAN-13, etc., globally unique when set)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Quantity is the current quantity-on-hand (never negative)
	Quantity int64 `db:"quantity" json:"quantity"`

	// MinQuantity is the reorder threshold
	MinQuantity int64 `db:"min_quantity" json:"minQuantity"`

	// PurchasePrice is the default buying price in minor units
	PurchasePrice types.MinorUnits `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the default selling price in minor units
	SellingPrice types.MinorUnits `db:"selling_price" json:"sellingPrice"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, sku string) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
		SKU:     sku,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	// Base catalog validation
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	if p.MinQuantity < 0 {
		return apperror.NewValidation("minQuantity cannot be negative").
			WithDetail("field", "minQuantity")
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchasePrice cannot be negative").
			WithDetail("field", "purchasePrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("sellingPrice cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	return nil
}

// IsActive returns true when the product can appear in new orders.
// Soft-deleted products stay queryable for history but reject new lines.
func (p *Product) IsActive() bool {
	return !p.DeletionMark
}

// BelowMin reports whether quantity is at or under the reorder threshold.
func (p *Product) BelowMin() bool {
	return p.Quantity <= p.MinQuantity
}
