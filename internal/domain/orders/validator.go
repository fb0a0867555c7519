package orders

import (
	"context"
	"fmt"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/types"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/domain/catalogs/supplier"
)

// LineInput is a proposed order line before validation.
type LineInput struct {
	ProductID id.ID

	// Quantity must be positive
	Quantity int64

	// UnitPrice overrides the catalog price when set; nil freezes the
	// catalog price (selling price for sales, purchase price for purchases)
	UnitPrice *types.MinorUnits
}

// ProductReader is the catalog access the validator needs.
type ProductReader interface {
	GetByID(ctx context.Context, id id.ID) (*product.Product, error)
	GetForUpdate(ctx context.Context, id id.ID) (*product.Product, error)
}

// SupplierReader resolves purchase counterparties.
type SupplierReader interface {
	GetByID(ctx context.Context, id id.ID) (*supplier.Supplier, error)
}

// Validator checks proposed orders against the catalog and current stock.
//
// For sales it reads product rows FOR UPDATE, so the availability check and
// the later decrement see the same locked snapshot: two concurrent
// validations cannot both pass against stock only one of them can have.
// Must run inside the transaction that will perform the mutation.
type Validator struct {
	products  ProductReader
	suppliers SupplierReader
}

// NewValidator creates an order validator.
func NewValidator(products ProductReader, suppliers SupplierReader) *Validator {
	return &Validator{
		products:  products,
		suppliers: suppliers,
	}
}

// ValidateLines checks each proposed line and returns normalized lines with
// frozen unit prices and computed line totals. No side effects.
func (v *Validator) ValidateLines(ctx context.Context, kind Kind, inputs []LineInput) ([]Line, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	lines := make([]Line, 0, len(inputs))

	for i, in := range inputs {
		lineNo := i + 1

		if id.IsNil(in.ProductID) {
			return nil, apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", lineNo)
		}
		if in.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", lineNo)
		}
		if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
			return nil, apperror.NewValidation("unitPrice cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", lineNo)
		}

		p, err := v.readProduct(ctx, kind, in.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive() {
			return nil, apperror.NewNotFound("product", in.ProductID.String()).
				WithDetail("reason", "inactive")
		}

		if kind == KindSale && p.Quantity < in.Quantity {
			return nil, apperror.NewInsufficientStock(p.ID.String(), in.Quantity, p.Quantity)
		}

		unitPrice := v.freezePrice(kind, p, in.UnitPrice)

		lines = append(lines, Line{
			LineID:    id.New(),
			LineNo:    lineNo,
			ProductID: p.ID,
			SKU:       p.SKU,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
			LineTotal: types.MinorUnits(in.Quantity) * unitPrice,
		})
	}

	return lines, nil
}

// ValidateCharges rejects malformed payment inputs. Negative values fail
// closed instead of being clamped.
func (v *Validator) ValidateCharges(kind Kind, ch Charges) error {
	if ch.TaxRate.IsNegative() {
		return apperror.NewValidation("taxRate cannot be negative").
			WithDetail("field", "taxRate")
	}
	if ch.DiscountAmount.IsNegative() {
		return apperror.NewValidation("discountAmount cannot be negative").
			WithDetail("field", "discountAmount")
	}
	if ch.ShippingCost.IsNegative() {
		return apperror.NewValidation("shippingCost cannot be negative").
			WithDetail("field", "shippingCost")
	}
	if kind == KindSale && !ch.ShippingCost.IsZero() {
		return apperror.NewValidation("shippingCost is not allowed on sales").
			WithDetail("field", "shippingCost")
	}
	if ch.PaidAmount.IsNegative() {
		return apperror.NewValidation("paidAmount cannot be negative").
			WithDetail("field", "paidAmount")
	}
	return nil
}

// ValidateSupplier checks the purchase counterparty exists and is active.
func (v *Validator) ValidateSupplier(ctx context.Context, supplierID id.ID) error {
	sup, err := v.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if !sup.IsActive() {
		return apperror.NewNotFound("supplier", supplierID.String()).
			WithDetail("reason", "inactive")
	}
	return nil
}

// readProduct locks the row for sales so availability stays true until the
// surrounding transaction commits. Purchases only need existence.
func (v *Validator) readProduct(ctx context.Context, kind Kind, productID id.ID) (*product.Product, error) {
	if kind == KindSale {
		p, err := v.products.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", productID, err)
		}
		return p, nil
	}
	return v.products.GetByID(ctx, productID)
}

func (v *Validator) freezePrice(kind Kind, p *product.Product, override *types.MinorUnits) types.MinorUnits {
	if override != nil {
		return *override
	}
	if kind == KindPurchase {
		return p.PurchasePrice
	}
	return p.SellingPrice
}
