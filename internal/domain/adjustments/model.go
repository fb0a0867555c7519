// Package adjustments provides manual stock corrections.
// An adjustment raises or lowers product quantities outside of the order
// flow (stocktaking, damage, shrinkage) and leaves the same ledger trail.
package adjustments

import (
	"context"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
)

// Type is the adjustment direction.
type Type string

const (
	TypeIncrease Type = "increase"
	TypeDecrease Type = "decrease"
)

// Delta returns the signed quantity change for a line quantity.
func (t Type) Delta(quantity int64) int64 {
	if t == TypeDecrease {
		return -quantity
	}
	return quantity
}

// Adjustment represents one manual stock correction document.
// Adjustments are immutable once created; mistakes are corrected by a
// counter-adjustment, keeping the ledger trail complete.
type Adjustment struct {
	entity.Document

	// Type is the correction direction (increase | decrease)
	Type Type `db:"type" json:"type"`

	// Reason is a free-text justification, required
	Reason string `db:"reason" json:"reason"`

	// Table part: adjusted products
	Lines []Line `db:"-" json:"lines"`
}

// Line records one product correction with the quantities observed at
// apply time.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	SKU       string `db:"sku" json:"sku"`

	// Quantity is the unsigned correction amount (always positive)
	Quantity int64 `db:"quantity" json:"quantity"`

	// PreviousQty and NewQty snapshot the stock around the correction
	PreviousQty int64 `db:"previous_qty" json:"previousQty"`
	NewQty      int64 `db:"new_qty" json:"newQty"`
}

// NewAdjustment creates an adjustment document of the given type.
func NewAdjustment(adjType Type) *Adjustment {
	return &Adjustment{
		Document: entity.NewDocument(),
		Type:     adjType,
		Lines:    make([]Line, 0),
	}
}

// Validate implements entity.Validatable.
func (a *Adjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	if a.Type != TypeIncrease && a.Type != TypeDecrease {
		return apperror.NewValidation("invalid adjustment type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}

	if a.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	if len(a.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	return nil
}
