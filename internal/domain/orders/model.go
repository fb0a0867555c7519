// Package orders provides the generic order document (sales and purchases)
// and the transactional engine that creates, delivers and cancels orders
// together with their stock effects.
package orders

import (
	"context"
	"time"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/types"
)

// Kind discriminates the two order variants. The two kinds share one
// structure and one code path; the kind only decides stock direction and
// which money fields apply.
type Kind string

const (
	// KindSale decreases stock at creation
	KindSale Kind = "sale"
	// KindPurchase increases stock at delivery
	KindPurchase Kind = "purchase"
)

// StockDirection returns the sign applied to line quantities when the
// order's stock effect runs (-1 for sales, +1 for purchase deliveries).
func (k Kind) StockDirection() int64 {
	if k == KindSale {
		return -1
	}
	return 1
}

// PaymentStatus tracks money owed on an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// FulfillmentStatus tracks physical fulfillment of purchases.
// Sales have no fulfillment lifecycle: stock moves at creation.
type FulfillmentStatus string

const (
	StatusPending    FulfillmentStatus = "pending"
	StatusProcessing FulfillmentStatus = "processing"
	StatusDelivered  FulfillmentStatus = "delivered"
	StatusCancelled  FulfillmentStatus = "cancelled"
)

// Order represents a sale or purchase document.
//
// Orders are created atomically with their stock effect and become
// immutable after creation except for the status transition fields
// (payment status, fulfillment status, delivered date).
type Order struct {
	entity.Document

	// Kind is the order variant (sale | purchase)
	Kind Kind `db:"kind" json:"kind"`

	// CustomerName is a free-text customer reference (sales only)
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	// SupplierID references the supplier catalog (purchases only)
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Derived monetary fields, all in minor units
	SubTotal       types.MinorUnits `db:"sub_total" json:"subTotal"`
	TaxRate        types.TaxRate    `db:"tax_rate" json:"taxRate"`
	TaxAmount      types.MinorUnits `db:"tax_amount" json:"taxAmount"`
	DiscountAmount types.MinorUnits `db:"discount_amount" json:"discountAmount"`
	ShippingCost   types.MinorUnits `db:"shipping_cost" json:"shippingCost,omitempty"`
	TotalAmount    types.MinorUnits `db:"total_amount" json:"totalAmount"`
	PaidAmount     types.MinorUnits `db:"paid_amount" json:"paidAmount"`
	DueAmount      types.MinorUnits `db:"due_amount" json:"dueAmount"`
	ChangeAmount   types.MinorUnits `db:"change_amount" json:"changeAmount,omitempty"`

	// PaymentStatus tracks money owed
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	// Status is the fulfillment lifecycle (purchases only, empty for sales)
	Status FulfillmentStatus `db:"status" json:"status,omitempty"`

	// DeliveredAt is set on the first successful delivery
	DeliveredAt *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`

	// Table part: order lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one product line within an order.
// UnitPrice is frozen at validation time; LineTotal = Quantity * UnitPrice.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID            `db:"product_id" json:"productId"`
	SKU       string           `db:"sku" json:"sku"`
	Quantity  int64            `db:"quantity" json:"quantity"`
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`
	LineTotal types.MinorUnits `db:"line_total" json:"lineTotal"`
}

// NewOrder creates an order document of the given kind.
func NewOrder(kind Kind) *Order {
	o := &Order{
		Document:      entity.NewDocument(),
		Kind:          kind,
		PaymentStatus: PaymentPending,
		Lines:         make([]Line, 0),
	}
	if kind == KindPurchase {
		o.Status = StatusPending
	}
	return o
}

// Validate implements entity.Validatable.
// Line-level and stock checks happen in the Validator against the catalog;
// this covers only self-contained invariants.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if o.Kind != KindSale && o.Kind != KindPurchase {
		return apperror.NewValidation("invalid order kind").
			WithDetail("field", "kind").
			WithDetail("value", string(o.Kind))
	}

	if o.Kind == KindPurchase && (o.SupplierID == nil || id.IsNil(*o.SupplierID)) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if o.Kind == KindSale && o.SupplierID != nil {
		return apperror.NewValidation("supplier is not allowed on sales").
			WithDetail("field", "supplierId")
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	return nil
}

// IsCancelled reports whether the order has been cancelled.
func (o *Order) IsCancelled() bool {
	if o.Kind == KindPurchase {
		return o.Status == StatusCancelled
	}
	return o.PaymentStatus == PaymentCancelled
}

// CanCancelSale guards sale cancellation: any state except cancelled.
func (o *Order) CanCancelSale() error {
	if o.PaymentStatus == PaymentCancelled {
		return apperror.NewInvalidState("sale", string(o.PaymentStatus), "cancelled").
			WithDetail("order_id", o.ID.String())
	}
	return nil
}

// CanDeliver guards the purchase delivery transition.
// Only pending and processing purchases can receive stock.
func (o *Order) CanDeliver() error {
	if o.Status != StatusPending && o.Status != StatusProcessing {
		return apperror.NewInvalidState("purchase", string(o.Status), "delivered").
			WithDetail("order_id", o.ID.String())
	}
	return nil
}

// CanCancelPurchase guards purchase cancellation.
// Only pending purchases may cancel: no stock has been received yet.
func (o *Order) CanCancelPurchase() error {
	if o.Status != StatusPending {
		return apperror.NewInvalidState("purchase", string(o.Status), "cancelled").
			WithDetail("order_id", o.ID.String())
	}
	return nil
}

// MarkSaleCancelled records the sale reversal bookkeeping.
func (o *Order) MarkSaleCancelled() {
	o.PaymentStatus = PaymentCancelled
	o.Touch()
}

// MarkDelivered records the delivery transition.
func (o *Order) MarkDelivered() {
	o.Status = StatusDelivered
	if o.DeliveredAt == nil {
		now := time.Now().UTC()
		o.DeliveredAt = &now
	}
	o.Touch()
}

// MarkPurchaseCancelled records the purchase cancellation.
func (o *Order) MarkPurchaseCancelled() {
	o.Status = StatusCancelled
	o.PaymentStatus = PaymentCancelled
	o.Touch()
}

// ApplyTotals writes computed monetary fields onto the order.
func (o *Order) ApplyTotals(t Totals) {
	o.SubTotal = t.SubTotal
	o.TaxAmount = t.TaxAmount
	o.TotalAmount = t.TotalAmount
	o.DueAmount = t.DueAmount
	o.ChangeAmount = t.ChangeAmount
	o.PaymentStatus = t.PaymentStatus
}
