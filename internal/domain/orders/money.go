package orders

import (
	"stockpoint/internal/core/types"
)

// Charges are the payment-side inputs to total computation.
// All values must already be validated as non-negative; the calculator
// never clamps.
type Charges struct {
	// TaxRate is a percentage (10 means 10%)
	TaxRate types.TaxRate

	// DiscountAmount reduces the total
	DiscountAmount types.MinorUnits

	// ShippingCost increases purchase totals (ignored for sales)
	ShippingCost types.MinorUnits

	// PaidAmount is what the counterparty has paid so far
	PaidAmount types.MinorUnits
}

// Totals are the derived monetary fields of an order.
type Totals struct {
	SubTotal      types.MinorUnits
	TaxAmount     types.MinorUnits
	TotalAmount   types.MinorUnits
	DueAmount     types.MinorUnits
	ChangeAmount  types.MinorUnits
	PaymentStatus PaymentStatus
}

// ComputeTotals derives all monetary fields from validated lines and
// payment inputs. Pure and deterministic: no I/O, no clock, equal inputs
// produce equal outputs.
//
//	subTotal = sum(lineTotal)
//	taxAmount = round(subTotal * taxRate / 100)
//	total(sale)     = subTotal + tax - discount
//	total(purchase) = subTotal + tax + shipping - discount
//
// Payment classification:
//
//	paid >= total: due = 0, change = paid - total (sales only), status paid
//	paid > 0:      due = total - paid, status partial
//	otherwise:     due = total, status pending
func ComputeTotals(kind Kind, lines []Line, ch Charges) Totals {
	t := Totals{}

	for _, line := range lines {
		t.SubTotal += line.LineTotal
	}

	t.TaxAmount = types.ApplyRate(t.SubTotal, ch.TaxRate)

	t.TotalAmount = t.SubTotal + t.TaxAmount - ch.DiscountAmount
	if kind == KindPurchase {
		t.TotalAmount += ch.ShippingCost
	}

	switch {
	case ch.PaidAmount >= t.TotalAmount:
		t.DueAmount = 0
		if kind == KindSale {
			t.ChangeAmount = ch.PaidAmount - t.TotalAmount
		}
		t.PaymentStatus = PaymentPaid
	case ch.PaidAmount > 0:
		t.DueAmount = t.TotalAmount - ch.PaidAmount
		t.PaymentStatus = PaymentPartial
	default:
		t.DueAmount = t.TotalAmount
		t.PaymentStatus = PaymentPending
	}

	return t
}
