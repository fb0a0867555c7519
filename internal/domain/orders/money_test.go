package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockpoint/internal/core/types"
)

func lines(totals ...types.MinorUnits) []Line {
	out := make([]Line, 0, len(totals))
	for i, lt := range totals {
		out = append(out, Line{LineNo: i + 1, Quantity: 1, UnitPrice: lt, LineTotal: lt})
	}
	return out
}

func TestComputeTotals_Sale(t *testing.T) {
	tests := []struct {
		name string
		ls   []Line
		ch   Charges
		want Totals
	}{
		{
			name: "unpaid with tax and discount",
			ls:   lines(10000),
			ch: Charges{
				TaxRate:        types.NewTaxRate(10),
				DiscountAmount: 500,
			},
			want: Totals{
				SubTotal:      10000,
				TaxAmount:     1000,
				TotalAmount:   10500,
				DueAmount:     10500,
				PaymentStatus: PaymentPending,
			},
		},
		{
			name: "exact payment",
			ls:   lines(10000),
			ch: Charges{
				TaxRate:        types.NewTaxRate(10),
				DiscountAmount: 500,
				PaidAmount:     10500,
			},
			want: Totals{
				SubTotal:      10000,
				TaxAmount:     1000,
				TotalAmount:   10500,
				DueAmount:     0,
				ChangeAmount:  0,
				PaymentStatus: PaymentPaid,
			},
		},
		{
			name: "partial payment",
			ls:   lines(10000),
			ch: Charges{
				TaxRate:        types.NewTaxRate(10),
				DiscountAmount: 500,
				PaidAmount:     5000,
			},
			want: Totals{
				SubTotal:      10000,
				TaxAmount:     1000,
				TotalAmount:   10500,
				DueAmount:     5500,
				PaymentStatus: PaymentPartial,
			},
		},
		{
			name: "overpayment returns change",
			ls:   lines(2500),
			ch:   Charges{PaidAmount: 3000},
			want: Totals{
				SubTotal:      2500,
				TotalAmount:   2500,
				DueAmount:     0,
				ChangeAmount:  500,
				PaymentStatus: PaymentPaid,
			},
		},
		{
			name: "multiple lines sum before tax",
			ls:   lines(1999, 2501, 5500),
			ch:   Charges{TaxRate: types.NewTaxRate(20)},
			want: Totals{
				SubTotal:      10000,
				TaxAmount:     2000,
				TotalAmount:   12000,
				DueAmount:     12000,
				PaymentStatus: PaymentPending,
			},
		},
		{
			name: "shipping ignored on sales",
			ls:   lines(10000),
			ch:   Charges{ShippingCost: 700},
			want: Totals{
				SubTotal:      10000,
				TotalAmount:   10000,
				DueAmount:     10000,
				PaymentStatus: PaymentPending,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(KindSale, tt.ls, tt.ch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotals_Purchase(t *testing.T) {
	got := ComputeTotals(KindPurchase, lines(20000), Charges{
		TaxRate:        types.NewTaxRate(10),
		DiscountAmount: 1000,
		ShippingCost:   1500,
		PaidAmount:     30000,
	})

	assert.Equal(t, types.MinorUnits(20000), got.SubTotal)
	assert.Equal(t, types.MinorUnits(2000), got.TaxAmount)
	// 20000 + 2000 + 1500 - 1000
	assert.Equal(t, types.MinorUnits(22500), got.TotalAmount)
	assert.Equal(t, types.MinorUnits(0), got.DueAmount)
	// Change is a point-of-sale concept; purchases never produce it
	assert.Equal(t, types.MinorUnits(0), got.ChangeAmount)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
}

func TestComputeTotals_TaxRounding(t *testing.T) {
	tests := []struct {
		name    string
		sub     types.MinorUnits
		rate    float64
		wantTax types.MinorUnits
	}{
		{"fractional rate rounds down", 999, 7.25, 72},   // 72.4275
		{"half rounds up", 1050, 5, 53},                  // 52.5
		{"whole result untouched", 10000, 8, 800},        // 800
		{"tiny amount", 1, 10, 0},                        // 0.1
		{"zero rate", 10000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types.ApplyRate(tt.sub, types.NewTaxRate(tt.rate))
			assert.Equal(t, tt.wantTax, got)
		})
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	ls := lines(3333, 6667)
	ch := Charges{TaxRate: types.NewTaxRate(7.25), DiscountAmount: 250, PaidAmount: 5000}

	first := ComputeTotals(KindSale, ls, ch)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputeTotals(KindSale, ls, ch))
	}
}
