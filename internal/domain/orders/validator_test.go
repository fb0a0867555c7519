package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/types"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/domain/catalogs/supplier"
)

// In-memory fakes

type fakeProducts struct {
	byID    map[id.ID]*product.Product
	locked  []id.ID // products read with GetForUpdate, in call order
}

func newFakeProducts(products ...*product.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[id.ID]*product.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetByID(_ context.Context, pid id.ID) (*product.Product, error) {
	p, ok := f.byID[pid]
	if !ok {
		return nil, apperror.NewNotFound("product", pid.String())
	}
	return p, nil
}

func (f *fakeProducts) GetForUpdate(ctx context.Context, pid id.ID) (*product.Product, error) {
	f.locked = append(f.locked, pid)
	return f.GetByID(ctx, pid)
}

type fakeSuppliers struct {
	byID map[id.ID]*supplier.Supplier
}

func newFakeSuppliers(suppliers ...*supplier.Supplier) *fakeSuppliers {
	f := &fakeSuppliers{byID: make(map[id.ID]*supplier.Supplier)}
	for _, s := range suppliers {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSuppliers) GetByID(_ context.Context, sid id.ID) (*supplier.Supplier, error) {
	s, ok := f.byID[sid]
	if !ok {
		return nil, apperror.NewNotFound("supplier", sid.String())
	}
	return s, nil
}

func testProduct(sku string, qty int64, selling, purchase types.MinorUnits) *product.Product {
	p := product.NewProduct(sku, "Product "+sku, sku)
	p.Quantity = qty
	p.SellingPrice = selling
	p.PurchasePrice = purchase
	return p
}

func money(v int64) *types.MinorUnits {
	m := types.MinorUnits(v)
	return &m
}

func TestValidateLines_Sale(t *testing.T) {
	p := testProduct("SKU-1", 10, 1500, 900)
	v := NewValidator(newFakeProducts(p), newFakeSuppliers())
	ctx := context.Background()

	lines, err := v.ValidateLines(ctx, KindSale, []LineInput{
		{ProductID: p.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, 1, line.LineNo)
	assert.Equal(t, p.ID, line.ProductID)
	assert.Equal(t, "SKU-1", line.SKU)
	assert.Equal(t, int64(3), line.Quantity)
	assert.Equal(t, types.MinorUnits(1500), line.UnitPrice, "sale freezes the selling price")
	assert.Equal(t, types.MinorUnits(4500), line.LineTotal)
	assert.False(t, id.IsNil(line.LineID))
}

func TestValidateLines_PriceFreezing(t *testing.T) {
	p := testProduct("SKU-1", 10, 1500, 900)

	tests := []struct {
		name     string
		kind     Kind
		override *types.MinorUnits
		want     types.MinorUnits
	}{
		{"sale uses selling price", KindSale, nil, 1500},
		{"purchase uses purchase price", KindPurchase, nil, 900},
		{"explicit price wins", KindSale, money(1234), 1234},
		{"zero override is honored", KindSale, money(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(newFakeProducts(p), newFakeSuppliers())
			lines, err := v.ValidateLines(context.Background(), tt.kind, []LineInput{
				{ProductID: p.ID, Quantity: 1, UnitPrice: tt.override},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines[0].UnitPrice)
		})
	}
}

func TestValidateLines_Rejections(t *testing.T) {
	active := testProduct("SKU-1", 5, 1000, 600)
	deleted := testProduct("SKU-2", 5, 1000, 600)
	deleted.MarkDeleted()

	tests := []struct {
		name   string
		kind   Kind
		inputs []LineInput
		check  func(t *testing.T, err error)
	}{
		{
			name:   "empty lines",
			kind:   KindSale,
			inputs: nil,
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name:   "nil product id",
			kind:   KindSale,
			inputs: []LineInput{{Quantity: 1}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name:   "zero quantity",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: active.ID, Quantity: 0}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name:   "negative quantity",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: active.ID, Quantity: -2}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name:   "negative price override",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: active.ID, Quantity: 1, UnitPrice: money(-1)}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name:   "unknown product",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: id.New(), Quantity: 1}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsNotFound(err))
			},
		},
		{
			name:   "soft-deleted product",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: deleted.ID, Quantity: 1}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsNotFound(err))
			},
		},
		{
			name:   "insufficient stock",
			kind:   KindSale,
			inputs: []LineInput{{ProductID: active.ID, Quantity: 6}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsInsufficientStock(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(newFakeProducts(active, deleted), newFakeSuppliers())
			_, err := v.ValidateLines(context.Background(), tt.kind, tt.inputs)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestValidateLines_PurchaseSkipsStockCheck(t *testing.T) {
	p := testProduct("SKU-1", 0, 1000, 600)
	products := newFakeProducts(p)
	v := NewValidator(products, newFakeSuppliers())

	lines, err := v.ValidateLines(context.Background(), KindPurchase, []LineInput{
		{ProductID: p.ID, Quantity: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), lines[0].Quantity)
	assert.Empty(t, products.locked, "purchases read without locking")
}

func TestValidateLines_SaleLocksRows(t *testing.T) {
	p1 := testProduct("SKU-1", 10, 1000, 600)
	p2 := testProduct("SKU-2", 10, 2000, 1200)
	products := newFakeProducts(p1, p2)
	v := NewValidator(products, newFakeSuppliers())

	_, err := v.ValidateLines(context.Background(), KindSale, []LineInput{
		{ProductID: p1.ID, Quantity: 1},
		{ProductID: p2.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []id.ID{p1.ID, p2.ID}, products.locked)
}

func TestValidateCharges(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		ch      Charges
		wantErr bool
	}{
		{"all zero", KindSale, Charges{}, false},
		{"valid sale charges", KindSale, Charges{TaxRate: types.NewTaxRate(10), DiscountAmount: 100, PaidAmount: 500}, false},
		{"valid purchase shipping", KindPurchase, Charges{ShippingCost: 700}, false},
		{"negative tax rate", KindSale, Charges{TaxRate: types.NewTaxRate(-1)}, true},
		{"negative discount", KindSale, Charges{DiscountAmount: -1}, true},
		{"negative shipping", KindPurchase, Charges{ShippingCost: -1}, true},
		{"negative paid", KindSale, Charges{PaidAmount: -1}, true},
		{"shipping on sale", KindSale, Charges{ShippingCost: 500}, true},
	}

	v := NewValidator(newFakeProducts(), newFakeSuppliers())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCharges(tt.kind, tt.ch)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSupplier(t *testing.T) {
	active := supplier.NewSupplier("SUP-1", "Acme")
	deleted := supplier.NewSupplier("SUP-2", "Gone")
	deleted.MarkDeleted()

	v := NewValidator(newFakeProducts(), newFakeSuppliers(active, deleted))
	ctx := context.Background()

	assert.NoError(t, v.ValidateSupplier(ctx, active.ID))
	assert.True(t, apperror.IsNotFound(v.ValidateSupplier(ctx, deleted.ID)))
	assert.True(t, apperror.IsNotFound(v.ValidateSupplier(ctx, id.New())))
}
