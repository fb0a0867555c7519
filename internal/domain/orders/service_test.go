package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpoint/internal/core/apperror"
	appctx "stockpoint/internal/core/context"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/invoice"
	"stockpoint/internal/core/types"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/catalogs/supplier"
	"stockpoint/internal/domain/stock"
)

func testSupplier(code string) *supplier.Supplier {
	return supplier.NewSupplier(code, "Supplier "+code)
}

// fakeStockRepo backs the stock service with the same product structs the
// validator reads, so quantity checks and mutations see one store.
type fakeStockRepo struct {
	products *fakeProducts
	ledger   []entity.LedgerEntry
}

func (f *fakeStockRepo) GetQuantityForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	p, err := f.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

func (f *fakeStockRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	p, err := f.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.Quantity+delta < 0 {
		return 0, apperror.NewInsufficientStock(productID.String(), -delta, p.Quantity)
	}
	p.Quantity += delta
	return p.Quantity, nil
}

func (f *fakeStockRepo) AppendEntries(_ context.Context, entries []entity.LedgerEntry) error {
	f.ledger = append(f.ledger, entries...)
	return nil
}

func (f *fakeStockRepo) GetEntriesByReference(_ context.Context, referenceID id.ID) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range f.ledger {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) GetHistory(_ context.Context, productID id.ID, _ stock.HistoryFilter) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range f.ledger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) GetBalances(_ context.Context, _ stock.BalanceFilter) ([]entity.StockBalance, error) {
	return nil, nil
}

// fakeOrderRepo stores orders and lines in memory.
type fakeOrderRepo struct {
	orders map[id.ID]*Order
	lines  map[id.ID][]Line
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[id.ID]*Order),
		lines:  make(map[id.ID][]Line),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, doc *Order) error {
	cp := *doc
	f.orders[doc.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, docID id.ID) (*Order, error) {
	o, ok := f.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("order", docID.String())
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range f.orders {
		if o.Number == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("order", number)
}

func (f *fakeOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Order, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeOrderRepo) Update(_ context.Context, doc *Order) error {
	stored, ok := f.orders[doc.ID]
	if !ok {
		return apperror.NewNotFound("order", doc.ID.String())
	}
	// Optimistic locking: doc.Version was already incremented via Touch
	if stored.Version != doc.Version-1 {
		return apperror.NewConcurrentModification("order", doc.ID.String())
	}
	cp := *doc
	f.orders[doc.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), f.lines[docID]...), nil
}

func (f *fakeOrderRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Order], error) {
	out := domain.ListResult[*Order]{}
	for _, o := range f.orders {
		cp := *o
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

// fakeTxManager snapshots the shared stores before fn and restores them when
// fn fails, mimicking a rollback.
type fakeTxManager struct {
	stockRepo *fakeStockRepo
	orderRepo *fakeOrderRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	quantities := make(map[id.ID]int64, len(m.stockRepo.products.byID))
	for pid, p := range m.stockRepo.products.byID {
		quantities[pid] = p.Quantity
	}
	ledgerLen := len(m.stockRepo.ledger)

	orders := make(map[id.ID]*Order, len(m.orderRepo.orders))
	for oid, o := range m.orderRepo.orders {
		cp := *o
		orders[oid] = &cp
	}
	lines := make(map[id.ID][]Line, len(m.orderRepo.lines))
	for oid, ls := range m.orderRepo.lines {
		lines[oid] = append([]Line(nil), ls...)
	}

	if err := fn(ctx); err != nil {
		for pid, qty := range quantities {
			m.stockRepo.products.byID[pid].Quantity = qty
		}
		m.stockRepo.ledger = m.stockRepo.ledger[:ledgerLen]
		m.orderRepo.orders = orders
		m.orderRepo.lines = lines
		return err
	}
	return nil
}

type testEnv struct {
	products  *fakeProducts
	suppliers *fakeSuppliers
	stockRepo *fakeStockRepo
	orderRepo *fakeOrderRepo
	svc       *Service
}

func newTestEnv(t *testing.T, products *fakeProducts, suppliers *fakeSuppliers) *testEnv {
	t.Helper()

	stockRepo := &fakeStockRepo{products: products}
	orderRepo := newFakeOrderRepo()
	svc := NewService(
		orderRepo,
		NewValidator(products, suppliers),
		stock.NewService(stockRepo),
		&invoice.MockGenerator{},
		&fakeTxManager{stockRepo: stockRepo, orderRepo: orderRepo},
	)

	return &testEnv{
		products:  products,
		suppliers: suppliers,
		stockRepo: stockRepo,
		orderRepo: orderRepo,
		svc:       svc,
	}
}

func userCtx(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID})
}

func TestCreateSale(t *testing.T) {
	p := testProduct("SKU-1", 10, 1500, 900)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())
	ctx := userCtx("cashier-1")

	order, err := env.svc.CreateSale(ctx, CreateInput{
		Kind:         KindSale,
		CustomerName: "Walk-in",
		Lines:        []LineInput{{ProductID: p.ID, Quantity: 3}},
		Charges: Charges{
			TaxRate:    types.NewTaxRate(10),
			PaidAmount: 4950,
		},
	})
	require.NoError(t, err)

	// Stock decremented
	assert.Equal(t, int64(7), p.Quantity)

	// Money derived: 3 * 1500 = 4500, tax 450, total 4950
	assert.Equal(t, types.MinorUnits(4500), order.SubTotal)
	assert.Equal(t, types.MinorUnits(450), order.TaxAmount)
	assert.Equal(t, types.MinorUnits(4950), order.TotalAmount)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "cashier-1", order.CreatedBy)

	// Invoice number from the sale counter
	assert.True(t, strings.HasPrefix(order.Number, "SAL-"), "got %s", order.Number)
	assert.True(t, strings.HasSuffix(order.Number, "-0001"), "got %s", order.Number)

	// Ledger records the movement
	entries, err := env.stockRepo.GetEntriesByReference(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-3), entries[0].Delta)
	assert.Equal(t, entity.CauseSale, entries[0].Cause)
	assert.Equal(t, "order", entries[0].ReferenceType)
	assert.Equal(t, "cashier-1", entries[0].CreatedBy)

	// Persisted with lines
	stored, err := env.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, types.MinorUnits(4500), stored.Lines[0].LineTotal)
}

func TestCreateSale_SequentialNumbers(t *testing.T) {
	p := testProduct("SKU-1", 10, 1000, 600)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())
	ctx := userCtx("cashier-1")

	first, err := env.svc.CreateSale(ctx, CreateInput{
		Kind:  KindSale,
		Lines: []LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	second, err := env.svc.CreateSale(ctx, CreateInput{
		Kind:  KindSale,
		Lines: []LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.Number, "-0001"))
	assert.True(t, strings.HasSuffix(second.Number, "-0002"))
}

func TestCreateSale_AtomicOnShortfall(t *testing.T) {
	p1 := testProduct("SKU-1", 10, 1000, 600)
	p2 := testProduct("SKU-2", 1, 2000, 1200)
	env := newTestEnv(t, newFakeProducts(p1, p2), newFakeSuppliers())

	// Second line exceeds stock; the first line's decrement must not survive
	_, err := env.svc.CreateSale(userCtx("cashier-1"), CreateInput{
		Kind: KindSale,
		Lines: []LineInput{
			{ProductID: p1.ID, Quantity: 5},
			{ProductID: p2.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(10), p1.Quantity, "first line decrement rolled back")
	assert.Equal(t, int64(1), p2.Quantity)
	assert.Empty(t, env.stockRepo.ledger)
	assert.Empty(t, env.orderRepo.orders)
}

func TestCreateSale_DiscountExceedsTotal(t *testing.T) {
	p := testProduct("SKU-1", 10, 1000, 600)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())

	_, err := env.svc.CreateSale(userCtx("cashier-1"), CreateInput{
		Kind:    KindSale,
		Lines:   []LineInput{{ProductID: p.ID, Quantity: 1}},
		Charges: Charges{DiscountAmount: 5000},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, int64(10), p.Quantity, "stock restored after abort")
}

func TestCreateSale_KindMismatch(t *testing.T) {
	env := newTestEnv(t, newFakeProducts(), newFakeSuppliers())

	_, err := env.svc.CreateSale(userCtx("u"), CreateInput{Kind: KindPurchase})
	assert.True(t, apperror.IsValidation(err))

	_, err = env.svc.CreatePurchase(userCtx("u"), CreateInput{Kind: KindSale})
	assert.True(t, apperror.IsValidation(err))
}

func TestCancelSale(t *testing.T) {
	p := testProduct("SKU-1", 10, 1000, 600)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())
	ctx := userCtx("manager-1")

	order, err := env.svc.CreateSale(ctx, CreateInput{
		Kind:  KindSale,
		Lines: []LineInput{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), p.Quantity)

	cancelled, err := env.svc.CancelSale(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(10), p.Quantity, "stock restored")
	assert.Equal(t, PaymentCancelled, cancelled.PaymentStatus)

	entries, err := env.stockRepo.GetEntriesByReference(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(-4), entries[0].Delta)
	assert.Equal(t, int64(4), entries[1].Delta)
	assert.Equal(t, entity.CauseCancellationReversal, entries[1].Cause)

	// Second cancel rejected, no further stock change
	_, err = env.svc.CancelSale(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, int64(10), p.Quantity)
}

func TestCancelSale_WrongKind(t *testing.T) {
	p := testProduct("SKU-1", 0, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = env.svc.CancelSale(ctx, order.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreatePurchase(t *testing.T) {
	p := testProduct("SKU-1", 2, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 50}},
		Charges: Charges{
			TaxRate:      types.NewTaxRate(10),
			ShippingCost: 2500,
		},
	})
	require.NoError(t, err)

	// No stock movement at creation
	assert.Equal(t, int64(2), p.Quantity)
	assert.Empty(t, env.stockRepo.ledger)

	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "PUR-"), "got %s", order.Number)

	// 50 * 600 = 30000, tax 3000, shipping 2500
	assert.Equal(t, types.MinorUnits(30000), order.SubTotal)
	assert.Equal(t, types.MinorUnits(35500), order.TotalAmount)
}

func TestCreatePurchase_RequiresSupplier(t *testing.T) {
	p := testProduct("SKU-1", 0, 1000, 600)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())

	_, err := env.svc.CreatePurchase(userCtx("u"), CreateInput{
		Kind:  KindPurchase,
		Lines: []LineInput{{ProductID: p.ID, Quantity: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDeliverPurchase(t *testing.T) {
	p := testProduct("SKU-1", 2, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 50}},
	})
	require.NoError(t, err)

	delivered, err := env.svc.DeliverPurchase(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(52), p.Quantity)
	assert.Equal(t, StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	entries, err := env.stockRepo.GetEntriesByReference(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(50), entries[0].Delta)
	assert.Equal(t, entity.CausePurchaseDelivery, entries[0].Cause)
}

func TestDeliverPurchase_ReplayRejected(t *testing.T) {
	p := testProduct("SKU-1", 0, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	_, err = env.svc.DeliverPurchase(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), p.Quantity)

	// Replaying the delivery must not increment stock again
	_, err = env.svc.DeliverPurchase(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, int64(10), p.Quantity)

	entries, err := env.stockRepo.GetEntriesByReference(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCancelPurchase(t *testing.T) {
	p := testProduct("SKU-1", 5, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	cancelled, err := env.svc.CancelPurchase(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentCancelled, cancelled.PaymentStatus)
	assert.Equal(t, int64(5), p.Quantity, "stock untouched")
	assert.Empty(t, env.stockRepo.ledger)

	// Cancelled purchases cannot be delivered
	_, err = env.svc.DeliverPurchase(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCancelPurchase_DeliveredRejected(t *testing.T) {
	p := testProduct("SKU-1", 0, 1000, 600)
	sup := testSupplier("SUP-1")
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers(sup))
	ctx := userCtx("manager-1")

	order, err := env.svc.CreatePurchase(ctx, CreateInput{
		Kind:       KindPurchase,
		SupplierID: &sup.ID,
		Lines:      []LineInput{{ProductID: p.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	_, err = env.svc.DeliverPurchase(ctx, order.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelPurchase(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, int64(10), p.Quantity, "delivered stock stays")
}

func TestGetByID_NotFound(t *testing.T) {
	env := newTestEnv(t, newFakeProducts(), newFakeSuppliers())

	_, err := env.svc.GetByID(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateSale_AfterCreateHookRuns(t *testing.T) {
	p := testProduct("SKU-1", 10, 1000, 600)
	env := newTestEnv(t, newFakeProducts(p), newFakeSuppliers())

	var hooked *Order
	env.svc.Hooks().OnAfterCreate(func(_ context.Context, o *Order) error {
		hooked = o
		return nil
	})

	order, err := env.svc.CreateSale(userCtx("u"), CreateInput{
		Kind:  KindSale,
		Lines: []LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, hooked)
	assert.Equal(t, order.ID, hooked.ID)
}
