package adjustments

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
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/domain/stock"
)

// In-memory fakes

type fakeProducts struct {
	byID map[id.ID]*product.Product
}

func newFakeProducts(products ...*product.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[id.ID]*product.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetForUpdate(_ context.Context, pid id.ID) (*product.Product, error) {
	p, ok := f.byID[pid]
	if !ok {
		return nil, apperror.NewNotFound("product", pid.String())
	}
	return p, nil
}

type fakeStockRepo struct {
	products *fakeProducts
	ledger   []entity.LedgerEntry
}

func (f *fakeStockRepo) GetQuantityForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	p, err := f.products.GetForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

func (f *fakeStockRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	p, err := f.products.GetForUpdate(ctx, productID)
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

func (f *fakeStockRepo) GetHistory(_ context.Context, _ id.ID, _ stock.HistoryFilter) ([]entity.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeStockRepo) GetBalances(_ context.Context, _ stock.BalanceFilter) ([]entity.StockBalance, error) {
	return nil, nil
}

type fakeRepo struct {
	docs  map[id.ID]*Adjustment
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Adjustment),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(_ context.Context, doc *Adjustment) error {
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Adjustment, error) {
	d, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("adjustment", docID.String())
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*Adjustment, error) {
	for _, d := range f.docs {
		if d.Number == number {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("adjustment", number)
}

func (f *fakeRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), f.lines[docID]...), nil
}

func (f *fakeRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Adjustment], error) {
	out := domain.ListResult[*Adjustment]{}
	for _, d := range f.docs {
		cp := *d
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

type fakeTxManager struct {
	stockRepo *fakeStockRepo
	repo      *fakeRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	quantities := make(map[id.ID]int64, len(m.stockRepo.products.byID))
	for pid, p := range m.stockRepo.products.byID {
		quantities[pid] = p.Quantity
	}
	ledgerLen := len(m.stockRepo.ledger)
	docs := make(map[id.ID]*Adjustment, len(m.repo.docs))
	for did, d := range m.repo.docs {
		cp := *d
		docs[did] = &cp
	}

	if err := fn(ctx); err != nil {
		for pid, qty := range quantities {
			m.stockRepo.products.byID[pid].Quantity = qty
		}
		m.stockRepo.ledger = m.stockRepo.ledger[:ledgerLen]
		m.repo.docs = docs
		return err
	}
	return nil
}

type testEnv struct {
	products  *fakeProducts
	stockRepo *fakeStockRepo
	repo      *fakeRepo
	svc       *Service
}

func newTestEnv(t *testing.T, products ...*product.Product) *testEnv {
	t.Helper()

	fp := newFakeProducts(products...)
	stockRepo := &fakeStockRepo{products: fp}
	repo := newFakeRepo()
	svc := NewService(
		repo,
		fp,
		stock.NewService(stockRepo),
		&invoice.MockGenerator{},
		&fakeTxManager{stockRepo: stockRepo, repo: repo},
	)

	return &testEnv{products: fp, stockRepo: stockRepo, repo: repo, svc: svc}
}

func testProduct(sku string, qty int64) *product.Product {
	p := product.NewProduct(sku, "Product "+sku, sku)
	p.Quantity = qty
	return p
}

func userCtx(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID})
}

func TestCreate_Increase(t *testing.T) {
	p := testProduct("SKU-1", 5)
	env := newTestEnv(t, p)

	adj, err := env.svc.Create(userCtx("manager-1"), CreateInput{
		Type:   TypeIncrease,
		Reason: "stocktaking surplus",
		Lines:  []LineInput{{ProductID: p.ID, Quantity: 7}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), p.Quantity)
	assert.True(t, strings.HasPrefix(adj.Number, "ADJ-"), "got %s", adj.Number)
	assert.Equal(t, "manager-1", adj.CreatedBy)

	require.Len(t, adj.Lines, 1)
	line := adj.Lines[0]
	assert.Equal(t, int64(5), line.PreviousQty)
	assert.Equal(t, int64(12), line.NewQty)

	entries, err := env.stockRepo.GetEntriesByReference(context.Background(), adj.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].Delta)
	assert.Equal(t, entity.CauseAdjustment, entries[0].Cause)
	assert.Equal(t, "adjustment", entries[0].ReferenceType)
}

func TestCreate_Decrease(t *testing.T) {
	p := testProduct("SKU-1", 10)
	env := newTestEnv(t, p)

	adj, err := env.svc.Create(userCtx("manager-1"), CreateInput{
		Type:   TypeDecrease,
		Reason: "damaged goods",
		Lines:  []LineInput{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), p.Quantity)
	assert.Equal(t, int64(10), adj.Lines[0].PreviousQty)
	assert.Equal(t, int64(6), adj.Lines[0].NewQty)

	entries, _ := env.stockRepo.GetEntriesByReference(context.Background(), adj.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-4), entries[0].Delta)
}

func TestCreate_DecreaseBelowZeroRejected(t *testing.T) {
	p := testProduct("SKU-1", 3)
	env := newTestEnv(t, p)

	_, err := env.svc.Create(userCtx("manager-1"), CreateInput{
		Type:   TypeDecrease,
		Reason: "shrinkage",
		Lines:  []LineInput{{ProductID: p.ID, Quantity: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(3), p.Quantity)
	assert.Empty(t, env.stockRepo.ledger)
	assert.Empty(t, env.repo.docs)
}

func TestCreate_AtomicAcrossLines(t *testing.T) {
	p1 := testProduct("SKU-1", 10)
	p2 := testProduct("SKU-2", 1)
	env := newTestEnv(t, p1, p2)

	_, err := env.svc.Create(userCtx("manager-1"), CreateInput{
		Type:   TypeDecrease,
		Reason: "write-off",
		Lines: []LineInput{
			{ProductID: p1.ID, Quantity: 5},
			{ProductID: p2.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(10), p1.Quantity, "first line rolled back")
	assert.Equal(t, int64(1), p2.Quantity)
	assert.Empty(t, env.stockRepo.ledger)
}

func TestCreate_ValidationRejections(t *testing.T) {
	p := testProduct("SKU-1", 10)
	inactive := testProduct("SKU-2", 10)
	inactive.MarkDeleted()

	tests := []struct {
		name  string
		in    CreateInput
		check func(t *testing.T, err error)
	}{
		{
			name: "bad type",
			in:   CreateInput{Type: "recount", Reason: "r", Lines: []LineInput{{ProductID: p.ID, Quantity: 1}}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name: "missing reason",
			in:   CreateInput{Type: TypeIncrease, Lines: []LineInput{{ProductID: p.ID, Quantity: 1}}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name: "no lines",
			in:   CreateInput{Type: TypeIncrease, Reason: "r"},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name: "zero quantity",
			in:   CreateInput{Type: TypeIncrease, Reason: "r", Lines: []LineInput{{ProductID: p.ID, Quantity: 0}}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsValidation(err))
			},
		},
		{
			name: "unknown product",
			in:   CreateInput{Type: TypeIncrease, Reason: "r", Lines: []LineInput{{ProductID: id.New(), Quantity: 1}}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsNotFound(err))
			},
		},
		{
			name: "inactive product",
			in:   CreateInput{Type: TypeIncrease, Reason: "r", Lines: []LineInput{{ProductID: inactive.ID, Quantity: 1}}},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsNotFound(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, p, inactive)
			_, err := env.svc.Create(userCtx("manager-1"), tt.in)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGetByID(t *testing.T) {
	p := testProduct("SKU-1", 5)
	env := newTestEnv(t, p)
	ctx := userCtx("manager-1")

	created, err := env.svc.Create(ctx, CreateInput{
		Type:   TypeIncrease,
		Reason: "initial count",
		Lines:  []LineInput{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Number, got.Number)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(8), got.Lines[0].NewQty)

	_, err = env.svc.GetByID(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
