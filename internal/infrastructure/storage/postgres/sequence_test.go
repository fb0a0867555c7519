package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockpoint/internal/core/invoice"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: one counter per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	lastKey  string
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters == nil {
		m.counters = make(map[string]int64)
	}

	key, _ := args[0].(string)
	m.counters[key]++
	m.lastKey = key

	return &mockRow{val: m.counters[key]}
}

type mockQuerierSource struct {
	querier *mockQuerier
}

func (s *mockQuerierSource) GetQuerier(ctx context.Context) Querier {
	return s.querier
}

func newTestGenerator() (*SequenceGenerator, *mockQuerier) {
	q := &mockQuerier{}
	return &SequenceGenerator{source: &mockQuerierSource{querier: q}}, q
}

func TestSequenceGenerator_Next(t *testing.T) {
	gen, q := newTestGenerator()
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	num, err := gen.Next(ctx, saleConfig(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SAL-260828-0001" {
		t.Errorf("expected SAL-260828-0001, got %s", num)
	}

	num, err = gen.Next(ctx, saleConfig(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SAL-260828-0002" {
		t.Errorf("expected SAL-260828-0002, got %s", num)
	}

	if q.lastKey != "SAL_260828" {
		t.Errorf("expected counter key SAL_260828, got %s", q.lastKey)
	}
}

func TestSequenceGenerator_IndependentPrefixes(t *testing.T) {
	gen, _ := newTestGenerator()
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	if _, err := gen.Next(ctx, saleConfig(), date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := gen.Next(ctx, purchaseConfig(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PUR-260828-0001" {
		t.Errorf("purchase counter must not share the sale counter, got %s", num)
	}
}

func TestSequenceGenerator_DailyReset(t *testing.T) {
	gen, _ := newTestGenerator()
	ctx := context.Background()

	day1 := time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC)

	if _, err := gen.Next(ctx, saleConfig(), day1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := gen.Next(ctx, saleConfig(), day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SAL-260829-0001" {
		t.Errorf("expected sequence to reset on a new day, got %s", num)
	}
}

func saleConfig() invoice.Config {
	return invoice.SaleConfig()
}

func purchaseConfig() invoice.Config {
	return invoice.PurchaseConfig()
}
