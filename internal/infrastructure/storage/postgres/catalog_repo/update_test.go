package catalog_repo

import (
	"strings"
	"testing"

	"stockpoint/internal/domain/catalogs/product"
)

// Quantity is owned by the stock service and a stock mutation does not bump
// the catalog version, so a catalog update carrying a stale quantity snapshot
// would silently undo concurrent sales. The UPDATE must never touch it.
func TestProductUpdate_NeverWritesQuantity(t *testing.T) {
	repo := NewProductRepo(nil)

	p := product.NewProduct("PRD-00001", "A4 Copy Paper", "PAP-A4-500")
	p.Quantity = 987
	p.MinQuantity = 3

	sql, args, _, err := repo.updateQuery(p)
	if err != nil {
		t.Fatalf("updateQuery failed: %v", err)
	}

	// "min_quantity" must stay writable; the bare "quantity" column must not
	// appear in the SET clause (it is always preceded by a space there).
	if strings.Contains(sql, " quantity") {
		t.Errorf("quantity column present in update SQL:\n%s", sql)
	}
	if !strings.Contains(sql, "min_quantity = ") {
		t.Errorf("min_quantity missing from update SQL:\n%s", sql)
	}

	for i, arg := range args {
		if v, ok := arg.(int64); ok && v == 987 {
			t.Errorf("stale quantity value bound as arg %d:\n%s", i, sql)
		}
	}
}

func TestUpdate_KeepsOptimisticLock(t *testing.T) {
	repo := NewProductRepo(nil)

	p := product.NewProduct("PRD-00002", "Ballpoint Pen Blue", "PEN-BLU")
	p.Version = 4

	sql, args, _, err := repo.updateQuery(p)
	if err != nil {
		t.Fatalf("updateQuery failed: %v", err)
	}

	if !strings.Contains(sql, "version = version + 1") {
		t.Errorf("version increment missing from update SQL:\n%s", sql)
	}
	if !strings.Contains(sql, "WHERE id = ") || !strings.Contains(sql, "AND version = ") {
		t.Errorf("optimistic lock guard missing from update SQL:\n%s", sql)
	}

	found := false
	for _, arg := range args {
		if v, ok := arg.(int); ok && v == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected version 4 bound in args, got %v", args)
	}
}
