// Package stock provides the quantity-on-hand store and the stock ledger.
package stock

import (
	"context"
	"time"

	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
)

// Repository defines persistence operations for stock quantities and the ledger.
//
// Mutating operations must be called inside a transaction: quantity changes
// and the ledger entries recording them commit or roll back together.
type Repository interface {
	// Quantity store operations

	// GetQuantityForUpdate returns the current quantity with a row lock.
	GetQuantityForUpdate(ctx context.Context, productID id.ID) (int64, error)

	// ApplyDelta atomically adds delta to the product quantity, guarded so
	// the result can never go negative. Returns the new quantity.
	// A shortfall surfaces as InsufficientStock with the available quantity.
	ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error)

	// Ledger operations

	// AppendEntries batch inserts ledger entries (COPY protocol)
	AppendEntries(ctx context.Context, entries []entity.LedgerEntry) error

	// GetEntriesByReference retrieves all entries caused by one document
	GetEntriesByReference(ctx context.Context, referenceID id.ID) ([]entity.LedgerEntry, error)

	// GetHistory returns ledger history for a product
	GetHistory(ctx context.Context, productID id.ID, filter HistoryFilter) ([]entity.LedgerEntry, error)

	// Reporting

	// GetBalances returns current quantities with reorder thresholds
	GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error)
}

// HistoryFilter for filtering ledger history.
type HistoryFilter struct {
	Cause    *entity.LedgerCause
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductIDs  []id.ID
	BelowMin    bool
	ExcludeZero bool
}
