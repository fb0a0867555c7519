// Package stock provides the quantity-on-hand store and the stock ledger.
package stock

import (
	"context"
	"fmt"

	"stockpoint/internal/core/apperror"
	appctx "stockpoint/internal/core/context"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/pkg/logger"
)

// Service provides stock mutation operations.
// Transactions are managed by the caller (the order coordinator or the
// adjustment service); every method here expects to run inside one.
type Service struct {
	repo Repository
}

// NewService creates a new stock service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Reservation represents one stock sufficiency check request.
type Reservation struct {
	ProductID   id.ID
	RequiredQty int64
}

// Movement is one quantity change to apply together with its ledger entry.
type Movement struct {
	ProductID     id.ID
	Delta         int64
	Cause         entity.LedgerCause
	ReferenceType string
	ReferenceID   id.ID
}

// CheckAndReserve validates stock availability with pessimistic locking.
// The row locks are held until the surrounding transaction ends, so a
// concurrent sale of the same product waits here and then sees the
// already-decremented quantity.
func (s *Service) CheckAndReserve(ctx context.Context, items []Reservation) error {
	for _, item := range items {
		available, err := s.repo.GetQuantityForUpdate(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("get quantity for %s: %w", item.ProductID, err)
		}

		if available < item.RequiredQty {
			return apperror.NewInsufficientStock(
				item.ProductID.String(),
				item.RequiredQty,
				available,
			)
		}
	}

	return nil
}

// Apply mutates quantities and appends the matching ledger entries.
// Each movement's delta is applied under the non-negative guard; the first
// failure aborts the whole batch by propagating into the caller's
// transaction rollback.
func (s *Service) Apply(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.Delta == 0 {
			return apperror.NewValidation(fmt.Sprintf("movement %d: delta must be non-zero", i))
		}
		if id.IsNil(m.ReferenceID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: reference_id is required", i))
		}
	}

	userID := appctx.GetUserID(ctx)
	entries := make([]entity.LedgerEntry, 0, len(movements))

	for _, m := range movements {
		if _, err := s.repo.ApplyDelta(ctx, m.ProductID, m.Delta); err != nil {
			return err
		}
		entries = append(entries, entity.NewLedgerEntry(
			m.ProductID, m.Delta, m.Cause, m.ReferenceType, m.ReferenceID, userID,
		))
	}

	if err := s.repo.AppendEntries(ctx, entries); err != nil {
		return fmt.Errorf("append ledger entries: %w", err)
	}

	logger.Info(ctx, "applied stock movements",
		"count", len(movements),
		"reference_id", movements[0].ReferenceID,
		"cause", movements[0].Cause,
	)

	return nil
}

// GetHistory returns ledger history for a product.
func (s *Service) GetHistory(ctx context.Context, productID id.ID, filter HistoryFilter) ([]entity.LedgerEntry, error) {
	return s.repo.GetHistory(ctx, productID, filter)
}

// GetEntriesByReference retrieves all entries caused by one document.
func (s *Service) GetEntriesByReference(ctx context.Context, referenceID id.ID) ([]entity.LedgerEntry, error) {
	return s.repo.GetEntriesByReference(ctx, referenceID)
}

// GetBalances returns current quantities with reorder thresholds.
func (s *Service) GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error) {
	return s.repo.GetBalances(ctx, filter)
}
