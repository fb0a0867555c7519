// Package register_repo provides the PostgreSQL stock store: quantity-on-hand
// on the products table plus the append-only stock ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/internal/domain/stock"
	"stockpoint/internal/infrastructure/storage/postgres"
)

const (
	productsTable    = "products"
	stockLedgerTable = "stock_ledger"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetQuantityForUpdate returns the current quantity with a row lock.
// Must be called inside a transaction.
func (r *StockRepo) GetQuantityForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	sql := `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`

	var quantity int64
	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, productID).Scan(&quantity)
	if err == pgx.ErrNoRows {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("get quantity for update: %w", err)
	}

	return quantity, nil
}

// ApplyDelta atomically adds delta to the product quantity.
// The WHERE guard makes a negative result impossible at the database level
// even if an application-level check was skipped or raced.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	sql := `
		UPDATE products
		SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity
	`

	querier := r.txm.GetQuerier(ctx)
	var newQuantity int64
	err := querier.QueryRow(ctx, sql, productID, delta).Scan(&newQuantity)
	if err == nil {
		return newQuantity, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("apply delta: %w", err)
	}

	// Zero rows: either the product is missing or the guard rejected the delta.
	var available int64
	checkErr := querier.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&available)
	if checkErr == pgx.ErrNoRows {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if checkErr != nil {
		return 0, fmt.Errorf("check quantity: %w", checkErr)
	}

	return 0, apperror.NewInsufficientStock(productID.String(), -delta, available)
}

// AppendEntries batch inserts ledger entries using the COPY protocol.
// Must be called inside a transaction.
func (r *StockRepo) AppendEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	columns := []string{
		"line_id", "product_id", "delta", "cause",
		"reference_type", "reference_id", "created_by", "created_at",
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{
				e.LineID, e.ProductID, e.Delta, e.Cause,
				e.ReferenceType, e.ReferenceID, e.CreatedBy, e.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockLedgerTable, columns, rows); err != nil {
			return fmt.Errorf("copy ledger entries: %w", err)
		}
		return nil
	}

	// Fallback: plain insert. Prefer calling AppendEntries within tx.
	q := r.builder.Insert(stockLedgerTable).Columns(columns...)
	for _, e := range entries {
		q = q.Values(
			e.LineID, e.ProductID, e.Delta, e.Cause,
			e.ReferenceType, e.ReferenceID, e.CreatedBy, e.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}

	return nil
}

// GetEntriesByReference retrieves all entries caused by one document.
func (r *StockRepo) GetEntriesByReference(ctx context.Context, referenceID id.ID) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(
		"line_id", "product_id", "delta", "cause",
		"reference_type", "reference_id", "created_by", "created_at",
	).From(stockLedgerTable).
		Where(squirrel.Eq{"reference_id": referenceID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.LedgerEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// GetHistory returns ledger history for a product, newest first.
func (r *StockRepo) GetHistory(ctx context.Context, productID id.ID, filter stock.HistoryFilter) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(
		"line_id", "product_id", "delta", "cause",
		"reference_type", "reference_id", "created_by", "created_at",
	).From(stockLedgerTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.Cause != nil {
		q = q.Where(squirrel.Eq{"cause": *filter.Cause})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC", "line_id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.LedgerEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return entries, nil
}

// GetBalances returns current quantities with reorder thresholds.
func (r *StockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"id AS product_id", "sku", "name", "quantity", "min_quantity",
	).From(productsTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.ProductIDs})
	}

	if filter.BelowMin {
		q = q.Where(squirrel.Expr("quantity <= min_quantity"))
	}

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	q = q.OrderBy("sku")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

var _ stock.Repository = (*StockRepo)(nil)
