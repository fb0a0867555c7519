package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/adjustments"
	"stockpoint/internal/infrastructure/storage/postgres"
)

const (
	adjustmentsTable     = "adjustments"
	adjustmentLinesTable = "adjustment_lines"
)

// AdjustmentRepo implements adjustments.Repository.
// Adjustments are append-only: the base Update is never exposed.
type AdjustmentRepo struct {
	*BaseDocumentRepo[*adjustments.Adjustment]
}

// NewAdjustmentRepo creates a new adjustment repository.
func NewAdjustmentRepo(txm *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*adjustments.Adjustment](
			txm,
			adjustmentsTable,
			postgres.ExtractDBColumns[adjustments.Adjustment](),
			func() *adjustments.Adjustment { return &adjustments.Adjustment{} },
		),
	}
}

func (r *AdjustmentRepo) GetLines(ctx context.Context, docID id.ID) ([]adjustments.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_id", "sku",
			"quantity", "previous_qty", "new_qty",
		).
		From(adjustmentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []adjustments.Line
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *AdjustmentRepo) SaveLines(ctx context.Context, docID id.ID, lines []adjustments.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(adjustmentLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "product_id", "sku",
			"quantity", "previous_qty", "new_qty",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ProductID, line.SKU,
			line.Quantity, line.PreviousQty, line.NewQty,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *AdjustmentRepo) List(ctx context.Context, filter adjustments.ListFilter) (domain.ListResult[*adjustments.Adjustment], error) {
	result := domain.ListResult[*adjustments.Adjustment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"reason": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

var _ adjustments.Repository = (*AdjustmentRepo)(nil)
