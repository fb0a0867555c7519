// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpoint/internal/domain/reports"
	"stockpoint/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
// Reports read committed data only; they never join a write transaction.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// GetStockBalanceReport reads current balances from the products table.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceFilter) (*reports.StockBalanceReport, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.sku,
			p.name AS product_name,
			p.quantity,
			p.min_quantity,
			p.quantity <= p.min_quantity AS below_min,
			p.quantity * p.purchase_price AS stock_value
		FROM products p
		WHERE p.deletion_mark = FALSE
	`
	args := []any{}
	argIndex := 1

	if len(filter.ProductIDs) > 0 {
		placeholders := make([]string, len(filter.ProductIDs))
		for i, pID := range filter.ProductIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, pID)
			argIndex++
		}
		query += fmt.Sprintf(" AND p.id IN (%s)", strings.Join(placeholders, ","))
	}

	if filter.BelowMinOnly {
		query += " AND p.quantity <= p.min_quantity"
	}

	if filter.ExcludeZero {
		query += " AND p.quantity != 0"
	}

	query += " ORDER BY p.sku"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.StockBalanceItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	report := &reports.StockBalanceReport{
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalQuantity += item.Quantity
		report.TotalValue += item.StockValue
	}

	return report, nil
}

// GetStockMovementReport aggregates the ledger into per-product turnover.
// Opening balance is the delta sum before the period; closing is derived,
// so closing = opening + receipt - expense holds by construction.
func (r *ReportRepo) GetStockMovementReport(ctx context.Context, filter reports.StockMovementFilter) (*reports.StockMovementReport, error) {
	query := `
		WITH movement AS (
			SELECT
				product_id,
				SUM(CASE WHEN created_at < $1 THEN delta ELSE 0 END) AS opening,
				SUM(CASE WHEN created_at >= $1 AND delta > 0 THEN delta ELSE 0 END) AS receipt,
				SUM(CASE WHEN created_at >= $1 AND delta < 0 THEN -delta ELSE 0 END) AS expense
			FROM stock_ledger
			WHERE created_at <= $2
			GROUP BY product_id
		)
		SELECT
			p.id AS product_id,
			p.sku,
			p.name AS product_name,
			COALESCE(m.opening, 0) AS opening_balance,
			COALESCE(m.receipt, 0) AS receipt,
			COALESCE(m.expense, 0) AS expense,
			COALESCE(m.opening, 0) + COALESCE(m.receipt, 0) - COALESCE(m.expense, 0) AS closing_balance
		FROM products p
		LEFT JOIN movement m ON m.product_id = p.id
		WHERE p.deletion_mark = FALSE
	`
	args := []any{filter.FromDate, filter.ToDate}
	argIndex := 3

	if len(filter.ProductIDs) > 0 {
		placeholders := make([]string, len(filter.ProductIDs))
		for i, pID := range filter.ProductIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, pID)
			argIndex++
		}
		query += fmt.Sprintf(" AND p.id IN (%s)", strings.Join(placeholders, ","))
	}

	if !filter.IncludeZero {
		query += " AND (COALESCE(m.receipt, 0) != 0 OR COALESCE(m.expense, 0) != 0)"
	}

	query += " ORDER BY p.sku"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.StockMovementItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("stock movement report: %w", err)
	}

	report := &reports.StockMovementReport{
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalReceipt += item.Receipt
		report.TotalExpense += item.Expense
	}

	return report, nil
}

// GetSalesSummaryReport aggregates sale orders per business day.
// Cancelled sales are excluded from all money columns; with IncludeCancelled
// they appear only in the cancelled counter.
func (r *ReportRepo) GetSalesSummaryReport(ctx context.Context, filter reports.SalesSummaryFilter) (*reports.SalesSummaryReport, error) {
	query := `
		SELECT
			date(o.date) AS date,
			COUNT(*) FILTER (WHERE o.payment_status != 'cancelled') AS order_count,
			COUNT(*) FILTER (WHERE o.payment_status = 'cancelled') AS cancelled_count,
			COALESCE(SUM(l.qty) FILTER (WHERE o.payment_status != 'cancelled'), 0) AS items_sold,
			COALESCE(SUM(o.sub_total) FILTER (WHERE o.payment_status != 'cancelled'), 0) AS gross_sales,
			COALESCE(SUM(o.tax_amount) FILTER (WHERE o.payment_status != 'cancelled'), 0) AS tax_total,
			COALESCE(SUM(o.discount_amount) FILTER (WHERE o.payment_status != 'cancelled'), 0) AS discounts,
			COALESCE(SUM(o.total_amount) FILTER (WHERE o.payment_status != 'cancelled'), 0) AS net_sales
		FROM orders o
		LEFT JOIN (
			SELECT document_id, SUM(quantity) AS qty
			FROM order_lines
			GROUP BY document_id
		) l ON l.document_id = o.id
		WHERE o.kind = 'sale'
		  AND o.deletion_mark = FALSE
		  AND o.date >= $1
		  AND o.date <= $2
	`
	args := []any{filter.FromDate, filter.ToDate}

	if !filter.IncludeCancelled {
		query += " AND o.payment_status != 'cancelled'"
	}

	query += `
		GROUP BY date(o.date)
		ORDER BY date(o.date)
	`

	var days []reports.SalesSummaryDay
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &days, query, args...); err != nil {
		return nil, fmt.Errorf("sales summary report: %w", err)
	}

	report := &reports.SalesSummaryReport{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Days:     days,
	}
	for _, day := range days {
		report.TotalOrders += day.OrderCount
		report.TotalNet += day.NetSales
	}

	return report, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
