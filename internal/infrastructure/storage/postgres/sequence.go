package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stockpoint/internal/core/invoice"
)

// sequenceQuerier is the minimal querier the generator needs.
// Satisfied by TxManager via GetQuerier, mockable in tests.
type sequenceQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querierSource interface {
	GetQuerier(ctx context.Context) Querier
}

// SequenceGenerator implements invoice.Generator on the sys_sequences table.
//
// The counter is incremented through the caller's querier, so when the caller
// runs inside a transaction the increment joins it: a rolled back document
// releases its number, and two concurrent creators of the same document type
// serialize on the counter row instead of racing a max()+1 read.
type SequenceGenerator struct {
	source querierSource
}

// NewSequenceGenerator creates a generator bound to the transaction manager.
func NewSequenceGenerator(txm *TxManager) *SequenceGenerator {
	return &SequenceGenerator{source: txm}
}

// Next returns the next formatted number for the config and business date.
// The sequence resets daily per prefix: the counter row key is PREFIX_YYMMDD.
func (g *SequenceGenerator) Next(ctx context.Context, cfg invoice.Config, date time.Time) (string, error) {
	key := invoice.CounterKey(cfg, date)

	var querier sequenceQuerier = g.source.GetQuerier(ctx)

	var num int64
	err := querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next sequence %s: %w", key, err)
	}

	return invoice.Format(cfg, date, num), nil
}

var _ invoice.Generator = (*SequenceGenerator)(nil)
