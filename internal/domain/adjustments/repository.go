package adjustments

import (
	"context"
	"time"

	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
)

// Repository defines persistence operations for adjustment documents.
// Adjustments are append-only at the document level: no update, no delete.
type Repository interface {
	Create(ctx context.Context, doc *Adjustment) error
	GetByID(ctx context.Context, docID id.ID) (*Adjustment, error)
	GetByNumber(ctx context.Context, number string) (*Adjustment, error)

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Adjustment], error)
}

// ListFilter for filtering adjustments.
type ListFilter struct {
	domain.ListFilter

	Type     *Type
	DateFrom *time.Time
	DateTo   *time.Time
}
