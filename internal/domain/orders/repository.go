package orders

import (
	"context"
	"time"

	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
)

// Repository defines operations for order documents.
type Repository interface {
	Create(ctx context.Context, doc *Order) error
	GetByID(ctx context.Context, docID id.ID) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)

	// GetForUpdate locks the order row for status transitions.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*Order, error)

	// Update persists status transition fields with optimistic locking:
	// it fails with ConcurrentModification when the stored version moved.
	Update(ctx context.Context, doc *Order) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}

// ListFilter for filtering orders.
type ListFilter struct {
	domain.ListFilter

	Kind          *Kind
	PaymentStatus *PaymentStatus
	Status        *FulfillmentStatus
	SupplierID    *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
}
