package product

import (
	"context"

	"stockpoint/internal/core/id"
	"stockpoint/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves product by SKU.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByBarcode retrieves product by barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// GetForUpdate retrieves product with row lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// FindLowStock retrieves products with stock at or below minimum.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
