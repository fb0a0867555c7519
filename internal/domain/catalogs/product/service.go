package product

import (
	"context"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/tx"
	"stockpoint/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkUnique)
	base.Hooks().OnBeforeUpdate(svc.checkUnique)

	return svc
}

// checkUnique enforces SKU and barcode uniqueness.
func (s *Service) checkUnique(ctx context.Context, item *Product) error {
	if item.Code == "" {
		item.Code = item.SKU
	}

	if existing, err := s.repo.FindBySKU(ctx, item.SKU); err == nil && existing.ID != item.ID {
		return apperror.NewDuplicate("product", "sku", item.SKU)
	}

	if item.Barcode != nil && *item.Barcode != "" {
		if existing, err := s.repo.FindByBarcode(ctx, *item.Barcode); err == nil && existing.ID != item.ID {
			return apperror.NewDuplicate("product", "barcode", *item.Barcode)
		}
	}

	return nil
}

// --- Entity-specific methods ---

// FindBySKU retrieves product by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// FindByBarcode retrieves product by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

// FindLowStock retrieves products at or below their reorder threshold.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}

// Restore clears the deletion mark, making the product orderable again.
func (s *Service) Restore(ctx context.Context, productID id.ID) error {
	return s.SetDeletionMark(ctx, productID, false)
}
