package supplier

import (
	"context"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/tx"
	"stockpoint/internal/domain"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)

	return svc
}

// checkCodeUnique enforces supplier code uniqueness.
func (s *Service) checkCodeUnique(ctx context.Context, item *Supplier) error {
	exists, err := s.repo.ExistsByCode(ctx, item.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("supplier", "code", item.Code)
	}
	return nil
}
