package adjustments

import (
	"context"
	"fmt"
	"time"

	"stockpoint/internal/core/apperror"
	appctx "stockpoint/internal/core/context"
	"stockpoint/internal/core/entity"
	"stockpoint/internal/core/id"
	"stockpoint/internal/core/invoice"
	"stockpoint/internal/core/tx"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/domain/stock"
	"stockpoint/pkg/logger"
)

// ReferenceType tags ledger entries caused by adjustments.
const ReferenceType = "adjustment"

// ProductReader is the catalog access the adjustment flow needs.
// Rows are read FOR UPDATE so the recorded previous/new quantities stay
// true until commit.
type ProductReader interface {
	GetForUpdate(ctx context.Context, id id.ID) (*product.Product, error)
}

// LineInput is one proposed correction line.
type LineInput struct {
	ProductID id.ID

	// Quantity is the unsigned correction amount, must be positive
	Quantity int64
}

// CreateInput is a proposed adjustment.
type CreateInput struct {
	Type    Type
	Reason  string
	Date    time.Time
	Comment string
	Lines   []LineInput
}

// Service creates stock adjustments atomically with their stock effect.
type Service struct {
	repo      Repository
	products  ProductReader
	stock     *stock.Service
	invoices  invoice.Generator
	txManager tx.Manager
}

// NewService creates the adjustment service.
func NewService(
	repo Repository,
	products ProductReader,
	stockSvc *stock.Service,
	invoices invoice.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		stock:     stockSvc,
		invoices:  invoices,
		txManager: txManager,
	}
}

// Create validates and applies a stock adjustment in one transaction.
// Decreases are checked against locked quantities; an insufficient line
// aborts the whole document.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Adjustment, error) {
	if in.Type != TypeIncrease && in.Type != TypeDecrease {
		return nil, apperror.NewValidation("invalid adjustment type").
			WithDetail("field", "type").
			WithDetail("value", string(in.Type))
	}
	if in.Reason == "" {
		return nil, apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	adj := NewAdjustment(in.Type)
	adj.Reason = in.Reason
	adj.Comment = in.Comment
	adj.CreatedBy = appctx.GetUserID(ctx)
	if !in.Date.IsZero() {
		adj.Date = in.Date.UTC()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		lines, movements, err := s.prepareLines(ctx, adj.ID, in)
		if err != nil {
			return err
		}
		adj.Lines = lines

		if err := s.stock.Apply(ctx, movements); err != nil {
			return err
		}

		number, err := s.invoices.Next(ctx, invoice.AdjustmentConfig(), adj.Date)
		if err != nil {
			return fmt.Errorf("generate adjustment number: %w", err)
		}
		adj.Number = number

		if err := s.repo.Create(ctx, adj); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}
		if err := s.repo.SaveLines(ctx, adj.ID, adj.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjustment created",
		"id", adj.ID,
		"number", adj.Number,
		"type", adj.Type,
		"lines", len(adj.Lines),
	)
	return adj, nil
}

// GetByID retrieves an adjustment with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Adjustment, error) {
	adj, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	adj.Lines = lines

	return adj, nil
}

// List retrieves adjustments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Adjustment], error) {
	return s.repo.List(ctx, filter)
}

// prepareLines locks each product, validates the correction and snapshots
// the quantities around it.
func (s *Service) prepareLines(ctx context.Context, docID id.ID, in CreateInput) ([]Line, []stock.Movement, error) {
	lines := make([]Line, 0, len(in.Lines))
	movements := make([]stock.Movement, 0, len(in.Lines))

	for i, li := range in.Lines {
		lineNo := i + 1

		if id.IsNil(li.ProductID) {
			return nil, nil, apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", lineNo)
		}
		if li.Quantity <= 0 {
			return nil, nil, apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", lineNo)
		}

		p, err := s.products.GetForUpdate(ctx, li.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("lock product %s: %w", li.ProductID, err)
		}
		if !p.IsActive() {
			return nil, nil, apperror.NewNotFound("product", li.ProductID.String()).
				WithDetail("reason", "inactive")
		}

		delta := in.Type.Delta(li.Quantity)
		if in.Type == TypeDecrease && p.Quantity < li.Quantity {
			return nil, nil, apperror.NewInsufficientStock(p.ID.String(), li.Quantity, p.Quantity)
		}

		lines = append(lines, Line{
			LineID:      id.New(),
			LineNo:      lineNo,
			ProductID:   p.ID,
			SKU:         p.SKU,
			Quantity:    li.Quantity,
			PreviousQty: p.Quantity,
			NewQty:      p.Quantity + delta,
		})
		movements = append(movements, stock.Movement{
			ProductID:     p.ID,
			Delta:         delta,
			Cause:         entity.CauseAdjustment,
			ReferenceType: ReferenceType,
			ReferenceID:   docID,
		})
	}

	return lines, movements, nil
}
