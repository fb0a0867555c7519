package orders

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
	"stockpoint/internal/domain/stock"
	"stockpoint/pkg/logger"
)

// ReferenceType tags ledger entries caused by orders.
const ReferenceType = "order"

// CreateInput is a proposed order.
type CreateInput struct {
	Kind         Kind
	CustomerName string // sales only
	SupplierID   *id.ID // purchases only
	Date         time.Time
	Comment      string
	Lines        []LineInput
	Charges      Charges
}

// Service is the transaction coordinator for orders.
//
// Every mutating operation runs as one transaction:
// validate, mutate stock, append ledger, compute money, persist.
// Any failure aborts the whole scope; no partial stock change is ever
// observable. Compensating actions (cancel, deliver) run under the same
// guarantee.
type Service struct {
	repo      Repository
	validator *Validator
	stock     *stock.Service
	invoices  invoice.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates the order service.
func NewService(
	repo Repository,
	validator *Validator,
	stockSvc *stock.Service,
	invoices invoice.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		stock:     stockSvc,
		invoices:  invoices,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the lifecycle hook registry (used for audit wiring).
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// CreateSale creates a sale and decrements stock atomically.
func (s *Service) CreateSale(ctx context.Context, in CreateInput) (*Order, error) {
	if in.Kind != KindSale {
		return nil, apperror.NewValidation("kind must be sale").WithDetail("field", "kind")
	}
	return s.create(ctx, in)
}

// CreatePurchase creates a purchase order. Stock is not touched here:
// quantities arrive at delivery time.
func (s *Service) CreatePurchase(ctx context.Context, in CreateInput) (*Order, error) {
	if in.Kind != KindPurchase {
		return nil, apperror.NewValidation("kind must be purchase").WithDetail("field", "kind")
	}
	return s.create(ctx, in)
}

// create is the single code path for both kinds.
func (s *Service) create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := s.validator.ValidateCharges(in.Kind, in.Charges); err != nil {
		return nil, err
	}

	order := NewOrder(in.Kind)
	order.CustomerName = in.CustomerName
	order.SupplierID = in.SupplierID
	order.Comment = in.Comment
	order.TaxRate = in.Charges.TaxRate
	order.DiscountAmount = in.Charges.DiscountAmount
	order.ShippingCost = in.Charges.ShippingCost
	order.PaidAmount = in.Charges.PaidAmount
	order.CreatedBy = appctx.GetUserID(ctx)
	if !in.Date.IsZero() {
		order.Date = in.Date.UTC()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if in.Kind == KindPurchase {
			if in.SupplierID == nil || id.IsNil(*in.SupplierID) {
				return apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
			}
			if err := s.validator.ValidateSupplier(ctx, *in.SupplierID); err != nil {
				return err
			}
		}

		// Validate lines against locked catalog rows
		lines, err := s.validator.ValidateLines(ctx, in.Kind, in.Lines)
		if err != nil {
			return err
		}
		order.Lines = lines

		// Sales take stock immediately; the non-negative guard in the
		// stock store backstops the validator under races
		if in.Kind == KindSale {
			if err := s.stock.Apply(ctx, s.movements(order, -1, entity.CauseSale)); err != nil {
				return err
			}
		}

		// Derive monetary fields
		totals := ComputeTotals(in.Kind, order.Lines, in.Charges)
		if totals.TotalAmount.IsNegative() {
			return apperror.NewValidation("discount exceeds order total").
				WithDetail("field", "discountAmount")
		}
		order.ApplyTotals(totals)

		// Invoice number from the counter, inside this same transaction
		number, err := s.invoices.Next(ctx, s.numberConfig(in.Kind), order.Date)
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}
		order.Number = number

		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, order.ID, order.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.hooks.RunAfterCreate(ctx, order)

	logger.Info(ctx, "order created",
		"id", order.ID,
		"number", order.Number,
		"kind", order.Kind,
		"total", order.TotalAmount,
	)
	return order, nil
}

// CancelSale reverses a committed sale: restock every line, append reversal
// ledger entries, mark the payment status cancelled. One atomic scope.
func (s *Service) CancelSale(ctx context.Context, orderID id.ID) (*Order, error) {
	var order *Order

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.getForTransition(ctx, orderID, KindSale)
		if err != nil {
			return err
		}

		if err := order.CanCancelSale(); err != nil {
			return err
		}

		if err := s.stock.Apply(ctx, s.movements(order, +1, entity.CauseCancellationReversal)); err != nil {
			return err
		}

		order.MarkSaleCancelled()
		order.UpdatedBy = appctx.GetUserID(ctx)
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	_ = s.hooks.RunAfterUpdate(ctx, order)

	logger.Info(ctx, "sale cancelled", "id", order.ID, "number", order.Number)
	return order, nil
}

// DeliverPurchase transitions a purchase to delivered and receives its
// stock. The row lock plus the version CAS in Update make a replayed
// deliver fail instead of double-incrementing.
func (s *Service) DeliverPurchase(ctx context.Context, orderID id.ID) (*Order, error) {
	var order *Order

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.getForTransition(ctx, orderID, KindPurchase)
		if err != nil {
			return err
		}

		if err := order.CanDeliver(); err != nil {
			return err
		}

		if err := s.stock.Apply(ctx, s.movements(order, +1, entity.CausePurchaseDelivery)); err != nil {
			return err
		}

		order.MarkDelivered()
		order.UpdatedBy = appctx.GetUserID(ctx)
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	_ = s.hooks.RunAfterUpdate(ctx, order)

	logger.Info(ctx, "purchase delivered", "id", order.ID, "number", order.Number)
	return order, nil
}

// CancelPurchase cancels a pending purchase. No stock compensation needed:
// delivery increments never happened.
func (s *Service) CancelPurchase(ctx context.Context, orderID id.ID) (*Order, error) {
	var order *Order

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.getForTransition(ctx, orderID, KindPurchase)
		if err != nil {
			return err
		}

		if err := order.CanCancelPurchase(); err != nil {
			return err
		}

		order.MarkPurchaseCancelled()
		order.UpdatedBy = appctx.GetUserID(ctx)
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	_ = s.hooks.RunAfterUpdate(ctx, order)

	logger.Info(ctx, "purchase cancelled", "id", order.ID, "number", order.Number)
	return order, nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	doc, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}

// getForTransition loads a locked order of the expected kind with lines.
func (s *Service) getForTransition(ctx context.Context, orderID id.ID, kind Kind) (*Order, error) {
	order, err := s.repo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Kind != kind {
		return nil, apperror.NewNotFound(string(kind), orderID.String())
	}

	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// movements builds one stock movement per line with the given sign.
func (s *Service) movements(order *Order, sign int64, cause entity.LedgerCause) []stock.Movement {
	movs := make([]stock.Movement, 0, len(order.Lines))
	for _, line := range order.Lines {
		movs = append(movs, stock.Movement{
			ProductID:     line.ProductID,
			Delta:         sign * line.Quantity,
			Cause:         cause,
			ReferenceType: ReferenceType,
			ReferenceID:   order.ID,
		})
	}
	return movs
}

func (s *Service) numberConfig(kind Kind) invoice.Config {
	if kind == KindPurchase {
		return invoice.PurchaseConfig()
	}
	return invoice.SaleConfig()
}
