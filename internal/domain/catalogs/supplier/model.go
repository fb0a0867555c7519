// Package supplier provides the Supplier catalog.
// Suppliers are the counterparties purchases are placed with.
package supplier

import (
	"context"

	"stockpoint/internal/core/apperror"
	"stockpoint/internal/core/entity"
)

// Supplier represents a purchasing counterparty.
type Supplier struct {
	entity.Catalog

	// ContactName is the primary contact person
	ContactName *string `db:"contact_name" json:"contactName,omitempty"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Phone is the contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is the postal address
	Address *string `db:"address" json:"address,omitempty"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	return nil
}

// IsActive returns true when the supplier can be used in new purchases.
func (s *Supplier) IsActive() bool {
	return !s.DeletionMark
}
