package dto

import (
	"stockpoint/internal/domain/catalogs/supplier"
)

// --- Request DTOs ---

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// ToEntity converts request to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.ContactName = r.ContactName
	s.Email = r.Email
	s.Phone = r.Phone
	s.Address = r.Address
	return s
}

// UpdateSupplierRequest for updating suppliers.
type UpdateSupplierRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields onto an existing supplier.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Code != nil {
		s.Code = *r.Code
	}
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.ContactName != nil {
		s.ContactName = r.ContactName
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Address != nil {
		s.Address = r.Address
	}
	s.Version = r.Version
}

// --- Response DTOs ---

// SupplierResponse represents a supplier in API responses.
type SupplierResponse struct {
	CatalogResponse
	ContactName *string `json:"contactName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// FromSupplier creates response from domain supplier.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		CatalogResponse: FromCatalog(s.Catalog),
		ContactName:     s.ContactName,
		Email:           s.Email,
		Phone:           s.Phone,
		Address:         s.Address,
	}
}
