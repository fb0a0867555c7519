package dto

import (
	"time"

	"stockpoint/internal/core/entity"
)

// --- Response DTOs for the stock ledger and balances ---

// StockBalanceResponse represents one product balance in API responses.
type StockBalanceResponse struct {
	ProductID   string `json:"productId"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	MinQuantity int64  `json:"minQuantity"`
	BelowMin    bool   `json:"belowMin"`
}

// FromStockBalance converts entity to response DTO.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		ProductID:   b.ProductID.String(),
		SKU:         b.SKU,
		Name:        b.Name,
		Quantity:    b.Quantity,
		MinQuantity: b.MinQuantity,
		BelowMin:    b.BelowMin(),
	}
}

// StockBalanceListResponse wraps balance rows.
type StockBalanceListResponse struct {
	Items []StockBalanceResponse `json:"items"`
}

// LedgerEntryResponse represents one ledger line in API responses.
type LedgerEntryResponse struct {
	LineID        string    `json:"lineId"`
	ProductID     string    `json:"productId"`
	Delta         int64     `json:"delta"`
	Cause         string    `json:"cause"`
	ReferenceType string    `json:"referenceType"`
	ReferenceID   string    `json:"referenceId"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromLedgerEntry converts entity to response DTO.
func FromLedgerEntry(e entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LineID:        e.LineID.String(),
		ProductID:     e.ProductID.String(),
		Delta:         e.Delta,
		Cause:         string(e.Cause),
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID.String(),
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// LedgerEntryListResponse wraps ledger rows.
type LedgerEntryListResponse struct {
	Items      []LedgerEntryResponse `json:"items"`
	TotalCount int                   `json:"totalCount"`
}
