// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockpoint/internal/core/id"
)

// LedgerCause identifies the event that produced a stock delta.
type LedgerCause string

const (
	// CauseSale decreases stock at sale creation
	CauseSale LedgerCause = "sale"
	// CausePurchaseDelivery increases stock when a purchase is delivered
	CausePurchaseDelivery LedgerCause = "purchase_delivery"
	// CauseAdjustment covers manual increase/decrease corrections
	CauseAdjustment LedgerCause = "adjustment"
	// CauseCancellationReversal restores stock of a cancelled sale
	CauseCancellationReversal LedgerCause = "cancellation_reversal"
)

// LedgerEntry is one immutable quantity change in the stock ledger.
// Entries are append-only: never updated, never deleted. They are written
// in the same transaction as the products.quantity mutation they record.
type LedgerEntry struct {
	// LineID is unique identifier for this ledger line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// ProductID is the product whose quantity changed
	ProductID id.ID `db:"product_id" json:"productId"`

	// Delta is the signed quantity change (negative for sales)
	Delta int64 `db:"delta" json:"delta"`

	// Cause is the event kind that produced the delta
	Cause LedgerCause `db:"cause" json:"cause"`

	// ReferenceType is the causing document type ("order", "adjustment")
	ReferenceType string `db:"reference_type" json:"referenceType"`

	// ReferenceID is the causing document ID
	ReferenceID id.ID `db:"reference_id" json:"referenceId"`

	// CreatedBy is the acting user's ID
	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`

	// CreatedAt is when the entry was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewLedgerEntry creates a ledger entry with generated LineID.
func NewLedgerEntry(productID id.ID, delta int64, cause LedgerCause, refType string, refID id.ID, createdBy string) LedgerEntry {
	return LedgerEntry{
		LineID:        id.New(),
		ProductID:     productID,
		Delta:         delta,
		Cause:         cause,
		ReferenceType: refType,
		ReferenceID:   refID,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}
}

// StockBalance is the current quantity-on-hand of one product,
// read from the products table together with its reorder threshold.
type StockBalance struct {
	ProductID   id.ID  `db:"product_id" json:"productId"`
	SKU         string `db:"sku" json:"sku"`
	Name        string `db:"name" json:"name"`
	Quantity    int64  `db:"quantity" json:"quantity"`
	MinQuantity int64  `db:"min_quantity" json:"minQuantity"`
}

// BelowMin reports whether the product is at or under its reorder threshold.
func (b *StockBalance) BelowMin() bool {
	return b.Quantity <= b.MinQuantity
}
