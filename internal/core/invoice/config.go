// Package invoice provides domain contracts for invoice numbering.
package invoice

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix added to all numbers (e.g., "SAL", "PUR", "ADJ")
	Prefix string

	// PadWidth is the minimum width of the sequence part (default 4)
	PadWidth int
}

// SaleConfig returns numbering configuration for sale invoices.
func SaleConfig() Config {
	return Config{Prefix: "SAL", PadWidth: 4}
}

// PurchaseConfig returns numbering configuration for purchase invoices.
func PurchaseConfig() Config {
	return Config{Prefix: "PUR", PadWidth: 4}
}

// AdjustmentConfig returns numbering configuration for stock adjustments.
func AdjustmentConfig() Config {
	return Config{Prefix: "ADJ", PadWidth: 4}
}
