// Package invoice provides domain contracts for invoice numbering.
// Implementations live in infrastructure layer.
package invoice

import (
	"context"
	"fmt"
	"time"
)

// Generator produces sequential invoice numbers.
// This is the domain contract - the implementation lives in infrastructure.
//
// Numbers come from a dedicated counter row keyed by prefix+date and are
// incremented as part of the calling transaction: two concurrent creators
// of the same document type serialize on the counter row and the number is
// released back (rolled back) if the document fails to commit. This closes
// the read-latest-then-increment race of naive max(invoice)+1 schemes.
type Generator interface {
	// Next returns the next number for the given config and business date.
	// Pattern: PREFIX-YYMMDD-NNNN (e.g., SAL-260828-0001).
	// The sequence resets daily per prefix.
	Next(ctx context.Context, cfg Config, date time.Time) (string, error)
}

// CounterKey builds the counter row key for a prefix and date.
// One counter per prefix per day.
func CounterKey(cfg Config, date time.Time) string {
	return fmt.Sprintf("%s_%s", cfg.Prefix, date.UTC().Format("060102"))
}

// Format renders the final number string.
func Format(cfg Config, date time.Time, seq int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, date.UTC().Format("060102"), padWidth, seq)
}

// ParseSequence extracts the numeric sequence from a formatted number.
// Returns -1 if parsing fails.
func ParseSequence(formatted string) int64 {
	var num int64
	if _, err := fmt.Sscanf(formatted, "%*[^-]-%*d-%d", &num); err == nil {
		return num
	}
	return -1
}
