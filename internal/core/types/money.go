// Package types provides common type aliases and utilities.
package types

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units (cents).
// Storage: int64 - sufficient for ±92 quadrillion cents.
// Example: 123.45 → 12345
type MinorUnits int64

// NewMinorUnitsFromMajor creates MinorUnits from a major unit amount.
func NewMinorUnitsFromMajor(major float64) MinorUnits {
	return MinorUnits(math.Round(major * 100))
}

// ToMajor converts minor units back to major units for display.
func (m MinorUnits) ToMajor() float64 {
	return float64(m) / 100
}

// Decimal returns the value as a decimal in major units.
func (m MinorUnits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }
func (m MinorUnits) Abs() MinorUnits {
	if m < 0 {
		return -m
	}
	return m
}

// String renders the amount in major units with two fractional digits.
func (m MinorUnits) String() string {
	return m.Decimal().StringFixed(2)
}

// TaxRate is a percentage rate (e.g. 10 means 10%).
// Stored as decimal to keep fractional rates (7.25%) exact.
type TaxRate = decimal.Decimal

// NewTaxRate creates a TaxRate from a float percentage.
func NewTaxRate(percent float64) TaxRate {
	return decimal.NewFromFloat(percent)
}

// ApplyRate computes amount * rate / 100 rounded half-up to a whole
// minor unit. Used for tax derivation; deterministic for equal inputs.
func ApplyRate(amount MinorUnits, rate TaxRate) MinorUnits {
	if rate.IsZero() || amount == 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(amount)).Mul(rate).Div(decimal.NewFromInt(100))
	return MinorUnits(v.Round(0).IntPart())
}
