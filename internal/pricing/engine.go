// Package pricing computes the price of a printed piece from its dimensions,
// the product's rate per square metre and the material size limits.
// Every function is pure; rounding happens only in Display.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	// DefaultMaxSide is the panel side assumed when a product has no limits.
	DefaultMaxSide = decimal.NewFromInt(3)
	// DefaultExtraSupply is the waste multiplier assumed when a product has no limits.
	DefaultExtraSupply = decimal.NewFromInt(1)
)

// SizeLimits describes the stock a product is cut from.
type SizeLimits struct {
	MaxSide     decimal.Decimal
	ExtraSupply decimal.Decimal
}

// DefaultLimits returns the built-in fallback limits.
func DefaultLimits() SizeLimits {
	return SizeLimits{MaxSide: DefaultMaxSide, ExtraSupply: DefaultExtraSupply}
}

// IsZero reports whether no limits were provided at all.
func (l SizeLimits) IsZero() bool {
	return l.MaxSide.IsZero() && l.ExtraSupply.IsZero()
}

// OrDefault returns fallback when l is empty. Otherwise it replaces a
// non-positive max side or a negative extra supply with the matching field
// of fallback. A zero extra supply next to a real max side is kept.
func (l SizeLimits) OrDefault(fallback SizeLimits) SizeLimits {
	if l.IsZero() {
		return fallback
	}
	if !l.MaxSide.IsPositive() {
		l.MaxSide = fallback.MaxSide
	}
	if l.ExtraSupply.IsNegative() {
		l.ExtraSupply = fallback.ExtraSupply
	}
	return l
}

// Coerce parses a user-entered number. Blank, non-numeric and negative
// values become zero.
func Coerce(raw string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// CoerceQuantity parses a quantity. Blank or non-numeric input means one
// piece and anything below one is raised to one.
func CoerceQuantity(raw string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return one
	}
	return atLeastOne(v)
}

// Area returns length * width with negative sides treated as zero.
func Area(length, width decimal.Decimal) decimal.Decimal {
	return nonNegative(length).Mul(nonNegative(width))
}

// PrintingCost returns area * rate.
func PrintingCost(area, rate decimal.Decimal) decimal.Decimal {
	return nonNegative(area).Mul(nonNegative(rate))
}

// LeftMaterial estimates the leftover strip when the cut side does not tile
// the panel's max side exactly. The cut side is the width when the length
// sits nearer to maxSide, otherwise the length.
func LeftMaterial(length, width, maxSide, extraSupply decimal.Decimal) decimal.Decimal {
	length, width = nonNegative(length), nonNegative(width)
	closer := length
	if maxSide.Sub(length).LessThan(maxSide.Sub(width)) {
		closer = width
	}
	if closer.IsZero() || closer.GreaterThan(maxSide) {
		return decimal.Zero
	}
	if maxSide.Mod(closer).IsZero() {
		return decimal.Zero
	}
	return maxSide.Sub(closer).Mul(nonNegative(extraSupply))
}

// PerPieceCost returns printing cost plus left material.
func PerPieceCost(printing, left decimal.Decimal) decimal.Decimal {
	return printing.Add(left)
}

// TotalCost returns perPiece * quantity with quantity raised to at least one.
func TotalCost(perPiece, quantity decimal.Decimal) decimal.Decimal {
	return perPiece.Mul(atLeastOne(quantity))
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func atLeastOne(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(one) {
		return one
	}
	return v
}
