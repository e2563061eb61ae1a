// Package core provides money parsing and handling utilities.
//
// Amounts are decimal.Decimal values end to end; floats only appear when a
// ratio is turned into a progress-bar width.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user or file input to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When both
// appear, commas are read as thousands separators (1,234.50). The sign is kept;
// callers decide whether zero or negative values are acceptable.
//
// Examples:
//   ParseAmount("12.34")    -> 12.34
//   ParseAmount("12,34")    -> 12.34
//   ParseAmount("1,234.50") -> 1234.5
//   ParseAmount("500.0")    -> 500
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders d as "$1,234.56" with the given number of decimals.
func FormatMoney(d decimal.Decimal, places int32) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(places)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
