// Package core holds the pure derived-data engine: the domain types and the
// transformations that turn a flat transaction collection into month-scoped
// views (totals, breakdowns, rollups, debt ledger, insights).
//
// This file covers monetary amounts. Amounts are carried as int64 cents so
// that summation never accumulates floating point error; conversion to a
// decimal value happens once, at display time.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount scaled to cents.
type Money struct {
	Cents int64 `json:"cents"`
}

// ParseDecimalToCents converts a user-entered decimal string to cents.
//
// Both comma (150,00) and dot (150.00) separators are accepted. A third
// decimal digit is rounded half-up. Only strictly positive amounts are
// valid; anything else returns ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxWhole = (1<<63 - 1) / 100
	if whole > maxWhole {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		frac += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	cents := whole*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// CentsFromFloat converts a store-level decimal amount to cents, rounding
// half-up. Malformed (NaN propagates as 0 through the comparison) or
// negative values degrade to zero so one bad record cannot sink a whole
// month's aggregation.
func CentsFromFloat(v float64) int64 {
	if !(v > 0) {
		return 0
	}
	return int64(v*100 + 0.5)
}

// Reais returns the decimal value for display. Calculations must stay on
// cents.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount as a plain decimal, e.g. "4700.00".
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// BRL renders the amount in the Brazilian format used by the interface,
// e.g. "R$ 1.234,56".
func (m Money) BRL() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	whole := strconv.FormatInt(c/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), c%100)
}
