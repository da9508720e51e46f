// Package types - Shared value types
package types

import "strings"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Valid reports whether the currency is one the marketplace settles in
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR:
		return true
	}
	return false
}

// ParseCurrency normalizes a currency code; empty selects USD
func ParseCurrency(s string) (Currency, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CurrencyUSD, true
	}
	c := Currency(s)
	return c, c.Valid()
}
