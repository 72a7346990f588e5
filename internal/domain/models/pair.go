package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Pair identifies a currency pair in "BASE/QUOTE" form, e.g. "EUR/USD".
type Pair string

// ParsePair normalizes raw input ("eurusd", "EUR-USD", "EUR/USD") to a Pair.
func ParsePair(raw string) (Pair, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "/")
	s = strings.ReplaceAll(s, "_", "/")
	if !strings.Contains(s, "/") && len(s) == 6 {
		s = s[:3] + "/" + s[3:]
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 || len(parts[0]) != 3 || len(parts[1]) != 3 {
		return "", fmt.Errorf("invalid currency pair %q", raw)
	}
	return Pair(s), nil
}

// Base returns the base currency code.
func (p Pair) Base() string {
	if i := strings.IndexByte(string(p), '/'); i > 0 {
		return string(p)[:i]
	}
	return string(p)
}

// Quote returns the quote currency code.
func (p Pair) Quote() string {
	if i := strings.IndexByte(string(p), '/'); i >= 0 && i < len(p)-1 {
		return string(p)[i+1:]
	}
	return ""
}

func (p Pair) String() string { return string(p) }

// PipSize returns the pip increment for the pair. Pairs quoted in JPY
// use a two-decimal pip, everything else four decimals.
func (p Pair) PipSize() decimal.Decimal {
	if p.Quote() == "JPY" {
		return decimal.New(1, -2)
	}
	return decimal.New(1, -4)
}

// priceRange is a sanity window for quotes of a pair.
type priceRange struct {
	lo, hi float64
}

var knownRanges = map[Pair]priceRange{
	"EUR/USD": {0.8, 1.6},
	"GBP/USD": {1.0, 2.0},
	"USD/JPY": {75, 200},
	"USD/CHF": {0.7, 1.3},
	"AUD/USD": {0.4, 1.2},
	"USD/CAD": {1.0, 1.8},
	"NZD/USD": {0.4, 1.0},
	"EUR/GBP": {0.6, 1.1},
	"EUR/JPY": {90, 220},
	"GBP/JPY": {120, 280},
}

// PriceInRange reports whether price falls inside the sanity window for
// the pair. Pairs without a known window accept any positive price.
func (p Pair) PriceInRange(price float64) bool {
	if price <= 0 {
		return false
	}
	r, ok := knownRanges[p]
	if !ok {
		return true
	}
	return price >= r.lo && price <= r.hi
}
