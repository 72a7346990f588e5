package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePairNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want Pair
	}{
		{"EUR/USD", "EUR/USD"},
		{"eurusd", "EUR/USD"},
		{"EUR-USD", "EUR/USD"},
		{"eur_usd", "EUR/USD"},
		{"  gbp/jpy ", "GBP/JPY"},
	}
	for _, tc := range cases {
		got, err := ParsePair(tc.in)
		if err != nil {
			t.Fatalf("ParsePair(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePair(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePairInvalid(t *testing.T) {
	for _, in := range []string{"", "EUR", "EURUS", "EUR/US", "EUR/USDX", "E/U", "EUR//USD"} {
		if _, err := ParsePair(in); err == nil {
			t.Fatalf("ParsePair(%q): expected error", in)
		}
	}
}

func TestPairBaseQuote(t *testing.T) {
	p := Pair("EUR/USD")
	if p.Base() != "EUR" || p.Quote() != "USD" {
		t.Fatalf("base/quote = %q/%q, want EUR/USD", p.Base(), p.Quote())
	}
}

func TestPipSize(t *testing.T) {
	if !Pair("EUR/USD").PipSize().Equal(decimal.New(1, -4)) {
		t.Fatalf("EUR/USD pip = %v, want 0.0001", Pair("EUR/USD").PipSize())
	}
	if !Pair("USD/JPY").PipSize().Equal(decimal.New(1, -2)) {
		t.Fatalf("USD/JPY pip = %v, want 0.01", Pair("USD/JPY").PipSize())
	}
}

func TestPriceInRange(t *testing.T) {
	if !Pair("EUR/USD").PriceInRange(1.10) {
		t.Fatal("1.10 should be in range for EUR/USD")
	}
	if Pair("EUR/USD").PriceInRange(2.5) {
		t.Fatal("2.5 should be out of range for EUR/USD")
	}
	if Pair("EUR/USD").PriceInRange(0) {
		t.Fatal("non-positive price never in range")
	}
	// pairs without a configured window accept any positive price
	if !Pair("SEK/NOK").PriceInRange(123.45) {
		t.Fatal("unknown pair should accept positive price")
	}
}
