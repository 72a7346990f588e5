package models

import "time"

// Quote is a single price observation from one provider.
type Quote struct {
	Pair      Pair
	Price     float64
	Bid       float64
	Ask       float64
	Provider  string
	Timestamp time.Time
}

// Candle represents an OHLC record for one timeframe bucket.
type Candle struct {
	Bucket time.Time
	Pair   Pair
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IndicatorType classifies an economic indicator.
type IndicatorType string

const (
	IndInterestRate IndicatorType = "interest_rate"
	IndGDPGrowth    IndicatorType = "gdp_growth"
	IndInflation    IndicatorType = "inflation"
	IndUnemployment IndicatorType = "unemployment"
	IndTradeBalance IndicatorType = "trade_balance"
)

// EconomicIndicator is one published macro reading for a currency.
type EconomicIndicator struct {
	Currency string
	Type     IndicatorType
	Value    float64
	Period   string
	Source   string
	Released time.Time
}

// NewsItem is a single news article relevant to a pair.
type NewsItem struct {
	Title       string
	Summary     string
	Source      string
	PublishedAt time.Time
}

// Relevance buckets for geopolitical events.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// GeoEvent is a geopolitical event with a tone score from the source feed.
// Tone follows the GDELT convention, roughly [-10, 10].
type GeoEvent struct {
	Description string
	Tone        float64
	Relevance   Relevance
	Country     string
	Timestamp   time.Time
}

// ValidatedPrice is the outcome of cross-source price validation.
type ValidatedPrice struct {
	Pair       Pair
	Price      float64
	Sources    int
	Excluded   int
	Variance   float64
	Confidence float64
	Quotes     []Quote
	Timestamp  time.Time
}
