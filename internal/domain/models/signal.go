package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the trade side of a signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// Strength qualifies a non-HOLD signal.
type Strength string

const (
	StrengthNone   Strength = ""
	StrengthWeak   Strength = "weak"
	StrengthStrong Strength = "strong"
)

// Factor names used in signal breakdowns.
const (
	FactorTechnical    = "technical"
	FactorEconomic     = "economic"
	FactorSentiment    = "sentiment"
	FactorGeopolitical = "geopolitical"
	FactorPattern      = "pattern"
)

// FactorScore is one analyzer's contribution to a signal.
// Score is in [-1, 1], Confidence in [0, 1].
type FactorScore struct {
	Factor     string
	Score      float64
	Confidence float64
	Details    map[string]float64
}

// Signal is a composite trading decision for one pair.
type Signal struct {
	Pair          Pair
	Direction     Direction
	Strength      Strength
	Score         float64
	Confidence    float64
	Entry         decimal.Decimal
	Target        decimal.Decimal
	StopLoss      decimal.Decimal
	TargetPips    float64
	RiskReward    float64
	AchieveProb   float64
	Factors       []FactorScore
	Coverage      float64
	Reason        string
	GeneratedAt   time.Time
	PriceSources  int
	PriceVariance float64
}

// Actionable reports whether the signal proposes a trade.
func (s *Signal) Actionable() bool {
	return s.Direction == DirectionBuy || s.Direction == DirectionSell
}

// BatchItem is one pair's outcome in a batch generation run.
type BatchItem struct {
	Pair   Pair
	Signal *Signal
	Err    string
}

// BatchResult reports a batch generation run across many pairs.
type BatchResult struct {
	Requested int
	Succeeded int
	Failed    int
	Items     []BatchItem
	StartedAt time.Time
	Elapsed   time.Duration
}
