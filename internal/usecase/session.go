package usecase

import "time"

// Trading-session volatility multipliers, keyed off UTC hour. The
// London/New York overlap is the most volatile window; the Asian
// session the quietest.
const (
	asianMultiplier    = 0.8
	londonMultiplier   = 1.2
	newYorkMultiplier  = 1.1
	overlapMultiplier  = 1.3
	offHoursMultiplier = 1.0
)

// sessionMultiplier returns the volatility multiplier for the session
// active at t (UTC).
func sessionMultiplier(t time.Time) float64 {
	h := t.UTC().Hour()
	switch {
	case h >= 13 && h < 17:
		// London and New York both open
		return overlapMultiplier
	case h >= 8 && h < 13:
		return londonMultiplier
	case h >= 17 && h < 22:
		return newYorkMultiplier
	case h >= 0 && h < 8:
		return asianMultiplier
	default:
		return offHoursMultiplier
	}
}
