package models

import "errors"

// Sentinel errors shared across the fetch and analysis layers.
// Callers match with errors.Is; wrapping adds context only.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrPriceVariance       = errors.New("price variance too high")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrConfiguration       = errors.New("invalid configuration")
)
