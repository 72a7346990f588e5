package ratelimit

import (
	"sync"
	"time"
)

// Budget is the per-provider call allowance.
type Budget struct {
	CallsPerDay    int
	CallsPerMinute int
}

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time

	dayCount int
	dayStart time.Time // UTC midnight of the current window
}

// Usage is a read-only snapshot of one provider's consumption.
type Usage struct {
	DayUsed      int
	DayLimit     int
	MinuteTokens float64
}

// Limiter enforces a fixed daily window plus a token-bucket minute rate
// per provider.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*bucket
	budgets map[string]Budget
	now     func() time.Time
}

func New(budgets map[string]Budget) *Limiter {
	return &Limiter{
		m:       make(map[string]*bucket),
		budgets: budgets,
		now:     time.Now,
	}
}

// Allow consumes one call for the provider if both the daily window and
// the minute bucket permit it.
func (l *Limiter) Allow(provider string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.bucketFor(provider, now)
	budget := l.budgets[provider]

	if day := now.UTC().Truncate(24 * time.Hour); day.After(b.dayStart) {
		b.dayStart = day
		b.dayCount = 0
	}
	if budget.CallsPerDay > 0 && b.dayCount >= budget.CallsPerDay {
		return false
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}

	b.tokens--
	b.dayCount++
	return true
}

// Reserve reports whether a call would currently be admitted without
// consuming a token.
func (l *Limiter) Reserve(provider string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.bucketFor(provider, now)
	budget := l.budgets[provider]

	if day := now.UTC().Truncate(24 * time.Hour); day.After(b.dayStart) {
		b.dayStart = day
		b.dayCount = 0
	}
	if budget.CallsPerDay > 0 && b.dayCount >= budget.CallsPerDay {
		return false
	}

	tokens := b.tokens
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		tokens += elapsed * b.refillRate
		if tokens > b.capacity {
			tokens = b.capacity
		}
	}
	return tokens >= 1
}

// Usage reports current consumption for the provider.
func (l *Limiter) Usage(provider string) Usage {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.bucketFor(provider, now)
	if day := now.UTC().Truncate(24 * time.Hour); day.After(b.dayStart) {
		b.dayStart = day
		b.dayCount = 0
	}
	return Usage{
		DayUsed:      b.dayCount,
		DayLimit:     l.budgets[provider].CallsPerDay,
		MinuteTokens: b.tokens,
	}
}

func (l *Limiter) bucketFor(provider string, now time.Time) *bucket {
	b, ok := l.m[provider]
	if ok {
		return b
	}
	budget := l.budgets[provider]
	perMin := budget.CallsPerMinute
	if perMin <= 0 {
		perMin = 60
	}
	b = &bucket{
		tokens:     float64(perMin),
		capacity:   float64(perMin),
		refillRate: float64(perMin) / 60,
		last:       now,
		dayStart:   now.UTC().Truncate(24 * time.Hour),
	}
	l.m[provider] = b
	return b
}
