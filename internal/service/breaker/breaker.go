package breaker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
)

// State of a single breaker.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config tunes breaker behavior. Zero values fall back to defaults.
type Config struct {
	FailureThreshold int
	SuccessThreshold int
	RecoveryTimeout  time.Duration
	MaxCooldown      time.Duration
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 3
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 60 * time.Second
	}
	if c.MaxCooldown <= 0 {
		c.MaxCooldown = 30 * time.Minute
	}
	return c
}

type breaker struct {
	state       State
	failures    int
	successes   int
	openedAt    time.Time
	cooldown    time.Duration
	reopenCount int
}

// StateChange notifies observers when a breaker transitions.
type StateChange func(provider string, state State)

// Registry tracks one breaker per provider.
type Registry struct {
	mu       sync.Mutex
	cfg      Config
	breakers map[string]*breaker
	onChange StateChange
	now      func() time.Time
}

func NewRegistry(cfg Config, onChange StateChange) *Registry {
	return &Registry{
		cfg:      cfg.withDefaults(),
		breakers: make(map[string]*breaker),
		onChange: onChange,
		now:      time.Now,
	}
}

// Do runs fn under the provider's breaker. Calls rejected while open
// return ErrProviderUnavailable without invoking fn.
func (r *Registry) Do(ctx context.Context, provider string, fn func(ctx context.Context) error) error {
	if !r.Admit(provider) {
		return fmt.Errorf("%s circuit open: %w", provider, models.ErrProviderUnavailable)
	}
	err := fn(ctx)
	if err != nil {
		r.RecordFailure(provider)
		return err
	}
	r.RecordSuccess(provider)
	return nil
}

// Admit reports whether a call may proceed, moving an expired open
// breaker to half-open.
func (r *Registry) Admit(provider string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.breakerFor(provider)
	switch b.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if r.now().Sub(b.openedAt) >= b.cooldown {
			r.transition(provider, b, StateHalfOpen)
			b.successes = 0
			return true
		}
		return false
	}
	return false
}

// RecordSuccess feeds a successful call result back.
func (r *Registry) RecordSuccess(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.breakerFor(provider)
	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= r.cfg.SuccessThreshold {
			r.transition(provider, b, StateClosed)
			b.failures = 0
			b.reopenCount = 0
		}
	}
}

// RecordFailure feeds a failed call result back.
func (r *Registry) RecordFailure(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.breakerFor(provider)
	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= r.cfg.FailureThreshold {
			r.open(provider, b)
		}
	case StateHalfOpen:
		r.open(provider, b)
	}
}

// StateOf returns the provider's current state.
func (r *Registry) StateOf(provider string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.breakerFor(provider).state
}

func (r *Registry) open(provider string, b *breaker) {
	// each re-open doubles the cooldown, factor capped at 8, total at MaxCooldown
	factor := math.Min(math.Pow(2, float64(b.reopenCount)), 8)
	cooldown := time.Duration(float64(r.cfg.RecoveryTimeout) * factor)
	if cooldown > r.cfg.MaxCooldown {
		cooldown = r.cfg.MaxCooldown
	}
	b.cooldown = cooldown
	b.openedAt = r.now()
	b.reopenCount++
	b.failures = 0
	r.transition(provider, b, StateOpen)
}

func (r *Registry) transition(provider string, b *breaker, to State) {
	if b.state == to {
		return
	}
	b.state = to
	if r.onChange != nil {
		r.onChange(provider, to)
	}
}

func (r *Registry) breakerFor(provider string) *breaker {
	b, ok := r.breakers[provider]
	if !ok {
		b = &breaker{state: StateClosed, cooldown: r.cfg.RecoveryTimeout}
		r.breakers[provider] = b
	}
	return b
}
