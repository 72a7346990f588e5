package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		RecoveryTimeout:  time.Minute,
		MaxCooldown:      30 * time.Minute,
	}, nil)
	r.now = func() time.Time { return base }
	return r, &base
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	r, _ := newTestRegistry(t)

	for i := 0; i < 3; i++ {
		if got := r.StateOf("p"); got != StateClosed {
			t.Fatalf("state before threshold = %s, want closed", got)
		}
		r.RecordFailure("p")
	}
	if got := r.StateOf("p"); got != StateOpen {
		t.Fatalf("state = %s, want open", got)
	}
	if r.Admit("p") {
		t.Fatal("open breaker should reject calls")
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	r, _ := newTestRegistry(t)

	r.RecordFailure("p")
	r.RecordFailure("p")
	r.RecordSuccess("p")
	r.RecordFailure("p")
	r.RecordFailure("p")
	if got := r.StateOf("p"); got != StateClosed {
		t.Fatalf("state = %s, want closed after interleaved success", got)
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	r, base := newTestRegistry(t)

	for i := 0; i < 3; i++ {
		r.RecordFailure("p")
	}
	*base = base.Add(61 * time.Second)
	if !r.Admit("p") {
		t.Fatal("expired cooldown should admit a probe")
	}
	if got := r.StateOf("p"); got != StateHalfOpen {
		t.Fatalf("state = %s, want half_open", got)
	}

	r.RecordSuccess("p")
	r.RecordSuccess("p")
	if got := r.StateOf("p"); got != StateClosed {
		t.Fatalf("state = %s, want closed after success threshold", got)
	}
}

func TestReopenDoublesCooldown(t *testing.T) {
	r, base := newTestRegistry(t)

	for i := 0; i < 3; i++ {
		r.RecordFailure("p")
	}
	*base = base.Add(61 * time.Second)
	if !r.Admit("p") {
		t.Fatal("probe should be admitted")
	}
	r.RecordFailure("p") // half-open failure reopens with doubled cooldown

	*base = base.Add(61 * time.Second)
	if r.Admit("p") {
		t.Fatal("second open period should last twice the base cooldown")
	}
	*base = base.Add(62 * time.Second)
	if !r.Admit("p") {
		t.Fatal("doubled cooldown elapsed, probe should be admitted")
	}
}

func TestDoWrapsRejection(t *testing.T) {
	r, _ := newTestRegistry(t)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		err := r.Do(context.Background(), "p", func(context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	}

	err := r.Do(context.Background(), "p", func(context.Context) error { return nil })
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}
