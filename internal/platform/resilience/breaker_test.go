package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_TripsAndRecovers(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow: %v", err)
	}

	b.RecordFailure()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("one failure should stay closed, got %s", got)
	}

	b.RecordFailure()
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open after threshold, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("open breaker should reject, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should pass after timeout: %v", err)
	}
	if got := b.State(); got != BreakerHalfOpen {
		t.Fatalf("expected half-open, got %s", got)
	}

	b.RecordSuccess()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("successful probe should close, got %s", got)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should pass: %v", err)
	}

	b.RecordFailure()
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("failed probe should reopen, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("reopened breaker should reject, got %v", err)
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("second concurrent probe should be rejected, got %v", err)
	}
}
