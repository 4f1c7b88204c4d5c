// Package ratelimit enforces a per-user, per-command call quota over a
// fixed window. Counters live in the shared store so every session sees
// the same budget.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osintworld/sb/internal/database"
)

// CounterStore is the slice of database.Store the limiter needs.
type CounterStore interface {
	HitRateCounter(ctx context.Context, userID int64, command string, now time.Time, quota database.RateQuota) (bool, error)
	PurgeRateCounters(ctx context.Context, cutoff time.Time) (int64, error)
}

// Limiter decides whether a (user, command) pair has used up its quota.
type Limiter struct {
	store  CounterStore
	clock  clockwork.Clock
	quota  database.RateQuota
	logger *slog.Logger
}

// New returns a Limiter allowing maxCalls per window. A nil clock uses the real clock.
func New(store CounterStore, clock clockwork.Clock, window time.Duration, maxCalls int, logger *slog.Logger) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		store:  store,
		clock:  clock,
		quota:  database.RateQuota{Window: window, MaxCalls: maxCalls},
		logger: logger.With("component", "rate_limiter"),
	}
}

// Check records a call and returns true when the caller is rate limited.
// Limited calls are not counted.
func (l *Limiter) Check(ctx context.Context, userID int64, command string) (bool, error) {
	limited, err := l.store.HitRateCounter(ctx, userID, command, l.clock.Now(), l.quota)
	if err != nil {
		return false, fmt.Errorf("rate limit check for user %d command %s: %w", userID, command, err)
	}
	if limited {
		l.logger.InfoContext(ctx, "Rate limit exceeded", "user_id", userID, "command", command)
	}
	return limited, nil
}

// Purge deletes counters whose window has fully elapsed.
func (l *Limiter) Purge(ctx context.Context) (int64, error) {
	return l.store.PurgeRateCounters(ctx, l.clock.Now().Add(-l.quota.Window))
}
