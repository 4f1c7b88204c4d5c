package ratelimit_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintworld/sb/internal/database"
	"github.com/osintworld/sb/internal/ratelimit"
)

func newLimiter(t *testing.T) (*ratelimit.Limiter, *clockwork.FakeClock) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "limits.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return ratelimit.New(database.NewStore(db, nil), clock, time.Minute, 5, nil), clock
}

func TestLimiterWindow(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newLimiter(t)

	for i := 0; i < 5; i++ {
		limited, err := limiter.Check(ctx, 42, "ping")
		require.NoError(t, err)
		assert.False(t, limited, "call %d", i+1)
		clock.Advance(2 * time.Second)
	}

	limited, err := limiter.Check(ctx, 42, "ping")
	require.NoError(t, err)
	assert.True(t, limited, "sixth call inside the window")

	clock.Advance(61 * time.Second)

	limited, err = limiter.Check(ctx, 42, "ping")
	require.NoError(t, err)
	assert.False(t, limited, "window elapsed")

	for i := 0; i < 4; i++ {
		limited, err = limiter.Check(ctx, 42, "ping")
		require.NoError(t, err)
		assert.False(t, limited)
	}
	limited, err = limiter.Check(ctx, 42, "ping")
	require.NoError(t, err)
	assert.True(t, limited, "counter restarted at one after reset")
}

func TestLimiterPurge(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newLimiter(t)

	_, err := limiter.Check(ctx, 1, "ping")
	require.NoError(t, err)

	n, err := limiter.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(2 * time.Minute)
	n, err = limiter.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
