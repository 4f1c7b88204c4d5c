package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintworld/sb/internal/bot/tasks"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseTokens(t *testing.T) {
	tokens, err := ParseTokens(strings.NewReader("111:aaa\n\n  222:bbb  \n\t\n333:ccc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"111:aaa", "222:bbb", "333:ccc"}, tokens)
}

func TestLoadTokens(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "tokens.txt")
	require.NoError(t, os.WriteFile(path, []byte("111:aaa\n\n222:bbb\n"), 0o600))
	tokens, err := LoadTokens(path)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o600))
	_, err = LoadTokens(empty)
	require.Error(t, err)

	_, err = LoadTokens(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

// blockingRunner serves until ctx is cancelled.
type blockingRunner struct {
	started chan struct{}
}

func (r *blockingRunner) Start(ctx context.Context) {
	close(r.started)
	<-ctx.Done()
}

func newTestSession(index int, token string, dial Dialer, maxTries uint) *Session {
	s := NewSession(index, token, dial, maxTries, discard)
	s.newBack = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return s
}

func TestSessionRetriesConnect(t *testing.T) {
	var calls atomic.Int32
	runner := &blockingRunner{started: make(chan struct{})}
	dial := func(context.Context, string) (Runner, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("network unreachable")
		}
		return runner, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestSession(0, "111:aaaaaaaa", dial, 5).Run(ctx) }()

	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("session never connected")
	}
	assert.Equal(t, int32(3), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestSessionGivesUp(t *testing.T) {
	t.Run("after max tries", func(t *testing.T) {
		var calls atomic.Int32
		dial := func(context.Context, string) (Runner, error) {
			calls.Add(1)
			return nil, errors.New("network unreachable")
		}

		err := newTestSession(0, "111:aaaaaaaa", dial, 3).Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("on permanent error", func(t *testing.T) {
		var calls atomic.Int32
		dial := func(context.Context, string) (Runner, error) {
			calls.Add(1)
			return nil, backoff.Permanent(errors.New("unauthorized"))
		}

		err := newTestSession(0, "111:aaaaaaaa", dial, 5).Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestBotIsolatesSessions(t *testing.T) {
	var (
		mu      sync.Mutex
		dialed  []string
		healthy = &blockingRunner{started: make(chan struct{})}
	)
	dial := func(_ context.Context, token string) (Runner, error) {
		mu.Lock()
		dialed = append(dialed, token)
		mu.Unlock()
		if token == "bad:token000" {
			return nil, backoff.Permanent(errors.New("unauthorized"))
		}
		return healthy, nil
	}

	b := NewBot(discard, []*Session{
		newTestSession(0, "bad:token000", dial, 3),
		newTestSession(1, "good:token00", dial, 3),
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case <-healthy.started:
	case <-time.After(5 * time.Second):
		t.Fatal("healthy session never connected")
	}

	select {
	case err := <-done:
		t.Fatalf("bot stopped while a session was still healthy: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"bad:token000", "good:token00"}, dialed)
}

func TestBotAllSessionsFail(t *testing.T) {
	dial := func(context.Context, string) (Runner, error) {
		return nil, backoff.Permanent(errors.New("unauthorized"))
	}
	b := NewBot(discard, []*Session{
		newTestSession(0, "bad:token000", dial, 1),
		newTestSession(1, "bad:token111", dial, 1),
	}, nil)

	require.Error(t, b.Run(context.Background()))
	require.Error(t, NewBot(discard, nil, nil).Run(context.Background()))
}

func TestScheduler(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ran := make(chan struct{}, 1)

	s, err := NewScheduler(discard, clock, map[string]tasks.ScheduledTask{
		"tick": {Interval: time.Minute, Run: func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		}},
		"disabled": {Interval: 0, Run: func(context.Context) error { return nil }},
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.Error(t, s.Start(), "second start is rejected")

	require.Eventually(t, func() bool {
		clock.Advance(time.Minute)
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "stopping twice is a no-op")
}
