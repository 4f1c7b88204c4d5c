// Package bot runs the fleet: one concurrent session per token, all sharing
// the same store, gate, limiter and command set, plus the maintenance scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Bot manages the lifecycle of every session and the scheduler.
type Bot struct {
	logger    *slog.Logger
	sessions  []*Session
	scheduler *Scheduler
}

// NewBot creates the orchestrator. scheduler may be nil.
func NewBot(log *slog.Logger, sessions []*Session, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    log.With("component", "bot_orchestrator"),
		sessions:  sessions,
		scheduler: scheduler,
	}
}

// Run starts every session concurrently and blocks until ctx is cancelled or
// every session has ended. A failing session is logged and never cancels the
// others. Run returns an error only when every session failed.
func (b *Bot) Run(ctx context.Context) error {
	if len(b.sessions) == 0 {
		return errors.New("no sessions to run")
	}

	b.logger.Info("Starting bot orchestrator...", "sessions", len(b.sessions))

	var g errgroup.Group
	var failed atomic.Int32

	for _, s := range b.sessions {
		g.Go(func() error {
			if err := s.Run(ctx); err != nil {
				failed.Add(1)
				s.logger.Error("Session ended with error", "error", err)
			}
			return nil
		})
	}

	if b.scheduler != nil {
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
		}
	}

	_ = g.Wait()

	if b.scheduler != nil {
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
	}

	if n := int(failed.Load()); n == len(b.sessions) && ctx.Err() == nil {
		return fmt.Errorf("all %d sessions failed", n)
	}

	b.logger.Info("Bot orchestrator stopped.", "failed_sessions", failed.Load())
	return nil
}
