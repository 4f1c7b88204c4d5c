package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbot "github.com/go-telegram/bot"

	"github.com/osintworld/sb/internal/bot/handlers"
	"github.com/osintworld/sb/internal/config"
	"github.com/osintworld/sb/internal/logger"
	"github.com/osintworld/sb/internal/telegram"
)

// Runner is a connected session. Start blocks until ctx is cancelled.
type Runner interface {
	Start(ctx context.Context)
}

// Dialer connects one token and returns the ready session. Errors wrapped
// with backoff.Permanent are not retried.
type Dialer func(ctx context.Context, token string) (Runner, error)

// Session owns one platform connection for one token.
type Session struct {
	index    int
	token    string
	dial     Dialer
	maxTries uint
	newBack  func() backoff.BackOff
	logger   *slog.Logger
}

// NewSession creates the session for token. index identifies it in logs.
func NewSession(index int, token string, dial Dialer, maxTries uint, log *slog.Logger) *Session {
	return &Session{
		index:    index,
		token:    token,
		dial:     dial,
		maxTries: maxTries,
		newBack:  func() backoff.BackOff { return newConnectBackOff() },
		logger:   log.With("session", index, "token_prefix", telegram.TokenPrefix(token)),
	}
}

func newConnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 2 * time.Minute
	return b
}

// Run connects, retrying with exponential backoff, then serves updates until
// ctx is cancelled. If the connection ends while ctx is still live the
// session reconnects.
func (s *Session) Run(ctx context.Context) error {
	for {
		runner, err := s.connect(ctx)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "Session connected")
		runner.Start(ctx)

		if ctx.Err() != nil {
			s.logger.InfoContext(ctx, "Session stopped")
			return nil
		}
		s.logger.WarnContext(ctx, "Session stopped unexpectedly, reconnecting")
	}
}

func (s *Session) connect(ctx context.Context) (Runner, error) {
	attempt := 0
	runner, err := backoff.Retry(ctx,
		func() (Runner, error) {
			attempt++
			return s.dial(ctx, s.token)
		},
		backoff.WithBackOff(s.newBack()),
		backoff.WithMaxTries(s.maxTries),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.WarnContext(ctx, "Session connect failed, retrying", "attempt", attempt, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("session %d: connect failed after %d attempt(s): %w", s.index, attempt, err)
	}
	return runner, nil
}

// TelegramDialer returns a Dialer that builds a go-telegram bot, registers
// commands and publishes the configured presence.
func TelegramDialer(log *slog.Logger, cfg *config.Config, commands []handlers.Command) Dialer {
	return func(ctx context.Context, token string) (Runner, error) {
		sessionLog := log.With("token_prefix", telegram.TokenPrefix(token))

		b, err := telegram.NewTelegramBot(token, sessionLog,
			tgbot.WithMiddlewares(logger.Middleware(sessionLog)),
			tgbot.WithCheckInitTimeout(cfg.Telegram.RequestTimeout),
			tgbot.WithErrorsHandler(func(err error) {
				sessionLog.Warn("Telegram polling error", "error", err)
			}),
		)
		if err != nil {
			if errors.Is(err, tgbot.ErrorUnauthorized) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if err := telegram.RegisterHandlers(b, sessionLog, commands); err != nil {
			return nil, backoff.Permanent(err)
		}

		me, err := b.GetMe(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get bot info: %w", err)
		}
		sessionLog = sessionLog.With("bot_username", me.Username)

		if err := telegram.PublishCommands(ctx, b, commands); err != nil {
			sessionLog.WarnContext(ctx, "Failed to publish command list", "error", err)
		}
		if err := telegram.SetPresence(ctx, b, cfg.Presence); err != nil {
			sessionLog.WarnContext(ctx, "Failed to set presence", "error", err)
		}

		sessionLog.InfoContext(ctx, "Bot has connected", "bot_id", me.ID)
		return b, nil
	}
}
