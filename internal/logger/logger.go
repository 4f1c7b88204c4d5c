// Package logger provides structured logging for the bot fleet.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a new slog Logger writing to stdout.
// format is "json" or "text"; unknown levels fall back to info.
func NewLogger(levelStr, format string) *slog.Logger {
	return newLogger(os.Stdout, levelStr, format)
}

func newLogger(w io.Writer, levelStr, format string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Middleware creates a logging middleware for one Telegram session.
// It logs every incoming update together with how long handling took.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With("update_id", update.ID)

			if update.Message != nil {
				var userID int64
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				logEntry = logEntry.With(
					"update_type", "message",
					"message_id", update.Message.ID,
					"chat_id", update.Message.Chat.ID,
					"user_id", userID,
					"text_preview", truncateString(update.Message.Text, 50),
				)
			} else {
				logEntry = logEntry.With("update_type", "other")
			}

			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
