// Package tasks implements the background maintenance jobs that keep the
// shared store tidy.
package tasks

import (
	"log/slog"

	"github.com/osintworld/sb/internal/config"
	"github.com/osintworld/sb/internal/database"
	"github.com/osintworld/sb/internal/ratelimit"
)

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Limiter *ratelimit.Limiter
	Config  *config.Config
}
