package handlers

import (
	"log/slog"

	"github.com/osintworld/sb/internal/access"
	"github.com/osintworld/sb/internal/config"
	"github.com/osintworld/sb/internal/database"
	"github.com/osintworld/sb/internal/ratelimit"
)

// HandlerDeps provides dependencies for command handlers. One value is
// shared by every session.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Gate    *access.Gate
	Limiter *ratelimit.Limiter
}
