// Package main contains the entrypoint for the bot fleet.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/osintworld/sb/internal/access"
	"github.com/osintworld/sb/internal/bot"
	"github.com/osintworld/sb/internal/bot/handlers"
	"github.com/osintworld/sb/internal/bot/tasks"
	"github.com/osintworld/sb/internal/config"
	"github.com/osintworld/sb/internal/database"
	"github.com/osintworld/sb/internal/logger"
	"github.com/osintworld/sb/internal/ratelimit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, store, gate, limiter, scheduler and one session
// per token, then blocks until shutdown. It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	tokens, err := bot.LoadTokens(cfg.Telegram.TokensFile)
	if err != nil {
		log.Error("Failed to load tokens", "path", cfg.Telegram.TokensFile, "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)

	store := database.NewPooledStore(database.NewStore(db, log), cfg.Database.PoolSize)
	clock := clockwork.NewRealClock()
	limiter := ratelimit.New(store, clock, cfg.RateLimit.Window, cfg.RateLimit.MaxCalls, log)

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Gate:    access.NewGate(store, cfg.Telegram.DeveloperID),
		Limiter: limiter,
	}
	commands := handlers.RegisterAllCommands(hDeps)

	sched, err := bot.NewScheduler(log, clock, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:  log,
		Store:   store,
		Limiter: limiter,
		Config:  cfg,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	dial := bot.TelegramDialer(log, cfg, commands)
	sessions := make([]*bot.Session, 0, len(tokens))
	for i, token := range tokens {
		sessions = append(sessions, bot.NewSession(i, token, dial, cfg.Telegram.ConnectMaxTries, log))
	}

	log.Info("Starting bot fleet", "sessions", len(sessions), "developer_id", cfg.Telegram.DeveloperID)
	runErr := bot.NewBot(log, sessions, sched).Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot fleet stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot fleet stopped gracefully.")
	return 0
}
