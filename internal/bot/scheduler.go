package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/osintworld/sb/internal/bot/tasks"
)

// Scheduler runs the maintenance tasks on fixed intervals using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	taskMap   map[string]tasks.ScheduledTask
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for taskMap. A nil clock uses the real clock.
func NewScheduler(logger *slog.Logger, clock clockwork.Clock, taskMap map[string]tasks.ScheduledTask) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		taskMap:   taskMap,
	}, nil
}

// Start registers every task with a positive interval and starts ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	for name, task := range s.taskMap {
		if task.Run == nil || task.Interval <= 0 {
			s.logger.Warn("Skipping task without function or interval", "task_name", name)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.DurationJob(task.Interval),
			gocron.NewTask(s.wrap(name, task.Run), context.Background()),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", name, "interval", task.Interval, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", name, "interval", task.Interval)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

func (s *Scheduler) wrap(name string, run tasks.ScheduledTaskFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		startTime := time.Now()
		if err := run(ctx); err != nil {
			s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
			return
		}
		s.logger.Debug("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
	}
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
