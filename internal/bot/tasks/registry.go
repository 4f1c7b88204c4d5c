package tasks

import (
	"context"
	"time"
)

// ScheduledTaskFunc is the signature of every scheduled task. Tasks must
// respect ctx cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// ScheduledTask pairs a task with how often it runs.
type ScheduledTask struct {
	Interval time.Duration
	Run      ScheduledTaskFunc
}

// RegisterAllTasks returns every scheduled task keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTask {
	tasks := map[string]ScheduledTask{
		"rate_counter_purge": {
			Interval: deps.Config.Scheduler.PurgeInterval,
			Run:      newRateCounterPurgeTask(deps),
		},
		"sql_maintenance": {
			Interval: deps.Config.Scheduler.MaintenanceInterval,
			Run:      newSQLMaintenanceTask(deps),
		},
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
