package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the scheduled task function for running database maintenance.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(startTime))
		return nil
	}
}

// newRateCounterPurgeTask deletes rate counters whose window has elapsed. The
// limiter also purges lazily on every check; this keeps idle rows from piling up.
func newRateCounterPurgeTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "rate_counter_purge")

	return func(ctx context.Context) error {
		n, err := deps.Limiter.Purge(ctx)
		if err != nil {
			return fmt.Errorf("rate counter purge failed: %w", err)
		}
		if n > 0 {
			log.DebugContext(ctx, "Purged stale rate counters", "rows", n)
		}
		return nil
	}
}
