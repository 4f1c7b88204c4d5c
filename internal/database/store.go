package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations shared by every session.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AddFlag puts userID into set. It reports whether the user was newly added;
	// adding an existing member is not an error.
	AddFlag(ctx context.Context, set FlagSet, userID int64) (bool, error)

	// RemoveFlag deletes userID from set and reports whether a record existed.
	RemoveFlag(ctx context.Context, set FlagSet, userID int64) (bool, error)

	// HasFlag reports whether userID is a member of set.
	HasFlag(ctx context.Context, set FlagSet, userID int64) (bool, error)

	// HitRateCounter records one invocation of command by userID at now and
	// reports whether the call exceeds quota. Purge, lookup and update run in
	// one transaction.
	HitRateCounter(ctx context.Context, userID int64, command string, now time.Time, quota RateQuota) (bool, error)

	// GetRateCounter returns the counter for (userID, command), or nil if none exists.
	GetRateCounter(ctx context.Context, userID int64, command string) (*RateCounter, error)

	// PurgeRateCounters deletes counters last used before cutoff.
	PurgeRateCounters(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) AddFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := set.Validate(); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`INSERT OR IGNORE INTO %s (user_id, created_at) VALUES (?, ?)`, set)
	res, err := s.db.ExecContext(ctx, query, userID, time.Now().UTC().UnixMilli())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add flag", "set", set, "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to add user %d to %s: %w", userID, set, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	s.logger.DebugContext(ctx, "Flag added", "set", set, "user_id", userID, "inserted", n > 0)
	return n > 0, nil
}

func (s *sqlxStore) RemoveFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := set.Validate(); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, set)
	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove flag", "set", set, "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to remove user %d from %s: %w", userID, set, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	s.logger.DebugContext(ctx, "Flag removed", "set", set, "user_id", userID, "existed", n > 0)
	return n > 0, nil
}

func (s *sqlxStore) HasFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := set.Validate(); err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = ?)`, set)
	if err := s.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("failed to look up user %d in %s: %w", userID, set, err)
	}
	return exists, nil
}

func (s *sqlxStore) HitRateCounter(ctx context.Context, userID int64, command string, now time.Time, quota RateQuota) (limited bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	nowMS := now.UnixMilli()
	windowMS := quota.Window.Milliseconds()

	if _, err = tx.ExecContext(ctx, `DELETE FROM rate_limit WHERE last_used_ms < ?`, nowMS-windowMS); err != nil {
		return false, fmt.Errorf("failed to purge rate counters: %w", err)
	}

	var counter RateCounter
	err = tx.GetContext(ctx, &counter,
		`SELECT user_id, command, count, last_used_ms FROM rate_limit WHERE user_id = ? AND command = ?`,
		userID, command)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rate_limit (user_id, command, count, last_used_ms) VALUES (?, ?, 1, ?)`,
			userID, command, nowMS)
	case err != nil:
		return false, fmt.Errorf("failed to read rate counter: %w", err)
	case nowMS-counter.LastUsedMS < windowMS:
		if counter.Count >= quota.MaxCalls {
			limited = true
			break
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE rate_limit SET count = count + 1, last_used_ms = ? WHERE user_id = ? AND command = ?`,
			nowMS, userID, command)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE rate_limit SET count = 1, last_used_ms = ? WHERE user_id = ? AND command = ?`,
			nowMS, userID, command)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update rate counter: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit rate counter: %w", err)
	}
	return limited, nil
}

func (s *sqlxStore) GetRateCounter(ctx context.Context, userID int64, command string) (*RateCounter, error) {
	var counter RateCounter
	err := s.db.GetContext(ctx, &counter,
		`SELECT user_id, command, count, last_used_ms FROM rate_limit WHERE user_id = ? AND command = ?`,
		userID, command)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rate counter: %w", err)
	}
	return &counter, nil
}

func (s *sqlxStore) PurgeRateCounters(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rate_limit WHERE last_used_ms < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge rate counters: %w", err)
	}
	return res.RowsAffected()
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running SQL maintenance")
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}
	return nil
}
