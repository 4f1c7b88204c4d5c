package database

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// pooledStore bounds how many store operations run at once across all
// sessions. Callers block until a slot is free or ctx is done.
type pooledStore struct {
	next Store
	sem  *semaphore.Weighted
}

// NewPooledStore wraps next so that at most size operations are in flight.
func NewPooledStore(next Store, size int64) Store {
	if size < 1 {
		size = 1
	}
	return &pooledStore{next: next, sem: semaphore.NewWeighted(size)}
}

func (p *pooledStore) acquire(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("store pool: %w", err)
	}
	return nil
}

func (p *pooledStore) Ping(ctx context.Context) error {
	if err := p.acquire(ctx); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return p.next.Ping(ctx)
}

func (p *pooledStore) AddFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.next.AddFlag(ctx, set, userID)
}

func (p *pooledStore) RemoveFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.next.RemoveFlag(ctx, set, userID)
}

func (p *pooledStore) HasFlag(ctx context.Context, set FlagSet, userID int64) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.next.HasFlag(ctx, set, userID)
}

func (p *pooledStore) HitRateCounter(ctx context.Context, userID int64, command string, now time.Time, quota RateQuota) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.next.HitRateCounter(ctx, userID, command, now, quota)
}

func (p *pooledStore) GetRateCounter(ctx context.Context, userID int64, command string) (*RateCounter, error) {
	if err := p.acquire(ctx); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)
	return p.next.GetRateCounter(ctx, userID, command)
}

func (p *pooledStore) PurgeRateCounters(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := p.acquire(ctx); err != nil {
		return 0, err
	}
	defer p.sem.Release(1)
	return p.next.PurgeRateCounters(ctx, cutoff)
}

func (p *pooledStore) RunSQLMaintenance(ctx context.Context) error {
	if err := p.acquire(ctx); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return p.next.RunSQLMaintenance(ctx)
}
