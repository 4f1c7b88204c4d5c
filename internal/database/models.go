package database

import (
	"fmt"
	"time"
)

// FlagSet names one of the independent user sets kept by the store.
type FlagSet string

// Flag sets. Each maps to a table of the same name.
const (
	Blacklist   FlagSet = "blacklist"
	Whitelist   FlagSet = "whitelist"
	Untouchable FlagSet = "untouchable"
)

// FlagSets lists every known set.
var FlagSets = []FlagSet{Blacklist, Whitelist, Untouchable}

// Validate rejects names that are not one of the known sets. The set name is
// interpolated as a table name, so this must run before any query.
func (f FlagSet) Validate() error {
	switch f {
	case Blacklist, Whitelist, Untouchable:
		return nil
	default:
		return fmt.Errorf("unknown flag set %q", string(f))
	}
}

// RateCounter is one row of the rate_limit table.
type RateCounter struct {
	UserID     int64  `db:"user_id"`
	Command    string `db:"command"`
	Count      int    `db:"count"`
	LastUsedMS int64  `db:"last_used_ms"`
}

// LastUsed returns LastUsedMS as a time.
func (c RateCounter) LastUsed() time.Time {
	return time.UnixMilli(c.LastUsedMS)
}

// RateQuota describes the limit applied by Store.HitRateCounter.
type RateQuota struct {
	Window   time.Duration
	MaxCalls int
}
