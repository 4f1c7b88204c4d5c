// Package access decides whether a user may run gated commands.
package access

import (
	"context"
	"fmt"

	"github.com/osintworld/sb/internal/database"
)

// Decision is the outcome of a gate evaluation.
type Decision int

const (
	// Allowed means the actor passed the blacklist and whitelist checks.
	Allowed Decision = iota
	// Developer means the actor is the privileged identity; every further check is skipped.
	Developer
	// DeniedBlacklisted means the actor is on the blacklist.
	DeniedBlacklisted
	// DeniedNotWhitelisted means the actor is not on the whitelist.
	DeniedNotWhitelisted
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Developer:
		return "developer"
	case DeniedBlacklisted:
		return "blacklisted"
	case DeniedNotWhitelisted:
		return "not_whitelisted"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Denied reports whether the decision blocks the command.
func (d Decision) Denied() bool {
	return d == DeniedBlacklisted || d == DeniedNotWhitelisted
}

// FlagReader is the slice of database.Store the gate needs.
type FlagReader interface {
	HasFlag(ctx context.Context, set database.FlagSet, userID int64) (bool, error)
}

// Gate evaluates, in order: developer identity, blacklist, whitelist.
type Gate struct {
	flags       FlagReader
	developerID int64
}

// NewGate returns a Gate that treats developerID as the privileged identity.
func NewGate(flags FlagReader, developerID int64) *Gate {
	return &Gate{flags: flags, developerID: developerID}
}

// IsDeveloper reports whether actorID is the privileged identity.
func (g *Gate) IsDeveloper(actorID int64) bool {
	return actorID == g.developerID
}

// Decide evaluates the gate for actorID. The first matching rule wins.
func (g *Gate) Decide(ctx context.Context, actorID int64) (Decision, error) {
	if g.IsDeveloper(actorID) {
		return Developer, nil
	}

	blacklisted, err := g.flags.HasFlag(ctx, database.Blacklist, actorID)
	if err != nil {
		return DeniedNotWhitelisted, fmt.Errorf("blacklist lookup: %w", err)
	}
	if blacklisted {
		return DeniedBlacklisted, nil
	}

	whitelisted, err := g.flags.HasFlag(ctx, database.Whitelist, actorID)
	if err != nil {
		return DeniedNotWhitelisted, fmt.Errorf("whitelist lookup: %w", err)
	}
	if !whitelisted {
		return DeniedNotWhitelisted, nil
	}

	return Allowed, nil
}
