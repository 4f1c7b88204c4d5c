package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintworld/sb/internal/access"
	"github.com/osintworld/sb/internal/database"
)

const developerID = 1000

type memoryFlags struct {
	sets  map[database.FlagSet]map[int64]bool
	err   error
	calls int
}

func newMemoryFlags() *memoryFlags {
	return &memoryFlags{sets: map[database.FlagSet]map[int64]bool{}}
}

func (m *memoryFlags) add(set database.FlagSet, id int64) {
	if m.sets[set] == nil {
		m.sets[set] = map[int64]bool{}
	}
	m.sets[set][id] = true
}

func (m *memoryFlags) HasFlag(_ context.Context, set database.FlagSet, id int64) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.sets[set][id], nil
}

func TestGateDecide(t *testing.T) {
	tests := []struct {
		name  string
		actor int64
		setup func(*memoryFlags)
		want  access.Decision
	}{
		{
			name:  "developer bypasses everything",
			actor: developerID,
			setup: func(m *memoryFlags) { m.add(database.Blacklist, developerID) },
			want:  access.Developer,
		},
		{
			name:  "blacklist wins over whitelist",
			actor: 5,
			setup: func(m *memoryFlags) {
				m.add(database.Blacklist, 5)
				m.add(database.Whitelist, 5)
			},
			want: access.DeniedBlacklisted,
		},
		{
			name:  "unknown user is not authorized",
			actor: 6,
			setup: func(*memoryFlags) {},
			want:  access.DeniedNotWhitelisted,
		},
		{
			name:  "whitelisted user is allowed",
			actor: 42,
			setup: func(m *memoryFlags) { m.add(database.Whitelist, 42) },
			want:  access.Allowed,
		},
		{
			name:  "untouchable alone grants nothing",
			actor: 43,
			setup: func(m *memoryFlags) { m.add(database.Untouchable, 43) },
			want:  access.DeniedNotWhitelisted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newMemoryFlags()
			tt.setup(flags)

			got, err := access.NewGate(flags, developerID).Decide(context.Background(), tt.actor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != access.Allowed && tt.want != access.Developer, got.Denied())
		})
	}
}

func TestGateDeveloperSkipsStore(t *testing.T) {
	flags := newMemoryFlags()
	flags.err = errors.New("store down")

	got, err := access.NewGate(flags, developerID).Decide(context.Background(), developerID)
	require.NoError(t, err)
	assert.Equal(t, access.Developer, got)
	assert.Zero(t, flags.calls)
}

func TestGateStoreErrorDenies(t *testing.T) {
	flags := newMemoryFlags()
	flags.err = errors.New("store down")

	got, err := access.NewGate(flags, developerID).Decide(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, got.Denied())
}
