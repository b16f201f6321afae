package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/undercover/internal/models"
)

func seenAt(t time.Time) *time.Time {
	return &t
}

func TestHostIsStale(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	timeout := 30 * time.Second

	tests := []struct {
		name  string
		host  *models.Player
		stale bool
	}{
		{name: "missing", host: nil, stale: true},
		{name: "never seen", host: &models.Player{IsAlive: true}, stale: true},
		{name: "eliminated", host: &models.Player{IsAlive: false, LastSeenAt: seenAt(now)}, stale: true},
		{name: "timed out", host: &models.Player{IsAlive: true, LastSeenAt: seenAt(now.Add(-31 * time.Second))}, stale: true},
		{name: "at the limit", host: &models.Player{IsAlive: true, LastSeenAt: seenAt(now.Add(-timeout))}, stale: false},
		{name: "fresh", host: &models.Player{IsAlive: true, LastSeenAt: seenAt(now.Add(-time.Second))}, stale: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, HostIsStale(tt.host, now, timeout))
		})
	}
}

func TestPickHostCandidate(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	timeout := 30 * time.Second
	joined := now.Add(-time.Hour)

	players := []models.Player{
		{ID: uuid.New(), GuestID: "dead", IsAlive: false, LastSeenAt: seenAt(now), CreatedAt: joined},
		{ID: uuid.New(), GuestID: "stale", IsAlive: true, LastSeenAt: seenAt(now.Add(-time.Minute)), CreatedAt: joined},
		{ID: uuid.New(), GuestID: "never", IsAlive: true, CreatedAt: joined},
		{ID: uuid.New(), GuestID: "older", IsAlive: true, LastSeenAt: seenAt(now.Add(-10 * time.Second)), CreatedAt: joined},
		{ID: uuid.New(), GuestID: "newest", IsAlive: true, LastSeenAt: seenAt(now.Add(-2 * time.Second)), CreatedAt: joined},
	}

	got := PickHostCandidate(players, now, timeout)
	require.NotNil(t, got)
	assert.Equal(t, "newest", got.GuestID)

	assert.Nil(t, PickHostCandidate(players[:3], now, timeout), "no alive fresh player")
}

func TestPickHostCandidateTieBreak(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	players := []models.Player{
		{ID: uuid.New(), GuestID: "late", IsAlive: true, LastSeenAt: seenAt(now), CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.New(), GuestID: "early", IsAlive: true, LastSeenAt: seenAt(now), CreatedAt: now.Add(-time.Hour)},
	}

	got := PickHostCandidate(players, now, time.Minute)
	require.NotNil(t, got)
	assert.Equal(t, "early", got.GuestID)
}
