package revision

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker()
	room := uuid.New()

	rev, err := tracker.Current(ctx, room)
	require.NoError(t, err)
	assert.Zero(t, rev)

	rev, err = tracker.Bump(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	rev, err = tracker.Bump(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	other, err := tracker.Current(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, other)

	require.NoError(t, tracker.Forget(ctx, room))
	rev, err = tracker.Current(ctx, room)
	require.NoError(t, err)
	assert.Zero(t, rev)
}

func TestMemoryTrackerConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker()
	room := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.Bump(ctx, room)
		}()
	}
	wg.Wait()

	rev, err := tracker.Current(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, int64(50), rev)
}
