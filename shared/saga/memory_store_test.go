package saga

import (
	"context"
	"testing"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInstanceStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryInstanceStore()

	instance := NewInstance("test", models.GenerateUUID())

	require.NoError(t, store.Save(ctx, instance, 0))
	assert.Equal(t, 1, instance.Version)

	loaded, found, err := store.Load(ctx, instance.SagaID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, instance.SagaID, loaded.SagaID)
	assert.Equal(t, 1, loaded.Version)

	// Load returns a copy detached from the stored state.
	loaded.Data["mutated"] = true
	again, _, err := store.Load(ctx, instance.SagaID)
	require.NoError(t, err)
	assert.NotContains(t, again.Data, "mutated")

	_, found, err = store.Load(ctx, models.GenerateUUID())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryInstanceStore_SaveConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryInstanceStore()

	instance := NewInstance("test", models.GenerateUUID())
	require.NoError(t, store.Save(ctx, instance, 0))

	// Duplicate insert of the same saga id loses.
	duplicate := NewInstance("test", instance.SagaID)
	assert.ErrorIs(t, store.Save(ctx, duplicate, 0), ErrConflict)

	// Update against a stale version loses.
	stale := instance.Clone()
	assert.ErrorIs(t, store.Save(ctx, stale, 3), ErrConflict)

	// Update against the current version wins and bumps the version.
	current := instance.Clone()
	current.Status = StatusInProgress
	require.NoError(t, store.Save(ctx, current, 1))
	assert.Equal(t, 2, current.Version)

	loaded, _, err := store.Load(ctx, instance.SagaID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, loaded.Status)
	assert.Equal(t, 2, loaded.Version)
}

func TestMemoryInstanceStore_ScanExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryInstanceStore()
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	expired := NewInstance("test", models.GenerateUUID())
	expired.Status = StatusInProgress
	expired.DeadlineAt = &past
	require.NoError(t, store.Save(ctx, expired, 0))

	alive := NewInstance("test", models.GenerateUUID())
	alive.DeadlineAt = &future
	require.NoError(t, store.Save(ctx, alive, 0))

	done := NewInstance("test", models.GenerateUUID())
	done.Status = StatusCompleted
	done.DeadlineAt = &past
	require.NoError(t, store.Save(ctx, done, 0))

	found, err := store.ScanExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, expired.SagaID, found[0].SagaID)
}

func TestMemoryInstanceStore_FindByStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryInstanceStore()

	for i := 0; i < 3; i++ {
		instance := NewInstance("test", models.GenerateUUID())
		instance.Status = StatusInProgress
		require.NoError(t, store.Save(ctx, instance, 0))
	}
	completed := NewInstance("test", models.GenerateUUID())
	completed.Status = StatusCompleted
	require.NoError(t, store.Save(ctx, completed, 0))

	matches, err := store.FindByStatus(ctx, StatusInProgress, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	limited, err := store.FindByStatus(ctx, StatusInProgress, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := store.FindByStatus(ctx, StatusTimedOut, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
