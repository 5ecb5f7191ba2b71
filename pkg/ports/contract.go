package ports

import (
	"context"
	"testing"
	"time"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			WaterLevel:  50,
			Pressure:    10,
			Temperature: 564,
			Status:      domain.StatusNormal,
			Alarms:      []string{},
			Tick:        7,
		}

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.WaterLevel, loaded.WaterLevel)
		assert.Equal(t, snap.Status, loaded.Status)
		assert.Equal(t, snap.Tick, loaded.Tick)
	})

	t.Run("Save replaces previous snapshot", func(t *testing.T) {
		first := &domain.Snapshot{WaterLevel: 50, Status: domain.StatusNormal, Tick: 1}
		second := &domain.Snapshot{WaterLevel: 8.5, Status: domain.StatusLowLevelTrip, Tick: 2}

		require.NoError(t, store.Save(ctx, sessionID, first))
		require.NoError(t, store.Save(ctx, sessionID, second))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLowLevelTrip, loaded.Status)
		assert.Equal(t, uint64(2), loaded.Tick)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, &domain.Snapshot{Status: domain.StatusNormal})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, &domain.Snapshot{Status: domain.StatusNormal})
		_ = store.Save(ctx, id2, &domain.Snapshot{Status: domain.StatusWarning})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
