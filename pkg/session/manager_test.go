package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/drumtwinlabs/drumtwin/pkg/adapters/memory"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/physics"
	"github.com/drumtwinlabs/drumtwin/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*session.Manager, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return session.NewManager(physics.DefaultConstants(), store), store
}

func step(ctx context.Context, b *physics.Boiler) (domain.Snapshot, error) {
	return b.Tick(30, physics.NominalStep), nil
}

func TestManager_CreateOnDemand(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	snap, err := m.WithBoiler(ctx, session.DefaultSessionID, step)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Tick)

	assert.Contains(t, m.List(ctx), session.DefaultSessionID)
}

func TestManager_CreateGeneratesID(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	id, err := m.Create(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	snap, err := m.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.DefaultInitial().WaterLevel, snap.WaterLevel)
	assert.Equal(t, uint64(0), snap.Tick)
}

func TestManager_CreateExistingIsNoop(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.WithBoiler(ctx, "s1", step)
	require.NoError(t, err)

	id, err := m.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	snap, err := m.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Tick, "re-creating must not reset the session")
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.WithBoiler(ctx, "busy", step)
		require.NoError(t, err)
	}
	_, err := m.WithBoiler(ctx, "quiet", step)
	require.NoError(t, err)

	busy, err := m.State(ctx, "busy")
	require.NoError(t, err)
	quiet, err := m.State(ctx, "quiet")
	require.NoError(t, err)

	assert.Equal(t, uint64(3), busy.Tick)
	assert.Equal(t, uint64(1), quiet.Tick)
}

func TestManager_WithBoilerSerializesWriters(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	const goroutines = 8
	const stepsEach = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < stepsEach; j++ {
				_, err := m.WithBoiler(ctx, "shared", step)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	snap, err := m.State(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, uint64(goroutines*stepsEach), snap.Tick, "every tick must be counted exactly once")
}

func TestManager_PublishesSnapshots(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	want, err := m.WithBoiler(ctx, "mirrored", step)
	require.NoError(t, err)

	got, err := store.Load(ctx, "mirrored")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestManager_WithBoilerErrorSkipsPublish(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	_, err := m.WithBoiler(ctx, "failing", func(ctx context.Context, b *physics.Boiler) (domain.Snapshot, error) {
		b.Tick(30, physics.NominalStep)
		return domain.Snapshot{}, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = store.Load(ctx, "failing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_StateUnknownSession(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.State(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = m.History(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_History(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.WithBoiler(ctx, "s", step)
		require.NoError(t, err)
	}

	hist, err := m.History(ctx, "s")
	require.NoError(t, err)
	require.Len(t, hist, 5)
	for i, snap := range hist {
		assert.Equal(t, uint64(i+1), snap.Tick)
	}
}

func TestManager_Delete(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	_, err := m.WithBoiler(ctx, "doomed", step)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "doomed"))

	_, err = m.State(ctx, "doomed")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Load(ctx, "doomed")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, m.Delete(ctx, "doomed"), domain.ErrSessionNotFound)
}

func TestManager_WithInitial(t *testing.T) {
	store := memory.NewStore()
	m := session.NewManager(physics.DefaultConstants(), store,
		session.WithInitial(session.Initial{WaterLevel: 70, Pressure: 12, Temperature: 545}))

	id, err := m.Create(context.Background(), "warm")
	require.NoError(t, err)

	snap, err := m.State(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 70.0, snap.WaterLevel)
	assert.Equal(t, 12.0, snap.Pressure)
	assert.Equal(t, 545.0, snap.Temperature)
}
