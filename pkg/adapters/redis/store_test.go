package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/drumtwinlabs/drumtwin/pkg/adapters/redis"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	snap := &domain.Snapshot{WaterLevel: 50, Pressure: 10, Status: domain.StatusNormal}
	require.NoError(t, store.Save(ctx, "session-ttl", snap))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Fast-forward miniredis past the TTL; the key expires.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Index pruning uses time.Now(), so wait out the TTL in real time too.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:twin:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-session", &domain.Snapshot{Status: domain.StatusNormal}))

	assert.True(t, mr.Exists("custom:twin:my-session"), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:twin:index"), "expected index with custom prefix")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")
}
