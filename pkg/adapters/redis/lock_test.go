package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/drumtwinlabs/drumtwin/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)
	locker := redis.NewLocker(client, "drumtwin:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "session-a", 5*time.Second)
	require.NoError(t, err)

	// A second holder must block until the first releases.
	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		unlock2, err := locker.Lock(ctx, "session-a", 5*time.Second)
		assert.NoError(t, err)
		close(acquired)
		_ = unlock2(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))
	wg.Wait()
	<-acquired
}

func TestLocker_ContextCancelAbortsWait(t *testing.T) {
	_, client := newTestClient(t)
	locker := redis.NewLocker(client, "drumtwin:")

	unlock, err := locker.Lock(context.Background(), "session-b", 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "session-b", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_IndependentKeysDoNotContend(t *testing.T) {
	_, client := newTestClient(t)
	locker := redis.NewLocker(client, "drumtwin:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "session-a", 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	done := make(chan struct{})
	go func() {
		unlockB, err := locker.Lock(ctx, "session-b", 5*time.Second)
		assert.NoError(t, err)
		_ = unlockB(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on independent key should not block")
	}
}
