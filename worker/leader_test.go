package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLeaderElector_AcquireRenewRelease(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	le := NewLeaderElector(client, "test:relay:leader", 30*time.Second, 10*time.Second, LeaderHooks{})

	assert.True(t, le.acquire(ctx))
	val, err := mr.Get("test:relay:leader")
	require.NoError(t, err)
	assert.Equal(t, le.InstanceID(), val)

	assert.True(t, le.renew(ctx))
	assert.Greater(t, mr.TTL("test:relay:leader"), time.Duration(0))

	le.release(ctx)
	assert.False(t, mr.Exists("test:relay:leader"))
}

func TestLeaderElector_LockHeldElsewhere(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	mr.Set("test:relay:leader", "other-instance")

	le := NewLeaderElector(client, "test:relay:leader", 30*time.Second, 10*time.Second, LeaderHooks{})

	assert.False(t, le.acquire(ctx))
	assert.False(t, le.renew(ctx))

	le.release(ctx)
	val, err := mr.Get("test:relay:leader")
	require.NoError(t, err)
	assert.Equal(t, "other-instance", val)
}

func TestLeaderElector_StepHooks(t *testing.T) {
	mr, client := setupTestRedis(t)

	var elected, deposed int
	le := NewLeaderElector(client, "test:relay:leader", time.Minute, 0, LeaderHooks{
		OnElected: func() { elected++ },
		OnDeposed: func() { deposed++ },
	})
	assert.Equal(t, 20*time.Second, le.interval)

	le.step()
	assert.True(t, le.IsLeader())
	assert.Equal(t, 1, elected)

	le.step()
	assert.Equal(t, 1, elected, "renewal does not re-elect")

	mr.Set("test:relay:leader", "usurper")
	le.step()
	assert.False(t, le.IsLeader())
	assert.Equal(t, 1, deposed)
}

func TestLeaderElector_StopReleases(t *testing.T) {
	_, client := setupTestRedis(t)

	deposed := make(chan struct{}, 1)
	le := NewLeaderElector(client, "test:relay:leader", 30*time.Second, 10*time.Second, LeaderHooks{
		OnDeposed: func() { deposed <- struct{}{} },
	})
	le.Start()

	require.Eventually(t, le.IsLeader, time.Second, 10*time.Millisecond)
	le.Stop()

	n, err := client.Exists(context.Background(), "test:relay:leader").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	select {
	case <-deposed:
	default:
		t.Fatal("OnDeposed not called on stop")
	}
}

func TestLeaderElector_OnlyOneLeader(t *testing.T) {
	_, client := setupTestRedis(t)

	a := NewLeaderElector(client, "test:relay:leader", time.Minute, time.Second, LeaderHooks{})
	b := NewLeaderElector(client, "test:relay:leader", time.Minute, time.Second, LeaderHooks{})

	a.step()
	b.step()

	assert.True(t, a.IsLeader())
	assert.False(t, b.IsLeader())
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}
