package instances

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*miniredis.Miniredis, *Registry) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb, "test")
}

func TestRegistry_PublishAndListActive(t *testing.T) {
	_, reg := newRegistry(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	hb := Heartbeat{
		ID:            "web-1",
		Hostname:      "host-a",
		Role:          RoleLeader,
		Version:       "1.2.0",
		Delivered:     12,
		Failed:        1,
		LastRelayAt:   now.Add(-time.Minute),
		StartedAt:     now.Add(-10 * time.Minute),
		LastHeartbeat: now,
	}
	require.NoError(t, reg.Publish(ctx, hb, 30*time.Second))
	require.NoError(t, reg.Publish(ctx, Heartbeat{ID: "web-2", Hostname: "host-b"}, 30*time.Second))

	active, err := reg.ListActive(ctx, 35*time.Second)
	require.NoError(t, err)
	require.Len(t, active, 2)

	byID := map[string]Heartbeat{}
	for _, a := range active {
		byID[a.ID] = a
	}
	assert.Equal(t, hb, byID["web-1"])
	assert.Equal(t, RoleFollower, byID["web-2"].Role)
	assert.True(t, byID["web-2"].LastRelayAt.IsZero())
}

func TestRegistry_StaleInstancesDropOut(t *testing.T) {
	_, reg := newRegistry(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-5 * time.Minute)
	require.NoError(t, reg.Publish(ctx, Heartbeat{ID: "gone", LastHeartbeat: old}, 30*time.Second))

	active, err := reg.ListActive(ctx, 45*time.Second)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRegistry_RequiresID(t *testing.T) {
	_, reg := newRegistry(t)
	assert.Error(t, reg.Publish(context.Background(), Heartbeat{}, time.Second))
}

func TestRegistry_RunPublishesUntilCancelled(t *testing.T) {
	_, reg := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 10*time.Millisecond, func() Heartbeat {
			return Heartbeat{ID: "web-1", Role: RoleLeader}
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		active, err := reg.ListActive(context.Background(), time.Minute)
		return err == nil && len(active) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
