package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Leadership callbacks. Both run on the election goroutine.
type LeaderHooks struct {
	OnElected func()
	OnDeposed func()
}

// LeaderElector holds a Redis lock so that only one site instance drains the
// contact outbox at a time.
type LeaderElector struct {
	client   *redis.Client
	key      string
	ttl      time.Duration
	interval time.Duration
	id       string
	hooks    LeaderHooks

	leader atomic.Bool
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewLeaderElector builds an elector for key. The lock expires after ttl
// unless renewed every interval.
func NewLeaderElector(client *redis.Client, key string, ttl, interval time.Duration, hooks LeaderHooks) *LeaderElector {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "site"
	}
	if interval <= 0 || interval >= ttl {
		interval = ttl / 3
	}
	return &LeaderElector{
		client:   client,
		key:      key,
		ttl:      ttl,
		interval: interval,
		id:       fmt.Sprintf("%s-%d", host, time.Now().UnixNano()),
		hooks:    hooks,
		stop:     make(chan struct{}),
	}
}

// Start runs the election loop in the background.
func (le *LeaderElector) Start() {
	le.wg.Add(1)
	go le.loop()
	logger.WithFields(map[string]interface{}{
		"instance": le.id,
		"key":      le.key,
		"ttl":      le.ttl.String(),
	}).Info("Leader election started")
}

// Stop ends the loop and releases the lock if held.
func (le *LeaderElector) Stop() {
	close(le.stop)
	le.wg.Wait()

	if !le.leader.Swap(false) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	le.release(ctx)
	if le.hooks.OnDeposed != nil {
		le.hooks.OnDeposed()
	}
}

// IsLeader reports whether this instance holds the lock.
func (le *LeaderElector) IsLeader() bool { return le.leader.Load() }

// InstanceID is the value written to the lock key.
func (le *LeaderElector) InstanceID() string { return le.id }

func (le *LeaderElector) loop() {
	defer le.wg.Done()

	le.step()
	ticker := time.NewTicker(le.interval)
	defer ticker.Stop()

	for {
		select {
		case <-le.stop:
			return
		case <-ticker.C:
			le.step()
		}
	}
}

func (le *LeaderElector) step() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if le.leader.Load() {
		if le.renew(ctx) {
			return
		}
		logger.WithField("instance", le.id).Warn("Lost relay leadership")
		le.leader.Store(false)
		if le.hooks.OnDeposed != nil {
			le.hooks.OnDeposed()
		}
		return
	}

	if le.acquire(ctx) {
		logger.WithField("instance", le.id).Info("Acquired relay leadership")
		le.leader.Store(true)
		if le.hooks.OnElected != nil {
			le.hooks.OnElected()
		}
	}
}

func (le *LeaderElector) acquire(ctx context.Context) bool {
	ok, err := le.client.SetNX(ctx, le.key, le.id, le.ttl).Result()
	if err != nil {
		logger.Error(err, "Failed to acquire leader lock")
		return false
	}
	return ok
}

// Compare-and-set on the owner id.
var renewScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	return 0
`)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

func (le *LeaderElector) renew(ctx context.Context) bool {
	n, err := renewScript.Run(ctx, le.client, []string{le.key}, le.id, le.ttl.Milliseconds()).Int()
	if err != nil {
		logger.Error(err, "Failed to renew leader lock")
		return false
	}
	return n == 1
}

func (le *LeaderElector) release(ctx context.Context) {
	n, err := releaseScript.Run(ctx, le.client, []string{le.key}, le.id).Int()
	switch {
	case err != nil:
		logger.Error(err, "Failed to release leader lock")
	case n == 1:
		logger.WithField("instance", le.id).Info("Released leader lock")
	}
}
