// Package instances tracks the running site instances in Redis so operators
// can see which one holds the relay lock and how its deliveries are going.
package instances

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	RoleLeader   = "leader"
	RoleFollower = "follower"

	defaultTTL = 45 * time.Second
)

// Heartbeat is one instance's self-report.
type Heartbeat struct {
	ID            string    `json:"id"`
	Hostname      string    `json:"hostname"`
	Role          string    `json:"role"`
	Version       string    `json:"version"`
	Delivered     int       `json:"delivered"`
	Failed        int       `json:"failed"`
	LastRelayAt   time.Time `json:"last_relay_at"`
	StartedAt     time.Time `json:"started_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Registry stores heartbeats in a sorted set scored by time plus one hash per
// instance.
type Registry struct {
	client    *redis.Client
	namespace string
	now       func() time.Time
}

func New(client *redis.Client, namespace string) *Registry {
	return &Registry{client: client, namespace: namespace, now: time.Now}
}

func (r *Registry) heartbeatsKey() string {
	return fmt.Sprintf("%s:instances:heartbeats", r.namespace)
}

func (r *Registry) metaKey(id string) string {
	return fmt.Sprintf("%s:instances:%s", r.namespace, id)
}

func unixString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func parseUnix(s string) time.Time {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

// Publish records hb. The hash outlives three missed beats; sorted set members
// older than ten TTLs are pruned.
func (r *Registry) Publish(ctx context.Context, hb Heartbeat, ttl time.Duration) error {
	if hb.ID == "" {
		return errors.New("instance id is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := r.now().UTC()
	if hb.StartedAt.IsZero() {
		hb.StartedAt = now
	}
	if hb.LastHeartbeat.IsZero() {
		hb.LastHeartbeat = now
	}

	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, r.heartbeatsKey(), redis.Z{
		Score:  float64(hb.LastHeartbeat.Unix()),
		Member: hb.ID,
	})
	pipe.HSet(ctx, r.metaKey(hb.ID),
		"hostname", hb.Hostname,
		"role", hb.Role,
		"version", hb.Version,
		"delivered", strconv.Itoa(hb.Delivered),
		"failed", strconv.Itoa(hb.Failed),
		"last_relay_at", unixString(hb.LastRelayAt),
		"started_at", unixString(hb.StartedAt),
		"last_heartbeat", unixString(hb.LastHeartbeat),
	)
	pipe.Expire(ctx, r.metaKey(hb.ID), ttl*3)
	pipe.ZRemRangeByScore(ctx, r.heartbeatsKey(), "0", strconv.FormatInt(now.Add(-ttl*10).Unix(), 10))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to publish heartbeat: %w", err)
	}
	return nil
}

// ListActive returns instances seen within the window, newest first.
func (r *Registry) ListActive(ctx context.Context, within time.Duration) ([]Heartbeat, error) {
	if within <= 0 {
		within = defaultTTL
	}

	now := r.now().UTC()
	zs, err := r.client.ZRevRangeByScoreWithScores(ctx, r.heartbeatsKey(), &redis.ZRangeBy{
		Max: strconv.FormatInt(now.Unix(), 10),
		Min: strconv.FormatInt(now.Add(-within).Unix(), 10),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	type pending struct {
		id    string
		score float64
		cmd   *redis.MapStringStringCmd
	}
	pipe := r.client.Pipeline()
	cmds := make([]pending, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok || id == "" {
			continue
		}
		cmds = append(cmds, pending{id: id, score: z.Score, cmd: pipe.HGetAll(ctx, r.metaKey(id))})
	}
	if len(cmds) == 0 {
		return []Heartbeat{}, nil
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read instances: %w", err)
	}

	out := make([]Heartbeat, 0, len(cmds))
	for _, p := range cmds {
		m := p.cmd.Val()
		hb := Heartbeat{
			ID:            p.id,
			Hostname:      m["hostname"],
			Role:          m["role"],
			Version:       m["version"],
			LastRelayAt:   parseUnix(m["last_relay_at"]),
			StartedAt:     parseUnix(m["started_at"]),
			LastHeartbeat: parseUnix(m["last_heartbeat"]),
		}
		hb.Delivered, _ = strconv.Atoi(m["delivered"])
		hb.Failed, _ = strconv.Atoi(m["failed"])
		// The hash may have expired while the set entry is still in the window.
		if hb.LastHeartbeat.IsZero() && !math.IsNaN(p.score) && !math.IsInf(p.score, 0) {
			hb.LastHeartbeat = time.Unix(int64(p.score), 0).UTC()
		}
		if hb.Role == "" {
			hb.Role = RoleFollower
		}
		out = append(out, hb)
	}
	return out, nil
}

// Run publishes snapshot() every interval until ctx is done. Publish errors
// are logged and the loop keeps going.
func (r *Registry) Run(ctx context.Context, interval time.Duration, snapshot func() Heartbeat) {
	if interval <= 0 {
		interval = defaultTTL / 3
	}
	ttl := interval * 3
	beat := func() {
		if err := r.Publish(ctx, snapshot(), ttl); err != nil && ctx.Err() == nil {
			logger.Error(err, "Instance heartbeat failed")
		}
	}

	beat()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat()
		}
	}
}
