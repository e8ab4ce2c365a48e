package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/redis/go-redis/v9"
)

const (
	relayGroup = "relay"
	// claimIdle is how long a claimed entry may sit unacked before another
	// relay run takes it over.
	claimIdle = 5 * time.Minute
)

// ErrOutboxEmpty is returned by Claim when nothing is waiting.
var ErrOutboxEmpty = errors.New("contact outbox is empty")

// Entry statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDead       = "dead"
)

// EnqueueMeta carries best-effort attribution for who enqueued a submission.
type EnqueueMeta struct {
	RequestID string `json:"request_id,omitempty"`
	RemoteIP  string `json:"remote_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

func (m EnqueueMeta) isEmpty() bool {
	return m.RequestID == "" && m.RemoteIP == "" && m.UserAgent == ""
}

type enqueueMetaKey struct{}

// WithEnqueueMeta attaches enqueue attribution to the provided context.
func WithEnqueueMeta(ctx context.Context, meta EnqueueMeta) context.Context {
	if meta.isEmpty() {
		return ctx
	}
	return context.WithValue(ctx, enqueueMetaKey{}, meta)
}

// EnqueueMetaFromContext returns enqueue attribution stored on the context, if present.
func EnqueueMetaFromContext(ctx context.Context) EnqueueMeta {
	if meta, ok := ctx.Value(enqueueMetaKey{}).(EnqueueMeta); ok {
		return meta
	}
	return EnqueueMeta{}
}

// Entry is a queued contact submission.
type Entry struct {
	ID         string             `json:"id"`
	Submission contact.Submission `json:"submission"`
	EnqueuedAt time.Time          `json:"enqueued_at"`
	Attempts   int                `json:"attempts"`
	Status     string             `json:"status"`
	LastError  string             `json:"last_error,omitempty"`
	StreamID   string             `json:"stream_id,omitempty"`
	Meta       *EnqueueMeta       `json:"enqueue_meta,omitempty"`
}

// Outbox stores contact submissions until the relay delivers them.
type Outbox interface {
	Enqueue(ctx context.Context, s contact.Submission) (string, error)
	// Claim hands out up to limit entries. It returns ErrOutboxEmpty when none are waiting.
	Claim(ctx context.Context, limit int) ([]*Entry, error)
	Ack(ctx context.Context, e *Entry) error
	// DeadLetter parks e for manual recovery.
	DeadLetter(ctx context.Context, e *Entry, cause error) error
	Pending(ctx context.Context, limit int) ([]*Entry, error)
	DeadLetters(ctx context.Context, limit int) ([]*Entry, error)
	// RetryDeadLetters moves up to limit parked entries back into the outbox.
	RetryDeadLetters(ctx context.Context, limit int) (int64, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

// RedisOutbox implements Outbox on a Redis stream with a consumer group.
// Dead letters live in a plain list.
type RedisOutbox struct {
	client       *redis.Client
	prefix       string
	consumerName string
	now          func() time.Time

	mu              sync.Mutex
	streamReady     bool
	lastAutoClaimID string
}

// NewRedisOutbox connects to Redis and returns an outbox.
func NewRedisOutbox(cfg config.RedisConfig) (*RedisOutbox, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "relay"
	}

	prefix := cfg.OutboxPrefix
	if prefix == "" {
		prefix = "pelicans"
	}

	return &RedisOutbox{
		client:       client,
		prefix:       prefix,
		consumerName: fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano()),
		now:          time.Now,
	}, nil
}

// Enqueue appends s to the outbox and returns its id.
func (o *RedisOutbox) Enqueue(ctx context.Context, s contact.Submission) (string, error) {
	entry := &Entry{
		ID:         s.ID,
		Submission: s,
		EnqueuedAt: o.now().UTC(),
		Status:     StatusPending,
	}
	if meta := EnqueueMetaFromContext(ctx); !meta.isEmpty() {
		entry.Meta = &meta
	}
	if err := o.add(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (o *RedisOutbox) add(ctx context.Context, e *Entry) error {
	if err := o.ensureStream(ctx); err != nil {
		return err
	}
	e.StreamID = ""
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox entry: %w", err)
	}
	msgID, err := o.client.XAdd(ctx, &redis.XAddArgs{
		Stream: o.streamName(),
		Values: map[string]interface{}{"entry": payload},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add entry to stream: %w", err)
	}
	e.StreamID = msgID
	return nil
}

// Claim reclaims stale entries first, then reads new ones.
func (o *RedisOutbox) Claim(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 1
	}
	if err := o.ensureStream(ctx); err != nil {
		return nil, err
	}

	entries, err := o.claimStale(ctx, limit)
	if err != nil {
		return nil, err
	}

	if remaining := limit - len(entries); remaining > 0 {
		res, err := o.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    relayGroup,
			Consumer: o.consumerName,
			Streams:  []string{o.streamName(), ">"},
			Count:    int64(remaining),
			Block:    -1,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to read from stream: %w", err)
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				e, err := decodeMessage(msg)
				if err != nil {
					return nil, err
				}
				entries = append(entries, claimed(e))
			}
		}
	}

	if len(entries) == 0 {
		return nil, ErrOutboxEmpty
	}
	return entries, nil
}

func (o *RedisOutbox) claimStale(ctx context.Context, limit int) ([]*Entry, error) {
	o.mu.Lock()
	startID := o.lastAutoClaimID
	if startID == "" {
		startID = "0-0"
	}
	o.mu.Unlock()

	messages, nextID, err := o.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   o.streamName(),
		Group:    relayGroup,
		Consumer: o.consumerName,
		MinIdle:  claimIdle,
		Start:    startID,
		Count:    int64(limit),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to auto-claim entries: %w", err)
	}

	o.mu.Lock()
	o.lastAutoClaimID = nextID
	o.mu.Unlock()

	entries := make([]*Entry, 0, len(messages))
	for _, msg := range messages {
		e, err := decodeMessage(msg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, claimed(e))
	}
	return entries, nil
}

func decodeMessage(msg redis.XMessage) (*Entry, error) {
	raw, ok := msg.Values["entry"]
	if !ok {
		return nil, fmt.Errorf("stream message %s missing entry payload", msg.ID)
	}

	var payload []byte
	switch v := raw.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		return nil, fmt.Errorf("unexpected entry payload type %T", v)
	}

	var e Entry
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outbox entry: %w", err)
	}
	e.StreamID = msg.ID
	return &e, nil
}

func claimed(e *Entry) *Entry {
	e.Attempts++
	e.Status = StatusProcessing
	return e
}

// Ack removes a delivered entry.
func (o *RedisOutbox) Ack(ctx context.Context, e *Entry) error {
	if err := o.remove(ctx, e); err != nil {
		return err
	}
	if err := o.client.Incr(ctx, o.deliveredKey()).Err(); err != nil {
		return fmt.Errorf("failed to count delivery: %w", err)
	}
	return nil
}

// DeadLetter moves e out of the stream and onto the dead-letter list.
func (o *RedisOutbox) DeadLetter(ctx context.Context, e *Entry, cause error) error {
	streamID := e.StreamID
	e.Status = StatusDead
	if cause != nil {
		e.LastError = cause.Error()
	}
	e.StreamID = ""
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}
	if err := o.client.RPush(ctx, o.deadKey(), payload).Err(); err != nil {
		return fmt.Errorf("failed to store dead letter: %w", err)
	}
	e.StreamID = streamID
	return o.remove(ctx, e)
}

func (o *RedisOutbox) remove(ctx context.Context, e *Entry) error {
	if e.StreamID == "" {
		return nil
	}
	if err := o.client.XAck(ctx, o.streamName(), relayGroup, e.StreamID).Err(); err != nil {
		return fmt.Errorf("failed to ack entry: %w", err)
	}
	if err := o.client.XDel(ctx, o.streamName(), e.StreamID).Err(); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Pending lists entries still in the stream, oldest first.
func (o *RedisOutbox) Pending(ctx context.Context, limit int) ([]*Entry, error) {
	limit = clampLimit(limit)
	msgs, err := o.client.XRangeN(ctx, o.streamName(), "-", "+", int64(limit)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}

	entries := make([]*Entry, 0, len(msgs))
	for _, msg := range msgs {
		e, err := decodeMessage(msg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DeadLetters lists parked entries, oldest first.
func (o *RedisOutbox) DeadLetters(ctx context.Context, limit int) ([]*Entry, error) {
	limit = clampLimit(limit)
	raw, err := o.client.LRange(ctx, o.deadKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read dead letters: %w", err)
	}

	entries := make([]*Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dead letter: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// RetryDeadLetters re-enqueues up to limit dead letters, oldest first.
func (o *RedisOutbox) RetryDeadLetters(ctx context.Context, limit int) (int64, error) {
	limit = clampLimit(limit)
	var retried int64
	for i := 0; i < limit; i++ {
		item, err := o.client.LPop(ctx, o.deadKey()).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return retried, fmt.Errorf("failed to pop dead letter: %w", err)
		}

		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return retried, fmt.Errorf("failed to unmarshal dead letter: %w", err)
		}
		e.Status = StatusPending
		if err := o.add(ctx, &e); err != nil {
			// Put it back so the entry is not lost.
			_ = o.client.LPush(ctx, o.deadKey(), item).Err()
			return retried, err
		}
		retried++
	}
	return retried, nil
}

// Stats counts queued, in-flight, parked and delivered entries.
func (o *RedisOutbox) Stats(ctx context.Context) (map[string]int64, error) {
	if err := o.ensureStream(ctx); err != nil {
		return nil, err
	}

	queued, err := o.client.XLen(ctx, o.streamName()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox length: %w", err)
	}
	pending, err := o.client.XPending(ctx, o.streamName(), relayGroup).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get in-flight count: %w", err)
	}
	dead, err := o.client.LLen(ctx, o.deadKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get dead-letter count: %w", err)
	}
	delivered, err := o.client.Get(ctx, o.deliveredKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get delivered count: %w", err)
	}

	var processing int64
	if pending != nil {
		processing = pending.Count
	}
	return map[string]int64{
		"pending":    queued - processing,
		"processing": processing,
		"dead":       dead,
		"delivered":  delivered,
	}, nil
}

func (o *RedisOutbox) ensureStream(ctx context.Context) error {
	o.mu.Lock()
	ready := o.streamReady
	o.mu.Unlock()
	if ready {
		return nil
	}

	err := o.client.XGroupCreateMkStream(ctx, o.streamName(), relayGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	o.mu.Lock()
	o.streamReady = true
	o.mu.Unlock()
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func (o *RedisOutbox) streamName() string {
	return o.prefix + ":contact:outbox"
}

func (o *RedisOutbox) deadKey() string {
	return o.prefix + ":contact:dead"
}

func (o *RedisOutbox) deliveredKey() string {
	return o.prefix + ":contact:delivered"
}

// GetClient exposes the Redis client for health checks and the cache.
func (o *RedisOutbox) GetClient() *redis.Client {
	return o.client
}

// Close releases the Redis connection.
func (o *RedisOutbox) Close() error {
	return o.client.Close()
}
