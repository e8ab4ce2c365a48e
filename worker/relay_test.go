package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/gilby125/pelicans-place/test/mocks"
	"github.com/gilby125/pelicans-place/worker"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingAlerter struct {
	mu       sync.Mutex
	failures []int
	dead     []int64
}

func (a *recordingAlerter) AlertRelayFailure(_ context.Context, failed int, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = append(a.failures, failed)
	return nil
}

func (a *recordingAlerter) AlertDeadLetter(_ context.Context, total int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dead = append(a.dead, total)
	return nil
}

func newOutbox(t *testing.T) *queue.RedisOutbox {
	t.Helper()
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")
	o, err := queue.NewRedisOutbox(config.RedisConfig{Host: host, Port: port, OutboxPrefix: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { o.Close() })
	return o
}

func enqueue(t *testing.T, o *queue.RedisOutbox, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := o.Enqueue(context.Background(), contact.Submission{
			ID:        id,
			Name:      "Ann",
			Email:     "ann@example.com",
			Subject:   id,
			Message:   "Hello there",
			Recipient: "host@example.com",
		})
		require.NoError(t, err)
	}
}

var relayConfig = config.RelayConfig{Schedule: "@every 1m", BatchSize: 10, Timeout: 2 * time.Second}

func TestRelay_RunOnceDeliversAndDeadLetters(t *testing.T) {
	var mu sync.Mutex
	var received []contact.Submission
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sub contact.Submission
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, sub.ID, r.Header.Get("Idempotency-Key"))
		if sub.Subject == "bounce" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		mu.Lock()
		received = append(received, sub)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer endpoint.Close()

	o := newOutbox(t)
	enqueue(t, o, "ok-1", "bounce", "ok-2")
	alerts := &recordingAlerter{}

	relay := worker.NewRelay(relayConfig, endpoint.URL, o, alerts)
	stats, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, 1, stats.Failed)
	assert.Contains(t, stats.LastError, "502")
	assert.Len(t, received, 2)
	assert.Equal(t, stats, relay.LastRun())

	counts, err := o.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pending": 0, "processing": 0, "dead": 1, "delivered": 2}, counts)

	assert.Equal(t, []int{1}, alerts.failures)
	assert.Equal(t, []int64{1}, alerts.dead)
}

func TestRelay_RunOnceEmptyOutbox(t *testing.T) {
	o := newOutbox(t)
	relay := worker.NewRelay(relayConfig, "http://127.0.0.1:1", o, nil)

	stats, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.Delivered)
	assert.False(t, relay.LastRun().FinishedAt.IsZero())
}

func TestRelay_UnreachableEndpointDeadLetters(t *testing.T) {
	o := newOutbox(t)
	enqueue(t, o, "sub-1")
	relay := worker.NewRelay(relayConfig, "http://127.0.0.1:1", o, nil)

	stats, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	dead, err := o.DeadLetters(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "sub-1", dead[0].ID)
}

func TestRelay_NoEndpoint(t *testing.T) {
	relay := worker.NewRelay(relayConfig, "", nil, nil)

	_, err := relay.RunOnce(context.Background())
	assert.True(t, errors.Is(err, worker.ErrNoEndpoint))
	assert.True(t, errors.Is(relay.Start(), worker.ErrNoEndpoint))
}

func TestRelay_StartSchedulesAndStops(t *testing.T) {
	c := new(mocks.MockCronner)
	c.On("AddFunc", "@every 30s", mock.AnythingOfType("func()")).Return(cron.EntryID(1), nil).Once()
	c.On("Start").Return().Twice()
	stopped, cancel := context.WithCancel(context.Background())
	cancel()
	c.On("Stop").Return(stopped)

	cfg := relayConfig
	cfg.Schedule = "@every 30s"
	relay := worker.NewRelayWithDeps(cfg, "http://mail.invalid", nil, nil, nil, c)

	require.NoError(t, relay.Start())
	relay.Stop()
	require.NoError(t, relay.Start(), "restart after losing and regaining leadership")
	relay.Stop()

	c.AssertExpectations(t)
	c.AssertNumberOfCalls(t, "AddFunc", 1)
}

func TestRelay_StartBadSchedule(t *testing.T) {
	c := new(mocks.MockCronner)
	c.On("AddFunc", "whenever", mock.Anything).Return(cron.EntryID(0), errors.New("bad spec"))

	cfg := relayConfig
	cfg.Schedule = "whenever"
	relay := worker.NewRelayWithDeps(cfg, "http://mail.invalid", nil, nil, nil, c)

	assert.Error(t, relay.Start())
	c.AssertNotCalled(t, "Start")
}

func TestRelay_ClaimErrorWithMockOutbox(t *testing.T) {
	o := new(mocks.MockOutbox)
	o.On("Claim", mock.Anything, 10).Return(nil, errors.New("redis down"))

	relay := worker.NewRelay(relayConfig, "http://mail.invalid", o, nil)
	_, err := relay.RunOnce(context.Background())

	assert.ErrorContains(t, err, "redis down")
	o.AssertExpectations(t)
}
