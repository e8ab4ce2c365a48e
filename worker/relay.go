// Package worker runs background jobs: the cron-driven relay that forwards
// queued contact submissions to the mail endpoint.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gilby125/pelicans-place/config"
	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/robfig/cron/v3"
)

// ErrNoEndpoint is returned when the relay has nowhere to deliver.
var ErrNoEndpoint = errors.New("no email service endpoint configured")

// Cronner is the subset of *cron.Cron the relay needs.
type Cronner interface {
	Start()
	Stop() context.Context
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

type httpClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// Alerter is told when deliveries fail.
type Alerter interface {
	AlertRelayFailure(ctx context.Context, failed int, lastErr string) error
	AlertDeadLetter(ctx context.Context, total int64) error
}

// RunStats describes one relay pass.
type RunStats struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Delivered  int       `json:"delivered"`
	Failed     int       `json:"failed"`
	LastError  string    `json:"last_error,omitempty"`
}

// Relay drains the contact outbox on a cron schedule. Each submission gets a
// single delivery attempt; failures are parked on the dead-letter list.
type Relay struct {
	outbox    queue.Outbox
	client    httpClient
	cron      Cronner
	alerter   Alerter
	endpoint  string
	schedule  string
	batchSize int
	timeout   time.Duration

	mu        sync.Mutex
	lastRun   RunStats
	scheduled bool
}

// NewRelay builds a relay for cfg delivering to endpoint.
func NewRelay(cfg config.RelayConfig, endpoint string, outbox queue.Outbox, alerter Alerter) *Relay {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	log := logger.WithField("component", "relay")
	return NewRelayWithDeps(cfg, endpoint, outbox, alerter, client,
		cron.New(cron.WithChain(cron.SkipIfStillRunning(log))))
}

// NewRelayWithDeps is NewRelay with the HTTP client and scheduler supplied.
func NewRelayWithDeps(cfg config.RelayConfig, endpoint string, outbox queue.Outbox, alerter Alerter, client httpClient, c Cronner) *Relay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "@every 1m"
	}
	return &Relay{
		outbox:    outbox,
		client:    client,
		cron:      c,
		alerter:   alerter,
		endpoint:  endpoint,
		schedule:  schedule,
		batchSize: batch,
		timeout:   timeout,
	}
}

// Start registers the relay job and starts the scheduler. It may be called
// again after Stop; the job is registered only once.
func (r *Relay) Start() error {
	if r.endpoint == "" {
		return ErrNoEndpoint
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.scheduled {
		if _, err := r.cron.AddFunc(r.schedule, r.tick); err != nil {
			return fmt.Errorf("failed to schedule relay: %w", err)
		}
		r.scheduled = true
	}
	r.cron.Start()
	logger.WithFields(map[string]interface{}{
		"schedule": r.schedule,
		"batch":    r.batchSize,
	}).Info("Contact relay started")
	return nil
}

// Stop waits for a running pass to finish.
func (r *Relay) Stop() {
	<-r.cron.Stop().Done()
	logger.Info("Contact relay stopped")
}

func (r *Relay) tick() {
	if _, err := r.RunOnce(context.Background()); err != nil {
		logger.Error(err, "Contact relay pass failed")
	}
}

// RunOnce claims one batch and delivers it.
func (r *Relay) RunOnce(ctx context.Context) (stats RunStats, err error) {
	stats.StartedAt = time.Now().UTC()
	defer func() {
		stats.FinishedAt = time.Now().UTC()
		r.mu.Lock()
		r.lastRun = stats
		r.mu.Unlock()
	}()

	if r.endpoint == "" {
		return stats, ErrNoEndpoint
	}

	entries, err := r.outbox.Claim(ctx, r.batchSize)
	if errors.Is(err, queue.ErrOutboxEmpty) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("failed to claim outbox entries: %w", err)
	}

	for _, e := range entries {
		log := logger.WithFields(map[string]interface{}{
			"submission_id": e.ID,
			"attempt":       e.Attempts,
		})

		if err := r.deliver(ctx, e.Submission); err != nil {
			stats.Failed++
			stats.LastError = err.Error()
			log.Error(err, "Contact delivery failed, moving to dead letters")
			if dlErr := r.outbox.DeadLetter(ctx, e, err); dlErr != nil {
				return stats, fmt.Errorf("failed to dead-letter %s: %w", e.ID, dlErr)
			}
			continue
		}

		if err := r.outbox.Ack(ctx, e); err != nil {
			return stats, fmt.Errorf("failed to ack %s: %w", e.ID, err)
		}
		stats.Delivered++
		log.Info("Contact submission delivered")
	}

	if stats.Failed > 0 {
		r.alert(ctx, stats)
	}
	return stats, nil
}

func (r *Relay) alert(ctx context.Context, stats RunStats) {
	if r.alerter == nil {
		return
	}
	if err := r.alerter.AlertRelayFailure(ctx, stats.Failed, stats.LastError); err != nil {
		logger.Error(err, "Failed to send relay failure alert")
	}
	counts, err := r.outbox.Stats(ctx)
	if err != nil {
		logger.Error(err, "Failed to read outbox stats")
		return
	}
	if counts["dead"] > 0 {
		if err := r.alerter.AlertDeadLetter(ctx, counts["dead"]); err != nil {
			logger.Error(err, "Failed to send dead-letter alert")
		}
	}
}

func (r *Relay) deliver(ctx context.Context, sub contact.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post submission: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// LastRun returns the stats of the most recent pass.
func (r *Relay) LastRun() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun
}
