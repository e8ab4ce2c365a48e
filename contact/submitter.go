package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/gilby125/pelicans-place/pkg/logger"
)

// DefaultSimulatedLatency is how long SimulatedSubmitter pretends to work.
const DefaultSimulatedLatency = 1500 * time.Millisecond

// Submitter delivers a sanitized submission somewhere.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return f(ctx, s)
}

// SimulatedSubmitter waits a fixed latency and always succeeds. The wait
// cannot be cancelled: once a guest presses send the request runs to completion.
type SimulatedSubmitter struct {
	Latency time.Duration
}

// Submit sleeps for the configured latency.
func (s SimulatedSubmitter) Submit(_ context.Context, sub Submission) error {
	latency := s.Latency
	if latency <= 0 {
		latency = DefaultSimulatedLatency
	}
	time.Sleep(latency)
	logger.WithFields(map[string]interface{}{
		"submission_id": sub.ID,
		"recipient":     sub.Recipient,
	}).Info("Simulated contact submission")
	return nil
}

// Enqueuer stores a submission for later delivery and returns its queue id.
type Enqueuer interface {
	Enqueue(ctx context.Context, s Submission) (string, error)
}

// OutboxSubmitter hands submissions to a durable outbox.
type OutboxSubmitter struct {
	Outbox Enqueuer
}

// Submit enqueues s.
func (o OutboxSubmitter) Submit(ctx context.Context, s Submission) error {
	if _, err := o.Outbox.Enqueue(ctx, s); err != nil {
		return fmt.Errorf("failed to enqueue contact submission: %w", err)
	}
	return nil
}

// Alerter pushes a short notice to the host.
type Alerter interface {
	AlertContactReceived(ctx context.Context, name, email, subject string) error
}

// NotifyingSubmitter alerts the host after Next accepts a submission.
// Alert failures are logged and never reach the guest.
type NotifyingSubmitter struct {
	Next    Submitter
	Alerter Alerter
}

// Submit forwards to Next and then alerts.
func (n NotifyingSubmitter) Submit(ctx context.Context, s Submission) error {
	if err := n.Next.Submit(ctx, s); err != nil {
		return err
	}
	if n.Alerter == nil {
		return nil
	}
	if err := n.Alerter.AlertContactReceived(ctx, s.Name, s.Email, s.Subject); err != nil {
		logger.WithField("submission_id", s.ID).Error(err, "Failed to send contact alert")
	}
	return nil
}

// Pending is an in-flight submission.
type Pending struct {
	done chan struct{}
	err  error
}

// Dispatch starts s.Submit in the background.
func Dispatch(ctx context.Context, s Submitter, sub Submission) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = s.Submit(ctx, sub)
	}()
	return p
}

// Done is closed once the submission settles.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the submission settles and returns its outcome.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}
