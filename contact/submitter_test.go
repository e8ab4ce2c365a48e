package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	queued []Submission
	err    error
}

func (f *fakeOutbox) Enqueue(_ context.Context, s Submission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.queued = append(f.queued, s)
	return s.ID, nil
}

type fakeAlerter struct {
	calls int
	err   error
}

func (f *fakeAlerter) AlertContactReceived(context.Context, string, string, string) error {
	f.calls++
	return f.err
}

func TestSimulatedSubmitter_IgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := SimulatedSubmitter{Latency: 20 * time.Millisecond}.Submit(ctx, Submission{ID: "x"})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestOutboxSubmitter(t *testing.T) {
	box := &fakeOutbox{}
	require.NoError(t, OutboxSubmitter{Outbox: box}.Submit(context.Background(), Submission{ID: "a"}))
	assert.Len(t, box.queued, 1)

	box.err = errors.New("redis unavailable")
	err := OutboxSubmitter{Outbox: box}.Submit(context.Background(), Submission{ID: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable")
}

func TestNotifyingSubmitter(t *testing.T) {
	t.Run("alerts after success", func(t *testing.T) {
		alerter := &fakeAlerter{}
		n := NotifyingSubmitter{Next: SubmitterFunc(func(context.Context, Submission) error { return nil }), Alerter: alerter}
		require.NoError(t, n.Submit(context.Background(), Submission{}))
		assert.Equal(t, 1, alerter.calls)
	})

	t.Run("alert failure is swallowed", func(t *testing.T) {
		alerter := &fakeAlerter{err: errors.New("ntfy down")}
		n := NotifyingSubmitter{Next: SubmitterFunc(func(context.Context, Submission) error { return nil }), Alerter: alerter}
		assert.NoError(t, n.Submit(context.Background(), Submission{}))
	})

	t.Run("no alert when inner fails", func(t *testing.T) {
		alerter := &fakeAlerter{}
		n := NotifyingSubmitter{Next: SubmitterFunc(func(context.Context, Submission) error { return errors.New("boom") }), Alerter: alerter}
		assert.EqualError(t, n.Submit(context.Background(), Submission{}), "boom")
		assert.Zero(t, alerter.calls)
	})
}

func TestDispatch(t *testing.T) {
	gate := make(chan struct{})
	p := Dispatch(context.Background(), SubmitterFunc(func(context.Context, Submission) error {
		<-gate
		return errors.New("late failure")
	}), Submission{})

	select {
	case <-p.Done():
		t.Fatal("settled before submitter returned")
	default:
	}
	close(gate)
	assert.EqualError(t, p.Wait(), "late failure")
}
