package mocks

import (
	"context"

	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/stretchr/testify/mock"
)

// MockOutbox is a mock implementation of the queue.Outbox interface
type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) Enqueue(ctx context.Context, s contact.Submission) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *MockOutbox) Claim(ctx context.Context, limit int) ([]*queue.Entry, error) {
	args := m.Called(ctx, limit)
	return entries(args.Get(0)), args.Error(1)
}

func (m *MockOutbox) Ack(ctx context.Context, e *queue.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockOutbox) DeadLetter(ctx context.Context, e *queue.Entry, cause error) error {
	return m.Called(ctx, e, cause).Error(0)
}

func (m *MockOutbox) Pending(ctx context.Context, limit int) ([]*queue.Entry, error) {
	args := m.Called(ctx, limit)
	return entries(args.Get(0)), args.Error(1)
}

func (m *MockOutbox) DeadLetters(ctx context.Context, limit int) ([]*queue.Entry, error) {
	args := m.Called(ctx, limit)
	return entries(args.Get(0)), args.Error(1)
}

func (m *MockOutbox) RetryDeadLetters(ctx context.Context, limit int) (int64, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(int64), args.Error(1)
}

// Stats mocks the Stats method
func (m *MockOutbox) Stats(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func entries(v interface{}) []*queue.Entry {
	if v == nil {
		return nil
	}
	return v.([]*queue.Entry)
}

var _ queue.Outbox = (*MockOutbox)(nil)
