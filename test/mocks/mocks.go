package mocks

import (
	"context"
	"time"

	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/cache"
	"github.com/stretchr/testify/mock"
)

// MockSubmitter is a mock implementation of the contact.Submitter interface
type MockSubmitter struct {
	mock.Mock
}

// Submit mocks the Submit method
func (m *MockSubmitter) Submit(ctx context.Context, s contact.Submission) error {
	return m.Called(ctx, s).Error(0)
}

var _ contact.Submitter = (*MockSubmitter)(nil)

// MockCache is a mock implementation of the cache.Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ cache.Cache = (*MockCache)(nil)
