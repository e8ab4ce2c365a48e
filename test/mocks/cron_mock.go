package mocks

import (
	"context"

	"github.com/gilby125/pelicans-place/worker"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/mock"
)

// MockCronner is a mock implementation of the worker.Cronner interface
type MockCronner struct {
	mock.Mock
}

// Start mocks the Start method
func (m *MockCronner) Start() {
	m.Called()
}

// Stop mocks the Stop method
func (m *MockCronner) Stop() context.Context {
	args := m.Called()
	if args.Get(0) == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return args.Get(0).(context.Context)
}

// AddFunc mocks the AddFunc method. Match cmd with mock.Anything.
func (m *MockCronner) AddFunc(spec string, cmd func()) (cron.EntryID, error) {
	args := m.Called(spec, cmd)
	return args.Get(0).(cron.EntryID), args.Error(1)
}

var _ worker.Cronner = (*MockCronner)(nil)
