// Package testutil provides mock implementations for the interfaces defined in
// the tree-sweep core library (pkg/sweep and subpackages) plus small fixture
// helpers. These mocks facilitate unit testing by isolating components.
package testutil

import (
	"context"
	"log/slog"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
	"github.com/stretchr/testify/mock"
)

// MockProcessor provides a mock implementation of the sweep.Processor interface.
// Configure expectations using testify/mock methods (e.g., .On("Process", ...).Return(...)).
// The engine calls Process concurrently; testify's Mock is safe for that.
type MockProcessor struct {
	mock.Mock
}

// Process mocks the Process method.
func (m *MockProcessor) Process(ctx context.Context, item sweep.WorkItem) sweep.Outcome {
	args := m.Called(ctx, item)
	outcome, _ := args.Get(0).(sweep.Outcome)
	return outcome
}

// MockHooks provides a mock implementation of the sweep.Hooks interface.
// IMPORTANT: OnItemProcessed is invoked from every worker. If test logic adds
// state to this mock, the test itself MUST ensure thread-safety.
type MockHooks struct {
	mock.Mock
}

// OnItemDiscovered mocks the OnItemDiscovered method.
func (m *MockHooks) OnItemDiscovered(item sweep.WorkItem) error {
	args := m.Called(item)
	return args.Error(0)
}

// OnItemProcessed mocks the OnItemProcessed method.
func (m *MockHooks) OnItemProcessed(result sweep.ItemResult, line string) error {
	args := m.Called(result, line)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report sweep.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockAction provides a mock implementation of the sweep.Action interface.
type MockAction struct {
	mock.Mock
}

// Act mocks the Act method.
func (m *MockAction) Act(ctx context.Context, item sweep.WorkItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockPuller provides a mock implementation of the repo.Puller interface.
type MockPuller struct {
	mock.Mock
}

// Pull mocks the Pull method.
func (m *MockPuller) Pull(ctx context.Context, repoPath string) (result repo.PullResult, err error) {
	args := m.Called(ctx, repoPath)
	result, _ = args.Get(0).(repo.PullResult)
	err = args.Error(1)
	return
}

// MockLoggerHandler provides a mock implementation for slog.Handler.
// Generally, using slog.NewTextHandler with a bytes.Buffer is preferred for testing log output.
type MockLoggerHandler struct {
	mock.Mock
}

// Enabled mocks the Enabled method.
func (m *MockLoggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	args := m.Called(ctx, level)
	enabled, _ := args.Get(0).(bool)
	return enabled
}

// Handle mocks the Handle method.
func (m *MockLoggerHandler) Handle(ctx context.Context, r slog.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// WithAttrs mocks the WithAttrs method.
func (m *MockLoggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	args := m.Called(attrs)
	retHandler, ok := args.Get(0).(slog.Handler)
	if !ok || retHandler == nil {
		return m
	}
	return retHandler
}

// WithGroup mocks the WithGroup method.
func (m *MockLoggerHandler) WithGroup(name string) slog.Handler {
	args := m.Called(name)
	retHandler, ok := args.Get(0).(slog.Handler)
	if !ok || retHandler == nil {
		return m
	}
	return retHandler
}
