package sharing

import (
	"context"

	"github.com/ahollister/coinflow/internal/service"
)

// MockWorkflow is a mock implementation of service.ImportWorkflow for testing.
type MockWorkflow struct {
	// Functions that can be set by tests to control behavior
	RunFn func(ctx context.Context, params service.ImportParams) (*service.ImportResult, error)

	// Call tracking
	RunCalls   []service.ImportParams
	Configured bool
}

// NewMockWorkflow creates a new mock import workflow.
func NewMockWorkflow() *MockWorkflow {
	return &MockWorkflow{Configured: true}
}

// IsConfigured implements service.ImportWorkflow.
func (m *MockWorkflow) IsConfigured() bool {
	return m.Configured
}

// Run implements service.ImportWorkflow.
func (m *MockWorkflow) Run(ctx context.Context, params service.ImportParams) (*service.ImportResult, error) {
	m.RunCalls = append(m.RunCalls, params)

	if m.RunFn != nil {
		return m.RunFn(ctx, params)
	}

	// Default behavior: successful empty run
	return &service.ImportResult{Success: true}, nil
}
