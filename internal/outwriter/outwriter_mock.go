package outwriter

import (
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/mock"
)

// MockOutWriter is a mock implementation of OutputWriter for testing.
type MockOutWriter struct {
	mock.Mock
}

var _ contract.OutputWriter = &MockOutWriter{} // Compile-time check

// WriteSummary implements the OutputWriter interface.
func (m *MockOutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	args := m.Called(summary, cfg, duration)
	return args.Error(0)
}

// WriteFields implements the OutputWriter interface.
func (m *MockOutWriter) WriteFields(cfg *contract.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}
