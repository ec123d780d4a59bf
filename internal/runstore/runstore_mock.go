package runstore

import (
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(variant schema.Variant, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(variant, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordPoints implements the HistoryStore interface.
func (m *MockHistoryStore) RecordPoints(runID int64, points []schema.TimeSeriesPoint) error {
	args := m.Called(runID, points)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, summary schema.Summary) error {
	args := m.Called(runID, endTime, summary)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllRunPoints implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRunPoints() ([]schema.RunPointRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunPointRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
