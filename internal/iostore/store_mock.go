package iostore

import (
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// BeginRun implements the ReportStore interface.
func (m *MockReportStore) BeginRun(startTime time.Time, snapshotPath string, asOf time.Time) (int64, error) {
	args := m.Called(startTime, snapshotPath, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the ReportStore interface.
func (m *MockReportStore) EndRun(rec schema.ReportRunRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// RecordUserResult implements the ReportStore interface.
func (m *MockReportStore) RecordUserResult(rec schema.UserResultRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// GetLastRun implements the ReportStore interface.
func (m *MockReportStore) GetLastRun() (*schema.ReportRunRecord, error) {
	args := m.Called()
	rec, _ := args.Get(0).(*schema.ReportRunRecord)
	return rec, args.Error(1)
}

// GetAllRuns implements the ReportStore interface.
func (m *MockReportStore) GetAllRuns() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	recs, _ := args.Get(0).([]schema.ReportRunRecord)
	return recs, args.Error(1)
}

// GetAllUserResults implements the ReportStore interface.
func (m *MockReportStore) GetAllUserResults() ([]schema.UserResultRecord, error) {
	args := m.Called()
	recs, _ := args.Get(0).([]schema.UserResultRecord)
	return recs, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the ReportStore interface.
func (m *MockReportStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
