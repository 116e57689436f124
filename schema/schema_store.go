package schema

import "time"

// ReportRunRecord represents a row from the okrpulse_report_runs table.
type ReportRunRecord struct {
	RunID              int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	SnapshotPath       string
	AsOf               time.Time
	TotalUsers         int32
	TotalGoals         int32
	TotalKeyResults    int32
	TotalCheckpoints   int32
	OKRHealthScore     float64
	CheckinHealthScore float64
	OverallHealthScore float64
	CriticalAlerts     int32
	ModerateAlerts     int32
	LowAlerts          int32
}

// UserResultRecord represents a row from the okrpulse_user_results table.
type UserResultRecord struct {
	RunID             int64
	UserID            string
	UserName          string
	Period            string
	CurrentValue      float64
	ReferenceValue    float64
	AdjustedReference float64
	RawShift          float64
	AdjustedShift     float64
	ReferenceAdjusted bool
	ShiftAdjusted     bool
	KRCount           int32
	RiskScore         int32
	RiskLevel         string
	Score             float64
}
