package recorder

import (
	"time"

	"ReportDog/internal/model"
)

// Triggers of a recorded analysis run.
const (
	TriggerWeb       = "WEB"
	TriggerScheduled = "SCHEDULED"
	TriggerCommand   = "COMMAND"
)

// ReportSnapshot is one recorded credit outcome for the history endpoint.
type ReportSnapshot struct {
	RunID      string    `json:"run_id"`
	Code       string    `json:"code"`
	Trigger    string    `json:"trigger"`
	RecordedAt time.Time `json:"recorded_at"`
	Period     string    `json:"period"`
	TotalScore int       `json:"total_score"`
	Grade      string    `json:"grade"`
	ZScore     float64   `json:"z_score"`
	ZZone      string    `json:"z_zone"`
}

// Recorder persists analysis runs for later comparison.
type Recorder interface {
	// RecordAnalysis stores the report and returns the generated run id.
	RecordAnalysis(report *model.Report, trigger string) (string, error)
	// ListReports returns up to limit snapshots for code, newest first.
	ListReports(code string, limit int) ([]ReportSnapshot, error)
	Close() error
}
