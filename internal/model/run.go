package model

import "time"

// RunStatus tracks a persisted optimization run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted optimization run: the client it was computed for,
// the source report, and the full result.
type Run struct {
	ID         string              `json:"id"`
	Client     string              `json:"client"`
	ReportFile string              `json:"report_file"`
	Status     RunStatus           `json:"status"`
	Result     *OptimizationResult `json:"result,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}
