package model

// PhaseStatus is the outcome of one pipeline phase.
type PhaseStatus string

const (
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult records timing and outcome for a pipeline phase.
type PhaseResult struct {
	Name       string      `json:"name"`
	Status     PhaseStatus `json:"status"`
	Duration   int64       `json:"duration_ms"`
	TokenUsage TokenUsage  `json:"token_usage"`
	Error      string      `json:"error,omitempty"`
}
