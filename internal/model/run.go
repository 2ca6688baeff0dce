package model

import "time"

// RunStatus tracks a scoring run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ScoringRun records one invocation of the scoring pipeline: how it was
// parameterized, and the ranked results once complete.
type ScoringRun struct {
	ID             string          `json:"id"`
	DonationAmount float64         `json:"donation_amount,omitempty"`
	RaceCount      int             `json:"race_count"`
	Status         RunStatus       `json:"status"`
	Error          string          `json:"error,omitempty"`
	Results        []LeverageScore `json:"results,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
