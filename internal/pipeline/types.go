// Package pipeline coordinates the forecast, rule-generation, and
// recommendation phases into a single pricing-intelligence run, persists
// its RunRecord, and exposes the operational control surface.
package pipeline

import (
	"time"

	"github.com/richxcame/pricing-pipeline/internal/forecastengine"
	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// TriggerSource records what asked for a run.
type TriggerSource string

const (
	TriggerScheduler   TriggerSource = "scheduler"
	TriggerManual      TriggerSource = "manual"
	TriggerManualForce TriggerSource = "manual_force"
)

// RunStatus is a RunRecord's overall outcome.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PhaseStatus is one phase's individual outcome within a run.
type PhaseStatus string

const (
	PhaseStatusPending   PhaseStatus = "pending"
	PhaseStatusRunning   PhaseStatus = "running"
	PhaseStatusCompleted PhaseStatus = "completed"
	PhaseStatusFailed    PhaseStatus = "failed"
	PhaseStatusCancelled PhaseStatus = "cancelled"
)

// PhaseResult records one phase's status, error, and wall-clock duration.
type PhaseResult struct {
	Status     PhaseStatus `json:"status"`
	Error      *string     `json:"error"`
	DurationMs int64       `json:"duration_ms"`
}

// Phases holds the three tracked phases of a run, named
// forecast (ForecastEngine), analysis (RuleGenerator), recommendation
// (RecommendationEngine).
type Phases struct {
	Forecast       PhaseResult `json:"forecast"`
	Analysis       PhaseResult `json:"analysis"`
	Recommendation PhaseResult `json:"recommendation"`
}

// Results holds a run's computed output, omitted (left zero-valued) when a
// phase never completed.
type Results struct {
	Forecasts       map[string][]forecastengine.Forecast `json:"forecasts"`
	Rules           []rulegenerator.Rule                 `json:"rules"`
	Recommendations []recommendation.Recommendation      `json:"recommendations"`
}

// RunRecord is the persisted document describing one pipeline run,
// matching the canonical shape exactly.
type RunRecord struct {
	RunID         string        `json:"run_id"`
	TriggerSource TriggerSource `json:"trigger_source"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   time.Time     `json:"completed_at"`
	Status        RunStatus     `json:"status"`
	Phases        Phases        `json:"phases"`
	Results       Results       `json:"results"`
	Diagnostics   []string      `json:"diagnostics"`
}

// addDiagnostic appends a diagnostic string, guarding against duplicates so
// a retried phase does not double-report the same condition.
func (r *RunRecord) addDiagnostic(d string) {
	for _, existing := range r.Diagnostics {
		if existing == d {
			return
		}
	}
	r.Diagnostics = append(r.Diagnostics, d)
}

// StatusSnapshot answers get_status(): whether a run is in flight, its
// run_id if so, and the current set of pending change collections.
type StatusSnapshot struct {
	Running        bool     `json:"running"`
	CurrentRunID   string   `json:"current_run_id,omitempty"`
	PendingChanges []string `json:"pending_changes"`
}

// TriggerResult answers trigger_pipeline().
type TriggerResult struct {
	Status string `json:"status"`
	RunID  string `json:"run_id,omitempty"`
}

// TriggerStatus values for TriggerResult.Status.
const (
	TriggerStatusSkipped        = "skipped"
	TriggerStatusAlreadyRunning = "already_running"
	TriggerStatusCompleted      = "completed"
	TriggerStatusFailed         = "failed"
)

// ClearResult answers clear_changes().
type ClearResult struct {
	Cleared []string `json:"cleared"`
}

// retrainingCollections are the ChangeTracker collection names that gate
// model retraining before Phase 1.
var retrainingCollections = map[string]bool{
	"historical_rides":  true,
	"competitor_prices": true,
}
