package pipeline

import (
	"context"
	"time"

	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// RuleInputsProvider supplies the aggregated statistics RuleGenerator
// needs for one run, decoupling the orchestrator from ingestion's storage
// details.
type RuleInputsProvider interface {
	RuleInputs(ctx context.Context) (rulegenerator.Inputs, error)
}

// ScenarioRow is one row of the collaborator report contract:
// 162 segments × 5 scenarios (HWCO-baseline, competitor-baseline, and the
// three recommendations).
type ScenarioRow struct {
	SegmentKey  string  `json:"segment_key"`
	Scenario    string  `json:"scenario"`
	Rides30d    float64 `json:"rides_30d"`
	UnitPrice   float64 `json:"unit_price"`
	DurationMin float64 `json:"duration_minutes"`
	Revenue30d  float64 `json:"revenue_30d"`
	Explanation string  `json:"explanation"`
}

// ReportGenerator is the collaborator contract that turns a completed
// RunRecord into the 162x5 scenario report. Implementations live outside
// the orchestrator; this interface exists so the orchestrator can notify
// one if configured, without depending on a concrete implementation.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, run RunRecord) ([]ScenarioRow, error)
}

// Chatbot is the collaborator contract that may read a RunRecord and the
// strategy collection but never writes to them and never invokes
// orchestrator controls directly. No methods are needed here since the
// core never calls into it; this type documents the boundary.
type Chatbot interface {
	// no-op: the core does not drive the chatbot, it only guarantees the
	// chatbot's read surface (RunRecord, strategy collection) is stable.
}

// needsRetraining checks whether a retraining gate must run before Phase 1:
// the ChangeTracker snapshot contains historical_rides or
// competitor_prices.
func needsRetraining(snapshot map[string]struct{}) bool {
	for collection := range snapshot {
		if retrainingCollections[collection] {
			return true
		}
	}
	return false
}

// forecastWindowStart bounds how far back historical rides are pulled for
// a run; 180 days gives the baseline computation a stable sample without
// unbounded growth.
const forecastLookbackDays = 180

func forecastWindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -forecastLookbackDays)
}
