package forecastengine

import (
	"context"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

// Regressor is the feature vector a Model consumes for one segment/day
// prediction: one-hot encodings of the five categorical dimensions plus
// the segment's numeric baseline context.
type Regressor struct {
	Segment         segmentlattice.Segment
	NumRiders       float64
	NumDrivers      float64
	RideDuration    float64
	BaselineUnitPrice float64
}

// DailyPrediction is one day's predicted rides/price/duration for a segment.
type DailyPrediction struct {
	Rides     float64
	UnitPrice float64
	Duration  float64
}

// Model is the out-of-scope demand/price prediction collaborator.
// ForecastEngine degrades to a seasonal-naive fallback whenever a Model is
// unavailable or its contract is violated.
type Model interface {
	// Predict returns one daily prediction for dayIndex (0-based, within
	// the requested horizon) given the regressor vector.
	Predict(ctx context.Context, dayIndex int, regressor Regressor) (DailyPrediction, error)
}

// Retrainer is the out-of-scope model-retraining collaborator invoked by
// the orchestrator's retraining gate before ForecastEngine runs.
type Retrainer interface {
	Retrain(ctx context.Context) (success bool, metrics map[string]float64, err error)
}
