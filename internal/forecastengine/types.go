// Package forecastengine turns historical rides into per-segment baselines
// and multi-horizon forecasts across the full 162-cell lattice.
package forecastengine

import (
	"time"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

// RideRecord is one historical ride observation used to compute baselines.
type RideRecord struct {
	Location        segmentlattice.LocationCategory
	Loyalty         segmentlattice.LoyaltyTier
	Vehicle         segmentlattice.VehicleType
	Pricing         segmentlattice.PricingModel
	Riders          int
	Drivers         int
	RideDurationMin float64
	UnitPrice       float64
	OccurredAt      time.Time
}

// DataQuality records how a baseline was derived.
type DataQuality string

const (
	DataQualityMeasured        DataQuality = "measured"
	DataQualityAggregated      DataQuality = "aggregated"
	DataQualityFallbackDefault DataQuality = "fallback_defaults"
)

// Confidence records the statistical confidence behind a baseline.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceVeryLow  Confidence = "very_low"
)

// Baseline is the observed or estimated steady-state for one segment.
type Baseline struct {
	Segment         segmentlattice.Segment
	SampleSize      int
	UnitPrice       float64
	DurationMinutes float64
	Rides           float64
	Riders          float64
	Drivers         float64
	Confidence      Confidence
	DataQuality     DataQuality
}

// Horizon is a forecast lookahead window in days.
type Horizon int

const (
	Horizon30 Horizon = 30
	Horizon60 Horizon = 60
	Horizon90 Horizon = 90
)

// Horizons lists every forecast horizon the engine must produce.
var Horizons = []Horizon{Horizon30, Horizon60, Horizon90}

// Forecast is a predicted revenue/rides/price/duration for one segment and horizon.
type Forecast struct {
	Segment         segmentlattice.Segment
	Horizon         Horizon
	PredictedRides  float64
	PredictedPrice  float64
	PredictedDur    float64
	PredictedRev    float64
	Confidence      Confidence
	DataQuality     DataQuality
	ModelBacked     bool
}

// Result is the full output of one forecast run: exactly 162 baselines and
// len(Horizons)*162 forecasts.
type Result struct {
	Baselines          []Baseline
	Forecasts          []Forecast
	DroppedRowCount     int
	ConfidenceHistogram map[Confidence]int
}
