package forecastengine

import (
	"context"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
	"github.com/richxcame/pricing-pipeline/pkg/common"
)

// Engine computes baselines and forecasts for the full lattice.
type Engine struct {
	repo  RepositoryInterface
	model Model
}

// NewEngine creates a forecast engine backed by repo; model may be nil, in
// which case every forecast falls back to the seasonal-naive method.
func NewEngine(repo RepositoryInterface, model Model) *Engine {
	return &Engine{repo: repo, model: model}
}

// Run computes the full forecast result for a historical window starting
// `daysObserved` days ago. It never returns fewer than 162 baselines or
// 162*len(Horizons) forecasts; partial data failures degrade individual
// segments to aggregated or fallback_defaults baselines instead of failing
// the run. Only a structural failure (inability to enumerate the lattice,
// which cannot happen with a fixed segmentlattice package, or a nil
// repository) returns a ComponentError.
func (e *Engine) Run(ctx context.Context, rides []RideRecord, daysObserved int) (*Result, error) {
	if e.repo == nil {
		return nil, common.NewComponentError("forecast engine has no repository configured", nil)
	}

	baselines, dropped := ComputeBaselines(rides)
	if len(baselines) != segmentlattice.CellCount {
		return nil, common.NewComponentError("baseline computation did not cover the full lattice", nil)
	}

	forecasts := ComputeForecasts(ctx, baselines, daysObserved, e.model)
	if len(forecasts) != segmentlattice.CellCount*len(Horizons) {
		return nil, common.NewComponentError("forecast computation did not cover every horizon for every segment", nil)
	}

	histogram := make(map[Confidence]int, 4)
	for _, b := range baselines {
		histogram[b.Confidence]++
	}

	return &Result{
		Baselines:           baselines,
		Forecasts:           forecasts,
		DroppedRowCount:     dropped,
		ConfidenceHistogram: histogram,
	}, nil
}

// ForecastsByHorizon groups a Result's forecasts by horizon, preserving
// lattice enumeration order within each group.
func ForecastsByHorizon(forecasts []Forecast) map[Horizon][]Forecast {
	grouped := make(map[Horizon][]Forecast, len(Horizons))
	for _, h := range Horizons {
		grouped[h] = make([]Forecast, 0, segmentlattice.CellCount)
	}
	for _, f := range forecasts {
		grouped[f.Horizon] = append(grouped[f.Horizon], f)
	}
	return grouped
}
