package pipeline

import (
	"fmt"

	"github.com/richxcame/pricing-pipeline/internal/forecastengine"
)

// forecastsByHorizonKey groups forecasts into the "30d"/"60d"/"90d" string
// keys the RunRecord.results.forecasts shape expects.
func forecastsByHorizonKey(forecasts []forecastengine.Forecast) map[string][]forecastengine.Forecast {
	byHorizon := forecastengine.ForecastsByHorizon(forecasts)
	out := make(map[string][]forecastengine.Forecast, len(byHorizon))
	for horizon, fs := range byHorizon {
		out[fmt.Sprintf("%dd", int(horizon))] = fs
	}
	return out
}
