package recommendation

import (
	"github.com/richxcame/pricing-pipeline/internal/forecastengine"
	"github.com/richxcame/pricing-pipeline/internal/pricingkernel"
)

// FromForecasts extracts the single horizon's forecasts into the
// SegmentForecast shape the combination search simulates against. The
// spec scores combinations against the 30-day horizon.
func FromForecasts(forecasts []forecastengine.Forecast, horizon forecastengine.Horizon) []SegmentForecast {
	out := make([]SegmentForecast, 0, len(forecasts))
	for _, f := range forecasts {
		if f.Horizon != horizon {
			continue
		}
		out = append(out, SegmentForecast{
			Segment: f.Segment,
			Baseline: pricingkernel.Baseline{
				Rides:           f.PredictedRides,
				UnitPrice:       f.PredictedPrice,
				DurationMinutes: f.PredictedDur,
			},
			BaselineRevenue: f.PredictedRev,
		})
	}
	return out
}
