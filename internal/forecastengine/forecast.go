package forecastengine

import "context"

// fallbackDailyRideRate is the conservative daily ride rate assumed for
// fallback_defaults baselines that have no observed sample to extrapolate
// from.
const fallbackDailyRideRate = 1.0

// ComputeForecasts produces len(Horizons)*162 forecasts from a set of
// baselines. When model is non-nil, each segment/day is predicted via the
// model and aggregated so predicted_revenue = sum(rides*duration*price)
// per day, never rides*mean, preserving the revenue identity. A model
// error for a segment degrades only that segment to the seasonal-naive
// fallback; it never aborts the run.
func ComputeForecasts(ctx context.Context, baselines []Baseline, daysObserved int, model Model) []Forecast {
	forecasts := make([]Forecast, 0, len(baselines)*len(Horizons))

	for _, b := range baselines {
		for _, h := range Horizons {
			if model != nil {
				if f, ok := modelBackedForecast(ctx, b, h, model); ok {
					forecasts = append(forecasts, f)
					continue
				}
			}
			forecasts = append(forecasts, seasonalNaiveForecast(b, h, daysObserved))
		}
	}

	return forecasts
}

func modelBackedForecast(ctx context.Context, b Baseline, h Horizon, model Model) (Forecast, bool) {
	var totalRides, totalRevenue, rideWeightedDuration float64

	for day := 0; day < int(h); day++ {
		regressor := Regressor{
			Segment:           b.Segment,
			NumRiders:         b.Riders,
			NumDrivers:        b.Drivers,
			RideDuration:      b.DurationMinutes,
			BaselineUnitPrice: b.UnitPrice,
		}
		pred, err := model.Predict(ctx, day, regressor)
		if err != nil {
			return Forecast{}, false
		}
		totalRides += pred.Rides
		totalRevenue += pred.Rides * pred.Duration * pred.UnitPrice
		rideWeightedDuration += pred.Rides * pred.Duration
	}

	// PredictedDur is the ride-weighted mean daily duration, and
	// PredictedPrice is derived from it rather than averaged independently,
	// so PredictedRides*PredictedDur*PredictedPrice always reproduces
	// PredictedRev exactly instead of drifting apart across days with
	// uneven ride volume.
	var predictedDur, predictedPrice float64
	if totalRides > 0 {
		predictedDur = rideWeightedDuration / totalRides
		if predictedDur > 0 {
			predictedPrice = totalRevenue / (totalRides * predictedDur)
		}
	}

	return Forecast{
		Segment:        b.Segment,
		Horizon:        h,
		PredictedRides: totalRides,
		PredictedPrice: predictedPrice,
		PredictedDur:   predictedDur,
		PredictedRev:   totalRevenue,
		Confidence:     b.Confidence,
		DataQuality:    b.DataQuality,
		ModelBacked:    true,
	}, true
}

func seasonalNaiveForecast(b Baseline, h Horizon, daysObserved int) Forecast {
	var dailyRate float64
	switch {
	case b.DataQuality == DataQualityFallbackDefault:
		dailyRate = fallbackDailyRideRate
	case daysObserved > 0:
		dailyRate = float64(b.SampleSize) / float64(daysObserved)
	default:
		dailyRate = fallbackDailyRideRate
	}

	predictedRides := dailyRate * float64(h)
	predictedRevenue := predictedRides * b.DurationMinutes * b.UnitPrice

	return Forecast{
		Segment:        b.Segment,
		Horizon:        h,
		PredictedRides: predictedRides,
		PredictedPrice: b.UnitPrice,
		PredictedDur:   b.DurationMinutes,
		PredictedRev:   predictedRevenue,
		Confidence:     b.Confidence,
		DataQuality:    b.DataQuality,
		ModelBacked:    false,
	}
}
