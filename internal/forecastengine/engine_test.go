package forecastengine

import (
	"context"
	"testing"
	"time"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRide(loc segmentlattice.LocationCategory, loy segmentlattice.LoyaltyTier, veh segmentlattice.VehicleType, pm segmentlattice.PricingModel, riders, drivers int) RideRecord {
	return RideRecord{
		Location:        loc,
		Loyalty:         loy,
		Vehicle:         veh,
		Pricing:         pm,
		Riders:          riders,
		Drivers:         drivers,
		RideDurationMin: 20,
		UnitPrice:       3.0,
		OccurredAt:      time.Now(),
	}
}

func TestComputeBaselines_EmptyInputAllFallback(t *testing.T) {
	baselines, dropped := ComputeBaselines(nil)
	require.Len(t, baselines, segmentlattice.CellCount)
	assert.Equal(t, 0, dropped)
	for _, b := range baselines {
		assert.Equal(t, DataQualityFallbackDefault, b.DataQuality)
		assert.Greater(t, b.UnitPrice, 0.0)
		assert.Greater(t, b.DurationMinutes, 0.0)
	}
}

func TestComputeBaselines_DropsInvalidRows(t *testing.T) {
	rides := []RideRecord{
		sampleRide(segmentlattice.LocationUrban, segmentlattice.LoyaltyGold, segmentlattice.VehiclePremium, segmentlattice.PricingStandard, 100, 20),
		{Location: segmentlattice.LocationUrban, Loyalty: segmentlattice.LoyaltyGold, Vehicle: segmentlattice.VehiclePremium, Pricing: segmentlattice.PricingStandard, Riders: 0, RideDurationMin: 20},
		{Location: "Unknown", Loyalty: segmentlattice.LoyaltyGold, Vehicle: segmentlattice.VehiclePremium, Pricing: segmentlattice.PricingStandard, Riders: 5, RideDurationMin: 10},
	}
	_, dropped := ComputeBaselines(rides)
	assert.Equal(t, 2, dropped)
}

func TestComputeBaselines_MeasuredWhenSampleSufficient(t *testing.T) {
	var rides []RideRecord
	for i := 0; i < 5; i++ {
		rides = append(rides, sampleRide(segmentlattice.LocationUrban, segmentlattice.LoyaltyGold, segmentlattice.VehiclePremium, segmentlattice.PricingStandard, 100, 20))
	}
	baselines, _ := ComputeBaselines(rides)

	target := segmentlattice.Segment{
		Location: segmentlattice.LocationUrban, Loyalty: segmentlattice.LoyaltyGold,
		Vehicle: segmentlattice.VehiclePremium, Pricing: segmentlattice.PricingStandard,
		Demand: segmentlattice.Classify(100, 20),
	}
	for _, b := range baselines {
		if b.Segment == target {
			assert.Equal(t, DataQualityMeasured, b.DataQuality)
			assert.Equal(t, 5, b.SampleSize)
			return
		}
	}
	t.Fatal("target segment baseline not found")
}

func TestComputeBaselines_AggregatedWhenBaseGroupHasDataButSegmentDoesNot(t *testing.T) {
	rides := []RideRecord{
		sampleRide(segmentlattice.LocationUrban, segmentlattice.LoyaltyGold, segmentlattice.VehiclePremium, segmentlattice.PricingStandard, 100, 90),
	}
	baselines, _ := ComputeBaselines(rides)

	other := segmentlattice.Segment{
		Location: segmentlattice.LocationUrban, Loyalty: segmentlattice.LoyaltyGold,
		Vehicle: segmentlattice.VehiclePremium, Pricing: segmentlattice.PricingStandard,
		Demand: segmentlattice.DemandHigh,
	}
	for _, b := range baselines {
		if b.Segment == other {
			assert.Equal(t, DataQualityAggregated, b.DataQuality)
			return
		}
	}
	t.Fatal("expected aggregated baseline not found")
}

func TestComputeForecasts_SeasonalNaiveFallback(t *testing.T) {
	baselines, _ := ComputeBaselines(nil)
	forecasts := ComputeForecasts(context.Background(), baselines, 30, nil)
	require.Len(t, forecasts, segmentlattice.CellCount*len(Horizons))
	for _, f := range forecasts {
		assert.InDelta(t, f.PredictedRides*f.PredictedDur*f.PredictedPrice, f.PredictedRev, 1e-6)
		assert.False(t, f.ModelBacked)
	}
}

type stubModel struct{}

func (stubModel) Predict(ctx context.Context, dayIndex int, regressor Regressor) (DailyPrediction, error) {
	return DailyPrediction{Rides: 10, UnitPrice: 3.5, Duration: 22}, nil
}

func TestComputeForecasts_ModelBackedRevenueInvariant(t *testing.T) {
	baselines, _ := ComputeBaselines(nil)
	forecasts := ComputeForecasts(context.Background(), baselines, 30, stubModel{})
	require.Len(t, forecasts, segmentlattice.CellCount*len(Horizons))
	for _, f := range forecasts {
		assert.True(t, f.ModelBacked)
		expectedRevenue := float64(f.Horizon) * 10 * 3.5 * 22
		assert.InDelta(t, expectedRevenue, f.PredictedRev, 1e-6)
	}
}

type dayVaryingStubModel struct{}

func (dayVaryingStubModel) Predict(ctx context.Context, dayIndex int, regressor Regressor) (DailyPrediction, error) {
	if dayIndex%2 == 0 {
		return DailyPrediction{Rides: 10, UnitPrice: 3.0, Duration: 20}, nil
	}
	return DailyPrediction{Rides: 10, UnitPrice: 5.0, Duration: 30}, nil
}

// TestComputeForecasts_ModelBackedRevenueInvariant_DayVaryingPredictions
// mirrors the uneven-day counterexample where naive unweighted means of
// price and duration diverge from the true revenue sum: alternating days
// of (rides=10, dur=20, price=3.0) and (rides=10, dur=30, price=5.0) must
// still satisfy the revenue identity exactly, not by coincidence.
func TestComputeForecasts_ModelBackedRevenueInvariant_DayVaryingPredictions(t *testing.T) {
	baselines, _ := ComputeBaselines(nil)
	forecasts := ComputeForecasts(context.Background(), baselines, 30, dayVaryingStubModel{})
	require.Len(t, forecasts, segmentlattice.CellCount*len(Horizons))
	for _, f := range forecasts {
		assert.True(t, f.ModelBacked)
		assert.InDelta(t, f.PredictedRides*f.PredictedDur*f.PredictedPrice, f.PredictedRev, 1e-6)
	}
}

func TestEngine_Run_NilRepositoryReturnsError(t *testing.T) {
	engine := NewEngine(nil, nil)
	_, err := engine.Run(context.Background(), nil, 30)
	assert.Error(t, err)
}

type fakeRepo struct{}

func (fakeRepo) GetHistoricalRides(ctx context.Context, since time.Time) ([]RideRecord, error) {
	return nil, nil
}
func (fakeRepo) GetCompetitorPrices(ctx context.Context, since time.Time) ([]CompetitorPrice, error) {
	return nil, nil
}
func (fakeRepo) RecordActualOutcome(ctx context.Context, segmentKey string, horizon Horizon, actualRides, actualRevenue float64) error {
	return nil
}
func (fakeRepo) GetAccuracyMetrics(ctx context.Context, horizon Horizon, daysBack int) (*AccuracyMetrics, error) {
	return &AccuracyMetrics{Horizon: horizon}, nil
}

func TestEngine_Run_ProducesExactCounts(t *testing.T) {
	engine := NewEngine(fakeRepo{}, nil)
	result, err := engine.Run(context.Background(), nil, 30)
	require.NoError(t, err)
	assert.Len(t, result.Baselines, segmentlattice.CellCount)
	assert.Len(t, result.Forecasts, segmentlattice.CellCount*len(Horizons))
}
