package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHistoricalRide_FeedsLocationAndDemandStats(t *testing.T) {
	agg := NewAggregator()
	agg.RecordHistoricalRide(HistoricalRideRow{
		OrderDate:           time.Now(),
		LocationCategory:    "Urban",
		LoyaltyTier:         "Gold",
		VehicleType:         "Premium",
		PricingModel:        "Standard",
		NumRiders:           100,
		NumDrivers:          20, // rho=20 -> HIGH
		RideDurationMinutes: 15,
		HistoricalCost:      45,
	})

	inputs, err := agg.RuleInputs(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs.Locations, 1)
	assert.Equal(t, "Urban", inputs.Locations[0].Location)
	assert.Equal(t, 3.0, inputs.Locations[0].HWCOMeanUnitPrice)
	assert.Equal(t, 1, inputs.Locations[0].SampleSize)

	require.Len(t, inputs.Loyalties, 1)
	assert.Equal(t, "Gold", inputs.Loyalties[0].Tier)

	require.Len(t, inputs.Demands, 1)
	assert.Equal(t, "HIGH", inputs.Demands[0].Demand)

	require.Len(t, inputs.VehicleDemands, 1)
	assert.Equal(t, "Premium", inputs.VehicleDemands[0].Vehicle)
	assert.Equal(t, "HIGH", inputs.VehicleDemands[0].Demand)

	assert.Equal(t, 1, inputs.TotalHistoricalRides)
}

func TestRecordHistoricalRide_ZeroDurationRowIsDropped(t *testing.T) {
	agg := NewAggregator()
	agg.RecordHistoricalRide(HistoricalRideRow{
		LocationCategory:    "Urban",
		RideDurationMinutes: 0,
		HistoricalCost:      10,
	})

	inputs, err := agg.RuleInputs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inputs.TotalHistoricalRides)
	assert.Empty(t, inputs.Locations)
}

func TestRecordCompetitorPrice_FillsCompetitorMeanForExistingLocation(t *testing.T) {
	agg := NewAggregator()
	agg.RecordHistoricalRide(HistoricalRideRow{
		LocationCategory:    "Suburban",
		LoyaltyTier:         "Silver",
		VehicleType:         "Standard",
		NumRiders:           50,
		NumDrivers:          50,
		RideDurationMinutes: 10,
		HistoricalCost:      20,
	})
	agg.RecordCompetitorPrice(CompetitorPriceRow{
		HistoricalRideRow: HistoricalRideRow{
			LocationCategory:    "Suburban",
			RideDurationMinutes: 10,
			HistoricalCost:      25,
		},
		Company: "COMPETITOR",
	})

	inputs, err := agg.RuleInputs(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs.Locations, 1)
	assert.Equal(t, 2.5, inputs.Locations[0].CompetitorMeanPrice)
}

func TestRecordEventNewsTraffic_AppearInRuleInputs(t *testing.T) {
	agg := NewAggregator()
	agg.RecordEvent(EventRow{Category: "sports", PredictedAttendance: 5000, StartTime: time.Now()})
	agg.RecordNews(NewsArticleRow{Keywords: []string{"strike", "fuel"}})
	agg.RecordTraffic(TrafficRow{CongestionLevel: "high"})

	inputs, err := agg.RuleInputs(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs.Events, 1)
	assert.Equal(t, "sports", inputs.Events[0].Category)
	require.Len(t, inputs.News, 1)
	assert.ElementsMatch(t, []string{"strike", "fuel"}, inputs.News[0].Keywords)
	require.Len(t, inputs.Traffic, 1)
	assert.Equal(t, "high", inputs.Traffic[0].CongestionLevel)
}
