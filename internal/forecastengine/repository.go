package forecastengine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines persistence for historical ride input and
// accuracy tracking. Mockable for tests.
type RepositoryInterface interface {
	GetHistoricalRides(ctx context.Context, since time.Time) ([]RideRecord, error)
	GetCompetitorPrices(ctx context.Context, since time.Time) ([]CompetitorPrice, error)
	RecordActualOutcome(ctx context.Context, segmentKey string, horizon Horizon, actualRides, actualRevenue float64) error
	GetAccuracyMetrics(ctx context.Context, horizon Horizon, daysBack int) (*AccuracyMetrics, error)
}

// CompetitorPrice is a competitor's observed rate for a location/vehicle pair.
type CompetitorPrice struct {
	Company   string
	Location  string
	Vehicle   string
	UnitPrice float64
	ObservedAt time.Time
}

// AccuracyMetrics summarizes how close past forecasts came to observed outcomes.
type AccuracyMetrics struct {
	Horizon           Horizon
	SampleCount       int
	MeanAbsPctError   float64
	MedianAbsPctError float64
}

// Repository is the pgx-backed RepositoryInterface implementation.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new forecast-engine repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// GetHistoricalRides loads ride records recorded since the given time.
func (r *Repository) GetHistoricalRides(ctx context.Context, since time.Time) ([]RideRecord, error) {
	query := `
		SELECT location_category, loyalty_tier, vehicle_type, pricing_model,
		       num_riders, num_drivers, ride_duration_minutes, unit_price, occurred_at
		FROM historical_rides
		WHERE occurred_at >= $1
		ORDER BY occurred_at ASC
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical rides: %w", err)
	}
	defer rows.Close()

	var rides []RideRecord
	for rows.Next() {
		var rec RideRecord
		var location, loyalty, vehicle, pricing string
		if err := rows.Scan(&location, &loyalty, &vehicle, &pricing,
			&rec.Riders, &rec.Drivers, &rec.RideDurationMin, &rec.UnitPrice, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan historical ride row: %w", err)
		}
		rec.Location = segmentLocation(location)
		rec.Loyalty = segmentLoyalty(loyalty)
		rec.Vehicle = segmentVehicle(vehicle)
		rec.Pricing = segmentPricing(pricing)
		rides = append(rides, rec)
	}

	return rides, rows.Err()
}

// GetCompetitorPrices loads competitor price observations since the given time.
func (r *Repository) GetCompetitorPrices(ctx context.Context, since time.Time) ([]CompetitorPrice, error) {
	query := `
		SELECT company, location_category, vehicle_type, unit_price, observed_at
		FROM competitor_prices
		WHERE observed_at >= $1
		ORDER BY observed_at ASC
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitor prices: %w", err)
	}
	defer rows.Close()

	var prices []CompetitorPrice
	for rows.Next() {
		var p CompetitorPrice
		if err := rows.Scan(&p.Company, &p.Location, &p.Vehicle, &p.UnitPrice, &p.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competitor price row: %w", err)
		}
		prices = append(prices, p)
	}

	return prices, rows.Err()
}

// RecordActualOutcome stores an observed rides/revenue outcome for a
// forecasted segment/horizon, for later accuracy scoring.
func (r *Repository) RecordActualOutcome(ctx context.Context, segmentKey string, horizon Horizon, actualRides, actualRevenue float64) error {
	query := `
		INSERT INTO forecast_accuracy_observations (segment_key, horizon_days, actual_rides, actual_revenue, recorded_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, segmentKey, int(horizon), actualRides, actualRevenue)
	if err != nil {
		return fmt.Errorf("failed to record forecast outcome: %w", err)
	}
	return nil
}

// GetAccuracyMetrics aggregates observed-vs-predicted error for a horizon
// over the last daysBack days.
func (r *Repository) GetAccuracyMetrics(ctx context.Context, horizon Horizon, daysBack int) (*AccuracyMetrics, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(ABS(o.actual_revenue - f.predicted_revenue) / NULLIF(f.predicted_revenue, 0)) * 100, 0),
		       COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY ABS(o.actual_revenue - f.predicted_revenue) / NULLIF(f.predicted_revenue, 0)) * 100, 0)
		FROM forecast_accuracy_observations o
		JOIN forecast_snapshots f ON f.segment_key = o.segment_key AND f.horizon_days = o.horizon_days
		WHERE o.horizon_days = $1 AND o.recorded_at >= NOW() - ($2 || ' days')::interval
	`

	var metrics AccuracyMetrics
	metrics.Horizon = horizon
	row := r.db.QueryRow(ctx, query, int(horizon), daysBack)
	if err := row.Scan(&metrics.SampleCount, &metrics.MeanAbsPctError, &metrics.MedianAbsPctError); err != nil {
		return nil, fmt.Errorf("failed to compute accuracy metrics: %w", err)
	}

	return &metrics, nil
}

// marshalRegressor is a convenience for persisting a Regressor as JSONB
// alongside a forecast snapshot row.
func marshalRegressor(reg Regressor) ([]byte, error) {
	return json.Marshal(reg)
}
