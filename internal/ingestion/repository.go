package ingestion

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface is ingestion's write path into the tables
// ForecastEngine reads from. Raw inputs are read-only to the pipeline core;
// ingestion owns the inserts. Mockable for tests.
type RepositoryInterface interface {
	InsertHistoricalRide(ctx context.Context, row HistoricalRideRow) error
	InsertCompetitorPrice(ctx context.Context, row CompetitorPriceRow) error
}

// Repository is the pgx-backed RepositoryInterface implementation.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a Repository over a pgx pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// InsertHistoricalRide stores one accepted historical-ride row.
func (r *Repository) InsertHistoricalRide(ctx context.Context, row HistoricalRideRow) error {
	query := `
		INSERT INTO historical_rides
			(location_category, loyalty_tier, vehicle_type, pricing_model,
			 num_riders, num_drivers, ride_duration_minutes, unit_price, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		row.LocationCategory, row.LoyaltyTier, row.VehicleType, row.PricingModel,
		row.NumRiders, row.NumDrivers, row.RideDurationMinutes, row.UnitPrice(), row.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to insert historical ride: %w", err)
	}
	return nil
}

// InsertCompetitorPrice stores one accepted competitor-price row.
func (r *Repository) InsertCompetitorPrice(ctx context.Context, row CompetitorPriceRow) error {
	query := `
		INSERT INTO competitor_prices (company, location_category, vehicle_type, unit_price, observed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		row.Company, row.LocationCategory, row.VehicleType, row.UnitPrice(), row.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to insert competitor price: %w", err)
	}
	return nil
}
