package ingestion

import (
	"context"
	"sync"
)

// InMemoryRepository is a RepositoryInterface test double with no database.
type InMemoryRepository struct {
	mu               sync.Mutex
	HistoricalRides  []HistoricalRideRow
	CompetitorPrices []CompetitorPriceRow
}

// NewInMemoryRepository returns an empty InMemoryRepository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

var _ RepositoryInterface = (*InMemoryRepository)(nil)

// InsertHistoricalRide appends the row to the in-memory slice.
func (r *InMemoryRepository) InsertHistoricalRide(ctx context.Context, row HistoricalRideRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.HistoricalRides = append(r.HistoricalRides, row)
	return nil
}

// InsertCompetitorPrice appends the row to the in-memory slice.
func (r *InMemoryRepository) InsertCompetitorPrice(ctx context.Context, row CompetitorPriceRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CompetitorPrices = append(r.CompetitorPrices, row)
	return nil
}
