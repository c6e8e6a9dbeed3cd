// Package ingestion decodes upstream raw-data notifications and turns them
// into the inputs ForecastEngine and RuleGenerator read: typed historical
// ride/competitor rows land in Postgres, typed event/traffic/news rows feed
// an in-memory aggregator, and every accepted row marks its collection
// dirty in the ChangeTracker.
package ingestion

import "time"

// Collection names match the ChangeTracker collection keys consumed by
// the pipeline's retraining gate.
const (
	CollectionHistoricalRides  = "historical_rides"
	CollectionCompetitorPrices = "competitor_prices"
	CollectionEvents           = "events"
	CollectionTrafficData      = "traffic_data"
	CollectionNewsArticles     = "news_articles"
)

// HistoricalRideRow is one raw historical-ride notification.
type HistoricalRideRow struct {
	OrderDate           time.Time `json:"order_date"`
	PricingModel        string    `json:"pricing_model"`
	LocationCategory    string    `json:"location_category"`
	LoyaltyTier         string    `json:"loyalty_tier"`
	VehicleType         string    `json:"vehicle_type"`
	NumRiders           int       `json:"num_riders"`
	NumDrivers          int       `json:"num_drivers"`
	RideDurationMinutes float64   `json:"ride_duration_minutes"`
	HistoricalCost      float64   `json:"historical_cost"`
}

// Valid reports whether the row can be converted to a unit price: duration
// must be positive, and rider and driver counts must not be negative.
func (r HistoricalRideRow) Valid() bool {
	return r.RideDurationMinutes > 0 && r.NumRiders >= 0 && r.NumDrivers >= 0
}

// UnitPrice derives historical_cost / ride_duration_minutes.
func (r HistoricalRideRow) UnitPrice() float64 {
	return r.HistoricalCost / r.RideDurationMinutes
}

// CompetitorPriceRow is a HistoricalRideRow plus the competitor's identity.
type CompetitorPriceRow struct {
	HistoricalRideRow
	Company string `json:"company"` // HWCO or COMPETITOR
}

// EventRow is an upcoming event that may justify an event-based rule.
type EventRow struct {
	StartTime           time.Time `json:"start_time"`
	Category            string    `json:"category"`
	PredictedAttendance int       `json:"predicted_attendance"`
}

// TrafficRow is a traffic window's congestion reading.
type TrafficRow struct {
	WindowStart     time.Time `json:"window_start"`
	CongestionLevel string    `json:"congestion_level"` // low, medium, high
}

// NewsArticleRow is a scanned news article.
type NewsArticleRow struct {
	PublishedAt time.Time `json:"published_at"`
	Keywords    []string  `json:"keywords"`
}
