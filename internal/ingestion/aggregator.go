package ingestion

import (
	"context"
	"sync"

	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

type locationAgg struct {
	sampleSize int
	hwcoSum    float64
	hwcoCount  int
	compSum    float64
	compCount  int
}

// Aggregator accumulates ingestion rows into the running statistics
// RuleGenerator reads. It implements the pipeline's
// RuleInputsProvider without importing the pipeline package, matched
// structurally. Safe for concurrent ingestion callbacks.
type Aggregator struct {
	mu sync.Mutex

	locations      map[string]*locationAgg
	loyaltySamples map[string]int
	demandSamples  map[string]int
	vehicleDemand  map[string]int // key: vehicle + "|" + demand

	events  []rulegenerator.EventInput
	news    []rulegenerator.NewsInput
	traffic []rulegenerator.TrafficInput

	totalHistoricalRides int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		locations:      make(map[string]*locationAgg),
		loyaltySamples: make(map[string]int),
		demandSamples:  make(map[string]int),
		vehicleDemand:  make(map[string]int),
	}
}

// RecordHistoricalRide folds one accepted historical-ride row into the
// location, loyalty, demand, and vehicle-demand running statistics.
func (a *Aggregator) RecordHistoricalRide(row HistoricalRideRow) {
	if !row.Valid() {
		return
	}
	demand := segmentlattice.Classify(row.NumRiders, row.NumDrivers)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalHistoricalRides++

	loc := a.locations[row.LocationCategory]
	if loc == nil {
		loc = &locationAgg{}
		a.locations[row.LocationCategory] = loc
	}
	loc.sampleSize++
	loc.hwcoSum += row.UnitPrice()
	loc.hwcoCount++

	a.loyaltySamples[row.LoyaltyTier]++
	a.demandSamples[string(demand)]++
	a.vehicleDemand[row.VehicleType+"|"+string(demand)]++
}

// RecordCompetitorPrice folds a competitor observation into the same
// location's competitor-mean-price running statistic.
func (a *Aggregator) RecordCompetitorPrice(row CompetitorPriceRow) {
	if !row.Valid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	loc := a.locations[row.LocationCategory]
	if loc == nil {
		loc = &locationAgg{}
		a.locations[row.LocationCategory] = loc
	}
	loc.compSum += row.UnitPrice()
	loc.compCount++
}

// RecordEvent appends an upcoming event for RuleGenerator's event-based
// category.
func (a *Aggregator) RecordEvent(row EventRow) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, rulegenerator.EventInput{
		Category:            row.Category,
		PredictedAttendance: row.PredictedAttendance,
		StartTime:           row.StartTime,
	})
}

// RecordNews appends a scanned news article for RuleGenerator's news-based
// category.
func (a *Aggregator) RecordNews(row NewsArticleRow) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.news = append(a.news, rulegenerator.NewsInput{Keywords: row.Keywords})
}

// RecordTraffic appends a traffic window reading for RuleGenerator's
// surge-based category.
func (a *Aggregator) RecordTraffic(row TrafficRow) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.traffic = append(a.traffic, rulegenerator.TrafficInput{CongestionLevel: row.CongestionLevel})
}

// RuleInputs snapshots the running statistics into a rulegenerator.Inputs,
// implementing the pipeline's RuleInputsProvider contract.
func (a *Aggregator) RuleInputs(ctx context.Context) (rulegenerator.Inputs, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	locations := make([]rulegenerator.LocationStat, 0, len(a.locations))
	for loc, agg := range a.locations {
		stat := rulegenerator.LocationStat{Location: loc, SampleSize: agg.sampleSize}
		if agg.hwcoCount > 0 {
			stat.HWCOMeanUnitPrice = agg.hwcoSum / float64(agg.hwcoCount)
		}
		if agg.compCount > 0 {
			stat.CompetitorMeanPrice = agg.compSum / float64(agg.compCount)
		}
		locations = append(locations, stat)
	}

	loyalties := make([]rulegenerator.LoyaltyStat, 0, len(a.loyaltySamples))
	for tier, n := range a.loyaltySamples {
		loyalties = append(loyalties, rulegenerator.LoyaltyStat{Tier: tier, SampleSize: n})
	}

	demands := make([]rulegenerator.DemandStat, 0, len(a.demandSamples))
	for demand, n := range a.demandSamples {
		demands = append(demands, rulegenerator.DemandStat{Demand: demand, SampleSize: n})
	}

	vehicleDemands := make([]rulegenerator.VehicleDemandStat, 0, len(a.vehicleDemand))
	for key, n := range a.vehicleDemand {
		vehicle, demand := splitVehicleDemandKey(key)
		vehicleDemands = append(vehicleDemands, rulegenerator.VehicleDemandStat{
			Vehicle: vehicle, Demand: demand, SampleSize: n,
		})
	}

	return rulegenerator.Inputs{
		Locations:            locations,
		Loyalties:            loyalties,
		Demands:              demands,
		VehicleDemands:       vehicleDemands,
		Events:               append([]rulegenerator.EventInput(nil), a.events...),
		News:                 append([]rulegenerator.NewsInput(nil), a.news...),
		Traffic:              append([]rulegenerator.TrafficInput(nil), a.traffic...),
		TotalHistoricalRides: a.totalHistoricalRides,
	}, nil
}

func splitVehicleDemandKey(key string) (vehicle, demand string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
