package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/richxcame/pricing-pipeline/internal/changetracker"
	"github.com/richxcame/pricing-pipeline/pkg/eventbus"
	"github.com/richxcame/pricing-pipeline/pkg/logger"
)

// Subjects ingestion consumes, one per upstream collection.
const (
	SubjectHistoricalRides  = "pricing.ingest.historical_rides"
	SubjectCompetitorPrices = "pricing.ingest.competitor_prices"
	SubjectEvents           = "pricing.ingest.events"
	SubjectTrafficData      = "pricing.ingest.traffic_data"
	SubjectNewsArticles     = "pricing.ingest.news_articles"

	consumerName = "pricing-pipeline-ingestion"
)

// Listener subscribes to the upstream ingestion subjects, persists or
// aggregates each accepted row, and records the change against the
// ChangeTracker. A row that fails to decode or fails its validity check is
// dropped and counted, never propagated as a pipeline failure.
type Listener struct {
	bus     *eventbus.Bus
	repo    RepositoryInterface
	agg     *Aggregator
	tracker *changetracker.Tracker

	dropped int64
}

// NewListener builds a Listener over its collaborators.
func NewListener(bus *eventbus.Bus, repo RepositoryInterface, agg *Aggregator, tracker *changetracker.Tracker) *Listener {
	return &Listener{bus: bus, repo: repo, agg: agg, tracker: tracker}
}

// Start subscribes to every ingestion subject. It returns once all
// subscriptions are registered; message handling continues in the
// background via the underlying NATS consumer.
func (l *Listener) Start(ctx context.Context) error {
	subs := []struct {
		subject    string
		collection string
		handle     eventbus.HandlerFunc
	}{
		{SubjectHistoricalRides, CollectionHistoricalRides, l.handleHistoricalRide},
		{SubjectCompetitorPrices, CollectionCompetitorPrices, l.handleCompetitorPrice},
		{SubjectEvents, CollectionEvents, l.handleEvent},
		{SubjectTrafficData, CollectionTrafficData, l.handleTraffic},
		{SubjectNewsArticles, CollectionNewsArticles, l.handleNews},
	}

	for _, s := range subs {
		if err := l.bus.Subscribe(ctx, s.subject, consumerName+"-"+s.collection, s.handle); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.subject, err)
		}
	}
	return nil
}

// DroppedRowCount reports how many rows failed decode or validation.
func (l *Listener) DroppedRowCount() int64 {
	return atomic.LoadInt64(&l.dropped)
}

func (l *Listener) handleHistoricalRide(ctx context.Context, event *eventbus.Event) error {
	var row HistoricalRideRow
	if err := json.Unmarshal(event.Data, &row); err != nil || !row.Valid() {
		l.dropRow(CollectionHistoricalRides, err)
		return nil
	}
	if err := l.repo.InsertHistoricalRide(ctx, row); err != nil {
		return err
	}
	l.agg.RecordHistoricalRide(row)
	l.tracker.RecordChange(CollectionHistoricalRides)
	return nil
}

func (l *Listener) handleCompetitorPrice(ctx context.Context, event *eventbus.Event) error {
	var row CompetitorPriceRow
	if err := json.Unmarshal(event.Data, &row); err != nil || !row.Valid() {
		l.dropRow(CollectionCompetitorPrices, err)
		return nil
	}
	if err := l.repo.InsertCompetitorPrice(ctx, row); err != nil {
		return err
	}
	l.agg.RecordCompetitorPrice(row)
	l.tracker.RecordChange(CollectionCompetitorPrices)
	return nil
}

func (l *Listener) handleEvent(ctx context.Context, event *eventbus.Event) error {
	var row EventRow
	if err := json.Unmarshal(event.Data, &row); err != nil {
		l.dropRow(CollectionEvents, err)
		return nil
	}
	l.agg.RecordEvent(row)
	l.tracker.RecordChange(CollectionEvents)
	return nil
}

func (l *Listener) handleTraffic(ctx context.Context, event *eventbus.Event) error {
	var row TrafficRow
	if err := json.Unmarshal(event.Data, &row); err != nil {
		l.dropRow(CollectionTrafficData, err)
		return nil
	}
	l.agg.RecordTraffic(row)
	l.tracker.RecordChange(CollectionTrafficData)
	return nil
}

func (l *Listener) handleNews(ctx context.Context, event *eventbus.Event) error {
	var row NewsArticleRow
	if err := json.Unmarshal(event.Data, &row); err != nil {
		l.dropRow(CollectionNewsArticles, err)
		return nil
	}
	l.agg.RecordNews(row)
	l.tracker.RecordChange(CollectionNewsArticles)
	return nil
}

func (l *Listener) dropRow(collection string, err error) {
	atomic.AddInt64(&l.dropped, 1)
	logger.Warn("dropped ingestion row",
		zap.String("collection", collection), zap.Error(err))
}
