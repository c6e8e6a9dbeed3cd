package changetracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordChange_Idempotent(t *testing.T) {
	tr := New()
	tr.RecordChange("historical_rides")
	tr.RecordChange("historical_rides")
	assert.Len(t, tr.Pending(), 1)
}

func TestHasPendingChanges_EmptyByDefault(t *testing.T) {
	tr := New()
	assert.False(t, tr.HasPendingChanges())
	tr.RecordChange("events")
	assert.True(t, tr.HasPendingChanges())
}

func TestSnapshotAndClear_AtomicSwap(t *testing.T) {
	tr := New()
	tr.RecordChange("historical_rides")
	tr.RecordChange("competitor_prices")

	snapshot := tr.SnapshotAndClear()
	assert.Len(t, snapshot, 2)
	assert.True(t, Has(snapshot, "historical_rides"))
	assert.True(t, Has(snapshot, "competitor_prices"))

	assert.False(t, tr.HasPendingChanges())
	assert.Empty(t, tr.Pending())
}

func TestSnapshotAndClear_ConcurrentProducers(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	collections := []string{"historical_rides", "competitor_prices", "events", "traffic_data", "news_articles"}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tr.RecordChange(collections[n%len(collections)])
		}(i)
	}
	wg.Wait()

	snapshot := tr.SnapshotAndClear()
	assert.LessOrEqual(t, len(snapshot), len(collections))
	assert.False(t, tr.HasPendingChanges())
}

func TestSnapshotAndClear_DoesNotLoseChangesRecordedAfterSwap(t *testing.T) {
	tr := New()
	tr.RecordChange("historical_rides")
	first := tr.SnapshotAndClear()
	assert.Len(t, first, 1)

	tr.RecordChange("events")
	second := tr.SnapshotAndClear()
	assert.Len(t, second, 1)
	assert.True(t, Has(second, "events"))
	assert.False(t, Has(second, "historical_rides"))
}
