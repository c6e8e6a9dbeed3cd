// Package changetracker holds the pipeline's only process-wide mutable
// state: the set of raw-data collections that have changed since the last
// run. Producers (ingestion) record changes; the orchestrator consumes a
// snapshot before each run.
package changetracker

import "sync"

// Tracker is a mutex-guarded set of dirty collection names. It is safe for
// concurrent use by many producers and one consumer.
type Tracker struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{pending: make(map[string]struct{})}
}

// RecordChange marks a collection as having pending changes. Idempotent:
// recording the same collection name twice has no additional effect.
func (t *Tracker) RecordChange(collection string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[collection] = struct{}{}
}

// HasPendingChanges reports whether any collection has a pending change.
func (t *Tracker) HasPendingChanges() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) > 0
}

// Pending returns the collection names currently marked dirty, without
// clearing them.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return keys(t.pending)
}

// SnapshotAndClear atomically takes the current dirty set and replaces it
// with an empty one, so a consumer can act on exactly the changes recorded
// before the swap without racing new producers.
func (t *Tracker) SnapshotAndClear() map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := t.pending
	t.pending = make(map[string]struct{})
	return snapshot
}

// Has reports whether a specific collection is present in a snapshot.
func Has(snapshot map[string]struct{}, collection string) bool {
	_, ok := snapshot[collection]
	return ok
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
