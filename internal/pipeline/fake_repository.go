package pipeline

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRunRepository is a test double satisfying RunRepository without
// a database.
type InMemoryRunRepository struct {
	mu   sync.Mutex
	runs map[string]RunRecord
}

// NewInMemoryRunRepository builds an empty in-memory run repository.
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{runs: make(map[string]RunRecord)}
}

var _ RunRepository = (*InMemoryRunRepository)(nil)

func (m *InMemoryRunRepository) Save(ctx context.Context, run RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.RunID] = run
	return nil
}

func (m *InMemoryRunRepository) sorted() []RunRecord {
	out := make([]RunRecord, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (m *InMemoryRunRepository) LastRun(ctx context.Context) (*RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := m.sorted()
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (m *InMemoryRunRepository) History(ctx context.Context, limit, offset int) ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := m.sorted()
	if offset >= len(runs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(runs) || limit <= 0 {
		end = len(runs)
	}
	return runs[offset:end], nil
}
