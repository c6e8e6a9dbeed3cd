package strategy

import (
	"context"

	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// InMemoryRepository is a test double satisfying RepositoryInterface
// without a database, used by pipeline and strategy tests.
type InMemoryRepository struct {
	rules      map[string][]rulegenerator.Rule
	recs       map[string][]recommendation.Recommendation
	objectives []ObjectiveDocument
}

// NewInMemoryRepository builds an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		rules: make(map[string][]rulegenerator.Rule),
		recs:  make(map[string][]recommendation.Recommendation),
	}
}

var _ RepositoryInterface = (*InMemoryRepository)(nil)

func (m *InMemoryRepository) SaveRules(ctx context.Context, runID string, rules []rulegenerator.Rule) error {
	cp := make([]rulegenerator.Rule, len(rules))
	copy(cp, rules)
	m.rules[runID] = cp
	return nil
}

func (m *InMemoryRepository) SaveRecommendations(ctx context.Context, runID string, recs []recommendation.Recommendation) error {
	cp := make([]recommendation.Recommendation, len(recs))
	copy(cp, recs)
	m.recs[runID] = cp
	return nil
}

func (m *InMemoryRepository) RulesForRun(ctx context.Context, runID string) ([]rulegenerator.Rule, error) {
	return m.rules[runID], nil
}

func (m *InMemoryRepository) RecommendationsForRun(ctx context.Context, runID string) ([]recommendation.Recommendation, error) {
	return m.recs[runID], nil
}

func (m *InMemoryRepository) PurgePriorRunRules(ctx context.Context, keepRunID string) error {
	for runID := range m.rules {
		if runID != keepRunID {
			delete(m.rules, runID)
			delete(m.recs, runID)
		}
	}
	return nil
}

func (m *InMemoryRepository) Objectives(ctx context.Context) ([]ObjectiveDocument, error) {
	return StandingObjectives, nil
}

func (m *InMemoryRepository) UpsertObjectives(ctx context.Context, objectives []ObjectiveDocument) error {
	cp := make([]ObjectiveDocument, len(objectives))
	copy(cp, objectives)
	m.objectives = cp
	return nil
}
