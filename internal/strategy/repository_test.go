package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

func TestInMemoryRepository_SaveAndLoadRules(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	rules := []rulegenerator.Rule{
		{RuleID: "r1", Category: rulegenerator.CategoryDemandBased, Multiplier: 1.5},
	}
	require.NoError(t, repo.SaveRules(ctx, "run-1", rules))

	loaded, err := repo.RulesForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "r1", loaded[0].RuleID)
}

func TestInMemoryRepository_SaveAndLoadRecommendations(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	recs := []recommendation.Recommendation{
		{RecID: "1", RuleIDs: []string{"r1"}},
		{RecID: "2", RuleIDs: []string{"r2"}},
		{RecID: "3", RuleIDs: []string{"r3"}},
	}
	require.NoError(t, repo.SaveRecommendations(ctx, "run-1", recs))

	loaded, err := repo.RecommendationsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
}

func TestInMemoryRepository_PurgePriorRunRules_KeepsOnlyLatest(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveRules(ctx, "run-1", []rulegenerator.Rule{{RuleID: "old"}}))
	require.NoError(t, repo.SaveRules(ctx, "run-2", []rulegenerator.Rule{{RuleID: "new"}}))

	require.NoError(t, repo.PurgePriorRunRules(ctx, "run-2"))

	old, err := repo.RulesForRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, old)

	latest, err := repo.RulesForRun(ctx, "run-2")
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}

func TestObjectives_AlwaysReturnsFourStandingGoals(t *testing.T) {
	repo := NewInMemoryRepository()
	objectives, err := repo.Objectives(context.Background())
	require.NoError(t, err)
	require.Len(t, objectives, 4)

	seen := make(map[rulegenerator.Objective]bool)
	for _, o := range objectives {
		seen[o.Objective] = true
	}
	for _, want := range rulegenerator.AllObjectives {
		assert.True(t, seen[want], "missing standing objective %s", want)
	}
}

func TestUpsertObjectives_StoresAllFour(t *testing.T) {
	repo := NewInMemoryRepository()
	require.NoError(t, repo.UpsertObjectives(context.Background(), StandingObjectives))
	assert.Len(t, repo.objectives, 4)
}
