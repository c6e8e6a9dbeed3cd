package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/pricing-pipeline/internal/pricingkernel"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

func fullLatticeForecasts() []SegmentForecast {
	segments := segmentlattice.Enumerate()
	out := make([]SegmentForecast, len(segments))
	for i, s := range segments {
		out[i] = SegmentForecast{
			Segment:         s,
			Baseline:        pricingkernel.Baseline{Rides: 20, UnitPrice: 3.0, DurationMinutes: 20},
			BaselineRevenue: 20 * 3.0 * 20,
		}
	}
	return out
}

func TestGenerate_EmptyRules_ReturnsThreeNoOps(t *testing.T) {
	forecasts := fullLatticeForecasts()
	e := NewEngine(0, 0)
	recs := e.Generate(nil, forecasts)

	require.Len(t, recs, TargetRecommendationCount)
	for _, r := range recs {
		assert.Contains(t, r.Diagnostics, "empty_rules")
		assert.Empty(t, r.RuleIDs)
		assert.Len(t, r.PerSegmentImpacts, segmentlattice.CellCount)
		for _, impact := range r.PerSegmentImpacts {
			assert.Equal(t, impact.BaselineRevenue, impact.WithRecommendation)
		}
	}
}

func TestGenerate_OutputShape_3x162(t *testing.T) {
	forecasts := fullLatticeForecasts()
	rules := []rulegenerator.Rule{
		{RuleID: "r1", Category: rulegenerator.CategoryLoyaltyBased, Source: rulegenerator.SourceGenerated,
			Condition: map[string]string{"loyalty_tier": "Gold"}, Multiplier: 0.98,
			AffectsObjectives: []rulegenerator.Objective{rulegenerator.ObjectiveCustomerRetention}},
		{RuleID: "r2", Category: rulegenerator.CategoryDemandBased, Source: rulegenerator.SourceGenerated,
			Condition: map[string]string{"demand_profile": "HIGH"}, Multiplier: 1.50,
			AffectsObjectives: []rulegenerator.Objective{rulegenerator.ObjectiveMaximizeRevenue}},
		{RuleID: "r3", Category: rulegenerator.CategorySurgeBased, Source: rulegenerator.SourceGenerated,
			Condition: map[string]string{"traffic_level": "high"}, Multiplier: 1.30,
			AffectsObjectives: []rulegenerator.Objective{rulegenerator.ObjectiveMaximizeRevenue, rulegenerator.ObjectiveMaximizeMargins}},
	}

	e := NewEngine(0, 0)
	recs := e.Generate(rules, forecasts)

	require.Len(t, recs, TargetRecommendationCount)
	total := 0
	for _, r := range recs {
		assert.Len(t, r.PerSegmentImpacts, segmentlattice.CellCount)
		total += len(r.PerSegmentImpacts)
		assert.NotEmpty(t, r.RuleIDs)
	}
	assert.Equal(t, TargetRecommendationCount*segmentlattice.CellCount, total)
}

func TestGenerate_RecommendationsAreDistinct_NoSubsetOfAnother(t *testing.T) {
	forecasts := fullLatticeForecasts()
	rules := []rulegenerator.Rule{
		{RuleID: "a", Multiplier: 1.10, Condition: map[string]string{"demand_profile": "HIGH"},
			AffectsObjectives: []rulegenerator.Objective{rulegenerator.ObjectiveMaximizeRevenue}},
		{RuleID: "b", Multiplier: 0.97, Condition: map[string]string{"loyalty_tier": "Gold"},
			AffectsObjectives: []rulegenerator.Objective{rulegenerator.ObjectiveCustomerRetention}},
	}
	e := NewEngine(0, 0)
	recs := e.Generate(rules, forecasts)

	sets := make([]map[string]bool, len(recs))
	padded := make([]bool, len(recs))
	for i, r := range recs {
		set := make(map[string]bool, len(r.RuleIDs))
		for _, id := range r.RuleIDs {
			set[id] = true
		}
		sets[i] = set
		for _, d := range r.Diagnostics {
			padded[i] = padded[i] || d == "insufficient_distinct_combinations"
		}
	}
	for i := range sets {
		for j := range sets {
			if i == j || padded[i] || padded[j] || len(sets[i]) == 0 || len(sets[j]) == 0 {
				continue
			}
			if len(sets[i]) == len(sets[j]) {
				continue
			}
			assert.False(t, isSubsetOf(sets[i], sets[j]),
				"recommendation %d's rules must not be a subset of recommendation %d's", i, j)
		}
	}
}

func TestSelectDistinctTop_SkipsSubsetCombos(t *testing.T) {
	candidates := []scored{
		{c: combo{rules: []rulegenerator.Rule{{RuleID: "x"}, {RuleID: "y"}}}, score: 500},
		{c: combo{rules: []rulegenerator.Rule{{RuleID: "x"}}}, score: 400},
		{c: combo{rules: []rulegenerator.Rule{{RuleID: "z"}}}, score: 300},
	}
	selected := selectDistinctTop(candidates, 3)
	require.Len(t, selected, 2)
	assert.ElementsMatch(t, []string{"x", "y"}, selected[0].c.ruleIDs())
	assert.ElementsMatch(t, []string{"z"}, selected[1].c.ruleIDs())
}

func TestRankCandidates_TiebreakPrefersSmallerCardinality(t *testing.T) {
	candidates := []scored{
		{c: combo{rules: []rulegenerator.Rule{{RuleID: "p"}, {RuleID: "q"}}}, score: 700},
		{c: combo{rules: []rulegenerator.Rule{{RuleID: "m"}}}, score: 700},
	}
	rankCandidates(candidates)
	assert.ElementsMatch(t, []string{"m"}, candidates[0].c.ruleIDs())
}

func TestEnumerateCombinations_CardinalityBounds(t *testing.T) {
	rules := make([]rulegenerator.Rule, 6)
	for i := range rules {
		rules[i] = rulegenerator.Rule{RuleID: string(rune('a' + i))}
	}
	combos := enumerateCombinations(rules)
	for _, c := range combos {
		assert.GreaterOrEqual(t, c.cardinality(), MinCardinality)
		assert.LessOrEqual(t, c.cardinality(), MaxCardinality)
	}
}

func TestCandidatePool_TruncatesToMax(t *testing.T) {
	rules := make([]rulegenerator.Rule, 30)
	for i := range rules {
		rules[i] = rulegenerator.Rule{RuleID: string(rune('a' + i))}
	}
	pool := candidatePool(rules)
	assert.Len(t, pool, MaxCandidateRules)
}
