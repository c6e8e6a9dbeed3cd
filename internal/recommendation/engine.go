package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/richxcame/pricing-pipeline/internal/pricingkernel"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// TargetRecommendationCount is the fixed number of strategic
// recommendations the engine always returns.
const TargetRecommendationCount = 3

// Engine searches rule combinations and scores their simulated impact
// against the 162 forecasted segments.
type Engine struct {
	ClampMin float64
	ClampMax float64
}

// NewEngine builds an Engine using the pipeline's configured multiplier
// clamp bounds, falling back to the kernel defaults when unset.
func NewEngine(clampMin, clampMax float64) *Engine {
	if clampMin == 0 && clampMax == 0 {
		clampMin, clampMax = pricingkernel.DefaultMultiplierClampMin, pricingkernel.DefaultMultiplierClampMax
	}
	return &Engine{ClampMin: clampMin, ClampMax: clampMax}
}

// scored pairs a combo with its simulated outcome before selection.
type scored struct {
	c          combo
	objs       []rulegenerator.Objective
	revenuePct float64
	impacts    []PerSegmentImpact
	score      float64
}

// Generate searches the ranked rule set for the three best-scoring,
// mutually non-redundant rule combinations and returns their per-segment
// simulated impact across every forecasted segment. When fewer than three
// distinct combinations exist, the list is padded with the best-ranked
// single-rule combinations not already chosen, then with no-op
// recommendations if those run out; every padded entry carries an
// insufficient_distinct_combinations diagnostic. When rules is empty
// it returns three synthesized no-op recommendations flagged with an
// empty_rules diagnostic, since there is nothing to search.
func (e *Engine) Generate(rules []rulegenerator.Rule, forecasts []SegmentForecast) []Recommendation {
	if len(rules) == 0 {
		return e.noOpRecommendations(forecasts, "empty_rules")
	}

	pool := candidatePool(rules)
	combos := enumerateCombinations(pool)

	candidates := make([]scored, 0, len(combos))
	for _, c := range combos {
		impacts, revenuePct := simulateCombo(c, forecasts, e.ClampMin, e.ClampMax)
		objs := unionObjectives(c.rules)
		candidates = append(candidates, scored{
			c:          c,
			objs:       objs,
			revenuePct: revenuePct,
			impacts:    impacts,
			score:      score(len(objs), c.cardinality(), revenuePct),
		})
	}

	rankCandidates(candidates)

	selected := selectDistinctTop(candidates, TargetRecommendationCount)
	distinct := len(selected)
	for _, cand := range candidates {
		if len(selected) == TargetRecommendationCount {
			break
		}
		dup := cand.c.cardinality() != 1
		for _, s := range selected {
			dup = dup || (s.c.cardinality() == 1 && s.c.rules[0].RuleID == cand.c.rules[0].RuleID)
		}
		if !dup {
			selected = append(selected, cand)
		}
	}

	recs := make([]Recommendation, len(selected))
	for i, s := range selected {
		recs[i] = Recommendation{
			RecID:              fmt.Sprintf("%d", i+1),
			RuleIDs:            s.c.ruleIDs(),
			ObjectivesMet:      s.objs,
			CombinedRevenuePct: s.revenuePct,
			Score:              s.score,
			PerSegmentImpacts:  s.impacts,
		}
		if i >= distinct {
			recs[i].Diagnostics = []string{"insufficient_distinct_combinations"}
		}
	}

	if len(recs) < TargetRecommendationCount {
		recs = e.padWithNoOps(recs, forecasts, "insufficient_distinct_combinations")
	}
	return recs
}

// rankCandidates orders candidates by score descending; ties prefer the
// smaller-cardinality combination (this pipeline's resolution of the
// combination-size tiebreak), then rule-ID order for determinism.
func rankCandidates(candidates []scored) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].c.cardinality() != candidates[j].c.cardinality() {
			return candidates[i].c.cardinality() < candidates[j].c.cardinality()
		}
		return strings.Join(candidates[i].c.ruleIDs(), ",") < strings.Join(candidates[j].c.ruleIDs(), ",")
	})
}

// selectDistinctTop walks candidates in ranked order, keeping a candidate
// only if its rule set is not a subset of any already-chosen candidate's
// rule set, until n have been chosen or candidates are exhausted.
func selectDistinctTop(candidates []scored, n int) []scored {
	selected := make([]scored, 0, n)
	chosenSets := make([]map[string]bool, 0, n)

	for _, cand := range candidates {
		if len(selected) >= n {
			break
		}
		candSet := ruleIDSet(cand.c)
		redundant := false
		for _, chosen := range chosenSets {
			if isSubsetOf(candSet, chosen) {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}
		selected = append(selected, cand)
		chosenSets = append(chosenSets, candSet)
	}
	return selected
}

// padWithNoOps fills out a short recommendation list with synthesized
// no-op recommendations so the output always has exactly
// TargetRecommendationCount entries.
func (e *Engine) padWithNoOps(recs []Recommendation, forecasts []SegmentForecast, diagnostic string) []Recommendation {
	for len(recs) < TargetRecommendationCount {
		impacts := make([]PerSegmentImpact, len(forecasts))
		for i, sf := range forecasts {
			rev := sf.BaselineRevenue
			impacts[i] = PerSegmentImpact{Segment: sf.Segment, BaselineRevenue: rev, WithRecommendation: rev}
		}
		recs = append(recs, Recommendation{
			RecID:             fmt.Sprintf("%d", len(recs)+1),
			PerSegmentImpacts: impacts,
			Diagnostics:       []string{diagnostic},
		})
	}
	return recs
}

// noOpRecommendations builds TargetRecommendationCount synthesized no-op
// recommendations, each carrying the same diagnostic.
func (e *Engine) noOpRecommendations(forecasts []SegmentForecast, diagnostic string) []Recommendation {
	return e.padWithNoOps(nil, forecasts, diagnostic)
}
