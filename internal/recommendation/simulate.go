package recommendation

import (
	"github.com/richxcame/pricing-pipeline/internal/pricingkernel"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

func toKernelRules(rules []rulegenerator.Rule) []pricingkernel.Rule {
	out := make([]pricingkernel.Rule, len(rules))
	for i, r := range rules {
		out[i] = pricingkernel.Rule{RuleID: r.RuleID, Multiplier: r.Multiplier, Condition: r.Condition}
	}
	return out
}

// simulateSegment applies a combo's applicable rules to one segment's
// forecasted baseline and returns the resulting impact row.
func simulateSegment(c combo, sf SegmentForecast, clampMin, clampMax float64) PerSegmentImpact {
	kernelRules := toKernelRules(c.rules)
	applicable := pricingkernel.ApplicableRules(kernelRules, sf.Segment)

	impact := PerSegmentImpact{
		Segment:         sf.Segment,
		BaselineRevenue: sf.BaselineRevenue,
	}
	if len(applicable) == 0 {
		impact.WithRecommendation = impact.BaselineRevenue
		return impact
	}

	multiplier := pricingkernel.CombinedMultiplier(applicable, clampMin, clampMax)
	projection := pricingkernel.Project(sf.Segment, sf.Baseline, multiplier)
	impact.WithRecommendation = projection.Revenue

	ids := make([]string, len(applicable))
	for i, r := range applicable {
		ids[i] = r.RuleID
	}
	impact.AppliedRuleIDs = ids
	return impact
}

// simulateCombo runs a combo across every forecasted segment, returning the
// per-segment impact rows and the combined revenue delta percentage.
func simulateCombo(c combo, forecasts []SegmentForecast, clampMin, clampMax float64) ([]PerSegmentImpact, float64) {
	impacts := make([]PerSegmentImpact, len(forecasts))
	var baselineTotal, withTotal float64
	for i, sf := range forecasts {
		impacts[i] = simulateSegment(c, sf, clampMin, clampMax)
		baselineTotal += impacts[i].BaselineRevenue
		withTotal += impacts[i].WithRecommendation
	}

	if baselineTotal <= 0 {
		return impacts, 0
	}
	return impacts, (withTotal/baselineTotal - 1) * 100
}

// score computes the combination score: objectives met dominate,
// then cardinality (larger combinations rewarded for breadth), then the
// combined revenue delta as a fine-grained tiebreak within those tiers.
func score(objectivesMet int, cardinality int, combinedRevenuePct float64) float64 {
	return float64(objectivesMet)*1000 + float64(cardinality)*200 + combinedRevenuePct
}
