// Package recommendation searches combinations of pricing rules for the
// three strategic recommendations that best advance the pipeline's four
// fixed business objectives, and computes their per-segment impact.
package recommendation

import (
	"github.com/richxcame/pricing-pipeline/internal/pricingkernel"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

// PerSegmentImpact compares a segment's unchanged forecast against the
// forecast with a recommendation's rules applied.
type PerSegmentImpact struct {
	Segment            segmentlattice.Segment
	BaselineRevenue    float64
	WithRecommendation float64
	AppliedRuleIDs     []string
}

// Recommendation is one of the three output strategic bundles.
type Recommendation struct {
	RecID              string
	RuleIDs            []string
	ObjectivesMet      []rulegenerator.Objective
	CombinedRevenuePct float64
	Score              float64
	PerSegmentImpacts  []PerSegmentImpact
	Diagnostics        []string
}

// SegmentForecast is the minimal shape the engine needs per segment: its
// lattice cell, its 30-day forecasted baseline, and the forecast's own
// revenue figure. BaselineRevenue is carried from the forecast's
// PredictedRev rather than recomputed from Baseline's fields; the forecast
// derives PredictedPrice so that rides x duration x price reproduces that
// revenue, so the two agree up to floating-point rounding.
type SegmentForecast struct {
	Segment         segmentlattice.Segment
	Baseline        pricingkernel.Baseline
	BaselineRevenue float64
}

// combo is an internal candidate rule subset under evaluation.
type combo struct {
	rules []rulegenerator.Rule
}

func (c combo) ruleIDs() []string {
	ids := make([]string, len(c.rules))
	for i, r := range c.rules {
		ids[i] = r.RuleID
	}
	return ids
}

func (c combo) cardinality() int {
	return len(c.rules)
}
