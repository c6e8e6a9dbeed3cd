// Package pricingkernel computes rule applicability, combined multipliers,
// elasticity-driven demand response, and revenue projections for a single
// segment. Every function here is pure and never suspends.
package pricingkernel

import (
	"math"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
)

// externalKeys are rule condition keys that describe external context
// rather than a segment dimension. A rule carrying only external keys in
// its condition is never excluded from a segment by those keys.
var externalKeys = map[string]struct{}{
	"event_type":    {},
	"traffic_level": {},
	"market_trend":  {},
	"market_factor": {},
	"time_of_day":   {},
	"weather":       {},
	"min_rides":     {},
}

// Rule is the minimal shape the kernel needs to evaluate applicability and
// combine multipliers; rulegenerator.Rule embeds this.
type Rule struct {
	RuleID     string
	Multiplier float64
	Condition  map[string]string
}

// segmentValues maps a segment's dimension keys to their string values, the
// same vocabulary a rule condition is expressed in.
func segmentValues(s segmentlattice.Segment) map[string]string {
	return map[string]string{
		"location_category": string(s.Location),
		"loyalty_tier":      string(s.Loyalty),
		"vehicle_type":      string(s.Vehicle),
		"pricing_model":     string(s.Pricing),
		"demand_profile":    string(s.Demand),
	}
}

// Applies reports whether a rule's condition matches a segment. External
// keys never constrain the segment. Every remaining key in the condition
// must match the segment's value for that dimension exactly. A condition
// with no segment-dimension keys (after removing external keys) matches
// every segment.
func Applies(condition map[string]string, s segmentlattice.Segment) bool {
	if len(condition) == 0 {
		return true
	}
	values := segmentValues(s)
	for key, want := range condition {
		if _, external := externalKeys[key]; external {
			continue
		}
		got, ok := values[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// ApplicableRules filters rules to those whose condition matches the segment.
func ApplicableRules(rules []Rule, s segmentlattice.Segment) []Rule {
	applicable := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if Applies(r.Condition, s) {
			applicable = append(applicable, r)
		}
	}
	return applicable
}

// DefaultMultiplierClampMin and DefaultMultiplierClampMax bound the combined
// multiplier when a caller does not supply configured clamp values.
const (
	DefaultMultiplierClampMin = 0.5
	DefaultMultiplierClampMax = 3.0
)

// CombinedMultiplier multiplies every applicable rule's multiplier together
// and clamps the result to [clampMin, clampMax].
func CombinedMultiplier(rules []Rule, clampMin, clampMax float64) float64 {
	m := 1.0
	for _, r := range rules {
		m *= r.Multiplier
	}
	return clamp(m, clampMin, clampMax)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// baseElasticity returns the elasticity anchor for a loyalty tier;
// Elasticity applies the demand-profile adjustment, and vehicle type does
// not adjust it.
func baseElasticity(loyalty segmentlattice.LoyaltyTier) float64 {
	switch loyalty {
	case segmentlattice.LoyaltyGold:
		return 0.6
	case segmentlattice.LoyaltySilver:
		return 1.0
	default:
		return 1.4
	}
}

// ElasticityClampMin and ElasticityClampMax bound the elasticity coefficient.
const (
	ElasticityClampMin = 0.3
	ElasticityClampMax = 2.0
)

// Elasticity returns the price elasticity of demand for a segment: base
// elasticity by loyalty tier, adjusted by demand profile, clamped.
func Elasticity(s segmentlattice.Segment) float64 {
	e := baseElasticity(s.Loyalty)
	switch s.Demand {
	case segmentlattice.DemandHigh:
		e -= 0.2
	case segmentlattice.DemandLow:
		e += 0.3
	}
	return clamp(e, ElasticityClampMin, ElasticityClampMax)
}

// Baseline is a segment's pre-pricing-change observed or estimated state.
type Baseline struct {
	Rides           float64
	UnitPrice       float64
	DurationMinutes float64
}

// Revenue returns rides * duration_minutes * unit_price, the duration-based
// pricing revenue identity used throughout the pipeline.
func (b Baseline) Revenue() float64 {
	return b.Rides * b.DurationMinutes * b.UnitPrice
}

// Projection is the result of applying a combined multiplier to a baseline.
type Projection struct {
	Rides           float64
	UnitPrice       float64
	DurationMinutes float64
	Revenue         float64
	ZeroBaseline    bool
}

// maxDemandChangePct bounds the elasticity-driven demand response.
const maxDemandChangePct = 50.0

// Project applies a combined multiplier M to a baseline for segment s using
// that segment's elasticity, returning the resulting rides/unit_price/
// duration/revenue. unit_price0<=0 yields a zero-revenue projection marked
// ZeroBaseline, never an error; rides0==0 yields zero projected values but
// is still a normal (non-failing) projection.
func Project(s segmentlattice.Segment, base Baseline, multiplier float64) Projection {
	if base.UnitPrice <= 0 {
		return Projection{
			Rides:           base.Rides,
			UnitPrice:       base.UnitPrice,
			DurationMinutes: base.DurationMinutes,
			Revenue:         0,
			ZeroBaseline:    true,
		}
	}

	priceChangePct := (multiplier - 1) * 100
	demandChangePct := -Elasticity(s) * priceChangePct
	demandChangePct = clamp(demandChangePct, -maxDemandChangePct, maxDemandChangePct)

	rides1 := base.Rides * (1 + demandChangePct/100)
	unitPrice1 := base.UnitPrice * multiplier
	duration1 := base.DurationMinutes

	return Projection{
		Rides:           rides1,
		UnitPrice:       unitPrice1,
		DurationMinutes: duration1,
		Revenue:         rides1 * duration1 * unitPrice1,
	}
}

// Round rounds a monetary or rate value to 2 decimal places, matching the
// rounding convention used across the pipeline's money-shaped outputs.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
