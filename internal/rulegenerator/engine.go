package rulegenerator

import "time"

// Inputs aggregates everything the nine category generators need for one
// pipeline run.
type Inputs struct {
	Locations       []LocationStat
	Loyalties       []LoyaltyStat
	Demands         []DemandStat
	VehicleDemands  []VehicleDemandStat
	Events          []EventInput
	News            []NewsInput
	Traffic         []TrafficInput
	TotalHistoricalRides int
}

// Generate runs every category generator, scores the sample coverage of
// the generated rules, pads the result to the fallback-coverage floor
// (fallback rules carry no coverage estimate), and returns the rules
// ranked by estimated impact and sample coverage.
func Generate(in Inputs, now time.Time) []Rule {
	var generated []Rule
	generated = append(generated, GenerateLocationBased(in.Locations)...)
	generated = append(generated, GenerateLoyaltyBased(in.Loyalties)...)
	generated = append(generated, GenerateDemandBased(in.Demands)...)
	generated = append(generated, GenerateVehicleBased(in.VehicleDemands)...)
	generated = append(generated, GenerateEventBased(in.Events, now)...)
	generated = append(generated, GenerateNewsBased(in.News)...)
	generated = append(generated, GenerateSurgeBased(in.Traffic)...)
	generated = append(generated, GenerateTimeBased()...)
	generated = append(generated, GeneratePricingBased()...)

	applySampleCoverage(generated, in)

	covered := EnsureCoverage(generated)
	return Rank(covered)
}

// applySampleCoverage estimates each rule's sample_coverage_pct as the
// share of total historical rides in the dimension it conditions on, used
// to tie-break ranking. Rules conditioned on none of location, loyalty or
// demand (pure external-key rules, and rules keyed only on vehicle type or
// pricing model) get 100% coverage.
func applySampleCoverage(rules []Rule, in Inputs) {
	if in.TotalHistoricalRides <= 0 {
		return
	}
	total := float64(in.TotalHistoricalRides)

	locationSample := map[string]int{}
	for _, s := range in.Locations {
		locationSample[s.Location] = s.SampleSize
	}
	loyaltySample := map[string]int{}
	for _, s := range in.Loyalties {
		loyaltySample[s.Tier] = s.SampleSize
	}
	demandSample := map[string]int{}
	for _, s := range in.Demands {
		demandSample[s.Demand] = s.SampleSize
	}

	for i := range rules {
		r := &rules[i]
		switch {
		case r.Condition["location_category"] != "":
			r.SampleCoveragePct = float64(locationSample[r.Condition["location_category"]]) / total * 100
		case r.Condition["loyalty_tier"] != "":
			r.SampleCoveragePct = float64(loyaltySample[r.Condition["loyalty_tier"]]) / total * 100
		case r.Condition["demand_profile"] != "":
			r.SampleCoveragePct = float64(demandSample[r.Condition["demand_profile"]]) / total * 100
		default:
			r.SampleCoveragePct = 100
		}
	}
}
