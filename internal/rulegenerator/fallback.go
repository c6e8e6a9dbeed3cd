package rulegenerator

// fallbackCatalog holds fixed, deterministic fallback rules for every
// category, two per category so there is always a second candidate to
// reach the MinTotalRules floor without duplicating a category's only
// entry. Fallback rule IDs are fixed strings, not uuids, so re-running
// fallback injection never produces a new ID for the same fallback rule.
var fallbackCatalog = map[Category][]Rule{
	CategoryLocationBased: {
		{RuleID: "fallback-location-urban-parity", Category: CategoryLocationBased, Source: SourceFallback,
			Condition: map[string]string{"location_category": "Urban"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "maintain Urban price parity absent competitor data"},
		{RuleID: "fallback-location-rural-parity", Category: CategoryLocationBased, Source: SourceFallback,
			Condition: map[string]string{"location_category": "Rural"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "maintain Rural price parity absent competitor data"},
	},
	CategoryLoyaltyBased: {
		{RuleID: "fallback-loyalty-gold-floor", Category: CategoryLoyaltyBased, Source: SourceFallback,
			Condition: map[string]string{"loyalty_tier": "Gold"}, Multiplier: 0.99,
			AffectsObjectives: []Objective{ObjectiveCustomerRetention}, Description: "minimum Gold retention discount"},
		{RuleID: "fallback-loyalty-regular-neutral", Category: CategoryLoyaltyBased, Source: SourceFallback,
			Condition: map[string]string{"loyalty_tier": "Regular"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "neutral pricing for Regular tier absent data"},
	},
	CategoryDemandBased: {
		{RuleID: "fallback-demand-high-default", Category: CategoryDemandBased, Source: SourceFallback,
			Condition: map[string]string{"demand_profile": "HIGH"}, Multiplier: 1.30,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "conservative high-demand surge absent sufficient sample"},
		{RuleID: "fallback-demand-low-default", Category: CategoryDemandBased, Source: SourceFallback,
			Condition: map[string]string{"demand_profile": "LOW"}, Multiplier: 0.97,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "conservative low-demand discount absent sufficient sample"},
	},
	CategoryVehicleBased: {
		{RuleID: "fallback-vehicle-premium-high-demand", Category: CategoryVehicleBased, Source: SourceFallback,
			Condition: map[string]string{"vehicle_type": "Premium", "demand_profile": "HIGH"}, Multiplier: 1.10,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "conservative Premium high-demand surge"},
		{RuleID: "fallback-vehicle-economy-neutral", Category: CategoryVehicleBased, Source: SourceFallback,
			Condition: map[string]string{"vehicle_type": "Economy"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "neutral Economy pricing absent data"},
	},
	CategoryEventBased: {
		{RuleID: "fallback-event-generic-surge", Category: CategoryEventBased, Source: SourceFallback,
			Condition: map[string]string{"event_type": "general"}, Multiplier: 1.20,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "generic event surge absent a scheduled event feed"},
		{RuleID: "fallback-event-festivals-default", Category: CategoryEventBased, Source: SourceFallback,
			Condition: map[string]string{"event_type": "festivals"}, Multiplier: 1.35,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "default festival surge absent attendance data"},
	},
	CategoryNewsBased: {
		{RuleID: "fallback-news-neutral-watch", Category: CategoryNewsBased, Source: SourceFallback,
			Condition: map[string]string{"market_trend": "neutral"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "no competitive action absent news signal"},
		{RuleID: "fallback-news-regulatory-watch", Category: CategoryNewsBased, Source: SourceFallback,
			Condition: map[string]string{"market_trend": "regulatory_watch"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "hold pricing pending regulatory clarity"},
	},
	CategorySurgeBased: {
		{RuleID: "fallback-surge-moderate-traffic", Category: CategorySurgeBased, Source: SourceFallback,
			Condition: map[string]string{"traffic_level": "medium"}, Multiplier: 1.10,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "conservative surge absent a live traffic feed"},
		{RuleID: "fallback-surge-light-traffic", Category: CategorySurgeBased, Source: SourceFallback,
			Condition: map[string]string{"traffic_level": "low"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "no surge under light traffic"},
	},
	CategoryTimeBased: {
		{RuleID: "fallback-time-peak-hours", Category: CategoryTimeBased, Source: SourceFallback,
			Condition: map[string]string{"time_of_day": "peak"}, Multiplier: 1.15,
			AffectsObjectives: []Objective{ObjectiveMaximizeRevenue}, Description: "standard peak-hour adjustment absent time-series support"},
		{RuleID: "fallback-time-off-peak", Category: CategoryTimeBased, Source: SourceFallback,
			Condition: map[string]string{"time_of_day": "off_peak"}, Multiplier: 0.95,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "standard off-peak discount absent time-series support"},
	},
	CategoryPricingBased: {
		{RuleID: "fallback-pricing-custom-floor", Category: CategoryPricingBased, Source: SourceFallback,
			Condition: map[string]string{"pricing_model": "CUSTOM"}, Multiplier: 1.05,
			AffectsObjectives: []Objective{ObjectiveMaximizeMargins}, Description: "default premium for custom pricing model"},
		{RuleID: "fallback-pricing-contracted-floor", Category: CategoryPricingBased, Source: SourceFallback,
			Condition: map[string]string{"pricing_model": "CONTRACTED"}, Multiplier: 1.00,
			AffectsObjectives: []Objective{ObjectiveStayCompetitive}, Description: "neutral pricing for contracted accounts"},
	},
}

func init() {
	for cat, rules := range fallbackCatalog {
		for i := range rules {
			rules[i].EstimatedImpactPct = (rules[i].Multiplier - 1) * 100
		}
		fallbackCatalog[cat] = rules
	}
}

// EnsureCoverage appends fallback rules to generated so that the combined
// set has at least MinTotalRules rules and at least MinRulesPerCategory
// per category where a fallback candidate exists. It never overwrites a
// generated rule: a category already represented in generated only
// receives fallback padding if the total floor is not yet met.
func EnsureCoverage(generated []Rule) []Rule {
	byCategory := make(map[Category]int, len(AllCategories))
	for _, r := range generated {
		byCategory[r.Category]++
	}

	result := make([]Rule, len(generated))
	copy(result, generated)

	used := make(map[Category]int, len(AllCategories))
	for _, cat := range AllCategories {
		if byCategory[cat] > 0 {
			continue
		}
		candidates := fallbackCatalog[cat]
		if len(candidates) == 0 {
			continue
		}
		result = append(result, candidates[0])
		byCategory[cat]++
		used[cat] = 1
	}

	for len(result) < MinTotalRules {
		added := false
		for _, cat := range AllCategories {
			candidates := fallbackCatalog[cat]
			idx := used[cat]
			if idx >= len(candidates) {
				continue
			}
			result = append(result, candidates[idx])
			used[cat] = idx + 1
			byCategory[cat]++
			added = true
			if len(result) >= MinTotalRules {
				break
			}
		}
		if !added {
			break
		}
	}

	return result
}
