// Package rulegenerator derives pricing rules from historical rides,
// competitor prices, events, traffic, and news, scores them, and
// guarantees a minimum, category-balanced rule set via fallback rules.
package rulegenerator

import (
	"sort"

	"github.com/google/uuid"
)

// Category is one of the nine rule-generation policies.
type Category string

const (
	CategoryLocationBased Category = "location_based"
	CategoryLoyaltyBased  Category = "loyalty_based"
	CategoryDemandBased   Category = "demand_based"
	CategoryVehicleBased  Category = "vehicle_based"
	CategoryEventBased    Category = "event_based"
	CategoryNewsBased     Category = "news_based"
	CategorySurgeBased    Category = "surge_based"
	CategoryTimeBased     Category = "time_based"
	CategoryPricingBased  Category = "pricing_based"
)

// AllCategories lists every one of the nine categories in canonical order.
var AllCategories = []Category{
	CategoryLocationBased, CategoryLoyaltyBased, CategoryDemandBased,
	CategoryVehicleBased, CategoryEventBased, CategoryNewsBased,
	CategorySurgeBased, CategoryTimeBased, CategoryPricingBased,
}

// Source records whether a rule was mined from data or injected to
// guarantee coverage.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Objective is one of the four fixed business objectives a rule may affect.
type Objective string

const (
	ObjectiveMaximizeRevenue    Objective = "GOAL_MAXIMIZE_REVENUE"
	ObjectiveMaximizeMargins    Objective = "GOAL_MAXIMIZE_PROFIT_MARGINS"
	ObjectiveStayCompetitive    Objective = "GOAL_STAY_COMPETITIVE"
	ObjectiveCustomerRetention  Objective = "GOAL_CUSTOMER_RETENTION"
)

// AllObjectives lists the four fixed business objectives.
var AllObjectives = []Objective{
	ObjectiveMaximizeRevenue, ObjectiveMaximizeMargins, ObjectiveStayCompetitive, ObjectiveCustomerRetention,
}

// Rule is a generated or fallback pricing rule.
type Rule struct {
	RuleID            string
	Category          Category
	Source            Source
	Condition         map[string]string
	Multiplier        float64
	AffectsObjectives []Objective
	SampleCoveragePct float64
	EstimatedImpactPct float64
	Description       string
}

// newRuleID mints a rule ID prefixed by category so ranked output stays
// human-legible.
func newRuleID(category Category) string {
	return string(category) + "-" + uuid.NewString()
}

// Rank orders rules by estimated_impact_pct desc, sample coverage desc,
// then rule_id asc.
func Rank(rules []Rule) []Rule {
	ranked := make([]Rule, len(rules))
	copy(ranked, rules)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EstimatedImpactPct != ranked[j].EstimatedImpactPct {
			return ranked[i].EstimatedImpactPct > ranked[j].EstimatedImpactPct
		}
		if ranked[i].SampleCoveragePct != ranked[j].SampleCoveragePct {
			return ranked[i].SampleCoveragePct > ranked[j].SampleCoveragePct
		}
		return ranked[i].RuleID < ranked[j].RuleID
	})
	return ranked
}

// MinTotalRules and MinRulesPerCategory are the fallback-coverage floors.
const (
	MinTotalRules       = 15
	MinRulesPerCategory = 1
)
