package recommendation

import "github.com/richxcame/pricing-pipeline/internal/rulegenerator"

// ruleObjectives returns a rule's declared objectives, falling back to
// inference from its shape when a rule source left AffectsObjectives
// unset. Every generator in rulegenerator already populates this field;
// the inference path only covers rules arriving from elsewhere.
func ruleObjectives(r rulegenerator.Rule) []rulegenerator.Objective {
	if len(r.AffectsObjectives) > 0 {
		return r.AffectsObjectives
	}

	if tier := r.Condition["loyalty_tier"]; tier == "Gold" && r.Multiplier < 1.0 {
		return []rulegenerator.Objective{rulegenerator.ObjectiveCustomerRetention, rulegenerator.ObjectiveStayCompetitive}
	}
	if r.Condition["demand_profile"] == "HIGH" && r.Multiplier > 1.0 {
		return []rulegenerator.Objective{rulegenerator.ObjectiveMaximizeRevenue, rulegenerator.ObjectiveMaximizeMargins}
	}
	if isExternalOnlyCondition(r.Condition) && r.Multiplier > 1.0 {
		return []rulegenerator.Objective{rulegenerator.ObjectiveMaximizeRevenue}
	}
	return nil
}

var externalConditionKeys = map[string]bool{
	"event_type":    true,
	"traffic_level": true,
	"market_trend":  true,
	"market_factor": true,
	"time_of_day":   true,
	"weather":       true,
	"min_rides":     true,
}

func isExternalOnlyCondition(condition map[string]string) bool {
	if len(condition) == 0 {
		return false
	}
	for k := range condition {
		if !externalConditionKeys[k] {
			return false
		}
	}
	return true
}

// unionObjectives merges the objectives a combination of rules affects,
// deduplicated and ordered per rulegenerator.AllObjectives.
func unionObjectives(rules []rulegenerator.Rule) []rulegenerator.Objective {
	met := make(map[rulegenerator.Objective]bool, len(rulegenerator.AllObjectives))
	for _, r := range rules {
		for _, o := range ruleObjectives(r) {
			met[o] = true
		}
	}
	var out []rulegenerator.Objective
	for _, o := range rulegenerator.AllObjectives {
		if met[o] {
			out = append(out, o)
		}
	}
	return out
}
