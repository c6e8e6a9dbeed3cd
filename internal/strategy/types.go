// Package strategy persists a pipeline run's generated rules and
// recommendations, keyed by pipeline run, for retrieval by collaborators
// without recomputing a run.
package strategy

import (
	"time"

	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// StoredRule is a rule as persisted for one pipeline run.
type StoredRule struct {
	PipelineRunID string
	Rule          rulegenerator.Rule
	CreatedAt     time.Time
}

// StoredRecommendation is a recommendation as persisted for one run.
type StoredRecommendation struct {
	PipelineRunID  string
	Recommendation recommendation.Recommendation
	CreatedAt      time.Time
}

// ObjectiveDocument is a standing description of one of the four fixed
// business objectives. These are seeded once and never deleted; a
// pipeline run's recommendations reference them by Objective value, they
// do not own or version them.
type ObjectiveDocument struct {
	Objective   rulegenerator.Objective
	DisplayName string
	Description string
}

// StandingObjectives are the four fixed business objectives, always
// present regardless of how many pipeline runs have executed.
var StandingObjectives = []ObjectiveDocument{
	{
		Objective:   rulegenerator.ObjectiveMaximizeRevenue,
		DisplayName: "Maximize Revenue",
		Description: "favor rule combinations with the highest combined revenue uplift",
	},
	{
		Objective:   rulegenerator.ObjectiveMaximizeMargins,
		DisplayName: "Maximize Profit Margins",
		Description: "favor rule combinations that protect or widen margins over raw volume",
	},
	{
		Objective:   rulegenerator.ObjectiveStayCompetitive,
		DisplayName: "Stay Competitive",
		Description: "favor rule combinations that track or beat competitor pricing",
	},
	{
		Objective:   rulegenerator.ObjectiveCustomerRetention,
		DisplayName: "Customer Retention",
		Description: "favor rule combinations that protect loyal-tier pricing",
	},
}
