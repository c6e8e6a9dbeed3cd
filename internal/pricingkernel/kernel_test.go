package pricingkernel

import (
	"testing"

	"github.com/richxcame/pricing-pipeline/internal/segmentlattice"
	"github.com/stretchr/testify/assert"
)

func urbanGoldPremiumStandard(demand segmentlattice.DemandProfile) segmentlattice.Segment {
	return segmentlattice.Segment{
		Location: segmentlattice.LocationUrban,
		Loyalty:  segmentlattice.LoyaltyGold,
		Vehicle:  segmentlattice.VehiclePremium,
		Pricing:  segmentlattice.PricingStandard,
		Demand:   demand,
	}
}

func TestApplies_EmptyConditionMatchesAll(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	assert.True(t, Applies(nil, s))
	assert.True(t, Applies(map[string]string{}, s))
}

func TestApplies_ExternalKeysNeverConstrain(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	cond := map[string]string{"event_type": "festivals", "traffic_level": "high"}
	assert.True(t, Applies(cond, s))
}

func TestApplies_ExactDimensionMatchRequired(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandHigh)
	assert.True(t, Applies(map[string]string{"loyalty_tier": "Gold"}, s))
	assert.False(t, Applies(map[string]string{"loyalty_tier": "Silver"}, s))
	assert.True(t, Applies(map[string]string{"demand_profile": "HIGH"}, s))
	assert.False(t, Applies(map[string]string{"demand_profile": "LOW"}, s))
}

func TestApplies_MixedExternalAndDimensionKeys(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandHigh)
	cond := map[string]string{"event_type": "festivals", "vehicle_type": "Premium"}
	assert.True(t, Applies(cond, s))
	cond2 := map[string]string{"event_type": "festivals", "vehicle_type": "Economy"}
	assert.False(t, Applies(cond2, s))
}

func TestCombinedMultiplier_ClampsToRange(t *testing.T) {
	rules := []Rule{{Multiplier: 2.0}, {Multiplier: 2.0}, {Multiplier: 2.0}}
	m := CombinedMultiplier(rules, DefaultMultiplierClampMin, DefaultMultiplierClampMax)
	assert.Equal(t, DefaultMultiplierClampMax, m)

	low := []Rule{{Multiplier: 0.1}}
	m2 := CombinedMultiplier(low, DefaultMultiplierClampMin, DefaultMultiplierClampMax)
	assert.Equal(t, DefaultMultiplierClampMin, m2)
}

func TestCombinedMultiplier_EmptyRulesIsIdentity(t *testing.T) {
	m := CombinedMultiplier(nil, DefaultMultiplierClampMin, DefaultMultiplierClampMax)
	assert.Equal(t, 1.0, m)
}

func TestElasticity_BaseValuesByLoyalty(t *testing.T) {
	assert.InDelta(t, 0.6, Elasticity(urbanGoldPremiumStandard(segmentlattice.DemandMedium)), 1e-9)
	silver := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	silver.Loyalty = segmentlattice.LoyaltySilver
	assert.InDelta(t, 1.0, Elasticity(silver), 1e-9)
	regular := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	regular.Loyalty = segmentlattice.LoyaltyRegular
	assert.InDelta(t, 1.4, Elasticity(regular), 1e-9)
}

func TestElasticity_DemandAdjustmentAndClamp(t *testing.T) {
	gold := urbanGoldPremiumStandard(segmentlattice.DemandHigh)
	assert.InDelta(t, 0.4, Elasticity(gold), 1e-9)

	regularLow := urbanGoldPremiumStandard(segmentlattice.DemandLow)
	regularLow.Loyalty = segmentlattice.LoyaltyRegular
	assert.InDelta(t, 1.7, Elasticity(regularLow), 1e-9)
}

func TestProject_ZeroBaselinePriceYieldsZeroRevenueNoFailure(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	base := Baseline{Rides: 100, UnitPrice: 0, DurationMinutes: 20}
	p := Project(s, base, 1.5)
	assert.True(t, p.ZeroBaseline)
	assert.Equal(t, 0.0, p.Revenue)
}

func TestProject_ZeroRidesStaysZero(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	base := Baseline{Rides: 0, UnitPrice: 3.0, DurationMinutes: 20}
	p := Project(s, base, 1.2)
	assert.Equal(t, 0.0, p.Rides)
	assert.Equal(t, 0.0, p.Revenue)
}

func TestProject_ElasticitySignMatchesDirectionOfPriceChange(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandMedium)
	base := Baseline{Rides: 100, UnitPrice: 3.0, DurationMinutes: 20}

	up := Project(s, base, 1.2)
	assert.Less(t, up.Rides, base.Rides)

	down := Project(s, base, 0.8)
	assert.Greater(t, down.Rides, base.Rides)

	identity := Project(s, base, 1.0)
	assert.InDelta(t, base.Rides, identity.Rides, 1e-9)
	assert.InDelta(t, base.Revenue(), identity.Revenue, 1e-6)
}

func TestProject_RevenueIdentityHolds(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandHigh)
	base := Baseline{Rides: 50, UnitPrice: 4.0, DurationMinutes: 15}
	p := Project(s, base, 1.1)
	assert.InDelta(t, p.Rides*p.DurationMinutes*p.UnitPrice, p.Revenue, 1e-6)
}

func TestApplicableRules_FiltersBySegment(t *testing.T) {
	s := urbanGoldPremiumStandard(segmentlattice.DemandHigh)
	rules := []Rule{
		{RuleID: "r1", Multiplier: 1.1, Condition: map[string]string{"loyalty_tier": "Gold"}},
		{RuleID: "r2", Multiplier: 1.2, Condition: map[string]string{"loyalty_tier": "Silver"}},
		{RuleID: "r3", Multiplier: 1.3, Condition: nil},
	}
	applicable := ApplicableRules(rules, s)
	assert.Len(t, applicable, 2)
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 3.14, Round(3.14159), 1e-9)
	assert.InDelta(t, 3.13, Round(3.128), 1e-9)
}
