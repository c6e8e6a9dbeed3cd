package segmentlattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate_LatticeCompleteness(t *testing.T) {
	segments := Enumerate()
	require.Len(t, segments, CellCount)

	keys := make(map[string]struct{}, CellCount)
	for _, s := range segments {
		key := s.Key()
		assert.NotEmpty(t, key)
		_, dup := keys[key]
		assert.False(t, dup, "duplicate segment key %s", key)
		keys[key] = struct{}{}
	}
	assert.Len(t, keys, CellCount)
}

func TestEnumerate_DemandProfileVariesFastest(t *testing.T) {
	segments := Enumerate()
	require.GreaterOrEqual(t, len(segments), 3)
	assert.Equal(t, segments[0].Location, segments[1].Location)
	assert.Equal(t, segments[0].Loyalty, segments[1].Loyalty)
	assert.Equal(t, segments[0].Vehicle, segments[1].Vehicle)
	assert.Equal(t, segments[0].Pricing, segments[1].Pricing)
	assert.NotEqual(t, segments[0].Demand, segments[1].Demand)
}

func TestEnumerateBaseCombinations_Count(t *testing.T) {
	bases := EnumerateBaseCombinations()
	assert.Len(t, bases, BaseCombinationCount)

	seen := make(map[string]struct{}, BaseCombinationCount)
	for _, b := range bases {
		seen[b.Key()] = struct{}{}
	}
	assert.Len(t, seen, BaseCombinationCount)
}

func TestSegmentKey_CanonicalOrder(t *testing.T) {
	s := Segment{
		Location: LocationUrban,
		Loyalty:  LoyaltyGold,
		Vehicle:  VehiclePremium,
		Pricing:  PricingStandard,
		Demand:   DemandMedium,
	}
	assert.Equal(t, "Urban_Gold_Premium_STANDARD_MEDIUM", s.Key())
}

func TestClassify_Thresholds(t *testing.T) {
	cases := []struct {
		name    string
		riders  int
		drivers int
		want    DemandProfile
	}{
		{"zero riders defaults medium", 0, 10, DemandMedium},
		{"negative riders defaults medium", -5, 10, DemandMedium},
		{"ratio just below 34 is high", 100, 33, DemandHigh},
		{"ratio exactly 34 is medium", 100, 34, DemandMedium},
		{"ratio just below 67 is medium", 100, 66, DemandMedium},
		{"ratio exactly 67 is low", 100, 67, DemandLow},
		{"no drivers is high", 100, 0, DemandHigh},
		{"oversupplied is low", 10, 100, DemandLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.riders, tc.drivers))
		})
	}
}

func TestClassify_IdempotentHighIffRatioBelow34(t *testing.T) {
	for riders := 1; riders <= 200; riders += 7 {
		for drivers := 0; drivers <= 200; drivers += 11 {
			rho := (float64(drivers) / float64(riders)) * 100
			got := Classify(riders, drivers)
			if got == DemandHigh {
				assert.Less(t, rho, 34.0)
			} else {
				assert.GreaterOrEqual(t, rho, 34.0)
			}
		}
	}
}

func TestBaseAndWithDemand_RoundTrip(t *testing.T) {
	for _, s := range Enumerate() {
		rebuilt := s.Base().WithDemand(s.Demand)
		assert.Equal(t, s, rebuilt)
	}
}

func TestKeySet_MatchesEnumerate(t *testing.T) {
	keys := KeySet()
	assert.Len(t, keys, CellCount)
	for _, s := range Enumerate() {
		_, ok := keys[s.Key()]
		assert.True(t, ok)
	}
}
