// Package segmentlattice enumerates the 162-cell segment space and
// classifies demand profiles from rider/driver ratios. Every other
// component builds on these primitives.
package segmentlattice

import "strings"

// LocationCategory is one of the three location dimensions.
type LocationCategory string

const (
	LocationUrban    LocationCategory = "Urban"
	LocationSuburban LocationCategory = "Suburban"
	LocationRural    LocationCategory = "Rural"
)

// LoyaltyTier is one of the three loyalty dimensions.
type LoyaltyTier string

const (
	LoyaltyGold    LoyaltyTier = "Gold"
	LoyaltySilver  LoyaltyTier = "Silver"
	LoyaltyRegular LoyaltyTier = "Regular"
)

// VehicleType is one of the two vehicle dimensions.
type VehicleType string

const (
	VehiclePremium VehicleType = "Premium"
	VehicleEconomy VehicleType = "Economy"
)

// PricingModel is one of the three pricing-model dimensions.
type PricingModel string

const (
	PricingStandard   PricingModel = "STANDARD"
	PricingContracted PricingModel = "CONTRACTED"
	PricingCustom     PricingModel = "CUSTOM"
)

// DemandProfile is the dynamic demand classification (§3.3).
type DemandProfile string

const (
	DemandHigh   DemandProfile = "HIGH"
	DemandMedium DemandProfile = "MEDIUM"
	DemandLow    DemandProfile = "LOW"
)

// Locations, Loyalties, Vehicles, PricingModels, DemandProfiles hold each
// dimension's values in canonical enumeration order (§4.1).
var (
	Locations      = []LocationCategory{LocationUrban, LocationSuburban, LocationRural}
	Loyalties      = []LoyaltyTier{LoyaltyGold, LoyaltySilver, LoyaltyRegular}
	Vehicles       = []VehicleType{VehiclePremium, VehicleEconomy}
	PricingModels  = []PricingModel{PricingStandard, PricingContracted, PricingCustom}
	DemandProfiles = []DemandProfile{DemandHigh, DemandMedium, DemandLow}
)

// Segment is a single cell of the 162-cell lattice.
type Segment struct {
	Location LocationCategory
	Loyalty  LoyaltyTier
	Vehicle  VehicleType
	Pricing  PricingModel
	Demand   DemandProfile
}

// BaseCombination is a segment without the demand_profile dimension (54 total).
type BaseCombination struct {
	Location LocationCategory
	Loyalty  LoyaltyTier
	Vehicle  VehicleType
	Pricing  PricingModel
}

// Base strips the demand dimension off a segment.
func (s Segment) Base() BaseCombination {
	return BaseCombination{Location: s.Location, Loyalty: s.Loyalty, Vehicle: s.Vehicle, Pricing: s.Pricing}
}

// Key returns the canonical segment_key: the five dimension values joined
// by "_" in the order location, loyalty, vehicle, pricing_model, demand.
func (s Segment) Key() string {
	return strings.Join([]string{
		string(s.Location), string(s.Loyalty), string(s.Vehicle), string(s.Pricing), string(s.Demand),
	}, "_")
}

// Key returns the canonical base_key for a base combination (no demand suffix).
func (b BaseCombination) Key() string {
	return strings.Join([]string{
		string(b.Location), string(b.Loyalty), string(b.Vehicle), string(b.Pricing),
	}, "_")
}

// WithDemand returns the full segment for this base combination and demand profile.
func (b BaseCombination) WithDemand(d DemandProfile) Segment {
	return Segment{Location: b.Location, Loyalty: b.Loyalty, Vehicle: b.Vehicle, Pricing: b.Pricing, Demand: d}
}

// CellCount is the total number of segments in the lattice (3*3*2*3*3).
const CellCount = 162

// BaseCombinationCount is the number of base combinations (3*3*2*3).
const BaseCombinationCount = 54

// Enumerate returns all 162 segments in deterministic order: location,
// loyalty, vehicle, pricing_model, demand_profile, inner loops rightmost.
func Enumerate() []Segment {
	segments := make([]Segment, 0, CellCount)
	for _, loc := range Locations {
		for _, loy := range Loyalties {
			for _, veh := range Vehicles {
				for _, pm := range PricingModels {
					for _, dp := range DemandProfiles {
						segments = append(segments, Segment{
							Location: loc, Loyalty: loy, Vehicle: veh, Pricing: pm, Demand: dp,
						})
					}
				}
			}
		}
	}
	return segments
}

// EnumerateBaseCombinations returns all 54 base combinations in the same
// deterministic order as Enumerate, with the demand dimension dropped.
func EnumerateBaseCombinations() []BaseCombination {
	bases := make([]BaseCombination, 0, BaseCombinationCount)
	for _, loc := range Locations {
		for _, loy := range Loyalties {
			for _, veh := range Vehicles {
				for _, pm := range PricingModels {
					bases = append(bases, BaseCombination{Location: loc, Loyalty: loy, Vehicle: veh, Pricing: pm})
				}
			}
		}
	}
	return bases
}

// Classify derives the dynamic demand profile from a rider/driver ratio (§3.3).
// rho = (drivers/riders)*100; riders<=0 is classified MEDIUM.
func Classify(riders, drivers int) DemandProfile {
	if riders <= 0 {
		return DemandMedium
	}
	rho := (float64(drivers) / float64(riders)) * 100
	switch {
	case rho < 34:
		return DemandHigh
	case rho < 67:
		return DemandMedium
	default:
		return DemandLow
	}
}

// KeySet returns the canonical set of all 162 segment keys, used to check
// lattice completeness.
func KeySet() map[string]struct{} {
	keys := make(map[string]struct{}, CellCount)
	for _, s := range Enumerate() {
		keys[s.Key()] = struct{}{}
	}
	return keys
}
