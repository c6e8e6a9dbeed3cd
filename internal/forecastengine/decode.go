package forecastengine

import "github.com/richxcame/pricing-pipeline/internal/segmentlattice"

// segmentLocation, segmentLoyalty, segmentVehicle, segmentPricing decode a
// raw stored string into its typed lattice dimension. An unrecognized
// value is not rejected here — validRow catches it and the row is dropped
// and counted as a diagnostic, never silently accepted.
func segmentLocation(v string) segmentlattice.LocationCategory {
	return segmentlattice.LocationCategory(v)
}

func segmentLoyalty(v string) segmentlattice.LoyaltyTier {
	return segmentlattice.LoyaltyTier(v)
}

func segmentVehicle(v string) segmentlattice.VehicleType {
	return segmentlattice.VehicleType(v)
}

func segmentPricing(v string) segmentlattice.PricingModel {
	return segmentlattice.PricingModel(v)
}
