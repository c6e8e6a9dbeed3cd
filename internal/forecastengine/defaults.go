package forecastengine

import "github.com/richxcame/pricing-pipeline/internal/segmentlattice"

// anchor is the industry-default baseline for Urban/Gold/Premium/STANDARD/
// MEDIUM; every other segment's fallback baseline is derived from it by
// multiplicative adjustment.
var anchor = Baseline{
	UnitPrice:       3.00,
	DurationMinutes: 25,
	Riders:          30,
	Drivers:         15,
}

// IndustryDefault derives the fallback baseline for a segment from the
// anchor using the multiplicative adjustments in the industry-default
// table: Rural adjusts price and duration, Economy and CUSTOM adjust
// price, and demand profile adjusts price.
func IndustryDefault(s segmentlattice.Segment) Baseline {
	priceMult := 1.0
	durationMult := 1.0

	switch s.Location {
	case segmentlattice.LocationRural:
		priceMult *= 0.80
		durationMult *= 1.1
	}

	if s.Vehicle == segmentlattice.VehicleEconomy {
		priceMult *= 0.75
	}

	if s.Pricing == segmentlattice.PricingCustom {
		priceMult *= 1.10
	}

	switch s.Demand {
	case segmentlattice.DemandHigh:
		priceMult *= 1.10
	case segmentlattice.DemandLow:
		priceMult *= 0.90
	}

	unitPrice := anchor.UnitPrice * priceMult
	duration := anchor.DurationMinutes * durationMult

	return Baseline{
		Segment:         s,
		SampleSize:      0,
		UnitPrice:       unitPrice,
		DurationMinutes: duration,
		Rides:           0,
		Riders:          anchor.Riders,
		Drivers:         anchor.Drivers,
		Confidence:      ConfidenceVeryLow,
		DataQuality:     DataQualityFallbackDefault,
	}
}
