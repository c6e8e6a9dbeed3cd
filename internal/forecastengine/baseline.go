package forecastengine

import "github.com/richxcame/pricing-pipeline/internal/segmentlattice"

const (
	minSampleForMeasured = 3
	highConfidenceSample = 30
	mediumConfidenceSample = 10
)

func isRecognized(r RideRecord) bool {
	return containsLocation(r.Location) && containsLoyalty(r.Loyalty) &&
		containsVehicle(r.Vehicle) && containsPricing(r.Pricing)
}

func containsLocation(v segmentlattice.LocationCategory) bool {
	for _, x := range segmentlattice.Locations {
		if x == v {
			return true
		}
	}
	return false
}

func containsLoyalty(v segmentlattice.LoyaltyTier) bool {
	for _, x := range segmentlattice.Loyalties {
		if x == v {
			return true
		}
	}
	return false
}

func containsVehicle(v segmentlattice.VehicleType) bool {
	for _, x := range segmentlattice.Vehicles {
		if x == v {
			return true
		}
	}
	return false
}

func containsPricing(v segmentlattice.PricingModel) bool {
	for _, x := range segmentlattice.PricingModels {
		if x == v {
			return true
		}
	}
	return false
}

// validRow reports whether a ride record carries a positive duration,
// riders, and a recognized combination of categorical dimensions. Rows
// that fail this check are dropped and counted as diagnostics, never
// propagated as a failure.
func validRow(r RideRecord) bool {
	return r.RideDurationMin > 0 && r.Riders > 0 && isRecognized(r)
}

type bucket struct {
	sampleSize int
	riders     float64
	drivers    float64
	duration   float64
	unitPrice  float64
	rides      float64
}

func (b *bucket) add(r RideRecord) {
	b.sampleSize++
	b.riders += float64(r.Riders)
	b.drivers += float64(r.Drivers)
	b.duration += r.RideDurationMin
	b.unitPrice += r.UnitPrice
	b.rides++
}

func (b bucket) mean() (riders, drivers, duration, unitPrice float64) {
	if b.sampleSize == 0 {
		return 0, 0, 0, 0
	}
	n := float64(b.sampleSize)
	return b.riders / n, b.drivers / n, b.duration / n, b.unitPrice / n
}

func confidenceForSample(n int) Confidence {
	switch {
	case n >= highConfidenceSample:
		return ConfidenceHigh
	case n >= mediumConfidenceSample:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ComputeBaselines builds exactly 162 baselines, one per lattice segment,
// from a set of historical ride records. Malformed rows are dropped and
// counted rather than failing the computation.
func ComputeBaselines(rides []RideRecord) ([]Baseline, int) {
	dropped := 0
	baseBuckets := make(map[segmentlattice.BaseCombination]*bucket)
	segmentBuckets := make(map[segmentlattice.Segment]*bucket)

	for _, r := range rides {
		if !validRow(r) {
			dropped++
			continue
		}

		base := segmentlattice.BaseCombination{
			Location: r.Location, Loyalty: r.Loyalty, Vehicle: r.Vehicle, Pricing: r.Pricing,
		}
		demand := segmentlattice.Classify(r.Riders, r.Drivers)
		segment := base.WithDemand(demand)

		if baseBuckets[base] == nil {
			baseBuckets[base] = &bucket{}
		}
		baseBuckets[base].add(r)

		if segmentBuckets[segment] == nil {
			segmentBuckets[segment] = &bucket{}
		}
		segmentBuckets[segment].add(r)
	}

	baselines := make([]Baseline, 0, segmentlattice.CellCount)
	for _, s := range segmentlattice.Enumerate() {
		base := s.Base()
		segBucket := segmentBuckets[s]
		baseBucket := baseBuckets[base]

		switch {
		case segBucket != nil && segBucket.sampleSize >= minSampleForMeasured:
			riders, drivers, duration, price := segBucket.mean()
			baselines = append(baselines, Baseline{
				Segment:         s,
				SampleSize:      segBucket.sampleSize,
				UnitPrice:       price,
				DurationMinutes: duration,
				Rides:           segBucket.rides,
				Riders:          riders,
				Drivers:         drivers,
				Confidence:      confidenceForSample(segBucket.sampleSize),
				DataQuality:     DataQualityMeasured,
			})
		case baseBucket != nil && baseBucket.sampleSize >= 1:
			riders, drivers, duration, price := baseBucket.mean()
			sample := 0
			if segBucket != nil {
				sample = segBucket.sampleSize
			}
			baselines = append(baselines, Baseline{
				Segment:         s,
				SampleSize:      sample,
				UnitPrice:       price,
				DurationMinutes: duration,
				Rides:           0,
				Riders:          riders,
				Drivers:         drivers,
				Confidence:      ConfidenceLow,
				DataQuality:     DataQualityAggregated,
			})
		default:
			baselines = append(baselines, IndustryDefault(s))
		}
	}

	return baselines, dropped
}
