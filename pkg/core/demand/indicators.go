package demand

// HourlySeries sums the hourly kWh load of all groups above the SHS
// threshold, the profile handed to the energy-system optimizer. The result
// spans the longest input profile; with no groups it is empty.
func HourlySeries(groups []ConsumerGroup, shsThreshold Tier) ([]float64, error) {
	var total []float64
	for _, g := range groups {
		shs, err := BelowThreshold(g.Series.Tier, shsThreshold)
		if err != nil {
			return nil, err
		}
		if shs {
			continue
		}
		values, err := g.Series.ValuesIn("kWh")
		if err != nil {
			return nil, err
		}
		if len(values) > len(total) {
			padded := make([]float64, len(values))
			copy(padded, total)
			total = padded
		}
		for i, v := range values {
			total[i] += v * g.Consumers
		}
	}
	return total, nil
}

// Indicators summarizes an hourly demand series.
type Indicators struct {
	Total        float64 // kWh per year
	Peak         float64 // kW
	DailyAverage float64 // kWh per day
}

// ComputeIndicators derives the total, peak and daily-average demand from an
// hourly series.
func ComputeIndicators(series []float64) Indicators {
	var ind Indicators
	for _, v := range series {
		ind.Total += v
		if v > ind.Peak {
			ind.Peak = v
		}
	}
	ind.DailyAverage = ind.Total / 365
	return ind
}
