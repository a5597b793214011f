package demand

import (
	"errors"
	"math"
	"testing"

	"minigrid_finance/pkg/core/finance"
)

// flatSeries builds an hourly profile with a constant value.
func flatSeries(name string, tier Tier, unit string, value float64, hours int) Timeseries {
	values := make([]float64, hours)
	for i := range values {
		values[i] = value
	}
	return Timeseries{Name: name, Tier: tier, Unit: unit, Values: values}
}

func TestValuesInConversion(t *testing.T) {
	ts := Timeseries{Unit: "Wh", Values: []float64{1000, 2000}}
	got, err := ts.ValuesIn("kWh")
	if err != nil {
		t.Fatalf("ValuesIn: %v", err)
	}
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected [1 2] kWh, got %v", got)
	}

	// Identity conversion leaves values untouched.
	same, err := ts.ValuesIn("Wh")
	if err != nil {
		t.Fatalf("ValuesIn: %v", err)
	}
	if same[0] != 1000 {
		t.Errorf("Expected 1000 Wh, got %f", same[0])
	}
}

func TestValuesInUnsupportedUnit(t *testing.T) {
	ts := Timeseries{Unit: "MWh", Values: []float64{1}}
	if _, err := ts.ValuesIn("kWh"); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("Expected ErrUnsupportedUnit for source unit, got %v", err)
	}

	ts = Timeseries{Unit: "kWh", Values: []float64{1}}
	if _, err := ts.ValuesIn("J"); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("Expected ErrUnsupportedUnit for target unit, got %v", err)
	}
}

func TestAggregateSHSZeroing(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeHouseholds, Series: flatSeries("hh low", TierLow, "kWh", 0.1, 8760), Consumers: 30},
		{Type: TypeHouseholds, Series: flatSeries("hh middle", TierMiddle, "kWh", 0.2, 8760), Consumers: 50},
	}

	agg, err := Aggregate(groups, TierLow)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// The low-tier group moves to SHS: consumers kept, demand zeroed so the
	// mini-grid is not sized for them.
	if agg.SHS.Consumers != 30 {
		t.Errorf("Expected 30 SHS consumers, got %f", agg.SHS.Consumers)
	}
	if agg.SHS.TotalDemand != 0 {
		t.Errorf("Expected zero SHS demand, got %f", agg.SHS.TotalDemand)
	}

	if agg.Households.Consumers != 50 {
		t.Errorf("Expected 50 mini-grid households, got %f", agg.Households.Consumers)
	}
	expected := 0.2 * 8760 * 50
	if math.Abs(agg.Households.TotalDemand-expected) > 1e-6 {
		t.Errorf("Expected household demand %f, got %f", expected, agg.Households.TotalDemand)
	}
}

func TestAggregateNoThreshold(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeHouseholds, Series: flatSeries("hh very low", TierVeryLow, "kWh", 0.05, 8760), Consumers: 10},
	}
	agg, err := Aggregate(groups, TierNone)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.SHS.Consumers != 0 {
		t.Errorf("Expected no SHS consumers without threshold, got %f", agg.SHS.Consumers)
	}
	if agg.Households.Consumers != 10 {
		t.Errorf("Expected 10 households, got %f", agg.Households.Consumers)
	}
}

func TestAggregateMachineryFoldsIntoEnterprises(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeEnterprises, Series: flatSeries("shops", TierNone, "kWh", 0.5, 8760), Consumers: 10},
		{Type: TypeMachinery, Series: flatSeries("mill", TierNone, "kWh", 2, 8760), Consumers: 3},
	}
	agg, err := Aggregate(groups, TierNone)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// Machinery adds demand but no consumers.
	if agg.Enterprises.Consumers != 10 {
		t.Errorf("Expected 10 enterprise consumers, got %f", agg.Enterprises.Consumers)
	}
	expected := 0.5*8760*10 + 2*8760*3
	if math.Abs(agg.Enterprises.TotalDemand-expected) > 1e-6 {
		t.Errorf("Expected enterprise demand %f, got %f", expected, agg.Enterprises.TotalDemand)
	}
}

func TestAggregateUnknownThreshold(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeHouseholds, Series: flatSeries("hh", TierLow, "kWh", 0.1, 10), Consumers: 1},
	}
	if _, err := Aggregate(groups, Tier("luxury")); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("Expected ErrUnknownTier, got %v", err)
	}
}

func TestSupplySegments(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeHouseholds, Series: flatSeries("hh", TierMiddle, "kWh", 0.2, 8760), Consumers: 40},
		{Type: TypePublic, Series: flatSeries("school", TierNone, "kWh", 1, 8760), Consumers: 2},
		{Type: TypeHouseholds, Series: flatSeries("hh low", TierVeryLow, "kWh", 0.05, 8760), Consumers: 15},
	}
	agg, err := Aggregate(groups, TierVeryLow)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	segments := agg.SupplySegments()
	if len(segments) != 2 {
		t.Fatalf("Expected 2 supply segments, got %d", len(segments))
	}
	miniGrid, shs := segments[0], segments[1]
	if miniGrid.Source != finance.SourceMiniGrid || shs.Source != finance.SourceSHS {
		t.Fatalf("Unexpected segment sources: %v, %v", miniGrid.Source, shs.Source)
	}
	if miniGrid.Consumers != 42 {
		t.Errorf("Expected 42 mini-grid consumers, got %f", miniGrid.Consumers)
	}
	if shs.Consumers != 15 || shs.TotalDemand != 0 {
		t.Errorf("Expected 15 SHS consumers with zero demand, got %f / %f", shs.Consumers, shs.TotalDemand)
	}
}

func TestHourlySeriesExcludesSHS(t *testing.T) {
	groups := []ConsumerGroup{
		{Type: TypeHouseholds, Series: flatSeries("hh", TierMiddle, "kWh", 0.2, 24), Consumers: 10},
		{Type: TypeHouseholds, Series: flatSeries("hh low", TierVeryLow, "kWh", 0.1, 24), Consumers: 5},
	}
	series, err := HourlySeries(groups, TierVeryLow)
	if err != nil {
		t.Fatalf("HourlySeries: %v", err)
	}
	if len(series) != 24 {
		t.Fatalf("Expected 24 hours, got %d", len(series))
	}
	for i, v := range series {
		if math.Abs(v-2) > 1e-9 {
			t.Errorf("Hour %d: expected 2 kWh (SHS excluded), got %f", i, v)
		}
	}
}

func TestComputeIndicators(t *testing.T) {
	series := []float64{1, 3, 2, 4}
	ind := ComputeIndicators(series)

	if ind.Total != 10 {
		t.Errorf("Expected total 10, got %f", ind.Total)
	}
	if ind.Peak != 4 {
		t.Errorf("Expected peak 4, got %f", ind.Peak)
	}
	if math.Abs(ind.DailyAverage-10.0/365) > 1e-12 {
		t.Errorf("Expected daily average %f, got %f", 10.0/365, ind.DailyAverage)
	}
}
