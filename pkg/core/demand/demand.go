// Package demand aggregates community consumer groups into the demand inputs
// of the financial engine: consumer counts and yearly energy demand per
// supply source, the hourly load series for system sizing, and summary
// demand indicators.
package demand

import (
	"fmt"

	"minigrid_finance/pkg/core/finance"
)

// HoursPerYear is the length of an hourly demand timeseries.
const HoursPerYear = 8760

// Tier grades a household demand profile by consumption level. TierNone
// disables the SHS threshold.
type Tier string

const (
	TierNone     Tier = ""
	TierVeryLow  Tier = "very_low"
	TierLow      Tier = "low"
	TierMiddle   Tier = "middle"
	TierHigh     Tier = "high"
	TierVeryHigh Tier = "very_high"
)

// householdTiers orders the tiers from lowest to highest consumption.
var householdTiers = []Tier{TierVeryLow, TierLow, TierMiddle, TierHigh, TierVeryHigh}

// Verbose returns the display name of a tier, e.g. "very_low" ->
// "Very Low Consumption Estimate".
func (t Tier) Verbose() string {
	switch t {
	case TierVeryLow:
		return "Very Low Consumption Estimate"
	case TierLow:
		return "Low Consumption Estimate"
	case TierMiddle:
		return "Middle Consumption Estimate"
	case TierHigh:
		return "High Consumption Estimate"
	case TierVeryHigh:
		return "Very High Consumption Estimate"
	default:
		return string(t)
	}
}

func tierIndex(t Tier) int {
	for i, tier := range householdTiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// BelowThreshold reports whether a tier falls at or below the SHS threshold,
// i.e. whether its consumers are served by solar home systems instead of the
// mini-grid. A TierNone threshold excludes nobody.
func BelowThreshold(tier, threshold Tier) (bool, error) {
	if threshold == TierNone {
		return false, nil
	}
	ti := tierIndex(threshold)
	if ti < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownTier, threshold)
	}
	gi := tierIndex(tier)
	if gi < 0 {
		// Non-household profiles (enterprises, public, machinery) carry no
		// tier and always stay on the mini-grid.
		return false, nil
	}
	return gi <= ti, nil
}

// ConsumerType classifies a consumer group.
type ConsumerType string

const (
	TypeHouseholds  ConsumerType = "households"
	TypeEnterprises ConsumerType = "enterprises"
	TypePublic      ConsumerType = "public"
	TypeMachinery   ConsumerType = "machinery"
)

// Timeseries is one hourly demand profile with its storage unit.
type Timeseries struct {
	Name   string
	Tier   Tier // TierNone for non-household profiles
	Unit   string
	Values []float64
}

// unitConversions maps (from, to) unit pairs onto scale factors.
var unitConversions = map[string]map[string]float64{
	"Wh":  {"Wh": 1, "kWh": 0.001},
	"kWh": {"Wh": 1000, "kWh": 1},
}

// ValuesIn converts the profile into the target unit. Units outside the
// supported set are fatal at the point of use.
func (ts Timeseries) ValuesIn(targetUnit string) ([]float64, error) {
	factors, ok := unitConversions[ts.Unit]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, ts.Unit)
	}
	factor, ok := factors[targetUnit]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, targetUnit)
	}
	out := make([]float64, len(ts.Values))
	for i, v := range ts.Values {
		out[i] = v * factor
	}
	return out, nil
}

// ConsumerGroup is a number of consumers sharing one demand profile.
type ConsumerGroup struct {
	Type      ConsumerType
	Series    Timeseries
	Consumers float64
}

// Segment is the aggregated demand of one consumer type (or the SHS pool).
type Segment struct {
	Source      finance.SupplySource
	Consumers   float64
	TotalDemand float64 // kWh per year
}

// Aggregated holds the per-consumer-type demand segments plus the SHS pool.
type Aggregated struct {
	Households  Segment
	Enterprises Segment
	Public      Segment
	SHS         Segment
}

// Aggregate sums consumer counts and yearly kWh demand per consumer type.
// Groups at or below the SHS threshold move to the SHS segment; their demand
// is zeroed so the mini-grid is not sized (and costed) for consumers it will
// not serve, but the consumer count is kept for reporting. Machinery demand
// folds into the enterprise segment without adding consumers.
func Aggregate(groups []ConsumerGroup, shsThreshold Tier) (Aggregated, error) {
	var agg Aggregated
	byType := map[ConsumerType]*Segment{
		TypeHouseholds:  &agg.Households,
		TypeEnterprises: &agg.Enterprises,
		TypePublic:      &agg.Public,
	}
	for _, seg := range byType {
		seg.Source = finance.SourceMiniGrid
	}
	agg.SHS.Source = finance.SourceSHS

	for _, g := range groups {
		shs, err := BelowThreshold(g.Series.Tier, shsThreshold)
		if err != nil {
			return Aggregated{}, err
		}
		values, err := g.Series.ValuesIn("kWh")
		if err != nil {
			return Aggregated{}, err
		}
		yearly := 0.0
		for _, v := range values {
			yearly += v
		}
		yearly *= g.Consumers

		if shs {
			// Demand deliberately not accumulated: SHS consumers do not load
			// the mini-grid.
			agg.SHS.Consumers += g.Consumers
			continue
		}

		switch g.Type {
		case TypeMachinery:
			agg.Enterprises.TotalDemand += yearly
		case TypeHouseholds, TypeEnterprises, TypePublic:
			seg := byType[g.Type]
			seg.Consumers += g.Consumers
			seg.TotalDemand += yearly
		default:
			return Aggregated{}, fmt.Errorf("unknown consumer type %q", g.Type)
		}
	}

	return agg, nil
}

// SupplySegments folds the aggregation into the per-supply-source demand
// inputs of the financial engine.
func (a Aggregated) SupplySegments() []finance.DemandSegment {
	miniGrid := finance.DemandSegment{Source: finance.SourceMiniGrid}
	for _, seg := range []Segment{a.Households, a.Enterprises, a.Public} {
		miniGrid.Consumers += seg.Consumers
		miniGrid.TotalDemand += seg.TotalDemand
	}
	return []finance.DemandSegment{
		miniGrid,
		{Source: finance.SourceSHS, Consumers: a.SHS.Consumers, TotalDemand: a.SHS.TotalDemand},
	}
}
