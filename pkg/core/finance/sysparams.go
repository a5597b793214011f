package finance

// AssetResult is one optimized asset from the energy-system solver: its
// least-cost capacity and the total simulated flow through it.
type AssetResult struct {
	Asset             SupplySource
	OptimizedCapacity float64
	TotalFlow         float64
}

// InstalledAsset is a pre-existing asset capacity. AssetType carries the
// solver's raw type name; storage capacities and grid-interface assets are
// reindexed onto battery and inverter during aggregation.
type InstalledAsset struct {
	AssetType         string
	InstalledCapacity float64
}

// AssetCost holds the per-asset simulated cost totals of one supply source.
type AssetCost struct {
	Asset            SupplySource
	CapexInitial     float64
	CapexReplacement float64
	OpexVarTotal     float64
	OpexFixTotal     float64
	FuelCostsTotal   float64
}

// DemandSegment is the aggregated consumer count and yearly demand of one
// supply source (mini-grid or SHS). SHS segments arrive with zero demand:
// they are sized out of the mini-grid but their consumer count is kept.
type DemandSegment struct {
	Source      SupplySource
	Consumers   float64
	TotalDemand float64 // kWh per year
}

// SystemInput bundles the solver and demand outputs consumed by the
// aggregator.
type SystemInput struct {
	Assets    []AssetResult
	Installed []InstalledAsset
	Costs     []AssetCost
	Demand    []DemandSegment
}

// reindexAssetType maps raw solver asset types onto supply sources.
func reindexAssetType(assetType string) SupplySource {
	switch assetType {
	case "capacity":
		return SourceBattery
	case "transformer_station_in":
		return SourceInverter
	default:
		return SupplySource(assetType)
	}
}

// AggregateSystemParams normalizes capacities, flows, simulated costs and
// demand into one flat row set keyed by (supply source, category). Growth
// rates default to zero; fuel cost rows grow at the diesel price increase
// and total-opex rows at the catalog's Opex growth rate.
func AggregateSystemParams(in SystemInput, opexGrowthRate, fuelPriceIncrease float64) []SystemParameterRow {
	var rows []SystemParameterRow

	add := func(source SupplySource, category CostCategory, value float64) {
		growth := 0.0
		switch category {
		case CategoryOpexTotal:
			growth = opexGrowthRate
		case CategoryFuelCostsTotal:
			growth = fuelPriceIncrease
		}
		rows = append(rows, SystemParameterRow{
			SupplySource: source,
			Category:     category,
			Value:        value,
			GrowthRate:   growth,
		})
	}

	for _, a := range in.Assets {
		add(a.Asset, CategoryOptimizedCapacity, a.OptimizedCapacity)
		add(a.Asset, CategoryTotalFlow, a.TotalFlow)
	}
	for _, a := range in.Installed {
		add(reindexAssetType(a.AssetType), CategoryInstalledCapacity, a.InstalledCapacity)
	}
	for _, c := range in.Costs {
		add(c.Asset, CategoryCapexInitial, c.CapexInitial)
		add(c.Asset, CategoryCapexReplacement, c.CapexReplacement)
		add(c.Asset, CategoryOpexTotal, c.OpexVarTotal+c.OpexFixTotal)
		add(c.Asset, CategoryFuelCostsTotal, c.FuelCostsTotal)
	}
	for _, d := range in.Demand {
		add(d.Source, CategoryNrConsumers, d.Consumers)
		add(d.Source, CategoryTotalDemand, d.TotalDemand)
	}

	return rows
}

// paramValue looks up a system parameter by supply source and category.
func paramValue(rows []SystemParameterRow, source SupplySource, category CostCategory) (float64, bool) {
	for _, r := range rows {
		if r.SupplySource == source && r.Category == category {
			return r.Value, true
		}
	}
	return 0, false
}

// paramsByLabel indexes rows by their catalog join key.
func paramsByLabel(rows []SystemParameterRow) map[string]SystemParameterRow {
	byLabel := make(map[string]SystemParameterRow, len(rows))
	for _, r := range rows {
		byLabel[r.Label()] = r
	}
	return byLabel
}

// filterByCategory returns the rows matching any of the given categories.
func filterByCategory(rows []SystemParameterRow, categories ...CostCategory) []SystemParameterRow {
	var out []SystemParameterRow
	for _, r := range rows {
		for _, c := range categories {
			if r.Category == c {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
