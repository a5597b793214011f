package finance

import "minigrid_finance/pkg/core/costs"

// RevenueOverLifetime projects every revenue assumption across the project
// lifetime. Each catalog Revenue row's unit price is compounded at the
// catalog growth rate, converted to the target currency, and multiplied
// element-wise with the system lifetime row named by its Target (demand or
// consumer counts, including the derived new-consumer rows). A total row
// sums all revenue streams per year.
//
// tariffOverride, when non-nil, replaces the Community tariff unit price
// only; the tariff goal-seek is its sole caller.
func (m *Model) RevenueOverLifetime(tariffOverride *float64) (*LifetimeTable, error) {
	table, err := NewLifetimeTable(m.projectStart, m.projectDuration)
	if err != nil {
		return nil, err
	}

	for _, row := range m.catalog.RowsInCategory(costs.CategoryRevenue) {
		unitPrice := row.USDPerUnit
		if tariffOverride != nil && row.Description == costs.DescriptionCommunityTariff {
			unitPrice = *tariffOverride
		}

		values := make([]float64, m.projectDuration)
		driver, ok := m.systemLifetime.Row(row.Target)
		if !ok {
			// No matching system quantity: the stream contributes zero.
			m.countMissingJoin(row.Target)
			table.SetRow(row.Description, values)
			continue
		}
		for t := range values {
			values[t] = YearlyIncrease(unitPrice, row.GrowthRate, t) * m.params.ExchangeRate * driver[t]
		}
		table.SetRow(row.Description, values)
	}

	table.AppendTotal(RowTotalRevenues)
	return table, nil
}

// OMCostsOverLifetime projects the operating and fuel cost rows of the
// system parameters at their respective growth rates. Zero-valued rows are
// dropped; a total row sums the remainder per year.
func (m *Model) OMCostsOverLifetime() (*LifetimeTable, error) {
	var growthRows []GrowthRow
	for _, r := range filterByCategory(m.systemParams, CategoryOpexTotal, CategoryFuelCostsTotal) {
		if r.Value == 0 {
			continue
		}
		growthRows = append(growthRows, GrowthRow{
			Label:      r.Label(),
			Base:       r.Value,
			GrowthRate: r.GrowthRate,
		})
	}

	table, err := ProjectGrowth(growthRows, m.projectStart, m.projectDuration)
	if err != nil {
		return nil, err
	}
	table.AppendTotal(RowTotalOpex)
	return table, nil
}
