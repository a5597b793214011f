package finance

import (
	"math"

	"minigrid_finance/pkg/core/costs"
)

// Capex builds the itemized capital-expenditure table: the static cost
// assumptions joined to the system parameters on Target==Label, a VAT line
// on the logistics and labour subtotal, the fixed project costs, and one
// solver-derived line per supply source for the power supply system itself.
// Catalog rows with no matching system parameter contribute zero and are
// counted for diagnostics. The method never mutates shared state.
func (m *Model) Capex() []CapexLineItem {
	byLabel := paramsByLabel(m.systemParams)
	rows := m.catalog.RowsExcludingCategories(costs.CategoryRevenue, costs.CategorySHS)

	items := make([]CapexLineItem, 0, len(rows)+2)
	for _, row := range rows {
		value := 0.0
		if row.Target != "" {
			if p, ok := byLabel[row.Target]; ok {
				value = p.Value
			} else {
				m.countMissingJoin(row.Target)
			}
		}
		totalUSD := row.USDPerUnit * value
		items = append(items, CapexLineItem{
			Description: row.Description,
			Category:    row.Category,
			Qty:         row.Qty,
			TotalUSD:    totalUSD,
			TotalNGN:    totalUSD * m.params.ExchangeRate,
		})
	}

	// VAT applies to non-technical equipment costs only.
	vatBase := 0.0
	for _, it := range items {
		if it.Category == costs.CategoryLogistics || it.Category == costs.CategoryLabour {
			vatBase += it.TotalUSD
		}
	}
	vatUSD := vatBase * m.params.Tax
	items = append(items, CapexLineItem{
		Description: "VAT",
		Category:    costs.CategoryTaxes,
		Qty:         1,
		TotalUSD:    vatUSD,
		TotalNGN:    vatUSD * m.params.ExchangeRate,
	})

	// Fixed project costs are supplied in the target currency directly.
	items = append(items, CapexLineItem{
		Description: "Planning and development costs",
		Category:    costs.CategoryFixProject,
		Qty:         1,
		TotalNGN:    m.params.CapexFix,
	})

	// The generation/storage system CAPEX comes straight from the solver
	// results, bypassing the static unit-cost table.
	for _, r := range filterByCategory(m.systemParams, CategoryCapexInitial) {
		items = append(items, CapexLineItem{
			Description: r.SupplySource.Verbose(),
			Category:    costs.CategoryPowerSystem,
			Qty:         1,
			TotalNGN:    r.Value,
		})
	}

	return items
}

// SumCapex totals one currency column of a CAPEX table.
func SumCapex(items []CapexLineItem, currency Currency) float64 {
	total := 0.0
	for _, it := range items {
		switch currency {
		case CurrencyUSD:
			total += it.TotalUSD
		default:
			total += it.TotalNGN
		}
	}
	return total
}

// TotalCapex is the column sum of the itemized CAPEX table.
func (m *Model) TotalCapex(currency Currency) float64 {
	return SumCapex(m.Capex(), currency)
}

// ReplacementCapex sums the power-supply-system lines of the assets replaced
// after ReplacementYears: battery, inverter and diesel generator.
func ReplacementCapex(items []CapexLineItem) float64 {
	replaced := map[string]bool{
		SourceBattery.Verbose():         true,
		SourceInverter.Verbose():        true,
		SourceDieselGenerator.Verbose(): true,
	}
	total := 0.0
	for _, it := range items {
		if it.Category == costs.CategoryPowerSystem && replaced[it.Description] {
			total += it.TotalNGN
		}
	}
	return total
}

// systemCapex sums the solver-derived power-supply-system lines, the basis
// for straight-line depreciation (fixed costs and taxes are not depreciated).
func systemCapex(items []CapexLineItem) float64 {
	total := 0.0
	for _, it := range items {
		if it.Category == costs.CategoryPowerSystem {
			total += it.TotalNGN
		}
	}
	return total
}

// initialLoanAmount floors the debt draw at zero: when grant and equity
// exceed gross CAPEX no initial loan is taken.
func initialLoanAmount(grossCapex, totalGrant, totalEquity float64) float64 {
	return math.Max(grossCapex-totalGrant-totalEquity, 0)
}
