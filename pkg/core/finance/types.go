// Package finance implements the financial projection engine for mini-grid
// electrification projects: system-parameter aggregation, CAPEX, lifetime
// OPEX/revenue projections, debt amortization, income and cash-flow tables,
// financial KPIs, tariff goal-seek and IRR.
//
// The engine is a pure in-memory computation: all inputs (optimized asset
// capacities, simulated cost totals, aggregated demand, the static cost
// catalog) are fetched up front by the calling layer and passed in as plain
// tables. One Model instance owns its derived tables for the duration of a
// single project computation; instances share nothing mutable.
package finance

import "strings"

// SupplySource identifies an energy supply asset or consumer segment.
type SupplySource string

const (
	SourcePVPlant         SupplySource = "pv_plant"
	SourceBattery         SupplySource = "battery"
	SourceInverter        SupplySource = "inverter"
	SourceDieselGenerator SupplySource = "diesel_generator"
	SourceMiniGrid        SupplySource = "mini_grid"
	SourceSHS             SupplySource = "shs"
	SourceDSO             SupplySource = "dso"
)

// Verbose returns the human-readable form used in report line items,
// e.g. "diesel_generator" -> "Diesel Generator".
func (s SupplySource) Verbose() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CostCategory classifies a system parameter row.
type CostCategory string

const (
	CategoryOptimizedCapacity CostCategory = "optimized_capacity"
	CategoryInstalledCapacity CostCategory = "installed_capacity"
	CategoryTotalFlow         CostCategory = "total_flow"
	CategoryCapexInitial      CostCategory = "capex_initial"
	CategoryCapexReplacement  CostCategory = "capex_replacement"
	CategoryOpexTotal         CostCategory = "opex_total"
	CategoryFuelCostsTotal    CostCategory = "fuel_costs_total"
	CategoryNrConsumers       CostCategory = "nr_consumers"
	CategoryTotalDemand       CostCategory = "total_demand"
)

// SystemParameterRow is one normalized (source, category) value produced by
// the aggregator. Label is the join key against the cost catalog's Target
// column and is unique per (SupplySource, Category) pair within one system.
type SystemParameterRow struct {
	SupplySource SupplySource
	Category     CostCategory
	Value        float64
	GrowthRate   float64
}

// Label returns the catalog join key, e.g. "pv_plant_optimized_capacity".
func (r SystemParameterRow) Label() string {
	return string(r.SupplySource) + "_" + string(r.Category)
}

// Currency selects a CAPEX total column.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyNGN Currency = "NGN"
)

// CapexLineItem is one row of the itemized capital-expenditure table.
// Synthetic rows (VAT, fixed project costs, power supply system) carry only
// the target-currency total.
type CapexLineItem struct {
	Description string
	Category    string
	Qty         float64
	TotalUSD    float64
	TotalNGN    float64
}

// FinancialParams are the scalar project-level financing inputs. They are
// immutable per run; the no-grant scenario variant is produced by
// Model.WithoutGrant, never by mutating a shared instance.
type FinancialParams struct {
	Discount                float64
	Tax                     float64
	ExchangeRate            float64 // NGN per USD
	CapexFix                float64 // fixed project costs, NGN
	GrantShare              float64
	UsableGrantFraction     float64 // haircut on performance-based grants, defaults to 0.75
	DebtInterestMG          float64
	DebtInterestReplacement float64
	LoanMaturity            int
	GracePeriod             int
	EquityInterestMG        float64
	EquityCommunityAmount   float64
	EquityDeveloperAmount   float64
	FuelPriceIncrease       float64
}

// TotalEquity is the combined community and developer equity contribution.
func (p FinancialParams) TotalEquity() float64 {
	return p.EquityCommunityAmount + p.EquityDeveloperAmount
}

// FinancialKPIs are the scalar financing-structure outputs.
type FinancialKPIs struct {
	TotalInvestments      float64
	EquityCommunity       float64
	EquityDeveloper       float64
	TotalEquity           float64
	InitialLoanAmount     float64
	ReplacementLoanAmount float64
	TotalGrant            float64
	WACC                  float64
	InterestRate          float64
	Maturity              int
	GracePeriod           int
}

// DefaultUsableGrantFraction models the effective grant volume after the
// bridge-loan interest consumed by performance-based disbursement.
const DefaultUsableGrantFraction = 0.75

// ReplacementYears is the number of project years after which battery,
// inverter and diesel generator are replaced (second loan disbursement).
const ReplacementYears = 10

// EnergyDensityDiesel is the energy content of diesel fuel in kWh per liter,
// used to convert generator flow into fuel consumption.
const EnergyDensityDiesel = 9.94

// Row labels of the losses (income) table.
const (
	RowEBITDA         = "EBITDA"
	RowDepreciation   = "Depreciation"
	RowEquityInterest = "Equity interest"
	RowDebtInterest   = "Debt interest"
	RowDebtRepayments = "Debt repayments"
	RowEBT            = "EBT"
	RowCorporateTax   = "Corporate tax"
	RowNetIncome      = "Net income"
)

// Row labels of the cash-flow table. RowFreeCashFlow is computed identically
// to RowCashFlowAfterDebt; both are exposed for downstream compatibility.
const (
	RowCashFlowOperating = "Cash flow from operating activity"
	RowCashFlowAfterDebt = "Cash flow after debt service"
	RowFreeCashFlow      = "Free cash flow available"
)

// RowTotalRevenues labels the sum row of the revenue lifetime table, and
// RowTotalOpex the sum row of the operating-cost lifetime table.
const (
	RowTotalRevenues = "Total operating revenues"
	RowTotalOpex     = "opex_total"
)
