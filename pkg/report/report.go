// Package report assembles the engine outputs into plain structured records
// for downstream renderers. It carries values and labels only; formatting,
// layout and document generation live outside this module.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"minigrid_finance/pkg/core/demand"
	"minigrid_finance/pkg/core/finance"
)

// Row is one labeled value series of a table.
type Row struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Table is a titled grid of labeled rows. Columns name the value positions,
// e.g. calendar years.
type Table struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Summary holds the scalar project indicators of one model run. A nil
// RenewableShare means the share is undefined (no demand) and renders as
// N/A.
type Summary struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	ProjectStart    int       `json:"project_start"`
	ProjectDuration int       `json:"project_duration"`

	TotalDemand          float64  `json:"total_demand_kwh"`
	PeakDemand           float64  `json:"peak_demand_kw"`
	DailyDemand          float64  `json:"daily_demand_kwh"`
	YearlyProduction     float64  `json:"yearly_production_kwh"`
	FuelConsumptionLiter float64  `json:"fuel_consumption_liter"`
	RenewableShare       *float64 `json:"renewable_share_pct"`

	TotalInvestments float64  `json:"total_investments_ngn"`
	TotalGrant       float64  `json:"total_grant_ngn"`
	TotalEquity      float64  `json:"total_equity_ngn"`
	InitialLoan      float64  `json:"initial_loan_ngn"`
	ReplacementLoan  float64  `json:"replacement_loan_ngn"`
	WACC             float64  `json:"wacc"`
	Tariff           float64  `json:"tariff_usd_per_kwh"`
	IRR10            *float64 `json:"irr_10y"`
	IRR20            *float64 `json:"irr_20y"`
}

// Bundle is everything one model run produces, stamped with a fresh run id.
type Bundle struct {
	Summary Summary `json:"summary"`
	Tables  []Table `json:"tables"`
}

func yearColumns(years []int) []string {
	cols := make([]string, len(years))
	for i, y := range years {
		cols[i] = fmt.Sprintf("%d", y)
	}
	return cols
}

// FromLifetime converts a lifetime table, preserving row order.
func FromLifetime(title string, t *finance.LifetimeTable) Table {
	table := Table{Title: title, Columns: yearColumns(t.Years())}
	for _, label := range t.Labels() {
		values, _ := t.Row(label)
		table.Rows = append(table.Rows, Row{Label: label, Values: values})
	}
	return table
}

// FromDebt converts a debt service schedule.
func FromDebt(title string, t *finance.DebtServiceTable) Table {
	return Table{
		Title:   title,
		Columns: yearColumns(t.Years()),
		Rows: []Row{
			{Label: "Opening balance", Values: t.BalanceOpening},
			{Label: "Interest", Values: t.Interest},
			{Label: "Principal", Values: t.Principal},
			{Label: "Capital service", Values: t.CapitalService},
			{Label: "Closing balance", Values: t.BalanceClosing},
		},
	}
}

// FromCapex converts the itemized CAPEX table. Each row carries quantity and
// both currency totals.
func FromCapex(title string, items []finance.CapexLineItem) Table {
	table := Table{Title: title, Columns: []string{"Qty", "Total USD", "Total NGN"}}
	for _, it := range items {
		table.Rows = append(table.Rows, Row{
			Label:  it.Description,
			Values: []float64{it.Qty, it.TotalUSD, it.TotalNGN},
		})
	}
	return table
}

// Build runs the full projection on a model and packages every result table
// plus the scalar summary. A degenerate tariff fit or non-converging IRR is
// recorded as absent rather than failing the whole bundle: an edge-case
// project must still produce a report.
func Build(m *finance.Model, indicators demand.Indicators) (*Bundle, error) {
	capexItems := m.Capex()
	kpis := m.FinancialKPIs()

	revenue, err := m.RevenueOverLifetime(nil)
	if err != nil {
		return nil, err
	}
	om, err := m.OMCostsOverLifetime()
	if err != nil {
		return nil, err
	}
	losses, err := m.LossesOverLifetime(nil)
	if err != nil {
		return nil, err
	}
	cashFlow, err := m.CashFlowOverLifetime(nil)
	if err != nil {
		return nil, err
	}
	initialLoan, err := m.InitialLoanTable()
	if err != nil {
		return nil, err
	}
	replacementLoan, err := m.ReplacementLoanTable()
	if err != nil {
		return nil, err
	}

	summary := Summary{
		RunID:           uuid.New().String(),
		GeneratedAt:     time.Now().UTC(),
		ProjectStart:    m.ProjectStart(),
		ProjectDuration: m.ProjectDuration(),

		TotalDemand:          indicators.Total,
		PeakDemand:           indicators.Peak,
		DailyDemand:          indicators.DailyAverage,
		YearlyProduction:     m.YearlyProductionElectricity(),
		FuelConsumptionLiter: m.FuelConsumptionLiter(),

		TotalInvestments: kpis.TotalInvestments,
		TotalGrant:       kpis.TotalGrant,
		TotalEquity:      kpis.TotalEquity,
		InitialLoan:      kpis.InitialLoanAmount,
		ReplacementLoan:  kpis.ReplacementLoanAmount,
		WACC:             kpis.WACC,
	}

	if share, ok := m.RenewableShare(); ok {
		summary.RenewableShare = &share
	}

	tariff, err := m.Tariff()
	if err != nil && !errors.Is(err, finance.ErrDegenerateFit) {
		return nil, err
	}
	if err == nil {
		summary.Tariff = tariff
	}

	for _, horizon := range []struct {
		years int
		dst   **float64
	}{
		{10, &summary.IRR10},
		{20, &summary.IRR20},
	} {
		irr, err := m.InternalReturnOnInvestment(horizon.years)
		if err != nil {
			if errors.Is(err, finance.ErrNoConvergence) {
				continue
			}
			return nil, err
		}
		v := irr
		*horizon.dst = &v
	}

	return &Bundle{
		Summary: summary,
		Tables: []Table{
			FromCapex("Capital expenditure", capexItems),
			FromLifetime("Operating revenues", revenue),
			FromLifetime("Operating expenses", om),
			FromDebt("Initial loan debt service", initialLoan),
			FromDebt("Replacement loan debt service", replacementLoan),
			FromLifetime("Income statement", losses),
			FromLifetime("Cash flow", cashFlow),
		},
	}, nil
}
