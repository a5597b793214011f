package finance

import (
	"errors"
	"math"
	"testing"

	"minigrid_finance/pkg/core/costs"
)

// testCatalog builds a small but complete cost-assumption table: two revenue
// streams, two per-consumer CAPEX lines and the Opex growth row.
func testCatalog() *costs.Catalog {
	return costs.NewCatalog([]costs.AssumptionRow{
		{Description: "Community tariff", Category: costs.CategoryRevenue, Target: "mini_grid_total_demand", USDPerUnit: 0.25},
		{Description: "Connection fees", Category: costs.CategoryRevenue, Target: "mini_grid_nr_consumers_new", USDPerUnit: 50},
		{Description: "Distribution grid", Category: costs.CategoryLogistics, Target: "mini_grid_nr_consumers", USDPerUnit: 100, Qty: 1},
		{Description: "Customer meters", Category: costs.CategoryLabour, Target: "mini_grid_nr_consumers", USDPerUnit: 20, Qty: 1},
		{Description: "O&M staff", Category: costs.CategoryOpex, GrowthRate: 0.02},
	})
}

func testParams() FinancialParams {
	return FinancialParams{
		Discount:                0.12,
		Tax:                     0.075,
		ExchangeRate:            1,
		CapexFix:                10000,
		GrantShare:              0.3,
		DebtInterestMG:          0.1,
		DebtInterestReplacement: 0.11,
		LoanMaturity:            10,
		GracePeriod:             1,
		EquityInterestMG:        0.05,
		EquityCommunityAmount:   50000,
		EquityDeveloperAmount:   50000,
		FuelPriceIncrease:       0.03,
	}
}

func testSystem() SystemInput {
	return SystemInput{
		Assets: []AssetResult{
			{Asset: SourcePVPlant, OptimizedCapacity: 100, TotalFlow: 120000},
			{Asset: SourceInverter, OptimizedCapacity: 50, TotalFlow: 95000},
			{Asset: SourceDieselGenerator, OptimizedCapacity: 30, TotalFlow: 20000},
		},
		Costs: []AssetCost{
			{Asset: SourcePVPlant, CapexInitial: 500000},
			{Asset: SourceBattery, CapexInitial: 300000},
			{Asset: SourceInverter, CapexInitial: 100000},
			{Asset: SourceDieselGenerator, CapexInitial: 200000, OpexVarTotal: 30000, OpexFixTotal: 20000, FuelCostsTotal: 30000},
		},
		Demand: []DemandSegment{
			{Source: SourceMiniGrid, Consumers: 100, TotalDemand: 100000},
			{Source: SourceSHS, Consumers: 20, TotalDemand: 0},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(Config{
		Catalog:         testCatalog(),
		Params:          testParams(),
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          testSystem(),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestNewModelRejectsBadDuration(t *testing.T) {
	_, err := NewModel(Config{
		Catalog:         testCatalog(),
		Params:          testParams(),
		ProjectStart:    2025,
		ProjectDuration: 0,
		System:          testSystem(),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for zero duration, got %v", err)
	}
}

func TestNewModelRequiresOpexGrowthRow(t *testing.T) {
	catalog := costs.NewCatalog([]costs.AssumptionRow{
		{Description: "Community tariff", Category: costs.CategoryRevenue, Target: "mini_grid_total_demand", USDPerUnit: 0.25},
	})
	_, err := NewModel(Config{
		Catalog:         catalog,
		Params:          testParams(),
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          testSystem(),
	})
	if err == nil {
		t.Fatal("Expected error for catalog without Opex row")
	}
}

func TestUsableGrantFractionDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.Params().UsableGrantFraction != DefaultUsableGrantFraction {
		t.Errorf("Expected default usable grant fraction %v, got %v",
			DefaultUsableGrantFraction, m.Params().UsableGrantFraction)
	}
}

func TestScalarIndicators(t *testing.T) {
	m := newTestModel(t)

	// PV 120,000 + diesel 20,000; the inverter flow is distribution, not
	// generation.
	if got := m.YearlyProductionElectricity(); math.Abs(got-140000) > 1e-9 {
		t.Errorf("Expected yearly production 140000, got %f", got)
	}

	if got := m.FuelCosts(); got != 30000 {
		t.Errorf("Expected fuel costs 30000, got %f", got)
	}

	expectedLiters := 20000 / EnergyDensityDiesel
	if got := m.FuelConsumptionLiter(); math.Abs(got-expectedLiters) > 1e-9 {
		t.Errorf("Expected fuel consumption %f l, got %f", expectedLiters, got)
	}

	if got := m.TotalOpex(); got != 50000 {
		t.Errorf("Expected total opex 50000, got %f", got)
	}
}

func TestRenewableShare(t *testing.T) {
	m := newTestModel(t)

	// Inverter flow 95,000 over demand 100,000.
	share, ok := m.RenewableShare()
	if !ok {
		t.Fatal("Expected renewable share to be defined")
	}
	if math.Abs(share-95) > 1e-9 {
		t.Errorf("Expected renewable share 95%%, got %f", share)
	}
}

func TestRenewableShareUndefinedWithoutDemand(t *testing.T) {
	system := testSystem()
	system.Demand = nil
	m, err := NewModel(Config{
		Catalog:         testCatalog(),
		Params:          testParams(),
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          system,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if _, ok := m.RenewableShare(); ok {
		t.Error("Expected renewable share to be undefined with zero demand")
	}
}

func TestSystemLifetimeHasNewConsumerRows(t *testing.T) {
	m := newTestModel(t)
	table := m.SystemLifetime()

	row, ok := table.Row("mini_grid_nr_consumers_new")
	if !ok {
		t.Fatal("Expected derived new-consumer row")
	}
	// Constant consumer count: all 100 connect in year one, none after.
	if row[0] != 100 {
		t.Errorf("Expected 100 new consumers in year 1, got %f", row[0])
	}
	for i := 1; i < len(row); i++ {
		if row[i] != 0 {
			t.Errorf("Expected 0 new consumers in year %d, got %f", i+1, row[i])
		}
	}
}

// TestEndToEndFinancingStructure walks the documented reference scenario: a
// 500,000 PV system and a 200,000 diesel system with 50,000 opex and 30,000
// fuel costs, 20 years, 30% grant at the default usable fraction.
func TestEndToEndFinancingStructure(t *testing.T) {
	catalog := costs.NewCatalog([]costs.AssumptionRow{
		{Description: "Community tariff", Category: costs.CategoryRevenue, Target: "mini_grid_total_demand", USDPerUnit: 0.25},
		{Description: "O&M staff", Category: costs.CategoryOpex, GrowthRate: 0.05},
	})
	params := FinancialParams{
		Tax:                     0, // no VAT so gross CAPEX stays at the system cost
		ExchangeRate:            1,
		GrantShare:              0.3,
		DebtInterestMG:          0.1,
		DebtInterestReplacement: 0.11,
		LoanMaturity:            10,
		GracePeriod:             1,
		EquityInterestMG:        0.05,
		EquityCommunityAmount:   60000,
		FuelPriceIncrease:       0.03,
	}
	system := SystemInput{
		Costs: []AssetCost{
			{Asset: SourcePVPlant, CapexInitial: 500000},
			{Asset: SourceDieselGenerator, CapexInitial: 200000, OpexVarTotal: 50000, FuelCostsTotal: 30000},
		},
		Demand: []DemandSegment{
			{Source: SourceMiniGrid, Consumers: 100, TotalDemand: 100000},
		},
	}

	m, err := NewModel(Config{
		Catalog:         catalog,
		Params:          params,
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          system,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	if got := m.TotalCapex(CurrencyNGN); math.Abs(got-700000) > 1e-9 {
		t.Errorf("Expected gross CAPEX 700000, got %f", got)
	}

	kpis := m.FinancialKPIs()
	// 0.3 * 0.75 * 700,000 = 157,500
	if math.Abs(kpis.TotalGrant-157500) > 1e-9 {
		t.Errorf("Expected total grant 157500, got %f", kpis.TotalGrant)
	}
	// 700,000 - 157,500 - 60,000 = 482,500
	if math.Abs(kpis.InitialLoanAmount-482500) > 1e-9 {
		t.Errorf("Expected initial loan 482500, got %f", kpis.InitialLoanAmount)
	}

	// Opex grows at the catalog rate, fuel at the diesel price increase.
	om, err := m.OMCostsOverLifetime()
	if err != nil {
		t.Fatalf("OMCostsOverLifetime: %v", err)
	}
	total, _ := om.Row(RowTotalOpex)
	if math.Abs(total[0]-80000) > 1e-9 {
		t.Errorf("Expected first-year O&M 80000, got %f", total[0])
	}
	expectedY2 := 50000*1.05 + 30000*1.03
	if math.Abs(total[1]-expectedY2) > 1e-9 {
		t.Errorf("Expected second-year O&M %f, got %f", expectedY2, total[1])
	}
}

func TestWithoutGrantZeroesOnlyGrantShare(t *testing.T) {
	m := newTestModel(t)
	clone := m.WithoutGrant()

	if clone.Params().GrantShare != 0 {
		t.Errorf("Expected zero grant share on clone, got %f", clone.Params().GrantShare)
	}
	if m.Params().GrantShare != 0.3 {
		t.Errorf("Original grant share mutated: got %f", m.Params().GrantShare)
	}

	if clone.FinancialKPIs().TotalGrant != 0 {
		t.Error("Expected zero grant on no-grant variant")
	}
	if clone.FinancialKPIs().InitialLoanAmount <= m.FinancialKPIs().InitialLoanAmount {
		t.Error("Expected larger initial loan without grant")
	}
}
