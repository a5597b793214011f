package finance

import (
	"fmt"

	"go.uber.org/zap"

	"minigrid_finance/pkg/core/costs"
)

// Config bundles everything a Model needs: the immutable cost catalog, the
// financing parameters, the project horizon and the solver/demand outputs.
type Config struct {
	Catalog         *costs.Catalog
	Params          FinancialParams
	ProjectStart    int // first project year, e.g. 2025
	ProjectDuration int // project lifetime in years
	System          SystemInput
	Logger          *zap.Logger
}

// Model is the financial projection engine for one project run. All derived
// tables are recomputed from the immutable inputs on demand; a Model is not
// safe for concurrent use, but separate instances may share the catalog.
type Model struct {
	catalog         *costs.Catalog
	params          FinancialParams
	projectStart    int
	projectDuration int
	systemParams    []SystemParameterRow
	systemLifetime  *LifetimeTable
	logger          *zap.Logger

	missingJoins map[string]int
}

// NewModel aggregates the system parameters and precomputes the consumer and
// demand growth over the project lifetime (including the derived
// new-consumer rows).
func NewModel(cfg Config) (*Model, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("finance: nil cost catalog")
	}
	if cfg.ProjectDuration < 1 {
		return nil, fmt.Errorf("%w: project duration %d", ErrInvalidRange, cfg.ProjectDuration)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	params := cfg.Params
	if params.UsableGrantFraction == 0 {
		params.UsableGrantFraction = DefaultUsableGrantFraction
	}

	opexGrowth, err := cfg.Catalog.OpexGrowthRate()
	if err != nil {
		return nil, err
	}
	systemParams := AggregateSystemParams(cfg.System, opexGrowth, params.FuelPriceIncrease)

	var growthRows []GrowthRow
	for _, r := range filterByCategory(systemParams, CategoryNrConsumers, CategoryTotalDemand) {
		growthRows = append(growthRows, GrowthRow{Label: r.Label(), Base: r.Value, GrowthRate: r.GrowthRate})
	}
	systemLifetime, err := ProjectGrowth(growthRows, cfg.ProjectStart, cfg.ProjectDuration)
	if err != nil {
		return nil, err
	}
	AddNewConsumerRows(systemLifetime)

	return &Model{
		catalog:         cfg.Catalog,
		params:          params,
		projectStart:    cfg.ProjectStart,
		projectDuration: cfg.ProjectDuration,
		systemParams:    systemParams,
		systemLifetime:  systemLifetime,
		logger:          logger,
		missingJoins:    make(map[string]int),
	}, nil
}

// Params returns the financing parameters in effect for this model.
func (m *Model) Params() FinancialParams { return m.params }

// ProjectStart returns the first project year.
func (m *Model) ProjectStart() int { return m.projectStart }

// ProjectDuration returns the project lifetime in years.
func (m *Model) ProjectDuration() int { return m.projectDuration }

// SystemParams returns a copy of the aggregated system parameter rows.
func (m *Model) SystemParams() []SystemParameterRow {
	out := make([]SystemParameterRow, len(m.systemParams))
	copy(out, m.systemParams)
	return out
}

// SystemLifetime returns the consumer and demand growth table.
func (m *Model) SystemLifetime() *LifetimeTable { return m.systemLifetime }

// WithoutGrant returns a copy of the model with the grant share zeroed, the
// scenario variant used to show financing without subsidy. The receiver is
// left untouched.
func (m *Model) WithoutGrant() *Model {
	clone := *m
	clone.params.GrantShare = 0
	clone.missingJoins = make(map[string]int)
	return &clone
}

// MissingJoins reports how often each catalog target failed to match a
// system parameter label since construction.
func (m *Model) MissingJoins() map[string]int {
	out := make(map[string]int, len(m.missingJoins))
	for k, v := range m.missingJoins {
		out[k] = v
	}
	return out
}

func (m *Model) countMissingJoin(target string) {
	if m.missingJoins[target] == 0 {
		m.logger.Warn("cost assumption target has no system parameter, contributes zero",
			zap.String("target", target))
	}
	m.missingJoins[target]++
}

// YearlyProductionElectricity sums the simulated flow of the generating
// sources (PV, diesel generator, grid interconnection).
func (m *Model) YearlyProductionElectricity() float64 {
	total := 0.0
	for _, r := range filterByCategory(m.systemParams, CategoryTotalFlow) {
		switch r.SupplySource {
		case SourcePVPlant, SourceDieselGenerator, SourceDSO:
			total += r.Value
		}
	}
	return total
}

// FuelCosts returns the simulated first-year diesel fuel costs.
func (m *Model) FuelCosts() float64 {
	v, _ := paramValue(m.systemParams, SourceDieselGenerator, CategoryFuelCostsTotal)
	return v
}

// FuelConsumptionLiter converts the diesel generator flow into liters of
// fuel via the energy density of diesel.
func (m *Model) FuelConsumptionLiter() float64 {
	v, _ := paramValue(m.systemParams, SourceDieselGenerator, CategoryTotalFlow)
	return v / EnergyDensityDiesel
}

// TotalOpex sums the first-year operating costs across all supply sources.
func (m *Model) TotalOpex() float64 {
	total := 0.0
	for _, r := range filterByCategory(m.systemParams, CategoryOpexTotal) {
		total += r.Value
	}
	return total
}

// RenewableShare returns the fraction of demand served through the inverter
// (the renewable path) in percent. ok is false when the project has no
// mini-grid demand: the share is undefined and must render as N/A, never as
// a division error.
func (m *Model) RenewableShare() (share float64, ok bool) {
	demand, _ := paramValue(m.systemParams, SourceMiniGrid, CategoryTotalDemand)
	if demand == 0 {
		return 0, false
	}
	inverterFlow, _ := paramValue(m.systemParams, SourceInverter, CategoryTotalFlow)
	return inverterFlow / demand * 100, true
}
