// Package scenario loads a project scenario file: the horizon, the financing
// parameters, the solver outputs and the community demand, everything the
// engine needs besides the cost catalog. Files may be YAML or HJSON.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"minigrid_finance/pkg/core/demand"
	"minigrid_finance/pkg/core/finance"
)

// FinancialParams mirrors finance.FinancialParams with file tags.
type FinancialParams struct {
	Discount                float64 `yaml:"discount" json:"discount"`
	Tax                     float64 `yaml:"tax" json:"tax"`
	ExchangeRate            float64 `yaml:"exchange_rate" json:"exchange_rate"`
	CapexFix                float64 `yaml:"capex_fix" json:"capex_fix"`
	GrantShare              float64 `yaml:"grant_share" json:"grant_share"`
	UsableGrantFraction     float64 `yaml:"usable_grant_fraction" json:"usable_grant_fraction"`
	DebtInterestMG          float64 `yaml:"debt_interest_mg" json:"debt_interest_mg"`
	DebtInterestReplacement float64 `yaml:"debt_interest_replacement" json:"debt_interest_replacement"`
	LoanMaturity            int     `yaml:"loan_maturity" json:"loan_maturity"`
	GracePeriod             int     `yaml:"grace_period" json:"grace_period"`
	EquityInterestMG        float64 `yaml:"equity_interest_mg" json:"equity_interest_mg"`
	EquityCommunityAmount   float64 `yaml:"equity_community_amount" json:"equity_community_amount"`
	EquityDeveloperAmount   float64 `yaml:"equity_developer_amount" json:"equity_developer_amount"`
	FuelPriceIncrease       float64 `yaml:"fuel_price_increase" json:"fuel_price_increase"`
}

// Asset is one optimized asset result from the energy-system solver.
type Asset struct {
	Asset             string  `yaml:"asset" json:"asset"`
	OptimizedCapacity float64 `yaml:"optimized_capacity" json:"optimized_capacity"`
	TotalFlow         float64 `yaml:"total_flow" json:"total_flow"`
}

// Installed is a pre-existing asset capacity.
type Installed struct {
	AssetType         string  `yaml:"asset_type" json:"asset_type"`
	InstalledCapacity float64 `yaml:"installed_capacity" json:"installed_capacity"`
}

// AssetCost holds the simulated cost totals of one supply source.
type AssetCost struct {
	Asset            string  `yaml:"asset" json:"asset"`
	CapexInitial     float64 `yaml:"capex_initial" json:"capex_initial"`
	CapexReplacement float64 `yaml:"capex_replacement" json:"capex_replacement"`
	OpexVarTotal     float64 `yaml:"opex_var_total" json:"opex_var_total"`
	OpexFixTotal     float64 `yaml:"opex_fix_total" json:"opex_fix_total"`
	FuelCostsTotal   float64 `yaml:"fuel_costs_total" json:"fuel_costs_total"`
}

// DemandSegment is a pre-aggregated demand input, used when the scenario
// carries no consumer groups.
type DemandSegment struct {
	Source      string  `yaml:"source" json:"source"`
	Consumers   float64 `yaml:"consumers" json:"consumers"`
	TotalDemand float64 `yaml:"total_demand" json:"total_demand"`
}

// ConsumerGroup is a number of consumers sharing one hourly demand profile.
type ConsumerGroup struct {
	Type      string    `yaml:"type" json:"type"`
	Name      string    `yaml:"name" json:"name"`
	Tier      string    `yaml:"tier" json:"tier"`
	Unit      string    `yaml:"unit" json:"unit"`
	Consumers float64   `yaml:"consumers" json:"consumers"`
	Values    []float64 `yaml:"values" json:"values"`
}

// Scenario is the full project input record.
type Scenario struct {
	ProjectStart    int             `yaml:"project_start" json:"project_start"`
	ProjectDuration int             `yaml:"project_duration" json:"project_duration"`
	FinancialParams FinancialParams `yaml:"financial_params" json:"financial_params"`

	Assets    []Asset     `yaml:"assets" json:"assets"`
	Installed []Installed `yaml:"installed" json:"installed"`
	Costs     []AssetCost `yaml:"costs" json:"costs"`

	SHSThreshold   string          `yaml:"shs_threshold" json:"shs_threshold"`
	ConsumerGroups []ConsumerGroup `yaml:"consumer_groups" json:"consumer_groups"`
	DemandSegments []DemandSegment `yaml:"demand_segments" json:"demand_segments"`
}

// Load reads a scenario file, dispatching on the extension: .yaml/.yml via
// YAML, .hjson/.json via HJSON (a strict-JSON file is valid HJSON).
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", path, err)
		}
	case ".hjson", ".json":
		// HJSON decodes into a generic tree; round-trip through JSON to land
		// on the typed record.
		var tree interface{}
		if err := hjson.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", path, err)
		}
		raw, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", filepath.Ext(path))
	}

	return &s, nil
}

// Params converts the file record into engine financing parameters.
func (s *Scenario) Params() finance.FinancialParams {
	p := s.FinancialParams
	return finance.FinancialParams{
		Discount:                p.Discount,
		Tax:                     p.Tax,
		ExchangeRate:            p.ExchangeRate,
		CapexFix:                p.CapexFix,
		GrantShare:              p.GrantShare,
		UsableGrantFraction:     p.UsableGrantFraction,
		DebtInterestMG:          p.DebtInterestMG,
		DebtInterestReplacement: p.DebtInterestReplacement,
		LoanMaturity:            p.LoanMaturity,
		GracePeriod:             p.GracePeriod,
		EquityInterestMG:        p.EquityInterestMG,
		EquityCommunityAmount:   p.EquityCommunityAmount,
		EquityDeveloperAmount:   p.EquityDeveloperAmount,
		FuelPriceIncrease:       p.FuelPriceIncrease,
	}
}

// Groups converts the consumer-group records into demand inputs.
func (s *Scenario) Groups() []demand.ConsumerGroup {
	groups := make([]demand.ConsumerGroup, 0, len(s.ConsumerGroups))
	for _, g := range s.ConsumerGroups {
		groups = append(groups, demand.ConsumerGroup{
			Type: demand.ConsumerType(g.Type),
			Series: demand.Timeseries{
				Name:   g.Name,
				Tier:   demand.Tier(g.Tier),
				Unit:   g.Unit,
				Values: g.Values,
			},
			Consumers: g.Consumers,
		})
	}
	return groups
}

// SystemInput assembles the engine's system input. When consumer groups are
// present they are aggregated (honoring the SHS threshold); otherwise the
// pre-aggregated demand segments are used as-is.
func (s *Scenario) SystemInput() (finance.SystemInput, demand.Indicators, error) {
	in := finance.SystemInput{}

	for _, a := range s.Assets {
		in.Assets = append(in.Assets, finance.AssetResult{
			Asset:             finance.SupplySource(a.Asset),
			OptimizedCapacity: a.OptimizedCapacity,
			TotalFlow:         a.TotalFlow,
		})
	}
	for _, a := range s.Installed {
		in.Installed = append(in.Installed, finance.InstalledAsset{
			AssetType:         a.AssetType,
			InstalledCapacity: a.InstalledCapacity,
		})
	}
	for _, c := range s.Costs {
		in.Costs = append(in.Costs, finance.AssetCost{
			Asset:            finance.SupplySource(c.Asset),
			CapexInitial:     c.CapexInitial,
			CapexReplacement: c.CapexReplacement,
			OpexVarTotal:     c.OpexVarTotal,
			OpexFixTotal:     c.OpexFixTotal,
			FuelCostsTotal:   c.FuelCostsTotal,
		})
	}

	var indicators demand.Indicators
	if len(s.ConsumerGroups) > 0 {
		agg, err := demand.Aggregate(s.Groups(), demand.Tier(s.SHSThreshold))
		if err != nil {
			return finance.SystemInput{}, demand.Indicators{}, err
		}
		in.Demand = agg.SupplySegments()

		series, err := demand.HourlySeries(s.Groups(), demand.Tier(s.SHSThreshold))
		if err != nil {
			return finance.SystemInput{}, demand.Indicators{}, err
		}
		indicators = demand.ComputeIndicators(series)
	} else {
		for _, d := range s.DemandSegments {
			in.Demand = append(in.Demand, finance.DemandSegment{
				Source:      finance.SupplySource(d.Source),
				Consumers:   d.Consumers,
				TotalDemand: d.TotalDemand,
			})
			if d.Source == string(finance.SourceMiniGrid) {
				indicators.Total += d.TotalDemand
			}
		}
		indicators.DailyAverage = indicators.Total / 365
	}

	return in, indicators, nil
}
