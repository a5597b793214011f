// Package costs holds the static cost-assumption catalog: unit costs,
// growth rates and join targets for every CAPEX, OPEX and revenue line item.
// The catalog is loaded once, never mutated, and may be shared across
// concurrent engine instances.
package costs

import "fmt"

// Catalog category names as they appear in the assumption table.
const (
	CategoryRevenue    = "Revenue"
	CategorySHS        = "Solar home systems"
	CategoryLogistics  = "Logistics"
	CategoryLabour     = "Labour and soft costs"
	CategoryOpex       = "Opex"
	CategoryTaxes      = "Taxes"
	CategoryFixProject = "Fix project costs"
	// CategoryPowerSystem tags the solver-derived system CAPEX lines that
	// bypass the static unit-cost table.
	CategoryPowerSystem = "Power supply system"
)

// DescriptionCommunityTariff names the revenue row whose unit price is the
// community tariff; the tariff goal-seek overrides exactly this row.
const DescriptionCommunityTariff = "Community tariff"

// AssumptionRow is one static cost assumption. Target names the system
// parameter label the unit cost is multiplied with; rows with no matching
// label contribute zero.
type AssumptionRow struct {
	Description string
	Category    string
	Target      string
	USDPerUnit  float64
	GrowthRate  float64
	Qty         float64
}

// Catalog is an immutable collection of cost assumptions.
type Catalog struct {
	rows []AssumptionRow
}

// NewCatalog copies the given rows into an immutable catalog.
func NewCatalog(rows []AssumptionRow) *Catalog {
	copied := make([]AssumptionRow, len(rows))
	copy(copied, rows)
	return &Catalog{rows: copied}
}

// Len returns the number of assumption rows.
func (c *Catalog) Len() int { return len(c.rows) }

// Rows returns a copy of all assumption rows.
func (c *Catalog) Rows() []AssumptionRow {
	out := make([]AssumptionRow, len(c.rows))
	copy(out, c.rows)
	return out
}

// RowsInCategory returns the rows of one category.
func (c *Catalog) RowsInCategory(category string) []AssumptionRow {
	var out []AssumptionRow
	for _, r := range c.rows {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// RowsExcludingCategories returns all rows whose category is not listed.
func (c *Catalog) RowsExcludingCategories(categories ...string) []AssumptionRow {
	var out []AssumptionRow
	for _, r := range c.rows {
		excluded := false
		for _, cat := range categories {
			if r.Category == cat {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, r)
		}
	}
	return out
}

// OpexGrowthRate returns the annual operating-cost increase assumption,
// read from the first row of the Opex category.
func (c *Catalog) OpexGrowthRate() (float64, error) {
	for _, r := range c.rows {
		if r.Category == CategoryOpex {
			return r.GrowthRate, nil
		}
	}
	return 0, fmt.Errorf("catalog has no %q row", CategoryOpex)
}

// UnitPrice returns the USD unit price of the named assumption.
func (c *Catalog) UnitPrice(description string) (float64, bool) {
	for _, r := range c.rows {
		if r.Description == description {
			return r.USDPerUnit, true
		}
	}
	return 0, false
}
