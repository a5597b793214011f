package finance

import (
	"fmt"
	"math"
	"strings"
)

// LifetimeTable is a labeled 2D table over contiguous project years. Row
// order is preserved so downstream renderers emit rows the way they were
// built.
type LifetimeTable struct {
	StartYear int

	labels []string
	rows   map[string][]float64
	nYears int
}

// NewLifetimeTable creates an empty table spanning nYears starting at
// startYear.
func NewLifetimeTable(startYear, nYears int) (*LifetimeTable, error) {
	if nYears < 1 {
		return nil, fmt.Errorf("%w: nYears=%d", ErrInvalidRange, nYears)
	}
	return &LifetimeTable{
		StartYear: startYear,
		rows:      make(map[string][]float64),
		nYears:    nYears,
	}, nil
}

// NYears returns the table's horizon length.
func (t *LifetimeTable) NYears() int { return t.nYears }

// Years returns the contiguous year labels of the table's columns.
func (t *LifetimeTable) Years() []int {
	years := make([]int, t.nYears)
	for i := range years {
		years[i] = t.StartYear + i
	}
	return years
}

// Labels returns the row labels in insertion order.
func (t *LifetimeTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// SetRow inserts or replaces a row. The values slice is copied and padded or
// truncated to the table horizon.
func (t *LifetimeTable) SetRow(label string, values []float64) {
	row := make([]float64, t.nYears)
	copy(row, values)
	if _, exists := t.rows[label]; !exists {
		t.labels = append(t.labels, label)
	}
	t.rows[label] = row
}

// Row returns a copy of the named row.
func (t *LifetimeTable) Row(label string) ([]float64, bool) {
	row, ok := t.rows[label]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(row))
	copy(out, row)
	return out, true
}

// ValueAt returns the value of a row at a calendar year, zero if the row or
// year is absent.
func (t *LifetimeTable) ValueAt(label string, year int) float64 {
	row, ok := t.rows[label]
	if !ok {
		return 0
	}
	i := year - t.StartYear
	if i < 0 || i >= len(row) {
		return 0
	}
	return row[i]
}

// AppendTotal appends a row summing all current rows per year.
func (t *LifetimeTable) AppendTotal(label string) {
	total := make([]float64, t.nYears)
	for _, l := range t.labels {
		row := t.rows[l]
		for i, v := range row {
			total[i] += v
		}
	}
	t.SetRow(label, total)
}

// GrowthRow is one input row of the growth projection: a base value and its
// per-year compound growth rate.
type GrowthRow struct {
	Label      string
	Base       float64
	GrowthRate float64
}

// YearlyIncrease compounds a base amount over a number of years:
// base * (1+rate)^year. A zero rate yields the base unchanged; negative
// rates decay.
func YearlyIncrease(base, growthRate float64, year int) float64 {
	return base * math.Pow(1+growthRate, float64(year))
}

// ProjectGrowth builds a lifetime table from base values and growth rates:
// value[row, startYear+t] = base * (1+rate)^t for t in [0, nYears).
func ProjectGrowth(rows []GrowthRow, startYear, nYears int) (*LifetimeTable, error) {
	table, err := NewLifetimeTable(startYear, nYears)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		values := make([]float64, nYears)
		for t := 0; t < nYears; t++ {
			values[t] = YearlyIncrease(r.Base, r.GrowthRate, t)
		}
		table.SetRow(r.Label, values)
	}
	return table, nil
}

// AddNewConsumerRows appends, for every consumer-count row, a derived
// "<label>_new" row holding the year-over-year first difference. The first
// year equals the row's own first value: every consumer connected in year
// one is a new connection. Used to bill connection fees per project year.
func AddNewConsumerRows(t *LifetimeTable) {
	for _, label := range t.Labels() {
		if !strings.Contains(label, string(CategoryNrConsumers)) {
			continue
		}
		row, _ := t.Row(label)
		diff := make([]float64, len(row))
		diff[0] = row[0]
		for i := 1; i < len(row); i++ {
			diff[i] = row[i] - row[i-1]
		}
		t.SetRow(label+"_new", diff)
	}
}
