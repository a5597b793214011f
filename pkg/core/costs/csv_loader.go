package costs

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// expectedHeader of the semicolon-separated assumption table.
var expectedHeader = []string{"Description", "Category", "Target", "USD/Unit", "Growth rate", "Qty"}

// LoadCatalogCSV reads a cost-assumption table from a semicolon-separated
// CSV file. Money and rate columns are parsed as decimals to avoid silently
// absorbing malformed input, then carried as float64 internally.
func LoadCatalogCSV(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cost assumptions %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read cost assumptions CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("cost assumptions CSV must have header and at least one data row")
	}

	header := records[0]
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("cost assumptions CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}
	for i, col := range expectedHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("cost assumptions CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
		}
	}

	rows := make([]AssumptionRow, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseAssumptionRow(record)
		if err != nil {
			return nil, fmt.Errorf("cost assumptions CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return NewCatalog(rows), nil
}

func parseAssumptionRow(record []string) (AssumptionRow, error) {
	if len(record) != len(expectedHeader) {
		return AssumptionRow{}, fmt.Errorf("expected %d columns, got %d", len(expectedHeader), len(record))
	}

	unitPrice, err := parseMoney(record[3])
	if err != nil {
		return AssumptionRow{}, fmt.Errorf("USD/Unit: %w", err)
	}
	growth, err := parseMoney(record[4])
	if err != nil {
		return AssumptionRow{}, fmt.Errorf("Growth rate: %w", err)
	}
	qty, err := parseMoney(record[5])
	if err != nil {
		return AssumptionRow{}, fmt.Errorf("Qty: %w", err)
	}

	return AssumptionRow{
		Description: strings.TrimSpace(record[0]),
		Category:    strings.TrimSpace(record[1]),
		Target:      strings.TrimSpace(record[2]),
		USDPerUnit:  unitPrice,
		GrowthRate:  growth,
		Qty:         qty,
	}, nil
}

// parseMoney parses a numeric cell. Empty cells are zero; thousands
// separators are tolerated.
func parseMoney(cell string) (float64, error) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if cell == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", cell, err)
	}
	return d.InexactFloat64(), nil
}
