package finance

import (
	"math"
	"testing"

	"minigrid_finance/pkg/core/costs"
)

func TestCapexAdditivity(t *testing.T) {
	m := newTestModel(t)
	items := m.Capex()

	// Line items:
	//   Distribution grid  100 USD * 100 consumers = 10,000
	//   Customer meters     20 USD * 100 consumers =  2,000
	//   VAT                 12,000 * 0.075         =    900
	//   Planning and development costs (NGN)       = 10,000
	//   Power supply system 500k+300k+100k+200k    = 1,100,000
	// Exchange rate 1, so gross NGN = 1,122,900.
	sum := 0.0
	for _, it := range items {
		sum += it.TotalNGN
	}
	if math.Abs(sum-1122900) > 1e-9 {
		t.Errorf("Expected line items to sum to 1122900, got %f", sum)
	}
	if total := m.TotalCapex(CurrencyNGN); math.Abs(total-sum) > 1e-9 {
		t.Errorf("TotalCapex %f != line item sum %f", total, sum)
	}
}

func TestCapexVATBase(t *testing.T) {
	m := newTestModel(t)

	var vat CapexLineItem
	found := false
	for _, it := range m.Capex() {
		if it.Description == "VAT" {
			vat = it
			found = true
			break
		}
	}
	if !found {
		t.Fatal("Missing VAT line")
	}
	// VAT covers logistics and labour only, never the power supply system.
	if math.Abs(vat.TotalUSD-900) > 1e-9 {
		t.Errorf("Expected VAT 900, got %f", vat.TotalUSD)
	}
}

func TestCapexGrossUnaffectedByGrant(t *testing.T) {
	m := newTestModel(t)
	gross := m.TotalCapex(CurrencyNGN)

	clone := m.WithoutGrant()
	if got := clone.TotalCapex(CurrencyNGN); got != gross {
		t.Errorf("Removing the grant changed gross CAPEX: %f != %f", got, gross)
	}
}

func TestCapexExchangeRate(t *testing.T) {
	params := testParams()
	params.ExchangeRate = 800
	m, err := NewModel(Config{
		Catalog:         testCatalog(),
		Params:          params,
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          testSystem(),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	for _, it := range m.Capex() {
		switch it.Category {
		case costs.CategoryFixProject, costs.CategoryPowerSystem:
			// Supplied in NGN directly, no conversion.
			if it.TotalUSD != 0 {
				t.Errorf("%s: expected no USD total, got %f", it.Description, it.TotalUSD)
			}
		default:
			if math.Abs(it.TotalNGN-it.TotalUSD*800) > 1e-6 {
				t.Errorf("%s: NGN %f != USD %f * 800", it.Description, it.TotalNGN, it.TotalUSD)
			}
		}
	}
}

func TestCapexMissingJoinCounted(t *testing.T) {
	catalog := costs.NewCatalog(append(testCatalog().Rows(), costs.AssumptionRow{
		Description: "Street lighting",
		Category:    costs.CategoryLogistics,
		Target:      "street_lights_nr",
		USDPerUnit:  40,
	}))
	m, err := NewModel(Config{
		Catalog:         catalog,
		Params:          testParams(),
		ProjectStart:    2025,
		ProjectDuration: 20,
		System:          testSystem(),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	items := m.Capex()
	for _, it := range items {
		if it.Description == "Street lighting" && it.TotalNGN != 0 {
			t.Errorf("Expected zero contribution for unmatched target, got %f", it.TotalNGN)
		}
	}

	if n := m.MissingJoins()["street_lights_nr"]; n != 1 {
		t.Errorf("Expected 1 recorded miss, got %d", n)
	}
	m.Capex()
	if n := m.MissingJoins()["street_lights_nr"]; n != 2 {
		t.Errorf("Expected 2 recorded misses, got %d", n)
	}
}

func TestReplacementCapex(t *testing.T) {
	m := newTestModel(t)

	// Battery, inverter and diesel generator are replaced; PV is not.
	if got := ReplacementCapex(m.Capex()); math.Abs(got-600000) > 1e-9 {
		t.Errorf("Expected replacement CAPEX 600000, got %f", got)
	}
}
