package calculator

import (
	"testing"

	"ReportDog/internal/model"
)

func basePeriod() model.RawStatementPeriod {
	return model.RawStatementPeriod{
		Revenue:            800,
		OperatingIncome:    100,
		TotalAssets:        1000,
		TotalLiabilities:   400,
		CurrentAssets:      500,
		CurrentLiabilities: 200,
		RetainedEarnings:   300,
	}
}

func TestZScore_Formula(t *testing.T) {
	p := basePeriod()
	// A=0.3 B=0.3 C=0.1 D=0 E=0.8
	if z := ZScore(p); z != 1.91 {
		t.Errorf("expected 1.91, got %v", z)
	}

	p.MarketCap = 800 // D = 2
	if z := ZScore(p); z != 3.11 {
		t.Errorf("with market cap: expected 3.11, got %v", z)
	}
}

func TestZScore_EBITFallback(t *testing.T) {
	p := basePeriod()
	p.EBIT = 200
	if z := ZScore(p); z != 1.91 {
		t.Errorf("unreported EBIT must fall back to operating income: expected 1.91, got %v", z)
	}
	p.EBITReported = true
	if z := ZScore(p); z != 2.24 {
		t.Errorf("reported EBIT: expected 2.24, got %v", z)
	}
}

func TestZScore_NegativeMarketCapDropped(t *testing.T) {
	p := basePeriod()
	p.MarketCap = -50
	if z := ZScore(p); z != 1.91 {
		t.Errorf("expected market term dropped, got %v", z)
	}
}

func TestZScore_ZeroWhenAssetsOrLiabilitiesNotPositive(t *testing.T) {
	tests := []struct {
		name        string
		assets      float64
		liabilities float64
	}{
		{"zero assets", 0, 400},
		{"negative assets", -10, 400},
		{"zero liabilities", 1000, 0},
		{"negative liabilities", 1000, -1},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		p := basePeriod()
		p.TotalAssets = tt.assets
		p.TotalLiabilities = tt.liabilities
		p.MarketCap = 1000
		if z := ZScore(p); z != 0 {
			t.Errorf("%s: expected 0, got %v", tt.name, z)
		}
	}
}

func TestDeriveRatios_CarriesZScore(t *testing.T) {
	r := DeriveRatios("2330", basePeriod())
	if r.ZScore != 1.91 {
		t.Errorf("expected ratio set Z-Score 1.91, got %v", r.ZScore)
	}
}
