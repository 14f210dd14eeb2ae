package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"ReportDog/internal/model"
)

func sampleDossier() *model.Dossier {
	day := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	return &model.Dossier{
		Code:         "2330",
		Profile:      &model.CompanyProfile{Code: "2330", Name: "台積電", Chairman: "魏哲家", Summary: "全球最大晶圓代工廠"},
		Prices:       []model.PriceBar{{Date: day, Open: 900, High: 910, Low: 890, Close: 905, Volume: 1000}},
		PriceSummary: &model.PriceSummary{MA5: []float64{0}, MA20: []float64{0}},
		Flows:        []model.InstitutionalFlow{{Date: day, Foreign: 100, InvestmentTrust: -20, Dealer: 5, Total: 85}},
		Report: &model.Report{
			Code:   "2330",
			Ratios: []model.RatioSet{{Period: "2024", GrossMargin: 56.1}},
			Credit: model.CreditReport{
				TotalScore: 95,
				Grade:      model.Grade{Letter: "AAA", Label: "極優"},
				Details:    []model.ScoreDetail{{Name: "毛利率", Value: 56.1, Comment: "優良", Points: 20}},
			},
		},
	}
}

func openWorkbook(t *testing.T, d *model.Dossier) *excelize.File {
	t.Helper()
	data, err := Workbook(d)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbook_Sheets(t *testing.T) {
	f := openWorkbook(t, sampleDossier())
	want := []string{SheetProfile, SheetPrices, SheetRatios, SheetFlows, SheetCredit}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestWorkbook_Cells(t *testing.T) {
	f := openWorkbook(t, sampleDossier())
	tests := []struct {
		sheet, cell, want string
	}{
		{SheetProfile, "B3", "台積電"},
		{SheetProfile, "B5", "魏哲家"},
		{SheetProfile, "A20", "公司簡介"},
		{SheetProfile, "B20", "全球最大晶圓代工廠"},
		{SheetPrices, "A2", "2025-05-07"},
		{SheetRatios, "A2", "2024"},
		{SheetFlows, "E2", "85"},
		{SheetCredit, "C2", "優良"},
		{SheetCredit, "B5", "AAA (極優)"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%s!%s: expected %q, got %q", tt.sheet, tt.cell, tt.want, got)
		}
	}
}

func TestWorkbook_NoReport(t *testing.T) {
	d := &model.Dossier{Code: "9999"}
	f := openWorkbook(t, d)
	for _, sheet := range []string{SheetRatios, SheetCredit} {
		if v, _ := f.GetCellValue(sheet, "A2"); v != "資料不足" {
			t.Errorf("%s: expected placeholder, got %q", sheet, v)
		}
	}
	if v, _ := f.GetCellValue(SheetProfile, "B4"); v != "查無基本資料" {
		t.Errorf("expected missing profile note, got %q", v)
	}
	if name := Filename(d); name != "9999_9999_徵信報告.xlsx" {
		t.Errorf("unexpected filename %s", name)
	}
}

func TestWorkbook_ProfileWithoutSummary(t *testing.T) {
	d := sampleDossier()
	d.Profile.Summary = ""
	f := openWorkbook(t, d)
	if v, _ := f.GetCellValue(SheetProfile, "B20"); v != "無簡介" {
		t.Errorf("expected summary placeholder, got %q", v)
	}
}
