package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"ReportDog/internal/collector"
	"ReportDog/internal/credit"
	"ReportDog/internal/model"
)

func period(label string, grossProfit float64) model.RawStatementPeriod {
	return model.RawStatementPeriod{
		Period:             label,
		Revenue:            1000,
		CostOfRevenue:      1000 - grossProfit,
		OperatingIncome:    100,
		NetIncome:          70,
		TotalAssets:        2000,
		TotalLiabilities:   900,
		CurrentAssets:      800,
		CurrentLiabilities: 500,
		StockholdersEquity: 1100,
		RetainedEarnings:   400,
		OperatingCashFlow:  120,
		CapitalExpenditure: -40,
	}
}

func TestEvaluate_NoPeriods(t *testing.T) {
	report, err := Evaluate("2330", nil, credit.MustDefaultTable())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
}

func TestEvaluate_OnlyEmptyPeriods(t *testing.T) {
	periods := []model.RawStatementPeriod{{Period: "2024"}, {Period: "2023", OperatingCashFlow: 10}}
	if _, err := Evaluate("2330", periods, credit.MustDefaultTable()); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEvaluate_MissingStatement(t *testing.T) {
	balanceOnly := model.RawStatementPeriod{Period: "2024", TotalAssets: 2000, TotalLiabilities: 900, StockholdersEquity: 1100}
	incomeOnly := model.RawStatementPeriod{Period: "2024", Revenue: 1000, CostOfRevenue: 600, NetIncome: 70}
	tests := []struct {
		name    string
		periods []model.RawStatementPeriod
		wantErr bool
	}{
		{"balance sheet only", []model.RawStatementPeriod{balanceOnly}, true},
		{"income statement only", []model.RawStatementPeriod{incomeOnly, incomeOnly}, true},
		{"statements split across periods", []model.RawStatementPeriod{incomeOnly, balanceOnly}, false},
	}
	for _, tt := range tests {
		report, err := Evaluate("2330", tt.periods, credit.MustDefaultTable())
		if tt.wantErr {
			if !errors.Is(err, ErrInsufficientData) || report != nil {
				t.Errorf("%s: expected nil, ErrInsufficientData; got %v, %v", tt.name, report, err)
			}
			continue
		}
		if err != nil || report == nil {
			t.Errorf("%s: expected a report, got %v", tt.name, err)
		}
	}
}

func TestEvaluate_SinglePeriod(t *testing.T) {
	report, err := Evaluate("2330", []model.RawStatementPeriod{period("2024", 450)}, credit.MustDefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Ratios) != 1 {
		t.Fatalf("expected 1 ratio set, got %d", len(report.Ratios))
	}
	if len(report.Insights) != 5 {
		t.Errorf("expected 5 insights, got %d", len(report.Insights))
	}
	if len(report.Credit.Details) != 5 {
		t.Errorf("expected 5 score details, got %d", len(report.Credit.Details))
	}
	if report.Code != "2330" {
		t.Errorf("expected code 2330, got %s", report.Code)
	}
}

func TestEvaluate_CapsAndSkipsEmpty(t *testing.T) {
	periods := []model.RawStatementPeriod{
		period("2024", 450),
		{Period: "2023"},
		period("2022", 430),
		period("2021", 420),
		period("2020", 410),
	}
	report, err := Evaluate("2330", periods, credit.MustDefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(report.Ratios))
	for i, r := range report.Ratios {
		got[i] = r.Period
	}
	if want := []string{"2024", "2022", "2021"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected periods %v, got %v", want, got)
	}
	// 45 - 43 = +2
	if !strings.HasPrefix(report.Insights[0], "📈") {
		t.Errorf("expected improving trend first, got %q", report.Insights[0])
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	periods := []model.RawStatementPeriod{period("2024", 450), period("2023", 400)}
	table := credit.MustDefaultTable()
	a, err := Evaluate("2330", periods, table)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Evaluate("2330", periods, table)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical reports for identical input")
	}
}

func TestBuildDuPont(t *testing.T) {
	d := BuildDuPont(model.RatioSet{Period: "2024", NetMargin: 7, AssetTurnover: 0.5, EquityMultiplier: 1.82, ROE: 6.36})
	if d.ImpliedROE != 6.37 {
		t.Errorf("expected implied ROE 6.37, got %v", d.ImpliedROE)
	}
	if !strings.Contains(d.Commentary, "**6.36%**") || !strings.Contains(d.Commentary, "**1.82** 倍") {
		t.Errorf("unexpected commentary %q", d.Commentary)
	}
}

func TestAnalyzer_FetchErrorIsInsufficientData(t *testing.T) {
	a := NewAnalyzer(&collector.MockFetcher{Err: errors.New("boom")}, credit.MustDefaultTable())
	report, err := a.Analyze(context.Background(), "2330")
	if !errors.Is(err, ErrInsufficientData) || report != nil {
		t.Fatalf("expected nil, ErrInsufficientData; got %v, %v", report, err)
	}
}

func TestAnalyzer_StampsTime(t *testing.T) {
	at := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	a := NewAnalyzer(&collector.MockFetcher{}, credit.MustDefaultTable())
	a.Now = func() time.Time { return at }
	report, err := a.Analyze(context.Background(), "2330")
	if err != nil {
		t.Fatal(err)
	}
	if !report.GeneratedAt.Equal(at) {
		t.Errorf("expected %v, got %v", at, report.GeneratedAt)
	}
	if len(report.Ratios) != 3 {
		t.Errorf("expected 3 ratio sets from mock data, got %d", len(report.Ratios))
	}
}
