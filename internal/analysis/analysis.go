package analysis

import (
	"context"
	"errors"
	"log"
	"time"

	"ReportDog/internal/calculator"
	"ReportDog/internal/collector"
	"ReportDog/internal/credit"
	"ReportDog/internal/insight"
	"ReportDog/internal/model"
)

// MaxPeriods is the number of newest periods analysed.
const MaxPeriods = 3

// ErrInsufficientData is returned when the fetched periods carry no income-statement
// figures or no balance-sheet figures at all.
var ErrInsufficientData = errors.New("insufficient data")

// Evaluate derives ratios, insights, the credit report and the DuPont breakdown
// from periods ordered newest first. Both statements must appear somewhere in
// periods, otherwise ErrInsufficientData is returned. Periods without any
// income-statement or balance-sheet figures are dropped before the cap is applied.
// GeneratedAt is left zero; Evaluate is deterministic for identical input.
func Evaluate(code string, periods []model.RawStatementPeriod, table *credit.BenchmarkTable) (*model.Report, error) {
	if !hasStatements(periods) {
		return nil, ErrInsufficientData
	}

	usable := make([]model.RawStatementPeriod, 0, MaxPeriods)
	for _, p := range periods {
		if !p.HasIncomeStatement() && !p.HasBalanceSheet() {
			continue
		}
		usable = append(usable, p)
		if len(usable) == MaxPeriods {
			break
		}
	}
	if len(usable) == 0 {
		return nil, ErrInsufficientData
	}

	ratios := make([]model.RatioSet, len(usable))
	for i, p := range usable {
		ratios[i] = calculator.DeriveRatios(code, p)
	}

	return &model.Report{
		Code:     code,
		Ratios:   ratios,
		Insights: insight.Generate(ratios, table),
		Credit:   credit.Score(ratios[0], table),
		DuPont:   BuildDuPont(ratios[0]),
	}, nil
}

// hasStatements reports whether both the income statement and the balance sheet
// are present in at least one period each.
func hasStatements(periods []model.RawStatementPeriod) bool {
	income, balance := false, false
	for _, p := range periods {
		income = income || p.HasIncomeStatement()
		balance = balance || p.HasBalanceSheet()
	}
	return income && balance
}

// Analyzer fetches statements and evaluates them.
type Analyzer struct {
	Fetcher collector.StatementFetcher
	Table   *credit.BenchmarkTable
	Now     func() time.Time
}

// NewAnalyzer creates an Analyzer using the wall clock.
func NewAnalyzer(fetcher collector.StatementFetcher, table *credit.BenchmarkTable) *Analyzer {
	return &Analyzer{Fetcher: fetcher, Table: table, Now: time.Now}
}

// Analyze fetches the statements for code and evaluates them. Any fetch failure
// is logged and reported as ErrInsufficientData.
func (a *Analyzer) Analyze(ctx context.Context, code string) (*model.Report, error) {
	periods, err := a.Fetcher.FetchStatements(ctx, code)
	if err != nil {
		log.Printf("[WARN] %s statements for %s: %v", a.Fetcher.Name(), code, err)
		return nil, ErrInsufficientData
	}
	report, err := Evaluate(code, periods, a.Table)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	report.GeneratedAt = now()
	return report, nil
}
