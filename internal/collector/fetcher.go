package collector

import (
	"context"

	"ReportDog/internal/model"
)

// StatementFetcher supplies annual statement periods, newest first.
type StatementFetcher interface {
	FetchStatements(ctx context.Context, code string) ([]model.RawStatementPeriod, error)
	Name() string
}

// MarketFetcher supplies exchange data: prices, institutional flows, company
// profiles and valuation ratios.
type MarketFetcher interface {
	FetchPriceHistory(ctx context.Context, code string, months int) ([]model.PriceBar, error)
	FetchInstitutionalFlows(ctx context.Context, code string, days int) ([]model.InstitutionalFlow, error)
	FetchCompanyProfiles(ctx context.Context) (map[string]model.CompanyProfile, error)
	FetchValuations(ctx context.Context) ([]ValuationStat, error)
}

// ProfileFetcher supplies a single company's profile from a secondary source.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, code string) (model.CompanyProfile, error)
}

// NewsFetcher searches headlines about a company.
type NewsFetcher interface {
	FetchNews(ctx context.Context, name string, tone model.NewsTone) ([]model.NewsItem, error)
}

// Analyst turns a code into a financial report. A nil report with a nil error
// never happens; insufficient data is reported as an error.
type Analyst interface {
	Analyze(ctx context.Context, code string) (*model.Report, error)
}
