package collector

import (
	"context"
	"fmt"
	"time"

	"ReportDog/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Zero-valued fields fall back to generated data.
type MockFetcher struct {
	Statements []model.RawStatementPeriod
	Prices     []model.PriceBar
	Flows      []model.InstitutionalFlow
	Profiles   map[string]model.CompanyProfile
	Described  map[string]model.CompanyProfile
	Valuations []ValuationStat
	News       map[model.NewsTone][]model.NewsItem
	Err        error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchStatements(_ context.Context, code string) ([]model.RawStatementPeriod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Statements != nil {
		return m.Statements, nil
	}
	return generateMockStatements(), nil
}

func (m *MockFetcher) FetchPriceHistory(_ context.Context, _ string, months int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Prices != nil {
		return m.Prices, nil
	}
	return generateMockBars(100, months*21), nil
}

func (m *MockFetcher) FetchInstitutionalFlows(_ context.Context, _ string, days int) ([]model.InstitutionalFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Flows != nil {
		return m.Flows, nil
	}
	flows := make([]model.InstitutionalFlow, days)
	for i := range flows {
		f := int64((i%3 - 1) * 1000)
		flows[i] = model.InstitutionalFlow{
			Date:            time.Now().AddDate(0, 0, -(days - i)).Truncate(24 * time.Hour),
			Foreign:         f,
			InvestmentTrust: f / 2,
			Dealer:          -f / 4,
			Total:           f + f/2 - f/4,
		}
	}
	return flows, nil
}

func (m *MockFetcher) FetchCompanyProfiles(_ context.Context) (map[string]model.CompanyProfile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Profiles != nil {
		return m.Profiles, nil
	}
	return map[string]model.CompanyProfile{
		"2330": {Code: "2330", Name: "台灣積體電路製造股份有限公司", Industry: "24"},
	}, nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, code string) (model.CompanyProfile, error) {
	if m.Err != nil {
		return model.CompanyProfile{}, m.Err
	}
	if p, ok := m.Described[code]; ok {
		return p, nil
	}
	return model.CompanyProfile{Code: code, Summary: "Mock company profile for " + code + "."}, nil
}

func (m *MockFetcher) FetchValuations(_ context.Context) ([]ValuationStat, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Valuations != nil {
		return m.Valuations, nil
	}
	return []ValuationStat{{Code: "2330", Name: "台積電", PE: 20, DividendYield: 1.5, PB: 5}}, nil
}

func (m *MockFetcher) FetchNews(_ context.Context, _ string, tone model.NewsTone) ([]model.NewsItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.News[tone], nil
}

func generateMockStatements() []model.RawStatementPeriod {
	year := time.Now().Year() - 1
	periods := make([]model.RawStatementPeriod, 3)
	for i := range periods {
		scale := 1 - float64(i)*0.1
		periods[i] = model.RawStatementPeriod{
			Period:             fmt.Sprintf("%d", year-i),
			EndDate:            time.Date(year-i, 12, 31, 0, 0, 0, 0, time.UTC),
			Revenue:            1000 * scale,
			CostOfRevenue:      550 * scale,
			OperatingIncome:    120 * scale,
			NetIncome:          90 * scale,
			TotalAssets:        2000 * scale,
			TotalLiabilities:   800 * scale,
			CurrentAssets:      700 * scale,
			CurrentLiabilities: 400 * scale,
			StockholdersEquity: 1200 * scale,
			RetainedEarnings:   600 * scale,
			OperatingCashFlow:  150 * scale,
			CapitalExpenditure: -60 * scale,
		}
	}
	return periods
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	start := time.Now().AddDate(0, 0, -count).Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
