package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"ReportDog/internal/model"
)

type countingStatements struct {
	calls int
	err   error
}

func (c *countingStatements) Name() string { return "counting" }

func (c *countingStatements) FetchStatements(_ context.Context, _ string) ([]model.RawStatementPeriod, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []model.RawStatementPeriod{{Period: "2024", Revenue: 1}}, nil
}

type stubAnalyst struct{ err error }

func (s stubAnalyst) Analyze(_ context.Context, code string) (*model.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Report{Code: code}, nil
}

func TestCollector_Collect(t *testing.T) {
	mock := &MockFetcher{
		News: map[model.NewsTone][]model.NewsItem{
			model.NewsPositive: {{Title: "台積電擴廠"}},
		},
	}
	c := NewCollector(mock, mock, stubAnalyst{})
	c.Now = func() time.Time { return time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC) }

	d, err := c.Collect(context.Background(), "2330")
	if err != nil {
		t.Fatal(err)
	}
	if d.Profile == nil || d.DisplayName() != "台灣積體電路製造股份有限公司" {
		t.Errorf("expected profile, got %+v", d.Profile)
	}
	if len(d.Prices) != DefaultPriceMonths*21 || d.PriceSummary == nil {
		t.Errorf("expected prices and summary, got %d bars", len(d.Prices))
	}
	if len(d.Flows) != DefaultFlowDays {
		t.Errorf("expected %d flows, got %d", DefaultFlowDays, len(d.Flows))
	}
	if len(d.Peers) != 1 || d.Peers[0].Code != "2330" {
		t.Errorf("expected the target as its only peer, got %+v", d.Peers)
	}
	if len(d.GoodNews) != 1 || len(d.BadNews) != 0 {
		t.Errorf("unexpected news %d/%d", len(d.GoodNews), len(d.BadNews))
	}
	if d.Report == nil || d.Report.Code != "2330" {
		t.Errorf("expected report, got %+v", d.Report)
	}
}

func TestCollector_BestEffort(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("exchange down")}, nil, stubAnalyst{})
	d, err := c.Collect(context.Background(), "2330")
	if err != nil {
		t.Fatal(err)
	}
	if d.Profile != nil || d.Prices != nil || d.Flows != nil {
		t.Errorf("expected empty market sections, got %+v", d)
	}
	if d.Report == nil {
		t.Error("expected report despite market failure")
	}
	if d.DisplayName() != "2330" {
		t.Errorf("expected code as display name, got %s", d.DisplayName())
	}
}

func TestCollector_Describer(t *testing.T) {
	described := map[string]model.CompanyProfile{
		"2330": {Code: "2330", Name: "Taiwan Semiconductor", Industry: "Technology", Summary: "晶圓代工"},
		"6666": {Code: "6666", Name: "Yahoo Only Co", Industry: "Industrials", Website: "https://example.com", Summary: NoSummary},
	}
	market := &MockFetcher{}
	c := NewCollector(market, nil, stubAnalyst{})
	c.Describer = &MockFetcher{Described: described}

	d, err := c.Collect(context.Background(), "2330")
	if err != nil {
		t.Fatal(err)
	}
	if d.Profile.Name != "台灣積體電路製造股份有限公司" || d.Profile.Industry != "24" {
		t.Errorf("exchange registry must win, got %+v", d.Profile)
	}
	if d.Profile.Summary != "晶圓代工" {
		t.Errorf("expected merged summary, got %q", d.Profile.Summary)
	}

	d, err = c.Collect(context.Background(), "6666")
	if err != nil {
		t.Fatal(err)
	}
	if d.Profile == nil || d.DisplayName() != "Yahoo Only Co" || d.Profile.Website != "https://example.com" {
		t.Errorf("expected fallback profile, got %+v", d.Profile)
	}

	c.Describer = &MockFetcher{Err: errors.New("yahoo down")}
	d, err = c.Collect(context.Background(), "2317")
	if err != nil {
		t.Fatal(err)
	}
	if d.Profile != nil {
		t.Errorf("expected no profile when both sources miss, got %+v", d.Profile)
	}
}

func TestCollector_UnknownStock(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("down")}, nil, stubAnalyst{err: errors.New("insufficient data")})
	if _, err := c.Collect(context.Background(), "0000"); !errors.Is(err, ErrUnknownStock) {
		t.Errorf("expected ErrUnknownStock, got %v", err)
	}
}

func TestCachedStatements(t *testing.T) {
	inner := &countingStatements{}
	s := NewCachedStatements(inner, time.Hour)
	for i := 0; i < 3; i++ {
		if _, err := s.FetchStatements(context.Background(), "2330"); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}

	failing := &countingStatements{err: errors.New("down")}
	s = NewCachedStatements(failing, time.Hour)
	s.FetchStatements(context.Background(), "2330")
	s.FetchStatements(context.Background(), "2330")
	if failing.calls != 2 {
		t.Errorf("errors must not be cached, got %d calls", failing.calls)
	}
}
