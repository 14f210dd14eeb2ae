package collector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"ReportDog/internal/model"
)

const (
	yahooTimeseriesURL = "https://query2.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries/"
	yahooQuoteURL      = "https://query1.finance.yahoo.com/v7/finance/quote"
	yahooSummaryURL    = "https://query2.finance.yahoo.com/v10/finance/quoteSummary/"

	// NoSummary replaces business descriptions too short to be useful.
	NoSummary = "暫無詳細描述"

	// MaxStatementPeriods is the number of annual periods returned by FetchStatements.
	MaxStatementPeriods = 3
)

// lineItems maps each requested annual series to the field it fills.
var lineItems = map[string]func(p *model.RawStatementPeriod, v float64){
	"annualTotalRevenue":                        func(p *model.RawStatementPeriod, v float64) { p.Revenue = v },
	"annualCostOfRevenue":                       func(p *model.RawStatementPeriod, v float64) { p.CostOfRevenue = v },
	"annualOperatingIncome":                     func(p *model.RawStatementPeriod, v float64) { p.OperatingIncome = v },
	"annualNetIncome":                           func(p *model.RawStatementPeriod, v float64) { p.NetIncome = v },
	"annualEBIT":                                func(p *model.RawStatementPeriod, v float64) { p.EBIT = v; p.EBITReported = true },
	"annualTotalAssets":                         func(p *model.RawStatementPeriod, v float64) { p.TotalAssets = v },
	"annualTotalLiabilitiesNetMinorityInterest": func(p *model.RawStatementPeriod, v float64) { p.TotalLiabilities = v },
	"annualCurrentAssets":                       func(p *model.RawStatementPeriod, v float64) { p.CurrentAssets = v },
	"annualCurrentLiabilities":                  func(p *model.RawStatementPeriod, v float64) { p.CurrentLiabilities = v },
	"annualStockholdersEquity":                  func(p *model.RawStatementPeriod, v float64) { p.StockholdersEquity = v },
	"annualRetainedEarnings":                    func(p *model.RawStatementPeriod, v float64) { p.RetainedEarnings = v },
	"annualOperatingCashFlow":                   func(p *model.RawStatementPeriod, v float64) { p.OperatingCashFlow = v },
	"annualCapitalExpenditure":                  func(p *model.RawStatementPeriod, v float64) { p.CapitalExpenditure = v },
}

// YahooFetcher implements StatementFetcher using the Yahoo Finance fundamentals API.
type YahooFetcher struct {
	Client        *http.Client
	TimeseriesURL string
	QuoteURL      string
	SummaryURL    string
	Now           func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(client *http.Client) *YahooFetcher {
	return &YahooFetcher{
		Client:        client,
		TimeseriesURL: yahooTimeseriesURL,
		QuoteURL:      yahooQuoteURL,
		SummaryURL:    yahooSummaryURL,
		Now:           time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooSymbol maps a TWSE code to its Yahoo ticker.
func yahooSymbol(code string) string {
	return code + ".TW"
}

// FetchStatements returns up to MaxStatementPeriods annual periods, newest first,
// with the market cap attached to the newest period when available.
func (f *YahooFetcher) FetchStatements(ctx context.Context, code string) ([]model.RawStatementPeriod, error) {
	types := make([]string, 0, len(lineItems))
	for t := range lineItems {
		types = append(types, t)
	}
	sort.Strings(types)

	now := f.Now()
	q := url.Values{}
	q.Set("type", strings.Join(types, ","))
	q.Set("period1", fmt.Sprint(now.AddDate(-6, 0, 0).Unix()))
	q.Set("period2", fmt.Sprint(now.Unix()))
	u := f.TimeseriesURL + url.PathEscape(yahooSymbol(code)) + "?" + q.Encode()

	body, err := getBody(ctx, f.Client, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo timeseries %s: %w", code, err)
	}
	periods, err := parseTimeseries(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo timeseries %s: %w", code, err)
	}

	if mc, err := f.FetchMarketCap(ctx, code); err != nil {
		log.Printf("[WARN] yahoo market cap for %s: %v, Z-Score drops the market term", code, err)
	} else {
		for i := range periods {
			periods[i].MarketCap = mc
		}
	}
	return periods, nil
}

// parseTimeseries groups the annual series by asOfDate.
func parseTimeseries(body []byte) ([]model.RawStatementPeriod, error) {
	if msg := gjson.GetBytes(body, "timeseries.error.description"); msg.Exists() {
		return nil, fmt.Errorf("api error: %s", msg.String())
	}
	results := gjson.GetBytes(body, "timeseries.result")
	if !results.Exists() || !results.IsArray() {
		return nil, fmt.Errorf("no timeseries.result")
	}

	byDate := make(map[string]*model.RawStatementPeriod)
	for _, r := range results.Array() {
		typ := r.Get("meta.type.0").String()
		set, ok := lineItems[typ]
		if !ok {
			continue
		}
		for _, item := range r.Get(typ).Array() {
			if item.Type == gjson.Null {
				continue
			}
			asOf := item.Get("asOfDate").String()
			raw := item.Get("reportedValue.raw")
			if asOf == "" || !raw.Exists() {
				continue
			}
			p, ok := byDate[asOf]
			if !ok {
				end, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					continue
				}
				p = &model.RawStatementPeriod{Period: fmt.Sprint(end.Year()), EndDate: end}
				byDate[asOf] = p
			}
			set(p, raw.Float())
		}
	}
	if len(byDate) == 0 {
		return nil, fmt.Errorf("no annual data returned")
	}

	periods := make([]model.RawStatementPeriod, 0, len(byDate))
	for _, p := range byDate {
		periods = append(periods, *p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].EndDate.After(periods[j].EndDate) })
	if len(periods) > MaxStatementPeriods {
		periods = periods[:MaxStatementPeriods]
	}
	return periods, nil
}

// FetchMarketCap returns the current market capitalisation in TWD.
func (f *YahooFetcher) FetchMarketCap(ctx context.Context, code string) (float64, error) {
	u := f.QuoteURL + "?symbols=" + url.QueryEscape(yahooSymbol(code))
	body, err := getBody(ctx, f.Client, u)
	if err != nil {
		return 0, fmt.Errorf("yahoo quote: %w", err)
	}
	mc := gjson.GetBytes(body, "quoteResponse.result.0.marketCap")
	if !mc.Exists() || mc.Float() <= 0 {
		return 0, fmt.Errorf("yahoo quote: no market cap")
	}
	return mc.Float(), nil
}

// FetchProfile returns the Yahoo company profile. Only the fields Yahoo knows
// are set; Summary is always non-empty.
func (f *YahooFetcher) FetchProfile(ctx context.Context, code string) (model.CompanyProfile, error) {
	u := f.SummaryURL + url.PathEscape(yahooSymbol(code)) + "?modules=assetProfile,price"
	body, err := getBody(ctx, f.Client, u)
	if err != nil {
		return model.CompanyProfile{}, fmt.Errorf("yahoo profile %s: %w", code, err)
	}
	return parseProfile(code, body)
}

func parseProfile(code string, body []byte) (model.CompanyProfile, error) {
	if msg := gjson.GetBytes(body, "quoteSummary.error.description"); msg.Exists() {
		return model.CompanyProfile{}, fmt.Errorf("yahoo profile %s: api error: %s", code, msg.String())
	}
	res := gjson.GetBytes(body, "quoteSummary.result.0")
	if !res.Exists() {
		return model.CompanyProfile{}, fmt.Errorf("yahoo profile %s: no quoteSummary.result", code)
	}
	ap := res.Get("assetProfile")

	name := res.Get("price.longName").String()
	if name == "" {
		name = res.Get("price.shortName").String()
	}
	summary := strings.TrimSpace(ap.Get("longBusinessSummary").String())
	if utf8.RuneCountInString(summary) <= 10 {
		summary = NoSummary
	}
	return model.CompanyProfile{
		Code:     code,
		Name:     name,
		Industry: ap.Get("sector").String(),
		Website:  ap.Get("website").String(),
		Address:  ap.Get("address1").String(),
		Phone:    ap.Get("phone").String(),
		Summary:  summary,
	}, nil
}
