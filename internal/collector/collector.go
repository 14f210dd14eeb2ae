package collector

import (
	"context"
	"errors"
	"log"
	"time"

	"ReportDog/internal/cache"
	"ReportDog/internal/calculator"
	"ReportDog/internal/model"
)

// Defaults for the dossier sections.
const (
	DefaultPriceMonths = 6
	DefaultFlowDays    = 10

	priceTTL     = time.Hour
	flowTTL      = time.Hour
	valuationTTL = time.Hour
	profileTTL   = 24 * time.Hour
)

// Collector assembles a Dossier from the market, news and analysis sources.
// Every section is best-effort: a failing source leaves its section empty.
type Collector struct {
	Market      MarketFetcher
	Describer   ProfileFetcher // optional; fills missing profiles and the business summary
	News        NewsFetcher
	Analyst     Analyst
	PriceMonths int
	FlowDays    int
	Now         func() time.Time

	prices     *cache.TTL[string, []model.PriceBar]
	flows      *cache.TTL[string, []model.InstitutionalFlow]
	profiles   *cache.TTL[string, map[string]model.CompanyProfile]
	described  *cache.TTL[string, model.CompanyProfile]
	valuations *cache.TTL[string, []ValuationStat]
}

// NewCollector creates a new Collector. news and analyst may be nil.
func NewCollector(market MarketFetcher, news NewsFetcher, analyst Analyst) *Collector {
	return &Collector{
		Market:      market,
		News:        news,
		Analyst:     analyst,
		PriceMonths: DefaultPriceMonths,
		FlowDays:    DefaultFlowDays,
		Now:         time.Now,
		prices:      cache.NewTTL[string, []model.PriceBar](priceTTL),
		flows:       cache.NewTTL[string, []model.InstitutionalFlow](flowTTL),
		profiles:    cache.NewTTL[string, map[string]model.CompanyProfile](profileTTL),
		described:   cache.NewTTL[string, model.CompanyProfile](profileTTL),
		valuations:  cache.NewTTL[string, []ValuationStat](valuationTTL),
	}
}

// Collect fetches every section for code.
func (c *Collector) Collect(ctx context.Context, code string) (*model.Dossier, error) {
	d := &model.Dossier{Code: code, FetchedAt: c.Now()}

	profiles, err := c.Profiles(ctx)
	if err != nil {
		log.Printf("[WARN] company profiles: %v", err)
	} else if p, ok := profiles[code]; ok {
		d.Profile = &p
	}
	c.describe(ctx, d)

	// Prices
	if bars, err := c.prices.GetOrLoad(code, func() ([]model.PriceBar, error) {
		return c.Market.FetchPriceHistory(ctx, code, c.PriceMonths)
	}); err != nil {
		log.Printf("[WARN] price history for %s: %v", code, err)
	} else {
		d.Prices = bars
		d.PriceSummary = calculator.SummarizePrices(bars)
	}

	// Institutional flows
	if flows, err := c.flows.GetOrLoad(code, func() ([]model.InstitutionalFlow, error) {
		return c.Market.FetchInstitutionalFlows(ctx, code, c.FlowDays)
	}); err != nil {
		log.Printf("[WARN] institutional flows for %s: %v", code, err)
	} else {
		d.Flows = flows
	}

	// Peers
	if d.Profile != nil {
		if stats, err := c.valuations.GetOrLoad("all", func() ([]ValuationStat, error) {
			return c.Market.FetchValuations(ctx)
		}); err != nil {
			log.Printf("[WARN] valuations: %v", err)
		} else {
			d.Peers = ComparePeers(code, d.Profile.Industry, stats, profiles)
		}
	}

	// News
	if c.News != nil {
		name := d.DisplayName()
		if items, err := c.News.FetchNews(ctx, name, model.NewsPositive); err != nil {
			log.Printf("[WARN] positive news for %s: %v", name, err)
		} else {
			d.GoodNews = items
		}
		if items, err := c.News.FetchNews(ctx, name, model.NewsNegative); err != nil {
			log.Printf("[WARN] negative news for %s: %v", name, err)
		} else {
			d.BadNews = items
		}
	}

	// Financial analysis
	if c.Analyst != nil {
		if report, err := c.Analyst.Analyze(ctx, code); err != nil {
			log.Printf("[WARN] analysis for %s: %v", code, err)
		} else {
			d.Report = report
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Profile == nil && len(d.Prices) == 0 && d.Report == nil {
		return nil, ErrUnknownStock
	}
	return d, nil
}

// describe merges the secondary profile into d. The exchange registry wins
// for every field it has; the summary always comes from the secondary source.
func (c *Collector) describe(ctx context.Context, d *model.Dossier) {
	if c.Describer == nil {
		return
	}
	yp, err := c.described.GetOrLoad(d.Code, func() (model.CompanyProfile, error) {
		return c.Describer.FetchProfile(ctx, d.Code)
	})
	if err != nil {
		log.Printf("[WARN] company summary for %s: %v", d.Code, err)
		return
	}
	if d.Profile == nil {
		if yp.Name == "" {
			return
		}
		d.Profile = &yp
		return
	}
	d.Profile.Summary = yp.Summary
}

// ErrUnknownStock is returned when no source knows the requested code.
var ErrUnknownStock = errors.New("unknown stock")

// Profiles returns the cached company registry.
func (c *Collector) Profiles(ctx context.Context) (map[string]model.CompanyProfile, error) {
	return c.profiles.GetOrLoad("all", func() (map[string]model.CompanyProfile, error) {
		return c.Market.FetchCompanyProfiles(ctx)
	})
}

// CachedStatements memoises a StatementFetcher per code.
type CachedStatements struct {
	Fetcher StatementFetcher
	cache   *cache.TTL[string, []model.RawStatementPeriod]
}

// NewCachedStatements wraps fetcher with a cache of the given ttl.
func NewCachedStatements(fetcher StatementFetcher, ttl time.Duration) *CachedStatements {
	return &CachedStatements{Fetcher: fetcher, cache: cache.NewTTL[string, []model.RawStatementPeriod](ttl)}
}

func (s *CachedStatements) Name() string { return s.Fetcher.Name() }

func (s *CachedStatements) FetchStatements(ctx context.Context, code string) ([]model.RawStatementPeriod, error) {
	return s.cache.GetOrLoad(code, func() ([]model.RawStatementPeriod, error) {
		return s.Fetcher.FetchStatements(ctx, code)
	})
}
