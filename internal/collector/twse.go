package collector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"ReportDog/internal/model"
)

const (
	twseBaseURL    = "https://www.twse.com.tw"
	twseOpenAPIURL = "https://openapi.twse.com.tw/v1"

	// DefaultTWSEInterval paces requests to the exchange, which throttles rapid clients.
	DefaultTWSEInterval = 500 * time.Millisecond
)

// T86 column names. Foreign investors are split between the non-dealer and dealer columns.
const (
	colCode            = "證券代號"
	colForeignExDealer = "外陸資買賣超股數(不含外資自營商)"
	colForeignDealer   = "外資自營商買賣超股數"
	colTrust           = "投信買賣超股數"
	colDealer          = "自營商買賣超股數"
	colTotal           = "三大法人買賣超股數"
)

// TWSEClient implements MarketFetcher using the Taiwan Stock Exchange web and open-data APIs.
type TWSEClient struct {
	Client     *http.Client
	BaseURL    string
	OpenAPIURL string
	Now        func() time.Time
	limiter    *rate.Limiter
}

// NewTWSEClient creates a client that issues at most one request per interval.
func NewTWSEClient(client *http.Client, interval time.Duration) *TWSEClient {
	if interval <= 0 {
		interval = DefaultTWSEInterval
	}
	return &TWSEClient{
		Client:     client,
		BaseURL:    twseBaseURL,
		OpenAPIURL: twseOpenAPIURL,
		Now:        time.Now,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (c *TWSEClient) Name() string { return "twse" }

func (c *TWSEClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("twse rate limit: %w", err)
	}
	return getBody(ctx, c.Client, rawURL)
}

// FetchPriceHistory returns daily bars for the last months calendar months, oldest first.
// Months that fail to load are skipped.
func (c *TWSEClient) FetchPriceHistory(ctx context.Context, code string, months int) ([]model.PriceBar, error) {
	now := c.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var bars []model.PriceBar
	for i := months - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		u := fmt.Sprintf("%s/exchangeReport/STOCK_DAY?response=json&date=%s&stockNo=%s",
			c.BaseURL, month.Format("20060102"), code)
		body, err := c.get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] twse STOCK_DAY %s %s: %v", code, month.Format("2006-01"), err)
			continue
		}
		monthBars, err := parseStockDay(body)
		if err != nil {
			log.Printf("[WARN] twse STOCK_DAY %s %s: %v", code, month.Format("2006-01"), err)
			continue
		}
		bars = append(bars, monthBars...)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("twse: no price data for %s", code)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseStockDay(body []byte) ([]model.PriceBar, error) {
	if stat := gjson.GetBytes(body, "stat").String(); stat != "OK" {
		return nil, fmt.Errorf("stat %q", stat)
	}
	idx := fieldIndex(gjson.GetBytes(body, "fields"))
	cell := func(row []gjson.Result, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i].String()
	}

	var bars []model.PriceBar
	for _, r := range gjson.GetBytes(body, "data").Array() {
		row := r.Array()
		date, err := parseROCDate(cell(row, "日期"))
		if err != nil {
			continue
		}
		closePrice, err := parseNumber(cell(row, "收盤價"))
		if err != nil {
			continue
		}
		open, _ := parseNumber(cell(row, "開盤價"))
		high, _ := parseNumber(cell(row, "最高價"))
		low, _ := parseNumber(cell(row, "最低價"))
		volume, _ := parseNumber(cell(row, "成交股數"))
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return bars, nil
}

// FetchInstitutionalFlows walks back from today over up to 3×days calendar days
// until days trading days are found. The result is oldest first.
func (c *TWSEClient) FetchInstitutionalFlows(ctx context.Context, code string, days int) ([]model.InstitutionalFlow, error) {
	now := c.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var flows []model.InstitutionalFlow
	for i := 0; i < days*3 && len(flows) < days; i++ {
		day := today.AddDate(0, 0, -i)
		u := fmt.Sprintf("%s/rwd/zh/fund/T86?date=%s&selectType=ALL&response=json", c.BaseURL, day.Format("20060102"))
		body, err := c.get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] twse T86 %s: %v", day.Format("2006-01-02"), err)
			continue
		}
		flow, ok := parseT86(body, code)
		if !ok {
			continue
		}
		flow.Date = day
		flows = append(flows, flow)
	}
	if len(flows) == 0 {
		return nil, fmt.Errorf("twse: no institutional data for %s", code)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })
	return flows, nil
}

func parseT86(body []byte, code string) (model.InstitutionalFlow, bool) {
	if gjson.GetBytes(body, "stat").String() != "OK" {
		return model.InstitutionalFlow{}, false
	}
	idx := fieldIndex(gjson.GetBytes(body, "fields"))
	codeIdx, ok := idx[colCode]
	if !ok {
		return model.InstitutionalFlow{}, false
	}
	shares := func(row []gjson.Result, name string) int64 {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return 0
		}
		v, err := parseNumber(row[i].String())
		if err != nil {
			return 0
		}
		return int64(v)
	}
	for _, r := range gjson.GetBytes(body, "data").Array() {
		row := r.Array()
		if codeIdx >= len(row) || strings.TrimSpace(row[codeIdx].String()) != code {
			continue
		}
		return model.InstitutionalFlow{
			Foreign:         shares(row, colForeignExDealer) + shares(row, colForeignDealer),
			InvestmentTrust: shares(row, colTrust),
			Dealer:          shares(row, colDealer),
			Total:           shares(row, colTotal),
		}, true
	}
	return model.InstitutionalFlow{}, false
}

// FetchCompanyProfiles returns the listed-company registry keyed by code.
func (c *TWSEClient) FetchCompanyProfiles(ctx context.Context) (map[string]model.CompanyProfile, error) {
	body, err := c.get(ctx, c.OpenAPIURL+"/opendata/t187ap03_L")
	if err != nil {
		return nil, fmt.Errorf("twse t187ap03_L: %w", err)
	}
	rows := gjson.ParseBytes(body)
	if !rows.IsArray() {
		return nil, fmt.Errorf("twse t187ap03_L: expected array")
	}
	profiles := make(map[string]model.CompanyProfile)
	for _, r := range rows.Array() {
		obj := flatten(r)
		p := model.CompanyProfile{
			Code:            obj["公司代號"],
			Name:            obj["公司名稱"],
			Industry:        obj["產業別"],
			Chairman:        obj["董事長"],
			GeneralManager:  obj["總經理"],
			Spokesperson:    obj["發言人"],
			ActingSpokesman: obj["代理發言人"],
			FoundedDate:     obj["成立日期"],
			ListedDate:      obj["上市日期"],
			TaxID:           obj["營利事業統一編號"],
			Phone:           obj["總機電話"],
			Fax:             obj["傳真機號碼"],
			Email:           obj["電子郵件信箱"],
			Website:         obj["網址"],
			Address:         obj["住址"],
			TransferAgent:   obj["股票過戶機構"],
			PaidInCapital:   thousands(obj["實收資本額"]),
			SharesIssued:    thousands(firstNonEmpty(obj["已發行普通股數或TDR原股發行股數"], obj["已發行普通股數"])),
		}
		if p.Phone == "" {
			p.Phone = obj["電話"]
		}
		if p.Fax == "" {
			p.Fax = obj["傳真"]
		}
		if p.Code == "" {
			continue
		}
		profiles[p.Code] = p
	}
	return profiles, nil
}

// FetchValuations returns PE, dividend yield and PB for every listed stock.
func (c *TWSEClient) FetchValuations(ctx context.Context) ([]ValuationStat, error) {
	body, err := c.get(ctx, c.OpenAPIURL+"/exchangeReport/BWIBBU_ALL")
	if err != nil {
		return nil, fmt.Errorf("twse BWIBBU_ALL: %w", err)
	}
	rows := gjson.ParseBytes(body)
	if !rows.IsArray() {
		return nil, fmt.Errorf("twse BWIBBU_ALL: expected array")
	}
	stats := make([]ValuationStat, 0, len(rows.Array()))
	for _, r := range rows.Array() {
		code := r.Get("Code").String()
		if code == "" {
			continue
		}
		stats = append(stats, ValuationStat{
			Code:          code,
			Name:          r.Get("Name").String(),
			PE:            dashZero(r.Get("PEratio").String()),
			DividendYield: dashZero(r.Get("DividendYield").String()),
			PB:            dashZero(r.Get("PBratio").String()),
		})
	}
	return stats, nil
}

func fieldIndex(fields gjson.Result) map[string]int {
	idx := make(map[string]int)
	for i, f := range fields.Array() {
		idx[strings.TrimSpace(f.String())] = i
	}
	return idx
}

func flatten(r gjson.Result) map[string]string {
	obj := make(map[string]string)
	r.ForEach(func(k, v gjson.Result) bool {
		obj[k.String()] = strings.TrimSpace(v.String())
		return true
	})
	return obj
}

// parseROCDate converts "114/01/02" (Republic of China calendar) to 2025-01-02.
func parseROCDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
	}
	return time.Parse("2006-01-02", fmt.Sprintf("%04d-%s-%s", year+1911, parts[1], parts[2]))
}

// parseNumber parses numbers with thousands separators, e.g. "1,234.5".
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

// dashZero parses a valuation figure where "-" means not applicable.
func dashZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "-" || s == "" {
		return 0
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0
	}
	return v
}

// thousands formats an integer string with thousands separators; other input is returned unchanged.
func thousands(s string) string {
	v, err := parseNumber(s)
	if err != nil {
		return s
	}
	return humanize.Comma(int64(v))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
