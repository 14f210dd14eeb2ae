package model

import "time"

// PriceBar represents a single trading day.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"` // shares
}

// PriceSummary holds derived price indicators for the chart.
type PriceSummary struct {
	LastClose float64   `json:"last_close"`
	MA5       []float64 `json:"ma5"`  // aligned with bars, 0 until enough data
	MA20      []float64 `json:"ma20"` // aligned with bars, 0 until enough data
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Position  float64   `json:"position"` // 0.0 ~ 1.0 within [Low, High]
}

// InstitutionalFlow is one day of net buy/sell by the three major institutional investors, in shares.
type InstitutionalFlow struct {
	Date            time.Time `json:"date"`
	Foreign         int64     `json:"foreign"`
	InvestmentTrust int64     `json:"investment_trust"`
	Dealer          int64     `json:"dealer"`
	Total           int64     `json:"total"`
}

// CompanyProfile is the basic listing information of a company.
type CompanyProfile struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Industry        string `json:"industry"`
	Chairman        string `json:"chairman"`
	GeneralManager  string `json:"general_manager"`
	Spokesperson    string `json:"spokesperson"`
	ActingSpokesman string `json:"acting_spokesman"`
	FoundedDate     string `json:"founded_date"`
	ListedDate      string `json:"listed_date"`
	TaxID           string `json:"tax_id"`
	Phone           string `json:"phone"`
	Fax             string `json:"fax"`
	Email           string `json:"email"`
	Website         string `json:"website"`
	Address         string `json:"address"`
	TransferAgent   string `json:"transfer_agent"`
	PaidInCapital   string `json:"paid_in_capital"` // formatted with thousands separators
	SharesIssued    string `json:"shares_issued"`
	Summary         string `json:"summary,omitempty"` // business description from Yahoo
}

// PeerValuation is one row of the peer valuation table.
type PeerValuation struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Industry      string  `json:"industry"`
	PE            float64 `json:"pe"`
	DividendYield float64 `json:"dividend_yield"`
	PB            float64 `json:"pb"`
}

// NewsTone selects the keyword set used by the news search.
type NewsTone string

const (
	NewsPositive NewsTone = "positive"
	NewsNegative NewsTone = "negative"
)

// NewsItem is one filtered headline.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source"`
	Summary   string `json:"summary"`
}

// Dossier is everything the dashboard shows for one stock.
type Dossier struct {
	Code         string              `json:"code"`
	Profile      *CompanyProfile     `json:"profile,omitempty"`
	Prices       []PriceBar          `json:"prices,omitempty"`
	PriceSummary *PriceSummary       `json:"price_summary,omitempty"`
	Flows        []InstitutionalFlow `json:"flows,omitempty"`
	Peers        []PeerValuation     `json:"peers,omitempty"`
	GoodNews     []NewsItem          `json:"good_news,omitempty"`
	BadNews      []NewsItem          `json:"bad_news,omitempty"`
	Report       *Report             `json:"report,omitempty"`
	FetchedAt    time.Time           `json:"fetched_at"`
}

// DisplayName returns the company name, falling back to the stock code.
func (d *Dossier) DisplayName() string {
	if d.Profile != nil && d.Profile.Name != "" {
		return d.Profile.Name
	}
	return d.Code
}
