package model

import "time"

// RawStatementPeriod holds one fiscal year of raw statement figures.
// Missing line items are zero.
type RawStatementPeriod struct {
	Period  string    `json:"period"` // fiscal year label, e.g. "2024"
	EndDate time.Time `json:"end_date"`

	// Income statement
	Revenue         float64 `json:"revenue"`
	CostOfRevenue   float64 `json:"cost_of_revenue"`
	OperatingIncome float64 `json:"operating_income"`
	NetIncome       float64 `json:"net_income"`
	EBIT            float64 `json:"ebit"`
	EBITReported    bool    `json:"ebit_reported"`

	// Balance sheet
	TotalAssets        float64 `json:"total_assets"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	StockholdersEquity float64 `json:"stockholders_equity"`
	RetainedEarnings   float64 `json:"retained_earnings"`

	// Cash flow
	OperatingCashFlow  float64 `json:"operating_cash_flow"`
	CapitalExpenditure float64 `json:"capital_expenditure"`

	// MarketCap of 0 drops the market-value term from the Z-Score.
	MarketCap float64 `json:"market_cap"`
}

// EffectiveEBIT returns EBIT, falling back to operating income when EBIT is not reported.
func (p RawStatementPeriod) EffectiveEBIT() float64 {
	if p.EBITReported {
		return p.EBIT
	}
	return p.OperatingIncome
}

// HasIncomeStatement reports whether any income statement line item is present.
func (p RawStatementPeriod) HasIncomeStatement() bool {
	return p.Revenue != 0 || p.CostOfRevenue != 0 || p.OperatingIncome != 0 || p.NetIncome != 0
}

// HasBalanceSheet reports whether any balance sheet line item is present.
func (p RawStatementPeriod) HasBalanceSheet() bool {
	return p.TotalAssets != 0 || p.TotalLiabilities != 0 || p.StockholdersEquity != 0 ||
		p.CurrentAssets != 0 || p.CurrentLiabilities != 0
}

// RatioSet is the derived per-period record. Percentages are already multiplied by 100.
type RatioSet struct {
	Period           string  `json:"period"`
	GrossMargin      float64 `json:"gross_margin"`
	OperatingMargin  float64 `json:"operating_margin"`
	NetMargin        float64 `json:"net_margin"`
	ROE              float64 `json:"roe"`
	CurrentRatio     float64 `json:"current_ratio"`
	DebtRatio        float64 `json:"debt_ratio"`
	CashFlowQuality  float64 `json:"cash_flow_quality"`
	ZScore           float64 `json:"z_score"`
	FreeCashFlow     float64 `json:"free_cash_flow"` // 億 (1e8)
	AssetTurnover    float64 `json:"asset_turnover"`
	EquityMultiplier float64 `json:"equity_multiplier"`
	SourceURL        string  `json:"source_url"`
}
