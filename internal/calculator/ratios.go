package calculator

import (
	"fmt"
	"math"

	"ReportDog/internal/model"
)

// hundredMillion is the 億 unit used to display free cash flow.
const hundredMillion = 1e8

// SourceURL returns the public statement page cited next to each ratio set.
func SourceURL(code string) string {
	return fmt.Sprintf("https://tw.stock.yahoo.com/quote/%s.TW/financials", code)
}

// DeriveRatios converts one period of raw figures into the named ratio set.
// A zero denominator yields 0, except the equity multiplier which yields 1.
func DeriveRatios(code string, p model.RawStatementPeriod) model.RatioSet {
	equityMultiplier := 1.0
	if p.StockholdersEquity != 0 {
		equityMultiplier = p.TotalAssets / p.StockholdersEquity
	}
	fcf := p.OperatingCashFlow - math.Abs(p.CapitalExpenditure)

	return model.RatioSet{
		Period:           p.Period,
		GrossMargin:      Round2(safeDiv(p.Revenue-p.CostOfRevenue, p.Revenue) * 100),
		OperatingMargin:  Round2(safeDiv(p.OperatingIncome, p.Revenue) * 100),
		NetMargin:        Round2(safeDiv(p.NetIncome, p.Revenue) * 100),
		ROE:              Round2(safeDiv(p.NetIncome, p.StockholdersEquity) * 100),
		CurrentRatio:     Round2(safeDiv(p.CurrentAssets, p.CurrentLiabilities) * 100),
		DebtRatio:        Round2(safeDiv(p.TotalLiabilities, p.TotalAssets) * 100),
		CashFlowQuality:  Round2(safeDiv(p.OperatingCashFlow, p.NetIncome) * 100),
		ZScore:           ZScore(p),
		FreeCashFlow:     Round2(fcf / hundredMillion),
		AssetTurnover:    Round2(safeDiv(p.Revenue, p.TotalAssets)),
		EquityMultiplier: Round2(equityMultiplier),
		SourceURL:        SourceURL(code),
	}
}
