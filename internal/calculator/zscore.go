package calculator

import "ReportDog/internal/model"

// Altman Z-Score coefficients (public manufacturer model).
const (
	zWeightWorkingCapital   = 1.2
	zWeightRetainedEarnings = 1.4
	zWeightEBIT             = 3.3
	zWeightMarketValue      = 0.6
	zWeightSales            = 1.0
)

// ZScore computes the Altman Z-Score of a period, rounded to 2 decimals.
// It is 0 unless both total assets and total liabilities are positive.
// Without a market cap the market-value term is dropped, not imputed.
func ZScore(p model.RawStatementPeriod) float64 {
	if p.TotalAssets <= 0 || p.TotalLiabilities <= 0 {
		return 0
	}
	ta := p.TotalAssets

	a := (p.CurrentAssets - p.CurrentLiabilities) / ta
	b := p.RetainedEarnings / ta
	c := p.EffectiveEBIT() / ta
	var d float64
	if p.MarketCap > 0 {
		d = p.MarketCap / p.TotalLiabilities
	}
	e := p.Revenue / ta

	z := zWeightWorkingCapital*a +
		zWeightRetainedEarnings*b +
		zWeightEBIT*c +
		zWeightMarketValue*d +
		zWeightSales*e
	return Round2(z)
}
