package calculator

import (
	"errors"
	"math"

	"ReportDog/internal/model"
)

// Moving average windows shown on the price chart (weekly and monthly line).
const (
	ShortMAPeriod = 5
	LongMAPeriod  = 20
)

// CalculateRange scans all bars and returns the highest high and lowest low.
func CalculateRange(bars []model.PriceBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no price bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where the current price sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// SummarizePrices builds the chart indicators for a chronological bar series.
// Returns nil when there are no bars.
func SummarizePrices(bars []model.PriceBar) *model.PriceSummary {
	high, low, err := CalculateRange(bars)
	if err != nil {
		return nil
	}
	last := bars[len(bars)-1].Close
	pos, err := CalculatePosition(last, high, low)
	if err != nil {
		pos = 0.5
	}
	return &model.PriceSummary{
		LastClose: last,
		MA5:       MovingAverageSeries(bars, ShortMAPeriod),
		MA20:      MovingAverageSeries(bars, LongMAPeriod),
		High:      high,
		Low:       low,
		Position:  Round2(pos),
	}
}
