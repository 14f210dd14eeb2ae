package insight

import (
	"fmt"
	"strconv"

	"ReportDog/internal/credit"
	"ReportDog/internal/model"
)

// TrendThreshold is the gross-margin change, in percentage points, needed for a trend line.
const TrendThreshold = 1.0

// Generate produces the commentary for ratios ordered newest first: an optional
// gross-margin trend line followed by one benchmark line per criterion in table order.
func Generate(ratios []model.RatioSet, table *credit.BenchmarkTable) []string {
	if len(ratios) == 0 {
		return []string{}
	}
	var lines []string
	if len(ratios) >= 2 {
		if line, ok := trendLine(ratios[0].GrossMargin - ratios[1].GrossMargin); ok {
			lines = append(lines, line)
		}
	}
	latest := ratios[0]
	for _, c := range table.Criteria() {
		value, _ := credit.RatioValue(latest, c.Name)
		lines = append(lines, benchmarkLine(value, c))
	}
	return lines
}

func trendLine(delta float64) (string, bool) {
	switch {
	case delta > TrendThreshold:
		return fmt.Sprintf("📈 **【趨勢】毛利率改善**：+%.2f%%", delta), true
	case delta < -TrendThreshold:
		return fmt.Sprintf("📉 **【趨勢】毛利率衰退**：%.2f%%", delta), true
	default:
		return "", false
	}
}

func benchmarkLine(value float64, c model.BenchmarkCriterion) string {
	v := num(value)
	band := credit.Classify(value, c)
	if c.HigherIsBetter {
		switch band {
		case credit.BandDanger:
			return fmt.Sprintf("🔴 **【標準】%s高風險**：僅 %s%% (低於高風險線 %s%%)。", c.Name, v, num(c.HighRisk))
		case credit.BandCaution:
			return fmt.Sprintf("🟠 **【標準】%s偏低**：僅 %s%% (低於注意線 %s%%)。", c.Name, v, num(c.Caution))
		case credit.BandExcellent:
			return fmt.Sprintf("🟢 **【標準】%s優異**：達 %s%% (優於中位數 %s%%)。", c.Name, v, num(c.Median))
		default:
			return fmt.Sprintf("⚪ **【標準】%s尚可**：%s%% (介於注意線與中位數之間)。", c.Name, v)
		}
	}
	switch band {
	case credit.BandDanger:
		return fmt.Sprintf("🔴 **【標準】%s高風險**：高達 %s%% (超過高風險線 %s%%)。", c.Name, v, num(c.HighRisk))
	case credit.BandCaution:
		return fmt.Sprintf("🟠 **【標準】%s偏高**：達 %s%% (超過注意線 %s%%)。", c.Name, v, num(c.Caution))
	case credit.BandExcellent:
		return fmt.Sprintf("🟢 **【標準】%s安全**：僅 %s%% (優於中位數 %s%%)。", c.Name, v, num(c.Median))
	default:
		return fmt.Sprintf("⚪ **【標準】%s尚可**：%s%% (介於中位數與警戒線之間)。", c.Name, v)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
