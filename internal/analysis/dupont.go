package analysis

import (
	"fmt"
	"strconv"

	"ReportDog/internal/calculator"
	"ReportDog/internal/model"
)

// BuildDuPont decomposes the ROE of r into net margin × asset turnover × equity multiplier.
func BuildDuPont(r model.RatioSet) model.DuPont {
	implied := calculator.Round2(r.NetMargin * r.AssetTurnover * r.EquityMultiplier)
	return model.DuPont{
		Period:           r.Period,
		NetMargin:        r.NetMargin,
		AssetTurnover:    r.AssetTurnover,
		EquityMultiplier: r.EquityMultiplier,
		ROE:              r.ROE,
		ImpliedROE:       implied,
		Commentary: fmt.Sprintf("💡 **ROE 分析**：本期 ROE 為 **%s%%**。是由 **%s%%** 的獲利能力 × **%s** 次的資產運用效率 × **%s** 倍的財務槓桿所組成。",
			num(r.ROE), num(r.NetMargin), num(r.AssetTurnover), num(r.EquityMultiplier)),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
