package model

import "time"

// DuPont expresses ROE as net margin × asset turnover × equity multiplier.
type DuPont struct {
	Period           string  `json:"period"`
	NetMargin        float64 `json:"net_margin"`
	AssetTurnover    float64 `json:"asset_turnover"`
	EquityMultiplier float64 `json:"equity_multiplier"`
	ROE              float64 `json:"roe"`
	ImpliedROE       float64 `json:"implied_roe"`
	Commentary       string  `json:"commentary"`
}

// Report is the result bundle of one successful analysis.
type Report struct {
	Code        string       `json:"code"`
	Ratios      []RatioSet   `json:"ratios"`
	Insights    []string     `json:"insights"`
	Credit      CreditReport `json:"credit"`
	DuPont      DuPont       `json:"dupont"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Latest returns the newest ratio set.
func (r *Report) Latest() RatioSet {
	if r == nil || len(r.Ratios) == 0 {
		return RatioSet{}
	}
	return r.Ratios[0]
}
