package model

// BenchmarkCriterion holds the reference thresholds for one ratio.
// Caution is the low-caution line when HigherIsBetter, the high-caution line otherwise.
type BenchmarkCriterion struct {
	Name           string  `json:"name" yaml:"name"`
	Median         float64 `json:"median" yaml:"median"`
	Caution        float64 `json:"caution" yaml:"caution"`
	HighRisk       float64 `json:"high_risk" yaml:"high_risk"`
	HigherIsBetter bool    `json:"higher_is_better" yaml:"higher_is_better"`
}

// ScoreDetail is one scored ratio row.
type ScoreDetail struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Comment string  `json:"comment"`
	Points  int     `json:"points"`
}

// Grade is a letter band over the total credit score.
type Grade struct {
	Letter string `json:"letter"`
	Label  string `json:"label"`
}

func (g Grade) String() string {
	return g.Letter + " (" + g.Label + ")"
}

// ZZone identifies the Altman Z-Score band.
type ZZone string

const (
	ZoneSafe     ZZone = "SAFE"
	ZoneGrey     ZZone = "GREY"
	ZoneDistress ZZone = "DISTRESS"
)

// ZStatus is the Z-Score band with its display label.
type ZStatus struct {
	Zone  ZZone  `json:"zone"`
	Label string `json:"label"`
}

// CreditReport is built from the newest RatioSet.
type CreditReport struct {
	TotalScore int           `json:"total_score"`
	Grade      Grade         `json:"grade"`
	ZScore     float64       `json:"z_score"`
	ZStatus    ZStatus       `json:"z_status"`
	Details    []ScoreDetail `json:"details"`
}
