package credit

import "ReportDog/internal/model"

// Band is where a ratio value falls against its benchmark.
type Band int

const (
	BandDanger Band = iota
	BandCaution
	BandAverage
	BandExcellent
)

// bandScores maps each band to its points and short comment.
var bandScores = map[Band]struct {
	Points  int
	Comment string
}{
	BandDanger:    {0, "危險"},
	BandCaution:   {10, "注意"},
	BandAverage:   {15, "普通"},
	BandExcellent: {20, "優良"},
}

// Points returns the score contributed by the band.
func (b Band) Points() int { return bandScores[b].Points }

// Comment returns the short qualitative comment of the band.
func (b Band) Comment() string { return bandScores[b].Comment }

// Classify places value against c. The high-risk and caution checks are strict,
// the median check is inclusive:
//
//	higher is better: < high risk, < caution, >= median, else average
//	lower is better:  > high risk, > caution, <= median, else average
func Classify(value float64, c model.BenchmarkCriterion) Band {
	worse := func(v, threshold float64) bool { return v < threshold }
	if !c.HigherIsBetter {
		worse = func(v, threshold float64) bool { return v > threshold }
	}
	switch {
	case worse(value, c.HighRisk):
		return BandDanger
	case worse(value, c.Caution):
		return BandCaution
	case !worse(value, c.Median):
		return BandExcellent
	default:
		return BandAverage
	}
}

// Score builds the credit report from the newest ratio set.
func Score(latest model.RatioSet, table *BenchmarkTable) model.CreditReport {
	criteria := table.Criteria()
	details := make([]model.ScoreDetail, 0, len(criteria))
	total := 0
	for _, c := range criteria {
		value, _ := RatioValue(latest, c.Name)
		band := Classify(value, c)
		details = append(details, model.ScoreDetail{
			Name:    c.Name,
			Value:   value,
			Comment: band.Comment(),
			Points:  band.Points(),
		})
		total += band.Points()
	}
	return model.CreditReport{
		TotalScore: total,
		Grade:      GradeFor(total),
		ZScore:     latest.ZScore,
		ZStatus:    ClassifyZScore(latest.ZScore),
		Details:    details,
	}
}
