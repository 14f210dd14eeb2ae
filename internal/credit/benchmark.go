package credit

import (
	"fmt"

	"ReportDog/internal/model"
)

// Ratio names as shown in reports; they key the benchmark table.
const (
	GrossMargin     = "毛利率"
	OperatingMargin = "營業利益率"
	NetMargin       = "淨利率"
	CurrentRatio    = "流動比率"
	DebtRatio       = "負債比率"
)

// DefaultBenchmarks returns the reference thresholds in scoring order.
func DefaultBenchmarks() []model.BenchmarkCriterion {
	return []model.BenchmarkCriterion{
		{Name: GrossMargin, Median: 43.50, Caution: 34.84, HighRisk: 26.75, HigherIsBetter: true},
		{Name: OperatingMargin, Median: 8.43, Caution: 5.67, HighRisk: 3.18, HigherIsBetter: true},
		{Name: NetMargin, Median: 6.56, Caution: 3.80, HighRisk: 0.43, HigherIsBetter: true},
		{Name: CurrentRatio, Median: 121, Caution: 91, HighRisk: 61, HigherIsBetter: true},
		{Name: DebtRatio, Median: 52, Caution: 62.7, HighRisk: 73.3, HigherIsBetter: false},
	}
}

// BenchmarkTable is the immutable set of criteria used by the scorer and the insight generator.
type BenchmarkTable struct {
	criteria []model.BenchmarkCriterion
}

// NewBenchmarkTable builds the table from the defaults, replacing thresholds of any
// criterion named in overrides. Unknown names are rejected.
func NewBenchmarkTable(overrides []model.BenchmarkCriterion) (*BenchmarkTable, error) {
	criteria := DefaultBenchmarks()
	for _, o := range overrides {
		found := false
		for i := range criteria {
			if criteria[i].Name == o.Name {
				criteria[i].Median = o.Median
				criteria[i].Caution = o.Caution
				criteria[i].HighRisk = o.HighRisk
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown benchmark %q", o.Name)
		}
	}
	for _, c := range criteria {
		if err := Validate(c); err != nil {
			return nil, err
		}
	}
	return &BenchmarkTable{criteria: criteria}, nil
}

// MustDefaultTable returns the table built from DefaultBenchmarks.
func MustDefaultTable() *BenchmarkTable {
	t, err := NewBenchmarkTable(nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Criteria returns a copy of the criteria in scoring order.
func (t *BenchmarkTable) Criteria() []model.BenchmarkCriterion {
	out := make([]model.BenchmarkCriterion, len(t.criteria))
	copy(out, t.criteria)
	return out
}

// Lookup returns the criterion with the given name.
func (t *BenchmarkTable) Lookup(name string) (model.BenchmarkCriterion, bool) {
	for _, c := range t.criteria {
		if c.Name == name {
			return c, true
		}
	}
	return model.BenchmarkCriterion{}, false
}

// Validate checks that thresholds are ordered consistently with the direction.
func Validate(c model.BenchmarkCriterion) error {
	if c.HigherIsBetter {
		if !(c.HighRisk <= c.Caution && c.Caution <= c.Median) {
			return fmt.Errorf("benchmark %s: expected high_risk <= caution <= median, got %v/%v/%v",
				c.Name, c.HighRisk, c.Caution, c.Median)
		}
		return nil
	}
	if !(c.Median <= c.Caution && c.Caution <= c.HighRisk) {
		return fmt.Errorf("benchmark %s: expected median <= caution <= high_risk, got %v/%v/%v",
			c.Name, c.Median, c.Caution, c.HighRisk)
	}
	return nil
}

// RatioValue picks the ratio named by a benchmark out of a ratio set.
func RatioValue(r model.RatioSet, name string) (float64, bool) {
	switch name {
	case GrossMargin:
		return r.GrossMargin, true
	case OperatingMargin:
		return r.OperatingMargin, true
	case NetMargin:
		return r.NetMargin, true
	case CurrentRatio:
		return r.CurrentRatio, true
	case DebtRatio:
		return r.DebtRatio, true
	default:
		return 0, false
	}
}
