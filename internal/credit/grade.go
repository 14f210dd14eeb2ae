package credit

import "ReportDog/internal/model"

// Grades maps the total score to a letter grade, evaluated top-down.
var Grades = []struct {
	MinScore int
	Grade    model.Grade
}{
	{90, model.Grade{Letter: "AAA", Label: "極優"}},
	{80, model.Grade{Letter: "AA", Label: "優異"}},
	{70, model.Grade{Letter: "A", Label: "良好"}},
	{60, model.Grade{Letter: "B", Label: "尚可"}},
}

// DefaultGrade is the grade for scores below every band.
var DefaultGrade = model.Grade{Letter: "C", Label: "高風險"}

// GradeFor maps a total score to its grade.
func GradeFor(total int) model.Grade {
	for _, g := range Grades {
		if total >= g.MinScore {
			return g.Grade
		}
	}
	return DefaultGrade
}

// Z-Score zone boundaries. A value equal to a boundary belongs to the lower zone.
const (
	ZSafeAbove = 2.99
	ZGreyAbove = 1.81
)

// ClassifyZScore maps a Z-Score to its status band.
func ClassifyZScore(z float64) model.ZStatus {
	switch {
	case z > ZSafeAbove:
		return model.ZStatus{Zone: model.ZoneSafe, Label: "安全區 (Safe)"}
	case z > ZGreyAbove:
		return model.ZStatus{Zone: model.ZoneGrey, Label: "灰色警示 (Grey)"}
	default:
		return model.ZStatus{Zone: model.ZoneDistress, Label: "破產高險 (Distress)"}
	}
}
