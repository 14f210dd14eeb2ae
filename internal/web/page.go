package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"ReportDog/internal/model"
)

// recentBars is how many trading days the price table shows.
const recentBars = 20

type errorPage struct {
	Code    string
	Message string
}

type stockPage struct {
	*model.Dossier
	Name       string
	RecentBars []priceRow
	Insights   []template.HTML
	DuPont     template.HTML
}

type priceRow struct {
	model.PriceBar
	MA5, MA20 float64
}

func (s *Server) newStockPage(d *model.Dossier) stockPage {
	p := stockPage{Dossier: d, Name: d.DisplayName()}

	start := max(len(d.Prices)-recentBars, 0)
	for i := len(d.Prices) - 1; i >= start; i-- {
		row := priceRow{PriceBar: d.Prices[i]}
		if ps := d.PriceSummary; ps != nil && i < len(ps.MA5) && i < len(ps.MA20) {
			row.MA5, row.MA20 = ps.MA5[i], ps.MA20[i]
		}
		p.RecentBars = append(p.RecentBars, row)
	}

	if d.Report != nil {
		for _, line := range d.Report.Insights {
			p.Insights = append(p.Insights, s.markdown(line))
		}
		p.DuPont = s.markdown(d.Report.DuPont.Commentary)
	}
	return p
}

// markdown renders one insight line. Raw HTML in the source is not passed through.
func (s *Server) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		log.Printf("[WARN] render markdown: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"shares": func(v any) string {
			switch n := v.(type) {
			case int64:
				return humanize.Comma(n)
			case float64:
				return humanize.Comma(int64(n))
			}
			return fmt.Sprint(v)
		},
		"date":     func(t time.Time) string { return t.Format("2006-01-02") },
		"position": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}
}
