package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"ReportDog/internal/model"
	"ReportDog/internal/watchlist"
)

// HelpText lists the supported bot commands.
const HelpText = "可用命令:\n• /report &lt;代號&gt; 徵信報告\n• /watch &lt;代號&gt; 加入追蹤\n• /unwatch &lt;代號&gt; 取消追蹤\n• /watchlist 追蹤清單"

// FormatCreditDigest formats a credit report into a Telegram message.
func FormatCreditDigest(name string, report *model.Report) string {
	var b strings.Builder
	cr := report.Credit

	b.WriteString(fmt.Sprintf("🏦 <b>%s (%s) 徵信報告</b> | %s\n\n",
		html.EscapeString(name), report.Code, report.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("信用評級: <b>%s</b> | 總分 %d/100\n", html.EscapeString(cr.Grade.String()), cr.TotalScore))
	b.WriteString(fmt.Sprintf("Z-Score: %.2f %s\n", cr.ZScore, cr.ZStatus.Label))
	if latest := report.Latest(); latest.Period != "" {
		b.WriteString(fmt.Sprintf("自由現金流: %.2f 億 (%s)\n", latest.FreeCashFlow, latest.Period))
	}

	b.WriteString("\n📊 <b>五力評分明細:</b>\n")
	for _, d := range cr.Details {
		b.WriteString(fmt.Sprintf("  %s: %.2f%% %s (%d)\n", d.Name, d.Value, d.Comment, d.Points))
	}

	if len(report.Insights) > 0 {
		b.WriteString("\n💡 <b>重點解讀:</b>\n")
		for _, line := range report.Insights {
			b.WriteString(markdownToHTML(line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(markdownToHTML(report.DuPont.Commentary))
	return b.String()
}

// FormatInsufficientData is the reply when no report can be produced.
func FormatInsufficientData(code string) string {
	return fmt.Sprintf("⚠️ %s 資料不足，無法產生徵信報告。", html.EscapeString(code))
}

// FormatGradeChange formats a watchlist grade change alert.
func FormatGradeChange(name string, c *watchlist.GradeChange) string {
	icon := "🔻"
	verb := "下調"
	if c.Improved() {
		icon = "🔺"
		verb = "上調"
	}
	return fmt.Sprintf("%s <b>評級%s</b> | %s (%s)\n\n%s → <b>%s</b>\n總分: %d → %d",
		icon, verb, html.EscapeString(name), c.Code,
		html.EscapeString(c.From.String()), html.EscapeString(c.To.String()), c.FromScore, c.ToScore)
}

// FormatWatchlist formats the watched codes with their last known grade.
func FormatWatchlist(codes []string, lookup func(code string) (watchlist.Entry, bool)) string {
	if len(codes) == 0 {
		return "📋 追蹤清單是空的。使用 /watch &lt;代號&gt; 加入。"
	}
	var b strings.Builder
	b.WriteString("📋 <b>追蹤清單</b>\n\n")
	for _, code := range codes {
		e, ok := lookup(code)
		if !ok {
			b.WriteString(fmt.Sprintf("%s: 尚未評估\n", code))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s | %d 分 | %s (%s)\n",
			code, html.EscapeString(e.Grade.String()), e.Score, e.CheckedAt.Format("2006-01-02"), e.Period))
	}
	return b.String()
}

// FormatRefreshSummary summarises one scheduled refresh.
func FormatRefreshSummary(at time.Time, analysed, failed int) string {
	return fmt.Sprintf("🔄 <b>追蹤清單更新</b> | %s\n成功 %d 檔，資料不足 %d 檔",
		at.Format("2006-01-02 15:04"), analysed, failed)
}

// markdownToHTML escapes text and converts **bold** spans to Telegram HTML.
func markdownToHTML(line string) string {
	parts := strings.Split(html.EscapeString(line), "**")
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString("<b>" + p + "</b>")
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(p)
	}
	return b.String()
}
