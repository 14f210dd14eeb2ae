package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ReportDog/internal/model"
)

// Sheet names in workbook order.
const (
	SheetProfile = "基本資料"
	SheetPrices  = "股價"
	SheetRatios  = "財務比率"
	SheetFlows   = "法人籌碼"
	SheetCredit  = "徵信評分"
)

// Filename returns the download name for a dossier workbook.
func Filename(d *model.Dossier) string {
	return fmt.Sprintf("%s_%s_徵信報告.xlsx", d.Code, d.DisplayName())
}

// Workbook renders the dossier as an xlsx file.
func Workbook(d *model.Dossier) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProfile); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetPrices, SheetRatios, SheetFlows, SheetCredit} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	writers := []struct {
		sheet string
		rows  [][]any
	}{
		{SheetProfile, profileRows(d)},
		{SheetPrices, priceRows(d)},
		{SheetRatios, ratioRows(d.Report)},
		{SheetFlows, flowRows(d.Flows)},
		{SheetCredit, creditRows(d.Report)},
	}
	for _, w := range writers {
		if err := writeRows(f, w.sheet, w.rows); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func profileRows(d *model.Dossier) [][]any {
	rows := [][]any{{"項目", "內容"}, {"股票代號", d.Code}, {"公司名稱", d.DisplayName()}}
	p := d.Profile
	if p == nil {
		return append(rows, []any{"備註", "查無基本資料"})
	}
	for _, kv := range [][2]string{
		{"產業別", p.Industry},
		{"董事長", p.Chairman},
		{"總經理", p.GeneralManager},
		{"發言人", p.Spokesperson},
		{"代理發言人", p.ActingSpokesman},
		{"成立日期", p.FoundedDate},
		{"上市日期", p.ListedDate},
		{"統一編號", p.TaxID},
		{"電話", p.Phone},
		{"傳真", p.Fax},
		{"電子郵件", p.Email},
		{"網址", p.Website},
		{"地址", p.Address},
		{"股務代理", p.TransferAgent},
		{"實收資本額", p.PaidInCapital},
		{"已發行股數", p.SharesIssued},
	} {
		rows = append(rows, []any{kv[0], kv[1]})
	}
	summary := p.Summary
	if summary == "" {
		summary = "無簡介"
	}
	return append(rows, []any{"公司簡介", summary})
}

func priceRows(d *model.Dossier) [][]any {
	rows := [][]any{{"日期", "開盤", "最高", "最低", "收盤", "成交量", "MA5", "MA20"}}
	s := d.PriceSummary
	for i, b := range d.Prices {
		row := []any{b.Date.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume}
		if s != nil && i < len(s.MA5) && i < len(s.MA20) {
			row = append(row, s.MA5[i], s.MA20[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func ratioRows(r *model.Report) [][]any {
	rows := [][]any{{"期間", "毛利率(%)", "營業利益率(%)", "淨利率(%)", "ROE(%)", "流動比率(%)", "負債比率(%)",
		"現金流量品質", "Z-Score", "自由現金流(億)", "資產週轉率", "權益乘數", "資料來源"}}
	if r == nil {
		return append(rows, []any{"資料不足"})
	}
	for _, x := range r.Ratios {
		rows = append(rows, []any{x.Period, x.GrossMargin, x.OperatingMargin, x.NetMargin, x.ROE, x.CurrentRatio,
			x.DebtRatio, x.CashFlowQuality, x.ZScore, x.FreeCashFlow, x.AssetTurnover, x.EquityMultiplier, x.SourceURL})
	}
	return rows
}

func flowRows(flows []model.InstitutionalFlow) [][]any {
	rows := [][]any{{"日期", "外資", "投信", "自營商", "合計"}}
	for _, fl := range flows {
		rows = append(rows, []any{fl.Date.Format("2006-01-02"), fl.Foreign, fl.InvestmentTrust, fl.Dealer, fl.Total})
	}
	return rows
}

func creditRows(r *model.Report) [][]any {
	rows := [][]any{{"項目", "數值", "評語", "得分"}}
	if r == nil {
		return append(rows, []any{"資料不足"})
	}
	cr := r.Credit
	for _, d := range cr.Details {
		rows = append(rows, []any{d.Name, d.Value, d.Comment, d.Points})
	}
	return append(rows,
		[]any{},
		[]any{"總分", cr.TotalScore},
		[]any{"信用評級", cr.Grade.String()},
		[]any{"Z-Score", cr.ZScore, cr.ZStatus.Label},
	)
}
