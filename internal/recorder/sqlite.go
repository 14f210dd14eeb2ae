package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ReportDog/internal/model"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the web handlers can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			code         TEXT NOT NULL,
			trigger_type TEXT,
			generated_at INTEGER,
			insights     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_code_ts ON analysis_runs(code, timestamp)`,

		`CREATE TABLE IF NOT EXISTS ratio_rows (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL REFERENCES analysis_runs(run_id),
			period            TEXT,
			gross_margin      REAL,
			operating_margin  REAL,
			net_margin        REAL,
			roe               REAL,
			current_ratio     REAL,
			debt_ratio        REAL,
			cash_flow_quality REAL,
			z_score           REAL,
			free_cash_flow    REAL,
			asset_turnover    REAL,
			equity_multiplier REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratio_run ON ratio_rows(run_id)`,

		`CREATE TABLE IF NOT EXISTS credit_reports (
			run_id       TEXT PRIMARY KEY REFERENCES analysis_runs(run_id),
			period       TEXT,
			total_score  INTEGER,
			grade_letter TEXT,
			grade_label  TEXT,
			z_score      REAL,
			z_zone       TEXT,
			implied_roe  REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis writes the run, its ratio rows and its credit report in one transaction.
func (r *SQLiteRecorder) RecordAnalysis(report *model.Report, trigger string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("record analysis: nil report")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	insights := strings.Join(report.Insights, "\n")
	if _, err := tx.Exec(`INSERT INTO analysis_runs
		(run_id, timestamp, code, trigger_type, generated_at, insights)
		VALUES (?,?,?,?,?,?)`,
		runID, r.now().Unix(), report.Code, trigger, report.GeneratedAt.Unix(), insights,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, rs := range report.Ratios {
		if _, err := tx.Exec(`INSERT INTO ratio_rows
			(run_id, period, gross_margin, operating_margin, net_margin, roe,
			 current_ratio, debt_ratio, cash_flow_quality, z_score,
			 free_cash_flow, asset_turnover, equity_multiplier)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, rs.Period, rs.GrossMargin, rs.OperatingMargin, rs.NetMargin, rs.ROE,
			rs.CurrentRatio, rs.DebtRatio, rs.CashFlowQuality, rs.ZScore,
			rs.FreeCashFlow, rs.AssetTurnover, rs.EquityMultiplier,
		); err != nil {
			return "", fmt.Errorf("insert ratio row: %w", err)
		}
	}

	cr := report.Credit
	if _, err := tx.Exec(`INSERT INTO credit_reports
		(run_id, period, total_score, grade_letter, grade_label, z_score, z_zone, implied_roe)
		VALUES (?,?,?,?,?,?,?,?)`,
		runID, report.Latest().Period, cr.TotalScore, cr.Grade.Letter, cr.Grade.Label,
		cr.ZScore, string(cr.ZStatus.Zone), report.DuPont.ImpliedROE,
	); err != nil {
		return "", fmt.Errorf("insert credit report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// ListReports returns up to limit snapshots for code, newest first.
func (r *SQLiteRecorder) ListReports(code string, limit int) ([]ReportSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT a.run_id, a.code, a.trigger_type, a.timestamp,
			c.period, c.total_score, c.grade_letter, c.z_score, c.z_zone
		FROM analysis_runs a JOIN credit_reports c ON c.run_id = a.run_id
		WHERE a.code = ?
		ORDER BY a.timestamp DESC, a.rowid DESC
		LIMIT ?`, code, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSnapshot
	for rows.Next() {
		var s ReportSnapshot
		var ts int64
		if err := rows.Scan(&s.RunID, &s.Code, &s.Trigger, &ts,
			&s.Period, &s.TotalScore, &s.Grade, &s.ZScore, &s.ZZone); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		s.RecordedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
