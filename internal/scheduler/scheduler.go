package scheduler

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"ReportDog/internal/collector"
	"ReportDog/internal/model"
	"ReportDog/internal/notifier"
	"ReportDog/internal/recorder"
	"ReportDog/internal/watchlist"

	"github.com/robfig/cron/v3"
)

var stockCode = regexp.MustCompile(`^[0-9A-Z]{4,6}$`)

// Scheduler manages the refresh cron task and the bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyst   collector.Analyst
	Watchlist *watchlist.Manager
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Ctx       context.Context
	// NameOf resolves a display name for a code; the code itself when nil.
	NameOf func(code string) string
	Now    func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, analyst collector.Analyst, wl *watchlist.Manager, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyst:   analyst,
		Watchlist: wl,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// RegisterAll registers the watchlist refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	codes := s.Watchlist.Codes()
	log.Printf("[INFO] refreshing %d watched codes", len(codes))

	analysed, failed := 0, 0
	for _, code := range codes {
		if s.Ctx.Err() != nil {
			log.Println("[WARN] refresh cancelled")
			return
		}
		report, err := s.analyse(code, recorder.TriggerScheduled)
		if err != nil {
			failed++
			continue
		}
		analysed++
		s.observe(code, report)
	}
	if len(codes) > 0 {
		s.trySend(notifier.FormatRefreshSummary(s.Now(), analysed, failed))
	}
}

// analyse runs the analysis for code and records a snapshot.
func (s *Scheduler) analyse(code, trigger string) (*model.Report, error) {
	report, err := s.Analyst.Analyze(s.Ctx, code)
	if err != nil {
		log.Printf("[WARN] analyse %s: %v", code, err)
		return nil, err
	}
	if _, err := s.Recorder.RecordAnalysis(report, trigger); err != nil {
		log.Printf("[ERROR] record analysis %s: %v", code, err)
	}
	return report, nil
}

// observe updates the watchlist entry and alerts when the grade moved.
func (s *Scheduler) observe(code string, report *model.Report) {
	if change := s.Watchlist.Observe(code, report); change != nil {
		log.Printf("[INFO] %s grade %s -> %s", code, change.From.Letter, change.To.Letter)
		s.trySend(notifier.FormatGradeChange(s.name(code), change))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i] // "/report@ReportDogBot"
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/report", "徵信報告":
		if !stockCode.MatchString(arg) {
			return "用法: /report &lt;代號&gt;，例如 /report 2330"
		}
		report, err := s.analyse(arg, recorder.TriggerCommand)
		if err != nil {
			return notifier.FormatInsufficientData(arg)
		}
		s.observe(arg, report)
		return notifier.FormatCreditDigest(s.name(arg), report)
	case "/watch":
		if !stockCode.MatchString(arg) {
			return "用法: /watch &lt;代號&gt;"
		}
		if !s.Watchlist.Add(arg) {
			return fmt.Sprintf("%s 已在追蹤清單中。", arg)
		}
		return fmt.Sprintf("✅ 已加入 %s。", arg)
	case "/unwatch":
		if !s.Watchlist.Remove(arg) {
			return fmt.Sprintf("%s 不在追蹤清單中。", arg)
		}
		return fmt.Sprintf("🗑 已移除 %s。", arg)
	case "/watchlist", "追蹤清單":
		return notifier.FormatWatchlist(s.Watchlist.Codes(), s.Watchlist.Entry)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) name(code string) string {
	if s.NameOf == nil {
		return code
	}
	if n := s.NameOf(code); n != "" {
		return n
	}
	return code
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
