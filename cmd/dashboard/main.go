package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ReportDog/internal/analysis"
	"ReportDog/internal/collector"
	"ReportDog/internal/config"
	"ReportDog/internal/notifier"
	"ReportDog/internal/recorder"
	"ReportDog/internal/scheduler"
	"ReportDog/internal/watchlist"
	"ReportDog/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ReportDog starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	table, err := cfg.BenchmarkTable()
	if err != nil {
		log.Fatalf("[FATAL] benchmark table: %v", err)
	}

	// Init data sources
	client := collector.NewHTTPClient(cfg.Proxy)
	var (
		statements collector.StatementFetcher
		market     collector.MarketFetcher
		news       collector.NewsFetcher
		describer  collector.ProfileFetcher
	)
	if os.Getenv("MOCK_DATA") == "true" {
		mock := &collector.MockFetcher{}
		statements, market, news, describer = mock, mock, mock, mock
	} else {
		yahoo := collector.NewYahooFetcher(client)
		statements, describer = yahoo, yahoo
		market = collector.NewTWSEClient(client, cfg.Sources.TWSEInterval)
		news = collector.NewGoogleNews(client)
	}
	log.Printf("[INFO] statement source: %s", statements.Name())

	analyzer := analysis.NewAnalyzer(collector.NewCachedStatements(statements, cfg.Sources.StatementTTL), table)
	col := collector.NewCollector(market, news, analyzer)
	col.Describer = describer
	col.PriceMonths = cfg.Sources.PriceMonths
	col.FlowDays = cfg.Sources.FlowDays

	// Init watchlist
	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Watchlist.Codes)
	if err != nil {
		log.Fatalf("[FATAL] init watchlist: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, analyzer, wl, tn, rec)
	sched.NameOf = func(code string) string {
		profiles, err := col.Profiles(ctx)
		if err != nil {
			return ""
		}
		return collector.CleanCompanyName(profiles[code].Name)
	}
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	} else {
		log.Println("[WARN] telegram bot token not set, notifications disabled")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunRefreshNow()
	}

	// Start dashboard
	srv := web.NewServer(cfg.Server.ListenAddr, col, analyzer, rec)
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("[ERROR] %v", err)
			cancel()
		}
	}()

	log.Println("[INFO] ReportDog is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] %v", err)
	}
	log.Println("[INFO] ReportDog stopped")
}
