package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ReportDog/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "SQLITE_PATH", "LISTEN_ADDR", "REFRESH_CRON", "WATCHLIST"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen addr: got %q", cfg.Server.ListenAddr)
	}
	if cfg.Schedule.RefreshCron != "0 0 18 * * 1-5" {
		t.Errorf("refresh cron: got %q", cfg.Schedule.RefreshCron)
	}
	if cfg.Sources.TWSEInterval != 500*time.Millisecond || cfg.Sources.PriceMonths != 6 || cfg.Sources.FlowDays != 10 {
		t.Errorf("unexpected source defaults %+v", cfg.Sources)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("sqlite should be off by default, got %q", cfg.Database.SQLitePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
  bot_token: yaml-token
  chat_id: "123"
server:
  listen_addr: ":9000"
sources:
  twse_interval: 2s
watchlist:
  codes: ["2330", "2317"]
benchmarks:
  - name: 負債比率
    median: 40
    caution: 55
    high_risk: 70
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("WATCHLIST", " 2454, 2412 ,,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "123" {
		t.Errorf("unexpected telegram %+v", cfg.Telegram)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("listen addr: got %q", cfg.Server.ListenAddr)
	}
	if cfg.Sources.TWSEInterval != 2*time.Second {
		t.Errorf("twse interval: got %v", cfg.Sources.TWSEInterval)
	}
	if len(cfg.Watchlist.Codes) != 2 || cfg.Watchlist.Codes[0] != "2454" || cfg.Watchlist.Codes[1] != "2412" {
		t.Errorf("env watchlist should replace yaml, got %v", cfg.Watchlist.Codes)
	}
	table, err := cfg.BenchmarkTable()
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := table.Lookup("負債比率"); !ok || c.Median != 40 || c.HigherIsBetter {
		t.Errorf("expected overridden median, got %+v", c)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"bad cron", func(c *Config) { c.Schedule.RefreshCron = "every day" }},
		{"unknown benchmark", func(c *Config) {
			c.Benchmarks = []model.BenchmarkCriterion{{Name: "不存在", Median: 1}}
		}},
		{"inverted thresholds", func(c *Config) {
			c.Benchmarks = []model.BenchmarkCriterion{{Name: "負債比率", Median: 80, Caution: 60, HighRisk: 50}}
		}},
		{"negative flow days", func(c *Config) { c.Sources.FlowDays = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
