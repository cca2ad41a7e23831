package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if cfg.CountdownInterval() != 30*time.Second || cfg.SyncInterval() != 5*time.Minute {
		t.Errorf("intervals = %v / %v", cfg.CountdownInterval(), cfg.SyncInterval())
	}
	if !strings.HasSuffix(cfg.Database.Path, filepath.Join(".studydesk", "studydesk.db")) || strings.HasPrefix(cfg.Database.Path, "~") {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if len(cfg.Notify.Thresholds) != 3 || cfg.Attendance.MinRequired != 75 || cfg.CGPA.Scale != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Errorf("location = %v", loc)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `timezone: Asia/Kolkata
refresh:
  countdown: 10
attendance:
  min_required: 80
notify:
  enabled: true
  telegram:
    chat_id: "12345"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("TELEGRAM_CHAT_ID", "ignored")
	t.Setenv("STUDYDESK_CGPA__SCALE", "4")
	t.Setenv("STUDYDESK_NOTIFY__THRESHOLDS", "1h, overdue")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.Refresh.Countdown != 10 || cfg.Refresh.Sync != 300 {
		t.Errorf("refresh = %+v", cfg.Refresh)
	}
	if cfg.Attendance.MinRequired != 80 || cfg.CGPA.Scale != 4 {
		t.Errorf("attendance/cgpa = %v / %v", cfg.Attendance.MinRequired, cfg.CGPA.Scale)
	}
	if cfg.Notify.Telegram.BotToken != "token-from-env" || cfg.Notify.Telegram.ChatID != "12345" {
		t.Errorf("telegram = %+v", cfg.Notify.Telegram)
	}
	if len(cfg.Notify.Thresholds) != 2 || cfg.Notify.Thresholds[0] != "1h" || cfg.Notify.Thresholds[1] != "overdue" {
		t.Errorf("thresholds = %q", cfg.Notify.Thresholds)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Errorf("location = %v, %v", loc, err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Refresh.Countdown != 30 {
		t.Errorf("countdown = %d", cfg.Refresh.Countdown)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database:   DatabaseConfig{Path: "/tmp/x.db"},
			Refresh:    RefreshConfig{Countdown: 30, Sync: 300},
			Log:        LogConfig{Level: "info"},
			Attendance: AttendanceConfig{MinRequired: 75},
			CGPA:       CGPAConfig{Scale: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty path", func(c *Config) { c.Database.Path = "" }, "database path"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"zero countdown", func(c *Config) { c.Refresh.Countdown = 0 }, "refresh.countdown"},
		{"zero sync", func(c *Config) { c.Refresh.Sync = -1 }, "refresh.sync"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad threshold", func(c *Config) { c.Notify.Thresholds = []string{"2h"} }, "threshold"},
		{"missing telegram", func(c *Config) { c.Notify.Enabled = true }, "telegram"},
		{"attendance range", func(c *Config) { c.Attendance.MinRequired = 101 }, "min_required"},
		{"bad scale", func(c *Config) { c.CGPA.Scale = 7 }, "cgpa.scale"},
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
