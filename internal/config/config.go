package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// levels: STUDYDESK_NOTIFY__TELEGRAM__CHAT_ID sets notify.telegram.chat_id.
const EnvPrefix = "STUDYDESK_"

// Notification thresholds.
const (
	Threshold24h     = "24h"
	Threshold1h      = "1h"
	ThresholdOverdue = "overdue"
)

type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Timezone   string           `koanf:"timezone"`
	Refresh    RefreshConfig    `koanf:"refresh"`
	UI         UIConfig         `koanf:"ui"`
	Log        LogConfig        `koanf:"log"`
	Notify     NotifyConfig     `koanf:"notify"`
	Attendance AttendanceConfig `koanf:"attendance"`
	CGPA       CGPAConfig       `koanf:"cgpa"`
	Holidays   HolidaysConfig   `koanf:"holidays"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type RefreshConfig struct {
	Countdown int `koanf:"countdown"` // seconds
	Sync      int `koanf:"sync"`      // seconds
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
	Markdown      bool `koanf:"markdown"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type NotifyConfig struct {
	Enabled    bool           `koanf:"enabled"`
	Thresholds []string       `koanf:"thresholds"`
	Telegram   TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type AttendanceConfig struct {
	MinRequired float64 `koanf:"min_required"`
}

type CGPAConfig struct {
	Scale int `koanf:"scale"`
}

type HolidaysConfig struct {
	File string `koanf:"file"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Same variable names as the Telegram tooling.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" && k.String("notify.telegram.bot_token") == "" {
		k.Set("notify.telegram.bot_token", token)
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" && k.String("notify.telegram.chat_id") == "" {
		k.Set("notify.telegram.chat_id", chatID)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma-separated lists arrive from the environment as one string.
	if len(cfg.Notify.Thresholds) == 1 && strings.Contains(cfg.Notify.Thresholds[0], ",") {
		cfg.Notify.Thresholds = splitList(cfg.Notify.Thresholds[0])
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Holidays.File = expandPath(cfg.Holidays.File)

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Refresh.Countdown <= 0 {
		return fmt.Errorf("refresh.countdown must be positive")
	}

	if c.Refresh.Sync <= 0 {
		return fmt.Errorf("refresh.sync must be positive")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	for _, th := range c.Notify.Thresholds {
		switch th {
		case Threshold24h, Threshold1h, ThresholdOverdue:
		default:
			return fmt.Errorf("unknown notify threshold %q (supported: %s, %s, %s)",
				th, Threshold24h, Threshold1h, ThresholdOverdue)
		}
	}

	if c.Notify.Enabled && (c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == "") {
		return fmt.Errorf("telegram bot token and chat id are required when notifications are enabled (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID or add to config file)")
	}

	if c.Attendance.MinRequired <= 0 || c.Attendance.MinRequired > 100 {
		return fmt.Errorf("attendance.min_required must be between 0 and 100")
	}

	switch c.CGPA.Scale {
	case 10, 5, 4:
	default:
		return fmt.Errorf("cgpa.scale must be 10, 5 or 4")
	}

	return nil
}

// Location resolves the configured timezone. "Local" and "" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CountdownInterval is how often live countdowns are redrawn.
func (c *Config) CountdownInterval() time.Duration {
	return time.Duration(c.Refresh.Countdown) * time.Second
}

// SyncInterval is how often the notifier re-reads reminders.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Refresh.Sync) * time.Second
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
