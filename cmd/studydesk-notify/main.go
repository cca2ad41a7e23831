// Command studydesk-notify sends Telegram messages when reminders cross the
// 24-hour, 1-hour and overdue marks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/desk"
	"github.com/notexe/studydesk/internal/scheduler"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	once := flag.Bool("once", false, "Check reminders once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Notify.Enabled {
		fmt.Fprintln(os.Stderr, "Notifications are disabled. Set notify.enabled: true (or STUDYDESK_NOTIFY__ENABLED=true) to run the notifier.")
		os.Exit(1)
	}

	logger := desk.NewLogger(cfg, "notify")
	d, err := desk.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	sender := scheduler.NewTelegramSender(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	sched := scheduler.New(d.Board, sender, cfg, logger.WithPrefix("scheduler"))

	if *once {
		n, err := sched.Check(ctx)
		if err != nil {
			logger.Error("check failed", "err", err)
			d.Close()
			os.Exit(1)
		}
		logger.Info("check complete", "sent", n)
		return
	}

	if err := sched.Run(ctx); err != nil {
		logger.Error("notifier stopped", "err", err)
		d.Close()
		os.Exit(1)
	}
}
