package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/urgency"
)

// Sender delivers a notification message.
type Sender interface {
	SendMessage(ctx context.Context, text string) error
}

// Scheduler periodically checks open reminders and sends a notification the
// first time each one crosses a configured threshold.
type Scheduler struct {
	board      *reminder.Board
	sender     Sender
	thresholds []string
	interval   time.Duration
	logger     *log.Logger

	mu   sync.Mutex
	sent map[string]bool // reminder id + threshold
}

// New creates a Scheduler reading reminders from board.
func New(board *reminder.Board, sender Sender, cfg *config.Config, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		board:      board,
		sender:     sender,
		thresholds: cfg.Notify.Thresholds,
		interval:   cfg.SyncInterval(),
		logger:     logger,
		sent:       make(map[string]bool),
	}
}

// Run blocks and checks reminders on every interval, starting immediately.
// It exits when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.logger.Info("Started", "interval", s.interval, "thresholds", strings.Join(s.thresholds, ","))

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.Check(ctx)
	if err != nil {
		s.logger.Error("Check failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("Notifications sent", "count", n)
	} else {
		s.logger.Debug("Nothing to report")
	}
}

// Check runs one pass over the open reminders and returns the number of
// notifications delivered. A failed send is retried on the next pass.
func (s *Scheduler) Check(ctx context.Context) (int, error) {
	items, err := s.board.List(ctx, reminder.Filter{})
	if err != nil {
		return 0, fmt.Errorf("failed to load reminders: %w", err)
	}
	now := s.board.Engine().Clock()

	sent := 0
	for _, it := range items {
		th, ok := s.crossed(it, now)
		if !ok {
			continue
		}
		key := it.ID + "\x00" + th
		if s.wasSent(key) {
			continue
		}

		if err := s.sender.SendMessage(ctx, FormatNotification(it, th)); err != nil {
			var tgErr *TelegramError
			if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
				s.logger.Warn("Rate limited, deferring the rest to the next pass", "retry_after", tgErr.RetryAfter)
				break
			}
			s.logger.Warn("Send failed", "id", it.ID, "threshold", th, "err", err)
			continue
		}
		s.markSent(key)
		sent++
	}
	return sent, nil
}

// crossed returns the tightest configured threshold the reminder is past.
func (s *Scheduler) crossed(it urgency.Enhanced, now time.Time) (string, bool) {
	if it.Due == nil {
		return "", false
	}
	delta := it.Due.Sub(now)

	var candidates []string
	switch {
	case delta < 0:
		candidates = []string{config.ThresholdOverdue}
	case delta < time.Hour:
		candidates = []string{config.Threshold1h, config.Threshold24h}
	case delta < 24*time.Hour:
		candidates = []string{config.Threshold24h}
	}
	for _, c := range candidates {
		if s.enabled(c) {
			return c, true
		}
	}
	return "", false
}

func (s *Scheduler) enabled(threshold string) bool {
	for _, t := range s.thresholds {
		if t == threshold {
			return true
		}
	}
	return false
}

func (s *Scheduler) wasSent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[key]
}

func (s *Scheduler) markSent(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[key] = true
}

// FormatNotification renders a reminder as a Telegram HTML message.
func FormatNotification(it urgency.Enhanced, threshold string) string {
	var heading string
	switch threshold {
	case config.ThresholdOverdue:
		heading = "🚨 Overdue"
	case config.Threshold1h:
		heading = "⏰ Due within the hour"
	default:
		heading = "📅 Due within 24 hours"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", heading)
	fmt.Fprintf(&b, "<b>%s</b>", html.EscapeString(it.Title))
	if it.Type != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(it.Type))
	}
	b.WriteString("\n")
	if it.FormattedDueDate != nil {
		fmt.Fprintf(&b, "Due: %s", html.EscapeString(*it.FormattedDueDate))
		if it.Result.DueTime != nil {
			fmt.Fprintf(&b, " %s", html.EscapeString(*it.Result.DueTime))
		}
		b.WriteString("\n")
	}
	b.WriteString(html.EscapeString(it.Countdown))
	return b.String()
}
