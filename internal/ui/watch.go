package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// WatchKeyMap defines the live view key bindings.
type WatchKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings to show in the footer.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns the same bindings as ShortHelp.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultWatchKeyMap returns the default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LoadFunc builds a fresh report for the live view.
type LoadFunc func(ctx context.Context) (Report, error)

type tickMsg time.Time

type reportMsg struct {
	report Report
	err    error
}

// WatchModel is a live dashboard that reloads on a fixed interval so the
// countdowns stay current.
type WatchModel struct {
	ctx       context.Context
	load      LoadFunc
	interval  time.Duration
	formatter *Formatter
	limit     int
	keys      WatchKeyMap
	help      help.Model

	report  Report
	err     error
	loaded  bool
	updated time.Time
}

// NewWatchModel creates the live view. limit caps the reminders shown.
func NewWatchModel(ctx context.Context, load LoadFunc, interval time.Duration, formatter *Formatter, limit int) *WatchModel {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if limit <= 0 {
		limit = 10
	}
	return &WatchModel{
		ctx:       ctx,
		load:      load,
		interval:  interval,
		formatter: formatter,
		limit:     limit,
		keys:      DefaultWatchKeyMap(),
		help:      help.New(),
	}
}

func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m *WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *WatchModel) refresh() tea.Cmd {
	return func() tea.Msg {
		r, err := m.load(m.ctx)
		return reportMsg{report: r, err: err}
	}
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())
	case reportMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.updated = msg.report.Now
		}
	}
	return m, nil
}

func (m *WatchModel) View() string {
	f := m.formatter
	if !m.loaded {
		return f.FormatSystem("Loading...") + "\n"
	}

	var b strings.Builder
	b.WriteString(f.FormatHeader("StudyDesk · " + m.updated.Format("Mon Jan 2 03:04 PM")))
	b.WriteString("\n")
	b.WriteString(f.FormatStats(m.report.Stats))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(f.FormatError(m.err))
		b.WriteString("\n\n")
	}

	items := m.report.Reminders
	if len(items) > m.limit {
		items = items[:m.limit]
	}
	b.WriteString(f.FormatReminders(items))
	b.WriteString("\n")

	if m.report.NextExam != nil {
		b.WriteString("\n")
		b.WriteString(f.FormatCountdown(*m.report.NextExam))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString(f.render(DimStyle, " · updates every "+m.interval.String()))
	b.WriteString("\n")
	return b.String()
}

// RunWatch runs the live view until the user quits or ctx is cancelled.
func RunWatch(ctx context.Context, load LoadFunc, interval time.Duration, formatter *Formatter) error {
	p := tea.NewProgram(
		NewWatchModel(ctx, load, interval, formatter, 0),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
