// Package desk wires the stores, calculators and calendar into one
// application used by the CLI, the shell, the MCP server and the notifier.
package desk

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/studydesk/internal/academics"
	"github.com/notexe/studydesk/internal/calendar"
	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/parse"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/store"
	"github.com/notexe/studydesk/internal/timetable"
	"github.com/notexe/studydesk/internal/ui"
	"github.com/notexe/studydesk/internal/urgency"
)

// Desk holds the opened database and every service built on it.
type Desk struct {
	Config    *config.Config
	Logger    *log.Logger
	Board     *reminder.Board
	Timetable *timetable.Store
	Academics *academics.Service
	Calendar  *calendar.Calendar

	db *sql.DB
}

// NewLogger returns a stderr logger at the configured level.
func NewLogger(cfg *config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// Open opens the database and builds every component from cfg.
func Open(cfg *config.Config, logger *log.Logger) (*Desk, error) {
	if logger == nil {
		logger = NewLogger(cfg, "studydesk")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	cal := calendar.New(nil, loc)
	if cfg.Holidays.File != "" {
		if cal, err = calendar.Open(cfg.Holidays.File, loc); err != nil {
			return nil, err
		}
		logger.Debug("Loaded holidays", "file", cfg.Holidays.File)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened database", "path", cfg.Database.Path)

	engine := urgency.New(loc, nil)
	return &Desk{
		Config:    cfg,
		Logger:    logger,
		Board:     reminder.NewBoard(reminder.NewStore(db), engine, logger.WithPrefix("board")),
		Timetable: timetable.NewStore(db, loc),
		Academics: academics.NewService(academics.NewHistory(db), cfg.Attendance.MinRequired, cfg.CGPA.Scale, logger.WithPrefix("academics")),
		Calendar:  cal,
		db:        db,
	}, nil
}

// Close closes the database.
func (d *Desk) Close() error {
	return d.db.Close()
}

// Now is the current time in the configured timezone.
func (d *Desk) Now() time.Time {
	return d.Board.Engine().Clock()
}

// Tools returns the non-reminder MCP tools.
func (d *Desk) Tools() []server.ServerTool {
	var tools []server.ServerTool
	tools = append(tools, d.Timetable.Tools()...)
	tools = append(tools, d.Academics.Tools()...)
	tools = append(tools, d.Calendar.Tools(d.Now)...)
	return tools
}

// MCPServer builds the MCP server exposing every tool.
func (d *Desk) MCPServer() *server.MCPServer {
	srv := reminder.NewServer(d.Board)
	srv.AddTools(d.Tools()...)
	return srv.MCPServer()
}

// SaveDraft stores a parsed message as a reminder.
func (d *Desk) SaveDraft(ctx context.Context, draft parse.Draft) (*reminder.Reminder, error) {
	return d.Board.Store().Add(ctx, reminder.FromDraft(draft))
}

// Report gathers the dashboard for the current moment.
func (d *Desk) Report(ctx context.Context) (ui.Report, error) {
	items, err := d.Board.List(ctx, reminder.Filter{})
	if err != nil {
		return ui.Report{}, err
	}
	now := d.Now()
	day := timetable.DayOf(now)

	classes, err := d.Timetable.Classes(ctx, day)
	if err != nil {
		return ui.Report{}, err
	}

	r := ui.Report{
		Now:       now,
		Reminders: items,
		Stats:     reminder.Summarize(items),
		Day:       day,
		Classes:   classes,
	}

	next, ok, err := d.Timetable.NextExam(ctx)
	if err != nil {
		return ui.Report{}, err
	}
	if ok {
		r.NextExam = &next
	}
	if h, ok := d.Calendar.Next(now); ok {
		r.NextHoliday = &h
	}
	return r, nil
}

// MonthEvents collects exams and open reminders falling in month for the
// calendar view, keyed by "YYYY-MM-DD".
func (d *Desk) MonthEvents(ctx context.Context, year int, month time.Month) (map[string][]calendar.Event, error) {
	events := make(map[string][]calendar.Event)
	inMonth := func(t time.Time) bool {
		return t.Year() == year && t.Month() == month
	}
	loc := d.Timetable.Location()

	exams, err := d.Timetable.Exams(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range exams {
		start, err := e.Start(loc)
		if err != nil || !inMonth(start) {
			continue
		}
		key := start.Format("2006-01-02")
		events[key] = append(events[key], calendar.Event{Label: e.Subject + " exam", Kind: calendar.KindExam})
	}

	items, err := d.Board.List(ctx, reminder.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	for _, it := range items {
		if it.Due == nil {
			continue
		}
		due := it.Due.In(loc)
		if !inMonth(due) {
			continue
		}
		key := due.Format("2006-01-02")
		events[key] = append(events[key], calendar.Event{Label: it.Title, Kind: calendar.KindReminder})
	}
	return events, nil
}
