package desk

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/parse"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/timetable"
)

func newTestDesk(t *testing.T) *Desk {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Database.Path = filepath.Join(t.TempDir(), "desk.db")
	cfg.Timezone = "UTC"

	d, err := Open(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("open desk: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	d := newTestDesk(t)
	now := d.Now()

	due := now.AddDate(0, 0, 2).Format("2006-01-02")
	if _, err := d.Board.Store().Add(ctx, reminder.Reminder{Title: "Essay", Type: reminder.TypeAssignment, DueDate: &due}); err != nil {
		t.Fatal(err)
	}
	examDay := now.AddDate(0, 0, 3)
	if _, err := d.Timetable.AddExam(ctx, timetable.Exam{Subject: "DBMS", Date: examDay.Format("2006-01-02"), Time: "10:00"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Timetable.AddClass(ctx, timetable.ClassEntry{Day: timetable.DayOf(now), StartTime: "09:00", EndTime: "10:00", SubjectName: "Maths"}); err != nil {
		t.Fatal(err)
	}

	r, err := d.Report(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Stats.Total != 1 || len(r.Reminders) != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
	if r.Day != timetable.DayOf(now) || len(r.Classes) != 1 {
		t.Errorf("day = %s, classes = %+v", r.Day, r.Classes)
	}
	if r.NextExam == nil || r.NextExam.Exam.Subject != "DBMS" {
		t.Errorf("next exam = %+v", r.NextExam)
	}
	if !strings.Contains(r.Markdown(), "Essay") {
		t.Error("markdown is missing the reminder")
	}

	events, err := d.MonthEvents(ctx, examDay.Year(), examDay.Month())
	if err != nil {
		t.Fatal(err)
	}
	got := events[examDay.Format("2006-01-02")]
	if len(got) != 1 || got[0].Label != "DBMS exam" {
		t.Errorf("exam events = %+v", got)
	}
}

func TestSaveDraft(t *testing.T) {
	ctx := context.Background()
	d := newTestDesk(t)

	draft := parse.Message("DBMS exam tomorrow at 10am", d.Now())
	r, err := d.SaveDraft(ctx, draft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if r.Type != "exam" || r.DueDate == nil {
		t.Errorf("saved = %+v", r)
	}

	items, _ := d.Board.List(ctx, reminder.Filter{})
	if len(items) != 1 || items[0].Status != "due_tomorrow" {
		t.Errorf("items = %+v", items)
	}
}

func TestTools(t *testing.T) {
	d := newTestDesk(t)
	names := map[string]bool{}
	for _, tool := range d.Tools() {
		names[tool.Tool.Name] = true
	}
	for _, want := range []string{"get_timetable", "add_exam", "next_exam", "calculate_cgpa", "calculate_attendance", "list_holidays"} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
	if d.MCPServer() == nil {
		t.Error("nil MCP server")
	}
}

func TestOpenBadHolidayFile(t *testing.T) {
	cfg, _ := config.Load("")
	cfg.Database.Path = filepath.Join(t.TempDir(), "desk.db")
	cfg.Holidays.File = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Open(cfg, log.New(io.Discard)); err == nil {
		t.Error("expected an error for a missing holiday file")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "debug"}}
	if l := NewLogger(cfg, "x"); l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}
