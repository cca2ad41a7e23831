package repl

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/desk"
	"github.com/notexe/studydesk/internal/ui"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Database.Path = filepath.Join(t.TempDir(), "shell.db")
	cfg.Timezone = "UTC"

	d, err := desk.Open(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("open desk: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	var buf bytes.Buffer
	return &REPL{desk: d, formatter: ui.NewFormatter(false), out: &buf}, &buf
}

// run feeds one line and returns what it printed.
func run(t *testing.T, r *REPL, buf *bytes.Buffer, line string) (string, error) {
	t.Helper()
	buf.Reset()
	quit, err := r.handleLine(context.Background(), line)
	if quit {
		t.Fatalf("%q unexpectedly quit", line)
	}
	return buf.String(), err
}

func TestDraftSaveAndComplete(t *testing.T) {
	r, buf := newTestREPL(t)
	ctx := context.Background()

	if _, err := run(t, r, buf, "/save"); err == nil || !strings.Contains(err.Error(), "nothing to save") {
		t.Errorf("save without draft: %v", err)
	}

	out, err := run(t, r, buf, "Submit DBMS assignment tomorrow at 5pm")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Parsed reminder") || !strings.Contains(out, "assignment") || !strings.Contains(out, "/save") {
		t.Errorf("draft output:\n%s", out)
	}

	if out, err = run(t, r, buf, "/save"); err != nil || !strings.Contains(out, "Saved") {
		t.Fatalf("save: %q, %v", out, err)
	}
	if _, err := run(t, r, buf, "/save"); err == nil {
		t.Error("second save should have nothing to save")
	}

	run(t, r, buf, "Submit DBMS assignment tomorrow at 5pm")
	if _, err := run(t, r, buf, "/s"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate save: %v", err)
	}

	out, _ = run(t, r, buf, "/list assignment")
	if !strings.Contains(out, "[DUE TOMORROW]") {
		t.Errorf("list:\n%s", out)
	}
	if out, _ = run(t, r, buf, "/list exam"); !strings.Contains(out, "No reminders found.") {
		t.Errorf("exam list:\n%s", out)
	}

	all, err := r.desk.Board.Store().List(ctx, false)
	if err != nil || len(all) != 1 {
		t.Fatalf("stored = %d, %v", len(all), err)
	}
	if _, err := run(t, r, buf, "/done "+all[0].ID[:8]); err != nil {
		t.Fatalf("done: %v", err)
	}
	if out, _ = run(t, r, buf, "/list"); !strings.Contains(out, "No reminders found.") {
		t.Errorf("list after done:\n%s", out)
	}
	if out, _ = run(t, r, buf, "/list all"); !strings.Contains(out, "[DUE TOMORROW]") {
		t.Errorf("list all:\n%s", out)
	}

	if _, err := run(t, r, buf, "/delete nope"); err == nil {
		t.Error("unknown id should fail")
	}
	if _, err := run(t, r, buf, "/delete "+all[0].ID); err != nil {
		t.Errorf("delete: %v", err)
	}
}

func TestCalculatorCommands(t *testing.T) {
	r, buf := newTestREPL(t)

	out, err := run(t, r, buf, "/cgpa 8.5:20 9:22")
	if err != nil || !strings.Contains(out, "CGPA 8.76 / 10") {
		t.Errorf("cgpa: %q, %v", out, err)
	}
	if _, err := run(t, r, buf, "/cgpa 8.5"); err == nil {
		t.Error("malformed pair should fail")
	}

	out, err = run(t, r, buf, "/attendance 30 50 80% Operating Systems")
	if err != nil || !strings.Contains(out, "Attendance · Operating Systems") || !strings.Contains(out, "need 80%") {
		t.Errorf("attendance: %q, %v", out, err)
	}
	if _, err := run(t, r, buf, "/att 60 50"); err == nil {
		t.Error("attended above total should fail")
	}

	out, err = run(t, r, buf, "/history")
	if err != nil || !strings.Contains(out, "CGPA 8.76") || !strings.Contains(out, "Operating Systems 60.00% at_risk") {
		t.Errorf("history: %q, %v", out, err)
	}
	if _, err := run(t, r, buf, "/history grades"); err == nil {
		t.Error("unknown history kind should fail")
	}
}

func TestViewCommands(t *testing.T) {
	r, buf := newTestREPL(t)

	for _, line := range []string{"/today", "/timetable friday", "/exams", "/next", "/holidays aug", "/calendar 2", "/report", "/due", "/dedupe", "/help"} {
		if _, err := run(t, r, buf, line); err != nil {
			t.Errorf("%s: %v", line, err)
		}
	}

	if out, _ := run(t, r, buf, "/next"); !strings.Contains(out, "No upcoming exams.") {
		t.Errorf("next: %q", out)
	}
	if _, err := run(t, r, buf, "/timetable someday"); err == nil {
		t.Error("unknown day should fail")
	}
	if _, err := run(t, r, buf, "/holidays 13"); err == nil {
		t.Error("month 13 should fail")
	}
	if _, err := run(t, r, buf, "/bogus"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("bogus: %v", err)
	}

	quit, err := r.handleLine(context.Background(), "/quit")
	if !quit || err != nil {
		t.Errorf("quit = %v, %v", quit, err)
	}
}
