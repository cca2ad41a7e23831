package timetable

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/notexe/studydesk/internal/store"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewStore(db, time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func TestDaySchedule(t *testing.T) {
	entries := []ClassEntry{
		{Day: "monday", StartTime: "13:00", SubjectName: "Networks"},
		{Day: "tuesday", StartTime: "08:00", SubjectName: "Maths"},
		{Day: "monday", StartTime: "09:00", SubjectName: "Compilers"},
		{Day: "monday", StartTime: "09:00", SubjectName: "Compilers Lab"},
	}

	got := DaySchedule(entries, "Monday")
	want := []string{"Compilers", "Compilers Lab", "Networks"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].SubjectName != want[i] {
			t.Errorf("entry %d = %s, want %s", i, got[i].SubjectName, want[i])
		}
	}

	if len(DaySchedule(entries, "sunday")) != 0 {
		t.Error("sunday should be empty")
	}
}

func TestExamCountdown(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		exam Exam
		text string
		tone Tone
	}{
		{"days", Exam{Date: "2025-03-12", Time: "09:30"}, "2d 1h 30m", ToneDays},
		{"hours", Exam{Date: "2025-03-10", Time: "11:15"}, "3h 15m", ToneHours},
		{"minutes", Exam{Date: "2025-03-10", Time: "08:45"}, "45m", ToneMinutes},
		{"starting", Exam{Date: "2025-03-10", Time: "08:00"}, "0m", ToneMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ExamCountdown(tt.exam, now, time.UTC)
			if !ok {
				t.Fatal("expected a countdown")
			}
			if c.Text != tt.text || c.Tone != tt.tone {
				t.Errorf("got %q/%s, want %q/%s", c.Text, c.Tone, tt.text, tt.tone)
			}
		})
	}

	if _, ok := ExamCountdown(Exam{Date: "2025-03-10", Time: "07:59"}, now, time.UTC); ok {
		t.Error("started exam should have no countdown")
	}
	if _, ok := ExamCountdown(Exam{Date: "10/03/2025", Time: "09:00"}, now, time.UTC); ok {
		t.Error("unreadable date should have no countdown")
	}
}

func TestExamCountdownUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // 05:30 IST

	c, ok := ExamCountdown(Exam{Date: "2025-03-10", Time: "09:30"}, now, ist)
	if !ok || c.Text != "4h 0m" {
		t.Errorf("countdown = %+v, %v", c, ok)
	}
}

func TestNextExamAndSchedule(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	exams := []Exam{
		{Subject: "Physics", Date: "2025-03-14", Time: "09:00"},
		{Subject: "Maths", Date: "2025-03-10", Time: "09:00"},
		{Subject: "Chemistry", Date: "2025-03-11", Time: "14:00"},
		{Subject: "Broken", Date: "soon", Time: "09:00"},
	}

	next, ok := NextExam(exams, now, time.UTC)
	if !ok || next.Exam.Subject != "Chemistry" {
		t.Fatalf("next = %+v, %v", next, ok)
	}
	if next.Text != "1d 2h 0m" {
		t.Errorf("next text = %q", next.Text)
	}

	sched := Schedule(exams, now, time.UTC)
	order := []string{"Maths", "Chemistry", "Physics", "Broken"}
	for i, s := range order {
		if sched[i].Subject != s {
			t.Fatalf("schedule[%d] = %s, want %s", i, sched[i].Subject, s)
		}
	}
	if !sched[0].Past || sched[0].Countdown != "" {
		t.Errorf("maths should be past: %+v", sched[0])
	}
	if sched[1].Countdown != "1d 2h left" {
		t.Errorf("chemistry countdown = %q", sched[1].Countdown)
	}
	if sched[3].Countdown != "" || sched[3].Past {
		t.Errorf("broken exam = %+v", sched[3])
	}

	if _, ok := NextExam(nil, now, time.UTC); ok {
		t.Error("no exams should give no countdown")
	}
}

func TestStoreClasses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	add := func(c ClassEntry) *ClassEntry {
		t.Helper()
		got, err := s.AddClass(ctx, c)
		if err != nil {
			t.Fatalf("add class failed: %v", err)
		}
		return got
	}

	add(ClassEntry{Day: "Tuesday", StartTime: "10:00", EndTime: "11:00", SubjectName: "OS"})
	networks := add(ClassEntry{Day: "monday", StartTime: "13:00", EndTime: "14:00", SubjectName: "Networks"})
	lab := add(ClassEntry{Day: "monday", StartTime: "9:00", EndTime: "11:00", SubjectName: " DS Lab ", ClassType: "Lab"})

	if lab.StartTime != "09:00" || lab.SubjectName != "DS Lab" || lab.ClassType != ClassLab {
		t.Errorf("class not normalized: %+v", lab)
	}
	if networks.ClassType != ClassLecture {
		t.Errorf("default class type = %q", networks.ClassType)
	}

	monday, err := s.Classes(ctx, "monday")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(monday) != 2 || monday[0].SubjectName != "DS Lab" || monday[1].SubjectName != "Networks" {
		t.Errorf("monday = %+v", monday)
	}

	week, _ := s.Classes(ctx, "")
	if len(week) != 3 || week[2].SubjectName != "OS" {
		t.Errorf("week = %+v", week)
	}

	if _, err := s.UpdateClass(ctx, networks.ID, ClassEntry{Day: "friday", StartTime: "15:00", EndTime: "16:00", SubjectName: "Networks"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if friday, _ := s.Classes(ctx, "friday"); len(friday) != 1 {
		t.Errorf("friday = %+v", friday)
	}

	if err := s.DeleteClass(ctx, lab.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.DeleteClass(ctx, lab.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestClassValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	bad := []ClassEntry{
		{Day: "funday", StartTime: "09:00", EndTime: "10:00", SubjectName: "X"},
		{Day: "monday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "monday", StartTime: "25:00", EndTime: "26:00", SubjectName: "X"},
		{Day: "monday", StartTime: "10:00", EndTime: "09:00", SubjectName: "X"},
		{Day: "monday", StartTime: "10:00", EndTime: "10:00", SubjectName: "X"},
	}
	for _, c := range bad {
		if _, err := s.AddClass(ctx, c); !errors.Is(err, ErrInvalid) {
			t.Errorf("AddClass(%+v) = %v, want ErrInvalid", c, err)
		}
	}
}

func TestStoreExams(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	if _, err := s.AddExam(ctx, Exam{Subject: "Old", Date: "2025-03-09", Time: "09:00"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("past exam = %v, want ErrInvalid", err)
	}
	if _, err := s.AddExam(ctx, Exam{Subject: "", Date: "2025-03-12", Time: "09:00"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("blank subject = %v, want ErrInvalid", err)
	}

	// Earlier today is still accepted; it just has no countdown.
	if _, err := s.AddExam(ctx, Exam{Subject: "Morning", Date: "2025-03-10", Time: "7:00"}); err != nil {
		t.Fatalf("add today failed: %v", err)
	}
	dbms, err := s.AddExam(ctx, Exam{Subject: "DBMS", Date: "2025-03-12", Time: "09:30", Session: "FN", Location: "Hall 2"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	exams, err := s.Exams(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(exams) != 2 || exams[0].Subject != "Morning" || exams[0].Time != "07:00" {
		t.Errorf("exams = %+v", exams)
	}

	next, ok, err := s.NextExam(ctx)
	if err != nil || !ok || next.Exam.ID != dbms.ID || next.Text != "2d 1h 30m" {
		t.Errorf("next = %+v, %v, %v", next, ok, err)
	}

	if _, err := s.UpdateExam(ctx, "missing", *dbms); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v", err)
	}
	if err := s.DeleteExam(ctx, dbms.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := s.NextExam(ctx); ok {
		t.Error("no upcoming exams expected after delete")
	}
}
