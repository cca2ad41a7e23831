package repl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/studydesk/internal/academics"
	"github.com/notexe/studydesk/internal/calendar"
	"github.com/notexe/studydesk/internal/timetable"
	"github.com/notexe/studydesk/internal/urgency"
)

func isUrgency(s string) bool {
	switch s {
	case string(urgency.PriorityCritical), string(urgency.PriorityUrgent):
		return true
	}
	return urgency.Status(s).Valid()
}

func (r *REPL) showDay(ctx context.Context, day string) error {
	now := r.desk.Now()
	clock := ""
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" || day == "today" {
		day = timetable.DayOf(now)
		clock = now.Format("15:04")
	}
	if timetable.DayIndex(day) < 0 {
		return fmt.Errorf("unknown day %q", day)
	}
	classes, err := r.desk.Timetable.Classes(ctx, day)
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatDaySchedule(day, classes, clock))
	return nil
}

func (r *REPL) showExams(ctx context.Context) error {
	exams, err := r.desk.Timetable.Exams(ctx)
	if err != nil {
		return err
	}
	tt := r.desk.Timetable
	r.print(r.formatter.FormatExams(timetable.Schedule(exams, tt.Now(), tt.Location())))
	return nil
}

func (r *REPL) showNextExam(ctx context.Context) error {
	c, ok, err := r.desk.Timetable.NextExam(ctx)
	if err != nil {
		return err
	}
	if !ok {
		r.displayInfo("No upcoming exams.")
		return nil
	}
	r.print(r.formatter.FormatCountdown(c))
	return nil
}

// calculateCGPA reads "sgpa:credits" pairs and an optional "scale=N".
func (r *REPL) calculateCGPA(ctx context.Context, args string) error {
	semesters, scale, err := parseSemesters(strings.Fields(args))
	if err != nil {
		return err
	}
	res, err := r.desk.Academics.CGPA(ctx, semesters, scale)
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatCGPA(res))
	return nil
}

func parseSemesters(fields []string) ([]academics.Semester, int, error) {
	const usage = "usage: /cgpa <sgpa:credits> ... [scale=10|5|4]"
	if len(fields) == 0 {
		return nil, 0, errors.New(usage)
	}

	var semesters []academics.Semester
	scale := 0
	for _, f := range fields {
		if v, ok := strings.CutPrefix(f, "scale="); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, 0, fmt.Errorf("invalid scale %q", v)
			}
			scale = n
			continue
		}
		sem, err := academics.ParseSemester(f)
		if err != nil {
			return nil, 0, fmt.Errorf("%w (%s)", err, usage)
		}
		semesters = append(semesters, sem)
	}
	return semesters, scale, nil
}

// calculateAttendance reads "<attended> <total> [min] [subject...]".
func (r *REPL) calculateAttendance(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return fmt.Errorf("usage: /attendance <attended> <total> [min] [subject]")
	}
	attended, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("invalid attended count %q", fields[0])
	}
	total, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid total count %q", fields[1])
	}

	var minRequired float64
	rest := fields[2:]
	if len(rest) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(rest[0], "%"), 64); err == nil {
			minRequired = v
			rest = rest[1:]
		}
	}

	res, err := r.desk.Academics.Attendance(ctx, attended, total, minRequired, strings.Join(rest, " "))
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatAttendance(res))
	return nil
}

func (r *REPL) showHistory(ctx context.Context, args string) error {
	kind := strings.ToLower(strings.TrimSpace(args))
	switch kind {
	case "", academics.KindCGPA, academics.KindAttendance:
	default:
		return fmt.Errorf("usage: /history [cgpa|attendance]")
	}
	entries, err := r.desk.Academics.History().List(ctx, kind, academics.HistoryShow)
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatHistory(entries))
	return nil
}

func (r *REPL) showHolidays(args string) error {
	month, err := calendar.ParseMonth(args)
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatHolidays(r.desk.Calendar.Find(calendar.Query{Month: month}, r.desk.Now())))
	return nil
}

func (r *REPL) showCalendar(ctx context.Context, args string) error {
	now := r.desk.Now()
	month, err := calendar.ParseMonth(args)
	if err != nil {
		return err
	}
	if month == 0 {
		month = int(now.Month())
	}
	events, err := r.desk.MonthEvents(ctx, now.Year(), time.Month(month))
	if err != nil {
		return err
	}
	grid := r.desk.Calendar.MonthGrid(now.Year(), time.Month(month), now, events)
	r.print(r.formatter.FormatMonth(grid))
	return nil
}
