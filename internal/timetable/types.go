// Package timetable stores the weekly class schedule and the exam calendar
// and computes the countdown to the next exam.
package timetable

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/notexe/studydesk/internal/urgency"
)

var (
	// ErrNotFound is returned when no class or exam has the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps validation failures for classes and exams.
	ErrInvalid = errors.New("invalid entry")
)

// Days lists the schedule days in display order.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Class types offered by the schedule editor. Other values are stored as given.
const (
	ClassLecture   = "lecture"
	ClassLab       = "lab"
	ClassTutorial  = "tutorial"
	ClassPractical = "practical"
)

// ClassEntry is one slot in the weekly timetable. Times are zero-padded
// 24-hour "HH:MM" strings, so lexical order is chronological.
type ClassEntry struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name,omitempty"`
	RoomNumber  string `json:"room_number,omitempty"`
	ClassType   string `json:"class_type,omitempty"`
}

// Normalize lower-cases the day, pads the times and trims text fields.
func (c *ClassEntry) Normalize() {
	c.Day = strings.ToLower(strings.TrimSpace(c.Day))
	if t, ok := urgency.NormalizeHHMM(c.StartTime); ok {
		c.StartTime = t
	}
	if t, ok := urgency.NormalizeHHMM(c.EndTime); ok {
		c.EndTime = t
	}
	c.SubjectName = strings.TrimSpace(c.SubjectName)
	c.TeacherName = strings.TrimSpace(c.TeacherName)
	c.RoomNumber = strings.TrimSpace(c.RoomNumber)
	c.ClassType = strings.ToLower(strings.TrimSpace(c.ClassType))
	if c.ClassType == "" {
		c.ClassType = ClassLecture
	}
}

// Validate checks a normalized entry.
func (c ClassEntry) Validate() error {
	if DayIndex(c.Day) < 0 {
		return fmt.Errorf("%w: unknown day %q", ErrInvalid, c.Day)
	}
	if c.SubjectName == "" {
		return fmt.Errorf("%w: subject name is required", ErrInvalid)
	}
	if _, ok := urgency.NormalizeHHMM(c.StartTime); !ok {
		return fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalid, c.StartTime)
	}
	if _, ok := urgency.NormalizeHHMM(c.EndTime); !ok {
		return fmt.Errorf("%w: end time %q is not HH:MM", ErrInvalid, c.EndTime)
	}
	if c.StartTime >= c.EndTime {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalid)
	}
	return nil
}

// DayIndex returns the position of day in Days, or -1.
func DayIndex(day string) int {
	day = strings.ToLower(day)
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// DayOf returns the schedule day name for t.
func DayOf(t time.Time) string {
	return Days[(int(t.Weekday())+6)%7]
}

// DaySchedule returns the entries for day ordered by start time.
func DaySchedule(entries []ClassEntry, day string) []ClassEntry {
	day = strings.ToLower(day)
	out := make([]ClassEntry, 0, len(entries))
	for _, e := range entries {
		if e.Day == day {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Exam is one entry in the exam calendar. Date is "YYYY-MM-DD" and Time is
// "HH:MM" in the configured timezone.
type Exam struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Session  string `json:"session,omitempty"`
	Location string `json:"location,omitempty"`
}

const dateLayout = "2006-01-02"

// Start resolves the exam's date and time to an instant in loc.
func (e Exam) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(e.Date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: exam date %q is not YYYY-MM-DD", ErrInvalid, e.Date)
	}
	h, m, ok := urgency.ParseHHMM(e.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: exam time %q is not HH:MM", ErrInvalid, e.Time)
	}
	return urgency.AtClock(day, h, m, loc), nil
}

// Validate checks required fields and that the exam is not on a past day.
func (e Exam) Validate(now time.Time, loc *time.Location) error {
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalid)
	}
	start, err := e.Start(loc)
	if err != nil {
		return err
	}
	if urgency.CalendarDays(now, start, loc) < 0 {
		return fmt.Errorf("%w: exam date cannot be in the past", ErrInvalid)
	}
	return nil
}
