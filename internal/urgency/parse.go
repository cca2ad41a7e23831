package urgency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	doubledOffset = regexp.MustCompile(`([+-]\d{2}:\d{2})[+-]\d{2}:\d{2}$`)
	clockInText   = regexp.MustCompile(`(?i)\b(\d{1,2}):?(\d{2})?\s*(am|pm)\b`)
	clock24       = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Layouts tried before falling back to cast. Offset-less layouts are
// interpreted in the caller's location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// RepairDueDate fixes the two timezone corruptions seen in stored due dates:
// a "+00:00Z" suffix and a doubled "+HH:MM+HH:MM" offset.
func RepairDueDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "+00:00Z") {
		s = strings.TrimSuffix(s, "+00:00Z") + "Z"
	}
	return doubledOffset.ReplaceAllString(s, "$1")
}

// ParseDueDate repairs s and parses it as a timestamp. Values without an
// offset are read as wall-clock time in loc.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	cleaned := RepairDueDate(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t, nil
		}
	}

	t, err := cast.StringToDateInDefaultLocation(cleaned, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: %w", s, err)
	}
	return t, nil
}

// ParseClockTime scans free text for a 12-hour time such as "2pm",
// "10:30 AM" or "1030am" and returns it as 24-hour "HH:MM".
func ParseClockTime(text string) (string, bool) {
	m := clockInText.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	if hours > 23 || minutes > 59 {
		return "", false
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hours < 12 {
			hours += 12
		}
	case "am":
		if hours == 12 {
			hours = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), true
}

// ParseHHMM splits a 24-hour "HH:MM" string.
func ParseHHMM(s string) (hours, minutes int, ok bool) {
	m := clock24.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hours, _ = strconv.Atoi(m[1])
	minutes, _ = strconv.Atoi(m[2])
	if hours > 23 || minutes > 59 {
		return 0, 0, false
	}
	return hours, minutes, true
}

// NormalizeHHMM returns s zero-padded as "HH:MM", or false when s is not a
// valid 24-hour time.
func NormalizeHHMM(s string) (string, bool) {
	h, m, ok := ParseHHMM(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// AtClock returns t's calendar date in loc with the wall clock set to
// hours:minutes and seconds zeroed.
func AtClock(t time.Time, hours, minutes int, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), hours, minutes, 0, 0, loc)
}

// CalendarDays returns the number of calendar days from a to b as seen in loc,
// ignoring time of day.
func CalendarDays(a, b time.Time, loc *time.Location) int {
	return civilDay(b.In(loc)) - civilDay(a.In(loc))
}

func civilDay(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}
