// Package calendar provides the public holiday list and the month grid used
// by the calendar view.
package calendar

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/notexe/studydesk/internal/urgency"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Holiday types used by the built-in list.
const (
	TypeNational  = "national"
	TypeState     = "state"
	TypeReligious = "religious"
	TypeFestival  = "festival"
)

// Holiday is one public holiday. Date is "YYYY-MM-DD".
type Holiday struct {
	Date        string `yaml:"date" json:"date"`
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// Day returns the holiday's date at midnight in loc.
func (h Holiday) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, h.Date, loc)
}

// Kerala2025 is the built-in holiday list.
var Kerala2025 = []Holiday{
	{"2025-01-01", "New Year's Day", TypeNational, "The first day of the Gregorian calendar year, celebrated worldwide."},
	{"2025-01-14", "Makar Sankranti", TypeReligious, "Hindu festival marking the transition of the sun into Capricorn."},
	{"2025-01-26", "Republic Day", TypeNational, "Commemorates the adoption of the Constitution of India."},
	{"2025-02-26", "Maha Shivratri", TypeReligious, "Hindu festival dedicated to Lord Shiva."},
	{"2025-03-13", "Holi", TypeFestival, "Festival of colors, celebrating the arrival of spring."},
	{"2025-04-13", "Vishu", TypeState, "Malayalam New Year, celebrated with traditional rituals and feasts."},
	{"2025-05-01", "Labour Day", TypeNational, "International Workers Day, celebrating laborers and the working class."},
	{"2025-08-15", "Independence Day", TypeNational, "Commemorates India's independence from British rule in 1947."},
	{"2025-09-05", "Onam (Thiruvonam)", TypeState, "Kerala's most important festival, celebrating King Mahabali's return."},
	{"2025-10-02", "Gandhi Jayanti", TypeNational, "Birthday of Mahatma Gandhi, the Father of the Nation."},
	{"2025-11-09", "Diwali", TypeFestival, "Festival of lights, one of the most important Hindu festivals."},
	{"2025-12-25", "Christmas Day", TypeReligious, "Christian festival celebrating the birth of Jesus Christ."},
}

type holidayFile struct {
	Holidays []Holiday `yaml:"holidays"`
}

// LoadFile reads a YAML holiday list of the form
//
//	holidays:
//	  - date: 2026-01-26
//	    name: Republic Day
//	    type: national
//	    description: ...
func LoadFile(path string) ([]Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	var f holidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file: %w", err)
	}

	for i, h := range f.Holidays {
		if _, err := time.Parse(dateLayout, h.Date); err != nil {
			return nil, fmt.Errorf("holiday %d (%s): date %q is not YYYY-MM-DD", i+1, h.Name, h.Date)
		}
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("holiday %d: name is required", i+1)
		}
	}
	return f.Holidays, nil
}

// Calendar answers holiday queries relative to a timezone.
type Calendar struct {
	holidays []Holiday
	loc      *time.Location
}

// New creates a calendar over holidays, sorted by date. A nil list selects
// the built-in one.
func New(holidays []Holiday, loc *time.Location) *Calendar {
	if holidays == nil {
		holidays = Kerala2025
	}
	if loc == nil {
		loc = time.Local
	}
	sorted := append([]Holiday(nil), holidays...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return &Calendar{holidays: sorted, loc: loc}
}

// Open returns a calendar over the holidays in path, or over the built-in
// list when path is empty.
func Open(path string, loc *time.Location) (*Calendar, error) {
	if path == "" {
		return New(nil, loc), nil
	}
	holidays, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(holidays, loc), nil
}

// Holiday statuses relative to today.
const (
	StatusToday    = "today"
	StatusPast     = "past"
	StatusUpcoming = "upcoming"
)

// Query filters holidays. Zero fields match everything; Search is a
// case-insensitive substring of the name or description.
type Query struct {
	Year   int
	Month  int
	Type   string
	Search string
}

// Entry is a holiday labelled for display on a given day.
type Entry struct {
	Holiday
	Status    string `json:"status"`
	Countdown string `json:"countdown"`
	DaysUntil int    `json:"days_until"`
}

// Find returns the holidays matching q labelled relative to now.
func (c *Calendar) Find(q Query, now time.Time) []Entry {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var out []Entry
	for _, h := range c.holidays {
		day, err := h.Day(c.loc)
		if err != nil {
			continue
		}
		if q.Year != 0 && day.Year() != q.Year {
			continue
		}
		if q.Month != 0 && int(day.Month()) != q.Month {
			continue
		}
		if q.Type != "" && !strings.EqualFold(h.Type, q.Type) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(h.Name), search) &&
			!strings.Contains(strings.ToLower(h.Description), search) {
			continue
		}
		out = append(out, label(h, urgency.CalendarDays(now, day, c.loc)))
	}
	return out
}

// Next returns the first holiday today or later.
func (c *Calendar) Next(now time.Time) (Entry, bool) {
	for _, e := range c.Find(Query{}, now) {
		if e.Status != StatusPast {
			return e, true
		}
	}
	return Entry{}, false
}

// On returns the holidays falling on date's calendar day.
func (c *Calendar) On(date time.Time) []Holiday {
	key := date.In(c.loc).Format(dateLayout)
	var out []Holiday
	for _, h := range c.holidays {
		if h.Date == key {
			out = append(out, h)
		}
	}
	return out
}

func label(h Holiday, days int) Entry {
	e := Entry{Holiday: h, DaysUntil: days}
	switch {
	case days == 0:
		e.Status, e.Countdown = StatusToday, "Today!"
	case days < 0:
		e.Status = StatusPast
	case days == 1:
		e.Status, e.Countdown = StatusUpcoming, "Tomorrow"
	default:
		e.Status, e.Countdown = StatusUpcoming, fmt.Sprintf("In %d days", days)
	}
	return e
}
