package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event marks a date cell in the month grid.
type Event struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Event kinds shown on the grid.
const (
	KindHoliday  = "holiday"
	KindExam     = "exam"
	KindReminder = "reminder"
)

// Cell is one day of the month grid.
type Cell struct {
	Date    time.Time `json:"date"`
	InMonth bool      `json:"in_month"`
	Today   bool      `json:"today"`
	Events  []Event   `json:"events,omitempty"`
}

// Grid is a month laid out in Sunday-first weeks. Days of the neighbouring
// months fill the first and last week.
type Grid struct {
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Weeks [][]Cell `json:"weeks"`
}

// MonthGrid lays out month of year with only as many weeks as it needs.
// Holidays are added to the cells; extra maps "YYYY-MM-DD" to further events
// such as exams or reminders.
func (c *Calendar) MonthGrid(year int, month time.Month, now time.Time, extra map[string][]Event) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())
	weeks := (lead + daysInMonth + 6) / 7
	today := now.In(c.loc).Format(dateLayout)

	g := Grid{Year: year, Month: int(month)}
	start := first.AddDate(0, 0, -lead)
	for w := 0; w < weeks; w++ {
		row := make([]Cell, 7)
		for d := range row {
			day := start.AddDate(0, 0, w*7+d)
			key := day.Format(dateLayout)
			cell := Cell{
				Date:    day,
				InMonth: day.Month() == month,
				Today:   key == today,
			}
			for _, h := range c.On(day) {
				cell.Events = append(cell.Events, Event{Label: h.Name, Kind: KindHoliday})
			}
			cell.Events = append(cell.Events, extra[key]...)
			row[d] = cell
		}
		g.Weeks = append(g.Weeks, row)
	}
	return g
}

// ParseMonth accepts a month number or name; empty means no month.
func ParseMonth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d is out of range", n)
		}
		return n, nil
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return int(m), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}
