package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/studydesk/internal/calendar"
)

var eventColors = map[string]lipgloss.Color{
	calendar.KindHoliday:  lipgloss.Color("114"),
	calendar.KindExam:     lipgloss.Color("203"),
	calendar.KindReminder: lipgloss.Color("222"),
}

// FormatHolidays renders labelled holidays.
func (f *Formatter) FormatHolidays(entries []calendar.Entry) string {
	if len(entries) == 0 {
		return f.FormatInfo("No holidays found.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Date, e.Name, e.Type, e.Countdown})
	}
	t := f.newTable("DATE", "HOLIDAY", "TYPE", "WHEN").Rows(rows...)
	if f.colored {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 {
				return s.Foreground(lipgloss.Color("81")).Bold(true)
			}
			switch entries[row].Status {
			case calendar.StatusPast:
				return s.Foreground(lipgloss.Color("240"))
			case calendar.StatusToday:
				return s.Foreground(lipgloss.Color("114")).Bold(true)
			}
			return s
		})
	}
	return t.String()
}

// FormatMonth renders a month grid with a legend of the events it holds.
func (f *Formatter) FormatMonth(g calendar.Grid) string {
	var b strings.Builder
	title := fmt.Sprintf("%s %d", time.Month(g.Month), g.Year)
	b.WriteString(f.FormatHeader(fmt.Sprintf("%*s", 10+len(title)/2, title)))
	b.WriteString("\n")
	b.WriteString(f.render(DimStyle, "Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	var legend []string
	for _, week := range g.Weeks {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, f.dayCell(c))
			if !c.InMonth {
				continue
			}
			for _, e := range c.Events {
				legend = append(legend, fmt.Sprintf("%s %s", c.Date.Format("Jan 02"),
					f.render(lipgloss.NewStyle().Foreground(eventColors[e.Kind]), e.Label)))
			}
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	if len(legend) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(legend, "\n"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) dayCell(c calendar.Cell) string {
	text := fmt.Sprintf("%2d", c.Date.Day())
	if !f.colored {
		if !c.InMonth {
			return "  "
		}
		return text
	}

	style := lipgloss.NewStyle()
	switch {
	case !c.InMonth:
		style = style.Foreground(lipgloss.Color("238"))
	case c.Today:
		style = style.Reverse(true).Bold(true)
	case len(c.Events) > 0:
		style = style.Foreground(eventColors[c.Events[0].Kind]).Bold(true)
	}
	return style.Render(text)
}
