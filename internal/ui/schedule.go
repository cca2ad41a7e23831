package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/notexe/studydesk/internal/timetable"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var toneColors = map[timetable.Tone]lipgloss.Color{
	timetable.ToneDays:    lipgloss.Color("114"),
	timetable.ToneHours:   lipgloss.Color("222"),
	timetable.ToneMinutes: lipgloss.Color("203"),
}

var classTypeColors = map[string]lipgloss.Color{
	timetable.ClassLecture:   lipgloss.Color("81"),
	timetable.ClassLab:       lipgloss.Color("215"),
	timetable.ClassTutorial:  lipgloss.Color("147"),
	timetable.ClassPractical: lipgloss.Color("114"),
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func (f *Formatter) newTable(headers ...string) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...)
	if f.colored {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62")))
	}
	return t
}

// FormatDaySchedule renders one day's classes. A class running at clock
// ("HH:MM", empty to disable) is marked as in progress.
func (f *Formatter) FormatDaySchedule(day string, entries []timetable.ClassEntry, clock string) string {
	header := f.FormatHeader(titleCase(day))
	if len(entries) == 0 {
		return header + "\n" + f.FormatInfo("No classes scheduled.")
	}

	rows := make([][]string, 0, len(entries))
	current := -1
	for i, c := range entries {
		time := c.StartTime + "-" + c.EndTime
		if clock != "" && c.StartTime <= clock && clock < c.EndTime {
			current = i
			time = "▶ " + time
		}
		rows = append(rows, []string{time, c.SubjectName, titleCase(c.ClassType), c.TeacherName, c.RoomNumber})
	}

	t := f.newTable("TIME", "SUBJECT", "TYPE", "TEACHER", "ROOM").Rows(rows...)
	if f.colored {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(lipgloss.Color("81")).Bold(true)
			case row == current:
				s = s.Bold(true).Foreground(lipgloss.Color("114"))
			case col == 2:
				if c, ok := classTypeColors[entries[row].ClassType]; ok {
					s = s.Foreground(c)
				}
			}
			return s
		})
	}
	return header + "\n" + t.String()
}

// FormatWeek renders every day that has classes.
func (f *Formatter) FormatWeek(entries []timetable.ClassEntry) string {
	var sections []string
	for _, day := range timetable.Days {
		if classes := timetable.DaySchedule(entries, day); len(classes) > 0 {
			sections = append(sections, f.FormatDaySchedule(day, classes, ""))
		}
	}
	if len(sections) == 0 {
		return f.FormatInfo("The timetable is empty.")
	}
	return strings.Join(sections, "\n\n")
}

// FormatCountdown renders the countdown to an exam coloured by tone.
func (f *Formatter) FormatCountdown(c timetable.Countdown) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(toneColors[c.Tone])
	lines := []string{
		f.render(TitleStyle, c.Exam.Subject),
		f.render(style, c.Text),
		f.render(DimStyle, c.Start.Format("Mon, Jan 2 at 03:04 PM")),
	}
	if where := examWhere(c.Exam); where != "" {
		lines = append(lines, f.render(DimStyle, where))
	}
	return f.FormatBox("Next exam", strings.Join(lines, "\n"))
}

func examWhere(e timetable.Exam) string {
	var parts []string
	if e.Session != "" {
		parts = append(parts, e.Session)
	}
	if e.Location != "" {
		parts = append(parts, e.Location)
	}
	return strings.Join(parts, " · ")
}

// FormatExams renders the exam schedule.
func (f *Formatter) FormatExams(exams []timetable.ExamStatus) string {
	if len(exams) == 0 {
		return f.FormatInfo("No exams scheduled.")
	}
	rows := make([][]string, 0, len(exams))
	for _, e := range exams {
		status := e.Countdown
		if e.Past {
			status = "done"
		}
		rows = append(rows, []string{e.Exam.Date, e.Exam.Time, e.Exam.Subject, examWhere(e.Exam), status, shortID(e.Exam.ID)})
	}

	t := f.newTable("DATE", "TIME", "SUBJECT", "WHERE", "STATUS", "ID").Rows(rows...)
	if f.colored {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Foreground(lipgloss.Color("81")).Bold(true)
			}
			if exams[row].Past {
				return s.Foreground(lipgloss.Color("240"))
			}
			if col == 4 {
				return s.Foreground(lipgloss.Color("222"))
			}
			return s
		})
	}
	return t.String()
}

// FormatClassAdded confirms a saved class.
func (f *Formatter) FormatClassAdded(c *timetable.ClassEntry) string {
	return f.FormatSuccess(fmt.Sprintf("Added %s on %s %s-%s (%s)",
		c.SubjectName, titleCase(c.Day), c.StartTime, c.EndTime, shortID(c.ID)))
}
