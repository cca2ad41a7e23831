package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/notexe/studydesk/internal/calendar"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/timetable"
	"github.com/notexe/studydesk/internal/urgency"
)

// Report is everything the dashboard report shows for one moment.
type Report struct {
	Now         time.Time
	Reminders   []urgency.Enhanced
	Stats       reminder.Stats
	Day         string
	Classes     []timetable.ClassEntry
	NextExam    *timetable.Countdown
	NextHoliday *calendar.Entry
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# StudyDesk · %s\n\n", r.Now.Format("Monday, Jan 2 2006 03:04 PM"))
	fmt.Fprintf(&b, "**%d** open · **%d** critical · **%d** urgent · **%d** overdue · **%d** due today\n\n",
		r.Stats.Total, r.Stats.Critical, r.Stats.Urgent, r.Stats.Overdue, r.Stats.DueToday)

	b.WriteString("## Needs attention\n\n")
	pressing := 0
	for _, e := range r.Reminders {
		if !e.Status.Pressing() && e.Status != urgency.StatusDueToday {
			continue
		}
		pressing++
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", escapeMarkdown(e.Title), e.Type, e.Countdown)
	}
	if pressing == 0 {
		b.WriteString("Nothing due today.\n")
	}

	b.WriteString("\n## Upcoming\n\n")
	upcoming := 0
	for _, e := range r.Reminders {
		if e.Status != urgency.StatusDueTomorrow && e.Status != urgency.StatusUpcoming {
			continue
		}
		upcoming++
		due := ""
		if e.FormattedDueDate != nil {
			due = " · " + *e.FormattedDueDate
		}
		fmt.Fprintf(&b, "- %s (%s): %s%s\n", escapeMarkdown(e.Title), e.Type, e.Countdown, due)
	}
	if upcoming == 0 {
		b.WriteString("No upcoming reminders.\n")
	}

	fmt.Fprintf(&b, "\n## Classes · %s\n\n", titleCase(r.Day))
	if len(r.Classes) == 0 {
		b.WriteString("No classes scheduled.\n")
	} else {
		b.WriteString("| Time | Subject | Type | Room |\n|---|---|---|---|\n")
		for _, c := range r.Classes {
			fmt.Fprintf(&b, "| %s-%s | %s | %s | %s |\n", c.StartTime, c.EndTime,
				escapeMarkdown(c.SubjectName), c.ClassType, escapeMarkdown(c.RoomNumber))
		}
	}

	b.WriteString("\n## Next exam\n\n")
	if r.NextExam == nil {
		b.WriteString("No upcoming exams.\n")
	} else {
		fmt.Fprintf(&b, "**%s** in %s (%s)\n", escapeMarkdown(r.NextExam.Exam.Subject),
			r.NextExam.Text, r.NextExam.Start.Format("Mon, Jan 2 03:04 PM"))
	}

	if r.NextHoliday != nil {
		fmt.Fprintf(&b, "\n## Next holiday\n\n%s · %s\n", r.NextHoliday.Name, r.NextHoliday.Countdown)
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

// RenderMarkdown renders markdown for the terminal. Plain formatters return
// the source unchanged.
func (f *Formatter) RenderMarkdown(md string) string {
	if !f.colored {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimSpace(rendered)
}
