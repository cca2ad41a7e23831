package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/studydesk/internal/parse"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/urgency"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

// Status colours, most urgent first.
var statusColors = map[urgency.Status]lipgloss.Color{
	urgency.StatusOverdue:     lipgloss.Color("196"),
	urgency.StatusDueNow:      lipgloss.Color("203"),
	urgency.StatusDueSoon:     lipgloss.Color("215"),
	urgency.StatusDueToday:    lipgloss.Color("222"),
	urgency.StatusDueTomorrow: lipgloss.Color("81"),
	urgency.StatusUpcoming:    lipgloss.Color("114"),
	urgency.StatusNoDate:      lipgloss.Color("245"),
}

var statusBadges = map[urgency.Status]string{
	urgency.StatusOverdue:     "🚨",
	urgency.StatusDueNow:      "⏰",
	urgency.StatusDueSoon:     "⚡",
	urgency.StatusDueToday:    "📌",
	urgency.StatusDueTomorrow: "📅",
	urgency.StatusUpcoming:    "🗓",
	urgency.StatusNoDate:      "•",
}

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

// Colored reports whether output carries ANSI styling.
func (f *Formatter) Colored() bool {
	return f.colored
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, "✓ ") + msg
}

func (f *Formatter) FormatWarning(msg string) string {
	return f.render(WarningStyle, "! ") + msg
}

func (f *Formatter) FormatHeader(title string) string {
	return f.render(HeaderStyle, title)
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		return HeaderStyle.Render(title) + "\n" + BoxStyle.Render(content)
	}
	return title + "\n" + content
}

// StatusStyle returns the foreground style for an urgency status.
func StatusStyle(s urgency.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		c = statusColors[urgency.StatusNoDate]
	}
	style := lipgloss.NewStyle().Foreground(c)
	if s == urgency.StatusOverdue || s == urgency.StatusDueNow {
		style = style.Bold(true)
	}
	return style
}

func (f *Formatter) badge(s urgency.Status) string {
	if f.colored {
		if b, ok := statusBadges[s]; ok {
			return b
		}
		return "•"
	}
	return "[" + strings.ToUpper(strings.ReplaceAll(string(s), "_", " ")) + "]"
}

// FormatReminder renders one classified reminder on two lines.
func (f *Formatter) FormatReminder(e urgency.Enhanced) string {
	var b strings.Builder
	b.WriteString(f.badge(e.Status))
	b.WriteString(" ")
	b.WriteString(f.render(TitleStyle, e.Title))
	if e.Type != "" {
		b.WriteString(" ")
		b.WriteString(f.render(DimStyle, "("+e.Type+")"))
	}
	b.WriteString("\n   ")
	b.WriteString(f.render(StatusStyle(e.Status), e.Countdown))
	if e.FormattedDueDate != nil && e.Status != urgency.StatusNoDate {
		due := *e.FormattedDueDate
		if e.Result.DueTime != nil {
			due += " " + *e.Result.DueTime
		}
		b.WriteString(f.render(DimStyle, " · "+due))
	}
	if id := shortID(e.ID); id != "" {
		b.WriteString(f.render(DimStyle, " · "+id))
	}
	return b.String()
}

// FormatReminders renders a list in the order given.
func (f *Formatter) FormatReminders(items []urgency.Enhanced) string {
	if len(items) == 0 {
		return f.FormatInfo("No reminders found.")
	}
	lines := make([]string, 0, len(items))
	for _, e := range items {
		lines = append(lines, f.FormatReminder(e))
	}
	return strings.Join(lines, "\n")
}

// FormatStats renders the dashboard counters on one line.
func (f *Formatter) FormatStats(s reminder.Stats) string {
	parts := []string{
		fmt.Sprintf("%d total", s.Total),
		f.render(StatusStyle(urgency.StatusOverdue), fmt.Sprintf("%d critical", s.Critical)),
		f.render(StatusStyle(urgency.StatusDueSoon), fmt.Sprintf("%d urgent", s.Urgent)),
		f.render(StatusStyle(urgency.StatusOverdue), fmt.Sprintf("%d overdue", s.Overdue)),
		f.render(StatusStyle(urgency.StatusDueToday), fmt.Sprintf("%d due today", s.DueToday)),
	}
	return strings.Join(parts, f.render(DimStyle, " | "))
}

// FormatDraft shows what a parsed message would be saved as.
func (f *Formatter) FormatDraft(d parse.Draft) string {
	due := "none"
	if d.DueDate != nil {
		due = *d.DueDate
		if d.DueTime != nil {
			due += " " + *d.DueTime
		}
	}
	label := func(s string) string { return f.render(DimStyle, s) }
	lines := []string{
		label("Title:       ") + f.render(TitleStyle, d.Title),
		label("Type:        ") + d.Type + label(" ("+d.TypeConfidence+" confidence)"),
		label("Due:         ") + due + label(" ("+d.DateConfidence+" confidence)"),
	}
	if d.Subject != "" {
		lines = append(lines, label("Subject:     ")+d.Subject)
	}
	return f.FormatBox("Parsed reminder", strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (f *Formatter) FormatWelcome(stats reminder.Stats) string {
	title := "StudyDesk"
	help := "Type a reminder in plain words, or /help for commands"
	if !f.colored {
		return strings.Join([]string{"", title, f.FormatStats(stats), help, ""}, "\n")
	}
	body := strings.Join([]string{
		HeaderStyle.Render(title),
		f.FormatStats(stats),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(help),
	}, "\n")
	return "\n" + BoxStyle.Render(body) + "\n"
}

type helpSection struct {
	name     string
	commands [][2]string
}

var shellHelp = []helpSection{
	{"Reminders", [][2]string{
		{"<text>", "Parse text into a reminder draft"},
		{"/save", "Save the last draft"},
		{"/list [type|urgency]", "List open reminders"},
		{"/due", "Reminders needing attention now"},
		{"/done <id>", "Mark a reminder complete"},
		{"/delete <id>", "Delete a reminder"},
		{"/dedupe", "Remove duplicate reminders"},
	}},
	{"Timetable", [][2]string{
		{"/today", "Today's classes"},
		{"/timetable [day]", "Classes for a day"},
		{"/exams", "Exam schedule"},
		{"/next", "Countdown to the next exam"},
	}},
	{"Academics", [][2]string{
		{"/cgpa <sgpa:credits> ...", "Calculate CGPA"},
		{"/attendance <attended> <total> [min]", "Attendance check"},
		{"/holidays [month]", "Holiday list"},
		{"/calendar [month]", "Month view"},
	}},
	{"General", [][2]string{
		{"/report", "Dashboard report"},
		{"/help", "Show this help"},
		{"/quit", "Exit"},
	}},
}

func (f *Formatter) FormatHelp() string {
	cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)

	lines := []string{"", f.render(HeaderStyle, "Commands")}
	for _, sec := range shellHelp {
		lines = append(lines, "", f.render(sectionStyle, sec.name))
		for _, c := range sec.commands {
			lines = append(lines, fmt.Sprintf("  %s  %s",
				f.render(cmdStyle, fmt.Sprintf("%-38s", c[0])), f.render(descStyle, c[1])))
		}
	}
	lines = append(lines, "", f.render(DimStyle, "  Ctrl+C or Ctrl+D to exit"), "")
	return strings.Join(lines, "\n")
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render("desk") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true).Render(" > ")
	}
	return "desk > "
}
