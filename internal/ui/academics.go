package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/studydesk/internal/academics"
)

// FormatCGPA renders a CGPA result with its per-semester breakdown.
func (f *Formatter) FormatCGPA(r *academics.CGPAResult) string {
	rows := make([][]string, 0, len(r.Semesters))
	for _, s := range r.Semesters {
		rows = append(rows, []string{
			s.Semester,
			fmt.Sprintf("%.2f", s.SGPA),
			trimFloat(s.Credits),
			fmt.Sprintf("%.2f", s.GradePoints),
		})
	}
	t := f.newTable("SEMESTER", "SGPA", "CREDITS", "POINTS").Rows(rows...)

	lines := []string{
		f.render(SuccessStyle, fmt.Sprintf("CGPA %.2f", r.CGPA)) + f.render(DimStyle, fmt.Sprintf(" / %d", r.Scale)),
		f.render(DimStyle, fmt.Sprintf("%s credits · %.2f grade points", trimFloat(r.TotalCredits), r.TotalGradePoints)),
	}
	if r.GPA4 != nil && r.GPA5 != nil {
		lines = append(lines, f.render(AccentStyle, fmt.Sprintf("4-point %.2f · 5-point %.2f", *r.GPA4, *r.GPA5)))
	}
	return f.FormatBox("CGPA", strings.Join(lines, "\n")) + "\n" + t.String()
}

// FormatAttendance renders an attendance check.
func (f *Formatter) FormatAttendance(r *academics.AttendanceResult) string {
	style := SuccessStyle
	if r.Status == academics.StatusAtRisk {
		style = ErrorStyle
	}

	title := "Attendance"
	if r.Subject != "" {
		title += " · " + r.Subject
	}
	lines := []string{
		f.render(style, fmt.Sprintf("%.2f%%", r.CurrentPercent)) +
			f.render(DimStyle, fmt.Sprintf(" (%d/%d, need %s%%)", r.Attended, r.Total, trimFloat(r.MinRequired))),
		r.Message,
		f.render(InfoStyle, r.Recommendation),
	}
	return f.FormatBox(title, strings.Join(lines, "\n"))
}

// FormatHistory renders saved calculations, newest last.
func (f *Formatter) FormatHistory(entries []academics.Entry) string {
	if len(entries) == 0 {
		return f.FormatInfo("No saved calculations.")
	}
	var lines []string
	for _, e := range entries {
		stamp := f.render(DimStyle, e.Timestamp.Format("Jan 2 15:04"))
		switch e.Kind {
		case academics.KindCGPA:
			var r academics.CGPAResult
			if err := e.Decode(&r); err != nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s  CGPA %.2f over %s credits", stamp, r.CGPA, trimFloat(r.TotalCredits)))
		case academics.KindAttendance:
			var r academics.AttendanceResult
			if err := e.Decode(&r); err != nil {
				continue
			}
			subject := r.Subject
			if subject == "" {
				subject = "attendance"
			}
			status := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
			if r.Status == academics.StatusAtRisk {
				status = status.Foreground(lipgloss.Color("203"))
			}
			lines = append(lines, fmt.Sprintf("%s  %s %.2f%% %s", stamp, subject, r.CurrentPercent, f.render(status, r.Status)))
		}
	}
	return strings.Join(lines, "\n")
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
