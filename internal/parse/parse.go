// Package parse extracts reminder drafts from pasted messages: a type, a
// title, a course subject, a due date and an optional time of day.
package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/notexe/studydesk/internal/urgency"
)

// Confidence levels reported with a draft.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Draft is a reminder extracted from a message, ready to be reviewed and saved.
type Draft struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	Subject        string  `json:"subject,omitempty"`
	DueDate        *string `json:"due_date"`
	DueTime        *string `json:"due_time,omitempty"`
	TypeConfidence string  `json:"type_confidence"`
	DateConfidence string  `json:"date_confidence"`
}

// Message parses text relative to now.
func Message(text string, now time.Time) Draft {
	typ := Type(text)
	d := Draft{
		Title:          Title(text, typ),
		Description:    text,
		Type:           typ,
		TypeConfidence: ConfidenceMedium,
		DateConfidence: ConfidenceLow,
	}

	lower := strings.ToLower(text)
	if containsAny(lower, typ, "exam", "assignment", "project") {
		d.TypeConfidence = ConfidenceHigh
	}

	if subject, ok := Subject(text); ok {
		d.Subject = subject
		d.Description = "Subject: " + subject + "\n\n" + text
	}

	if due, ok := Date(text, now); ok {
		s := due.Format("2006-01-02")
		d.DueDate = &s
		d.DateConfidence = ConfidenceHigh
	}
	if t, ok := urgency.ParseClockTime(text); ok {
		d.DueTime = &t
	}

	return d
}

var (
	messagePrefix = regexp.MustCompile(`(?i)^(re:|fwd:|subject:|from:|to:)`)
	greeting      = regexp.MustCompile(`(?i)^(hi|hello|dear|students|reminder|notice|important)`)
	articles      = regexp.MustCompile(`(?i)\b(the|a|an)\b`)
	sentenceEnd   = regexp.MustCompile(`[.!?]`)
	spaces        = regexp.MustCompile(`\s+`)

	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)for\s+([\w\s]+?)(?:\s+on|\s+at|\s*$)`),
		regexp.MustCompile(`(?i)in\s+([\w\s]+?)(?:\s+on|\s+at|\s*$)`),
		regexp.MustCompile(`(?i)your\s+([\w\s]+?)\s+(assignment|homework|task|exam|test|quiz|project|presentation)`),
		regexp.MustCompile(`(?i)submit\s+your\s+([\w\s]+?)\s+(assignment|homework|task|exam|test|quiz|project)`),
		regexp.MustCompile(`(?i)([\w\s]+?)\s+(assignment|homework|task|exam|test|quiz|project|presentation)`),
		regexp.MustCompile(`(?i)([\w\s]+?)\s+is\s+due`),
		regexp.MustCompile(`(?i)([\w\s]+?)\s+submission`),
		regexp.MustCompile(`(?i)submit\s+([\w\s]+?)(?:\s+on|\s+at|\s*$)`),
	}
)

// Title picks a short title for a message: the subject phrase around
// "for X", "your X exam" and similar, upper-cased; otherwise the first
// sentence of reasonable length; otherwise "<Type> Reminder".
func Title(text, typ string) string {
	text = strings.TrimSpace(text)
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	firstLine = strings.TrimSpace(messagePrefix.ReplaceAllString(firstLine, ""))

	for _, re := range titlePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := articles.ReplaceAllString(m[1], "")
		title = strings.TrimSpace(spaces.ReplaceAllString(title, " "))
		if len(title) > 2 && len(title) < 50 {
			return strings.ToUpper(title)
		}
	}

	for _, sentence := range sentenceEnd.Split(firstLine, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 10 || len(sentence) >= 100 {
			continue
		}
		sentence = strings.TrimSpace(greeting.ReplaceAllString(sentence, ""))
		if sentence != "" {
			return truncate(sentence, 50)
		}
	}

	if len(firstLine) > 10 {
		return truncate(firstLine, 50)
	}

	return titleCase(typ) + " Reminder"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
