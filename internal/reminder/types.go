package reminder

import (
	"strings"
	"time"

	"github.com/notexe/studydesk/internal/urgency"
)

// Reminder types. The set is open; unknown types are stored as given.
const (
	TypeExam       = "exam"
	TypeAssignment = "assignment"
	TypeProject    = "project"
	TypeLab        = "lab"
)

// Reminder represents a stored reminder item. DueDate is kept exactly as it
// was submitted and may be missing or malformed.
type Reminder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	DueDate     *string   `json:"due_date"`
	DueTime     *string   `json:"due_time,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record returns the fields the urgency engine reads.
func (r Reminder) Record() urgency.Record {
	return urgency.Record{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
	}
}

// DuplicateKey identifies reminders that describe the same item: same title
// and type ignoring case, same due date string.
func DuplicateKey(r Reminder) string {
	due := ""
	if r.DueDate != nil {
		due = strings.TrimSpace(*r.DueDate)
	}
	return strings.ToLower(strings.TrimSpace(r.Title)) + "\x00" +
		strings.ToLower(strings.TrimSpace(r.Type)) + "\x00" + due
}

// RemoveDuplicates returns reminders with later duplicates dropped, keeping
// the first occurrence of each key in order.
func RemoveDuplicates(reminders []Reminder) []Reminder {
	seen := make(map[string]bool, len(reminders))
	out := make([]Reminder, 0, len(reminders))
	for _, r := range reminders {
		k := DuplicateKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// Filter narrows a classified reminder list. Empty fields match everything.
// Urgency matches a priority for "critical" and "urgent" and a status otherwise.
type Filter struct {
	Type             string
	Urgency          string
	IncludeCompleted bool
}

// Match reports whether e passes the filter.
func (f Filter) Match(e urgency.Enhanced) bool {
	if f.Type != "" && f.Type != "all" && !strings.EqualFold(e.Type, f.Type) {
		return false
	}
	switch f.Urgency {
	case "", "all":
		return true
	case string(urgency.PriorityCritical), string(urgency.PriorityUrgent):
		return string(e.Priority) == f.Urgency
	default:
		return string(e.Status) == f.Urgency
	}
}

// Stats summarizes a classified reminder list for the dashboard header.
type Stats struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Urgent   int `json:"urgent"`
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
}

// Summarize counts reminders by priority and status.
func Summarize(items []urgency.Enhanced) Stats {
	s := Stats{Total: len(items)}
	for _, it := range items {
		switch it.Priority {
		case urgency.PriorityCritical:
			s.Critical++
		case urgency.PriorityUrgent:
			s.Urgent++
		}
		switch it.Status {
		case urgency.StatusOverdue:
			s.Overdue++
		case urgency.StatusDueNow, urgency.StatusDueSoon, urgency.StatusDueToday:
			s.DueToday++
		}
	}
	return s
}
