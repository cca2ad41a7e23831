package urgency

import (
	"encoding/json"
	"time"
)

// Status is the urgency bucket a reminder falls into.
type Status string

const (
	StatusNoDate      Status = "no_date"
	StatusOverdue     Status = "overdue"
	StatusDueNow      Status = "due_now"
	StatusDueSoon     Status = "due_soon"
	StatusDueToday    Status = "due_today"
	StatusDueTomorrow Status = "due_tomorrow"
	StatusUpcoming    Status = "upcoming"
)

// Statuses lists every status from most to least urgent.
var Statuses = []Status{
	StatusOverdue,
	StatusDueNow,
	StatusDueSoon,
	StatusDueToday,
	StatusDueTomorrow,
	StatusUpcoming,
	StatusNoDate,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Pressing reports whether the status needs attention within the next few hours.
func (s Status) Pressing() bool {
	return s == StatusOverdue || s == StatusDueNow || s == StatusDueSoon
}

// Priority is the ordering tier used to sort reminders for attention.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityUrgent   Priority = "urgent"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort position of p; lower ranks sort first.
// Unknown priorities rank after PriorityLow.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Record is the part of a stored reminder the engine reads.
// DueDate and DueTime are nil when the record has none.
type Record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	DueTime     *string `json:"due_time,omitempty"`
}

// Result is the classification of a single due date against a point in time.
type Result struct {
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	Countdown        string     `json:"countdown"`
	FormattedDueDate *string    `json:"formatted_due_date"`
	DueTime          *string    `json:"due_time,omitempty"`
	Due              *time.Time `json:"due,omitempty"`
}

// Enhanced is a record together with its classification for one render pass.
type Enhanced struct {
	Record
	Result
}

// MarshalJSON flattens the record and its classification into one object.
// The resolved due_time wins over the stored one.
func (e Enhanced) MarshalJSON() ([]byte, error) {
	dueTime := e.Record.DueTime
	if e.Result.DueTime != nil {
		dueTime = e.Result.DueTime
	}
	return json.Marshal(struct {
		ID               string     `json:"id"`
		Title            string     `json:"title"`
		Description      string     `json:"description,omitempty"`
		Type             string     `json:"type,omitempty"`
		DueDate          *string    `json:"due_date"`
		DueTime          *string    `json:"due_time"`
		Status           Status     `json:"status"`
		Priority         Priority   `json:"priority"`
		Countdown        string     `json:"countdown"`
		FormattedDueDate *string    `json:"formatted_due_date"`
		Due              *time.Time `json:"due,omitempty"`
	}{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Type:             e.Type,
		DueDate:          e.DueDate,
		DueTime:          dueTime,
		Status:           e.Status,
		Priority:         e.Priority,
		Countdown:        e.Countdown,
		FormattedDueDate: e.FormattedDueDate,
		Due:              e.Due,
	})
}

// DueInstant returns the resolved due instant, or the zero time when absent.
func (r Result) DueInstant() time.Time {
	if r.Due == nil {
		return time.Time{}
	}
	return *r.Due
}

const (
	countdownNoDate = "No due date"
	formattedNoDate = "No due date"
)

func noDate(formatted *string) Result {
	return Result{
		Status:           StatusNoDate,
		Priority:         PriorityLow,
		Countdown:        countdownNoDate,
		FormattedDueDate: formatted,
	}
}

func strPtr(s string) *string {
	return &s
}
