// Package urgency turns reminder due dates into a status, a priority tier and
// a countdown string relative to an injected "now".
package urgency

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// FormattedDateLayout is how due dates are shown next to a countdown.
	FormattedDateLayout = "Mon, Jan 2, 2006"
	clockLayout         = "03:04 PM"
)

// Engine classifies due dates. The zero value uses the system clock, the
// local timezone and no time cache.
type Engine struct {
	// Now supplies the reference time for Enhance. Defaults to time.Now.
	Now func() time.Time
	// Location is used for calendar-day arithmetic and offset-less dates.
	Location *time.Location
	// Cache holds per-record time-of-day resolutions for the session.
	Cache *TimeCache
}

// New returns an engine with a fresh session cache.
func New(loc *time.Location, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{Now: now, Location: loc, Cache: NewTimeCache()}
}

func (e *Engine) location() *time.Location {
	if e == nil || e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e *Engine) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Clock returns the engine's current time in its location.
func (e *Engine) Clock() time.Time {
	return e.now().In(e.location())
}

// Evaluate classifies a due date without consulting the session cache.
func (e *Engine) Evaluate(dueDate, dueTime, description *string, now time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = noDate(strPtr(formattedNoDate))
		}
	}()

	t, ok := resolveTime(dueTime, description)
	return e.classify(dueDate, t, ok, now)
}

// EvaluateRecord classifies r, resolving its time of day through the cache.
func (e *Engine) EvaluateRecord(r Record, now time.Time) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = noDate(strPtr(formattedNoDate))
		}
	}()

	var cache *TimeCache
	if e != nil {
		cache = e.Cache
	}
	desc := r.Description
	t, ok := cache.Resolve(r.ID, r.DueTime, &desc)
	return e.classify(r.DueDate, t, ok, now)
}

func (e *Engine) classify(dueDate *string, hhmm string, hasTime bool, now time.Time) Result {
	if dueDate == nil || strings.TrimSpace(*dueDate) == "" {
		return noDate(nil)
	}

	loc := e.location()
	due, err := ParseDueDate(*dueDate, loc)
	if err != nil {
		return noDate(strPtr(formattedNoDate))
	}

	var resolved *string
	if hasTime {
		h, m, _ := ParseHHMM(hhmm)
		due = AtClock(due, h, m, loc)
		resolved = strPtr(hhmm)
	}
	due = due.In(loc)

	res := Classify(due, now, loc)
	res.FormattedDueDate = strPtr(due.Format(FormattedDateLayout))
	res.DueTime = resolved
	res.Due = &due
	return res
}

// Classify buckets a resolved due instant against now. Near-term buckets use
// the exact difference; same-day and next-day labels use calendar days in loc.
func Classify(due, now time.Time, loc *time.Location) Result {
	if loc == nil {
		loc = time.Local
	}
	delta := due.Sub(now)
	dayDelta := CalendarDays(now, due, loc)

	switch {
	case delta < 0:
		overdue := -delta
		hours := int(overdue / time.Hour)
		minutes := int((overdue % time.Hour) / time.Minute)
		var text string
		switch {
		case dayDelta < -1:
			text = fmt.Sprintf("%d days overdue", -dayDelta)
		case hours >= 24:
			text = fmt.Sprintf("%d days overdue", hours/24)
		case hours > 0:
			text = fmt.Sprintf("Overdue by %dh %dm", hours, minutes)
		default:
			text = fmt.Sprintf("Overdue by %dm", minutes)
		}
		return Result{Status: StatusOverdue, Priority: PriorityCritical, Countdown: text}

	case delta < time.Hour:
		return Result{
			Status:    StatusDueNow,
			Priority:  PriorityCritical,
			Countdown: fmt.Sprintf("Due in %dm", int(delta/time.Minute)),
		}

	case delta < 3*time.Hour:
		return Result{
			Status:   StatusDueSoon,
			Priority: PriorityUrgent,
			Countdown: fmt.Sprintf("Due in %dh %dm",
				int(delta/time.Hour), int((delta%time.Hour)/time.Minute)),
		}

	case dayDelta == 0:
		return Result{
			Status:    StatusDueToday,
			Priority:  PriorityUrgent,
			Countdown: "Due today at " + due.In(loc).Format(clockLayout),
		}

	case dayDelta == 1:
		return Result{Status: StatusDueTomorrow, Priority: PriorityHigh, Countdown: "Due tomorrow"}

	case dayDelta <= 7:
		return Result{Status: StatusUpcoming, Priority: PriorityMedium, Countdown: fmt.Sprintf("%d days left", dayDelta)}

	default:
		return Result{Status: StatusUpcoming, Priority: PriorityLow, Countdown: fmt.Sprintf("%d days left", dayDelta)}
	}
}

// Enhance classifies every record against a single reading of the clock.
// A record that cannot be classified degrades to no_date on its own.
func (e *Engine) Enhance(records []Record) []Enhanced {
	return e.EnhanceAt(records, e.now())
}

// EnhanceAt is Enhance with an explicit reference time.
func (e *Engine) EnhanceAt(records []Record, now time.Time) []Enhanced {
	out := make([]Enhanced, 0, len(records))
	for _, r := range records {
		out = append(out, Enhanced{Record: r, Result: e.EvaluateRecord(r, now)})
	}
	return out
}

// farFuture stands in for the due instant of records without one.
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Less orders two classified reminders by priority tier and then by due
// instant, with undated reminders last within a tier.
func Less(a, b Result) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	da, db := farFuture, farFuture
	if a.Due != nil {
		da = *a.Due
	}
	if b.Due != nil {
		db = *b.Due
	}
	return da.Before(db)
}

// Sort orders reminders for attention in place.
func Sort(items []Enhanced) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i].Result, items[j].Result)
	})
}
