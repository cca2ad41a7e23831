package urgency

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func sp(s string) *string { return &s }

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return v
}

func TestClassifyTable(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, func() time.Time { return now })

	tests := []struct {
		name      string
		due       string
		status    Status
		priority  Priority
		countdown string
	}{
		{"exactly now", "2025-01-10T08:00:00Z", StatusDueNow, PriorityCritical, "Due in 0m"},
		{"under an hour", "2025-01-10T08:59:00Z", StatusDueNow, PriorityCritical, "Due in 59m"},
		{"exactly one hour", "2025-01-10T09:00:00Z", StatusDueSoon, PriorityUrgent, "Due in 1h 0m"},
		{"under three hours", "2025-01-10T10:59:00Z", StatusDueSoon, PriorityUrgent, "Due in 2h 59m"},
		{"later today", "2025-01-10T15:30:00Z", StatusDueToday, PriorityUrgent, "Due today at 03:30 PM"},
		{"tomorrow within a day", "2025-01-11T07:00:00Z", StatusDueTomorrow, PriorityHigh, "Due tomorrow"},
		{"tomorrow late", "2025-01-11T23:00:00Z", StatusDueTomorrow, PriorityHigh, "Due tomorrow"},
		{"four days", "2025-01-14T00:00:00Z", StatusUpcoming, PriorityMedium, "4 days left"},
		{"seven days", "2025-01-17T08:00:00Z", StatusUpcoming, PriorityMedium, "7 days left"},
		{"eight days", "2025-01-18T08:00:00Z", StatusUpcoming, PriorityLow, "8 days left"},
		{"minutes overdue", "2025-01-10T07:30:00Z", StatusOverdue, PriorityCritical, "Overdue by 30m"},
		{"hours overdue", "2025-01-10T05:15:00Z", StatusOverdue, PriorityCritical, "Overdue by 2h 45m"},
		{"yesterday within a day", "2025-01-09T10:00:00Z", StatusOverdue, PriorityCritical, "Overdue by 22h 0m"},
		{"yesterday over a day", "2025-01-09T07:00:00Z", StatusOverdue, PriorityCritical, "1 days overdue"},
		{"days overdue", "2025-01-05T10:00:00Z", StatusOverdue, PriorityCritical, "5 days overdue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(sp(tt.due), nil, nil, now)
			if got.Status != tt.status {
				t.Errorf("status = %s, want %s", got.Status, tt.status)
			}
			if got.Priority != tt.priority {
				t.Errorf("priority = %s, want %s", got.Priority, tt.priority)
			}
			if got.Countdown != tt.countdown {
				t.Errorf("countdown = %q, want %q", got.Countdown, tt.countdown)
			}
			if got.FormattedDueDate == nil || got.Due == nil {
				t.Errorf("expected formatted due date and due instant, got %+v", got)
			}
		})
	}
}

func TestEvaluateMissingAndMalformed(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	got := e.Evaluate(nil, nil, nil, now)
	if got.Status != StatusNoDate || got.Priority != PriorityLow || got.Countdown != "No due date" {
		t.Fatalf("missing due date: got %+v", got)
	}
	if got.FormattedDueDate != nil {
		t.Errorf("missing due date should have no formatted date, got %q", *got.FormattedDueDate)
	}

	for _, bad := range []string{"not a date", "2025-13-45", "tomorrow-ish"} {
		got := e.Evaluate(sp(bad), nil, nil, now)
		if got.Status != StatusNoDate || got.Priority != PriorityLow || got.Countdown != "No due date" {
			t.Errorf("%q: got %+v", bad, got)
		}
		if got.FormattedDueDate == nil || *got.FormattedDueDate != "No due date" {
			t.Errorf("%q: formatted due date = %v, want \"No due date\"", bad, got.FormattedDueDate)
		}
	}
}

func TestRepairDueDate(t *testing.T) {
	tests := map[string]string{
		"2025-01-10T09:00:00+00:00Z":       "2025-01-10T09:00:00Z",
		"2025-01-10T09:00:00+00:00+00:00":  "2025-01-10T09:00:00+00:00",
		"2025-01-10T09:00:00+05:30+05:30":  "2025-01-10T09:00:00+05:30",
		"2025-01-10T09:00:00Z":             "2025-01-10T09:00:00Z",
		"  2025-01-10  ":                   "2025-01-10",
		"2025-01-10T09:00:00.123+00:00Z":   "2025-01-10T09:00:00.123Z",
	}
	for in, want := range tests {
		if got := RepairDueDate(in); got != want {
			t.Errorf("RepairDueDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMalformedOffsetsStillParse(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	got := e.Evaluate(sp("2025-01-10T09:00:00+00:00Z"), nil, nil, now)
	if got.Status != StatusDueSoon || got.Countdown != "Due in 1h 0m" {
		t.Fatalf("+00:00Z: got %+v", got)
	}
	if !got.Due.Equal(mustTime(t, "2025-01-10T09:00:00Z")) {
		t.Errorf("+00:00Z: due = %v", got.Due)
	}

	got = e.Evaluate(sp("2025-01-12T08:00:00+00:00+00:00"), nil, nil, now)
	if got.Status != StatusUpcoming || got.Countdown != "2 days left" {
		t.Errorf("doubled offset: got %+v", got)
	}

	got = e.Evaluate(sp("2025-01-10T09:00:00+05:30+05:30"), nil, nil, now)
	if got.Status != StatusOverdue || got.Countdown != "Overdue by 4h 30m" {
		t.Errorf("doubled +05:30: got %+v", got)
	}
}

func TestDescriptionTimeApplied(t *testing.T) {
	now := mustTime(t, "2025-02-20T10:00:00Z")
	e := New(time.UTC, nil)

	got := e.Evaluate(sp("2025-03-01"), nil, sp("exam at 2pm"), now)
	want := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	if got.Due == nil || !got.Due.Equal(want) {
		t.Fatalf("due = %v, want %v", got.Due, want)
	}
	if got.DueTime == nil || *got.DueTime != "14:00" {
		t.Errorf("due time = %v, want 14:00", got.DueTime)
	}
	if got.FormattedDueDate == nil || *got.FormattedDueDate != "Sat, Mar 1, 2025" {
		t.Errorf("formatted = %v", got.FormattedDueDate)
	}
}

func TestExplicitDueTimeOverridesTimestamp(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	got := e.Evaluate(sp("2025-01-10T20:00:00Z"), sp("09:30"), sp("meet at 6pm"), now)
	if got.Status != StatusDueSoon || got.Countdown != "Due in 1h 30m" {
		t.Fatalf("got %+v", got)
	}
	if got.Due.Second() != 0 || got.Due.Nanosecond() != 0 {
		t.Errorf("seconds not zeroed: %v", got.Due)
	}
}

func TestInvalidDueTimeFallsBackToDescription(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	got := e.Evaluate(sp("2025-01-10"), sp("25:99"), sp("lab at 9am"), now)
	if got.DueTime == nil || *got.DueTime != "09:00" {
		t.Fatalf("due time = %v, want 09:00", got.DueTime)
	}
	if got.Status != StatusDueSoon {
		t.Errorf("status = %s, want due_soon", got.Status)
	}
}

func TestCalendarDaysUseLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := mustTime(t, "2025-01-10T20:00:00+05:30")
	due := "2025-01-11T00:30:00+05:30"

	got := New(ist, nil).Evaluate(sp(due), nil, nil, now)
	if got.Status != StatusDueTomorrow {
		t.Errorf("IST: status = %s, want due_tomorrow", got.Status)
	}

	got = New(time.UTC, nil).Evaluate(sp(due), nil, nil, now)
	if got.Status != StatusDueToday {
		t.Errorf("UTC: status = %s, want due_today", got.Status)
	}
}

func TestOffsetlessDatesUseLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, ist)

	got := New(ist, nil).Evaluate(sp("2025-01-10T09:30"), nil, nil, now)
	if got.Status != StatusDueSoon || got.Countdown != "Due in 1h 30m" {
		t.Errorf("got %+v", got)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)
	for _, due := range []string{"2025-01-10T09:00:00Z", "2025-01-20T00:00:00Z", "2025-01-01"} {
		a := e.Evaluate(sp(due), nil, nil, now)
		b := e.Evaluate(sp(due), nil, nil, now)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: %+v != %+v", due, a, b)
		}
	}
}

func TestTimeCache(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	r := Record{ID: "r1", Title: "Physics", DueDate: sp("2025-01-10"), Description: "viva at 2pm"}
	first := e.EvaluateRecord(r, now)
	if first.DueTime == nil || *first.DueTime != "14:00" {
		t.Fatalf("first due time = %v", first.DueTime)
	}
	if got, ok := e.Cache.Get("r1", "viva at 2pm"); !ok || got != "14:00" {
		t.Errorf("cached = %q, %v", got, ok)
	}

	r.Description = "viva moved to 5pm"
	second := e.EvaluateRecord(r, now)
	if second.DueTime == nil || *second.DueTime != "17:00" {
		t.Errorf("due time after description edit = %v, want 17:00", second.DueTime)
	}

	untimed := Record{ID: "r2", Title: "Essay", DueDate: sp("2025-01-12")}
	e.EvaluateRecord(untimed, now)
	if e.Cache.Len() != 2 {
		t.Errorf("cache len = %d, want 2", e.Cache.Len())
	}
}

func TestTimeCacheNeverHoldsExplicitTime(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	r := Record{ID: "r1", Title: "Lab", DueDate: sp("2025-01-10"), DueTime: sp("08:30")}
	if got := e.EvaluateRecord(r, now); got.Status != StatusDueNow {
		t.Fatalf("status at 08:30 = %s", got.Status)
	}

	r.DueTime = sp("20:00")
	got := e.EvaluateRecord(r, now)
	if got.Status != StatusDueToday || got.DueTime == nil || *got.DueTime != "20:00" {
		t.Errorf("after moving due time: status %s, time %v", got.Status, got.DueTime)
	}
	if e.Cache.Len() != 0 {
		t.Errorf("cache len = %d, want 0", e.Cache.Len())
	}
}

func TestEnhanceUsesInjectedClock(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, func() time.Time { return now })

	out := e.Enhance([]Record{
		{ID: "a", Title: "Lab", DueDate: sp("2025-01-10T08:30:00Z")},
		{ID: "b", Title: "Broken", DueDate: sp("???")},
		{ID: "c", Title: "Undated"},
	})
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Status != StatusDueNow || out[0].Title != "Lab" {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Status != StatusNoDate || out[2].Status != StatusNoDate {
		t.Errorf("malformed records should degrade individually: %+v %+v", out[1], out[2])
	}
}

func TestSortOrdersByPriorityThenDue(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, nil)

	items := e.EnhanceAt([]Record{
		{ID: "undated", Title: "undated"},
		{ID: "far", Title: "far", DueDate: sp("2025-03-01T00:00:00Z")},
		{ID: "week", Title: "week", DueDate: sp("2025-01-15T00:00:00Z")},
		{ID: "late", Title: "late", DueDate: sp("2025-01-09T00:00:00Z")},
		{ID: "soon", Title: "soon", DueDate: sp("2025-01-10T10:00:00Z")},
		{ID: "now", Title: "now", DueDate: sp("2025-01-10T08:10:00Z")},
		{ID: "tomorrow", Title: "tomorrow", DueDate: sp("2025-01-11T12:00:00Z")},
		{ID: "nearer", Title: "nearer", DueDate: sp("2025-02-01T00:00:00Z")},
	}, now)
	Sort(items)

	var got []string
	for _, it := range items {
		got = append(got, it.ID)
	}
	want := []string{"late", "now", "soon", "tomorrow", "week", "nearer", "far", "undated"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	for i := 1; i < len(items); i++ {
		if items[i-1].Priority.Rank() > items[i].Priority.Rank() {
			t.Errorf("priority order broken at %d: %s before %s", i, items[i-1].Priority, items[i].Priority)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"exam at 2pm", "14:00", true},
		{"starts 12am", "00:00", true},
		{"lunch 12pm", "12:00", true},
		{"viva 10:30 AM", "10:30", true},
		{"lab 1030am", "10:30", true},
		{"at 9 PM sharp", "21:00", true},
		{"no time here", "", false},
		{"room 204", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseClockTime(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseClockTime(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConcurrentEnhance(t *testing.T) {
	now := mustTime(t, "2025-01-10T08:00:00Z")
	e := New(time.UTC, func() time.Time { return now })
	records := []Record{
		{ID: "a", DueDate: sp("2025-01-10"), Description: "at 3pm"},
		{ID: "b", DueDate: sp("2025-01-11"), Description: "at 9am"},
	}
	want := e.Enhance(records)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := e.Enhance(records)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent enhance diverged: %+v", got)
			}
		}()
	}
	wg.Wait()
}
