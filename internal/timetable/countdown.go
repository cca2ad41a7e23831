package timetable

import (
	"fmt"
	"sort"
	"time"
)

// Tone selects the countdown colour: green while whole days remain, amber
// with hours left, red in the final hour.
type Tone string

const (
	ToneDays    Tone = "days"
	ToneHours   Tone = "hours"
	ToneMinutes Tone = "minutes"
)

// Countdown is the time remaining until an exam starts.
type Countdown struct {
	Exam    Exam      `json:"exam"`
	Start   time.Time `json:"start"`
	Days    int       `json:"days_left"`
	Hours   int       `json:"hours_left"`
	Minutes int       `json:"minutes_left"`
	Text    string    `json:"text"`
	Tone    Tone      `json:"tone"`
}

// ExamCountdown reports the remaining time until e starts. It returns false
// when the exam has started or its date cannot be resolved.
func ExamCountdown(e Exam, now time.Time, loc *time.Location) (Countdown, bool) {
	start, err := e.Start(loc)
	if err != nil {
		return Countdown{}, false
	}
	remaining := start.Sub(now)
	if remaining < 0 {
		return Countdown{}, false
	}

	c := Countdown{
		Exam:    e,
		Start:   start,
		Days:    int(remaining / (24 * time.Hour)),
		Hours:   int(remaining % (24 * time.Hour) / time.Hour),
		Minutes: int(remaining % time.Hour / time.Minute),
	}
	switch {
	case c.Days > 0:
		c.Text = fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)
		c.Tone = ToneDays
	case c.Hours > 0:
		c.Text = fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
		c.Tone = ToneHours
	default:
		c.Text = fmt.Sprintf("%dm", c.Minutes)
		c.Tone = ToneMinutes
	}
	return c, true
}

// NextExam returns the countdown to the earliest exam that has not started.
func NextExam(exams []Exam, now time.Time, loc *time.Location) (Countdown, bool) {
	var (
		best  Countdown
		found bool
	)
	for _, e := range exams {
		c, ok := ExamCountdown(e, now, loc)
		if !ok {
			continue
		}
		if !found || c.Start.Before(best.Start) {
			best, found = c, true
		}
	}
	return best, found
}

// ExamStatus is an exam as shown in the exam schedule list.
type ExamStatus struct {
	Exam
	Start     time.Time `json:"start"`
	Past      bool      `json:"past"`
	Countdown string    `json:"countdown,omitempty"`
}

// Schedule orders exams by start time and labels each one with the time
// left ("3d 4h left", "2h 5m left", "Starting now!") or as past. Exams with
// an unreadable date sort last and carry no countdown.
func Schedule(exams []Exam, now time.Time, loc *time.Location) []ExamStatus {
	out := make([]ExamStatus, 0, len(exams))
	for _, e := range exams {
		st := ExamStatus{Exam: e}
		start, err := e.Start(loc)
		if err != nil {
			out = append(out, st)
			continue
		}
		st.Start = start
		remaining := start.Sub(now)
		if remaining < 0 {
			st.Past = true
			out = append(out, st)
			continue
		}
		days := int(remaining / (24 * time.Hour))
		hours := int(remaining % (24 * time.Hour) / time.Hour)
		minutes := int(remaining % time.Hour / time.Minute)
		switch {
		case days > 0:
			st.Countdown = fmt.Sprintf("%dd %dh left", days, hours)
		case hours > 0:
			st.Countdown = fmt.Sprintf("%dh %dm left", hours, minutes)
		case minutes > 0:
			st.Countdown = fmt.Sprintf("%dm left", minutes)
		default:
			st.Countdown = "Starting now!"
		}
		out = append(out, st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Start, out[j].Start
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b)
	})
	return out
}
