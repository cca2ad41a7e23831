package academics

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Attendance statuses.
const (
	StatusSafe   = "safe"
	StatusAtRisk = "at_risk"
)

// DefaultMinRequired is the attendance percentage most universities require.
const DefaultMinRequired = 75.0

// AttendanceResult is the outcome of an attendance calculation.
type AttendanceResult struct {
	Subject        string    `json:"subject_name"`
	Attended       int       `json:"attended"`
	Total          int       `json:"total"`
	MinRequired    float64   `json:"min_required"`
	CurrentPercent float64   `json:"current_percent"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
	FutureClasses  int       `json:"future_classes"`
	CanSkip        int       `json:"can_skip"`
	CalculatedAt   time.Time `json:"calculated_at"`
}

// CalculateAttendance reports where attended/total stands against
// minRequired percent: how many consecutive classes must be attended to
// recover, or how many can be missed while staying above the line.
func CalculateAttendance(attended, total int, minRequired float64, subject string, now time.Time) (*AttendanceResult, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total classes must be greater than 0", ErrInvalidInput)
	}
	if attended < 0 {
		return nil, fmt.Errorf("%w: attended classes cannot be negative", ErrInvalidInput)
	}
	if attended > total {
		return nil, fmt.Errorf("%w: attended classes cannot exceed total classes", ErrInvalidInput)
	}
	if minRequired == 0 {
		minRequired = DefaultMinRequired
	}
	if minRequired < 0 || minRequired > 100 {
		return nil, fmt.Errorf("%w: minimum attendance must be between 0 and 100", ErrInvalidInput)
	}
	if subject == "" {
		subject = "Subject"
	}

	res := &AttendanceResult{
		Subject:      subject,
		Attended:     attended,
		Total:        total,
		MinRequired:  minRequired,
		CalculatedAt: now,
	}
	current := percent(attended, total)
	res.CurrentPercent = round2(current)
	required := formatPercent(minRequired)

	if current >= minRequired {
		res.Status = StatusSafe
		res.Message = fmt.Sprintf("Your attendance is above the required %s%%", required)
		res.CanSkip = canSkip(attended, total, minRequired)
		if res.CanSkip > 0 {
			res.Recommendation = fmt.Sprintf("You can skip up to %d classes and still maintain %s%% attendance.", res.CanSkip, required)
		} else {
			res.Recommendation = "Keep maintaining your good attendance!"
		}
		return res, nil
	}

	res.Status = StatusAtRisk
	res.Message = fmt.Sprintf("Your attendance is below the required %s%%", required)
	if minRequired >= 100 {
		res.Recommendation = "Full attendance can no longer be reached this term."
		return res, nil
	}
	res.FutureClasses = classesToRecover(attended, total, minRequired)
	res.Recommendation = fmt.Sprintf("You need to attend the next %d classes consecutively to reach %s%% attendance.", res.FutureClasses, required)
	return res, nil
}

// maxClasses caps the skip and recovery counts for minimums close to 0 or 100.
const maxClasses = math.MaxInt32

// canSkip returns the largest n with attended/(total+n) still at minRequired.
func canSkip(attended, total int, minRequired float64) int {
	n := toClasses(math.Floor(100*float64(attended)/minRequired - float64(total)))
	// Nudge off float rounding at the boundary.
	for n > 0 && percent(attended, total+n) < minRequired {
		n--
	}
	for n < maxClasses && percent(attended, total+n+1) >= minRequired {
		n++
	}
	return n
}

// classesToRecover returns the smallest n with (attended+n)/(total+n)
// reaching minRequired. minRequired must be below 100.
func classesToRecover(attended, total int, minRequired float64) int {
	n := toClasses(math.Ceil((minRequired*float64(total) - 100*float64(attended)) / (100 - minRequired)))
	for n > 0 && percent(attended+n-1, total+n-1) >= minRequired {
		n--
	}
	for n < maxClasses && percent(attended+n, total+n) < minRequired {
		n++
	}
	return n
}

func toClasses(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= maxClasses:
		return maxClasses
	}
	return int(v)
}

func percent(attended, total int) float64 {
	return float64(attended) / float64(total) * 100
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
