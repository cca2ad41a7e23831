// Package academics implements the CGPA and attendance calculators and keeps
// a short history of past results.
package academics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoSemesters is returned when no semester has a positive SGPA and
	// credit count.
	ErrNoSemesters = errors.New("no valid semester data found")
	// ErrInvalidInput wraps attendance and scale validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Supported grading scales.
const (
	Scale10 = 10
	Scale5  = 5
	Scale4  = 4
)

// Semester is one row of the CGPA calculator.
type Semester struct {
	Name    string  `json:"name,omitempty"`
	SGPA    float64 `json:"sgpa"`
	Credits float64 `json:"credits"`
}

// SemesterResult is a semester that counted towards the CGPA.
type SemesterResult struct {
	Semester    string  `json:"semester"`
	SGPA        float64 `json:"sgpa"`
	Credits     float64 `json:"credits"`
	GradePoints float64 `json:"grade_points"`
}

// CGPAResult is the outcome of a CGPA calculation. The 4- and 5-point
// conversions are only given for 10-point input.
type CGPAResult struct {
	Scale            int              `json:"scale"`
	CGPA             float64          `json:"cgpa"`
	GPA4             *float64         `json:"gpa_4_scale,omitempty"`
	GPA5             *float64         `json:"gpa_5_scale,omitempty"`
	TotalCredits     float64          `json:"total_credits"`
	TotalGradePoints float64          `json:"total_grade_points"`
	Semesters        []SemesterResult `json:"semesters"`
	CalculatedAt     time.Time        `json:"calculated_at"`
}

// CalculateCGPA returns the credit-weighted mean of the semesters with a
// positive SGPA and credit count. Semesters are labelled by position when
// they have no name.
func CalculateCGPA(semesters []Semester, scale int, now time.Time) (*CGPAResult, error) {
	if scale == 0 {
		scale = Scale10
	}
	if _, ok := scaleInfo[scale]; !ok {
		return nil, fmt.Errorf("%w: unsupported scale %d", ErrInvalidInput, scale)
	}

	res := &CGPAResult{Scale: scale, CalculatedAt: now}
	var totalCredits, totalPoints float64
	for i, s := range semesters {
		if s.SGPA <= 0 || s.Credits <= 0 {
			continue
		}
		if s.SGPA > float64(scale) {
			return nil, fmt.Errorf("%w: sgpa %.2f exceeds the %d-point scale", ErrInvalidInput, s.SGPA, scale)
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Semester %d", i+1)
		}
		points := s.SGPA * s.Credits
		totalCredits += s.Credits
		totalPoints += points
		res.Semesters = append(res.Semesters, SemesterResult{
			Semester:    name,
			SGPA:        s.SGPA,
			Credits:     s.Credits,
			GradePoints: points,
		})
	}
	if totalCredits == 0 {
		return nil, ErrNoSemesters
	}

	cgpa := totalPoints / totalCredits
	res.CGPA = round2(cgpa)
	res.TotalCredits = totalCredits
	res.TotalGradePoints = round2(totalPoints)

	if scale == Scale10 {
		gpa4 := round2(math.Max(0, (cgpa-5)*4/5))
		gpa5 := round2(cgpa / 2)
		res.GPA4 = &gpa4
		res.GPA5 = &gpa5
	}
	return res, nil
}

var scaleInfo = map[int]string{
	Scale10: "Range: 0.0 - 10.0 | Excellent: 9.0+, Good: 7.0-8.9, Average: 6.0-6.9",
	Scale5:  "Range: 1.0 - 5.0 | Excellent: 1.0-1.5, Good: 1.6-2.5, Average: 2.6-3.5 (Lower is better)",
	Scale4:  "Range: 0.0 - 4.0 | Excellent: 3.7+, Good: 3.0-3.6, Average: 2.0-2.9",
}

// ScaleInfo describes the grade bands of a grading scale.
func ScaleInfo(scale int) (string, bool) {
	s, ok := scaleInfo[scale]
	return s, ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseSemester reads a "sgpa:credits" pair, for example "8.5:20".
func ParseSemester(s string) (Semester, error) {
	sgpa, credits, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Semester{}, fmt.Errorf("%w: %q is not sgpa:credits", ErrInvalidInput, s)
	}
	v, err := strconv.ParseFloat(sgpa, 64)
	if err != nil {
		return Semester{}, fmt.Errorf("%w: sgpa %q", ErrInvalidInput, sgpa)
	}
	c, err := strconv.ParseFloat(credits, 64)
	if err != nil {
		return Semester{}, fmt.Errorf("%w: credits %q", ErrInvalidInput, credits)
	}
	return Semester{SGPA: v, Credits: c}, nil
}
