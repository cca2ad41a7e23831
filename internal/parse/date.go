package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Monday first, matching the offsets used for "this"/"next" weekday phrases.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

type relativeRule struct {
	re   *regexp.Regexp
	days func(m []string, today time.Time) int
}

var relativeRules = []relativeRule{
	{regexp.MustCompile(`\bday after tomorrow\b`), fixed(2)},
	{regexp.MustCompile(`\btoday\b`), fixed(0)},
	{regexp.MustCompile(`\btomorrow\b`), fixed(1)},
	{regexp.MustCompile(`\byesterday\b`), fixed(-1)},
	{regexp.MustCompile(`\bnext week\b`), fixed(7)},
	{regexp.MustCompile(`\bnext month\b`), fixed(30)},
	{regexp.MustCompile(`\bin (\d+) days?\b`), func(m []string, _ time.Time) int { return atoi(m[1]) }},
	{regexp.MustCompile(`\bin (\d+) weeks?\b`), func(m []string, _ time.Time) int { return 7 * atoi(m[1]) }},
	{regexp.MustCompile(`\bin a week\b`), fixed(7)},
	{regexp.MustCompile(`\bin a month\b`), fixed(30)},
	{regexp.MustCompile(`\bthis (monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), func(m []string, today time.Time) int {
		return mod7(weekdayIndex(m[1]) - mondayIndex(today))
	}},
	{regexp.MustCompile(`\bnext (monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), func(m []string, today time.Time) int {
		if d := mod7(weekdayIndex(m[1]) - mondayIndex(today)); d != 0 {
			return d
		}
		return 7
	}},
}

var (
	isoDate        = regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`)
	numericDate    = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`)
	shortDate      = regexp.MustCompile(`(?:^|[^\d/\-.])(\d{1,2})[/\-.](\d{1,2})(?:$|[^\d/\-.])`)
	monthFirstDate = regexp.MustCompile(`\b(` + monthNames + `)\s+(\d{1,2})(?:st|nd|rd|th)?\b,?\s*(\d{4})?`)
	dayFirstDate   = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthNames + `)\b\s*(\d{4})?`)
)

// Date finds a due date in free text such as a forwarded e-mail or chat
// message. Relative phrases are tried first, then weekday names, then
// absolute dates. The result is midnight of the matched day in now's location.
func Date(text string, now time.Time) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	today := midnight(now)

	for _, rule := range relativeRules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			return today.AddDate(0, 0, rule.days(m, today)), true
		}
	}

	for i, day := range weekdays {
		if strings.Contains(text, " "+day) || strings.HasPrefix(text, day) {
			ahead := i - mondayIndex(today)
			if ahead <= 0 {
				ahead += 7
			}
			return today.AddDate(0, 0, ahead), true
		}
	}

	loc := now.Location()

	if m := isoDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc); ok {
			return d, true
		}
	}
	if m := numericDate.FindStringSubmatch(text); m != nil {
		// Day first, falling back to the US month-first reading.
		if d, ok := makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]), loc); ok {
			return d, true
		}
		if d, ok := makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]), loc); ok {
			return d, true
		}
	}
	if m := shortDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(now.Year(), atoi(m[2]), atoi(m[1]), loc); ok {
			return d, true
		}
	}
	if m := monthFirstDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(yearOr(m[3], now), int(months[m[1]]), atoi(m[2]), loc); ok {
			return d, true
		}
	}
	if m := dayFirstDate.FindStringSubmatchIndex(text); m != nil && !modalMay(text, m) {
		year := ""
		if m[6] >= 0 {
			year = text[m[6]:m[7]]
		}
		if d, ok := makeDate(yearOr(year, now), int(months[text[m[4]:m[5]]]), atoi(text[m[2]:m[3]]), loc); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

// modalMay reports whether a day-first match on "may" is the verb, as in
// "groups of 5 may submit": no year follows and the next word is a letter.
func modalMay(text string, m []int) bool {
	if text[m[4]:m[5]] != "may" || m[6] >= 0 {
		return false
	}
	rest := strings.TrimLeft(text[m[5]:], " \t")
	return rest != "" && unicode.IsLetter(rune(rest[0]))
}

func fixed(n int) func([]string, time.Time) int {
	return func([]string, time.Time) int { return n }
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// makeDate rejects dates time.Date would normalize, such as 31/02.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

func yearOr(s string, now time.Time) int {
	if s == "" {
		return now.Year()
	}
	return atoi(s)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func weekdayIndex(name string) int {
	for i, d := range weekdays {
		if d == name {
			return i
		}
	}
	return 0
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func mod7(n int) int {
	return ((n % 7) + 7) % 7
}
