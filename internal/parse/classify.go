package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type weighted struct {
	word   string
	weight int
}

var (
	examKeywords = []weighted{
		{"exam", 3}, {"examination", 3}, {"test", 2}, {"quiz", 2}, {"midterm", 3}, {"final", 3},
		{"assessment", 2}, {"evaluation", 2}, {"viva", 3}, {"oral", 2}, {"written", 1},
		{"hall", 2}, {"room", 1}, {"invigilator", 3}, {"duration", 2}, {"marks", 1},
	}
	assignmentKeywords = []weighted{
		{"assignment", 3}, {"homework", 3}, {"task", 2}, {"submit", 2}, {"submission", 2},
		{"due", 2}, {"deadline", 3}, {"upload", 2}, {"file", 1}, {"document", 1},
		{"pdf", 1}, {"word", 1}, {"plagiarism", 2}, {"turnitin", 2}, {"late", 2},
		{"penalty", 2}, {"extension", 2}, {"work", 1},
	}
	projectKeywords = []weighted{
		{"project", 4}, {"presentation", 3}, {"seminar", 3}, {"thesis", 3}, {"research", 3},
		{"report", 2}, {"paper", 2}, {"study", 1}, {"analysis", 2}, {"survey", 2},
		{"experiment", 2}, {"data", 1}, {"findings", 2}, {"conclusion", 2}, {"abstract", 2},
		{"bibliography", 2}, {"references", 2}, {"slides", 2}, {"ppt", 2}, {"powerpoint", 2},
		{"demo", 2}, {"prototype", 2}, {"implementation", 2},
	}

	venueWords    = regexp.MustCompile(`\b(at|hall|room|venue|location)\b`)
	deadlineWords = regexp.MustCompile(`\b(before|by|deadline|submit by)\b`)
)

func score(text string, keywords []weighted) int {
	total := 0
	for _, k := range keywords {
		if strings.Contains(text, k.word) {
			total += k.weight
		}
	}
	return total
}

func containsAny(text string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Type guesses whether a message is about an exam, an assignment or a
// project using weighted keywords and phrase bonuses. Ties favour exam, then
// assignment; a message with no signal is an assignment.
func Type(text string) string {
	text = strings.ToLower(text)

	exam := score(text, examKeywords)
	assignment := score(text, assignmentKeywords)
	project := score(text, projectKeywords)

	if containsAny(text, "group project", "team project", "final project", "project submission") {
		project += 6
	}
	if containsAny(text, "individual assignment", "personal task", "homework") {
		assignment += 3
	}
	if containsAny(text, "final exam", "midterm exam", "entrance exam") {
		exam += 5
	}
	if strings.Contains(text, "project submission") {
		project += 10
	}
	if venueWords.MatchString(text) {
		exam += 2
	}
	if deadlineWords.MatchString(text) {
		assignment += 2
	}
	if containsAny(text, "lab report", "practical", "experiment") {
		assignment += 3
	}
	if containsAny(text, "defense", "viva", "presentation") {
		project += 3
	}

	best := max(exam, assignment, project)
	switch {
	case best == 0:
		return "assignment"
	case exam == best:
		return "exam"
	case assignment == best:
		return "assignment"
	default:
		return "project"
	}
}

var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(data structures?|ds)\b`),
	regexp.MustCompile(`\b(machine learning|ml)\b`),
	regexp.MustCompile(`\b(artificial intelligence|ai)\b`),
	regexp.MustCompile(`\b(database management|dbms)\b`),
	regexp.MustCompile(`\b(operating systems?|os)\b`),
	regexp.MustCompile(`\b(computer networks?|cn)\b`),
	regexp.MustCompile(`\b(software engineering)\b`),
	regexp.MustCompile(`\b(web development|web dev)\b`),
	regexp.MustCompile(`\b(mobile computing|mobile)\b`),
	regexp.MustCompile(`\b(cyber security|security)\b`),
	regexp.MustCompile(`\b(mathematics|math|maths)\b`),
	regexp.MustCompile(`\b(physics|phy)\b`),
	regexp.MustCompile(`\b(chemistry|chem)\b`),
	regexp.MustCompile(`\b(english|eng)\b`),
	regexp.MustCompile(`\b(management|mgmt)\b`),
	regexp.MustCompile(`\b(electronics?|electronic)\b`),
	regexp.MustCompile(`\b(data science)\b`),
	regexp.MustCompile(`\b(circuit)\b`),
}

// titleCase builds a new Caser per call; a Caser is stateful.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Subject returns the course a message refers to, title-cased, if one of the
// known course names or abbreviations appears in it.
func Subject(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, re := range subjectPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return titleCase(m[1]), true
		}
	}
	return "", false
}
