package repl

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

// historyFile keeps shell history next to the database.
func historyFile(dbPath string) string {
	if dbPath == "" || dbPath == ":memory:" {
		return ""
	}
	return filepath.Join(filepath.Dir(dbPath), "shell_history")
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("/help"),
	readline.PcItem("/save"),
	readline.PcItem("/list",
		readline.PcItem("exam"), readline.PcItem("assignment"), readline.PcItem("project"),
		readline.PcItem("critical"), readline.PcItem("urgent"), readline.PcItem("overdue"), readline.PcItem("all"),
	),
	readline.PcItem("/due"),
	readline.PcItem("/done"),
	readline.PcItem("/delete"),
	readline.PcItem("/dedupe"),
	readline.PcItem("/today"),
	readline.PcItem("/timetable",
		readline.PcItem("monday"), readline.PcItem("tuesday"), readline.PcItem("wednesday"),
		readline.PcItem("thursday"), readline.PcItem("friday"), readline.PcItem("saturday"), readline.PcItem("sunday"),
	),
	readline.PcItem("/exams"),
	readline.PcItem("/next"),
	readline.PcItem("/cgpa"),
	readline.PcItem("/attendance"),
	readline.PcItem("/history", readline.PcItem("cgpa"), readline.PcItem("attendance")),
	readline.PcItem("/holidays"),
	readline.PcItem("/calendar"),
	readline.PcItem("/report"),
	readline.PcItem("/quit"),
)

func setupReadline(prompt, history string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         history,
		AutoComplete:        completer,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})

	return rl, err
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
