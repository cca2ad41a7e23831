package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/notexe/studydesk/internal/desk"
	"github.com/notexe/studydesk/internal/parse"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/notexe/studydesk/internal/ui"
)

// REPL is the interactive dashboard shell. Plain lines are parsed into
// reminder drafts; lines starting with "/" are commands.
type REPL struct {
	desk      *desk.Desk
	rl        *readline.Instance
	formatter *ui.Formatter
	out       io.Writer

	draft *parse.Draft
}

func NewREPL(d *desk.Desk) (*REPL, error) {
	formatter := ui.NewFormatter(d.Config.UI.ColoredOutput)

	rl, err := setupReadline(formatter.FormatPrompt(), historyFile(d.Config.Database.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	return &REPL{
		desk:      d,
		rl:        rl,
		formatter: formatter,
		out:       os.Stdout,
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome(ctx)

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		quit, err := r.handleLine(ctx, input)
		if err != nil {
			r.displayError(err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

// handleLine runs one line of input and reports whether the shell should exit.
func (r *REPL) handleLine(ctx context.Context, input string) (bool, error) {
	if input == "" {
		return false, nil
	}

	isCommand, command, args := r.parseCommand(input)
	if !isCommand {
		return false, r.handleMessage(input)
	}

	switch command {
	case "/quit", "/exit", "/q":
		fmt.Fprintln(r.out, "\nGoodbye!")
		return true, nil
	default:
		return false, r.handleCommand(ctx, command, args)
	}
}

func (r *REPL) handleMessage(message string) error {
	draft := parse.Message(message, r.desk.Now())
	r.draft = &draft
	r.print(r.formatter.FormatDraft(draft))
	r.displaySystem("Type /save to keep it.")
	return nil
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/save", "/s":
		return r.saveDraft(ctx)

	case "/list", "/l":
		return r.listReminders(ctx, args)

	case "/due":
		items, err := r.desk.Board.Due(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			r.displayInfo("Nothing needs attention right now.")
			return nil
		}
		r.print(r.formatter.FormatReminders(items))
		return nil

	case "/done", "/complete":
		id, err := r.resolveID(ctx, args)
		if err != nil {
			return err
		}
		if err := r.desk.Board.Store().Complete(ctx, id); err != nil {
			return err
		}
		r.print(r.formatter.FormatSuccess("Marked complete."))
		return nil

	case "/delete", "/rm":
		id, err := r.resolveID(ctx, args)
		if err != nil {
			return err
		}
		if err := r.desk.Board.Store().Delete(ctx, id); err != nil {
			return err
		}
		r.print(r.formatter.FormatSuccess("Deleted."))
		return nil

	case "/dedupe":
		n, err := r.desk.Board.Store().CleanupDuplicates(ctx)
		if err != nil {
			return err
		}
		r.print(r.formatter.FormatSuccess(fmt.Sprintf("Removed %d duplicate reminder(s).", n)))
		return nil

	case "/today":
		return r.showDay(ctx, "")

	case "/timetable", "/tt":
		return r.showDay(ctx, args)

	case "/exams":
		return r.showExams(ctx)

	case "/next":
		return r.showNextExam(ctx)

	case "/cgpa":
		return r.calculateCGPA(ctx, args)

	case "/attendance", "/att":
		return r.calculateAttendance(ctx, args)

	case "/history":
		return r.showHistory(ctx, args)

	case "/holidays":
		return r.showHolidays(args)

	case "/calendar", "/cal":
		return r.showCalendar(ctx, args)

	case "/report":
		report, err := r.desk.Report(ctx)
		if err != nil {
			return err
		}
		md := report.Markdown()
		if r.desk.Config.UI.Markdown {
			md = r.formatter.RenderMarkdown(md)
		}
		r.print(md)
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (r *REPL) saveDraft(ctx context.Context) error {
	if r.draft == nil {
		return fmt.Errorf("nothing to save: type a reminder first")
	}
	saved, err := r.desk.SaveDraft(ctx, *r.draft)
	if errors.Is(err, reminder.ErrDuplicate) {
		return fmt.Errorf("a reminder with the same title, type and due date already exists")
	}
	if err != nil {
		return err
	}
	r.draft = nil
	r.print(r.formatter.FormatSuccess(fmt.Sprintf("Saved %q.", saved.Title)))
	return nil
}

func (r *REPL) listReminders(ctx context.Context, args string) error {
	f := reminder.Filter{}
	for _, a := range strings.Fields(strings.ToLower(args)) {
		switch {
		case a == "all":
			f.IncludeCompleted = true
		case isUrgency(a):
			f.Urgency = a
		default:
			f.Type = a
		}
	}
	items, err := r.desk.Board.List(ctx, f)
	if err != nil {
		return err
	}
	r.print(r.formatter.FormatReminders(items))
	return nil
}

// resolveID accepts a full reminder id or a unique prefix of one.
func (r *REPL) resolveID(ctx context.Context, args string) (string, error) {
	if strings.TrimSpace(args) == "" {
		return "", fmt.Errorf("usage: <command> <id>")
	}
	return r.desk.Board.Store().Resolve(ctx, args)
}
