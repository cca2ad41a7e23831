package repl

import (
	"context"
	"fmt"

	"github.com/notexe/studydesk/internal/reminder"
)

func (r *REPL) print(s string) {
	fmt.Fprintln(r.out, s)
	fmt.Fprintln(r.out)
}

func (r *REPL) displayError(err error) {
	r.print(r.formatter.FormatError(err))
}

func (r *REPL) displayWelcome(ctx context.Context) {
	items, err := r.desk.Board.List(ctx, reminder.Filter{})
	if err != nil {
		r.displayError(err)
		return
	}
	stats := reminder.Summarize(items)
	fmt.Fprint(r.out, r.formatter.FormatWelcome(stats))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	r.print(r.formatter.FormatInfo(msg))
}

func (r *REPL) displaySystem(msg string) {
	r.print(r.formatter.FormatSystem(msg))
}
