// Command studydesk is the student dashboard: reminders with live urgency,
// the class timetable, exam countdowns, CGPA and attendance calculators and
// the holiday calendar.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/desk"
	"github.com/notexe/studydesk/internal/ui"
	"github.com/spf13/cobra"
)

var version = "dev"

type app struct {
	configPath string
	noColor    bool
	jsonOut    bool
	out        io.Writer

	desk      *desk.Desk
	formatter *ui.Formatter
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if a.noColor {
		cfg.UI.ColoredOutput = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	d, err := desk.Open(cfg, desk.NewLogger(cfg, "studydesk"))
	if err != nil {
		return err
	}
	a.desk = d
	a.formatter = ui.NewFormatter(cfg.UI.ColoredOutput)
	return nil
}

func (a *app) close() {
	if a.desk != nil {
		a.desk.Close()
	}
}

// print writes v as JSON when --json is set and the rendered text otherwise.
func (a *app) print(v any, rendered func() string) error {
	if a.jsonOut {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(out))
		return nil
	}
	fmt.Fprintln(a.out, rendered())
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "studydesk",
		Short:             "Student dashboard for reminders, timetable and exams",
		Long:              "Track assignments and exams with live countdowns, keep a class timetable,\ncalculate CGPA and attendance, and check upcoming holidays.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), a)
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.GetDefaultConfigPath(), "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		listCmd(a), dueCmd(a), addCmd(a), parseCmd(a), updateCmd(a), doneCmd(a), deleteCmd(a), dedupeCmd(a),
		timetableCmd(a), classCmd(a), examCmd(a),
		cgpaCmd(a), attendanceCmd(a), historyCmd(a),
		holidaysCmd(a), calendarCmd(a),
		reportCmd(a), watchCmd(a), shellCmd(a),
	)
	return rootCmd
}

func main() {
	a := &app{out: os.Stdout}
	rootCmd := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
