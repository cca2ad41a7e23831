package main

import (
	"context"
	"fmt"
	"time"

	"github.com/notexe/studydesk/internal/calendar"
	"github.com/notexe/studydesk/internal/repl"
	"github.com/notexe/studydesk/internal/ui"
	"github.com/spf13/cobra"
)

func holidaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays [month]",
		Short: "List holidays with the days left until each",
		Long: `List holidays, optionally for one month given as a number or name.

Examples:
  studydesk holidays
  studydesk holidays oct
  studydesk holidays --type national --year 2025`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q calendar.Query
			if len(args) == 1 {
				month, err := calendar.ParseMonth(args[0])
				if err != nil {
					return err
				}
				q.Month = month
			}
			q.Year, _ = cmd.Flags().GetInt("year")
			q.Type, _ = cmd.Flags().GetString("type")
			q.Search, _ = cmd.Flags().GetString("search")

			entries := a.desk.Calendar.Find(q, a.desk.Now())
			return a.print(entries, func() string { return a.formatter.FormatHolidays(entries) })
		},
	}
	cmd.Flags().Int("year", 0, "Only holidays in this year")
	cmd.Flags().StringP("type", "t", "", "Holiday type: national, state, religious, festival")
	cmd.Flags().StringP("search", "s", "", "Match the name or description")
	return cmd
}

func calendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar [month]",
		Aliases: []string{"cal"},
		Short:   "Show a month with holidays, exams and deadlines",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.desk.Now()
			month := int(now.Month())
			if len(args) == 1 {
				m, err := calendar.ParseMonth(args[0])
				if err != nil {
					return err
				}
				if m != 0 {
					month = m
				}
			}
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = now.Year()
			}

			events, err := a.desk.MonthEvents(cmd.Context(), year, time.Month(month))
			if err != nil {
				return err
			}
			grid := a.desk.Calendar.MonthGrid(year, time.Month(month), now, events)
			return a.print(grid, func() string { return a.formatter.FormatMonth(grid) })
		},
	}
	cmd.Flags().Int("year", 0, "Year to show (default current)")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print today's dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), a)
		},
	}
}

func runReport(ctx context.Context, a *app) error {
	report, err := a.desk.Report(ctx)
	if err != nil {
		return err
	}
	return a.print(report, func() string {
		md := report.Markdown()
		if a.desk.Config.UI.Markdown {
			md = a.formatter.RenderMarkdown(md)
		}
		return md
	})
}

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard with ticking countdowns",
		Long:  "Open a full-screen dashboard that redraws countdowns on every tick. Press r to refresh and q to quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				interval = a.desk.Config.CountdownInterval()
			}
			return ui.RunWatch(cmd.Context(), a.desk.Report, interval, a.formatter)
		},
	}
	cmd.Flags().Duration("interval", 0, "Refresh interval (default from config)")
	return cmd
}

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell: paste announcements and run /commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repl.NewREPL(a.desk)
			if err != nil {
				return fmt.Errorf("failed to start shell: %w", err)
			}
			go func() {
				<-cmd.Context().Done()
				r.Stop()
			}()
			return r.Start(cmd.Context())
		},
	}
}
