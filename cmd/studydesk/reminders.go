package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notexe/studydesk/internal/parse"
	"github.com/notexe/studydesk/internal/reminder"
	"github.com/spf13/cobra"
)

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders sorted by urgency",
		Long: `List reminders with their live countdown, most urgent first.

Examples:
  studydesk list
  studydesk list --type exam
  studydesk list --urgency critical
  studydesk list --all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			urg, _ := cmd.Flags().GetString("urgency")
			all, _ := cmd.Flags().GetBool("all")

			items, err := a.desk.Board.List(cmd.Context(), reminder.Filter{Type: typ, Urgency: urg, IncludeCompleted: all})
			if err != nil {
				return err
			}
			return a.print(items, func() string { return a.formatter.FormatReminders(items) })
		},
	}
	cmd.Flags().StringP("type", "t", "", "Filter by type: exam, assignment, project, lab")
	cmd.Flags().StringP("urgency", "u", "", "Filter by priority (critical, urgent) or status (overdue, due_today, ...)")
	cmd.Flags().BoolP("all", "a", false, "Include completed reminders")
	return cmd
}

func dueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Reminders that are overdue or due within three hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.desk.Board.Due(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(items, func() string {
				if len(items) == 0 {
					return a.formatter.FormatInfo("Nothing needs attention right now.")
				}
				return a.formatter.FormatReminders(items)
			})
		},
	}
}

func addCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a reminder",
		Long: `Add a reminder.

Examples:
  studydesk add "DBMS record" --type lab --due 2025-03-20 --time 09:00
  studydesk add "Read chapter 4"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := reminder.Reminder{Title: strings.Join(args, " ")}
			r.Type, _ = cmd.Flags().GetString("type")
			r.Description, _ = cmd.Flags().GetString("description")
			if due, _ := cmd.Flags().GetString("due"); due != "" {
				r.DueDate = &due
			}
			if t, _ := cmd.Flags().GetString("time"); t != "" {
				r.DueTime = &t
			}

			saved, err := a.desk.Board.Store().Add(cmd.Context(), r)
			if errors.Is(err, reminder.ErrDuplicate) {
				return fmt.Errorf("a reminder with the same title, type and due date already exists")
			}
			if err != nil {
				return err
			}
			items := a.desk.Board.Enhance([]reminder.Reminder{*saved})
			return a.print(items[0], func() string {
				return a.formatter.FormatSuccess("Added") + "\n" + a.formatter.FormatReminder(items[0])
			})
		},
	}
	cmd.Flags().StringP("type", "t", reminder.TypeAssignment, "Reminder type")
	cmd.Flags().StringP("due", "d", "", "Due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().String("time", "", "Due time HH:MM")
	cmd.Flags().String("description", "", "Description")
	return cmd
}

func parseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Turn a class announcement into a reminder",
		Long: `Extract the title, type and due date from a message.

Examples:
  studydesk parse "Submit the OS assignment by next Friday 5pm"
  studydesk parse --save "DBMS internal exam on 12/03/2025"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := parse.Message(strings.Join(args, " "), a.desk.Now())
			save, _ := cmd.Flags().GetBool("save")
			if !save {
				return a.print(draft, func() string {
					return a.formatter.FormatDraft(draft) + "\n" + a.formatter.FormatSystem("Run again with --save to keep it.")
				})
			}

			saved, err := a.desk.SaveDraft(cmd.Context(), draft)
			if errors.Is(err, reminder.ErrDuplicate) {
				return fmt.Errorf("a reminder with the same title, type and due date already exists")
			}
			if err != nil {
				return err
			}
			items := a.desk.Board.Enhance([]reminder.Reminder{*saved})
			return a.print(items[0], func() string {
				return a.formatter.FormatSuccess("Saved") + "\n" + a.formatter.FormatReminder(items[0])
			})
		},
	}
	cmd.Flags().BoolP("save", "s", false, "Save the parsed reminder")
	return cmd
}

func updateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a reminder",
		Long: `Change fields of a reminder. Passing an empty --due or --time clears it.

Examples:
  studydesk update 3f2a9c1e --due 2025-03-22
  studydesk update 3f2a9c1e --time ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields reminder.UpdateFields
			set := func(name string, dst **string) {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*dst = &v
				}
			}
			set("title", &fields.Title)
			set("type", &fields.Type)
			set("description", &fields.Description)
			set("due", &fields.DueDate)
			set("time", &fields.DueTime)

			id, err := resolveID(cmd, a, args[0])
			if err != nil {
				return err
			}
			updated, err := a.desk.Board.Store().Update(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			items := a.desk.Board.Enhance([]reminder.Reminder{*updated})
			return a.print(items[0], func() string {
				return a.formatter.FormatSuccess("Updated") + "\n" + a.formatter.FormatReminder(items[0])
			})
		},
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("type", "t", "", "New type")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().StringP("due", "d", "", "New due date, empty to clear")
	cmd.Flags().String("time", "", "New due time HH:MM, empty to clear")
	return cmd
}

func doneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a reminder complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := a.desk.Board.Store().Complete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.formatter.FormatSuccess("Marked complete."))
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := a.desk.Board.Store().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.formatter.FormatSuccess("Deleted."))
			return nil
		},
	}
}

func dedupeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate reminders, keeping the oldest of each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.desk.Board.Store().CleanupDuplicates(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.formatter.FormatSuccess(fmt.Sprintf("Removed %d duplicate reminder(s).", n)))
			return nil
		},
	}
}

func resolveID(cmd *cobra.Command, a *app, prefix string) (string, error) {
	return a.desk.Board.Store().Resolve(cmd.Context(), prefix)
}
