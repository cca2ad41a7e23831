package main

import (
	"fmt"
	"strings"

	"github.com/notexe/studydesk/internal/timetable"
	"github.com/spf13/cobra"
)

func timetableCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timetable [day]",
		Aliases: []string{"tt"},
		Short:   "Show the class schedule",
		Long: `Show the classes for a day, today by default, or the whole week with --week.

Examples:
  studydesk timetable
  studydesk timetable friday
  studydesk timetable --week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if week, _ := cmd.Flags().GetBool("week"); week {
				classes, err := a.desk.Timetable.Classes(ctx, "")
				if err != nil {
					return err
				}
				return a.print(classes, func() string { return a.formatter.FormatWeek(classes) })
			}

			now := a.desk.Now()
			day, clock := timetable.DayOf(now), now.Format("15:04")
			if len(args) == 1 && !strings.EqualFold(args[0], "today") {
				day, clock = strings.ToLower(args[0]), ""
			}
			if timetable.DayIndex(day) < 0 {
				return fmt.Errorf("unknown day %q", day)
			}
			classes, err := a.desk.Timetable.Classes(ctx, day)
			if err != nil {
				return err
			}
			return a.print(classes, func() string { return a.formatter.FormatDaySchedule(day, classes, clock) })
		},
	}
	cmd.Flags().BoolP("week", "w", false, "Show every day of the week")
	return cmd
}

func classCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Edit the weekly timetable",
	}

	add := &cobra.Command{
		Use:   "add <day> <start> <end> <subject>",
		Short: "Add a class slot",
		Long: `Add a class slot. Times are 24-hour HH:MM.

Examples:
  studydesk class add monday 09:00 10:00 "Operating Systems" --room 204
  studydesk class add friday 14:00 16:00 "DBMS Lab" --type lab`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := timetable.ClassEntry{
				Day:         args[0],
				StartTime:   args[1],
				EndTime:     args[2],
				SubjectName: strings.Join(args[3:], " "),
			}
			c.TeacherName, _ = cmd.Flags().GetString("teacher")
			c.RoomNumber, _ = cmd.Flags().GetString("room")
			c.ClassType, _ = cmd.Flags().GetString("type")

			saved, err := a.desk.Timetable.AddClass(cmd.Context(), c)
			if err != nil {
				return err
			}
			return a.print(saved, func() string { return a.formatter.FormatClassAdded(saved) })
		},
	}
	add.Flags().String("teacher", "", "Teacher name")
	add.Flags().String("room", "", "Room number")
	add.Flags().StringP("type", "t", timetable.ClassLecture, "Class type: lecture, lab, tutorial, practical")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a class slot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.desk.Timetable.DeleteClass(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.formatter.FormatSuccess("Class removed."))
			return nil
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func examCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Manage the exam calendar",
	}

	add := &cobra.Command{
		Use:   "add <subject> <date> <time>",
		Short: "Add an exam",
		Long: `Add an exam. The date is YYYY-MM-DD and the time is 24-hour HH:MM.

Examples:
  studydesk exam add "Operating Systems" 2025-03-18 10:00 --location "Hall B"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := timetable.Exam{Subject: args[0], Date: args[1], Time: args[2]}
			e.Session, _ = cmd.Flags().GetString("session")
			e.Location, _ = cmd.Flags().GetString("location")

			saved, err := a.desk.Timetable.AddExam(cmd.Context(), e)
			if err != nil {
				return err
			}
			return a.print(saved, func() string {
				return a.formatter.FormatSuccess(fmt.Sprintf("Added %s exam on %s at %s (%s)", saved.Subject, saved.Date, saved.Time, saved.ID))
			})
		},
	}
	add.Flags().String("session", "", "Session label, e.g. FN or AN")
	add.Flags().String("location", "", "Exam hall")

	list := &cobra.Command{
		Use:   "list",
		Short: "List exams with the time left for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exams, err := a.desk.Timetable.Exams(cmd.Context())
			if err != nil {
				return err
			}
			tt := a.desk.Timetable
			schedule := timetable.Schedule(exams, tt.Now(), tt.Location())
			return a.print(schedule, func() string { return a.formatter.FormatExams(schedule) })
		},
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Countdown to the next exam",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := a.desk.Timetable.NextExam(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return a.print(nil, func() string { return a.formatter.FormatInfo("No upcoming exams.") })
			}
			return a.print(c, func() string { return a.formatter.FormatCountdown(c) })
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an exam",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.desk.Timetable.DeleteExam(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.formatter.FormatSuccess("Exam removed."))
			return nil
		},
	}

	cmd.AddCommand(add, list, next, del)
	return cmd
}
