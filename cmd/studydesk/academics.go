package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notexe/studydesk/internal/academics"
	"github.com/spf13/cobra"
)

func cgpaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cgpa <sgpa:credits>...",
		Short: "Calculate CGPA from semester SGPAs",
		Long: `Calculate the credit-weighted CGPA. Each argument is one semester as sgpa:credits.

Examples:
  studydesk cgpa 8.5:20 9.1:22 7.8:24
  studydesk cgpa 3.6:18 3.8:20 --scale 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, _ := cmd.Flags().GetInt("scale")

			semesters := make([]academics.Semester, 0, len(args))
			for _, arg := range args {
				sem, err := academics.ParseSemester(arg)
				if err != nil {
					return err
				}
				semesters = append(semesters, sem)
			}

			res, err := a.desk.Academics.CGPA(cmd.Context(), semesters, scale)
			if err != nil {
				return err
			}
			return a.print(res, func() string { return a.formatter.FormatCGPA(res) })
		},
	}
	cmd.Flags().Int("scale", 0, "Grading scale: 10, 5 or 4 (default from config)")
	return cmd
}

func attendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance <attended> <total> [subject]",
		Aliases: []string{"att"},
		Short:   "Check attendance against the required minimum",
		Long: `Report the attendance percentage and how many classes you can skip or must attend.

Examples:
  studydesk attendance 30 40
  studydesk attendance 30 50 "Operating Systems" --min 80`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attended, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid attended count %q", args[0])
			}
			total, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid total count %q", args[1])
			}
			minRequired, _ := cmd.Flags().GetFloat64("min")

			res, err := a.desk.Academics.Attendance(cmd.Context(), attended, total, minRequired, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return a.print(res, func() string { return a.formatter.FormatAttendance(res) })
		},
	}
	cmd.Flags().Float64("min", 0, "Minimum attendance percent (default from config)")
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "history [cgpa|attendance]",
		Short:     "Show recent calculations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{academics.KindCGPA, academics.KindAttendance},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := a.desk.Academics.History().List(cmd.Context(), kind, limit)
			if err != nil {
				return err
			}
			return a.print(entries, func() string { return a.formatter.FormatHistory(entries) })
		},
	}
	cmd.Flags().IntP("limit", "n", academics.HistoryShow, "Number of entries to show")
	return cmd
}
