package timetable

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools returns the MCP tools for the class timetable and exam calendar.
func (s *Store) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("get_timetable",
				mcp.WithDescription("List classes for a day (monday..sunday, or today), or the whole week when day is empty"),
				mcp.WithString("day", mcp.Description("Day name or 'today'")),
			),
			Handler: s.handleGetTimetable,
		},
		{
			Tool: mcp.NewTool("add_class",
				mcp.WithDescription("Add a class to the weekly timetable"),
				mcp.WithString("day", mcp.Required(), mcp.Description("Day name, e.g. monday")),
				mcp.WithString("start_time", mcp.Required(), mcp.Description("Start time HH:MM")),
				mcp.WithString("end_time", mcp.Required(), mcp.Description("End time HH:MM")),
				mcp.WithString("subject", mcp.Required(), mcp.Description("Subject name")),
				mcp.WithString("teacher", mcp.Description("Teacher name")),
				mcp.WithString("room", mcp.Description("Room number")),
				mcp.WithString("class_type", mcp.Description("lecture, lab, tutorial or practical")),
			),
			Handler: s.handleAddClass,
		},
		{
			Tool: mcp.NewTool("delete_class",
				mcp.WithDescription("Remove a class from the timetable"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Class ID")),
			),
			Handler: s.handleDeleteClass,
		},
		{
			Tool: mcp.NewTool("add_exam",
				mcp.WithDescription("Add an exam to the exam calendar"),
				mcp.WithString("subject", mcp.Required(), mcp.Description("Exam subject")),
				mcp.WithString("date", mcp.Required(), mcp.Description("Exam date YYYY-MM-DD")),
				mcp.WithString("time", mcp.Required(), mcp.Description("Start time HH:MM")),
				mcp.WithString("session", mcp.Description("Session, e.g. FN or AN")),
				mcp.WithString("location", mcp.Description("Exam hall or room")),
			),
			Handler: s.handleAddExam,
		},
		{
			Tool: mcp.NewTool("list_exams",
				mcp.WithDescription("List exams in date order with the time left until each"),
			),
			Handler: s.handleListExams,
		},
		{
			Tool: mcp.NewTool("next_exam",
				mcp.WithDescription("Countdown to the next upcoming exam"),
			),
			Handler: s.handleNextExam,
		},
		{
			Tool: mcp.NewTool("delete_exam",
				mcp.WithDescription("Remove an exam from the calendar"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Exam ID")),
			),
			Handler: s.handleDeleteExam,
		},
	}
}

func (s *Store) handleGetTimetable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := req.GetString("day", "")
	if day == "today" {
		day = DayOf(s.Now())
	}
	if day != "" && DayIndex(day) < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown day %q", day)), nil
	}

	classes, err := s.Classes(ctx, day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load timetable: %v", err)), nil
	}
	if len(classes) == 0 {
		return mcp.NewToolResultText("No classes scheduled."), nil
	}
	return jsonResult(classes)
}

func (s *Store) handleAddClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.AddClass(ctx, ClassEntry{
		Day:         req.GetString("day", ""),
		StartTime:   req.GetString("start_time", ""),
		EndTime:     req.GetString("end_time", ""),
		SubjectName: req.GetString("subject", ""),
		TeacherName: req.GetString("teacher", ""),
		RoomNumber:  req.GetString("room", ""),
		ClassType:   req.GetString("class_type", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add class: %v", err)), nil
	}
	return jsonResult(c)
}

func (s *Store) handleDeleteClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if err := s.DeleteClass(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete class: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Class %s deleted.", id)), nil
}

func (s *Store) handleAddExam(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := s.AddExam(ctx, Exam{
		Subject:  req.GetString("subject", ""),
		Date:     req.GetString("date", ""),
		Time:     req.GetString("time", ""),
		Session:  req.GetString("session", ""),
		Location: req.GetString("location", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add exam: %v", err)), nil
	}
	return jsonResult(e)
}

func (s *Store) handleListExams(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exams, err := s.Exams(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list exams: %v", err)), nil
	}
	if len(exams) == 0 {
		return mcp.NewToolResultText("No exams scheduled."), nil
	}
	return jsonResult(Schedule(exams, s.Now(), s.loc))
}

func (s *Store) handleNextExam(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, ok, err := s.NextExam(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to find next exam: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText("No upcoming exams."), nil
	}
	return jsonResult(c)
}

func (s *Store) handleDeleteExam(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if err := s.DeleteExam(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete exam: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exam %s deleted.", id)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}
