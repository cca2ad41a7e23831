package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/studydesk/internal/parse"
	"github.com/spf13/cast"
)

const (
	serverName    = "studydesk"
	serverVersion = "1.0.0"
)

// Server is the MCP server exposing the reminder board.
type Server struct {
	mcpServer *server.MCPServer
	board     *Board
}

// NewServer creates a new MCP server backed by the given board.
func NewServer(board *Board) *Server {
	s := &Server{board: board}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.mcpServer.AddTools(s.Tools()...)
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// AddTools registers tools from other packages on the same server.
func (s *Server) AddTools(tools ...server.ServerTool) {
	s.mcpServer.AddTools(tools...)
}

// Tools returns the reminder tools.
func (s *Server) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("add_reminder",
				mcp.WithDescription("Add a reminder. due_date accepts ISO 8601 dates or timestamps; due_time is HH:MM"),
				mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
				mcp.WithString("type", mcp.Description("exam, assignment, project or lab (default: assignment)")),
				mcp.WithString("due_date", mcp.Description("Due date, e.g. 2025-03-14 or 2025-03-14T09:00:00Z")),
				mcp.WithString("due_time", mcp.Description("Time of day in 24-hour HH:MM")),
				mcp.WithString("description", mcp.Description("Optional description")),
			),
			Handler: s.handleAddReminder,
		},
		{
			Tool: mcp.NewTool("list_reminders",
				mcp.WithDescription("List reminders sorted by urgency with status, priority and countdown"),
				mcp.WithString("type", mcp.Description("Filter by type, or all")),
				mcp.WithString("urgency", mcp.Description("critical, urgent, or a status such as overdue, due_today, due_tomorrow")),
				mcp.WithBoolean("include_completed", mcp.Description("Include completed reminders")),
			),
			Handler: s.handleListReminders,
		},
		{
			Tool: mcp.NewTool("get_due_reminders",
				mcp.WithDescription("Get open reminders that are overdue or due within three hours"),
			),
			Handler: s.handleGetDueReminders,
		},
		{
			Tool: mcp.NewTool("complete_reminder",
				mcp.WithDescription("Mark a reminder as completed"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			),
			Handler: s.handleCompleteReminder,
		},
		{
			Tool: mcp.NewTool("delete_reminder",
				mcp.WithDescription("Delete a reminder permanently"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			),
			Handler: s.handleDeleteReminder,
		},
		{
			Tool: mcp.NewTool("update_reminder",
				mcp.WithDescription("Update a reminder's fields. An empty due_date or due_time clears it"),
				mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("type", mcp.Description("New type")),
				mcp.WithString("description", mcp.Description("New description")),
				mcp.WithString("due_date", mcp.Description("New due date")),
				mcp.WithString("due_time", mcp.Description("New time of day, HH:MM")),
				mcp.WithBoolean("completed", mcp.Description("Completion flag")),
			),
			Handler: s.handleUpdateReminder,
		},
		{
			Tool: mcp.NewTool("cleanup_duplicates",
				mcp.WithDescription("Remove reminders with the same title, type and due date, keeping the oldest"),
			),
			Handler: s.handleCleanupDuplicates,
		},
		{
			Tool: mcp.NewTool("reminder_stats",
				mcp.WithDescription("Count open reminders by priority and status"),
			),
			Handler: s.handleStats,
		},
		{
			Tool: mcp.NewTool("parse_reminder",
				mcp.WithDescription("Extract a reminder draft (type, title, subject, due date) from a pasted message"),
				mcp.WithString("text", mcp.Required(), mcp.Description("Message text")),
				mcp.WithBoolean("save", mcp.Description("Save the draft as a reminder")),
			),
			Handler: s.handleParseReminder,
		},
	}
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := Reminder{
		Title:       req.GetString("title", ""),
		Type:        req.GetString("type", ""),
		Description: req.GetString("description", ""),
	}
	if v := req.GetString("due_date", ""); v != "" {
		r.DueDate = &v
	}
	if v := req.GetString("due_time", ""); v != "" {
		r.DueTime = &v
	}

	added, err := s.board.Store().Add(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	return jsonResult(s.board.Enhance([]Reminder{*added})[0])
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := Filter{
		Type:             req.GetString("type", ""),
		Urgency:          req.GetString("urgency", ""),
		IncludeCompleted: req.GetBool("include_completed", false),
	}

	items, err := s.board.List(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	return jsonResult(items)
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.board.Due(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	return jsonResult(items)
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.board.Store().Complete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s marked as completed.", id)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.board.Store().Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	args := req.GetArguments()
	optional := func(key string) *string {
		v, ok := args[key]
		if !ok || v == nil {
			return nil
		}
		str := cast.ToString(v)
		return &str
	}

	fields := UpdateFields{
		Title:       optional("title"),
		Type:        optional("type"),
		Description: optional("description"),
		DueDate:     optional("due_date"),
		DueTime:     optional("due_time"),
	}
	if v, ok := args["completed"]; ok {
		done := cast.ToBool(v)
		fields.Completed = &done
	}

	updated, err := s.board.Store().Update(ctx, id, fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}

	return jsonResult(s.board.Enhance([]Reminder{*updated})[0])
}

func (s *Server) handleCleanupDuplicates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.board.Store().CleanupDuplicates(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clean up duplicates: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed %d duplicate reminder(s).", n)), nil
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.board.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute stats: %v", err)), nil
	}
	return jsonResult(stats)
}

func (s *Server) handleParseReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	draft := parse.Message(text, s.board.Engine().Clock())
	if !req.GetBool("save", false) {
		return jsonResult(draft)
	}

	added, err := s.board.Store().Add(ctx, FromDraft(draft))
	if errors.Is(err, ErrDuplicate) {
		return mcp.NewToolResultText("A reminder with the same title, type and due date already exists."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save reminder: %v", err)), nil
	}

	return jsonResult(s.board.Enhance([]Reminder{*added})[0])
}

// FromDraft converts a parsed draft into a reminder ready to be stored.
func FromDraft(d parse.Draft) Reminder {
	return Reminder{
		Title:       d.Title,
		Description: d.Description,
		Type:        d.Type,
		DueDate:     d.DueDate,
		DueTime:     d.DueTime,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}
