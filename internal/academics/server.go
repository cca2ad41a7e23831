package academics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
)

// Service runs calculations and records them in the history.
type Service struct {
	history     *History
	minRequired float64
	scale       int
	logger      *log.Logger
}

// NewService creates a calculator service. minRequired and scale are the
// defaults used when a request leaves them out.
func NewService(history *History, minRequired float64, scale int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{history: history, minRequired: minRequired, scale: scale, logger: logger}
}

// History returns the underlying history store.
func (s *Service) History() *History {
	return s.history
}

// CGPA calculates and records a CGPA. scale 0 selects the default.
func (s *Service) CGPA(ctx context.Context, semesters []Semester, scale int) (*CGPAResult, error) {
	if scale == 0 {
		scale = s.scale
	}
	res, err := CalculateCGPA(semesters, scale, s.history.now())
	if err != nil {
		return nil, err
	}
	s.record(ctx, KindCGPA, res)
	return res, nil
}

// Attendance calculates and records an attendance check. minRequired 0
// selects the default.
func (s *Service) Attendance(ctx context.Context, attended, total int, minRequired float64, subject string) (*AttendanceResult, error) {
	if minRequired == 0 {
		minRequired = s.minRequired
	}
	res, err := CalculateAttendance(attended, total, minRequired, subject, s.history.now())
	if err != nil {
		return nil, err
	}
	s.record(ctx, KindAttendance, res)
	return res, nil
}

// A failed history write does not fail the calculation.
func (s *Service) record(ctx context.Context, kind string, result any) {
	if _, err := s.history.Record(ctx, kind, result); err != nil {
		s.logger.Warn("Failed to save calculation", "kind", kind, "err", err)
	}
}

// Tools returns the MCP tools for the calculators.
func (s *Service) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("calculate_cgpa",
				mcp.WithDescription("Credit-weighted CGPA over semesters, with 4- and 5-point conversions for 10-point input"),
				mcp.WithArray("semesters", mcp.Required(),
					mcp.Description("Semesters as objects with sgpa, credits and an optional name"),
					mcp.Items(map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":    map[string]any{"type": "string"},
							"sgpa":    map[string]any{"type": "number"},
							"credits": map[string]any{"type": "number"},
						},
						"required": []string{"sgpa", "credits"},
					}),
				),
				mcp.WithNumber("scale", mcp.Description("Grading scale: 10, 5 or 4")),
			),
			Handler: s.handleCGPA,
		},
		{
			Tool: mcp.NewTool("calculate_attendance",
				mcp.WithDescription("Attendance percentage with classes needed to recover or classes that can be skipped"),
				mcp.WithNumber("attended", mcp.Required(), mcp.Description("Classes attended")),
				mcp.WithNumber("total", mcp.Required(), mcp.Description("Classes held")),
				mcp.WithNumber("min_required", mcp.Description("Required percentage (default from config)")),
				mcp.WithString("subject", mcp.Description("Subject name")),
			),
			Handler: s.handleAttendance,
		},
		{
			Tool: mcp.NewTool("calculation_history",
				mcp.WithDescription("Recent CGPA and attendance calculations"),
				mcp.WithString("kind", mcp.Description("cgpa or attendance (default: both)")),
			),
			Handler: s.handleHistory,
		},
	}
}

func (s *Service) handleCGPA(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["semesters"].([]any)
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("semesters must be a non-empty array"), nil
	}

	semesters := make([]Semester, 0, len(raw))
	for _, item := range raw {
		m := cast.ToStringMap(item)
		semesters = append(semesters, Semester{
			Name:    cast.ToString(m["name"]),
			SGPA:    cast.ToFloat64(m["sgpa"]),
			Credits: cast.ToFloat64(m["credits"]),
		})
	}

	res, err := s.CGPA(ctx, semesters, int(req.GetFloat("scale", 0)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to calculate CGPA: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Service) handleAttendance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.Attendance(ctx,
		int(req.GetFloat("attended", 0)),
		int(req.GetFloat("total", 0)),
		req.GetFloat("min_required", 0),
		req.GetString("subject", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to calculate attendance: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Service) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kinds := []string{KindCGPA, KindAttendance}
	if k := req.GetString("kind", ""); k != "" {
		kinds = []string{k}
	}

	out := make(map[string][]Entry, len(kinds))
	for _, k := range kinds {
		entries, err := s.history.List(ctx, k, HistoryShow)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
		}
		out[k] = entries
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}
