package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools returns the MCP tools for the holiday calendar. now supplies the
// reference day for status and countdown labels.
func (c *Calendar) Tools(now func() time.Time) []server.ServerTool {
	if now == nil {
		now = time.Now
	}
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_holidays",
				mcp.WithDescription("List public holidays with today/past/upcoming status and a countdown"),
				mcp.WithNumber("year", mcp.Description("Year filter")),
				mcp.WithNumber("month", mcp.Description("Month filter, 1-12")),
				mcp.WithString("type", mcp.Description("national, state, religious or festival")),
				mcp.WithString("search", mcp.Description("Text to look for in the name or description")),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				month := int(req.GetFloat("month", 0))
				if month < 0 || month > 12 {
					return mcp.NewToolResultError(fmt.Sprintf("month %d is out of range", month)), nil
				}
				entries := c.Find(Query{
					Year:   int(req.GetFloat("year", 0)),
					Month:  month,
					Type:   req.GetString("type", ""),
					Search: req.GetString("search", ""),
				}, now())
				if len(entries) == 0 {
					return mcp.NewToolResultText("No holidays found."), nil
				}
				return jsonResult(entries)
			},
		},
		{
			Tool: mcp.NewTool("next_holiday",
				mcp.WithDescription("The next holiday from today"),
			),
			Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				e, ok := c.Next(now())
				if !ok {
					return mcp.NewToolResultText("No upcoming holidays."), nil
				}
				return jsonResult(e)
			},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}
