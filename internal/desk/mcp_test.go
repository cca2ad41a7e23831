package desk

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// connect starts an in-process MCP client against the desk's server.
func connect(t *testing.T, d *Desk) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(d.MCPServer())
	if err != nil {
		t.Fatalf("failed to create MCP client: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start MCP client: %v", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{Name: "studydesk-test", Version: "1.0.0"}
	if _, err := c.Initialize(ctx, initRequest); err != nil {
		t.Fatalf("MCP initialization failed: %v", err)
	}
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.CallTool(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: tool call failed: %v", name, err)
	}
	var out strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			out.WriteString(text.Text)
		}
	}
	return out.String(), result.IsError
}

func TestMCPServerListsEveryTool(t *testing.T) {
	d := newTestDesk(t)
	c := connect(t, d)

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("failed to list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"add_reminder", "list_reminders", "get_due_reminders", "parse_reminder",
		"get_timetable", "next_exam", "calculate_cgpa", "calculation_history", "next_holiday",
	} {
		if !names[want] {
			t.Errorf("tool %s not served", want)
		}
	}
}

func TestMCPServerCallsTools(t *testing.T) {
	d := newTestDesk(t)
	c := connect(t, d)

	due := d.Now().AddDate(0, 0, 3).Format("2006-01-02")
	out, isErr := callTool(t, c, "add_reminder", map[string]any{"title": "OS assignment", "type": "assignment", "due_date": due})
	if isErr || !strings.Contains(out, "OS assignment") {
		t.Fatalf("add_reminder = %q (error %v)", out, isErr)
	}

	out, isErr = callTool(t, c, "list_reminders", map[string]any{})
	if isErr || !strings.Contains(out, "OS assignment") || !strings.Contains(out, "3 days left") {
		t.Errorf("list_reminders = %q (error %v)", out, isErr)
	}

	out, isErr = callTool(t, c, "calculate_cgpa", map[string]any{
		"semesters": []any{
			map[string]any{"sgpa": 8.5, "credits": 20},
			map[string]any{"sgpa": 9.0, "credits": 22},
		},
	})
	if isErr || !strings.Contains(out, "8.76") {
		t.Errorf("calculate_cgpa = %q (error %v)", out, isErr)
	}

	if _, isErr = callTool(t, c, "add_reminder", map[string]any{"title": "  "}); !isErr {
		t.Error("blank title should be a tool error")
	}
}
