package reminder

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(t *testing.T, s *Server, name string, args map[string]any) (string, bool) {
	t.Helper()
	for _, tool := range s.Tools() {
		if tool.Tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		res, err := tool.Handler(context.Background(), req)
		if err != nil {
			t.Fatalf("%s returned error: %v", name, err)
		}
		text, ok := res.Content[0].(mcp.TextContent)
		if !ok {
			t.Fatalf("%s returned non-text content", name)
		}
		return text.Text, res.IsError
	}
	t.Fatalf("tool %s not registered", name)
	return "", false
}

func TestServerAddListComplete(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	s := NewServer(newTestBoard(t, now))

	out, isErr := callTool(t, s, "add_reminder", map[string]any{
		"title":    "Compiler lab",
		"type":     "lab",
		"due_date": "2025-01-10T08:30:00Z",
	})
	if isErr {
		t.Fatalf("add failed: %s", out)
	}
	var added struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Priority  string `json:"priority"`
		Countdown string `json:"countdown"`
	}
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("bad add output %q: %v", out, err)
	}
	if added.Status != "due_now" || added.Priority != "critical" || added.Countdown != "Due in 30m" {
		t.Errorf("added = %+v", added)
	}

	if out, isErr := callTool(t, s, "add_reminder", map[string]any{
		"title":    "compiler LAB",
		"type":     "lab",
		"due_date": "2025-01-10T08:30:00Z",
	}); !isErr || !strings.Contains(out, "duplicate") {
		t.Errorf("duplicate add = %q, %v", out, isErr)
	}

	if out, isErr := callTool(t, s, "complete_reminder", map[string]any{"id": added.ID}); isErr {
		t.Fatalf("complete failed: %s", out)
	}

	if out, _ := callTool(t, s, "list_reminders", map[string]any{}); out != "No reminders found." {
		t.Errorf("list after complete = %q", out)
	}
	if out, _ := callTool(t, s, "list_reminders", map[string]any{"include_completed": true}); !strings.Contains(out, "Compiler lab") {
		t.Errorf("list with completed = %q", out)
	}
}

func TestServerUpdateClearsDueDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	b := newTestBoard(t, now)
	s := NewServer(b)

	r, err := b.Store().Add(context.Background(), Reminder{Title: "Essay", DueDate: sp("2025-01-12")})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, isErr := callTool(t, s, "update_reminder", map[string]any{"id": r.ID, "due_date": ""})
	if isErr {
		t.Fatalf("update failed: %s", out)
	}
	if !strings.Contains(out, `"status": "no_date"`) || !strings.Contains(out, `"formatted_due_date": null`) {
		t.Errorf("update output = %s", out)
	}

	if out, isErr := callTool(t, s, "update_reminder", map[string]any{"id": "missing", "title": "x"}); !isErr || !strings.Contains(out, "not found") {
		t.Errorf("update missing = %q, %v", out, isErr)
	}
}

func TestServerUpdateDueTimeReclassifies(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	s := NewServer(newTestBoard(t, now))

	type view struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		DueTime   string `json:"due_time"`
		Countdown string `json:"countdown"`
	}
	decode := func(out string) view {
		t.Helper()
		var v view
		if err := json.Unmarshal([]byte(out), &v); err != nil {
			t.Fatalf("bad output %q: %v", out, err)
		}
		return v
	}

	out, isErr := callTool(t, s, "add_reminder", map[string]any{
		"title":    "Viva",
		"type":     "exam",
		"due_date": "2025-01-10",
		"due_time": "08:30",
	})
	if isErr {
		t.Fatalf("add failed: %s", out)
	}
	added := decode(out)
	if added.Status != "due_now" || added.DueTime != "08:30" {
		t.Fatalf("added = %+v", added)
	}

	out, isErr = callTool(t, s, "update_reminder", map[string]any{"id": added.ID, "due_time": "20:00"})
	if isErr {
		t.Fatalf("update failed: %s", out)
	}
	if got := decode(out); got.Status != "due_today" || got.DueTime != "20:00" {
		t.Errorf("after moving to 20:00 = %+v", got)
	}

	out, _ = callTool(t, s, "list_reminders", map[string]any{})
	if !strings.Contains(out, "Due today at 08:00 PM") {
		t.Errorf("list after update = %q", out)
	}
}

func TestServerParseReminder(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	b := newTestBoard(t, now)
	s := NewServer(b)

	args := map[string]any{"text": "Data Structures assignment due tomorrow at 5pm"}
	out, isErr := callTool(t, s, "parse_reminder", args)
	if isErr || !strings.Contains(out, `"due_date": "2025-01-09"`) {
		t.Fatalf("parse output = %s", out)
	}
	if list, _ := b.Store().List(context.Background(), true); len(list) != 0 {
		t.Fatalf("draft should not be saved, got %d", len(list))
	}

	args["save"] = true
	out, isErr = callTool(t, s, "parse_reminder", args)
	if isErr || !strings.Contains(out, `"status": "due_tomorrow"`) {
		t.Fatalf("save output = %s", out)
	}

	out, _ = callTool(t, s, "parse_reminder", args)
	if !strings.Contains(out, "already exists") {
		t.Errorf("second save = %s", out)
	}
}
