package statusmcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"taskprogress/internal/progress"
)

func newTestServer(t *testing.T) (*Server, *progress.Indicators, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ind := progress.New(progress.DefaultFormat(), progress.WithWriter(&out), progress.WithInteractive(false))

	main := ind.NewSpinnerTask("Building Main")
	logging := ind.NewBarTask("Building Logging", 4)
	lint := ind.NewSpinnerTask("Lint")
	for _, task := range []*progress.Task{main, logging, lint} {
		ind.AddTask(task)
	}
	logging.Advance(1)
	main.Finish()
	lint.SetError()

	return NewServer(ind, "test", nil), ind, &out
}

// getTextContent extracts the text content from a CallToolResult.
func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcplib.TextContent)
	if !ok {
		t.Fatalf("content is %T, not text", result.Content[0])
	}
	return text.Text
}

func TestListTools(t *testing.T) {
	s, _, _ := newTestServer(t)
	var names []string
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
	}
	want := []string{ToolListTasks, ToolTaskStatus, ToolPostMessage}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("tools = %v, want %v", names, want)
	}
}

func TestListTasks(t *testing.T) {
	s, _, _ := newTestServer(t)
	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"Building Main", "Building Logging", "Lint"}},
		{"all", []string{"Building Main", "Building Logging", "Lint"}},
		{"running", []string{"Building Logging"}},
		{"finished", []string{"Building Main", "Lint"}},
		{"done", []string{"Building Main"}},
		{"error", []string{"Lint"}},
		{"cancelled", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			args := map[string]any{}
			if tt.filter != "" {
				args["status"] = tt.filter
			}
			result, err := s.CallTool(context.Background(), ToolListTasks, args)
			if err != nil {
				t.Fatalf("CallTool: %v", err)
			}
			if result.IsError {
				t.Fatalf("tool error: %s", getTextContent(t, result))
			}

			var infos []progress.TaskInfo
			if err := json.Unmarshal([]byte(getTextContent(t, result)), &infos); err != nil {
				t.Fatalf("decode: %v", err)
			}
			got := []string{}
			for _, info := range infos {
				got = append(got, info.Description)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("tasks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListTasksRejectsUnknownFilter(t *testing.T) {
	s, _, _ := newTestServer(t)
	result, err := s.CallTool(context.Background(), ToolListTasks, map[string]any{"status": "paused"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("unknown filter accepted")
	}
}

func TestTaskStatus(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, err := s.CallTool(context.Background(), ToolTaskStatus, map[string]any{"name": "Building Logging"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	var info progress.TaskInfo
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Status != "running" || info.Percent == nil || *info.Percent != 25 || info.Kind != "bar" {
		t.Fatalf("info = %+v", info)
	}

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"unknown task", map[string]any{"name": "Building Docs"}, "no such task (named: Building Docs)"},
		{"missing name", map[string]any{}, "name argument is required"},
		{"wrong type", map[string]any{"name": 3}, "name argument is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.CallTool(context.Background(), ToolTaskStatus, tt.args)
			if err != nil {
				t.Fatalf("CallTool: %v", err)
			}
			if !result.IsError || !strings.Contains(getTextContent(t, result), tt.want) {
				t.Fatalf("result = %+v, want error %q", result, tt.want)
			}
		})
	}
}

func TestPostMessage(t *testing.T) {
	s, _, out := newTestServer(t)
	result, err := s.CallTool(context.Background(), ToolPostMessage, map[string]any{"message": "deploy started"})
	if err != nil || result.IsError {
		t.Fatalf("CallTool = %+v, %v", result, err)
	}
	if !strings.HasSuffix(out.String(), "deploy started\n") {
		t.Fatalf("message not printed: %q", out.String())
	}

	result, _ = s.CallTool(context.Background(), ToolPostMessage, map[string]any{})
	if !result.IsError {
		t.Fatal("empty message accepted")
	}
}

func TestCallUnknownTool(t *testing.T) {
	s, _, _ := newTestServer(t)
	result, err := s.CallTool(context.Background(), "restart", nil)
	if err != nil || !result.IsError {
		t.Fatalf("CallTool = %+v, %v", result, err)
	}
}

func TestHandleMessage(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	initReq := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test-client","version":"1.0.0"}}}`
	if resp := s.HandleMessage(ctx, []byte(initReq)); resp == nil {
		t.Fatal("no response to initialize")
	}

	call := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"task_status","arguments":{"name":"Lint"}}}`
	resp := s.HandleMessage(ctx, []byte(call))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `\"status\":\"error\"`) {
		t.Fatalf("response = %s", data)
	}
}
