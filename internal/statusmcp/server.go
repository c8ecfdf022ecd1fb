// Package statusmcp exposes a running set of progress indicators as an MCP
// server, so an agent can read task status and post global messages while
// the tasks run.
package statusmcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"taskprogress/internal/progress"
)

// Source is the view of the indicators the server needs.
type Source interface {
	Snapshot() []progress.TaskInfo
	Task(name string) (*progress.Task, error)
	PostMessage(msg string)
}

// Tool names.
const (
	ToolListTasks   = "list_tasks"
	ToolTaskStatus  = "task_status"
	ToolPostMessage = "post_message"
)

// statusFilters are the values of list_tasks' status argument. "finished"
// matches every terminal state, "done" only successful ones.
var statusFilters = []string{"all", "running", "finished", "done", "error", "cancelled"}

type registration struct {
	tool    mcplib.Tool
	handler server.ToolHandlerFunc
}

// Server serves the status tools over MCP.
type Server struct {
	src       Source
	mcpServer *server.MCPServer
	tools     []registration
	logger    *slog.Logger
}

// NewServer creates a server over src with every tool registered.
func NewServer(src Source, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		src:    src,
		logger: logger,
		mcpServer: server.NewMCPServer(
			"taskprogress",
			version,
			server.WithToolCapabilities(false),
		),
	}

	s.register(mcplib.NewTool(ToolListTasks,
		mcplib.WithDescription("List every task with its status, message and progress, in display order."),
		mcplib.WithString("status",
			mcplib.Description("Only return tasks in this state (default: all)"),
			mcplib.Enum(statusFilters...),
		),
	), s.handleListTasks)

	s.register(mcplib.NewTool(ToolTaskStatus,
		mcplib.WithDescription("Return the state of one task, looked up by its description."),
		mcplib.WithString("name",
			mcplib.Required(),
			mcplib.Description("The task description"),
		),
	), s.handleTaskStatus)

	s.register(mcplib.NewTool(ToolPostMessage,
		mcplib.WithDescription("Print a message above the task block."),
		mcplib.WithString("message",
			mcplib.Required(),
			mcplib.Description("The message to print"),
		),
	), s.handlePostMessage)

	return s
}

func (s *Server) register(tool mcplib.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, registration{tool: tool, handler: handler})
	s.mcpServer.AddTool(tool, handler)
}

// Serve reads requests from in and writes responses to out until ctx is
// done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	s.logger.Info("mcp server listening", "tools", len(s.tools))
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// HandleMessage processes a raw JSON-RPC message and returns the response.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcplib.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns the registered tools in registration order.
func (s *Server) ListTools() []mcplib.Tool {
	tools := make([]mcplib.Tool, 0, len(s.tools))
	for _, r := range s.tools {
		tools = append(tools, r.tool)
	}
	return tools
}

// CallTool runs a tool directly, without going through the protocol.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*mcplib.CallToolResult, error) {
	i := slices.IndexFunc(s.tools, func(r registration) bool { return r.tool.Name == name })
	if i < 0 {
		return mcplib.NewToolResultError(fmt.Sprintf("unknown tool: %s", name)), nil
	}
	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	}
	return s.tools[i].handler(ctx, req)
}

func (s *Server) handleListTasks(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args, err := getArgs(req)
	if err != nil {
		return nil, err
	}
	filter := optionalStringArg(args, "status", "all")
	if !slices.Contains(statusFilters, filter) {
		return mcplib.NewToolResultError(fmt.Sprintf("unknown status filter %q", filter)), nil
	}

	tasks := []progress.TaskInfo{}
	for _, info := range s.src.Snapshot() {
		if matches(info, filter) {
			tasks = append(tasks, info)
		}
	}
	return jsonResult(tasks)
}

func (s *Server) handleTaskStatus(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args, err := getArgs(req)
	if err != nil {
		return nil, err
	}
	name, err := stringArg(args, "name")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}

	task, err := s.src.Task(name)
	if errors.Is(err, progress.ErrNoTask) {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	return jsonResult(task.Info())
}

func (s *Server) handlePostMessage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args, err := getArgs(req)
	if err != nil {
		return nil, err
	}
	msg, err := stringArg(args, "message")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}

	s.src.PostMessage(msg)
	s.logger.Debug("message posted over mcp", "bytes", len(msg))
	return mcplib.NewToolResultText("posted"), nil
}

func matches(info progress.TaskInfo, filter string) bool {
	switch filter {
	case "all":
		return true
	case "finished":
		return info.Finished()
	case "done":
		return info.Status == progress.StatusDone.String()
	default:
		return info.Status == filter
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcplib.NewToolResultText(string(data)), nil
}
