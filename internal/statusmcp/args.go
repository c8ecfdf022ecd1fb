package statusmcp

import (
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// getArgs extracts the arguments map from a CallToolRequest. A request
// without arguments yields an empty map.
func getArgs(req mcplib.CallToolRequest) (map[string]any, error) {
	if req.Params.Arguments == nil {
		return map[string]any{}, nil
	}
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return args, nil
}

// stringArg extracts a required, non-empty string argument.
func stringArg(args map[string]any, name string) (string, error) {
	val, ok := args[name].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("%s argument is required and must be a string", name)
	}
	return val, nil
}

// optionalStringArg returns the string argument or def when it is missing
// or not a string.
func optionalStringArg(args map[string]any, name, def string) string {
	if val, ok := args[name].(string); ok && val != "" {
		return val
	}
	return def
}
