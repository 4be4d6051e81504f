package server

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func argString(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func argBool(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// argInt reads a numeric argument. JSON numbers arrive as float64.
func argInt(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// jsonResult marshals v into a text tool result. Marshal failures are
// reported as a structured failure rather than a protocol error.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return failure("Falha ao serializar o resultado: " + err.Error())
	}
	return mcp.NewToolResultText(string(b)), nil
}

// failure is the canonical structured-failure payload.
func failure(msg string) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
