package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// recipeIDArg reads a positive integer id. JSON numbers arrive as float64;
// numeric strings are accepted too.
func recipeIDArg(request mcp.CallToolRequest, key string) (int64, error) {
	switch v := request.Params.Arguments[key].(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("'%s' must be a positive integer", key)
		}
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("'%s' must be a positive integer", key)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("'%s' parameter is required", key)
	default:
		return 0, fmt.Errorf("'%s' must be a positive integer", key)
	}
}

func optionalString(request mcp.CallToolRequest, key string) (string, bool) {
	v, ok := request.Params.Arguments[key].(string)
	return v, ok
}

func optionalBool(request mcp.CallToolRequest, key string) (bool, bool) {
	v, ok := request.Params.Arguments[key].(bool)
	return v, ok
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
