package util

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorGuard turns panics raised by a tool handler into a tool error result
func ErrorGuard(handler func(arguments map[string]interface{}) (*mcp.CallToolResult, error)) func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return func(arguments map[string]interface{}) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = mcp.NewToolResultError(fmt.Sprintf("Panic: %v", r))
				err = nil
			}
		}()
		return handler(arguments)
	}
}
