package tools

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/athapong/go-calais/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Toolsets that can be named in ENABLE_TOOLS.
var toolsets = []struct {
	name string
	desc string
}{
	{"calais", "OpenCalais entity, topic and relation extraction"},
	{"fetch", "Web page and PDF text fetching"},
}

// IsEnabled reports whether a toolset is enabled by ENABLE_TOOLS. An empty
// ENABLE_TOOLS enables everything.
func IsEnabled(name string) bool {
	enableTools := os.Getenv("ENABLE_TOOLS")
	return enableTools == "" || slices.Contains(strings.Split(enableTools, ","), name)
}

func RegisterToolManagerTool(s *server.MCPServer) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("List the MCP toolsets of this server and whether they are enabled"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list")),
	)

	s.AddTool(tool, util.ErrorGuard(toolManagerHandler))
}

func toolManagerHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	action, ok := arguments["action"].(string)
	if !ok {
		return mcp.NewToolResultError("action must be a string"), nil
	}
	if action != "list" {
		return mcp.NewToolResultError("Invalid action. Use 'list'"), nil
	}

	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, t := range toolsets {
		status := "disabled"
		if IsEnabled(t.name) {
			status = "enabled"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s) [%s]\n", t.name, t.desc, status))
	}

	if os.Getenv("ENABLE_TOOLS") == "" {
		sb.WriteString("\nAll tools are enabled (ENABLE_TOOLS is empty)\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
