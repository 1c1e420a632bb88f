package tools

import (
	"context"
	"fmt"

	"github.com/athapong/go-calais/pkg/source"
	"github.com/athapong/go-calais/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterFetchTool(s *server.MCPServer) {
	tool := mcp.NewTool("get_web_content",
		mcp.WithDescription("Fetches a web page or PDF from a given HTTP/HTTPS URL and returns its readable text. HTML pages are converted to Markdown. Use it to preview what calais_analyze_url will see."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The complete HTTP/HTTPS URL to fetch content from (e.g., https://example.com)"),
		),
	)

	s.AddTool(tool, util.ErrorGuard(fetchHandler))
}

func fetchHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := arguments["url"].(string)
	if !ok {
		return mcp.NewToolResultError("url must be a string"), nil
	}

	doc, err := source.FromURL(context.Background(), httpClient(), url, source.Options{StripHTML: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: %s", err)), nil
	}

	if doc.Title != "" {
		return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", doc.Title, doc.Content)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}
