package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/athapong/go-calais/pkg/calais"
	"github.com/athapong/go-calais/pkg/source"
	"github.com/athapong/go-calais/services"
	"github.com/athapong/go-calais/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Replaced in tests.
var (
	calaisClient = services.DefaultCalaisClient
	httpClient   = services.DefaultHttpClient
)

func RegisterCalaisTools(s *server.MCPServer) {
	textTool := mcp.NewTool("calais_analyze_text",
		mcp.WithDescription("Extracts entities, topics and relations from text using the OpenCalais semantic analysis service. Returns the normalized analysis result."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to analyze (at most 100000 characters)"),
		),
		mcp.WithString("content_type",
			mcp.Description("Content type of the text: TEXT/RAW (default), TEXT/TXT, TEXT/HTML, TEXT/HTMLRAW or TEXT/XML"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or summary"),
		),
	)

	urlTool := mcp.NewTool("calais_analyze_url",
		mcp.WithDescription("Fetches a web page or PDF and extracts entities, topics and relations from it using the OpenCalais semantic analysis service."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The complete HTTP/HTTPS URL of the document to analyze"),
		),
		mcp.WithString("strip_html",
			mcp.Description("Set to true to convert HTML pages to plain text before analysis"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or summary"),
		),
	)

	s.AddTool(textTool, util.ErrorGuard(analyzeTextHandler))
	s.AddTool(urlTool, util.ErrorGuard(analyzeURLHandler))
}

func analyzeTextHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	text, ok := arguments["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text must be a string"), nil
	}

	client := calaisClient()
	cfg := client.Config()
	if contentType, ok := arguments["content_type"].(string); ok && contentType != "" {
		cfg = cfg.With(calais.WithContentType(strings.ToUpper(contentType)))
	}

	result, err := client.AnalyzeWithConfig(context.Background(), text, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze text: %v", err)), nil
	}

	return renderResult(result, arguments)
}

func analyzeURLHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := arguments["url"].(string)
	if !ok {
		return mcp.NewToolResultError("url must be a string"), nil
	}

	stripHTML, _ := arguments["strip_html"].(string)
	opts := source.Options{StripHTML: strings.EqualFold(stripHTML, "true")}

	client := calaisClient()
	result, err := client.AnalyzeURLWithOptions(context.Background(), url, client.Config(), opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze %s: %v", url, err)), nil
	}

	return renderResult(result, arguments)
}

func renderResult(result *calais.Result, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	format, _ := arguments["format"].(string)
	if strings.EqualFold(format, "summary") {
		return mcp.NewToolResultText(summarize(result)), nil
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// summarize renders a result as a short markdown report.
func summarize(result *calais.Result) string {
	var sb strings.Builder

	if lang := result.Language(); lang != "" {
		sb.WriteString(fmt.Sprintf("Language: %s\n\n", lang))
	}

	sb.WriteString("## Entities\n")
	for _, entity := range result.Entities() {
		sb.WriteString(fmt.Sprintf("- %s: %s", entity.Type(), entity.Name()))
		if relevance, ok := entity.Relevance(); ok {
			sb.WriteString(fmt.Sprintf(" (relevance %.2f)", relevance))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Topics\n")
	for _, topic := range result.Topics() {
		name, ok := topic.Field("categoryName")
		if !ok {
			name = topic.Name()
		}
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}

	sb.WriteString("\n## Relations\n")
	for _, relation := range result.Relations() {
		var participants []string
		for _, field := range relation.Keys() {
			if strings.HasPrefix(field, "_") {
				continue
			}
			if ref, ok := relation.Ref(field); ok {
				participants = append(participants, fmt.Sprintf("%s=%s", field, ref.Name()))
			}
		}
		sb.WriteString(fmt.Sprintf("- %s %s\n", relation.Type(), strings.Join(participants, ", ")))
	}

	return sb.String()
}
