package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterEntityBriefPrompt(s *server.MCPServer) {
	prompt := mcp.NewPrompt("entity_brief",
		mcp.WithPromptDescription("Summarize the people, companies and relations mentioned in a document"),
		mcp.WithArgument("url", mcp.ArgumentDescription("URL of the document to brief")),
	)
	s.AddPrompt(prompt, entityBriefHandler)
}

func entityBriefHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	url := request.Params.Arguments["url"]

	instruction := "Use calais_analyze_text with format=summary on the text I provide next"
	if url != "" {
		instruction = fmt.Sprintf("Use calais_analyze_url with format=summary and strip_html=true on %s", url)
	}

	return &mcp.GetPromptResult{
		Description: "Entity brief",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: instruction + ". Then write a brief listing the most relevant people and organizations, what connects them according to the extracted relations, and the main topics. Do not mention entities the analysis did not return.",
				},
			},
		},
	}, nil
}
