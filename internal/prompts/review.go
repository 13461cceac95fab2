package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the game-design-review MCP prompt.
// It instructs the AI to read the recorded history and present it.
type ReviewPrompt struct {
	historyURI  string
	branchesURI string
}

// NewReviewPrompt creates a ReviewPrompt reading the given resources.
func NewReviewPrompt(historyURI, branchesURI string) *ReviewPrompt {
	return &ReviewPrompt{historyURI: historyURI, branchesURI: branchesURI}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("game-design-review",
		mcp.WithPromptDescription(
			"Review the current game design session: every recorded step, "+
				"the revisions made and the alternative branches explored.",
		),
	)
}

// Handle processes the game-design-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Game Design Review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please read the resources `%s` and `%s`.\n\n"+
						"Then:\n"+
						"1. Summarize the main design line step by step\n"+
						"2. List every revision and what it changed\n"+
						"3. Compare the branches and say which one the design currently favours\n"+
						"4. Point out open questions or steps that still need work",
					p.historyURI, p.branchesURI,
				)),
			},
		},
	}, nil
}
