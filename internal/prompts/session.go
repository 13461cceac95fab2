// Package prompts holds the canned messages a user can pick from the
// client to start or review a game design session. Each one only returns
// text; the model then drives the gamedesignthinking tool or reads the
// session resources itself.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SessionPrompt handles the game-design-session MCP prompt.
// It asks the AI to work a game concept through the thinking tool.
type SessionPrompt struct {
	toolName string
}

// NewSessionPrompt creates a SessionPrompt that drives toolName.
func NewSessionPrompt(toolName string) *SessionPrompt {
	return &SessionPrompt{toolName: toolName}
}

// Definition returns the MCP prompt definition for registration.
func (p *SessionPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("game-design-session",
		mcp.WithPromptDescription(
			"Start a step-by-step game design session. "+
				"The concept is broken into numbered design steps that can be revised "+
				"or branched into alternatives as the design evolves.",
		),
		mcp.WithArgument("concept",
			mcp.ArgumentDescription("The game idea to design, e.g. 'co-op roguelite about lighthouse keepers'"),
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Optional design area to start from: mechanics, narrative, level-design, progression, economy, ui-ux"),
		),
	)
}

// Handle processes the game-design-session prompt request.
func (p *SessionPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	concept := "a new game"
	focus := ""
	if args := req.Params.Arguments; args != nil {
		if c, ok := args["concept"]; ok && c != "" {
			concept = c
		}
		if f, ok := args["focus"]; ok {
			focus = f
		}
	}

	focusLine := "Start from the core loop, then work outwards to progression and content."
	if focus != "" {
		focusLine = fmt.Sprintf("Start from the %s area and set designArea=%q on those steps.", focus, focus)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Game design session: %s", concept),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to design %s.\n\n"+
						"Please work through it with the `%s` tool, one design step per call:\n"+
						"1. Start with thoughtNumber=1 and a rough totalThoughts estimate\n"+
						"2. %s\n"+
						"3. When a later step exposes a problem, record a revision (isRevision=true, revisesThought=N)\n"+
						"4. When two directions are worth comparing, branch them (branchFromThought=N, branchId='short-name')\n"+
						"5. Set nextThoughtNeeded=false only when the design question is answered\n\n"+
						"Finish with a short summary of the chosen direction and the branches you rejected.",
					concept, p.toolName, focusLine,
				)),
			},
		},
	}, nil
}
