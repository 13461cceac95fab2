// Package tools implements the MCP tool handler for game design thinking.
//
// The handler follows the usual shape:
// - a struct holding its dependencies, built by a constructor
// - Definition() returns the mcp.Tool schema advertised to clients
// - Handle() runs the call and always returns a well-formed result
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ToolName is the single operation this server exposes.
const ToolName = "gamedesignthinking"

// GameDesignTool handles the gamedesignthinking MCP tool.
type GameDesignTool struct {
	tracker *thinking.Tracker
	logger  *zap.Logger
}

// NewGameDesignTool creates a GameDesignTool bound to tracker.
func NewGameDesignTool(tracker *thinking.Tracker, logger *zap.Logger) *GameDesignTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameDesignTool{tracker: tracker, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *GameDesignTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString(thinking.FieldThought,
			mcp.Required(),
			mcp.Description("Your current design thinking step"),
		),
		mcp.WithBoolean(thinking.FieldNextThoughtNeeded,
			mcp.Required(),
			mcp.Description("Whether another design step is needed"),
		),
		mcp.WithNumber(thinking.FieldThoughtNumber,
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Current step number"),
		),
		mcp.WithNumber(thinking.FieldTotalThoughts,
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Estimated total steps needed"),
		),
		mcp.WithBoolean(thinking.FieldIsRevision,
			mcp.Description("Whether this step revises earlier design thinking"),
		),
		mcp.WithNumber(thinking.FieldRevisesThought,
			mcp.Min(1),
			mcp.Description("Which step is being reconsidered"),
		),
		mcp.WithNumber(thinking.FieldBranchFromThought,
			mcp.Min(1),
			mcp.Description("Branching point step number for an alternative design direction"),
		),
		mcp.WithString(thinking.FieldBranchID,
			mcp.Description("Identifier for the alternative design direction (e.g. 'controls-alt')"),
		),
		mcp.WithBoolean(thinking.FieldNeedsMoreThoughts,
			mcp.Description("Set when reaching the estimated end but more design steps are needed"),
		),
		mcp.WithString(thinking.FieldDesignArea,
			mcp.Description("Design area this step concerns, e.g. mechanics, narrative, level-design, "+
				"progression, economy, ui-ux, art-audio, technical"),
		),
		mcp.WithArray(thinking.FieldTags,
			mcp.Description("Free-form labels for this step (e.g. 'combat', 'onboarding')"),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the gamedesignthinking tool call. Rejected input is
// reported through IsError, never as a Go error.
func (t *GameDesignTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := t.tracker.Record(ctx, req.GetArguments())

	text, err := json.MarshalIndent(out.Payload(), "", "  ")
	if err != nil {
		t.logger.Error("encoding tool response", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}

	if out.Failed() {
		return mcp.NewToolResultError(string(text)), nil
	}
	return mcp.NewToolResultText(string(text)), nil
}

const toolDescription = `A detailed tool for iterative game design thinking.
It records a sequence of numbered design steps that can revise earlier steps or branch
into alternative design directions, so a game concept can be explored, questioned and refined.

When to use this tool:
- Breaking a game concept into mechanics, systems, progression and content
- Designing core loops, economies, level flow or onboarding step by step
- Comparing alternative designs (control schemes, reward structures) as named branches
- Revisiting a decision when a later step exposes a problem (e.g. balance, scope)
- Planning where the full scope is not clear at the start

Key features:
- totalThoughts can be adjusted up or down as the design evolves; if thoughtNumber
  exceeds totalThoughts, totalThoughts is raised to match
- Steps can be marked as revisions of earlier steps
- Steps can branch from an earlier step under a branchId
- Optional designArea and tags label what part of the game a step is about

Parameters:
- thought: the current design step
- nextThoughtNeeded: true if more design steps are needed
- thoughtNumber: current step number (starts at 1)
- totalThoughts: current estimate of steps needed
- isRevision / revisesThought: mark and point at the step being reconsidered
- branchFromThought / branchId: start or continue an alternative design direction
- needsMoreThoughts: the estimate was reached but the design is not done
- designArea / tags: optional labels, stored and echoed as given

Set nextThoughtNeeded to false only when the design question is answered.`
