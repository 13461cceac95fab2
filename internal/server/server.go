// Package server assembles the game design MCP server and serves it over stdio.
//
// This is the composition root: it creates the tracker, its formatter and
// journal, and injects them into the tool, resources and prompts. No
// thought-handling logic lives here, only wiring and transport.
package server

import (
	"io"

	"github.com/mahecode/gamethinking-mcp-server/internal/config"
	"github.com/mahecode/gamethinking-mcp-server/internal/journal"
	"github.com/mahecode/gamethinking-mcp-server/internal/prompts"
	"github.com/mahecode/gamethinking-mcp-server/internal/render"
	"github.com/mahecode/gamethinking-mcp-server/internal/resources"
	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	"github.com/mahecode/gamethinking-mcp-server/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the thinking tool,
// prompts and resources registered. diag receives the rendered thought
// boxes when diagnostics are enabled (os.Stderr in production).
//
// The returned cleanup function closes the journal, if one was opened.
// It is always non-nil and safe to call.
func New(cfg *config.Config, logger *zap.Logger, diag io.Writer) (*server.MCPServer, *thinking.Tracker, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	var formatter thinking.Formatter
	if cfg.Diagnostics.Enabled && diag != nil {
		formatter = render.New(diag, render.ColorMode(cfg.Diagnostics.Color))
	}
	tracker := thinking.New(formatter, diag, logger.Named("thinking"))

	// The journal is optional: if it fails to open, the tool keeps working
	// without an audit trail.
	cleanup := noop
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn("journal disabled", zap.Error(err))
		} else {
			tracker.SetJournal(j)
			cleanup = func() {
				if err := j.Close(); err != nil {
					logger.Warn("journal close", zap.Error(err))
				}
			}
			logger.Info("journal enabled",
				zap.String("path", cfg.Journal.Path),
				zap.String("session_id", tracker.SessionID()),
			)
		}
	}

	// --- Create the MCP server ---

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	}
	if cfg.Server.Instructions {
		opts = append(opts, server.WithInstructions(serverInstructions()))
	}
	s := server.NewMCPServer(cfg.Server.Name, Version, opts...)

	// --- Register the tool ---

	designTool := tools.NewGameDesignTool(tracker, logger.Named("tools"))
	s.AddTool(designTool.Definition(), designTool.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(tracker)
	s.AddResource(resourceHandler.HistoryResource(), resourceHandler.HandleHistory)
	s.AddResource(resourceHandler.BranchesResource(), resourceHandler.HandleBranches)

	// --- Register prompts ---

	sessionPrompt := prompts.NewSessionPrompt(tools.ToolName)
	s.AddPrompt(sessionPrompt.Definition(), sessionPrompt.Handle)

	reviewPrompt := prompts.NewReviewPrompt(resources.HistoryURI, resources.BranchesURI)
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	return s, tracker, cleanup
}

// noop is the cleanup function used when no journal is open.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the server.
func serverInstructions() string {
	return `You have access to a game design thinking server.

Use the gamedesignthinking tool to work through game design questions one numbered step
at a time: core loops, mechanics, progression, economy, level flow, onboarding.

- Keep each call to a single design step.
- Raise or lower totalThoughts as the design evolves.
- Mark steps that reconsider earlier ones with isRevision and revisesThought.
- Explore alternatives with branchFromThought and a short branchId.
- Label steps with designArea and tags when useful.

The resources gamedesign://thoughts/history and gamedesign://thoughts/branches
return everything recorded so far in this session.`
}
