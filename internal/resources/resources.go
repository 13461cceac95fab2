// Package resources implements read-only MCP resources over the thought
// tracker.
//
// Resources let a host pull the accumulated design session into context
// without calling the tool. They use URI-based addressing
// (gamedesign://...) following MCP conventions and never mutate state.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	HistoryURI  = "gamedesign://thoughts/history"
	BranchesURI = "gamedesign://thoughts/branches"
)

// Handler serves tracker resources.
type Handler struct {
	tracker *thinking.Tracker
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(tracker *thinking.Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// HistoryResource returns the MCP resource definition for the thought history.
func (h *Handler) HistoryResource() mcp.Resource {
	return mcp.NewResource(
		HistoryURI,
		"Game Design Thought History",
		mcp.WithResourceDescription("Every recorded design step in arrival order"),
		mcp.WithMIMEType("application/json"),
	)
}

// BranchesResource returns the MCP resource definition for the branch index.
func (h *Handler) BranchesResource() mcp.Resource {
	return mcp.NewResource(
		BranchesURI,
		"Game Design Branches",
		mcp.WithResourceDescription("Alternative design directions keyed by branch id"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleHistory returns the thought history as a JSON array.
func (h *Handler) HandleHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	history := h.tracker.History()
	if history == nil {
		history = []thinking.Thought{}
	}
	return jsonResource(req.Params.URI, history)
}

// HandleBranches returns the branch index as a JSON object.
func (h *Handler) HandleBranches(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.tracker.Branches())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
