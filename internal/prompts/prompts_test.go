package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if r == nil || len(r.Messages) == 0 {
		t.Fatal("empty prompt result")
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestSessionPrompt_Defaults(t *testing.T) {
	p := NewSessionPrompt("gamedesignthinking")
	if p.Definition().Name != "game-design-session" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	text := promptText(t, result)
	if !strings.Contains(text, "`gamedesignthinking`") {
		t.Errorf("prompt should name the tool:\n%s", text)
	}
	if !strings.Contains(text, "core loop") {
		t.Errorf("prompt should fall back to core loop focus:\n%s", text)
	}
}

func TestSessionPrompt_WithArguments(t *testing.T) {
	p := NewSessionPrompt("gamedesignthinking")
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"concept": "a tiny farming roguelike", "focus": "economy"}

	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(result.Description, "a tiny farming roguelike") {
		t.Errorf("Description = %q", result.Description)
	}
	if text := promptText(t, result); !strings.Contains(text, `designArea="economy"`) {
		t.Errorf("prompt should carry the focus area:\n%s", text)
	}
}

func TestReviewPrompt(t *testing.T) {
	p := NewReviewPrompt("gamedesign://thoughts/history", "gamedesign://thoughts/branches")
	if p.Definition().Name != "game-design-review" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	text := promptText(t, result)
	for _, uri := range []string{"gamedesign://thoughts/history", "gamedesign://thoughts/branches"} {
		if !strings.Contains(text, uri) {
			t.Errorf("prompt missing %s", uri)
		}
	}
}
