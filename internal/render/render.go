// Package render draws recorded design thoughts as bordered text blocks
// for the stderr diagnostic stream.
//
// Widths are measured with lipgloss so that ANSI colors and wide runes
// (the category emoji) do not break the frame.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	"github.com/muesli/termenv"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// margin is the horizontal space the frame adds around the widest line:
// one space plus one border rune on each side.
const margin = 4

// Formatter renders thoughts. The zero value is not usable; call New.
type Formatter struct {
	revision lipgloss.Style
	branch   lipgloss.Style
	design   lipgloss.Style
	tag      lipgloss.Style
}

var _ thinking.Formatter = (*Formatter)(nil)

// New returns a Formatter whose colors are resolved against w. In auto
// mode colors are used only when w is a terminal.
func New(w io.Writer, mode ColorMode) *Formatter {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return &Formatter{
		revision: r.NewStyle().Foreground(lipgloss.Color("3")),
		branch:   r.NewStyle().Foreground(lipgloss.Color("2")),
		design:   r.NewStyle().Foreground(lipgloss.Color("4")),
		tag:      r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Format returns the bordered block for t. It never fails.
func (f *Formatter) Format(t thinking.Thought) string {
	header := f.header(t)
	body := strings.Split(t.Thought, "\n")

	inner := lipgloss.Width(header)
	for _, line := range body {
		inner = max(inner, lipgloss.Width(line))
	}
	rule := strings.Repeat("─", inner+margin-2)

	var sb strings.Builder
	sb.WriteString("┌" + rule + "┐\n")
	sb.WriteString("│ " + pad(header, inner) + " │\n")
	sb.WriteString("├" + rule + "┤\n")
	for _, line := range body {
		sb.WriteString("│ " + pad(line, inner) + " │\n")
	}
	sb.WriteString("└" + rule + "┘")
	return sb.String()
}

// Category precedence: revision, then branch, then a plain design step.
func (f *Formatter) header(t thinking.Thought) string {
	var prefix, context string
	origin, branched := t.BranchOrigin()
	switch {
	case t.Revision():
		prefix = f.revision.Render("🔄 Revision")
		if ref, ok := t.RevisedThought(); ok {
			context = fmt.Sprintf(" (revising thought %s)", ref)
		}
	case branched:
		prefix = f.branch.Render("🌿 Branch")
		context = fmt.Sprintf(" (from thought %s, ID: %s)", origin, t.BranchID)
	default:
		prefix = f.design.Render("🎮 Design")
	}

	header := fmt.Sprintf("%s %d/%d%s", prefix, t.ThoughtNumber, t.TotalThoughts, context)
	if t.DesignArea != "" {
		header += " " + f.tag.Render("["+t.DesignArea+"]")
	}
	for _, tag := range t.Tags {
		header += " " + f.tag.Render("#"+tag)
	}
	if t.MoreStepsWanted() {
		header += " (more steps wanted)"
	}
	return header
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
