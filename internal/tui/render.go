package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/bep/internal/format"
	"github.com/MikeSquared-Agency/bep/internal/session"
)

const (
	userLabel = "👤 Bạn"
	botLabel  = "🤖 Bot"
)

// renderTranscript draws every turn, separated by a blank line.
func renderTranscript(views []session.View, width int) string {
	parts := make([]string, 0, len(views))
	for _, v := range views {
		parts = append(parts, renderView(v, width))
	}
	return strings.Join(parts, "\n\n")
}

func renderView(v session.View, width int) string {
	if v.Origin == session.User {
		// User text is shown as typed, never formatted.
		body := userTextStyle.Width(bodyWidth(width)).Render(v.Text)
		return userLabelStyle.Render(userLabel) + "\n" + body
	}

	lines := make([]string, 0, len(v.Blocks))
	for _, b := range v.Blocks {
		lines = append(lines, renderBlock(b, width))
	}
	return botLabelStyle.Render(botLabel) + "\n" + strings.Join(lines, "\n")
}

// renderBlock wraps every block to the body width so the viewport's line
// count matches what is drawn.
func renderBlock(b format.Block, width int) string {
	w := bodyWidth(width)
	wrap := lipgloss.NewStyle().Width(w)

	switch b.Kind {
	case format.BulletItem:
		return hang(bulletStyle.Render("• "), b.Content, w)
	case format.TipCallout:
		// Width excludes the border.
		return tipStyle.Width(w - 2).Render(strings.TrimSpace(b.Content))
	case format.SectionHeader:
		return headerStyle.Width(w).Render(b.Content)
	case format.NumberedStep:
		return hang(stepIndexStyle.Render(b.Index+".")+" ", b.Content, w)
	default:
		return wrap.Render(b.Content)
	}
}

// hang renders content wrapped beside prefix, continuation lines indented.
func hang(prefix, content string, width int) string {
	pw := lipgloss.Width(prefix)
	body := lipgloss.NewStyle().Width(max(width-pw, 1)).Render(content)
	return lipgloss.JoinHorizontal(lipgloss.Top, prefix, body)
}

func bodyWidth(width int) int {
	if width < 20 {
		return 20
	}
	return width - 2
}
