// Package layout draws the frame around browser screens.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 12
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the top bar: app name, the breadcrumb of open
// screens, and a status string on the right.
func RenderHeader(crumbs []string, status string, width int) string {
	left := theme.Title.Render("studyplan")
	center := theme.Body.Render(strings.Join(crumbs, " › "))
	right := theme.Subtitle.Render(status)

	inner := width - 4
	if inner < 0 {
		inner = 0
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	leftGap, rightGap := 2, 1
	if gap > 3 {
		leftGap = gap / 2
		rightGap = gap - leftGap
	}
	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return theme.Card.Width(width).MaxHeight(3).Render(content)
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, theme.Body.Bold(true).Render(h.Key)+" "+theme.Subtitle.Render(h.Description))
	}
	return theme.Card.Width(width).MaxHeight(3).Render(strings.Join(parts, "   "))
}

// ContentHeight returns the rows left between header and footer.
func ContentHeight(header, footer string, height int) int {
	h := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if h < 0 {
		return 0
	}
	return h
}

// RenderFrame stacks header, content and footer, padding or cutting the
// content to fill height.
func RenderFrame(header, content, footer string, width, height int) string {
	h := ContentHeight(header, footer, height)
	body := lipgloss.NewStyle().
		Width(width).
		Height(h).
		MaxHeight(h).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
