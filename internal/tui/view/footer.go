package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds the lines shown under the edit table.
type FooterViewState struct {
	InnerW      int
	FooterH     int
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the status line above the key help. Help may span
// several lines when expanded; lines beyond the footer height are dropped.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := []string{footerLine(state.InnerW, state.StatusStyle, state.StatusText)}
	for _, help := range strings.Split(state.HelpText, "\n") {
		lines = append(lines, footerLine(state.InnerW, state.HelpStyle, help))
	}
	if len(lines) > state.FooterH {
		lines = lines[:state.FooterH]
	}

	return PlaceBox(state.InnerW, state.FooterH, lipgloss.Bottom, strings.Join(lines, "\n"), state.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(0, width-frameW)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
