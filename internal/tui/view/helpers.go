package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, line := range lines {
		lines[i] = padLine(line, width, bg)
	}
	return strings.Join(lines, "\n")
}

// Fit truncates s to width cells, marking the cut with an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// SpliceCentered places box over the middle of base. Lines of the box are
// padded to a common width with bg so the box reads as one solid panel.
func SpliceCentered(base, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(strings.TrimRight(box, "\n"), "\n")
	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	if boxW == 0 || width <= 0 || height <= 0 {
		return base
	}
	boxW = min(boxW, width)
	if len(boxLines) > height {
		boxLines = boxLines[:height]
	}

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)

	baseLines := strings.Split(PadLinesWithBackground(base, width, height, lipgloss.Color("")), "\n")
	for i, line := range boxLines {
		if lipgloss.Width(line) > boxW {
			line = ansi.Cut(line, 0, boxW)
		}
		line = reapplyBackground(padLine(line, boxW, bg), bg) + ansi.ResetStyle

		row := baseLines[top+i]
		baseLines[top+i] = ansi.Cut(row, 0, left) + line + ansi.Cut(row, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

func padLine(line string, width int, bg lipgloss.Color) string {
	w := lipgloss.Width(line)
	if w >= width {
		return line
	}
	return line + lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", width-w))
}

// reapplyBackground restores bg after every reset inside line, so styled
// spans do not punch holes into the panel.
func reapplyBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+seq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+seq)
	return line
}
