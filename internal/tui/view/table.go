package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableViewState holds data needed to render the edit table.
type TableViewState struct {
	Width       int
	Height      int
	Headers     []string
	HeaderStyle lipgloss.Style
	Rows        [][]string
	CellStyles  [][]lipgloss.Style // parallel to Rows; missing entries are unstyled
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderTable draws the rows inside a rounded border, padded to Width x Height.
// It returns "" when there is no room.
func RenderTable(state TableViewState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	t := table.New().
		Headers(state.Headers...).
		Width(state.Width).
		Border(lipgloss.RoundedBorder()).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(state.Rows...).
		StyleFunc(state.cellStyle)

	return PlaceBox(state.Width, state.Height, lipgloss.Top, t.Render(), state.Bg)
}

func (s TableViewState) cellStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return s.HeaderStyle
	}
	if row < 0 || row >= len(s.CellStyles) || col < 0 || col >= len(s.CellStyles[row]) {
		return lipgloss.NewStyle()
	}
	return s.CellStyles[row][col]
}
