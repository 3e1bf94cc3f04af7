// Package tui provides the terminal edit table for congrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/congrid/internal/tui/theme"
	"github.com/javiermolinar/congrid/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorWarning     lipgloss.Color

	// Title bar
	TitleStyle lipgloss.Style
	DirtyStyle lipgloss.Style
	MetaStyle  lipgloss.Style

	// Edit table
	HeaderStyle       lipgloss.Style
	BorderStyle       lipgloss.Style
	CellStyle         lipgloss.Style
	CellAltStyle      lipgloss.Style // alternate rows
	UnscheduledStyle  lipgloss.Style // items that are not drawn on the grid
	RowCursorStyle    lipgloss.Style // the cursor's row outside the focused cell
	RowCursorAltStyle lipgloss.Style // same, on alternate rows
	CursorStyle       lipgloss.Style // focused selector
	CursorLockedStyle lipgloss.Style // focused selector while a save runs

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalBackdropColor     lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalWarningStyle      lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.DirtyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnDirty).
		Background(palette.DirtyBg).
		Padding(0, 1)

	s.MetaStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Padding(0, 1)

	s.BorderStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.CellStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Padding(0, 1)

	s.CellAltStyle = s.CellStyle.
		Background(s.colorBgHighlight)

	// Muted text keeps unscheduled games readable but clearly off the grid
	s.UnscheduledStyle = s.CellStyle.
		Foreground(s.colorFgMuted).
		Italic(true)

	s.RowCursorStyle = s.CellStyle.
		Background(palette.GameBg).
		Foreground(palette.TextOnGame)

	s.RowCursorAltStyle = s.RowCursorStyle.
		Background(palette.GameBgAlt)

	s.CursorStyle = s.CellStyle.
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.CursorLockedStyle = s.CellStyle.
		Background(s.colorBgSelection).
		Foreground(s.colorFgMuted)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Bold(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnWarning).
		Background(s.colorWarning).
		Bold(true).
		Padding(0, 1)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	modal := palette.Modal
	s.ModalBackdropColor = modal.Backdrop
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(60).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Padding(0, 1).
		Align(lipgloss.Center)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modal.Bg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Bold(true).
		Width(18).
		Background(modal.Bg)

	s.ModalWarningStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(modal.Bg).
		Bold(true)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 2).
		Underline(true)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingBottom(1)

	return s
}

// ModalStyles returns the subset of styles used by the view helpers.
func (s *Styles) ModalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       s.ModalHeaderStyle,
		ModalTitleStyle:        s.ModalTitleStyle,
		ModalFooterStyle:       s.ModalFooterStyle,
		ModalStyle:             s.ModalStyle,
		ModalButtonStyle:       s.ModalButtonStyle,
		ModalButtonActiveStyle: s.ModalButtonActiveStyle,
		ModalBodyStyle:         s.ModalBodyStyle,
		ModalLabelStyle:        s.ModalLabelStyle,
	}
}
