package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/congrid/internal/tui/view"
)

// Cells of backdrop on each side of the modal box.
const (
	overlayPadX = 2
	overlayPadY = 1
)

// OverlayModel splices a modal box, framed by a band of backdrop colour,
// over the centre of the edit table.
type OverlayModel struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel() OverlayModel {
	return OverlayModel{bgColor: lipgloss.Color("")}
}

// Toggle flips the overlay visibility.
func (o *OverlayModel) Toggle() {
	o.active = !o.active
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackground updates the backdrop color.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// Render draws the overlay on top of base content.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 || content == "" {
		return base
	}
	return view.SpliceCentered(base, o.frame(content), width, height, o.bgColor)
}

func (o OverlayModel) frame(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	contentW := 0
	for _, line := range lines {
		contentW = max(contentW, lipgloss.Width(line))
	}

	seq := o.backdropSeq()
	fill := func(n int) string {
		return seq + strings.Repeat(" ", n) + ansi.ResetStyle
	}
	blank := fill(contentW + 2*overlayPadX)

	framed := make([]string, 0, len(lines)+2*overlayPadY)
	for i := 0; i < overlayPadY; i++ {
		framed = append(framed, blank)
	}
	for _, line := range lines {
		right := contentW - lipgloss.Width(line) + overlayPadX
		framed = append(framed, fill(overlayPadX)+line+fill(right))
	}
	for i := 0; i < overlayPadY; i++ {
		framed = append(framed, blank)
	}
	return strings.Join(framed, "\n")
}

func (o OverlayModel) backdropSeq() string {
	if o.bgColor == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(o.bgColor))).String()
}
