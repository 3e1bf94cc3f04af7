package layout

import "github.com/mattn/go-runewidth"

// DefaultGlyphAdvance is the pixel width of one terminal cell worth of label text.
const DefaultGlyphAdvance = 8.0

// Measurer reports the rendered width of a text in pixels.
type Measurer interface {
	Measure(text string) float64
}

// RuneMeasurer estimates text width from East Asian cell widths.
type RuneMeasurer struct {
	Advance float64
}

// NewRuneMeasurer returns a measurer using the given glyph advance, or
// DefaultGlyphAdvance when advance is not positive.
func NewRuneMeasurer(advance float64) RuneMeasurer {
	if advance <= 0 || !finite(advance) {
		advance = DefaultGlyphAdvance
	}
	return RuneMeasurer{Advance: advance}
}

// Measure implements Measurer.
func (m RuneMeasurer) Measure(text string) float64 {
	return float64(runewidth.StringWidth(text)) * m.Advance
}

// MeasureLabels measures every label and returns the widths with their maximum.
// Non-finite or negative measurements count as zero.
func MeasureLabels(m Measurer, labels []string) ([]float64, float64) {
	widths := make([]float64, len(labels))
	var widest float64
	for i, label := range labels {
		w := m.Measure(label)
		if !finite(w) || w < 0 {
			w = 0
		}
		widths[i] = w
		widest = max(widest, w)
	}
	return widths, widest
}
