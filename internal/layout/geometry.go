package layout

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Label is a positioned header text. X is the horizontal centre.
type Label struct {
	X, Y float64
	Text string
}

// Input is everything Compute needs besides the Config.
type Input struct {
	Width      float64 // requested canvas width
	Rows       int     // number of locations
	LabelWidth float64 // widest rendered location label
}

// Geometry is the derived pixel layout for one render.
type Geometry struct {
	Width  float64
	Height float64
	Rows   int

	LabelWidth float64
	GridX      float64
	HourUnit   float64
	BlockUnit  float64
	GridWidth  float64

	// Pattern tiles.
	Fine      Rect
	Bold      Rect
	LabelBars Rect
	DayBand   Rect

	// Filled areas.
	GridArea    Rect
	LabelArea   Rect
	DayBandArea Rect

	DayLabels  []Label
	HourLabels []Label

	cfg Config
}

// Compute derives the grid geometry. It is pure: the same inputs always yield
// the same Geometry, and out of range inputs are clamped instead of producing
// NaN or Inf.
func Compute(cfg Config, in Input) Geometry {
	width := cfg.ClampWidth(in.Width)
	rows := max(0, in.Rows)
	labelWidth := in.LabelWidth
	if !finite(labelWidth) || labelWidth < 0 {
		labelWidth = 0
	}

	g := Geometry{
		Width:      width,
		Rows:       rows,
		LabelWidth: labelWidth,
		cfg:        cfg,
	}

	g.Height = cfg.HeaderHeight + cfg.RowHeight*float64(rows)
	g.GridX = labelWidth + cfg.TextOffset + cfg.GridMargin
	if cfg.Units > 0 {
		g.HourUnit = max(0, (width-g.GridX)/float64(cfg.Units))
	}
	g.BlockUnit = float64(cfg.BlockUnits) * g.HourUnit
	g.GridWidth = float64(cfg.GridUnits) * g.HourUnit

	phase := float64(g.ClockPhase())
	g.Fine = Rect{X: 0, Y: 0, W: g.HourUnit, H: cfg.RowHeight}
	g.Bold = Rect{
		X: mod(g.GridX+phase*g.HourUnit, g.BlockUnit) - g.BlockUnit,
		Y: mod(cfg.GridTop, cfg.RowHeight),
		W: g.BlockUnit,
		H: cfg.RowHeight,
	}
	g.LabelBars = Rect{X: 0, Y: cfg.LabelBarTop, W: g.GridX, H: cfg.RowHeight}

	day := 24 * g.HourUnit
	g.DayBand = Rect{
		X: mod(g.GridX+float64(g.MidnightUnit())*g.HourUnit, day) - day,
		Y: cfg.DayBandTop,
		W: day,
		H: cfg.DayBandHeight,
	}

	areaH := max(0, g.Height-cfg.GridTop)
	g.GridArea = Rect{X: g.GridX, Y: cfg.GridTop, W: g.GridWidth, H: areaH}
	g.LabelArea = Rect{X: 0, Y: cfg.GridTop, W: g.GridX, H: areaH}
	g.DayBandArea = Rect{X: g.GridX, Y: 0, W: g.GridWidth, H: cfg.DayBandHeight}

	g.DayLabels = g.dayLabels()
	g.HourLabels = g.hourLabels()
	return g
}

// Config returns the configuration the geometry was computed with.
func (g Geometry) Config() Config {
	return g.cfg
}

// ClockPhase is the number of hour units from the origin to the first clock
// hour divisible by BlockUnits.
func (g Geometry) ClockPhase() int {
	b := g.cfg.BlockUnits
	if b <= 0 {
		return 0
	}
	return (b - g.cfg.OriginHour%b) % b
}

// MidnightUnit is the hour unit of the first midnight after the origin.
// An origin at midnight puts the next one a full day later.
func (g Geometry) MidnightUnit() int {
	return 24 - ((g.cfg.OriginHour%24)+24)%24
}

// RowY returns the text baseline of a location row.
func (g Geometry) RowY(row int) float64 {
	return g.cfg.RowY(row)
}

// UnitX returns the x coordinate of an hour unit along the time axis.
func (g Geometry) UnitX(unit float64) float64 {
	return g.GridX + g.HourUnit*unit
}

// ItemBox returns the block of an item in a row with the given start and width
// in hour units.
func (g Geometry) ItemBox(row int, start, width float64) Rect {
	if !finite(start) {
		start = 0
	}
	if !finite(width) || width < 0 {
		width = 0
	}
	return Rect{
		X: g.UnitX(start),
		Y: g.RowY(row) - g.cfg.ItemBaseline,
		W: g.HourUnit * width,
		H: g.cfg.ItemHeight(),
	}
}

func (g Geometry) dayLabels() []Label {
	midnight := g.MidnightUnit()
	grid := g.cfg.GridUnits
	var labels []Label
	for i, name := range g.cfg.Days {
		from := max(0, midnight+24*(i-1))
		to := min(grid, midnight+24*i)
		if from >= to {
			continue
		}
		labels = append(labels, Label{
			X:    g.UnitX(float64(from+to) / 2),
			Y:    g.cfg.DayHeaderY,
			Text: name,
		})
	}
	return labels
}

func (g Geometry) hourLabels() []Label {
	step := g.cfg.BlockUnits
	if step <= 0 {
		return nil
	}
	var labels []Label
	for u := g.ClockPhase(); u < g.cfg.GridUnits+1; u += step {
		labels = append(labels, Label{
			X:    g.UnitX(float64(u)),
			Y:    g.cfg.HourHeaderY,
			Text: ClockLabel(g.cfg.OriginHour + u),
		})
	}
	return labels
}

// ClockLabel returns the short header text of a clock hour ("12am", "Noon", "4pm").
func ClockLabel(hour int) string {
	h := ((hour % 24) + 24) % 24
	switch {
	case h == 0:
		return "12am"
	case h == 12:
		return "Noon"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}

// mod is a floored modulo that returns 0 for a non-positive period.
func mod(a, period float64) float64 {
	if period <= 0 || !finite(period) || !finite(a) {
		return 0
	}
	r := math.Mod(a, period)
	if r < 0 {
		r += period
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
