// Package render draws a schedule as an SVG grid.
package render

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// Pattern ids referenced by the filled areas.
const (
	patternSmallGrid = "smallGrid"
	patternGrid      = "grid"
	patternLabelBars = "label_bars"
	patternDays      = "days"
)

// Observer receives render statistics.
type Observer interface {
	ObserveRender(elapsed time.Duration, drawn, skipped int)
}

// Block is an item drawn on the grid.
type Block struct {
	ItemID int64
	Title  string
	Row    int
	X      float64
	Y      float64
	W      float64
	H      float64
}

// LocationLabel is a drawn location row label.
type LocationLabel struct {
	Text  string
	X     float64
	Y     float64
	Width float64
}

// Drawing is the result of one render.
type Drawing struct {
	Geometry layout.Geometry
	Labels   []LocationLabel
	Blocks   []Block
	// Skipped holds the IDs of items that were not drawn, in schedule order.
	Skipped []int64

	root *node
}

// WriteTo encodes the drawing as SVG.
func (d *Drawing) WriteTo(w io.Writer) (int64, error) {
	return encode(w, d.root)
}

// String returns the SVG document.
func (d *Drawing) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}

// Block returns the drawn block of an item.
func (d *Drawing) Block(itemID int64) (Block, bool) {
	for _, b := range d.Blocks {
		if b.ItemID == itemID {
			return b, true
		}
	}
	return Block{}, false
}

// Renderer draws schedules. It holds no per-render state and may be shared.
type Renderer struct {
	cfg      layout.Config
	measurer layout.Measurer
	style    Style
	observer Observer
	now      func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMeasurer sets the label measurer.
func WithMeasurer(m layout.Measurer) Option {
	return func(r *Renderer) {
		if m != nil {
			r.measurer = m
		}
	}
}

// WithStyle sets the stylesheet colors.
func WithStyle(s Style) Option {
	return func(r *Renderer) {
		r.style = s
	}
}

// WithObserver reports statistics after every render.
func WithObserver(o Observer) Option {
	return func(r *Renderer) {
		r.observer = o
	}
}

// New creates a Renderer.
func New(cfg layout.Config, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:      cfg,
		measurer: layout.NewRuneMeasurer(layout.DefaultGlyphAdvance),
		style:    DefaultStyle(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the layout configuration.
func (r *Renderer) Config() layout.Config {
	return r.cfg
}

// Render draws the whole schedule at the given canvas width. Every call builds
// a fresh tree; items that cannot be placed are recorded in Skipped.
func (r *Renderer) Render(width float64, s *schedule.Schedule) *Drawing {
	start := r.now()
	if s == nil {
		s = &schedule.Schedule{}
	}

	labels := s.LocationLabels()
	widths, widest := layout.MeasureLabels(r.measurer, labels)
	g := layout.Compute(r.cfg, layout.Input{
		Width:      width,
		Rows:       len(labels),
		LabelWidth: widest,
	})

	d := &Drawing{Geometry: g}
	root := el("svg",
		str("xmlns", svgNamespace),
		num("width", g.Width),
		num("height", g.Height),
		str("viewBox", "0 0 "+formatNum(g.Width)+" "+formatNum(g.Height)),
	)
	root.add(el("style").text(r.style.CSS()))

	for i, label := range labels {
		y := g.RowY(i)
		root.add(el("text",
			str("class", "location"),
			num("x", r.cfg.TextOffset),
			num("y", y),
		).text(label))
		d.Labels = append(d.Labels, LocationLabel{Text: label, X: r.cfg.TextOffset, Y: y, Width: widths[i]})
	}

	root.add(r.defs(g))
	root.add(
		fillRect(g.GridArea, patternGrid),
		fillRect(g.LabelArea, patternLabelBars),
		fillRect(g.DayBandArea, patternDays),
	)
	root.add(headerText(g.DayLabels), headerText(g.HourLabels))

	for _, it := range s.Items {
		if !schedule.Drawable(it) || it.LocationIndex >= len(labels) {
			if it != nil {
				d.Skipped = append(d.Skipped, it.ID)
			}
			continue
		}
		box := g.ItemBox(it.LocationIndex, it.Start, it.Width)
		root.add(r.item(it, box, s.ItemTime(it)))
		d.Blocks = append(d.Blocks, Block{
			ItemID: it.ID,
			Title:  it.Title,
			Row:    it.LocationIndex,
			X:      box.X,
			Y:      box.Y,
			W:      box.W,
			H:      box.H,
		})
	}

	d.root = root
	if r.observer != nil {
		r.observer.ObserveRender(r.now().Sub(start), len(d.Blocks), len(d.Skipped))
	}
	return d
}

func (r *Renderer) defs(g layout.Geometry) *node {
	rowH := r.cfg.RowHeight

	small := pattern(patternSmallGrid, g.Fine).add(
		el("path", str("class", "light"),
			str("d", "M "+formatNum(g.HourUnit)+" 0 L 0 0 L 0 "+formatNum(rowH))),
	)

	bold := pattern(patternGrid, g.Bold).add(
		el("rect", num("x", 0), num("y", 0), num("width", g.BlockUnit), num("height", rowH),
			str("fill", "url(#"+patternSmallGrid+")")),
		el("path", str("class", "heavy"),
			str("d", "M "+formatNum(g.BlockUnit)+" 0 L 0 0 L 0 "+formatNum(rowH))),
	)

	bars := pattern(patternLabelBars, g.LabelBars).add(
		el("polyline", str("class", "heavy"),
			str("points", points(0, rowH, g.GridX, rowH, g.GridX, 0))),
	)

	days := pattern(patternDays, g.DayBand)
	days.Attrs = append(days.Attrs, str("class", "heavy"))
	days.add(el("polyline", str("points", points(0, 0, 0, g.DayBand.H))))

	return el("defs").add(small, bold, bars, days)
}

func (r *Renderer) item(it *schedule.Item, box layout.Rect, when string) *node {
	tooltip := it.Title
	if when != "" {
		tooltip += " (" + when + ")"
	}
	return el("svg",
		num("x", box.X),
		num("y", box.Y),
		num("width", box.W),
		num("height", box.H),
		str("data-toggle", "tooltip"),
		str("data-item-id", strconv.FormatInt(it.ID, 10)),
		str("title", it.Title),
	).add(
		el("title").text(tooltip),
		el("rect", str("class", "game"),
			num("x", 1), num("y", 0), num("width", max(0, box.W-2)), num("height", box.H)),
		el("text", str("class", "game_title"),
			num("x", r.cfg.TextOffset), num("y", r.cfg.ItemBaseline)).text(it.Title),
	)
}

func pattern(id string, tile layout.Rect) *node {
	return el("pattern",
		str("id", id),
		num("x", tile.X),
		num("y", tile.Y),
		num("width", tile.W),
		num("height", tile.H),
		str("patternUnits", "userSpaceOnUse"),
	)
}

func fillRect(area layout.Rect, patternID string) *node {
	return el("rect",
		num("x", area.X),
		num("y", area.Y),
		num("width", area.W),
		num("height", area.H),
		str("fill", "url(#"+patternID+")"),
	)
}

func headerText(labels []layout.Label) *node {
	t := el("text", str("class", "header"), str("text-anchor", "middle"))
	for _, l := range labels {
		t.add(el("tspan", num("x", l.X), num("y", l.Y)).text(l.Text))
	}
	return t
}
