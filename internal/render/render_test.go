package render

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/schedule"
)

type fixedMeasurer map[string]float64

func (m fixedMeasurer) Measure(text string) float64 {
	return m[text]
}

type recordingObserver struct {
	calls   int
	drawn   int
	skipped int
}

func (o *recordingObserver) ObserveRender(_ time.Duration, drawn, skipped int) {
	o.calls++
	o.drawn = drawn
	o.skipped = skipped
}

// conventionSchedule has three locations and a Friday evening game in the
// second row. With the fixed measurer and a 580px canvas the grid starts at
// x=100 with 10px hours.
func conventionSchedule() *schedule.Schedule {
	s := &schedule.Schedule{
		Locations: []schedule.Location{
			{ID: 1, Label: "Boiler Room"},
			{ID: 2, Label: "Dance Floor"},
			{ID: 3, Label: "Dungeon"},
		},
		Blocks: []schedule.TimeBlock{
			{ID: 10, Text: "Friday Night", Offset: -18},
			{ID: 11, Text: "Sunday Morning", Offset: 40},
		},
		Slots: []schedule.TimeSlot{
			{ID: 20, Text: "6 PM - 2 AM", Start: 18, Width: 8},
			{ID: 21, Text: "Midnight - 7 AM", Start: 0, Width: 7},
		},
		Items: []*schedule.Item{
			{ID: 1, Title: "First Game", LocationIndex: 1, TimeBlockIndex: 0, TimeSlotIndex: 0},
			{ID: 2, Title: "2nd Game", LocationIndex: 0, TimeBlockIndex: schedule.Unset, TimeSlotIndex: schedule.Unset},
		},
	}
	for _, it := range s.Items {
		s.Derive(it)
	}
	return s
}

func newTestRenderer(opts ...Option) *Renderer {
	m := fixedMeasurer{"Boiler Room": 86, "Dance Floor": 80, "Dungeon": 60}
	return New(layout.DefaultConfig(), append([]Option{WithMeasurer(m)}, opts...)...)
}

func TestRender_EndToEndExample(t *testing.T) {
	r := newTestRenderer()
	s := conventionSchedule()

	d := r.Render(580, s)

	if d.Geometry.GridX != 100 || d.Geometry.HourUnit != 10 {
		t.Fatalf("grid x/hour = %v/%v, want 100/10", d.Geometry.GridX, d.Geometry.HourUnit)
	}
	if d.Geometry.Height != 131 {
		t.Errorf("height = %v, want 131", d.Geometry.Height)
	}

	b, ok := d.Block(1)
	if !ok {
		t.Fatal("First Game not drawn")
	}
	want := Block{ItemID: 1, Title: "First Game", Row: 1, X: 100, Y: 72, W: 80, H: 27}
	if b != want {
		t.Errorf("block = %+v, want %+v", b, want)
	}

	if len(d.Skipped) != 1 || d.Skipped[0] != 2 {
		t.Errorf("skipped = %v, want [2]", d.Skipped)
	}

	// Move the game to Sunday morning, midnight to 7.
	first := s.Items[0]
	if err := s.Assign(first, schedule.DimTimeBlock, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(first, schedule.DimTimeSlot, 1); err != nil {
		t.Fatal(err)
	}
	if first.Start != 40 || first.Width != 7 {
		t.Fatalf("start/width = %v/%v, want 40/7", first.Start, first.Width)
	}

	d = r.Render(580, s)
	b, _ = d.Block(1)
	if b.X != 500 || b.W != 70 {
		t.Errorf("moved block x/w = %v/%v, want 500/70", b.X, b.W)
	}
}

func TestRender_SkipsUndrawableItems(t *testing.T) {
	s := conventionSchedule()
	s.Items = append(s.Items,
		&schedule.Item{ID: 3, Title: "Nowhere", LocationIndex: -1, Start: 10, Width: 2},
		&schedule.Item{ID: 4, Title: "Past the end", LocationIndex: 9, Start: 10, Width: 2},
		&schedule.Item{ID: 5, Title: "Too late", LocationIndex: 0, Start: 99.5, Width: 2},
		nil,
		&schedule.Item{ID: 6, Title: "Kept", LocationIndex: 2, Start: 24, Width: 6},
	)

	d := newTestRenderer().Render(800, s)

	if len(d.Blocks) != 2 {
		t.Fatalf("drew %d blocks, want 2", len(d.Blocks))
	}
	if d.Blocks[1].ItemID != 6 {
		t.Errorf("second block = %d, want 6", d.Blocks[1].ItemID)
	}
	wantSkipped := []int64{2, 3, 4, 5}
	if len(d.Skipped) != len(wantSkipped) {
		t.Fatalf("skipped = %v, want %v", d.Skipped, wantSkipped)
	}
	for i, id := range wantSkipped {
		if d.Skipped[i] != id {
			t.Errorf("skipped[%d] = %d, want %d", i, d.Skipped[i], id)
		}
	}
}

func TestRender_SVGStructure(t *testing.T) {
	d := newTestRenderer().Render(580, conventionSchedule())
	out := d.String()

	for _, want := range []string{
		`xmlns="http://www.w3.org/2000/svg"`,
		`width="580" height="131"`,
		`<pattern id="smallGrid" x="0" y="0" width="10" height="30" patternUnits="userSpaceOnUse">`,
		`<pattern id="grid" x="-40" y="10" width="40" height="30" patternUnits="userSpaceOnUse">`,
		`<pattern id="label_bars" x="0" y="11" width="100" height="30" patternUnits="userSpaceOnUse">`,
		`<pattern id="days" x="-80" y="10" width="240" height="20" patternUnits="userSpaceOnUse" class="heavy">`,
		`fill="url(#grid)"`,
		`fill="url(#label_bars)"`,
		`fill="url(#days)"`,
		`<text class="location" x="4" y="91">Dance Floor</text>`,
		`<tspan x="130" y="15">Friday</tspan>`,
		`<tspan x="120" y="35">8pm</tspan>`,
		`<svg x="100" y="72" width="80" height="27" data-toggle="tooltip" data-item-id="1" title="First Game">`,
		`<title>First Game (Friday 6 PM - 2 AM)</title>`,
		`<rect class="game" x="1" y="0" width="78" height="27"></rect>`,
		`<text class="game_title" x="4" y="19">First Game</text>`,
		`.game_title {`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %s\n%s", want, out)
		}
	}
	if strings.Contains(out, "2nd Game") {
		t.Error("unscheduled item was drawn")
	}
}

func TestRender_WellFormedAndEscaped(t *testing.T) {
	s := conventionSchedule()
	s.Items[0].Title = `Dice & <Dragons> "live"`
	s.Locations[0].Label = "Room <A>"

	out := newTestRenderer().Render(700, s).String()

	if !strings.Contains(out, "Dice &amp; &lt;Dragons&gt;") {
		t.Errorf("title not escaped:\n%s", out)
	}

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid xml: %v", err)
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer()
	s := conventionSchedule()

	first := r.Render(640, s).String()
	_ = r.Render(1200, s)
	again := r.Render(640, s).String()

	if first != again {
		t.Error("rendering the same schedule twice produced different output")
	}
}

func TestRender_EmptySchedule(t *testing.T) {
	for _, s := range []*schedule.Schedule{nil, {}} {
		d := newTestRenderer().Render(0, s)
		if d.Geometry.Width != 500 || d.Geometry.Height != 41 {
			t.Errorf("empty canvas = %vx%v, want 500x41", d.Geometry.Width, d.Geometry.Height)
		}
		if len(d.Blocks) != 0 || len(d.Skipped) != 0 {
			t.Errorf("empty schedule drew %v skipped %v", d.Blocks, d.Skipped)
		}
	}
}

func TestRender_Observer(t *testing.T) {
	obs := &recordingObserver{}
	r := newTestRenderer(WithObserver(obs))

	r.Render(580, conventionSchedule())

	if obs.calls != 1 || obs.drawn != 1 || obs.skipped != 1 {
		t.Errorf("observer = %+v, want 1 call, 1 drawn, 1 skipped", obs)
	}
}

func TestDrawing_WriteToCountsBytes(t *testing.T) {
	d := newTestRenderer().Render(580, conventionSchedule())

	var b strings.Builder
	n, err := d.WriteTo(&b)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(b.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, b.Len())
	}
	if b.String() != d.String() {
		t.Error("WriteTo and String differ")
	}
}

func TestFormatNum(t *testing.T) {
	tests := map[float64]string{
		0:                  "0",
		-0.0001:            "0",
		12:                 "12",
		18.541666666666668: "18.542",
		-40:                "-40",
	}
	for in, want := range tests {
		if got := formatNum(in); got != want {
			t.Errorf("formatNum(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestStyleFromThemeColors(t *testing.T) {
	css := DefaultStyle().CSS()
	for _, class := range []string{".location", ".header", ".light", ".heavy", ".game", ".game_title"} {
		if !strings.Contains(css, class+" {") {
			t.Errorf("css missing %s", class)
		}
	}
	if strings.Contains(css, "%!") {
		t.Errorf("css has formatting errors: %s", css)
	}
}
