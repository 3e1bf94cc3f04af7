package schedule

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func sampleSchedule() *Schedule {
	s := &Schedule{
		Locations: []Location{
			{ID: 11, Label: "Boiler Room"},
			{ID: 12, Label: "Dance Floor"},
			{ID: 13, Label: "Dungeon"},
		},
		Blocks: []TimeBlock{
			{ID: 21, Text: "Friday Night", Offset: -18},
			{ID: 22, Text: "Saturday Midnight", Offset: 30},
			{ID: 23, Text: "Sunday Morning", Offset: 40},
		},
		Slots: []TimeSlot{
			{ID: 31, Text: "Midnight - 7 AM", Start: 0, Width: 7},
			{ID: 32, Text: "6 PM - 2 AM", Start: 18, Width: 8},
		},
		Items: []*Item{
			{ID: 1, Title: "First Game", LocationIndex: 1, TimeBlockIndex: 0, TimeSlotIndex: 1},
			{ID: 2, Title: "2nd Game", LocationIndex: 0, TimeBlockIndex: Unset, TimeSlotIndex: Unset},
		},
	}
	for _, it := range s.Items {
		s.Derive(it)
	}
	return s
}

func TestDerive(t *testing.T) {
	s := sampleSchedule()

	first := s.Items[0]
	if first.Start != 0 || first.Width != 8 {
		t.Errorf("first game start/width = %v/%v, want 0/8", first.Start, first.Width)
	}

	second := s.Items[1]
	if second.Start != UnscheduledStart || second.Width != 0 {
		t.Errorf("unscheduled start/width = %v/%v, want 100/0", second.Start, second.Width)
	}
}

func TestAssign_DerivesFromCurrentIndices(t *testing.T) {
	tests := []struct {
		name      string
		block     int
		slot      int
		wantStart float64
		wantWidth float64
	}{
		{name: "block and slot", block: 2, slot: 0, wantStart: 40, wantWidth: 7},
		{name: "friday night evening", block: 0, slot: 1, wantStart: 0, wantWidth: 8},
		{name: "no block", block: Unset, slot: 0, wantStart: UnscheduledStart, wantWidth: 0},
		{name: "no slot", block: 1, slot: Unset, wantStart: UnscheduledStart, wantWidth: 0},
		{name: "neither", block: Unset, slot: Unset, wantStart: UnscheduledStart, wantWidth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSchedule()
			it := s.Items[0]

			if err := s.Assign(it, DimTimeBlock, tt.block); err != nil {
				t.Fatalf("Assign block: %v", err)
			}
			if err := s.Assign(it, DimTimeSlot, tt.slot); err != nil {
				t.Fatalf("Assign slot: %v", err)
			}

			if it.Start != tt.wantStart || it.Width != tt.wantWidth {
				t.Errorf("start/width = %v/%v, want %v/%v", it.Start, it.Width, tt.wantStart, tt.wantWidth)
			}
			if it.TimeBlockIndex != tt.block || it.TimeSlotIndex != tt.slot {
				t.Errorf("indices = %d/%d, want %d/%d", it.TimeBlockIndex, it.TimeSlotIndex, tt.block, tt.slot)
			}
		})
	}
}

func TestAssign_RejectsStaleIndex(t *testing.T) {
	s := sampleSchedule()
	it := s.Items[0]
	before := *it

	tests := []struct {
		name  string
		dim   Dimension
		index int
		want  error
	}{
		{name: "location past end", dim: DimLocation, index: 3, want: ErrIndexOutOfRange},
		{name: "negative block", dim: DimTimeBlock, index: -2, want: ErrIndexOutOfRange},
		{name: "slot past end", dim: DimTimeSlot, index: 2, want: ErrIndexOutOfRange},
		{name: "bad dimension", dim: Dimension(9), index: 0, want: ErrUnknownDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Assign(it, tt.dim, tt.index)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Assign error = %v, want %v", err, tt.want)
			}
			if *it != before {
				t.Errorf("item changed on rejected assign: %+v", *it)
			}
		})
	}
}

func TestDrawable(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{name: "scheduled", item: Item{Start: 40, Width: 7, LocationIndex: 0}, want: true},
		{name: "unscheduled", item: Item{Start: 100, Width: 0, LocationIndex: -1}, want: false},
		{name: "zero width", item: Item{Start: 10, Width: 0, LocationIndex: 1}, want: false},
		{name: "start past range", item: Item{Start: 99.5, Width: 2, LocationIndex: 1}, want: false},
		{name: "start at last drawable", item: Item{Start: 99, Width: 2, LocationIndex: 1}, want: true},
		{name: "negative start", item: Item{Start: -1, Width: 2, LocationIndex: 1}, want: false},
		{name: "no location", item: Item{Start: 10, Width: 2, LocationIndex: -1}, want: false},
		{name: "start at zero", item: Item{Start: 0, Width: 8, LocationIndex: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			if got := Drawable(&item); got != tt.want {
				t.Errorf("Drawable() = %v, want %v", got, tt.want)
			}
		})
	}

	if Drawable(nil) {
		t.Error("Drawable(nil) = true, want false")
	}
}

func TestOptions(t *testing.T) {
	s := sampleSchedule()

	opts := s.Options(DimLocation)
	if len(opts) != 4 {
		t.Fatalf("expected 4 location options, got %d", len(opts))
	}
	if opts[0].Index != Unset || opts[0].Label != NotSelectedLabel {
		t.Errorf("first option = %+v, want Not Selected", opts[0])
	}
	if opts[2].Index != 1 || opts[2].Label != "Dance Floor" {
		t.Errorf("option 2 = %+v, want Dance Floor", opts[2])
	}

	if got := len(s.Options(DimTimeSlot)); got != 3 {
		t.Errorf("expected 3 slot options, got %d", got)
	}
}

func TestAssignment_OmitsUnsetReferences(t *testing.T) {
	s := sampleSchedule()
	it := &Item{ID: 7, LocationIndex: 2, TimeBlockIndex: Unset, TimeSlotIndex: Unset}

	a := s.Assignment(it)
	if a.ID != 7 {
		t.Errorf("ID = %d, want 7", a.ID)
	}
	if a.Location == nil || *a.Location != 13 {
		t.Errorf("Location = %v, want 13", a.Location)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, `"location":13`) {
		t.Errorf("payload %s missing location", body)
	}
	for _, key := range []string{"time_block", "time_slot"} {
		if strings.Contains(body, key) {
			t.Errorf("payload %s should omit %s", body, key)
		}
	}
}

func TestFromSnapshot(t *testing.T) {
	raw := `{
		"locations": [{"id": 1, "text": "Boiler Room"}, {"id": 2, "text": "Dance Floor"}, {"id": 3, "text": "Dungeon"}],
		"blocks": [{"id": 5, "text": "Sunday Morning", "offset": 40}],
		"slots": [{"id": 9, "text": "Midnight - 7 AM", "start": 0, "width": 7}],
		"games": [
			{"id": 1, "title": "First Game", "gm": "Sam", "location": 1, "time_block": -1, "time_slot": -1, "start": 0, "width": 8},
			{"id": 2, "title": "Down with the Sun", "gm": "Ana", "location": 2, "time_block": 0, "time_slot": 0, "start": 3, "width": 3}
		]
	}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	s, err := FromSnapshot(&snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if got := s.LocationLabels(); len(got) != 3 || got[1] != "Dance Floor" {
		t.Errorf("labels = %v", got)
	}

	// Derived fields win over the snapshot's start/width.
	first := s.Items[0]
	if first.Start != UnscheduledStart || first.Width != 0 {
		t.Errorf("first game start/width = %v/%v, want unscheduled", first.Start, first.Width)
	}
	second := s.Items[1]
	if second.Start != 40 || second.Width != 7 {
		t.Errorf("second game start/width = %v/%v, want 40/7", second.Start, second.Width)
	}
	if second.GM != "Ana" {
		t.Errorf("GM = %q, want Ana", second.GM)
	}
}

func TestFromSnapshot_RejectsInvalidIndex(t *testing.T) {
	snap := &Snapshot{
		Locations: []LocationRecord{{ID: 1, Text: "Boiler Room"}},
		Games:     []GameRecord{{ID: 4, Title: "Lost", Location: 3, TimeBlock: -1, TimeSlot: -1}},
	}

	_, err := FromSnapshot(snap)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	if _, err := FromSnapshot(nil); !errors.Is(err, ErrNilSnapshot) {
		t.Errorf("expected ErrNilSnapshot, got %v", err)
	}
}

func TestFromSnapshot_RejectsNegativeSlotWidth(t *testing.T) {
	snap := &Snapshot{
		Blocks: []BlockRecord{{ID: 10, Text: "Friday Night", Offset: -18}},
		Slots:  []SlotRecord{{ID: 21, Text: "Backwards", Start: 18, Width: -3}},
		Games:  []GameRecord{{ID: 4, Title: "Lost", Location: -1, TimeBlock: 0, TimeSlot: 0}},
	}

	_, err := FromSnapshot(snap)
	if !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
	if !strings.Contains(err.Error(), "slot 21") {
		t.Errorf("error %q does not name the slot", err)
	}

	snap.Slots[0].Width = 0
	if _, err := FromSnapshot(snap); err != nil {
		t.Errorf("zero width slot rejected: %v", err)
	}
}

func TestSnapshotRoundTripKeepsOrder(t *testing.T) {
	s := sampleSchedule()

	back, err := FromSnapshot(s.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if len(back.Items) != len(s.Items) {
		t.Fatalf("items = %d, want %d", len(back.Items), len(s.Items))
	}
	for i := range s.Items {
		if *back.Items[i] != *s.Items[i] {
			t.Errorf("item %d = %+v, want %+v", i, *back.Items[i], *s.Items[i])
		}
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    Dimension
		wantErr bool
	}{
		{in: "location", want: DimLocation},
		{in: "time_block", want: DimTimeBlock},
		{in: " Slot ", want: DimTimeSlot},
		{in: "room", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDimension(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDimension) {
					t.Fatalf("expected ErrUnknownDimension, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	s := sampleSchedule()
	c := s.Clone()

	c.Items[0].Title = "Changed"
	if s.Items[0].Title == "Changed" {
		t.Error("clone shares items with original")
	}
	if s.IndexOf(c.Items[0]) != -1 {
		t.Error("clone item pointer found in original")
	}
	if it, ok := c.ItemByID(2); !ok || c.IndexOf(it) != 1 {
		t.Errorf("ItemByID(2) = %v, %v", it, ok)
	}
}
