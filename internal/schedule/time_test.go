package schedule

import "testing"

func TestBlockOffset(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Friday Night", -18},
		{"Friday MidniGHT", 6},
		{"Saturday day", 6},
		{"Saturday midnight", 30},
		{"Sunday Too early", 30},
		{"Unknown With Words", 100},
		{"Unknown", 100},
		{"", 100},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := BlockOffset(tt.text); got != tt.want {
				t.Errorf("BlockOffset(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBlockOffsetPlusSlotStart(t *testing.T) {
	tests := []struct {
		block string
		start float64
		want  float64
	}{
		{"Friday Night", 18, 0},
		{"Friday MidniGHT", 2, 8},
		{"Saturday day", 10, 16},
		{"Saturday midnight", 0, 30},
		{"Sunday Too early", 10, 40},
		{"Unknown With Words", 10, 110},
	}

	for _, tt := range tests {
		s := &Schedule{
			Blocks: []TimeBlock{{ID: 1, Text: tt.block, Offset: BlockOffset(tt.block)}},
			Slots:  []TimeSlot{{ID: 1, Start: tt.start, Width: SlotWidth(tt.start, 23)}},
		}
		it := &Item{TimeBlockIndex: 0, TimeSlotIndex: 0}
		s.Derive(it)
		if it.Start != tt.want {
			t.Errorf("%s at %v: start = %v, want %v", tt.block, tt.start, it.Start, tt.want)
		}
	}
}

func TestSlotWidth(t *testing.T) {
	tests := []struct {
		start, stop, want float64
	}{
		{0, 10, 10},
		{5, 4, 23},
		{18.5, 23.75, 5.25},
		{12, 12, 0},
	}

	for _, tt := range tests {
		if got := SlotWidth(tt.start, tt.stop); got != tt.want {
			t.Errorf("SlotWidth(%v, %v) = %v, want %v", tt.start, tt.stop, got, tt.want)
		}
	}
}

func TestHourText(t *testing.T) {
	tests := []struct {
		hour float64
		want string
	}{
		{0, "Midnight"},
		{12, "Noon"},
		{9, "9 AM"},
		{18, "6 PM"},
		{18.5, "6:30 PM"},
		{0.25, "12:15 AM"},
		{23.75, "11:45 PM"},
	}

	for _, tt := range tests {
		if got := HourText(tt.hour); got != tt.want {
			t.Errorf("HourText(%v) = %q, want %q", tt.hour, got, tt.want)
		}
	}

	if got := SlotText(18, 0); got != "6 PM - Midnight" {
		t.Errorf("SlotText = %q", got)
	}
}

func TestCombinedTime(t *testing.T) {
	slot := &TimeSlot{Text: "6 PM - Midnight"}

	tests := []struct {
		name  string
		block *TimeBlock
		slot  *TimeSlot
		want  string
	}{
		{name: "weekday block", block: &TimeBlock{Text: "Friday Night"}, slot: slot, want: "Friday 6 PM - Midnight"},
		{name: "named block", block: &TimeBlock{Text: "Early Bird"}, slot: slot, want: "Early Bird : 6 PM - Midnight"},
		{name: "no block", slot: slot, want: NotScheduledText},
		{name: "no slot", block: &TimeBlock{Text: "Friday Night"}, want: NotScheduledText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombinedTime(tt.block, tt.slot); got != tt.want {
				t.Errorf("CombinedTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
