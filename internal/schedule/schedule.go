// Package schedule defines the convention schedule domain: locations, time blocks,
// time slots and the items assigned to them.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrItemNotFound     = errors.New("item not found")
	ErrNilSnapshot      = errors.New("snapshot is nil")
	ErrInvalidSlot      = errors.New("invalid time slot")
)

const (
	// Unset marks a location, time block or time slot index that has no assignment.
	Unset = -1
	// UnscheduledStart is the start of an item without a complete block/slot
	// assignment. It lies outside the rendered time range.
	UnscheduledStart = 100.0
	// MaxDrawableStart is the last start value that is still rendered.
	MaxDrawableStart = 99.0
)

// Dimension identifies one assignable axis of an item.
type Dimension int

const (
	DimLocation Dimension = iota
	DimTimeBlock
	DimTimeSlot
)

// Dimensions lists every assignable dimension in edit table column order.
var Dimensions = []Dimension{DimTimeBlock, DimTimeSlot, DimLocation}

// String returns the wire name of the dimension.
func (d Dimension) String() string {
	switch d {
	case DimLocation:
		return "location"
	case DimTimeBlock:
		return "time_block"
	case DimTimeSlot:
		return "time_slot"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// Label returns a human readable column title.
func (d Dimension) Label() string {
	switch d {
	case DimLocation:
		return "Location"
	case DimTimeBlock:
		return "Time Block"
	case DimTimeSlot:
		return "Time Slot"
	default:
		return d.String()
	}
}

// ParseDimension parses a wire name ("location", "time_block", "time_slot").
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "location":
		return DimLocation, nil
	case "time_block", "block":
		return DimTimeBlock, nil
	case "time_slot", "slot":
		return DimTimeSlot, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
}

// Location is a room or table where items run. Its row index in the schedule is
// its position on the grid; ID is the persistence key.
type Location struct {
	ID    int64
	Label string
}

// TimeBlock is a coarse time range (e.g. "Saturday Day") with an offset along
// the time axis.
type TimeBlock struct {
	ID     int64
	Text   string
	Offset float64
}

// TimeSlot is a fine start and duration inside a block.
type TimeSlot struct {
	ID    int64
	Text  string
	Start float64
	Width float64
}

// Item is a scheduled entry such as a game session.
type Item struct {
	ID              int64
	Title           string
	GM              string
	PreferredTime   string
	SpecialRequests string

	LocationIndex  int
	TimeBlockIndex int
	TimeSlotIndex  int

	// Start and Width are derived from the block and slot indices.
	Start float64
	Width float64
}

// Scheduled reports whether the item has both a time block and a time slot.
func (it *Item) Scheduled() bool {
	return it.TimeBlockIndex >= 0 && it.TimeSlotIndex >= 0
}

// Index returns the item's index for the given dimension.
func (it *Item) Index(d Dimension) int {
	switch d {
	case DimLocation:
		return it.LocationIndex
	case DimTimeBlock:
		return it.TimeBlockIndex
	case DimTimeSlot:
		return it.TimeSlotIndex
	default:
		return Unset
	}
}

// Drawable reports whether the item should appear on the rendered grid.
// Items with no width, a start outside [0, MaxDrawableStart] or no location are
// skipped.
func Drawable(it *Item) bool {
	if it == nil {
		return false
	}
	if it.Width == 0 {
		return false
	}
	if it.Start < 0 || it.Start > MaxDrawableStart {
		return false
	}
	return it.LocationIndex >= 0
}

// Schedule is the in-memory aggregate for one convention.
type Schedule struct {
	Locations []Location
	Blocks    []TimeBlock
	Slots     []TimeSlot
	Items     []*Item
}

// Len returns the number of entries available for a dimension.
func (s *Schedule) Len(d Dimension) int {
	switch d {
	case DimLocation:
		return len(s.Locations)
	case DimTimeBlock:
		return len(s.Blocks)
	case DimTimeSlot:
		return len(s.Slots)
	default:
		return 0
	}
}

// LocationLabels returns the location labels in row order.
func (s *Schedule) LocationLabels() []string {
	labels := make([]string, len(s.Locations))
	for i, loc := range s.Locations {
		labels[i] = loc.Label
	}
	return labels
}

// Derive recomputes the item's start and width from its block and slot.
func (s *Schedule) Derive(it *Item) {
	if it.TimeBlockIndex < 0 || it.TimeBlockIndex >= len(s.Blocks) ||
		it.TimeSlotIndex < 0 || it.TimeSlotIndex >= len(s.Slots) {
		it.Start = UnscheduledStart
		it.Width = 0
		return
	}
	slot := s.Slots[it.TimeSlotIndex]
	it.Start = s.Blocks[it.TimeBlockIndex].Offset + slot.Start
	it.Width = slot.Width
}

// Assign sets one index of the item and recomputes its derived fields.
// index must be Unset or a valid index into the dimension's sequence.
func (s *Schedule) Assign(it *Item, d Dimension, index int) error {
	if it == nil {
		return ErrItemNotFound
	}
	if err := s.checkIndex(d, index); err != nil {
		return err
	}

	switch d {
	case DimLocation:
		it.LocationIndex = index
	case DimTimeBlock:
		it.TimeBlockIndex = index
	case DimTimeSlot:
		it.TimeSlotIndex = index
	}
	s.Derive(it)
	return nil
}

func (s *Schedule) checkIndex(d Dimension, index int) error {
	switch d {
	case DimLocation, DimTimeBlock, DimTimeSlot:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDimension, int(d))
	}
	if index == Unset {
		return nil
	}
	if index < 0 || index >= s.Len(d) {
		return fmt.Errorf("%w: %s %d (have %d)", ErrIndexOutOfRange, d, index, s.Len(d))
	}
	return nil
}

// ItemByID returns the item with the given ID.
func (s *Schedule) ItemByID(id int64) (*Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// IndexOf returns the position of the item in display order, or -1.
func (s *Schedule) IndexOf(it *Item) int {
	for i, candidate := range s.Items {
		if candidate == it {
			return i
		}
	}
	return -1
}

// Option is one choice offered by an edit selector.
type Option struct {
	Index int
	Label string
}

// NotSelectedLabel is the label of the Unset option.
const NotSelectedLabel = "Not Selected"

// Options returns the selector choices for a dimension: Not Selected followed by
// one entry per location, block or slot.
func (s *Schedule) Options(d Dimension) []Option {
	opts := make([]Option, 0, s.Len(d)+1)
	opts = append(opts, Option{Index: Unset, Label: NotSelectedLabel})
	switch d {
	case DimLocation:
		for i, loc := range s.Locations {
			opts = append(opts, Option{Index: i, Label: loc.Label})
		}
	case DimTimeBlock:
		for i, b := range s.Blocks {
			opts = append(opts, Option{Index: i, Label: b.Text})
		}
	case DimTimeSlot:
		for i, sl := range s.Slots {
			opts = append(opts, Option{Index: i, Label: sl.Text})
		}
	}
	return opts
}

// OptionLabel returns the label shown for an index of a dimension.
func (s *Schedule) OptionLabel(d Dimension, index int) string {
	if index < 0 || index >= s.Len(d) {
		return NotSelectedLabel
	}
	switch d {
	case DimLocation:
		return s.Locations[index].Label
	case DimTimeBlock:
		return s.Blocks[index].Text
	case DimTimeSlot:
		return s.Slots[index].Text
	}
	return NotSelectedLabel
}

// Clone returns a deep copy of the schedule. Items are copied, so pointers
// into the clone differ from the original.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{
		Locations: append([]Location(nil), s.Locations...),
		Blocks:    append([]TimeBlock(nil), s.Blocks...),
		Slots:     append([]TimeSlot(nil), s.Slots...),
		Items:     make([]*Item, len(s.Items)),
	}
	for i, it := range s.Items {
		cp := *it
		c.Items[i] = &cp
	}
	return c
}
