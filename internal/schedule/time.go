package schedule

import (
	"fmt"
	"math"
	"strings"
)

// Block offsets along the time axis, in hours from Friday 18:00.
var dayOffsets = map[string]float64{
	"friday":   -18,
	"saturday": 6,
	"sunday":   30,
}

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// NotScheduledText is shown for items without a complete time assignment.
const NotScheduledText = "Not Scheduled"

// BlockOffset returns the time-axis offset for a block named like
// "Saturday Day" or "Friday Midnight". Unknown days map to UnscheduledStart.
func BlockOffset(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return UnscheduledStart
	}
	offset, ok := dayOffsets[strings.ToLower(words[0])]
	if !ok {
		offset = UnscheduledStart
	}
	if len(words) > 1 && strings.EqualFold(words[1], "midnight") {
		offset += 24
	}
	return offset
}

// SlotWidth returns the duration of a slot in hours, wrapping past midnight.
func SlotWidth(start, stop float64) float64 {
	width := stop - start
	if width < 0 {
		width += 24
	}
	return width
}

// HourText formats an hour of the day (0-23.99) for display.
func HourText(hour float64) string {
	h := int(math.Floor(hour))
	mins := int(math.Round((hour - float64(h)) * 60))
	if mins == 60 {
		h++
		mins = 0
	}
	h %= 24

	switch {
	case h == 0 && mins == 0:
		return "Midnight"
	case h == 12 && mins == 0:
		return "Noon"
	}

	suffix := "AM"
	display := h
	if h >= 12 {
		suffix = "PM"
		display = h - 12
	}
	if display == 0 {
		display = 12
	}
	if mins == 0 {
		return fmt.Sprintf("%d %s", display, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, suffix)
}

// SlotText returns the display text for a slot, e.g. "6 PM - Midnight".
func SlotText(start, stop float64) string {
	return HourText(start) + " - " + HourText(stop)
}

// CombinedTime joins a block and slot into one label. Blocks whose text starts
// with a weekday keep only the weekday ("Friday 6 PM - Midnight").
func CombinedTime(block *TimeBlock, slot *TimeSlot) string {
	if block == nil || slot == nil {
		return NotScheduledText
	}
	words := strings.Fields(block.Text)
	if len(words) > 0 && weekdays[strings.ToLower(words[0])] {
		return words[0] + " " + slot.Text
	}
	return block.Text + " : " + slot.Text
}

// ItemTime returns the combined time label for an item.
func (s *Schedule) ItemTime(it *Item) string {
	if !it.Scheduled() || it.TimeBlockIndex >= len(s.Blocks) || it.TimeSlotIndex >= len(s.Slots) {
		return NotScheduledText
	}
	return CombinedTime(&s.Blocks[it.TimeBlockIndex], &s.Slots[it.TimeSlotIndex])
}
