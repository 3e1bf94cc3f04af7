package ui

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/congrid/internal/schedule"
)

// Stats holds aggregated booking numbers for a schedule.
type Stats struct {
	Games      int
	Scheduled  int // games with a time block and a time slot
	OnGrid     int // games that are drawn
	Hours      float64
	ByLocation map[string]float64 // booked hours per location label
}

// NotOnGrid returns the number of games the grid skips.
func (s Stats) NotOnGrid() int {
	return s.Games - s.OnGrid
}

// ComputeStats aggregates a schedule. Only drawn games count towards booked
// hours.
func ComputeStats(s *schedule.Schedule) Stats {
	stats := Stats{ByLocation: make(map[string]float64)}
	for _, it := range s.Items {
		if it == nil {
			continue
		}
		stats.Games++
		if it.Scheduled() {
			stats.Scheduled++
		}
		if !schedule.Drawable(it) || it.LocationIndex >= len(s.Locations) {
			continue
		}
		stats.OnGrid++
		stats.Hours += it.Width
		stats.ByLocation[s.Locations[it.LocationIndex].Label] += it.Width
	}
	return stats
}

// PrintStats writes the summary lines below a listing.
func PrintStats(w io.Writer, s *schedule.Schedule, stats Stats, spanHours float64) {
	fmt.Fprintf(w, "%s | %s | Booked: %s\n",
		formatScheduled(fmt.Sprintf("On grid: %d", stats.OnGrid)),
		formatUnscheduled(fmt.Sprintf("Not on grid: %d", stats.NotOnGrid())),
		formatStats(FormatHours(stats.Hours)))

	if spanHours <= 0 || len(s.Locations) == 0 {
		return
	}
	labels := s.LocationLabels()
	nameWidth := 0
	for _, l := range labels {
		nameWidth = max(nameWidth, runewidth.StringWidth(l))
	}
	nameWidth = min(nameWidth, 24)
	for _, l := range labels {
		fmt.Fprintf(w, "  %s  %s\n", padRight(fitText(l, nameWidth), nameWidth), OccupancyBar(stats.ByLocation[l], spanHours, 20))
	}
}

// OccupancyBar draws how much of a location's time range is booked.
func OccupancyBar(booked, span float64, width int) string {
	if span <= 0 || width <= 0 {
		return ""
	}
	ratio := math.Max(0, math.Min(1, booked/span))
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatScheduled(bar), formatStats(fmt.Sprintf("%s (%d%%)", FormatHours(booked), int(math.Round(ratio*100)))))
}

// FormatHours formats a number of hours, e.g. "8h", "7h30m" or "45m".
func FormatHours(hours float64) string {
	minutes := int(math.Round(hours * 60))
	if minutes == 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// sortedByTime returns the schedule's items in block, slot and title order,
// leaving the schedule untouched.
func sortedByTime(s *schedule.Schedule) []*schedule.Item {
	items := make([]*schedule.Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it != nil {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ka, kb := blockKey(a), blockKey(b); ka != kb {
			return ka < kb
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Title < b.Title
	})
	return items
}

func blockKey(it *schedule.Item) int {
	if it.TimeBlockIndex < 0 {
		return math.MaxInt
	}
	return it.TimeBlockIndex
}

// fitText truncates s to width terminal cells.
func fitText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// wrapText wraps text to width cells. Continuation lines are indented to
// line up with the first line's text.
func wrapText(text, prefix string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	continuation := strings.Repeat(" ", runewidth.StringWidth(prefix))
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	lines = append(lines, line)

	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = continuation + lines[i]
		}
	}
	return lines
}
