package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Scheduled games: bold cyan
	colorScheduled = color.New(color.FgCyan, color.Bold)

	// Games that are not on the grid: yellow so they stand out
	colorUnscheduled = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for booked time
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatScheduled(s string) string {
	return colorScheduled.Sprint(s)
}

func formatUnscheduled(s string) string {
	return colorUnscheduled.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
