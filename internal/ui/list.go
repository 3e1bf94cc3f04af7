package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/schedule"
)

const unscheduledGroup = "Not scheduled"

// ListOpts configures the game listing.
type ListOpts struct {
	Width       int  // terminal width in cells
	Unscheduled bool // only games that are not on the grid
	Stats       bool
	SpanHours   float64 // hours covered by the grid, for occupancy bars
}

func (a *App) listCmd() *cobra.Command {
	var (
		unscheduled bool
		noStats     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games grouped by time block",
		Long: `List every game with its time slot and location, grouped by time block.

Games marked ○ are not drawn on the grid: they are missing a time block,
a time slot or a location.`,
		Example: `  congrid list
  congrid list --unscheduled`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			s, err := loadSchedule(context.Background(), a.repo)
			if err != nil {
				return err
			}

			writeList(cmd.OutOrStdout(), s, ListOpts{
				Width:       termWidth(),
				Unscheduled: unscheduled,
				Stats:       !noStats,
				SpanHours:   float64(a.config.LayoutConfig().GridUnits),
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "Only list games that are not on the grid")
	cmd.Flags().BoolVar(&noStats, "no-stats", false, "Hide the booking summary")

	return cmd
}

func loadSchedule(ctx context.Context, repo schedule.Repository) (*schedule.Schedule, error) {
	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	s, err := schedule.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return s, nil
}

func writeList(w io.Writer, s *schedule.Schedule, opts ListOpts) {
	items := sortedByTime(s)
	if len(items) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}

	idWidth := 0
	slotWidth := len(schedule.NotSelectedLabel)
	locWidth := len(schedule.NotSelectedLabel)
	for _, it := range items {
		idWidth = max(idWidth, len(strconv.FormatInt(it.ID, 10))+1)
		slotWidth = max(slotWidth, len(s.OptionLabel(schedule.DimTimeSlot, it.TimeSlotIndex)))
		locWidth = max(locWidth, len(s.OptionLabel(schedule.DimLocation, it.LocationIndex)))
	}
	slotWidth = min(slotWidth, 20)
	locWidth = min(locWidth, 20)
	// "  ● " + id + 2 + slot + 2 + location + 2
	titleWidth := max(12, opts.Width-4-idWidth-slotWidth-locWidth-6)

	printed := 0
	group := ""
	for _, it := range items {
		drawn := schedule.Drawable(it)
		if opts.Unscheduled && drawn {
			continue
		}

		name := unscheduledGroup
		if it.TimeBlockIndex >= 0 {
			name = s.OptionLabel(schedule.DimTimeBlock, it.TimeBlockIndex)
		}
		if name != group {
			if group != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", formatHeader(name))
			group = name
		}

		symbol := formatScheduled("●")
		if !drawn {
			symbol = formatUnscheduled("○")
		}
		fmt.Fprintf(w, "  %s %s  %s  %s  %s\n",
			symbol,
			formatMuted(padRight("#"+strconv.FormatInt(it.ID, 10), idWidth)),
			padRight(fitText(s.OptionLabel(schedule.DimTimeSlot, it.TimeSlotIndex), slotWidth), slotWidth),
			padRight(fitText(s.OptionLabel(schedule.DimLocation, it.LocationIndex), locWidth), locWidth),
			fitText(it.Title, titleWidth),
		)
		printed++
	}

	if printed == 0 {
		fmt.Fprintln(w, "Every game is on the grid.")
	}
	if opts.Stats && !opts.Unscheduled {
		fmt.Fprintln(w)
		PrintStats(w, s, ComputeStats(s), opts.SpanHours)
	}
}
