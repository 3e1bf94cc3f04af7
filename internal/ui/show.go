package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/db"
	"github.com/javiermolinar/congrid/internal/schedule"
)

func (a *App) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show one game and its scheduling history",
		Long: `Display a game's assignment, its requests and, for the local database,
when it was last scheduled and every revision recorded for it.`,
		Example: `  congrid show 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game ID: %w", err)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			s, err := loadSchedule(ctx, a.repo)
			if err != nil {
				return err
			}
			it, ok := s.ItemByID(id)
			if !ok {
				return fmt.Errorf("%w: %d", schedule.ErrItemNotFound, id)
			}

			out := cmd.OutOrStdout()
			printGame(out, s, it, termWidth())

			if a.config.UsesRemote() {
				return nil
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}
			return printHistory(ctx, out, store, id)
		},
	}

	return cmd
}

func printGame(w io.Writer, s *schedule.Schedule, it *schedule.Item, width int) {
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(it.Title))

	status := formatScheduled("on the grid")
	if !schedule.Drawable(it) {
		status = formatUnscheduled("not on the grid")
	}
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(w, "  %s %s\n", formatMuted(padRight(label+":", 12)), value)
	}
	field("ID", strconv.FormatInt(it.ID, 10))
	field("GM", it.GM)
	field("Location", s.OptionLabel(schedule.DimLocation, it.LocationIndex))
	field("Time block", s.OptionLabel(schedule.DimTimeBlock, it.TimeBlockIndex))
	field("Time slot", s.OptionLabel(schedule.DimTimeSlot, it.TimeSlotIndex))
	field("When", s.ItemTime(it))
	field("Status", status)
	field("Preferred", it.PreferredTime)

	if it.SpecialRequests != "" {
		fmt.Fprintf(w, "  %s\n", formatMuted("Requests:"))
		for _, line := range wrapText(it.SpecialRequests, "    ", max(20, width-4)) {
			fmt.Fprintln(w, line)
		}
	}
}

func printHistory(ctx context.Context, w io.Writer, store *db.SQLite, id int64) error {
	last, err := store.LastScheduled(ctx, id)
	if err != nil {
		return err
	}
	revs, err := store.ListRevisions(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	if last.IsZero() {
		fmt.Fprintf(w, "Last scheduled: %s\n", formatMuted("never"))
	} else {
		fmt.Fprintf(w, "Last scheduled: %s\n", last.Local().Format(time.DateTime))
	}
	if len(revs) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Revisions (%d):\n", len(revs))
	for _, r := range revs {
		fmt.Fprintf(w, "  %s  %s\n", formatMuted(r.CreatedAt.Local().Format(time.DateTime)), r.Comment)
	}
	return nil
}
