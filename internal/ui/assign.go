package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/editor"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// ErrUnknownOption is returned when a label matches no selector option.
var ErrUnknownOption = errors.New("unknown option")

// clearValue selects Not Selected from the command line.
const clearValue = "none"

func (a *App) assignCmd() *cobra.Command {
	var (
		location string
		block    string
		slot     string
	)

	cmd := &cobra.Command{
		Use:   "assign <game-id>",
		Short: "Move a game to a time block, time slot or location",
		Long: `Change a game's assignment and save the schedule.

Options are matched by label, ignoring case. Pass "none" to clear one.
Flags that are not given keep their current value. Every game is saved in
order; the command stops at the first game the store refuses.`,
		Example: `  congrid assign 12 --block "Saturday Day" --slot "9 AM - 1 PM"
  congrid assign 12 --location "Boiler Room"
  congrid assign 12 --slot none`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game ID: %w", err)
			}
			if location == "" && block == "" && slot == "" {
				return fmt.Errorf("nothing to change: pass --location, --block or --slot")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			s, err := loadSchedule(ctx, a.repo)
			if err != nil {
				return err
			}

			ed, err := newCLIEditor(a.config, s)
			if err != nil {
				return err
			}

			choices := map[schedule.Dimension]string{
				schedule.DimTimeBlock: block,
				schedule.DimTimeSlot:  slot,
				schedule.DimLocation:  location,
			}
			it, err := applyAssignment(ed, id, choices)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !ed.Dirty() {
				fmt.Fprintf(out, "Game #%d already has that assignment.\n", id)
				return nil
			}
			return saveSession(ctx, out, ed, a.repo, it)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", `Location label, or "none"`)
	cmd.Flags().StringVar(&block, "block", "", `Time block label, or "none"`)
	cmd.Flags().StringVar(&slot, "slot", "", `Time slot label, or "none"`)

	return cmd
}

// applyAssignment selects the given option labels for a game. Empty labels
// keep the current value.
func applyAssignment(ed *editor.Controller, id int64, choices map[schedule.Dimension]string) (*schedule.Item, error) {
	s := ed.Schedule()
	it, ok := s.ItemByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", schedule.ErrItemNotFound, id)
	}

	for _, d := range schedule.Dimensions {
		label := strings.TrimSpace(choices[d])
		if label == "" {
			continue
		}
		index, err := optionIndex(s, d, label)
		if err != nil {
			return nil, err
		}
		if err := ed.Select(it, d, index); err != nil {
			return nil, fmt.Errorf("selecting %s: %w", d.Label(), err)
		}
	}
	return it, nil
}

// optionIndex finds the option whose label matches, ignoring case.
func optionIndex(s *schedule.Schedule, d schedule.Dimension, label string) (int, error) {
	if strings.EqualFold(label, clearValue) || strings.EqualFold(label, schedule.NotSelectedLabel) {
		return schedule.Unset, nil
	}

	var names []string
	for _, opt := range s.Options(d) {
		if opt.Index == schedule.Unset {
			continue
		}
		if strings.EqualFold(opt.Label, label) {
			return opt.Index, nil
		}
		names = append(names, strconv.Quote(opt.Label))
	}
	return schedule.Unset, fmt.Errorf("%w: %s %q (available: %s)", ErrUnknownOption, strings.ToLower(d.Label()), label, strings.Join(names, ", "))
}

// saveSession runs the save pipeline and reports progress.
func saveSession(ctx context.Context, w io.Writer, ed *editor.Controller, p save.Persister, changed *schedule.Item) error {
	err := ed.Save(ctx, p, save.OnProgress(func(pr save.Progress) {
		if pr.Saved == pr.Total || pr.Saved%25 == 0 {
			fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("saved %d of %d", pr.Saved, pr.Total)))
		}
	}))
	if err != nil {
		var itemErr *save.ItemError
		if errors.As(err, &itemErr) {
			return fmt.Errorf("save stopped at game #%d, nothing after it was saved: %w", itemErr.ItemID, itemErr.Err)
		}
		return fmt.Errorf("saving schedule: %w", err)
	}

	s := ed.Schedule()
	status := formatScheduled("on the grid")
	if !schedule.Drawable(changed) {
		status = formatUnscheduled("not on the grid")
	}
	fmt.Fprintf(w, "Game #%d: %s, %s (%s)\n", changed.ID, s.ItemTime(changed), s.OptionLabel(schedule.DimLocation, changed.LocationIndex), status)
	return nil
}
