package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/db"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <fixture.toml>",
		Short: "Import a convention from a TOML fixture",
		Long: `Import locations, time blocks, time slots and games from a TOML fixture
into the local database.

Games reference locations and time blocks by text and time slots by name
(or by their display text, e.g. "6 PM - Midnight").

Example fixture:
  [[locations]]
  text = "Boiler Room"

  [[time_blocks]]
  text = "Friday Night"
  sort_id = 1

  [[time_slots]]
  start = 18
  stop = 24

  [[games]]
  title = "First Game"
  location = "Boiler Room"
  time_block = "Friday Night"
  time_slot = "6 PM - Midnight"`,
		Example: `  congrid import convention.toml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.config.UsesRemote() {
				return fmt.Errorf("import writes to the local database; unset remote.url to use it")
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}

			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("fixture does not exist: %s", path)
				}
				return fmt.Errorf("checking fixture: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("fixture path is a directory: %s", path)
			}

			stats, err := importFixture(context.Background(), store, path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d games, %d locations, %d time blocks and %d time slots from %s\n",
				stats.Games, stats.Locations, stats.Blocks, stats.Slots, path)
			return nil
		},
	}

	return cmd
}

func importFixture(ctx context.Context, dest *db.SQLite, path string) (db.ImportStats, error) {
	f, err := db.LoadFixture(path)
	if err != nil {
		return db.ImportStats{}, err
	}
	stats, err := dest.Import(ctx, f)
	if err != nil {
		return stats, fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	return stats, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
