package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/db"
	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    schedule.Repository
	store   *db.SQLite // local database, opened lazily for import and show
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	noColor bool
	owned   bool // repo was opened by the app and must be closed
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened from the configuration when a command needs one.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}
	if s, ok := repo.(*db.SQLite); ok {
		a.store = s
	}

	a.root = &cobra.Command{
		Use:   "congrid",
		Short: "Lay out a convention schedule as a time grid",
		Long: `Congrid edits and renders convention schedules.

Run without arguments to open the schedule editor: every game gets a time
block, a time slot and a location, and the grid preview is redrawn on each
change. The same grid is available as SVG from 'congrid render' and
'congrid serve'.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+tui.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.assignCmd())
	a.root.AddCommand(a.renderCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "congrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the stores the app opened itself.
func (a *App) Close() error {
	if !a.owned {
		return nil
	}
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.store != nil && schedule.Repository(a.store) != a.repo {
		if cerr := a.store.Close(); err == nil {
			err = cerr
		}
	}
	a.repo, a.store, a.owned = nil, nil, false
	return err
}

// ensureRepo opens the configured schedule store: the remote server when one
// is configured, the local database otherwise.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	if a.config.UsesRemote() {
		repo, err := tui.OpenRepository(a.config)
		if err != nil {
			return err
		}
		a.repo = repo
		a.owned = true
		return nil
	}
	store, err := a.ensureStore()
	if err != nil {
		return err
	}
	a.repo = store
	return nil
}

// ensureStore opens the local SQLite database, creating it if needed.
func (a *App) ensureStore() (*db.SQLite, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	a.store = store
	a.owned = true
	return store, nil
}
