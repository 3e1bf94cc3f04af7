package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javiermolinar/congrid/internal/client"
	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/db"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// InitState tracks whether startup initialization is required.
type InitState struct {
	NeedsInit     bool
	ConfigMissing bool
	DBMissing     bool
	ConfigPath    string
	DBPath        string
}

// DetectInitState checks for missing config or database files. A remote
// store never needs local initialization.
func DetectInitState(cfg *config.Config) (InitState, error) {
	if cfg.UsesRemote() {
		return InitState{}, nil
	}

	state := InitState{
		ConfigPath: config.DefaultConfigPath(),
		DBPath:     cfg.Storage.DBPath,
	}

	configMissing, err := pathMissing(state.ConfigPath)
	if err != nil {
		return InitState{}, fmt.Errorf("checking config path: %w", err)
	}
	dbMissing, err := pathMissing(state.DBPath)
	if err != nil {
		return InitState{}, fmt.Errorf("checking db path: %w", err)
	}

	state.ConfigMissing = configMissing
	state.DBMissing = dbMissing
	state.NeedsInit = configMissing || dbMissing
	return state, nil
}

func pathMissing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, err
}

// OpenRepository opens the schedule store named by the configuration: the
// server at remote.url when set, the SQLite database otherwise.
func OpenRepository(cfg *config.Config) (schedule.Repository, error) {
	if cfg.UsesRemote() {
		c, err := client.New(cfg.Remote.URL, client.WithToken(cfg.Remote.Token))
		if err != nil {
			return nil, fmt.Errorf("creating client: %w", err)
		}
		return c, nil
	}
	return openDB(cfg.Storage.DBPath)
}

func openDB(dbPath string) (schedule.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

func (m Model) initializeStorage() (Model, error) {
	if m.initState.ConfigMissing {
		if err := m.config.SaveTo(m.initState.ConfigPath); err != nil {
			return m, fmt.Errorf("saving config: %w", err)
		}
	}

	if m.repo == nil {
		repo, err := openDB(m.initState.DBPath)
		if err != nil {
			return m, err
		}
		m.setRepo(repo)
	}

	return m, nil
}
