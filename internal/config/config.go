// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/tui/theme"
)

// Config holds the application configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Remote  RemoteConfig  `toml:"remote"`
	UI      UIConfig      `toml:"ui"`
}

// LayoutConfig holds grid geometry settings. Zero values keep the built-in
// layout defaults.
type LayoutConfig struct {
	Width        float64  `toml:"width"`         // canvas width used when none is given
	MinWidth     float64  `toml:"min_width"`     // floor applied to every canvas width
	RowHeight    float64  `toml:"row_height"`    // pixels per location row
	TextOffset   float64  `toml:"text_offset"`   // label padding
	GridMargin   float64  `toml:"grid_margin"`   // gap between labels and grid
	GlyphAdvance float64  `toml:"glyph_advance"` // pixels per terminal cell when measuring labels
	OriginHour   int      `toml:"origin_hour"`   // clock hour at the left edge of the grid
	Days         []string `toml:"days,omitempty"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen   string `toml:"listen"`    // e.g. ":8080"
	LogLevel string `toml:"log_level"` // "debug", "info", "warn", "error"
	Token    string `toml:"token"`     // bearer token for writes; empty disables auth
}

// RemoteConfig points the editor at a running server instead of the local database.
type RemoteConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte", "light"
	PreviewPath string `toml:"preview_path"` // where the editor writes the SVG preview
}

// Default returns the default configuration.
func Default() *Config {
	lc := layout.DefaultConfig()
	return &Config{
		Layout: LayoutConfig{
			Width:        960,
			MinWidth:     lc.MinWidth,
			RowHeight:    lc.RowHeight,
			TextOffset:   lc.TextOffset,
			GridMargin:   lc.GridMargin,
			GlyphAdvance: layout.DefaultGlyphAdvance,
			OriginHour:   lc.OriginHour,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Listen:   ":8080",
			LogLevel: "info",
		},
		UI: UIConfig{
			Theme:       "mocha",
			PreviewPath: defaultPreviewPath(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "congrid.db"
	}
	return filepath.Join(home, ".local", "share", "congrid", "congrid.db")
}

func defaultPreviewPath() string {
	return filepath.Join(os.TempDir(), "congrid-schedule.svg")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "congrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.UI.PreviewPath = expandPath(cfg.UI.PreviewPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CONGRID_WIDTH"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing CONGRID_WIDTH: %w", err)
		}
		cfg.Layout.Width = width
	}
	if v := os.Getenv("CONGRID_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("CONGRID_PREVIEW_PATH"); v != "" {
		cfg.UI.PreviewPath = v
	}

	// Storage overrides
	if v := os.Getenv("CONGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// Server overrides
	if v := os.Getenv("CONGRID_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("CONGRID_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("CONGRID_TOKEN"); v != "" {
		cfg.Server.Token = v
	}

	// Remote overrides
	if v := os.Getenv("CONGRID_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("CONGRID_REMOTE_TOKEN"); v != "" {
		cfg.Remote.Token = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Layout.Width < 0 {
		return fmt.Errorf("width must not be negative, got %v", c.Layout.Width)
	}
	if c.Layout.MinWidth <= 0 {
		return fmt.Errorf("min_width must be positive, got %v", c.Layout.MinWidth)
	}
	if c.Layout.GlyphAdvance <= 0 {
		return fmt.Errorf("glyph_advance must be positive, got %v", c.Layout.GlyphAdvance)
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" && c.Remote.URL == "" {
		return errors.New("db_path must be set")
	}
	if !validLogLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("invalid log_level: %s", c.Server.LogLevel)
	}
	if c.UI.Theme != "" && !theme.IsAvailable(c.UI.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", c.UI.Theme, strings.Join(theme.Available(), ", "))
	}
	return nil
}

// LayoutConfig returns the grid layout with the configured overrides applied.
func (c *Config) LayoutConfig() layout.Config {
	lc := layout.DefaultConfig()
	if c.Layout.MinWidth > 0 {
		lc.MinWidth = c.Layout.MinWidth
	}
	if c.Layout.RowHeight != 0 {
		lc.RowHeight = c.Layout.RowHeight
	}
	if c.Layout.TextOffset != 0 {
		lc.TextOffset = c.Layout.TextOffset
	}
	if c.Layout.GridMargin != 0 {
		lc.GridMargin = c.Layout.GridMargin
	}
	lc.OriginHour = c.Layout.OriginHour
	if len(c.Layout.Days) > 0 {
		lc.Days = append([]string(nil), c.Layout.Days...)
	}
	return lc
}

// CanvasWidth returns the configured default canvas width, floored at the
// minimum width.
func (c *Config) CanvasWidth() float64 {
	return c.LayoutConfig().ClampWidth(c.Layout.Width)
}

// UsesRemote reports whether schedule data comes from a server.
func (c *Config) UsesRemote() bool {
	return strings.TrimSpace(c.Remote.URL) != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
