package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Layout.Width != 960 {
		t.Errorf("expected width 960, got %v", cfg.Layout.Width)
	}
	if cfg.Layout.MinWidth != 500 {
		t.Errorf("expected min_width 500, got %v", cfg.Layout.MinWidth)
	}
	if cfg.Layout.OriginHour != 18 {
		t.Errorf("expected origin_hour 18, got %d", cfg.Layout.OriginHour)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected listen :8080, got %s", cfg.Server.Listen)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("expected log_level info, got %s", cfg.Server.LogLevel)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if cfg.UsesRemote() {
		t.Error("default config should use the local database")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Layout.Width != 960 {
		t.Errorf("expected default width, got %v", cfg.Layout.Width)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[layout]
width = 1200
row_height = 24
origin_hour = 0
days = ["Saturday", "Sunday"]

[storage]
db_path = "/tmp/test.db"

[server]
listen = "127.0.0.1:9000"
log_level = "debug"
token = "s3cret"

[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Layout.Width != 1200 {
		t.Errorf("expected width 1200, got %v", cfg.Layout.Width)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" || cfg.Server.Token != "s3cret" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}

	lc := cfg.LayoutConfig()
	if lc.RowHeight != 24 {
		t.Errorf("expected row height 24, got %v", lc.RowHeight)
	}
	if lc.OriginHour != 0 {
		t.Errorf("expected origin 0, got %d", lc.OriginHour)
	}
	if len(lc.Days) != 2 || lc.Days[0] != "Saturday" {
		t.Errorf("days = %v", lc.Days)
	}
	// Untouched values keep the layout defaults.
	if lc.GridTop != 40 || lc.Units != 48 {
		t.Errorf("defaults lost: %+v", lc)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[layout\nwidth = "), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[layout]
width = 800

[server]
listen = ":7000"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("CONGRID_WIDTH", "1024")
	t.Setenv("CONGRID_LISTEN", ":9999")
	t.Setenv("CONGRID_DB_PATH", "/tmp/env.db")
	t.Setenv("CONGRID_REMOTE_URL", "http://schedule.local")
	t.Setenv("CONGRID_REMOTE_TOKEN", "remote-token")
	t.Setenv("CONGRID_THEME", "frappe")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Layout.Width != 1024 {
		t.Errorf("expected width 1024 from env, got %v", cfg.Layout.Width)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("expected listen :9999 from env, got %s", cfg.Server.Listen)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	if !cfg.UsesRemote() || cfg.Remote.Token != "remote-token" {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_BadWidthEnv(t *testing.T) {
	t.Setenv("CONGRID_WIDTH", "wide")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "CONGRID_WIDTH") {
		t.Errorf("expected CONGRID_WIDTH parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative width", mutate: func(c *Config) { c.Layout.Width = -1 }},
		{name: "zero min width", mutate: func(c *Config) { c.Layout.MinWidth = 0 }},
		{name: "zero glyph advance", mutate: func(c *Config) { c.Layout.GlyphAdvance = 0 }},
		{name: "negative row height", mutate: func(c *Config) { c.Layout.RowHeight = -5 }},
		{name: "origin out of range", mutate: func(c *Config) { c.Layout.OriginHour = 24 }},
		{name: "no storage", mutate: func(c *Config) { c.Storage.DBPath = "" }},
		{name: "bad log level", mutate: func(c *Config) { c.Server.LogLevel = "loud" }},
		{name: "unknown theme", mutate: func(c *Config) { c.UI.Theme = "neon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_RemoteWithoutDB(t *testing.T) {
	cfg := Default()
	cfg.Storage.DBPath = ""
	cfg.Remote.URL = "http://schedule.local"

	if err := cfg.Validate(); err != nil {
		t.Errorf("remote config without db_path should be valid: %v", err)
	}
}

func TestCanvasWidth(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{width: 960, want: 960},
		{width: 0, want: 500},
		{width: 320, want: 500},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Layout.Width = tt.width
		if got := cfg.CanvasWidth(); got != tt.want {
			t.Errorf("CanvasWidth(%v) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Layout.Width = 1440
	cfg.Remote.URL = "http://schedule.local"
	cfg.UI.Theme = "light"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Layout.Width != 1440 {
		t.Errorf("expected width 1440, got %v", loaded.Layout.Width)
	}
	if loaded.Remote.URL != "http://schedule.local" {
		t.Errorf("expected remote url, got %s", loaded.Remote.URL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("expected theme light, got %s", loaded.UI.Theme)
	}
}
