package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  congrid config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	cfg.Layout.Width = promptFloat(reader, out, "Canvas width (px)", cfg.Layout.Width)
	cfg.Layout.MinWidth = promptFloat(reader, out, "Minimum canvas width (px)", cfg.Layout.MinWidth)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Server.Listen = promptValue(reader, out, "Server listen address", cfg.Server.Listen)
	cfg.Remote.URL = promptValue(reader, out, "Remote server URL (empty for local database)", cfg.Remote.URL)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.PreviewPath = promptValue(reader, out, "SVG preview path (empty to disable)", cfg.UI.PreviewPath)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[layout]")
	fmt.Fprintf(out, "  width         = %g\n", cfg.Layout.Width)
	fmt.Fprintf(out, "  min_width     = %g\n", cfg.Layout.MinWidth)
	fmt.Fprintf(out, "  row_height    = %g\n", cfg.Layout.RowHeight)
	fmt.Fprintf(out, "  glyph_advance = %g\n", cfg.Layout.GlyphAdvance)
	fmt.Fprintf(out, "  origin_hour   = %d\n", cfg.Layout.OriginHour)
	if len(cfg.Layout.Days) > 0 {
		fmt.Fprintf(out, "  days          = %s\n", strings.Join(cfg.Layout.Days, ", "))
	}
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path       = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  listen        = %s\n", cfg.Server.Listen)
	fmt.Fprintf(out, "  log_level     = %s\n", cfg.Server.LogLevel)
	fmt.Fprintf(out, "  token         = %s\n", maskSecret(cfg.Server.Token))
	if cfg.UsesRemote() {
		fmt.Fprintln(out, "\n[remote]")
		fmt.Fprintf(out, "  url           = %s\n", cfg.Remote.URL)
		fmt.Fprintf(out, "  token         = %s\n", maskSecret(cfg.Remote.Token))
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme         = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  preview_path  = %s\n", cfg.UI.PreviewPath)
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, current float64) float64 {
	for {
		value := promptValue(reader, out, label, strconv.FormatFloat(current, 'g', -1, 64))
		f, err := strconv.ParseFloat(value, 64)
		if err == nil && f > 0 {
			return f
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
		if value == strconv.FormatFloat(current, 'g', -1, 64) {
			return current
		}
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if value == current {
			return current
		}
	}
}
