package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/editor"
	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui/theme"
)

func (a *App) renderCmd() *cobra.Command {
	var (
		width     float64
		output    string
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the schedule grid as SVG",
		Long: `Render the schedule grid as an SVG document.

The canvas width defaults to layout.width from the config and is never
narrower than layout.min_width. Games that cannot be drawn are listed on
stderr.`,
		Example: `  congrid render > schedule.svg
  congrid render --width 1400 -o schedule.svg
  congrid render --theme latte -o schedule.svg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			renderer, err := newCLIRenderer(a.config, themeName)
			if err != nil {
				return err
			}

			s, err := loadSchedule(context.Background(), a.repo)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = a.config.CanvasWidth()
			}
			width = renderer.Config().ClampWidth(width)
			d := renderer.Render(width, s)

			if err := writeDrawing(cmd.OutOrStdout(), output, d); err != nil {
				return err
			}
			reportSkipped(cmd.ErrOrStderr(), s, d)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "Canvas width in pixels (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the SVG to a file instead of stdout")
	cmd.Flags().StringVar(&themeName, "theme", "", "Colour the grid with a UI theme ("+strings.Join(theme.Available(), ", ")+")")

	return cmd
}

// newCLIRenderer builds a renderer with the plain grid style, or a theme's
// colours when one is named.
func newCLIRenderer(cfg *config.Config, themeName string) (*render.Renderer, error) {
	opts := []render.Option{
		render.WithMeasurer(layout.NewRuneMeasurer(cfg.Layout.GlyphAdvance)),
	}
	if themeName != "" {
		t, err := theme.Load(themeName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, render.WithStyle(render.StyleFromPalette(theme.NewPalette(t))))
	}
	return render.New(cfg.LayoutConfig(), opts...), nil
}

// newCLIEditor opens an edit session drawn the way the render command draws.
func newCLIEditor(cfg *config.Config, s *schedule.Schedule) (*editor.Controller, error) {
	renderer, err := newCLIRenderer(cfg, "")
	if err != nil {
		return nil, err
	}
	return editor.New(s, renderer, cfg.CanvasWidth()), nil
}

func writeDrawing(stdout io.Writer, path string, d *render.Drawing) error {
	if path == "" {
		_, err := d.WriteTo(stdout)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func reportSkipped(w io.Writer, s *schedule.Schedule, d *render.Drawing) {
	if len(d.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", formatUnscheduled(fmt.Sprintf("%d games not on the grid:", len(d.Skipped))))
	for _, id := range d.Skipped {
		title := "?"
		if it, ok := s.ItemByID(id); ok {
			title = it.Title
		}
		fmt.Fprintf(w, "  #%d %s\n", id, title)
	}
}
