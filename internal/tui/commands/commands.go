// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// ScheduleLoadedMsg is sent when the schedule has been fetched.
type ScheduleLoadedMsg struct {
	Schedule *schedule.Schedule
}

// SaveStepMsg is sent after the pipeline attempted one item.
type SaveStepMsg struct {
	Pipeline *save.Pipeline
	Saved    int
	Total    int
	Done     bool
	Err      error
}

// PreviewWrittenMsg is sent when the SVG preview was written to disk.
type PreviewWrittenMsg struct {
	Path  string
	Bytes int64
}

// CopiedMsg is sent when the SVG was copied to the clipboard.
type CopiedMsg struct {
	Bytes int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Loader fetches a schedule snapshot.
type Loader interface {
	LoadSnapshot(ctx context.Context) (*schedule.Snapshot, error)
}

// LoadSchedule fetches the snapshot and builds the schedule from it.
func LoadSchedule(repo Loader) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return ErrMsg{Err: fmt.Errorf("no schedule source configured")}
		}

		snap, err := repo.LoadSnapshot(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading schedule: %w", err)}
		}

		s, err := schedule.FromSnapshot(snap)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("reading schedule: %w", err)}
		}

		return ScheduleLoadedMsg{Schedule: s}
	}
}

// SaveStep persists the pipeline's next item. The model issues the following
// step only after this one reports back, so one write is in flight at a time.
func SaveStep(p *save.Pipeline) tea.Cmd {
	return func() tea.Msg {
		done, err := p.Step(context.Background())
		return SaveStepMsg{
			Pipeline: p,
			Saved:    p.Next(),
			Total:    p.Total(),
			Done:     done,
			Err:      err,
		}
	}
}

// WritePreview writes the drawing to path, replacing any previous preview.
func WritePreview(path string, d *render.Drawing) tea.Cmd {
	return func() tea.Msg {
		if path == "" || d == nil {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating preview directory: %w", err)}
		}

		tmp := path + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating preview: %w", err)}
		}
		n, err := d.WriteTo(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(tmp)
			return ErrMsg{Err: fmt.Errorf("writing preview: %w", err)}
		}
		if err := os.Rename(tmp, path); err != nil {
			return ErrMsg{Err: fmt.Errorf("replacing preview: %w", err)}
		}

		return PreviewWrittenMsg{Path: path, Bytes: n}
	}
}

// CopySVG copies the drawing's SVG markup to the system clipboard.
func CopySVG(d *render.Drawing) tea.Cmd {
	return func() tea.Msg {
		if d == nil {
			return ErrMsg{Err: fmt.Errorf("nothing to copy")}
		}
		svg := d.String()
		if err := clipboard.WriteAll(svg); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Bytes: len(svg)}
	}
}
