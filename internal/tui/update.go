package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/congrid/internal/editor"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(0, m.width-m.styles.AppStyle.GetHorizontalFrameSize())
		m.ensureCursorVisible()
		return m, nil

	case commands.ScheduleLoadedMsg:
		width := m.config.CanvasWidth()
		if m.editor != nil {
			width = m.editor.Width()
		}
		m.editor = editor.New(msg.Schedule, m.renderer, width)
		m.loading = false
		m.err = nil
		m.clampCursor()
		LogRender(m.editor.Drawing(), width)
		return m, tea.Batch(
			m.previewCmd(),
			statusCmd(fmt.Sprintf("Loaded %d games", len(msg.Schedule.Items))),
		)

	case commands.SaveStepMsg:
		return m.handleSaveStep(msg)

	case commands.PreviewWrittenMsg:
		return m, nil

	case commands.CopiedMsg:
		return m, statusCmd(fmt.Sprintf("Copied SVG to clipboard (%d bytes)", msg.Bytes))

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusErr = true
		m.statusTime = time.Now().Add(5 * time.Second)
		LogError("command", msg.Err)
		return m, nil

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusErr = false
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleSaveStep issues the next step of a running save, or settles the
// session when the pipeline finished or halted.
func (m Model) handleSaveStep(msg commands.SaveStepMsg) (tea.Model, tea.Cmd) {
	if msg.Pipeline == nil || msg.Pipeline != m.pipeline {
		return m, nil
	}
	LogSaveStep(msg.Saved, msg.Total, msg.Done, msg.Err)

	if msg.Err != nil {
		// The pipeline holds its position; the modal offers a retry from there.
		m.saveErr = msg.Err
		m.statusMsg = saveErrorText(msg.Err)
		m.statusErr = true
		m.statusTime = time.Now().Add(5 * time.Second)
		return m.openModal(ModalSaveFailed, "save failed"), nil
	}

	if !msg.Done {
		m.statusMsg = fmt.Sprintf("Saving %d of %d games", msg.Saved, msg.Total)
		m.statusErr = false
		return m, commands.SaveStep(m.pipeline)
	}

	m.editor.EndSave(m.pipeline)
	m.pipeline = nil
	if m.mode == ModeSaving {
		m.mode = ModeNormal
		LogModeChange(ModeSaving, ModeNormal, "save done")
	}
	return m, statusCmd(fmt.Sprintf("Saved %d games", msg.Total))
}

func saveErrorText(err error) string {
	var itemErr *save.ItemError
	if errors.As(err, &itemErr) {
		return fmt.Sprintf("Save stopped at game %d (row %d): %v", itemErr.ItemID, itemErr.Index+1, itemErr.Err)
	}
	return fmt.Sprintf("Save failed: %v", err)
}

func (m Model) previewCmd() tea.Cmd {
	if m.editor == nil || m.config.UI.PreviewPath == "" {
		return nil
	}
	return commands.WritePreview(m.config.UI.PreviewPath, m.editor.Drawing())
}
