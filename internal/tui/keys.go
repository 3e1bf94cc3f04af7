package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/congrid/internal/editor"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui/commands"
)

// Canvas width change per key press, in pixels.
const widthStep = 50

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Clear    key.Binding
	Undo     key.Binding
	Save     key.Binding
	Sort     key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Copy     key.Binding
	Detail   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("h", "left", "shift+tab"), key.WithHelp("←/h", "prev column")),
		Right:    key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("→/l", "next column")),
		Next:     key.NewBinding(key.WithKeys(" ", "+", "="), key.WithHelp("space/+", "next option")),
		Prev:     key.NewBinding(key.WithKeys("-", "backspace"), key.WithHelp("-", "prev option")),
		Clear:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "not selected")),
		Undo:     key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order by time")),
		Wider:    key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "wider")),
		Narrower: key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "narrower")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy svg")),
		Detail:   key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("enter", "details")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Undo, k.Save, k.Detail, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Clear, k.Undo},
		{k.Save, k.Reload, k.Sort, k.Detail},
		{k.Wider, k.Narrower, k.Copy},
		{k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeSaving:
		return m.handleSavingKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys while browsing and editing the table.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.editor != nil && errors.Is(m.editor.GuardLeave(), editor.ErrUnsavedChanges) {
			return m.openModal(ModalConfirmLeave, "unsaved changes on quit"), nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureCursorVisible()
		return m, nil
	}

	if m.editor == nil {
		return m, nil
	}

	switch {
	// Navigation
	case key.Matches(msg, m.keys.Up):
		if m.cursor.Row > 0 {
			m.cursor.Row--
			m.ensureCursorVisible()
			LogCursorMove(m.cursor.Row, m.cursor.Col, "up")
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor.Row < len(m.editor.Rows())-1 {
			m.cursor.Row++
			m.ensureCursorVisible()
			LogCursorMove(m.cursor.Row, m.cursor.Col, "down")
		}
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = (m.cursor.Col + len(schedule.Dimensions) - 1) % len(schedule.Dimensions)
		LogCursorMove(m.cursor.Row, m.cursor.Col, "left")
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = (m.cursor.Col + 1) % len(schedule.Dimensions)
		LogCursorMove(m.cursor.Row, m.cursor.Col, "right")

	// Selectors
	case key.Matches(msg, m.keys.Next):
		return m.cycleSelected(1)
	case key.Matches(msg, m.keys.Prev):
		return m.cycleSelected(-1)
	case key.Matches(msg, m.keys.Clear):
		return m.clearSelected()
	case key.Matches(msg, m.keys.Undo):
		if err := m.editor.Undo(); err != nil {
			return m, statusCmd(err.Error())
		}
		return m, m.previewCmd()

	// Actions
	case key.Matches(msg, m.keys.Save):
		return m.startSave()
	case key.Matches(msg, m.keys.Reload):
		if err := m.editor.GuardLeave(); err != nil {
			return m, statusCmd("Unsaved changes! Save or undo before reloading")
		}
		m.loading = true
		return m, commands.LoadSchedule(m.repo)
	case key.Matches(msg, m.keys.Sort):
		return m.reorder()
	case key.Matches(msg, m.keys.Wider):
		return m.resize(m.editor.Width() + widthStep)
	case key.Matches(msg, m.keys.Narrower):
		return m.resize(m.editor.Width() - widthStep)
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopySVG(m.editor.Drawing())
	case key.Matches(msg, m.keys.Detail):
		if m.selectedItem() != nil {
			return m.openModal(ModalDetail, "details"), nil
		}
	}

	return m, nil
}

// handleSavingKeys only allows leaving while a save runs; edits are refused.
func (m Model) handleSavingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m.openModal(ModalConfirmLeave, "quit during save"), nil
	default:
		m.statusMsg = "Saving, please wait"
		m.statusErr = false
	}
	return m, nil
}

// handleModalKeys handles keys for the active modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch m.modalType {
	case ModalConfirmLeave:
		switch k {
		case "y", "enter":
			return m, tea.Quit
		case "n", "esc", "q":
			return m.closeModal("stay"), nil
		}

	case ModalSaveFailed:
		switch k {
		case "r", "enter":
			// Resume from the failed item.
			m = m.closeModal("retry")
			m.mode = ModeSaving
			m.saveErr = nil
			m.statusMsg = fmt.Sprintf("Retrying save at game %d of %d", m.pipeline.Next()+1, m.pipeline.Total())
			m.statusErr = false
			return m, commands.SaveStep(m.pipeline)
		case "esc", "q":
			m.editor.EndSave(m.pipeline)
			m.pipeline = nil
			m = m.closeModal("abandon save")
			m.statusMsg = "Save stopped; changes are still unsaved"
			m.statusErr = true
			return m, nil
		}

	case ModalDetail:
		switch k {
		case "esc", "enter", "q", "i":
			return m.closeModal("close details"), nil
		}

	case ModalInit:
		switch k {
		case "enter":
			updated, err := m.initializeStorage()
			if err != nil {
				updated.initError = err.Error()
				return updated, nil
			}
			updated = updated.closeModal("storage ready")
			updated.initState = InitState{}
			updated.loading = true
			return updated, commands.LoadSchedule(updated.repo)
		case "esc", "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) openModal(t ModalType, reason string) Model {
	prev := m.mode
	m.mode = ModeModal
	m.modalType = t
	LogModeChange(prev, m.mode, reason)
	return m
}

func (m Model) closeModal(reason string) Model {
	prev := m.mode
	m.modalType = ModalNone
	m.mode = ModeNormal
	if m.editor != nil && m.editor.Saving() {
		m.mode = ModeSaving
	}
	LogModeChange(prev, m.mode, reason)
	return m
}

func (m Model) selectedItem() *schedule.Item {
	if m.editor == nil {
		return nil
	}
	rows := m.editor.Rows()
	if m.cursor.Row < 0 || m.cursor.Row >= len(rows) {
		return nil
	}
	return rows[m.cursor.Row].Item
}

func (m Model) selectedDimension() schedule.Dimension {
	return schedule.Dimensions[m.cursor.Col]
}

func (m Model) cycleSelected(delta int) (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	if it == nil {
		return m, nil
	}
	d := m.selectedDimension()
	err := m.editor.Cycle(it, d, delta)
	LogSelection(it, d, it.Index(d), err)
	if err != nil {
		return m, statusCmd(err.Error())
	}
	return m, m.previewCmd()
}

func (m Model) clearSelected() (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	if it == nil {
		return m, nil
	}
	d := m.selectedDimension()
	err := m.editor.Select(it, d, schedule.Unset)
	LogSelection(it, d, schedule.Unset, err)
	if err != nil {
		return m, statusCmd(err.Error())
	}
	return m, m.previewCmd()
}

// reorder sorts the table by time and keeps the cursor on the same game.
func (m Model) reorder() (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	m.editor.Reorder(editor.ByTime)
	if it != nil {
		if i := m.editor.Schedule().IndexOf(it); i >= 0 {
			m.cursor.Row = i
		}
	}
	m.ensureCursorVisible()
	return m, m.previewCmd()
}

func (m Model) resize(width float64) (tea.Model, tea.Cmd) {
	width = m.renderer.Config().ClampWidth(width)
	if width == m.editor.Width() {
		return m, statusCmd(fmt.Sprintf("Canvas width is already at the %.0fpx minimum", width))
	}
	m.editor.Resize(width)
	LogRender(m.editor.Drawing(), width)
	return m, tea.Batch(m.previewCmd(), statusCmd(fmt.Sprintf("Canvas width %.0fpx", width)))
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	if m.persister == nil {
		return m, statusCmd("No store to save to")
	}
	p, err := m.editor.BeginSave(m.persister, save.OnProgress(func(pr save.Progress) {
		LogSaveStep(pr.Saved, pr.Total, pr.Saved == pr.Total, nil)
	}))
	if err != nil {
		return m, statusCmd(err.Error())
	}

	prev := m.mode
	m.pipeline = p
	m.saveErr = nil
	m.mode = ModeSaving
	m.statusMsg = fmt.Sprintf("Saving 0 of %d games", p.Total())
	m.statusErr = false
	LogModeChange(prev, m.mode, "save")
	return m, commands.SaveStep(p)
}

func statusCmd(msg string) tea.Cmd {
	return func() tea.Msg {
		return commands.StatusMsgCmd{Msg: msg}
	}
}
