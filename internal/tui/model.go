package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/editor"
	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/metrics"
	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui/commands"
	"github.com/javiermolinar/congrid/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSaving      // a save pipeline is running; edits are refused
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone         ModalType = iota
	ModalConfirmLeave           // leaving with unsaved edits
	ModalSaveFailed             // the pipeline halted on an item
	ModalDetail                 // game details
	ModalInit                   // first run, storage missing
)

// Position is the cursor in the edit table.
type Position struct {
	Row int // index into the editor rows
	Col int // index into schedule.Dimensions
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo      schedule.Repository
	persister save.Persister
	config    *config.Config
	renderer  *render.Renderer

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// Edit session, nil until the schedule is loaded
	editor   *editor.Controller
	pipeline *save.Pipeline
	saveErr  error

	// State
	cursor    Position
	mode      Mode
	loading   bool
	modalType ModalType
	initState InitState
	initError string
	overlay   OverlayModel

	// Terminal dimensions
	width        int
	height       int
	scrollOffset int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When the message was set
	statusErr  bool

	// Error state
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.mode = ModeModal
			m.modalType = ModalInit
			m.loading = false
		}
	}
}

// WithRenderer replaces the renderer built from the configuration.
func WithRenderer(r *render.Renderer) ModelOption {
	return func(m *Model) {
		if r != nil {
			m.renderer = r
		}
	}
}

// New creates a new TUI model.
func New(repo schedule.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	h := help.New()
	h.Styles.ShortKey = styles.StatusStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle
	h.Styles.FullKey = styles.StatusStyle
	h.Styles.FullDesc = styles.HelpStyle
	h.Styles.FullSeparator = styles.HelpStyle
	h.Styles.Ellipsis = styles.HelpStyle

	m := &Model{
		config:   cfg,
		renderer: NewRenderer(cfg, t),
		theme:    t,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     h,
		mode:     ModeNormal,
		overlay:  NewOverlayModel(),
	}
	m.setRepo(repo)
	m.loading = repo != nil

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NewRenderer builds the schedule renderer for a configuration, coloured with
// the theme's palette.
func NewRenderer(cfg *config.Config, t *theme.Theme) *render.Renderer {
	return render.New(cfg.LayoutConfig(),
		render.WithMeasurer(layout.NewRuneMeasurer(cfg.Layout.GlyphAdvance)),
		render.WithStyle(render.StyleFromPalette(theme.NewPalette(t))),
		render.WithObserver(metrics.Render{}),
	)
}

func (m *Model) setRepo(repo schedule.Repository) {
	m.repo = repo
	m.persister = nil
	if repo != nil {
		m.persister = metrics.CountSaves(repo)
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.initState.NeedsInit || m.repo == nil {
		return nil
	}
	return commands.LoadSchedule(m.repo)
}

// Dirty reports whether the edit session has unsaved selections.
func (m Model) Dirty() bool {
	return m.editor != nil && m.editor.Dirty()
}

// Run starts the TUI.
func Run(repo schedule.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging. When repo is nil
// the store named by the configuration is opened, after asking to create it
// on first run.
func RunWithDebug(repo schedule.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	initialRepo := repo
	var initState InitState

	if repo == nil {
		state, err := DetectInitState(cfg)
		if err != nil {
			return err
		}
		initState = state
		if !state.NeedsInit {
			repo, err = OpenRepository(cfg)
			if err != nil {
				return err
			}
		}
	}

	model := New(repo, cfg, WithInitState(initState))
	p := tea.NewProgram(*model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if initialRepo == nil {
		if m, ok := finalModel.(Model); ok && m.repo != nil {
			_ = m.repo.Close()
		}
	}
	return err
}
