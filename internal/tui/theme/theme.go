// Package theme provides the colour themes shared by the edit table and the
// rendered schedule.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

var (
	// ErrUnknownTheme is returned by Load for names that are not embedded.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrInvalidTheme is returned for theme files with missing or malformed colours.
	ErrInvalidTheme = errors.New("invalid theme")
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

var names = []string{"mocha", "macchiato", "frappe", "latte", "light"}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Theme is one set of base colours. Every other shade is derived by NewPalette.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // alternate rows
	BgSelection string `toml:"bg_selection"` // cursor cell
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // unscheduled games
	Accent      string `toml:"accent"`   // title, headers, borders
	Game        string `toml:"game"`     // game blocks in the grid
	Grid        string `toml:"grid"`     // grid lines
	Dirty       string `toml:"dirty"`    // unsaved badge and edited cells
	Warning     string `toml:"warning"`  // save errors, leave confirmation

	// Optional modal overrides.
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// Load returns an embedded theme. An empty name loads DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}
	if !slices.Contains(names, name) {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(names, ", "))
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	return t, nil
}

// Parse decodes a TOML theme and fills the modal overrides it leaves out.
func Parse(data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.applyDefaults()
	return &t, nil
}

// Validate checks that every base colour is set and every colour is #rrggbb.
func (t *Theme) Validate() error {
	base := []struct {
		key, value string
	}{
		{"bg", t.Bg},
		{"bg_highlight", t.BgHighlight},
		{"bg_selection", t.BgSelection},
		{"fg", t.Fg},
		{"fg_muted", t.FgMuted},
		{"accent", t.Accent},
		{"game", t.Game},
		{"grid", t.Grid},
		{"dirty", t.Dirty},
		{"warning", t.Warning},
	}
	for _, c := range base {
		if c.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidTheme, c.key)
		}
	}

	overrides := []struct {
		key, value string
	}{
		{"base_bg", t.BaseBg},
		{"modal_border", t.ModalBorder},
		{"text_primary", t.TextPrimary},
		{"text_muted", t.TextMuted},
		{"highlight", t.Highlight},
	}
	for _, c := range append(base, overrides...) {
		if c.value != "" && !hexColor.MatchString(c.value) {
			return fmt.Errorf("%w: %s = %q is not a #rrggbb colour", ErrInvalidTheme, c.key, c.value)
		}
	}
	return nil
}

// ModalPalette holds the colours of modal dialogs.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal returns the modal colours, using the base colours for unset overrides.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func (t *Theme) applyDefaults() {
	m := t.Modal()
	t.BaseBg = m.BaseBg
	t.ModalBorder = m.ModalBorder
	t.TextPrimary = m.TextPrimary
	t.TextMuted = m.TextMuted
	t.Highlight = m.Highlight
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the embedded theme names.
func Available() []string {
	return slices.Clone(names)
}

// IsAvailable reports whether name is an embedded theme, ignoring case.
func IsAvailable(name string) bool {
	return slices.Contains(names, strings.ToLower(strings.TrimSpace(name)))
}
