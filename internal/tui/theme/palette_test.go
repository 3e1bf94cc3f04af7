package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_BlockShades(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Game:        "#112233",
		Grid:        "#445566",
		Dirty:       "#777777",
		Warning:     "#888888",
	}

	palette := NewPalette(base)

	if palette.GameBg != lipgloss.Color(darkenColor(base.Game)) {
		t.Fatalf("GameBg = %q, want %q", palette.GameBg, darkenColor(base.Game))
	}
	if palette.GameBgAlt != lipgloss.Color(alternateShade(darkenColor(base.Game), false)) {
		t.Fatalf("GameBgAlt = %q, want %q", palette.GameBgAlt, alternateShade(darkenColor(base.Game), false))
	}
	if palette.DirtyBg != lipgloss.Color(muteColor(base.Dirty)) {
		t.Fatalf("DirtyBg = %q, want %q", palette.DirtyBg, muteColor(base.Dirty))
	}
	if palette.GridLight != lipgloss.Color(blendColors(base.Grid, base.Bg, 0.6)) {
		t.Fatalf("GridLight = %q, want %q", palette.GridLight, blendColors(base.Grid, base.Bg, 0.6))
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Game:        "#00ff00",
		Grid:        "#0000ff",
		Dirty:       "#ffff00",
		Warning:     "#ff00ff",
	}

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeInvertsShades(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Game:        "#1d8a8a",
		Grid:        "#2f8f2f",
		Dirty:       "#c97b00",
		Warning:     "#c2410c",
	}

	palette := NewPalette(base)
	if relativeLuminance(string(palette.GameBg)) <= relativeLuminance(base.Game) {
		t.Fatalf("GameBg luminance = %f, want greater than Game", relativeLuminance(string(palette.GameBg)))
	}
	if relativeLuminance(string(palette.DirtyBg)) <= relativeLuminance(base.Dirty) {
		t.Fatalf("DirtyBg luminance = %f, want greater than Dirty", relativeLuminance(string(palette.DirtyBg)))
	}
}

func TestNewPalette_NilUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want mocha base", palette.Bg)
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}
