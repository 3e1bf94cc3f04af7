package render

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/congrid/internal/tui/theme"
)

// Style holds the colors of the generated stylesheet.
type Style struct {
	Background string
	Location   string
	Header     string
	Light      string
	Heavy      string
	GameFill   string
	GameStroke string
	GameText   string
	FontFamily string
}

// DefaultStyle is the light theme, suited for embedding in a page.
func DefaultStyle() Style {
	t, err := theme.Load("light")
	if err != nil {
		return StyleFromPalette(theme.NewPalette(nil))
	}
	return StyleFromPalette(theme.NewPalette(t))
}

// StyleFromPalette maps a theme palette onto the schedule classes.
func StyleFromPalette(p *theme.Palette) Style {
	return Style{
		Background: string(p.Bg),
		Location:   string(p.Fg),
		Header:     string(p.Accent),
		Light:      string(p.GridLight),
		Heavy:      string(p.Grid),
		GameFill:   string(p.GameBg),
		GameStroke: string(p.Game),
		GameText:   string(p.TextOnGame),
		FontFamily: "sans-serif",
	}
}

// CSS returns the stylesheet embedded in every drawing. It is kept on one
// line since the encoder escapes newlines in character data.
func (s Style) CSS() string {
	rules := []string{
		fmt.Sprintf("svg { background: %s; font-family: %s; font-size: 14px; }", s.Background, s.FontFamily),
		fmt.Sprintf(".location { fill: %s; }", s.Location),
		fmt.Sprintf(".header { fill: %s; font-weight: bold; font-size: 12px; }", s.Header),
		fmt.Sprintf(".light { fill: none; stroke: %s; stroke-width: 0.5; }", s.Light),
		fmt.Sprintf(".heavy { fill: none; stroke: %s; stroke-width: 1; }", s.Heavy),
		fmt.Sprintf(".game { fill: %s; stroke: %s; stroke-width: 1; }", s.GameFill, s.GameStroke),
		fmt.Sprintf(".game_title { fill: %s; font-size: 12px; }", s.GameText),
	}
	return strings.Join(rules, " ")
}
