package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderModalButtons_UsesModalBodySeparator(t *testing.T) {
	styles := ModalStyles{
		ModalBodyStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		ModalButtonStyle:       lipgloss.NewStyle(),
		ModalButtonActiveStyle: lipgloss.NewStyle(),
	}

	view := RenderModalButtons(styles, "[n/Esc] Stay", "[y/Enter] Discard and quit")
	sep := styles.ModalBodyStyle.Render(" ")
	if !strings.Contains(view, sep) {
		t.Fatalf("expected modal button separator to use modal body style")
	}
}

func TestRenderFieldsSkipsEmptyValues(t *testing.T) {
	out := RenderFields(ModalStyles{}, []Field{
		{Label: "GM: ", Value: "Ana"},
		{Label: "Requests: ", Value: "  "},
		{Label: "Time: ", Value: "Friday 6 PM - 2 AM"},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", lines)
	}
	if !strings.HasPrefix(lines[0], "GM:") || !strings.Contains(lines[0], "Ana") {
		t.Errorf("first line = %q", lines[0])
	}
	if strings.Contains(out, "Requests") {
		t.Errorf("empty field rendered: %q", out)
	}
}

func TestRenderModalFrameIncludesSections(t *testing.T) {
	out := RenderModalFrame("Unsaved changes", "body text", ConfirmLeaveFooter(ModalStyles{}), ModalStyles{})
	for _, want := range []string{"Unsaved changes", "body text", "[n/Esc] Stay", "Discard and quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q: %q", want, out)
		}
	}
}
