package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	ModalHeaderStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalStyle             lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	header := styles.ModalHeaderStyle.Render(styles.ModalTitleStyle.Render(title))
	b.WriteString(header)
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ModalFooterStyle.Render(footer))
	}

	return styles.ModalStyle.Render(b.String())
}

// RenderModalButtons renders a row of modal buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ModalButtonStyle
		if i == 0 {
			style = styles.ModalButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	sep := styles.ModalBodyStyle.Render(" ")
	return strings.Join(parts, sep)
}

// Field is one labelled line of a detail modal.
type Field struct {
	Label string
	Value string
}

// RenderFields lays out labelled values, one per line. Empty values are
// skipped.
func RenderFields(styles ModalStyles, fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		lines = append(lines, styles.ModalLabelStyle.Render(f.Label)+styles.ModalBodyStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

// ConfirmLeaveFooter renders the footer for the unsaved changes modal.
func ConfirmLeaveFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[n/Esc] Stay", "[y/Enter] Discard and quit")
}

// SaveFailedFooter renders the footer for the failed save modal.
func SaveFailedFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[r/Enter] Retry", "[Esc] Keep editing")
}

// DetailFooter renders the footer for the game detail modal.
func DetailFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[Esc] Close")
}

// InitFooter renders the footer for the init modal.
func InitFooter(styles ModalStyles) string {
	return RenderModalButtons(styles, "[Enter] Create", "[Esc] Quit")
}
