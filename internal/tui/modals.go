package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui/view"
)

// renderModal renders the active modal box.
func (m Model) renderModal() string {
	styles := m.styles.ModalStyles()

	switch m.modalType {
	case ModalConfirmLeave:
		body := "You have unsaved schedule changes. Leaving now discards them."
		if m.mode == ModeSaving || m.pipeline != nil {
			body = "A save is still running. Leaving now stops it part way."
		}
		return view.RenderModalFrame("Unsaved changes", m.styles.ModalBodyStyle.Render(body), view.ConfirmLeaveFooter(styles), styles)

	case ModalSaveFailed:
		return view.RenderModalFrame("Save stopped", m.saveFailedBody(), view.SaveFailedFooter(styles), styles)

	case ModalDetail:
		return m.renderDetailModal()

	case ModalInit:
		return m.renderInitModal()
	}
	return ""
}

func (m Model) saveFailedBody() string {
	var lines []string
	if m.pipeline != nil {
		lines = append(lines, m.styles.ModalBodyStyle.Render(
			fmt.Sprintf("Saved %d of %d games before the store refused one.", m.pipeline.Next(), m.pipeline.Total())))
	}

	var itemErr *save.ItemError
	if errors.As(m.saveErr, &itemErr) && m.editor != nil {
		title := fmt.Sprintf("game %d", itemErr.ItemID)
		if it, ok := m.editor.Schedule().ItemByID(itemErr.ItemID); ok {
			title = it.Title
		}
		lines = append(lines, m.styles.ModalBodyStyle.Render("Failed on: "+title))
		lines = append(lines, m.styles.ModalWarningStyle.Render(itemErr.Err.Error()))
	} else if m.saveErr != nil {
		lines = append(lines, m.styles.ModalWarningStyle.Render(m.saveErr.Error()))
	}

	lines = append(lines, "", m.styles.ModalBodyStyle.Render("Retry continues from the failed game."))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailModal() string {
	styles := m.styles.ModalStyles()
	it := m.selectedItem()
	if it == nil {
		return ""
	}
	s := m.editor.Schedule()

	fields := []view.Field{
		{Label: "GM", Value: it.GM},
		{Label: "Location", Value: s.OptionLabel(schedule.DimLocation, it.LocationIndex)},
		{Label: "Scheduled", Value: s.ItemTime(it)},
		{Label: "Preferred time", Value: it.PreferredTime},
		{Label: "Special requests", Value: it.SpecialRequests},
	}
	if d := m.editor.Drawing(); d != nil {
		if b, ok := d.Block(it.ID); ok {
			fields = append(fields, view.Field{Label: "On grid", Value: fmt.Sprintf("x %.0f, width %.0f", b.X, b.W)})
		}
	}

	return view.RenderModalFrame(it.Title, view.RenderFields(styles, fields), view.DetailFooter(styles), styles)
}

func (m Model) renderInitModal() string {
	styles := m.styles.ModalStyles()

	var lines []string
	if m.initState.ConfigMissing {
		lines = append(lines, m.styles.ModalBodyStyle.Render("Config will be written to:"), m.styles.ModalLabelStyle.Render(m.initState.ConfigPath), "")
	}
	if m.initState.DBMissing {
		lines = append(lines, m.styles.ModalBodyStyle.Render("Database will be created at:"), m.styles.ModalLabelStyle.Render(m.initState.DBPath), "")
	}
	lines = append(lines, m.styles.ModalBodyStyle.Render("Run `congrid import <fixture.toml>` to load a convention."))
	if m.initError != "" {
		lines = append(lines, "", m.styles.ModalWarningStyle.Render(m.initError))
	}

	return view.RenderModalFrame("Welcome to congrid", strings.Join(lines, "\n"), view.InitFooter(styles), styles)
}
