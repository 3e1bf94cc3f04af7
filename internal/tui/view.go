package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/congrid/internal/schedule"
	"github.com/javiermolinar/congrid/internal/tui/view"
)

const (
	titleHeight = 2 // title line and a spacer
	tableChrome = 4 // top border, header, header rule, bottom border
)

// Column content widths, excluding cell padding.
const (
	minTitleWidth  = 12
	maxSelectWidth = 20
	whenWidth      = 24
)

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	base := m.renderAppContent()
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	modal := ""
	if showModal {
		modal = m.renderModal()
		m.overlay.active = true
		m.overlay.SetBackground(m.styles.ModalBackdropColor)
	} else {
		m.overlay.active = false
	}

	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      base,
		ModalContent:     modal,
		ShowModal:        showModal,
		Overlay:          m.overlay,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	innerW, innerH := m.innerSize()
	if innerW <= 0 || innerH <= 0 {
		return "Terminal too small"
	}

	footerH := m.footerHeight()
	gridH := max(0, innerH-titleHeight-footerH)

	title := view.PlaceBox(innerW, titleHeight, lipgloss.Top, m.renderTitle(innerW), m.styles.colorBg)
	var body string
	switch {
	case m.editor == nil && m.loading:
		body = view.PlaceBox(innerW, gridH, lipgloss.Top, m.styles.HelpStyle.Render("Loading schedule..."), m.styles.colorBg)
	case m.editor == nil:
		body = view.PlaceBox(innerW, gridH, lipgloss.Top, m.styles.HelpStyle.Render("No schedule loaded"), m.styles.colorBg)
	default:
		body = view.RenderTable(m.tableViewState(innerW, gridH))
	}
	footer := view.RenderFooter(view.FooterViewState{
		InnerW:      innerW,
		FooterH:     footerH,
		StatusText:  m.statusText(),
		HelpText:    m.help.View(m.keys),
		StatusStyle: m.statusStyle(),
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	})

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle(width int) string {
	parts := []string{m.styles.TitleStyle.Render("congrid")}
	if m.editor != nil {
		s := m.editor.Schedule()
		d := m.editor.Drawing()
		meta := fmt.Sprintf(" %d games, %d locations, %.0fpx", len(s.Items), len(s.Locations), m.editor.Width())
		if d != nil && len(d.Skipped) > 0 {
			meta += fmt.Sprintf(", %d not scheduled", len(d.Skipped))
		}
		parts = append(parts, m.styles.MetaStyle.Render(meta))
		if m.editor.Dirty() {
			parts = append(parts, m.styles.MetaStyle.Render(" "), m.styles.DirtyStyle.Render("unsaved"))
		}
	}
	return view.Fit(strings.Join(parts, ""), width)
}

func (m Model) tableViewState(innerW, gridH int) view.TableViewState {
	headers := []string{"Game"}
	for _, d := range schedule.Dimensions {
		headers = append(headers, d.Label())
	}
	headers = append(headers, "When")

	rows, cellStyles := m.buildTableRows(m.columnWidths(innerW), m.visibleRows())

	return view.TableViewState{
		Width:       innerW,
		Height:      gridH,
		Headers:     headers,
		HeaderStyle: m.styles.HeaderStyle,
		Rows:        rows,
		CellStyles:  cellStyles,
		BorderStyle: m.styles.BorderStyle,
		Bg:          m.styles.colorBg,
	}
}

// columnWidths returns content widths for the title, the three selectors and
// the combined time column. The title takes whatever the others leave.
func (m Model) columnWidths(innerW int) []int {
	widths := make([]int, 0, len(schedule.Dimensions)+2)
	widths = append(widths, 0)

	s := m.editor.Schedule()
	used := 0
	for _, d := range schedule.Dimensions {
		w := lipgloss.Width(schedule.NotSelectedLabel)
		for _, opt := range s.Options(d) {
			w = max(w, lipgloss.Width(opt.Label))
		}
		w = min(w, maxSelectWidth)
		widths = append(widths, w)
		used += w
	}
	widths = append(widths, whenWidth)
	used += whenWidth

	// Each column adds two cells of padding and one border.
	frame := len(widths)*3 + 1
	widths[0] = max(minTitleWidth, innerW-used-frame)
	return widths
}

func (m Model) buildTableRows(widths []int, visible int) ([][]string, [][]lipgloss.Style) {
	rows := m.editor.Rows()
	start := min(m.scrollOffset, len(rows))
	end := min(len(rows), start+max(0, visible))

	drawing := m.editor.Drawing()
	s := m.editor.Schedule()

	cells := make([][]string, 0, end-start)
	styles := make([][]lipgloss.Style, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]
		it := row.Item

		line := []string{view.Fit(it.Title, widths[0])}
		for j, sel := range row.Selectors {
			line = append(line, view.Fit(sel.Label(), widths[j+1]))
		}
		line = append(line, view.Fit(s.ItemTime(it), widths[len(widths)-1]))
		cells = append(cells, line)

		base := m.styles.CellStyle
		if i%2 == 1 {
			base = m.styles.CellAltStyle
		}
		if drawing != nil {
			if _, drawn := drawing.Block(it.ID); !drawn {
				base = m.styles.UnscheduledStyle
			}
		}

		if i == m.cursor.Row {
			base = m.styles.RowCursorStyle
			if i%2 == 1 {
				base = m.styles.RowCursorAltStyle
			}
		}
		rowStyles := make([]lipgloss.Style, len(line))
		for c := range rowStyles {
			rowStyles[c] = base
		}
		if i == m.cursor.Row {
			cursor := m.styles.CursorStyle
			if m.mode == ModeSaving {
				cursor = m.styles.CursorLockedStyle
			}
			rowStyles[m.cursor.Col+1] = cursor
		}
		styles = append(styles, rowStyles)
	}
	return cells, styles
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.editor == nil {
		return ""
	}
	if it := m.selectedItem(); it != nil {
		return fmt.Sprintf("%d/%d  %s", m.cursor.Row+1, len(m.editor.Rows()), it.Title)
	}
	return ""
}

func (m Model) statusStyle() lipgloss.Style {
	if m.statusErr {
		return m.styles.ErrorStyle
	}
	return m.styles.StatusStyle
}

func (m Model) innerSize() (int, int) {
	frameW, frameH := m.styles.AppStyle.GetFrameSize()
	return m.width - frameW, m.height - frameH
}

// footerHeight is the status line plus the help, which grows when expanded.
func (m Model) footerHeight() int {
	return 1 + strings.Count(m.help.View(m.keys), "\n") + 1
}

// visibleRows is the number of table rows that fit on screen.
func (m Model) visibleRows() int {
	_, innerH := m.innerSize()
	return max(0, innerH-titleHeight-m.footerHeight()-tableChrome)
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if visible <= 0 {
		m.scrollOffset = 0
		return
	}
	if m.cursor.Row < m.scrollOffset {
		m.scrollOffset = m.cursor.Row
	}
	if m.cursor.Row >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Row - visible + 1
	}
	m.scrollOffset = max(0, m.scrollOffset)
}

func (m *Model) clampCursor() {
	n := 0
	if m.editor != nil {
		n = len(m.editor.Rows())
	}
	m.cursor.Row = max(0, min(m.cursor.Row, n-1))
	m.cursor.Col = max(0, min(m.cursor.Col, len(schedule.Dimensions)-1))
	m.ensureCursorVisible()
}
