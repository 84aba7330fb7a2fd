package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

// boardCardLimit caps how many cards a column shows before truncating.
const boardCardLimit = 8

// BoardPageModel is the kanban board: one column per lifecycle state.
type BoardPageModel struct {
	width  int
	height int

	board map[types.Status][]types.Report

	styles Styles
}

// NewBoardPageModel creates the board page.
func NewBoardPageModel(styles Styles) BoardPageModel {
	return BoardPageModel{
		board:  views.Board(nil),
		styles: styles,
	}
}

// Init initializes the model.
func (m BoardPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages. The board is read-only.
func (m BoardPageModel) Update(msg tea.Msg) (BoardPageModel, tea.Cmd) {
	return m, nil
}

// View renders the columns side by side.
func (m BoardPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Board"))
	sb.WriteString("\n")

	colWidth := m.width/len(types.StatusOrder) - 3
	if colWidth < 18 {
		colWidth = 18
	}

	cols := make([]string, 0, len(types.StatusOrder))
	for _, status := range types.StatusOrder {
		cols = append(cols, m.renderColumn(status, colWidth))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	return sb.String()
}

func (m BoardPageModel) renderColumn(status types.Status, width int) string {
	reports := m.board[status]

	var sb strings.Builder
	sb.WriteString(m.styles.StatusBadge(status))
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf(" (%d)", len(reports))))
	sb.WriteString("\n")

	shown := reports
	if len(shown) > boardCardLimit {
		shown = shown[:boardCardLimit]
	}
	for _, r := range shown {
		card := fmt.Sprintf("%s\n%s  %s",
			truncate(r.Location.Address, width-4),
			m.styles.DangerText(r.DangerLevel),
			m.styles.Muted.Render(fmt.Sprintf("▲%d", r.Upvotes)))
		sb.WriteString(m.styles.Card.Width(width).Render(card))
		sb.WriteString("\n")
	}
	if hidden := len(reports) - len(shown); hidden > 0 {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("+%d more", hidden)))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width + 3).Render(sb.String())
}

// truncate cuts on rune boundaries so multi-byte addresses render cleanly.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// SetSize updates the size.
func (m *BoardPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateContent regroups the snapshot into columns.
func (m *BoardPageModel) UpdateContent(snapshot []types.Report) {
	m.board = views.Board(snapshot)
}
