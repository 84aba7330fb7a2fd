package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

// TeamsPageModel shows crew workload and the citizen leaderboard.
type TeamsPageModel struct {
	width  int
	height int

	workers     []views.WorkerStats
	leaderboard []types.User
	stats       views.Stats

	styles Styles
}

// NewTeamsPageModel creates the teams page.
func NewTeamsPageModel(styles Styles) TeamsPageModel {
	return TeamsPageModel{styles: styles}
}

// Init initializes the model.
func (m TeamsPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages. The page is read-only.
func (m TeamsPageModel) Update(msg tea.Msg) (TeamsPageModel, tea.Cmd) {
	return m, nil
}

// View renders workload, summary stats and leaderboard.
func (m TeamsPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Crew"))
	sb.WriteString("\n")
	for _, ws := range m.workers {
		status := m.styles.Success.Render(string(ws.Worker.Status))
		if ws.Worker.Status != types.WorkerActive {
			status = m.styles.Warning.Render(string(ws.Worker.Status))
		}
		sb.WriteString(fmt.Sprintf("%-16s %s  assigned=%d  completed=%d\n",
			ws.Worker.Name, status, ws.Assigned, ws.Completed))
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render("Summary"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d total  %d open  %d resolved  avg danger %.1f/10\n",
		m.stats.Total, m.stats.Open, m.stats.Resolved, m.stats.AvgDanger))

	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render("Leaderboard"))
	sb.WriteString("\n")
	if len(m.leaderboard) == 0 {
		sb.WriteString(m.styles.Muted.Render("No citizen accounts yet."))
		sb.WriteString("\n")
	}
	for i, u := range m.leaderboard {
		sb.WriteString(fmt.Sprintf("%2d. %-20s %d pts (%d reports)\n", i+1, u.Name, u.Score, u.Reports))
	}
	return sb.String()
}

// SetSize updates the size.
func (m *TeamsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateContent recomputes workload and leaderboard from fresh data.
func (m *TeamsPageModel) UpdateContent(workers []types.Worker, snapshot []types.Report, citizens []types.User) {
	m.workers = views.SummarizeWorkers(workers, snapshot)
	m.leaderboard = views.Leaderboard(citizens)
	m.stats = views.Summarize(snapshot)
}
