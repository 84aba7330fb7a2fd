package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fixfirst/internal/ai"
	"fixfirst/internal/store"
	"fixfirst/internal/types"
)

// page indexes the dashboard tabs.
type page int

const (
	pageReports page = iota
	pageBoard
	pageFeed
	pageTeams
	pageAssistant
	pageCount
)

var pageNames = []string{"Reports", "Board", "Activity", "Teams", "Assistant"}

// SnapshotMsg is sent by the store subscription whenever the report
// collection changes.
type SnapshotMsg struct {
	Reports []types.Report
}

// ConfigChangedMsg is sent by the config watcher on a live reload.
type ConfigChangedMsg struct {
	Theme    string
	PageSize int
}

// AppModel is the root dashboard model. It owns the tab bar and routes
// messages to the active page.
type AppModel struct {
	width  int
	height int
	active page

	store    *store.Store
	accounts *store.Accounts
	workers  []types.Worker

	reports   ReportsPageModel
	board     BoardPageModel
	feed      FeedPageModel
	teams     TeamsPageModel
	assistant AssistantPageModel

	styles Styles
}

// NewAppModel creates the dashboard with the initial snapshot loaded.
func NewAppModel(st *store.Store, accounts *store.Accounts, gateway ai.Gateway, pageSize int, theme string) AppModel {
	styles := NewStyles(ThemeByName(theme))

	m := AppModel{
		store:     st,
		accounts:  accounts,
		workers:   store.DemoWorkers(),
		reports:   NewReportsPageModel(pageSize, styles),
		board:     NewBoardPageModel(styles),
		feed:      NewFeedPageModel(styles),
		teams:     NewTeamsPageModel(styles),
		assistant: NewAssistantPageModel(gateway, styles),
		styles:    styles,
	}
	m.refresh(st.All())
	return m
}

// Init initializes the model.
func (m AppModel) Init() tea.Cmd {
	return m.assistant.Init()
}

// refresh pushes a fresh snapshot into every page.
func (m *AppModel) refresh(snapshot []types.Report) {
	m.reports.UpdateViews(m.store.SavedViews())
	m.reports.UpdateContent(snapshot)
	m.board.UpdateContent(snapshot)
	m.feed.UpdateContent(snapshot, m.store.Notifications())
	m.teams.UpdateContent(m.workers, snapshot, m.accounts.Citizens())
	m.assistant.UpdateContent(snapshot)
}

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		content := msg.Height - 4
		m.reports.SetSize(msg.Width, content)
		m.board.SetSize(msg.Width, content)
		m.feed.SetSize(msg.Width, content)
		m.teams.SetSize(msg.Width, content)
		m.assistant.SetSize(msg.Width, content)
		return m, nil

	case SnapshotMsg:
		m.refresh(msg.Reports)
		return m, nil

	case ConfigChangedMsg:
		m.styles = NewStyles(ThemeByName(msg.Theme))
		m.reports.styles = m.styles
		m.board.styles = m.styles
		m.feed.styles = m.styles
		m.teams.styles = m.styles
		m.assistant.styles = m.styles
		if msg.PageSize > 0 && msg.PageSize != m.reports.pageSize {
			m.reports.pageSize = msg.PageSize
			m.reports.refresh()
		}
		return m, nil

	case MarkAllReadMsg:
		m.store.MarkAllRead()
		m.feed.UpdateContent(m.store.All(), m.store.Notifications())
		return m, nil

	case tea.KeyMsg:
		// The assistant input consumes plain keys; only global chords apply
		typing := m.active == pageAssistant || m.reports.searchFocused
		switch msg.String() {
		case "ctrl+c":
			m.assistant.cancelStream()
			return m, tea.Quit
		case "q":
			if !typing {
				m.assistant.cancelStream()
				return m, tea.Quit
			}
		case "1", "2", "3", "4", "5":
			if !typing {
				m.active = page(int(msg.String()[0] - '1'))
				return m, nil
			}
		case "ctrl+right":
			m.active = (m.active + 1) % pageCount
			return m, nil
		case "ctrl+left":
			m.active = (m.active + pageCount - 1) % pageCount
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case pageReports:
		m.reports, cmd = m.reports.Update(msg)
	case pageBoard:
		m.board, cmd = m.board.Update(msg)
	case pageFeed:
		m.feed, cmd = m.feed.Update(msg)
	case pageTeams:
		m.teams, cmd = m.teams.Update(msg)
	case pageAssistant:
		m.assistant, cmd = m.assistant.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the tab bar, active page and footer.
func (m AppModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(" FixFirst "))
	sb.WriteString("  ")
	for i, name := range pageNames {
		style := m.styles.Tab
		if page(i) == m.active {
			style = m.styles.ActiveTab
		}
		sb.WriteString(style.Render(name))
	}
	if unread := m.store.UnreadCount(); unread > 0 {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Badge.Render(fmt.Sprintf("%d unread", unread)))
	}
	sb.WriteString("\n\n")

	switch m.active {
	case pageReports:
		sb.WriteString(m.reports.View())
	case pageBoard:
		sb.WriteString(m.board.View())
	case pageFeed:
		sb.WriteString(m.feed.View())
	case pageTeams:
		sb.WriteString(m.teams.View())
	case pageAssistant:
		sb.WriteString(m.assistant.View())
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render("[1-5] pages  [q] quit"))
	return sb.String()
}
