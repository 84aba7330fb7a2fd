package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

// FeedPageModel shows the cross-report activity feed next to the
// notification log.
type FeedPageModel struct {
	width  int
	height int

	feed          []views.FeedItem
	notifications []types.Notification

	styles Styles
}

// NewFeedPageModel creates the activity page.
func NewFeedPageModel(styles Styles) FeedPageModel {
	return FeedPageModel{styles: styles}
}

// Init initializes the model.
func (m FeedPageModel) Init() tea.Cmd {
	return nil
}

// MarkAllReadMsg is emitted when the user presses r on the feed page.
type MarkAllReadMsg struct{}

// Update handles messages.
func (m FeedPageModel) Update(msg tea.Msg) (FeedPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" {
		return m, func() tea.Msg { return MarkAllReadMsg{} }
	}
	return m, nil
}

// View renders the two columns stacked.
func (m FeedPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Activity"))
	sb.WriteString("\n")
	if len(m.feed) == 0 {
		sb.WriteString(m.styles.Muted.Render("No activity yet."))
		sb.WriteString("\n")
	}
	for _, item := range m.feed {
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n",
			m.styles.Muted.Render(item.Activity.Timestamp.Format("01-02 15:04")),
			m.styles.Bold.Render(truncate(item.ReportAddress, 28)),
			item.Activity.Message))
	}

	unread := 0
	for _, n := range m.notifications {
		if !n.Read {
			unread++
		}
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Notifications (%d unread)", unread)))
	sb.WriteString("\n")
	if len(m.notifications) == 0 {
		sb.WriteString(m.styles.Muted.Render("No notifications."))
		sb.WriteString("\n")
	}
	for _, n := range m.notifications {
		marker := m.styles.Muted.Render("·")
		if !n.Read {
			marker = m.styles.Warning.Render("●")
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n",
			marker,
			m.styles.Muted.Render(n.Timestamp.Format("01-02 15:04")),
			n.Message))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("[r] mark all read"))
	return sb.String()
}

// SetSize updates the size.
func (m *FeedPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateContent recomputes the feed and replaces the notification list.
func (m *FeedPageModel) UpdateContent(snapshot []types.Report, notifications []types.Notification) {
	m.feed = views.Feed(snapshot)
	m.notifications = notifications
}
