package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

// statusFilterCycle is the tab order of the status filter.
var statusFilterCycle = []string{
	types.FilterAll,
	string(types.StatusSubmitted),
	string(types.StatusAcknowledged),
	string(types.StatusInProgress),
	string(types.StatusResolved),
	string(types.StatusRejected),
}

// sortCycle is the order the sort hotkey walks through.
var sortCycle = []types.SortKey{
	"", // unsorted (creation order)
	types.SortByTimestamp,
	types.SortByUpvotes,
	types.SortByDangerScore,
	types.SortByStatus,
	types.SortByWorker,
	types.SortByLocation,
}

// ReportsPageModel is the filterable, sortable, paginated report table.
type ReportsPageModel struct {
	width  int
	height int
	table  table.Model

	// Data
	snapshot   []types.Report
	visible    []types.Report // after filter and sort, before paging
	savedViews []types.SavedView

	// View state
	filters  types.ViewFilters
	sortIdx  int
	sortDesc bool
	page     int
	pageSize int

	searchInput   textinput.Model
	searchFocused bool

	styles Styles
}

// NewReportsPageModel creates the reports table page.
func NewReportsPageModel(pageSize int, styles Styles) ReportsPageModel {
	t := table.New(
		table.WithColumns(reportColumns(100)),
		table.WithFocused(true),
		table.WithHeight(pageSize+1),
	)

	si := textinput.New()
	si.Placeholder = "Search address, description or id..."
	si.CharLimit = 80
	si.Width = 40

	return ReportsPageModel{
		table:       t,
		pageSize:    pageSize,
		page:        1,
		filters:     types.ViewFilters{Status: types.FilterAll, Danger: types.FilterAll, Worker: types.FilterAll},
		searchInput: si,
		styles:      styles,
	}
}

func reportColumns(width int) []table.Column {
	addr := width - 66
	if addr < 20 {
		addr = 20
	}
	return []table.Column{
		{Title: "Address", Width: addr},
		{Title: "Status", Width: 13},
		{Title: "Danger", Width: 9},
		{Title: "Score", Width: 5},
		{Title: "Votes", Width: 5},
		{Title: "Worker", Width: 14},
	}
}

// Init initializes the model.
func (m ReportsPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ReportsPageModel) Update(msg tea.Msg) (ReportsPageModel, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searchFocused {
			switch msg.String() {
			case "enter", "esc":
				m.searchFocused = false
				m.searchInput.Blur()
				return m, nil
			}
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.filters.Search = m.searchInput.Value()
			m.page = 1
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "/":
			m.searchFocused = true
			m.searchInput.Focus()
			return m, nil
		case "tab":
			m.filters.Status = nextInCycle(statusFilterCycle, m.filters.Status)
			m.page = 1
			m.refresh()
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
			m.page = 1
			m.refresh()
		case "v":
			m.cycleSavedView()
		case "S":
			m.sortDesc = !m.sortDesc
			m.page = 1
			m.refresh()
		case "left", "h":
			if m.page > 1 {
				m.page--
				m.refresh()
			}
		case "right", "l":
			if m.page < views.PageCount(len(m.visible), m.pageSize) {
				m.page++
				m.refresh()
			}
		}
	}

	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func nextInCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// SelectedID returns the id of the highlighted report, if any.
func (m ReportsPageModel) SelectedID() (string, bool) {
	rows := views.Page(m.visible, m.page, m.pageSize)
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(rows) {
		return "", false
	}
	return rows[idx].ID, true
}

// Filters returns the current filter state, for saved-view matching.
func (m ReportsPageModel) Filters() types.ViewFilters {
	return m.filters
}

// Sort returns the current sort spec, nil when unsorted.
func (m ReportsPageModel) Sort() *types.SortSpec {
	return m.sortSpec()
}

// cycleSavedView applies the saved view after the one currently matched,
// wrapping around the list.
func (m *ReportsPageModel) cycleSavedView() {
	if len(m.savedViews) == 0 {
		return
	}
	next := 0
	if current, ok := views.MatchView(m.savedViews, m.filters, m.sortSpec()); ok {
		for i, v := range m.savedViews {
			if v.ID == current.ID {
				next = (i + 1) % len(m.savedViews)
				break
			}
		}
	}
	m.ApplyView(m.savedViews[next])
}

// ApplyView replaces the filter and sort state with a saved view.
func (m *ReportsPageModel) ApplyView(v types.SavedView) {
	m.filters = v.Filters
	m.searchInput.SetValue(v.Filters.Search)
	m.sortIdx = 0
	m.sortDesc = false
	if v.Sort != nil {
		for i, k := range sortCycle {
			if k == v.Sort.Key {
				m.sortIdx = i
				break
			}
		}
		m.sortDesc = v.Sort.Dir == types.SortDesc
	}
	m.page = 1
	m.refresh()
}

func (m ReportsPageModel) sortSpec() *types.SortSpec {
	key := sortCycle[m.sortIdx]
	if key == "" {
		return nil
	}
	dir := types.SortAsc
	if m.sortDesc {
		dir = types.SortDesc
	}
	return &types.SortSpec{Key: key, Dir: dir}
}

// refresh recomputes the derived view and table rows.
func (m *ReportsPageModel) refresh() {
	m.visible = views.Sort(views.Apply(m.snapshot, m.filters), m.sortSpec())

	maxPage := views.PageCount(len(m.visible), m.pageSize)
	if m.page > maxPage {
		m.page = maxPage
	}

	var rows []table.Row
	for _, r := range views.Page(m.visible, m.page, m.pageSize) {
		worker := r.WorkerName()
		if worker == "" {
			worker = types.FilterUnassigned
		}
		rows = append(rows, table.Row{
			r.Location.Address,
			string(r.Status),
			string(r.DangerLevel),
			fmt.Sprintf("%.1f", r.DangerScore),
			fmt.Sprintf("%d", r.Upvotes),
			worker,
		})
	}
	m.table.SetRows(rows)
}

// View renders the page.
func (m ReportsPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Reports"))
	sb.WriteString("\n")

	sb.WriteString(m.renderToolbar())
	sb.WriteString("\n\n")
	sb.WriteString(m.table.View())

	pages := views.PageCount(len(m.visible), m.pageSize)
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf(
		"Page %d/%d  |  %d of %d reports  |  [/] search  [tab] status  [s/S] sort  [v] view  [←/→] page",
		m.page, pages, len(m.visible), len(m.snapshot))))
	return sb.String()
}

func (m ReportsPageModel) renderToolbar() string {
	var sb strings.Builder

	if m.searchFocused || m.searchInput.Value() != "" {
		sb.WriteString(m.searchInput.View())
		sb.WriteString("  ")
	}

	sb.WriteString(m.styles.Muted.Render("status="))
	sb.WriteString(m.styles.Bold.Render(m.filters.Status))

	if spec := m.sortSpec(); spec != nil {
		sb.WriteString(m.styles.Muted.Render("  sort="))
		sb.WriteString(m.styles.Bold.Render(fmt.Sprintf("%s %s", spec.Key, spec.Dir)))
	}

	if v, ok := views.MatchView(m.savedViews, m.filters, m.sortSpec()); ok {
		sb.WriteString(m.styles.Muted.Render("  view="))
		sb.WriteString(m.styles.Bold.Render(v.Name))
	}
	return sb.String()
}

// SetSize updates the size.
func (m *ReportsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.table.SetColumns(reportColumns(w - 6))
	m.table.SetWidth(w - 4)
}

// UpdateContent replaces the snapshot and recomputes the view.
func (m *ReportsPageModel) UpdateContent(snapshot []types.Report) {
	m.snapshot = snapshot
	m.refresh()
}

// UpdateViews replaces the saved-view list used by the v hotkey.
func (m *ReportsPageModel) UpdateViews(saved []types.SavedView) {
	m.savedViews = saved
}
