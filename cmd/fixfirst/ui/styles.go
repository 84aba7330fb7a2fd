// Package ui provides the visual styling and pages for the FixFirst
// interactive dashboard.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fixfirst/internal/types"
)

// Color palette
var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#f6f7f8")
	LightForeground = lipgloss.Color("#1a2332")
	LightPrimary    = lipgloss.Color("#1d4ed8") // Civic blue
	LightAccent     = lipgloss.Color("#f59e0b") // Road-work amber
	LightSecondary  = lipgloss.Color("#e2e6ea")
	LightMuted      = lipgloss.Color("#8a94a3")
	LightBorder     = lipgloss.Color("#d8dde3")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#11161f")
	DarkForeground = lipgloss.Color("#eceff3")
	DarkPrimary    = lipgloss.Color("#60a5fa")
	DarkAccent     = lipgloss.Color("#fbbf24")
	DarkSecondary  = lipgloss.Color("#1c2533")
	DarkMuted      = lipgloss.Color("#5b677a")
	DarkBorder     = lipgloss.Color("#2a3547")
	DarkCard       = lipgloss.Color("#18202e")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// statusColors maps lifecycle states to their badge colors.
var statusColors = map[types.Status]lipgloss.Color{
	types.StatusSubmitted:    Info,
	types.StatusAcknowledged: lipgloss.Color("#7e57c2"),
	types.StatusInProgress:   Warning,
	types.StatusResolved:     Success,
	types.StatusRejected:     Destructive,
}

// dangerColors maps danger levels to text colors.
var dangerColors = map[types.DangerLevel]lipgloss.Color{
	types.DangerLow:      Success,
	types.DangerMedium:   Warning,
	types.DangerHigh:     lipgloss.Color("#fb8c00"),
	types.DangerCritical: Destructive,
}

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeByName resolves the configured theme name.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Card      lipgloss.Style
	Badge     lipgloss.Style
	Divider   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		Card: lipgloss.NewStyle().
			Background(theme.Card).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// StatusBadge renders a status with its lifecycle color.
func (s Styles) StatusBadge(status types.Status) string {
	color, ok := statusColors[status]
	if !ok {
		color = s.Theme.Muted
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(status))
}

// DangerText renders a danger level with its severity color.
func (s Styles) DangerText(level types.DangerLevel) string {
	color, ok := dangerColors[level]
	if !ok {
		color = s.Theme.Muted
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(level))
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
