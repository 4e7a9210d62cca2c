package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#656d76", Dark: "#8b949e"}
	colorError  = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
)

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	App        lipgloss.Style
	Brand      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Breadcrumb lipgloss.Style
	Folder     lipgloss.Style
	Link       lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App:        lipgloss.NewStyle().Padding(0, 1),
		Brand:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Tab:        lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		ActiveTab:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true),
		Breadcrumb: lipgloss.NewStyle().Foreground(colorMuted),
		Folder:     lipgloss.NewStyle().Bold(true),
		Link:       lipgloss.NewStyle(),
		Selected:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(colorMuted),
		Status:     lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(colorError),
	}
}
